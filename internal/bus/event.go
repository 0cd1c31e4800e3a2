package bus

import (
	"strings"
	"time"
)

// Event is a notification published on the bus. Kind is a dotted topic such
// as "query.shloks.loaded" or "session.logout".
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Topic joins dotted topic segments: Topic("query", "shloks", "loaded").
func Topic(parts ...string) string {
	return strings.Join(parts, ".")
}

// Package crud runs single mutating calls against the backend and refreshes
// the owning list on success.
package crud

import (
	"context"
	"fmt"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"go.uber.org/zap"
)

// Verb names a mutation for messages and events.
type Verb string

const (
	Create Verb = "create"
	Add    Verb = "add"
	Update Verb = "update"
	Delete Verb = "delete"
)

var pastTense = map[Verb]string{
	Create: "created",
	Add:    "added",
	Update: "updated",
	Delete: "deleted",
}

// Command is one mutation. Noun is the record name used in the success
// message ("shlok", "video link"). Fallback replaces the default
// "Failed to <verb> <noun>" when the server gives no message. Run must make
// exactly one call.
type Command struct {
	Verb     Verb
	Noun     string
	Fallback string
	Run      func(ctx context.Context) error
}

// Result is reported back to the caller. Exactly one of Message and Error is set.
type Result struct {
	OK      bool
	Message string
	Error   string
}

// Refresher re-issues a list's current query.
type Refresher interface {
	Refetch(ctx context.Context)
}

// Executor runs commands for one resource.
type Executor struct {
	resource string
	list     Refresher
	bus      *bus.Bus
	logger   *zap.Logger
}

// NewExecutor creates an executor that refreshes list after every success.
// list may be nil.
func NewExecutor(resource string, list Refresher, b *bus.Bus, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		resource: resource,
		list:     list,
		bus:      b,
		logger:   logger.Named("crud").With(zap.String("resource", resource)),
	}
}

// Execute runs cmd. On failure the list is left untouched.
func (e *Executor) Execute(ctx context.Context, cmd Command) Result {
	err := cmd.Run(ctx)
	if err != nil {
		fallback := cmd.Fallback
		if fallback == "" {
			fallback = fmt.Sprintf("Failed to %s %s", cmd.Verb, cmd.Noun)
		}
		msg := api.Message(err, fallback)
		e.logger.Warn("command failed", zap.String("verb", string(cmd.Verb)), zap.Error(err))
		e.bus.Emit(bus.Topic("command", e.resource, "failed"), msg)
		return Result{Error: msg}
	}

	msg := fmt.Sprintf("%s %s successfully", capitalize(cmd.Noun), pastTense[cmd.Verb])
	e.logger.Info("command succeeded", zap.String("verb", string(cmd.Verb)))
	e.bus.Emit(bus.Topic("command", e.resource, "succeeded"), cmd.Verb)
	if e.list != nil {
		e.list.Refetch(ctx)
	}
	return Result{OK: true, Message: msg}
}

// ShlokPosition converts a row on the visible page to the absolute,
// zero-based position the content routes address.
func ShlokPosition(page, pageSize, row int) int {
	return (page-1)*pageSize + row
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

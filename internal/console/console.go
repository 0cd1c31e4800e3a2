// Package console assembles the resource pages of the admin console: one
// list controller and command executor per resource, plus analytics.
package console

import (
	"github.com/matheus3301/shlokadmin/internal/analytics"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/session"
	"go.uber.org/zap"
)

// Backend is every endpoint the console pages use.
type Backend interface {
	ShlokService
	VideoService
	UserService
	analytics.Source
}

// Failure is a read error carrying the message shown to the operator.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Console groups the session and the four resource pages.
type Console struct {
	Session   *session.Store
	Shloks    *Shloks
	Videos    *Videos
	Users     *Users
	Analytics *Analytics
}

// New builds every page over backend. pageSize applies to the paginated lists.
func New(backend Backend, sess *session.Store, pageSize int, b *bus.Bus, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		Session:   sess,
		Shloks:    NewShloks(backend, pageSize, b, logger),
		Videos:    NewVideos(backend, b, logger),
		Users:     NewUsers(backend, pageSize, b, logger),
		Analytics: NewAnalytics(backend, logger),
	}
}

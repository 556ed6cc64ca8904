package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/harunnryd/scriba/pkg/logging"
)

// Supervisor owns one session's lifecycle for a streaming connection.
// Whatever triggers teardown (done control message, disconnect, or a
// handler error), it guarantees the loop is cancelled and awaited,
// exactly one final emission is attempted, and the transport is closed
// exactly once.
type Supervisor struct {
	sess           *Session
	closeTransport func() error
	log            *slog.Logger
	once           sync.Once
}

func NewSupervisor(sess *Session, closeTransport func() error) *Supervisor {
	return &Supervisor{
		sess:           sess,
		closeTransport: closeTransport,
		log:            logging.NewComponentLogger(slog.Default(), "session_supervisor"),
	}
}

func (sv *Supervisor) Session() *Session { return sv.sess }

// Teardown drains the session and closes the transport. Idempotent;
// the transport is closed even when draining panics.
func (sv *Supervisor) Teardown(ctx context.Context) {
	sv.once.Do(func() {
		defer func() {
			if p := recover(); p != nil {
				sv.log.Error("teardown_panic", "session_id", sv.sess.ID(), "panic", p)
			}
			if sv.closeTransport != nil {
				_ = sv.closeTransport()
			}
		}()
		sv.sess.Drain(ctx)
	})
}

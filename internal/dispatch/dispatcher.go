// Package dispatch reacts to the error codes the envelope decoder reports.
//
// A Dispatcher is installed as the decoder's notifier. It logs every code it
// sees and runs the reactions registered for it. Code 1002 (user not found)
// signs the user out.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cellgit/BearBasic/internal/envelope"
)

// Ensure Dispatcher implements envelope.Notifier at compile time.
var _ envelope.Notifier = (*Dispatcher)(nil)

const reactionTimeout = 5 * time.Second

// Reaction runs when its code is reported. A returned error is logged.
type Reaction func(ctx context.Context, code int, message string) error

// LogoutFunc ends the current session.
type LogoutFunc func(ctx context.Context) error

// Dispatcher fans reported codes out to registered reactions.
type Dispatcher struct {
	logger *slog.Logger

	mu        sync.RWMutex
	reactions map[int][]Reaction
}

// New builds a Dispatcher. When logout is non-nil it is registered for
// CodeUserNotFound.
func New(logout LogoutFunc, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		logger:    logger,
		reactions: make(map[int][]Reaction),
	}
	if logout != nil {
		d.Handle(CodeUserNotFound, func(ctx context.Context, _ int, _ string) error {
			return logout(ctx)
		})
	}
	return d
}

// Handle registers fn for code. Reactions run in registration order.
func (d *Dispatcher) Handle(code int, fn Reaction) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reactions[code] = append(d.reactions[code], fn)
}

// Notify logs code and runs its reactions synchronously. Reaction failures
// are logged and never propagate to the caller.
func (d *Dispatcher) Notify(code int, message string) {
	switch {
	case code == CodeSuccess:
		d.logger.Debug("api result", "code", code, "message", message)
	default:
		attrs := []any{"code", code, "message", message}
		if known, ok := Message(code); ok {
			attrs = append(attrs, "description", known)
		}
		d.logger.Warn("api error", attrs...)
	}

	d.mu.RLock()
	reactions := append([]Reaction(nil), d.reactions[code]...)
	d.mu.RUnlock()
	if len(reactions) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reactionTimeout)
	defer cancel()
	for _, react := range reactions {
		if err := react(ctx, code, message); err != nil {
			d.logger.Error("error reaction failed", "code", code, "error", err)
		}
	}
}

// Package waiter implements the response wait primitive: suspend a flow until
// an inbound message satisfying a predicate arrives, or a timeout elapses.
package waiter

import (
	"context"
	"sync"
	"time"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
)

// Matcher decides whether an inbound message resolves a pending wait.
type Matcher func(domain.Message) bool

// FromMemberInChannel matches messages from a specific member in a specific
// channel. Used by the operator-facing configuration flows.
func FromMemberInChannel(ch domain.ChannelRef, member domain.UserRef) Matcher {
	return func(m domain.Message) bool {
		return m.Channel.ID == ch.ID && m.Author.ID == member.ID
	}
}

// FromUserInDM matches messages from a specific user arriving on any
// direct-message channel. Used by the recipient-facing interview.
func FromUserInDM(user domain.UserRef) Matcher {
	return func(m domain.Message) bool {
		return m.Channel.IsDM() && m.Author.ID == user.ID
	}
}

// pending is a registered wait. The channel is buffered so that Dispatch
// never blocks; resolved guards single resolution.
type pending struct {
	match    Matcher
	resolved bool
	ch       chan domain.Message
}

// Waiter routes inbound messages to suspended waits. Messages dispatched
// while no matching wait is registered are dropped: there is no backlog.
type Waiter struct {
	mu      sync.Mutex
	seq     uint64
	pending map[uint64]*pending
}

// New creates an empty Waiter.
func New() *Waiter {
	return &Waiter{pending: make(map[uint64]*pending)}
}

// Dispatch offers an inbound message to the earliest registered matching
// wait. At most one wait is resolved per message.
func (w *Waiter) Dispatch(msg domain.Message) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var best *pending
	var bestID uint64
	for id, p := range w.pending {
		if p.resolved || !p.match(msg) {
			continue
		}
		if best == nil || id < bestID {
			best, bestID = p, id
		}
	}
	if best != nil {
		best.resolved = true
		best.ch <- msg
	}
}

// Wait suspends until a message matching m is dispatched, the timeout
// elapses, or ctx is cancelled. A timeout yields domain.ErrTimeout; it is an
// expected outcome, not a fault.
func (w *Waiter) Wait(ctx context.Context, m Matcher, timeout time.Duration) (*domain.Message, error) {
	p := &pending{match: m, ch: make(chan domain.Message, 1)}

	w.mu.Lock()
	w.seq++
	id := w.seq
	w.pending[id] = p
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.pending, id)
		w.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-p.ch:
		return &msg, nil
	case <-timer.C:
		return nil, domain.ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending returns the number of registered waits. Exposed for the admin
// surface and tests.
func (w *Waiter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

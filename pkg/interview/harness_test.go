package interview_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/waiter"
)

// fakeTransport records every send in order.
type fakeTransport struct {
	mu        sync.Mutex
	seq       int
	sent      []sentMessage
	summaries []domain.Summary
	pinned    []string
	sendErr   error
}

type sentMessage struct {
	Channel domain.ChannelRef
	Author  domain.UserRef
	Content string
}

func (f *fakeTransport) Send(ctx context.Context, ch domain.ChannelRef, msg domain.OutgoingMessage) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.seq++
	f.sent = append(f.sent, sentMessage{Channel: ch, Author: msg.Author, Content: msg.Content})
	return &domain.Message{
		ID:      fmt.Sprintf("out-%d", f.seq),
		Channel: ch,
		Author:  msg.Author,
		Content: msg.Content,
	}, nil
}

func (f *fakeTransport) SendSummary(ctx context.Context, ch domain.ChannelRef, s domain.Summary) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.summaries = append(f.summaries, s)
	return &domain.Message{ID: fmt.Sprintf("out-%d", f.seq), Channel: ch}, nil
}

func (f *fakeTransport) Pin(ctx context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pinned = append(f.pinned, msg.ID)
	return nil
}

func (f *fakeTransport) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeTransport) contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.Content
	}
	return out
}

// fakeThreads records close and relocate calls.
type fakeThreads struct {
	mu        sync.Mutex
	closed    []closeCall
	relocated []relocateCall
}

type closeCall struct {
	Thread domain.Thread
	Closer domain.UserRef
	Reason string
}

type relocateCall struct {
	Thread domain.Thread
	Dest   domain.CategoryRef
}

func (f *fakeThreads) Close(ctx context.Context, t domain.Thread, closer domain.UserRef, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, closeCall{Thread: t, Closer: closer, Reason: reason})
	return nil
}

func (f *fakeThreads) Relocate(ctx context.Context, t domain.Thread, dest domain.CategoryRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.relocated = append(f.relocated, relocateCall{Thread: t, Dest: dest})
	return nil
}

// fakeCategories resolves from a fixed map.
type fakeCategories struct {
	known map[string]domain.CategoryRef
}

func (f *fakeCategories) ResolveCategory(ctx context.Context, id string) (*domain.CategoryRef, error) {
	if cat, ok := f.known[id]; ok {
		return &cat, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// respondAfter blocks until the transport has sent wantSends messages and a
// wait is registered, then dispatches msg. Registration happens strictly
// after the send, so the combined condition cannot fire for a stale wait.
func respondAfter(t *testing.T, w *waiter.Waiter, tr *fakeTransport, wantSends int, msg domain.Message) {
	t.Helper()
	require.Eventually(t, func() bool {
		return tr.sendCount() >= wantSends && w.Pending() == 1
	}, 2*time.Second, time.Millisecond)
	w.Dispatch(msg)
}

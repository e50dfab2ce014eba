package interview_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/adapters/memory"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/interview"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/waiter"
)

var (
	operator    = domain.UserRef{ID: "mod-1", Name: "Moderator"}
	cmdChannel  = domain.ChannelRef{ID: "staff-1", Kind: domain.ChannelText}
	appealsCat  = domain.CategoryRef{ID: "cat-appeals", Name: "Appeals"}
	setupScope  = "guild-1"
	setupInvoke = interview.Invocation{Channel: cmdChannel, Operator: operator, Scope: setupScope, MoveTo: appealsCat}
)

func operatorReply(content string) domain.Message {
	return domain.Message{ID: "op-" + content, Channel: cmdChannel, Author: operator, Content: content}
}

func newTestSetup(store *memory.Store, tr *fakeTransport, w *waiter.Waiter) *interview.Setup {
	return interview.NewSetup(store, tr, w, bot,
		interview.WithSetupTimeout(200*time.Millisecond))
}

func assertNothingPersisted(t *testing.T, store *memory.Store) {
	t.Helper()
	_, err := store.Find(context.Background(), setupScope)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound), "abort paths must not persist anything")
}

func TestConfigureQuestions_HappyPath(t *testing.T) {
	store := memory.NewStore()
	tr := &fakeTransport{}
	w := waiter.New()
	s := newTestSetup(store, tr, w)

	done := make(chan error, 1)
	go func() { done <- s.ConfigureQuestions(context.Background(), setupInvoke) }()

	respondAfter(t, w, tr, 1, operatorReply("2"))
	respondAfter(t, w, tr, 2, operatorReply("Why were you banned?"))
	respondAfter(t, w, tr, 3, operatorReply("Why should we unban you?"))

	require.NoError(t, <-done)

	assert.Equal(t, []string{
		"How many questions do you have?",
		"What's question #1?",
		"What's question #2?",
		"Saved",
	}, tr.contents())

	cfg, err := store.Find(context.Background(), setupScope)
	require.NoError(t, err)
	assert.Equal(t, []string{"Why were you banned?", "Why should we unban you?"}, cfg.Questions)
	assert.Equal(t, "cat-appeals", cfg.MoveTo)
}

func TestConfigureQuestions_NonIntegerCount(t *testing.T) {
	store := memory.NewStore()
	tr := &fakeTransport{}
	w := waiter.New()
	s := newTestSetup(store, tr, w)

	done := make(chan error, 1)
	go func() { done <- s.ConfigureQuestions(context.Background(), setupInvoke) }()
	respondAfter(t, w, tr, 1, operatorReply("abc"))

	require.NoError(t, <-done)
	assert.Equal(t, []string{"How many questions do you have?", "Invalid input."}, tr.contents())
	assertNothingPersisted(t, store)
}

func TestConfigureQuestions_NonPositiveCount(t *testing.T) {
	store := memory.NewStore()
	tr := &fakeTransport{}
	w := waiter.New()
	s := newTestSetup(store, tr, w)

	done := make(chan error, 1)
	go func() { done <- s.ConfigureQuestions(context.Background(), setupInvoke) }()
	respondAfter(t, w, tr, 1, operatorReply("0"))

	require.NoError(t, <-done)
	assert.Equal(t, "Invalid input.", tr.contents()[len(tr.contents())-1])
	assertNothingPersisted(t, store)
}

func TestConfigureQuestions_EmptyQuestionAborts(t *testing.T) {
	store := memory.NewStore()
	tr := &fakeTransport{}
	w := waiter.New()
	s := newTestSetup(store, tr, w)

	done := make(chan error, 1)
	go func() { done <- s.ConfigureQuestions(context.Background(), setupInvoke) }()
	respondAfter(t, w, tr, 1, operatorReply("2"))
	respondAfter(t, w, tr, 2, operatorReply(""))

	require.NoError(t, <-done)
	assert.Equal(t, "Question must be text-only.", tr.contents()[len(tr.contents())-1])
	assertNothingPersisted(t, store)
}

func TestConfigureQuestions_TimeoutDiscardsPartialInput(t *testing.T) {
	store := memory.NewStore()
	tr := &fakeTransport{}
	w := waiter.New()
	s := newTestSetup(store, tr, w)

	done := make(chan error, 1)
	go func() { done <- s.ConfigureQuestions(context.Background(), setupInvoke) }()
	respondAfter(t, w, tr, 1, operatorReply("3"))
	respondAfter(t, w, tr, 2, operatorReply("Q1"))
	// No reply to question #2: the wait times out.

	require.NoError(t, <-done)
	assert.Equal(t, "Timed out.", tr.contents()[len(tr.contents())-1])
	assertNothingPersisted(t, store)
}

func TestConfigureOutro_PreservesQuestions(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.UpsertMerge(context.Background(), setupScope, map[string]any{
		domain.FieldQuestions: []string{"Q1"},
		domain.FieldMoveTo:    "cat-old",
	}))

	tr := &fakeTransport{}
	w := waiter.New()
	s := newTestSetup(store, tr, w)

	done := make(chan error, 1)
	go func() { done <- s.ConfigureOutro(context.Background(), setupInvoke) }()
	respondAfter(t, w, tr, 1, operatorReply("Thanks, a moderator will be with you shortly."))

	require.NoError(t, <-done)
	assert.Equal(t, []string{"Type the outro you want", "Saved"}, tr.contents())

	cfg, err := store.Find(context.Background(), setupScope)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1"}, cfg.Questions, "setting the outro must not drop questions")
	assert.Equal(t, "Thanks, a moderator will be with you shortly.", cfg.Outro)
	assert.Equal(t, "cat-appeals", cfg.MoveTo, "move_to is updated alongside")
}

func TestConfigureIntro_EmptyAborts(t *testing.T) {
	store := memory.NewStore()
	tr := &fakeTransport{}
	w := waiter.New()
	s := newTestSetup(store, tr, w)

	done := make(chan error, 1)
	go func() { done <- s.ConfigureIntro(context.Background(), setupInvoke) }()
	respondAfter(t, w, tr, 1, operatorReply(""))

	require.NoError(t, <-done)
	assert.Equal(t, []string{"Type the intro you want", "Intro must be text-only."}, tr.contents())
	assertNothingPersisted(t, store)
}

func TestConfigureIntro_HappyPath(t *testing.T) {
	store := memory.NewStore()
	tr := &fakeTransport{}
	w := waiter.New()
	s := newTestSetup(store, tr, w)

	done := make(chan error, 1)
	go func() { done <- s.ConfigureIntro(context.Background(), setupInvoke) }()
	respondAfter(t, w, tr, 1, operatorReply("Please answer a few questions first."))

	require.NoError(t, <-done)

	cfg, err := store.Find(context.Background(), setupScope)
	require.NoError(t, err)
	assert.Equal(t, "Please answer a few questions first.", cfg.Intro)
	assert.Empty(t, cfg.Questions)
}

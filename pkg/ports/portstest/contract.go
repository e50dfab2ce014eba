// Package portstest provides contract tests shared by every ConfigStore
// implementation.
package portstest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/ports"
)

// RunConfigStoreContract exercises the behavior every ConfigStore must share:
// missing scopes, round-trips, and field-preserving merges.
func RunConfigStoreContract(t *testing.T, store ports.ConfigStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("FindMissing", func(t *testing.T) {
		_, err := store.Find(ctx, "contract-missing")
		assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		err := store.UpsertMerge(ctx, "contract-rt", map[string]any{
			domain.FieldQuestions: []string{"Who are you?", "Why are you appealing?"},
			domain.FieldMoveTo:    "cat-1",
		})
		require.NoError(t, err)

		cfg, err := store.Find(ctx, "contract-rt")
		require.NoError(t, err)
		assert.Equal(t, []string{"Who are you?", "Why are you appealing?"}, cfg.Questions)
		assert.Equal(t, "cat-1", cfg.MoveTo)
		assert.Empty(t, cfg.Intro)
		assert.Empty(t, cfg.Outro)
	})

	t.Run("MergePreservesOtherFields", func(t *testing.T) {
		require.NoError(t, store.UpsertMerge(ctx, "contract-merge", map[string]any{
			domain.FieldQuestions: []string{"Q1"},
			domain.FieldMoveTo:    "cat-1",
		}))
		require.NoError(t, store.UpsertMerge(ctx, "contract-merge", map[string]any{
			domain.FieldOutro:  "Thanks!",
			domain.FieldMoveTo: "cat-2",
		}))

		cfg, err := store.Find(ctx, "contract-merge")
		require.NoError(t, err)
		assert.Equal(t, []string{"Q1"}, cfg.Questions, "merge must not drop questions")
		assert.Equal(t, "Thanks!", cfg.Outro)
		assert.Equal(t, "cat-2", cfg.MoveTo, "merge must overwrite fields it names")
	})

	t.Run("ScopesAreIsolated", func(t *testing.T) {
		require.NoError(t, store.UpsertMerge(ctx, "contract-a", map[string]any{
			domain.FieldIntro: "hello",
		}))
		_, err := store.Find(ctx, "contract-b")
		assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
	})
}

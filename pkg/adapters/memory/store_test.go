package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/adapters/memory"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/ports/portstest"
)

func TestMemoryStore_Contract(t *testing.T) {
	portstest.RunConfigStoreContract(t, memory.NewStore())
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.UpsertMerge(ctx, "scope", map[string]any{
		domain.FieldQuestions: []string{"Q1", "Q2"},
	}))

	cfg, err := store.Find(ctx, "scope")
	require.NoError(t, err)
	cfg.Questions[0] = "mutated"

	again, err := store.Find(ctx, "scope")
	require.NoError(t, err)
	assert.Equal(t, "Q1", again.Questions[0], "caller mutation must not leak into the store")
}

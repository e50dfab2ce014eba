package ports

import (
	"context"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
)

// ConfigStore persists per-scope questionnaire configuration as a key-value
// document with field-level merge semantics.
type ConfigStore interface {
	// Find retrieves the configuration for a scope.
	// Returns domain.ErrConfigNotFound if nothing is stored.
	Find(ctx context.Context, scope string) (*domain.QuestionnaireConfig, error)

	// UpsertMerge sets only the given fields for a scope, creating the
	// document if absent and preserving any fields not named. Recognized
	// keys are the domain.Field* constants; "questions" takes a []string.
	UpsertMerge(ctx context.Context, scope string, fields map[string]any) error
}

// Package memory implements ports.ConfigStore in memory.
// Safe for concurrent use. Intended for tests and single-process setups.
package memory

import (
	"context"
	"sync"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
)

// Store keeps one field-map per scope and merges on write, mirroring the
// semantics of the redis adapter.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]map[string]any)}
}

// Find retrieves the configuration for a scope.
func (s *Store) Find(ctx context.Context, scope string) (*domain.QuestionnaireConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.data[scope]
	if !ok {
		return nil, domain.ErrConfigNotFound
	}

	cfg := &domain.QuestionnaireConfig{}
	if qs, ok := fields[domain.FieldQuestions].([]string); ok {
		// Copy on read so the caller's snapshot stays immutable.
		cfg.Questions = append([]string(nil), qs...)
	}
	if v, ok := fields[domain.FieldIntro].(string); ok {
		cfg.Intro = v
	}
	if v, ok := fields[domain.FieldOutro].(string); ok {
		cfg.Outro = v
	}
	if v, ok := fields[domain.FieldMoveTo].(string); ok {
		cfg.MoveTo = v
	}
	return cfg, nil
}

// UpsertMerge sets only the given fields, preserving the rest.
func (s *Store) UpsertMerge(ctx context.Context, scope string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[scope]
	if !ok {
		doc = make(map[string]any)
		s.data[scope] = doc
	}
	for k, v := range fields {
		if qs, ok := v.([]string); ok {
			v = append([]string(nil), qs...)
		}
		doc[k] = v
	}
	return nil
}

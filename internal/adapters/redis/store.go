// Package redis implements ports.ConfigStore on a redis hash.
//
// Each scope is one hash; UpsertMerge maps directly onto HSET, which gives
// the field-preserving merge semantics the configuration flows rely on.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	backend "github.com/redis/go-redis/v9"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
)

const defaultPrefix = "questions:config:"

// Store implements ports.ConfigStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix for config hashes.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(scope string) string {
	return s.prefix + scope
}

// Find retrieves the configuration hash for a scope and decodes it.
func (s *Store) Find(ctx context.Context, scope string) (*domain.QuestionnaireConfig, error) {
	fields, err := s.client.HGetAll(ctx, s.key(scope)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get config from redis: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrConfigNotFound
	}

	var cfg domain.QuestionnaireConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		DecodeHook: jsonStringListHook,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return nil, fmt.Errorf("failed to decode config for scope %q: %w", scope, err)
	}
	return &cfg, nil
}

// UpsertMerge sets only the given fields on the scope's hash.
func (s *Store) UpsertMerge(ctx context.Context, scope string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	flat := make(map[string]any, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			flat[k] = val
		case []string:
			data, err := json.Marshal(val)
			if err != nil {
				return fmt.Errorf("failed to encode field %q: %w", k, err)
			}
			flat[k] = string(data)
		default:
			return fmt.Errorf("unsupported config field type %T for %q", v, k)
		}
	}

	if err := s.client.HSet(ctx, s.key(scope), flat).Err(); err != nil {
		return fmt.Errorf("failed to merge config into redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// jsonStringListHook decodes a JSON-encoded hash field into a []string. The
// questions list is the only field stored that way.
func jsonStringListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string(nil)) {
		return data, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(data.(string)), &out); err != nil {
		return nil, fmt.Errorf("invalid question list encoding: %w", err)
	}
	return out, nil
}

// Package redis provides a PlanStore backed by Redis, for deployments where
// several service instances share plan-run state.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/voyant/pkg/domain"
)

// Store implements ports.PlanStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for plan runs.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for plan runs.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "voyant:plan:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(planRunID string) string {
	return s.prefix + planRunID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the state to Redis.
func (s *Store) Save(ctx context.Context, planRunID string, state *domain.PlanState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal plan state: %w", err)
	}

	pipe := s.client.Pipeline()

	// JSON snapshot with TTL (0 means no expiration).
	pipe.Set(ctx, s.key(planRunID), data, s.ttl)

	// Index entry scored by expiry so List can prune lazily.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01, far enough to never prune
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: planRunID,
	})

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the state from Redis.
func (s *Store) Load(ctx context.Context, planRunID string) (*domain.PlanState, error) {
	val, err := s.client.Get(ctx, s.key(planRunID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state domain.PlanState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan state: %w", err)
	}

	return &state, nil
}

// Delete removes the plan run.
func (s *Store) Delete(ctx context.Context, planRunID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(planRunID))
	pipe.ZRem(ctx, s.indexKey(), planRunID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns known plan runs, pruning expired index entries lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired plan runs: %w", err)
	}

	runs, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list plan runs: %w", err)
	}

	return runs, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

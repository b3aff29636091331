// Package redis keeps revoked token ids in Redis so revocations survive restarts and
// are shared across instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked-token:"

// ErrInvalidTTL is returned when a revocation would never expire.
var ErrInvalidTTL = errors.New("revocation ttl must be positive")

// RevocationStore implements ports.TokenRevocationStore.
type RevocationStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

var _ ports.TokenRevocationStore = (*RevocationStore)(nil)

func NewRevocationStore(client goredis.UniversalClient) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// NewClient opens a client for addr. The connection is checked with PING.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// Revoke records tokenID until ttl passes. The revocation time is stored as the value.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("token id is required")
	}
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	return s.client.Set(ctx, keyPrefix+tokenID, s.now().UTC().Format(time.RFC3339), ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package ports

import (
	"context"
	"time"
)

// TokenRevocationStore remembers credentials revoked before their natural expiry.
// Entries expire on their own once the token could no longer be used.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

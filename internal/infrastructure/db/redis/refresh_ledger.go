package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshLedger records consumed refresh token ids so that a rotated refresh
// token cannot be exchanged a second time. Entries expire together with the
// token they describe, so the ledger never outgrows the live token set.
// Key format: refresh:used:<jti>
type RefreshLedger struct {
	client *redis.Client
	now    func() time.Time
}

func NewRefreshLedger(client *redis.Client) *RefreshLedger {
	return &RefreshLedger{client: client, now: time.Now}
}

// Consume atomically claims id. It reports false when id was claimed before or
// the token has already expired.
func (l *RefreshLedger) Consume(ctx context.Context, id string, expiresAt time.Time) (bool, error) {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return false, nil
	}
	ok, err := l.client.SetNX(ctx, l.key(id), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("refresh ledger: %w", err)
	}
	return ok, nil
}

func (l *RefreshLedger) key(id string) string {
	return "refresh:used:" + id
}

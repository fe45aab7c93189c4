package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/seltzer/splitledger/internal/domain"
	"github.com/seltzer/splitledger/internal/usecase"
)

// SnapshotCache is a read-through cache over a SnapshotRepository. Whole
// per-owner snapshot sets are cached; any write invalidates the entries
// of every owner it touched. Cache failures degrade to the inner
// repository instead of failing the call.
type SnapshotCache struct {
	inner  usecase.SnapshotRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(inner usecase.SnapshotRepository, client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		inner:  inner,
		client: client,
		prefix: "snapshots:",
		ttl:    ttl,
	}
}

// cachedSnapshot is the stored JSON shape of a domain.BalanceSnapshot.
type cachedSnapshot struct {
	UserID        string          `json:"user_id"`
	ParticipantID string          `json:"participant_id"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
}

// FindAll returns the cached snapshot set for an owner, falling back to
// the inner repository on a miss.
func (c *SnapshotCache) FindAll(ctx context.Context, userID string) ([]*domain.BalanceSnapshot, error) {
	key := c.prefix + userID

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []cachedSnapshot
		if err := json.Unmarshal(raw, &cached); err == nil {
			snapshots := make([]*domain.BalanceSnapshot, len(cached))
			for i, s := range cached {
				snapshots[i] = &domain.BalanceSnapshot{
					UserID:        s.UserID,
					ParticipantID: s.ParticipantID,
					Balance:       s.Balance,
					Currency:      domain.Currency(s.Currency),
				}
			}
			return snapshots, nil
		}
	} else if err != redis.Nil {
		log.Warn().Err(err).Str("key", key).Msg("snapshot cache read failed")
	}

	snapshots, err := c.inner.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	cached := make([]cachedSnapshot, len(snapshots))
	for i, s := range snapshots {
		cached[i] = cachedSnapshot{
			UserID:        s.UserID,
			ParticipantID: s.ParticipantID,
			Balance:       s.Balance,
			Currency:      string(s.Currency),
		}
	}

	if raw, err := json.Marshal(cached); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("snapshot cache write failed")
		}
	}

	return snapshots, nil
}

// FindOne always goes to the inner repository; the engine's point lookups
// must see the latest balance.
func (c *SnapshotCache) FindOne(ctx context.Context, participantID, userID string) (*domain.BalanceSnapshot, error) {
	return c.inner.FindOne(ctx, participantID, userID)
}

// SaveAll writes through to the inner repository, then drops the cached
// sets of every owner in the batch.
func (c *SnapshotCache) SaveAll(ctx context.Context, snapshots []*domain.BalanceSnapshot) error {
	if err := c.inner.SaveAll(ctx, snapshots); err != nil {
		return err
	}

	owners := make(map[string]struct{})
	for _, s := range snapshots {
		owners[s.UserID] = struct{}{}
	}

	keys := make([]string, 0, len(owners))
	for owner := range owners {
		keys = append(keys, c.prefix+owner)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("snapshot cache invalidation failed")
	}

	return nil
}

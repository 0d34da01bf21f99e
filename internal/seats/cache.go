package seats

import (
	"context"
	"encoding/json"
	"time"

	"seatline/internal/shared/constants"
	"seatline/pkg/cache"
	"seatline/pkg/logger"

	"github.com/google/uuid"
)

// MapCache stores per-event seat map snapshots. A nil cache service turns
// every call into a pass-through so the ledger works without Redis.
type MapCache struct {
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

func NewMapCache(svc cache.Service, ttl time.Duration, log *logger.Logger) *MapCache {
	if log == nil {
		log = logger.GetDefault()
	}
	return &MapCache{cache: svc, ttl: ttl, log: log}
}

func SeatMapKey(eventID uuid.UUID) string {
	return constants.BuildSeatMapKey(eventID.String())
}

// GetOrLoad fills dest from the cache or from load.
func (m *MapCache) GetOrLoad(ctx context.Context, eventID uuid.UUID, dest interface{}, load func() (interface{}, error)) error {
	if m == nil || m.cache == nil {
		data, err := load()
		if err != nil {
			return err
		}
		return copyInto(data, dest)
	}
	return m.cache.GetOrSet(ctx, SeatMapKey(eventID), m.ttl, load, dest)
}

// Invalidate drops the cached seat map of an event. Failures are logged;
// the entry expires on its own.
func (m *MapCache) Invalidate(ctx context.Context, eventID uuid.UUID) {
	if m == nil || m.cache == nil {
		return
	}
	if err := m.cache.Delete(ctx, SeatMapKey(eventID)); err != nil {
		m.log.ErrorWithContext(ctx, "Failed to invalidate seat map", err, map[string]interface{}{
			"event_id": eventID.String(),
		})
	}
}

func copyInto(data interface{}, dest interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

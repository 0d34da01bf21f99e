package constants

import (
	"time"
)

// Redis Cache Configuration
// Pattern: seatline:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for event details
	TTL_REALTIME_SHORT     = 30 * time.Second // 30 seconds - for seat maps
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "seatline"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

const (
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== SEATS MODULE ==================

const (
	// Seat statuses of one event's venue map
	CACHE_KEY_SEAT_MAP = CACHE_PREFIX + ":seats:map:event:" // + event-id
)

const (
	TTL_SEAT_MAP = TTL_REALTIME_SHORT
)

// ================== RATE LIMITING ==================

const (
	CACHE_KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + class:client:window
)

// ================== HELPER FUNCTIONS ==================

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildSeatMapKey(eventID string) string {
	return CACHE_KEY_SEAT_MAP + eventID
}

func BuildRateLimitKey(class, client string, window int64) string {
	return CACHE_KEY_RATE_LIMIT + class + ":" + client + ":" + time.Unix(window, 0).UTC().Format("20060102T150405")
}

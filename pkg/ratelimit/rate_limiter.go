package ratelimit

import (
	"context"
	"fmt"
	"time"

	"seatline/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

type RateLimitType string

const (
	RateLimitTypeDefault RateLimitType = "default"
	RateLimitTypeBooking RateLimitType = "booking"
	RateLimitTypeAdmin   RateLimitType = "admin"
)

type Config struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	BookingRequests int           `json:"booking_requests"`
	AdminRequests   int           `json:"admin_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// fixedWindow counts one request and starts the window's expiry on the
// first hit, atomically.
var fixedWindow = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RateLimiter counts requests per client and class in fixed Redis windows.
type RateLimiter struct {
	client    *redis.Client
	config    *Config
	whitelist map[string]struct{}
	now       func() time.Time
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	whitelist := make(map[string]struct{}, len(config.WhitelistedIPs))
	for _, ip := range config.WhitelistedIPs {
		whitelist[ip] = struct{}{}
	}
	return &RateLimiter{
		client:    client,
		config:    config,
		whitelist: whitelist,
		now:       time.Now,
	}
}

// IsAllowed counts the request and reports whether it fits the window.
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)
	windowStart := r.now().Truncate(r.config.WindowDuration)
	resetTime := windowStart.Add(r.config.WindowDuration).Unix()

	if !r.config.Enabled || r.isWhitelisted(clientIP) {
		return &Result{Allowed: true, Limit: limit, Remaining: limit, ResetTime: resetTime}, nil
	}

	key := constants.BuildRateLimitKey(string(limitType), clientIP, windowStart.Unix())
	count, err := fixedWindow.Run(ctx, r.client, []string{key}, r.config.WindowDuration.Milliseconds()).Int()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}

	return &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetTime: resetTime,
	}, nil
}

func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypeBooking:
		return r.config.BookingRequests
	case RateLimitTypeAdmin:
		return r.config.AdminRequests
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	_, ok := r.whitelist[ip]
	return ok
}

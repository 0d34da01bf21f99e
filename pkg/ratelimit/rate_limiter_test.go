package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg *Config) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRateLimiter(client, cfg)
	fixed := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }
	return limiter, mr
}

func testConfig() *Config {
	return &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 5,
		BookingRequests: 2,
		AdminRequests:   10,
	}
}

func TestIsAllowed_FixedWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t, testConfig())
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC).Unix(), res.ResetTime)

	// Other clients and classes have their own counters.
	res, err = limiter.IsAllowed(ctx, "10.0.0.2", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	for _, k := range keys {
		assert.True(t, mr.TTL(k) > 0, "key %s has no expiry", k)
	}
}

func TestIsAllowed_NewWindowResets(t *testing.T) {
	limiter, _ := newTestLimiter(t, testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
		require.NoError(t, err)
	}

	next := time.Date(2026, 3, 1, 12, 1, 5, 0, time.UTC)
	limiter.now = func() time.Time { return next }

	res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}

func TestIsAllowed_WhitelistAndDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.WhitelistedIPs = []string{"127.0.0.1"}
	limiter, mr := newTestLimiter(t, cfg)

	for i := 0; i < 5; i++ {
		res, err := limiter.IsAllowed(context.Background(), "127.0.0.1", RateLimitTypeBooking)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	assert.Empty(t, mr.Keys())

	cfg.Enabled = false
	res, err := limiter.IsAllowed(context.Background(), "10.1.1.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestIsAllowed_RedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, testConfig())
	mr.Close()

	_, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeDefault)
	assert.Error(t, err)
}

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   RateLimitType
	}{
		{http.MethodPost, "/api/v1/checkout/confirm", RateLimitTypeBooking},
		{http.MethodPost, "/api/v1/holds", RateLimitTypeBooking},
		{http.MethodDelete, "/api/v1/bookings/:id", RateLimitTypeBooking},
		{http.MethodPost, "/api/v1/events/:id/venue-map", RateLimitTypeAdmin},
		{http.MethodPost, "/api/v1/events", RateLimitTypeAdmin},
		{http.MethodPatch, "/api/v1/events/:id/capacity", RateLimitTypeAdmin},
		{http.MethodGet, "/api/v1/events/:id/venue-map", RateLimitTypeDefault},
		{http.MethodGet, "/api/v1/events/:id/seat-map", RateLimitTypeDefault},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.method, tt.path))
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, _ := newTestLimiter(t, testConfig())

	router := gin.New()
	router.Use(Middleware(limiter))
	router.POST("/api/v1/holds", func(c *gin.Context) { c.Status(http.StatusCreated) })

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/holds", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, do().Code)
	second := do()
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := do()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Contains(t, third.Body.String(), "Rate limit exceeded")
}

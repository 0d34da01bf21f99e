package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/utils/response"
	"seatline/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware limits requests per client IP. The class comes from the
// matched route.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.Request.Method, c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			response.RespondError(c, apperrors.Unavailable("rate limit check failed", err))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(method, path string) RateLimitType {
	switch {
	// Seat claiming endpoints
	case strings.Contains(path, "/checkout"),
		strings.Contains(path, "/holds"),
		strings.Contains(path, "/bookings"):
		return RateLimitTypeBooking

	// Floor plan and event administration
	case method != http.MethodGet && (strings.Contains(path, "/venue-map") ||
		strings.Contains(path, "/promos") ||
		strings.Contains(path, "/capacity") ||
		strings.HasSuffix(path, "/events")):
		return RateLimitTypeAdmin

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}

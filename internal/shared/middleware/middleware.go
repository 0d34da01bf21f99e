package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"seatline/internal/shared/config"
	"seatline/internal/shared/utils/response"
	"seatline/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Roles carried in the access token. Tokens are issued by the external
// auth service; this service only verifies them.
const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleUser      = "USER"
)

// JWTAuthWithConfig creates a JWT authentication middleware with config
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), "invalid token", c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token claims", nil, nil)
			c.Abort()
			return
		}
		if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
			c.Abort()
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("user_email", claims["email"])
		c.Set("user_role", claims["role"])

		c.Next()
	}
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(RoleAdmin)
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		hasRole := false
		for _, required := range requiredRoles {
			if role == required {
				hasRole = true
				break
			}
		}

		if !hasRole {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

const RequestIDHeader = "X-Request-ID"

// RequestLogger logs every request through the structured logger, tagged
// with the caller's request id or a fresh one. 5xx responses also get an
// error record carrying the last handler error.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		reqLog := log.WithRequestID(requestID)

		c.Next()

		reqLog.LogHTTPRequest(c, time.Since(start))
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			err := errors.New(http.StatusText(status))
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			reqLog.LogHTTPError(c, err, status)
		}
	}
}

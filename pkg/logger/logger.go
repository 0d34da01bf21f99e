package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance using LOG_LEVEL from the environment
func New() *Logger {
	return NewWithLevel(os.Getenv("LOG_LEVEL"))
}

// NewWithLevel creates a logger writing to stdout at the given level
func NewWithLevel(levelStr string) *Logger {
	return NewWithWriter(os.Stdout, levelStr)
}

// NewWithWriter creates a logger writing to w. Text output in gin debug
// mode, JSON otherwise.
func NewWithWriter(w io.Writer, levelStr string) *Logger {
	level := getLogLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Seat ledger logging methods

// LogHoldCreated logs when seats are put on hold
func (l *Logger) LogHoldCreated(ctx context.Context, holdID, eventID string, seatCount int) {
	l.Logger.InfoContext(ctx,
		"Hold Created",
		slog.String("hold_id", holdID),
		slog.String("event_id", eventID),
		slog.Int("seat_count", seatCount),
	)
}

// LogHoldReleased logs when a hold returns its seats
func (l *Logger) LogHoldReleased(ctx context.Context, holdID string, released int64) {
	l.Logger.InfoContext(ctx,
		"Hold Released",
		slog.String("hold_id", holdID),
		slog.Int64("released_seats", released),
	)
}

// LogBookingCreated logs when a booking is created
func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, eventID string, seatCount int, totalCents int64) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_id", bookingID),
		slog.String("event_id", eventID),
		slog.Int("seat_count", seatCount),
		slog.Int64("total_cents", totalCents),
	)
}

// LogBookingConfirmed logs a payment confirmation, flagging duplicates
func (l *Logger) LogBookingConfirmed(ctx context.Context, bookingID, paymentReference string, duplicate bool) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.String("booking_id", bookingID),
		slog.String("payment_reference", paymentReference),
		slog.Bool("duplicate", duplicate),
	)
}

// LogBookingDeleted logs when a booking is deleted
func (l *Logger) LogBookingDeleted(ctx context.Context, bookingID string, released int64) {
	l.Logger.InfoContext(ctx,
		"Booking Deleted",
		slog.String("booking_id", bookingID),
		slog.Int64("released_seats", released),
	)
}

// LogAllocationRejected logs a hold or booking refused by the ledger
func (l *Logger) LogAllocationRejected(ctx context.Context, eventID string, kind string, details []string) {
	l.Logger.WarnContext(ctx,
		"Allocation Rejected",
		slog.String("event_id", eventID),
		slog.String("kind", kind),
		slog.Any("details", details),
	)
}

// LogRetry logs a retried transient failure
func (l *Logger) LogRetry(ctx context.Context, operation string, attempt int, err error) {
	l.Logger.WarnContext(ctx,
		"Retrying Operation",
		slog.String("operation", operation),
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
	)
}

// Security logging methods

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

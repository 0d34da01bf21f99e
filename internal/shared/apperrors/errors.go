// Package apperrors defines the error taxonomy shared by the seat ledger,
// hold and booking services. Handlers translate a Kind into an HTTP status
// with HTTPStatus; callers decide whether to retry with Retryable.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind string

const (
	KindInvalidInput     Kind = "INVALID_INPUT"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindCapacityExceeded Kind = "CAPACITY_EXCEEDED"
	KindUnavailable      Kind = "UNAVAILABLE"
	KindInternal         Kind = "INTERNAL"
)

// Error is a classified failure. Details carries offending seat labels or
// ids so they can be surfaced verbatim to the caller.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Details, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Kind sentinels for errors.Is.
var (
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrCapacityExceeded = &Error{Kind: KindCapacityExceeded}
	ErrUnavailable      = &Error{Kind: KindUnavailable}
)

func InvalidInput(message string, details ...string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Details: details}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string, details ...string) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

func CapacityExceeded(message string) *Error {
	return &Error{Kind: KindCapacityExceeded, Message: message}
}

func Unavailable(message string, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// DetailsOf returns the details of the first *Error in err's chain.
func DetailsOf(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// Retryable reports whether the operation may be safely re-attempted.
// Every mutating operation re-validates current state, so retrying an
// Unavailable failure from scratch never double-applies.
func Retryable(err error) bool {
	return KindOf(err) == KindUnavailable
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindCapacityExceeded:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Postgres SQLSTATE codes that indicate a transient failure.
const (
	sqlStateLockNotAvailable     = "55P03"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateQueryCanceled        = "57014"
	sqlStateUniqueViolation      = "23505"
)

// FromDB classifies a persistence error. Already classified errors pass
// through untouched; lock timeouts, serialization failures, deadlocks and
// deadlines become Unavailable; everything else is wrapped as Internal.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Unavailable("transaction timed out", err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateLockNotAvailable, sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateQueryCanceled:
			return Unavailable("seat ledger is busy, retry later", err)
		}
	}
	return Internal("database error", err)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}

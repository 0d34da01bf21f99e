// Package transaction carries a gorm transaction on the context so the
// seat ledger, hold and booking repositories can join one atomic unit of
// work without passing *gorm.DB through every service signature.
package transaction

import (
	"context"
	"fmt"
	"time"

	"seatline/internal/shared/apperrors"

	"gorm.io/gorm"
)

// Manager runs fn inside a single transaction. Repositories called with
// the ctx handed to fn participate in that transaction. Nested calls join
// the outer transaction.
type Manager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// Options bounds a transaction. Zero values disable the matching limit.
type Options struct {
	Timeout          time.Duration
	LockTimeout      time.Duration
	StatementTimeout time.Duration
}

type gormManager struct {
	db   *gorm.DB
	opts Options
}

func NewGormManager(db *gorm.DB, opts Options) Manager {
	return &gormManager{db: db, opts: opts}
}

func (m *gormManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	if m.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.opts.LockTimeout > 0 {
			if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.opts.LockTimeout.Milliseconds())).Error; err != nil {
				return err
			}
		}
		if m.opts.StatementTimeout > 0 {
			if err := tx.Exec(fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", m.opts.StatementTimeout.Milliseconds())).Error; err != nil {
				return err
			}
		}
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return apperrors.FromDB(err)
}

// InTx reports whether ctx already carries a transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// Conn returns the transaction on ctx, or db bound to ctx when there is none.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

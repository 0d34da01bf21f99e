package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatline/internal/shared/config"
	"seatline/internal/shared/transaction"
	"seatline/pkg/cache"
	"seatline/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds database connections. Redis is nil when it is disabled.
type DB struct {
	PostgreSQL *gorm.DB
	Redis      *redis.Client

	log *logger.Logger
}

// InitDB opens PostgreSQL, runs migrations and, when enabled, connects Redis.
func InitDB(cfg *config.Config, log *logger.Logger) (*DB, error) {
	if log == nil {
		log = logger.GetDefault()
	}

	pg, err := initPostgreSQL(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	if err := Migrate(pg); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := MigrateConstraints(pg); err != nil {
		return nil, fmt.Errorf("failed to apply constraints: %w", err)
	}

	db := &DB{PostgreSQL: pg, log: log}
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, seat map cache and rate limiting are off")
		return db, nil
	}

	db.Redis, err = initRedis(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	return db, nil
}

func initPostgreSQL(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	var gormLogger gormlogger.Interface
	if cfg.IsDevelopment() {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	gormConfig := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("PostgreSQL connected", "host", cfg.Database.Host, "database", cfg.Database.Name)
	return db, nil
}

func initRedis(cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := cache.Connect(ctx, cache.Config{
		Address:      cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Redis connected", "addr", cfg.Redis.Addr)
	return rdb, nil
}

// TxManager builds the transaction manager every seat-mutating service runs
// under, bounded by the booking timeouts.
func (db *DB) TxManager(cfg config.BookingConfig) transaction.Manager {
	return transaction.NewGormManager(db.PostgreSQL, transaction.Options{
		Timeout:          cfg.TxTimeout,
		LockTimeout:      cfg.LockTimeout,
		StatementTimeout: cfg.StatementTimeout,
	})
}

// Close closes all database connections
func (db *DB) Close() error {
	var errs []error

	if db.PostgreSQL != nil {
		if sqlDB, err := db.PostgreSQL.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close PostgreSQL: %w", err))
			}
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	db.log.Info("database connections closed")
	return nil
}

// HealthCheck pings PostgreSQL and, when connected, Redis.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.PostgreSQL != nil {
		sqlDB, err := db.PostgreSQL.DB()
		if err != nil {
			return fmt.Errorf("PostgreSQL health check failed: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("PostgreSQL ping failed: %w", err)
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}

	return nil
}

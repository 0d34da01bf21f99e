package events

import (
	"context"
	"errors"

	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/transaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	// LockByID loads the event FOR UPDATE. Every allocation for the event
	// takes this lock first so capacity checks serialize.
	LockByID(ctx context.Context, id uuid.UUID) (*Event, error)
	UpdateMaxSeats(ctx context.Context, id uuid.UUID, maxSeats *int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return transaction.Conn(ctx, r.db).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := transaction.Conn(ctx, r.db).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := transaction.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (r *repository) UpdateMaxSeats(ctx context.Context, id uuid.UUID, maxSeats *int) error {
	res := transaction.Conn(ctx, r.db).
		Model(&Event{}).
		Where("id = ?", id).
		Update("max_seats", maxSeats)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("event not found")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("event not found")
	}
	return err
}

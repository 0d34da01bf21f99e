package holds

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
	Create(ctx context.Context, hold *Hold) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hold, error)
	// LockByID loads the hold FOR UPDATE so concurrent releases serialize.
	LockByID(ctx context.Context, id uuid.UUID) (*Hold, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]Hold, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, hold *Hold) error {
	return transaction.Conn(ctx, r.db).Create(hold).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Hold, error) {
	var hold Hold
	if err := transaction.Conn(ctx, r.db).Where("id = ?", id).First(&hold).Error; err != nil {
		return nil, notFound(err)
	}
	return &hold, nil
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*Hold, error) {
	var hold Hold
	err := transaction.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&hold).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &hold, nil
}

func (r *repository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]Hold, error) {
	var holds []Hold
	err := transaction.Conn(ctx, r.db).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&holds).Error
	return holds, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := transaction.Conn(ctx, r.db).Where("id = ?", id).Delete(&Hold{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("hold not found")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("hold not found")
	}
	return err
}

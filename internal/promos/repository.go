package promos

import (
	"context"
	"errors"

	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/transaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, promo *Promo) error
	// FindByCode returns a NotFound error when the event has no such code.
	FindByCode(ctx context.Context, eventID uuid.UUID, code string) (*Promo, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, promo *Promo) error {
	err := transaction.Conn(ctx, r.db).Create(promo).Error
	if apperrors.IsUniqueViolation(err) {
		return apperrors.Conflict("promo code already exists for this event", promo.Code)
	}
	return err
}

func (r *repository) FindByCode(ctx context.Context, eventID uuid.UUID, code string) (*Promo, error) {
	var promo Promo
	err := transaction.Conn(ctx, r.db).
		Where("event_id = ? AND code = ?", eventID, NormalizeCode(code)).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("promo code not found")
		}
		return nil, err
	}
	return &promo, nil
}

package bookings

import (
	"context"
	"errors"
	"time"

	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/transaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicatePaymentReference reports that another booking already owns
// the payment reference being inserted.
var ErrDuplicatePaymentReference = errors.New("payment reference already booked")

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// LockByID loads the booking FOR UPDATE so deletes and check-ins
	// serialize.
	LockByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByPaymentReference(ctx context.Context, ref string) (*Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetCheckedIn(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	err := transaction.Conn(ctx, r.db).Create(booking).Error
	if err != nil && booking.PaymentReference != nil && apperrors.IsUniqueViolation(err) {
		return ErrDuplicatePaymentReference
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := transaction.Conn(ctx, r.db).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := transaction.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (r *repository) GetByPaymentReference(ctx context.Context, ref string) (*Booking, error) {
	var booking Booking
	if err := transaction.Conn(ctx, r.db).Where("payment_reference = ?", ref).First(&booking).Error; err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := transaction.Conn(ctx, r.db).Where("id = ?", id).Delete(&Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("booking not found")
	}
	return nil
}

func (r *repository) SetCheckedIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := transaction.Conn(ctx, r.db).
		Model(&Booking{}).
		Where("id = ? AND checked_in_at IS NULL", id).
		Updates(map[string]interface{}{
			"checked_in_at": at,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.Conflict("booking is already checked in")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("booking not found")
	}
	return err
}

package checkout

import (
	"context"
	"errors"
	"time"

	"seatline/internal/shared/apperrors"

	"gorm.io/gorm"
)

// PaymentProvider looks up checkout sessions. Unknown references are
// NotFound; unpaid sessions past their expiry are InvalidInput.
type PaymentProvider interface {
	GetPayment(ctx context.Context, reference string) (*Payment, error)
}

type sessionProvider struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSessionProvider reads the payment_sessions table.
func NewSessionProvider(db *gorm.DB) PaymentProvider {
	return &sessionProvider{db: db, now: time.Now}
}

func (p *sessionProvider) GetPayment(ctx context.Context, reference string) (*Payment, error) {
	var session PaymentSession
	err := p.db.WithContext(ctx).Where("reference = ?", reference).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("payment session not found")
	}
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return session.toPayment(p.now())
}

// toPayment applies the expiry rule. A paid session stays valid after its
// expiry; the money has already moved.
func (s *PaymentSession) toPayment(now time.Time) (*Payment, error) {
	if !s.Paid && s.ExpiresAt != nil && now.After(*s.ExpiresAt) {
		return nil, apperrors.InvalidInput("payment session expired", s.Reference)
	}
	return &Payment{
		Reference:     s.Reference,
		Paid:          s.Paid,
		EventID:       s.EventID,
		SeatIDs:       s.SeatIDs,
		AttendeeName:  s.AttendeeName,
		AttendeeEmail: s.AttendeeEmail,
		PromoCode:     s.PromoCode,
	}, nil
}

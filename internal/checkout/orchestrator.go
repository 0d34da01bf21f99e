package checkout

import (
	"context"
	"errors"
	"time"

	"seatline/internal/bookings"
	"seatline/internal/shared/apperrors"
	"seatline/pkg/logger"
)

// Orchestrator turns "payment succeeded" signals into bookings. Signals
// may repeat; every repeat returns the booking of the first one.
type Orchestrator struct {
	payments    PaymentProvider
	bookings    bookings.Service
	maxAttempts int
	backoff     time.Duration
	log         *logger.Logger
}

type Options struct {
	MaxAttempts int
	Backoff     time.Duration
}

func NewOrchestrator(payments PaymentProvider, bookingService bookings.Service, opts Options, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.GetDefault()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Orchestrator{
		payments:    payments,
		bookings:    bookingService,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		log:         log,
	}
}

// Confirm books the seats of a paid session. Unavailable failures are
// retried with linear backoff; every attempt re-reads current state.
func (o *Orchestrator) Confirm(ctx context.Context, reference string) (*bookings.ConfirmationResponse, error) {
	if reference == "" {
		return nil, apperrors.InvalidInput("payment reference is required")
	}

	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		resp, err := o.confirmOnce(ctx, reference)
		if err == nil {
			return resp, nil
		}
		if !apperrors.Retryable(err) {
			return nil, err
		}
		lastErr = err
		if attempt == o.maxAttempts {
			break
		}

		o.log.LogRetry(ctx, "checkout.confirm", attempt, err)
		select {
		case <-ctx.Done():
			return nil, apperrors.Unavailable("confirmation cancelled", ctx.Err())
		case <-time.After(o.backoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

func (o *Orchestrator) confirmOnce(ctx context.Context, reference string) (*bookings.ConfirmationResponse, error) {
	existing, err := o.bookings.FindByPaymentReference(ctx, reference)
	if err == nil {
		o.log.LogBookingConfirmed(ctx, existing.ID, reference, true)
		return &bookings.ConfirmationResponse{Booking: *existing, Duplicate: true}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	payment, err := o.payments.GetPayment(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !payment.Paid {
		return nil, apperrors.InvalidInput("payment has not succeeded", reference)
	}

	return o.bookings.ConfirmBooking(ctx, bookings.PaymentConfirmation{
		PaymentReference: payment.Reference,
		EventID:          payment.EventID,
		SeatIDs:          payment.SeatIDs,
		AttendeeName:     payment.AttendeeName,
		AttendeeEmail:    payment.AttendeeEmail,
		PromoCode:        payment.PromoCode,
	})
}

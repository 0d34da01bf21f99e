package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatline/internal/events"
	"seatline/internal/notifications"
	"seatline/internal/promos"
	"seatline/internal/seats"
	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/transaction"
	"seatline/internal/venues"
	"seatline/pkg/logger"

	"github.com/google/uuid"
)

// Service interface defines the contract for booking business logic
type Service interface {
	SetMapCache(mapCache *seats.MapCache)
	SetPublisher(publisher notifications.Publisher)

	// CreateBooking is the direct admin path. Held seats are rejected.
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResponse, error)
	// ConfirmBooking turns a paid checkout session into a booking. A
	// reference that already has a booking returns it with duplicate set.
	ConfirmBooking(ctx context.Context, payment PaymentConfirmation) (*ConfirmationResponse, error)
	FindByPaymentReference(ctx context.Context, ref string) (*BookingResponse, error)
	DeleteBooking(ctx context.Context, bookingID uuid.UUID) error
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error)
	CheckIn(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error)
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
}

type service struct {
	repo       Repository
	eventsRepo events.Repository
	venuesRepo venues.Repository
	promosRepo promos.Repository
	ledger     *seats.Ledger
	txManager  transaction.Manager
	mapCache   *seats.MapCache
	publisher  notifications.Publisher
	log        *logger.Logger
}

func NewService(
	repo Repository,
	eventsRepo events.Repository,
	venuesRepo venues.Repository,
	promosRepo promos.Repository,
	ledger *seats.Ledger,
	txManager transaction.Manager,
	log *logger.Logger,
) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{
		repo:       repo,
		eventsRepo: eventsRepo,
		venuesRepo: venuesRepo,
		promosRepo: promosRepo,
		ledger:     ledger,
		txManager:  txManager,
		log:        log,
	}
}

func (s *service) SetMapCache(mapCache *seats.MapCache) {
	s.mapCache = mapCache
}

func (s *service) SetPublisher(publisher notifications.Publisher) {
	s.publisher = publisher
}

// allocation is the input shared by the admin and payment paths.
type allocation struct {
	eventID          uuid.UUID
	seatIDs          []uuid.UUID
	attendeeName     string
	attendeeEmail    string
	promoCode        string
	paymentReference *string
	policy           seats.BookPolicy
}

type allocated struct {
	booking   *Booking
	seats     []seats.Seat
	duplicate bool
}

func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid event id")
	}
	seatIDs, err := seats.ParseIDs(req.SeatIDs)
	if err != nil {
		return nil, err
	}

	out, err := s.allocate(ctx, allocation{
		eventID:       eventID,
		seatIDs:       seatIDs,
		attendeeName:  req.AttendeeName,
		attendeeEmail: req.AttendeeEmail,
		promoCode:     req.PromoCode,
		policy:        seats.RejectHeld,
	})
	if err != nil {
		return nil, err
	}

	s.log.LogBookingCreated(ctx, out.booking.ID.String(), eventID.String(), len(out.seats), out.booking.TotalCents)
	s.publish(ctx, notifications.BookingEventCreated, out.booking, out.seats)

	resp := out.booking.ToResponse(out.seats)
	return &resp, nil
}

func (s *service) ConfirmBooking(ctx context.Context, payment PaymentConfirmation) (*ConfirmationResponse, error) {
	if payment.PaymentReference == "" {
		return nil, apperrors.InvalidInput("payment reference is required")
	}
	ref := payment.PaymentReference

	out, err := s.allocate(ctx, allocation{
		eventID:          payment.EventID,
		seatIDs:          payment.SeatIDs,
		attendeeName:     payment.AttendeeName,
		attendeeEmail:    payment.AttendeeEmail,
		promoCode:        payment.PromoCode,
		paymentReference: &ref,
		policy:           seats.ClearHeld,
	})
	if errors.Is(err, ErrDuplicatePaymentReference) {
		// A concurrent confirmation of the same reference won the insert.
		out, err = s.existingForReference(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	s.log.LogBookingConfirmed(ctx, out.booking.ID.String(), ref, out.duplicate)
	if !out.duplicate {
		s.publish(ctx, notifications.BookingEventConfirmed, out.booking, out.seats)
	}

	return &ConfirmationResponse{
		Booking:   out.booking.ToResponse(out.seats),
		Duplicate: out.duplicate,
	}, nil
}

// allocate runs the whole booking in one transaction: lock the event,
// resolve and lock the seats, check policy and capacity, price, insert the
// booking and move the seats to BOOKED.
func (s *service) allocate(ctx context.Context, a allocation) (*allocated, error) {
	if a.attendeeName == "" || a.attendeeEmail == "" {
		return nil, apperrors.InvalidInput("attendee name and email are required")
	}

	var out *allocated
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.eventsRepo.LockByID(ctx, a.eventID)
		if err != nil {
			return err
		}

		if a.paymentReference != nil {
			existing, err := s.repo.GetByPaymentReference(ctx, *a.paymentReference)
			switch {
			case err == nil:
				owned, err := s.ledger.SeatsForBooking(ctx, existing.ID)
				if err != nil {
					return err
				}
				out = &allocated{booking: existing, seats: owned, duplicate: true}
				return nil
			case !errors.Is(err, apperrors.ErrNotFound):
				return err
			}
		}

		vm, err := s.venuesRepo.GetVenueMapByEventID(ctx, a.eventID)
		if err != nil {
			return err
		}

		resolved, err := s.ledger.Resolve(ctx, vm.ID, a.seatIDs)
		if err != nil {
			return err
		}
		if err := s.ledger.CheckBookable(resolved, a.policy); err != nil {
			return err
		}

		if event.MaxSeats != nil {
			booked, err := s.ledger.CountBooked(ctx, vm.ID)
			if err != nil {
				return err
			}
			if !event.HasCapacityFor(booked, len(resolved)) {
				return apperrors.CapacityExceeded(fmt.Sprintf(
					"event capacity exceeded: %d booked + %d requested > %d",
					booked, len(resolved), *event.MaxSeats,
				))
			}
		}

		promo, err := s.lookupPromo(ctx, a.eventID, a.promoCode)
		if err != nil {
			return err
		}
		price := ComputePrice(resolved, vm.PriceTiers(), event.DefaultPriceCents, promo)

		booking := &Booking{
			ID:               uuid.New(),
			EventID:          a.eventID,
			VenueMapID:       vm.ID,
			AttendeeName:     a.attendeeName,
			AttendeeEmail:    a.attendeeEmail,
			PaymentReference: a.paymentReference,
			PromoCode:        price.PromoCode,
			SubtotalCents:    price.SubtotalCents,
			DiscountCents:    price.DiscountCents,
			TotalCents:       price.TotalCents,
			SeatCount:        len(resolved),
		}
		if err := s.repo.Create(ctx, booking); err != nil {
			if errors.Is(err, ErrDuplicatePaymentReference) {
				return err
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := s.ledger.Book(ctx, resolved, booking.ID, a.policy); err != nil {
			return err
		}

		out = &allocated{booking: booking, seats: resolved}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicatePaymentReference) {
			return nil, err
		}
		err = apperrors.FromDB(err)
		switch apperrors.KindOf(err) {
		case apperrors.KindConflict, apperrors.KindInvalidInput, apperrors.KindCapacityExceeded:
			s.log.LogAllocationRejected(ctx, a.eventID.String(), string(apperrors.KindOf(err)), apperrors.DetailsOf(err))
		}
		return nil, err
	}

	if !out.duplicate {
		s.mapCache.Invalidate(ctx, a.eventID)
	}
	return out, nil
}

func (s *service) existingForReference(ctx context.Context, ref string) (*allocated, error) {
	existing, err := s.repo.GetByPaymentReference(ctx, ref)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	owned, err := s.ledger.SeatsForBooking(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	return &allocated{booking: existing, seats: owned, duplicate: true}, nil
}

// lookupPromo returns nil for an empty or unknown code; an unknown code
// is not an error, it simply does not discount.
func (s *service) lookupPromo(ctx context.Context, eventID uuid.UUID, code string) (*promos.Promo, error) {
	code = promos.NormalizeCode(code)
	if code == "" || s.promosRepo == nil {
		return nil, nil
	}
	promo, err := s.promosRepo.FindByCode(ctx, eventID, code)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *service) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	var (
		booking  *Booking
		owned    []seats.Seat
		released int64
	)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.repo.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}

		owned, err = s.ledger.SeatsForBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		released, err = s.ledger.ReleaseBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		return s.repo.Delete(ctx, bookingID)
	})
	if err != nil {
		return apperrors.FromDB(err)
	}

	s.mapCache.Invalidate(ctx, booking.EventID)
	s.log.LogBookingDeleted(ctx, bookingID.String(), released)
	s.publish(ctx, notifications.BookingEventCancelled, booking, owned)
	return nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	owned, err := s.ledger.SeatsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	resp := booking.ToResponse(owned)
	return &resp, nil
}

func (s *service) FindByPaymentReference(ctx context.Context, ref string) (*BookingResponse, error) {
	out, err := s.existingForReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	resp := out.booking.ToResponse(out.seats)
	return &resp, nil
}

func (s *service) CheckIn(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error) {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := s.repo.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.IsCheckedIn() {
			return apperrors.Conflict("booking is already checked in")
		}
		return s.repo.SetCheckedIn(ctx, bookingID, time.Now().UTC())
	})
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return s.GetBooking(ctx, bookingID)
}

// Quote prices seats without locking or changing them. It is what a
// checkout session is created from.
func (s *service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid event id")
	}
	seatIDs, err := seats.ParseIDs(req.SeatIDs)
	if err != nil {
		return nil, err
	}

	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	vm, err := s.venuesRepo.GetVenueMapByEventID(ctx, eventID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}

	var resolved []seats.Seat
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		resolved, err = s.ledger.Resolve(ctx, vm.ID, seatIDs)
		return err
	})
	if err != nil {
		return nil, apperrors.FromDB(err)
	}

	promo, err := s.lookupPromo(ctx, eventID, req.PromoCode)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	price := ComputePrice(resolved, vm.PriceTiers(), event.DefaultPriceCents, promo)

	return &QuoteResponse{
		EventID:       eventID.String(),
		SeatCount:     len(resolved),
		Lines:         price.Lines,
		PromoCode:     price.PromoCode,
		SubtotalCents: price.SubtotalCents,
		DiscountCents: price.DiscountCents,
		TotalCents:    price.TotalCents,
	}, nil
}

// publish never fails the caller; the booking is already committed.
func (s *service) publish(ctx context.Context, eventType notifications.BookingEventType, booking *Booking, owned []seats.Seat) {
	if s.publisher == nil {
		return
	}
	msg := notifications.NewBookingEvent(eventType, booking.ID, booking.EventID)
	msg.AttendeeName = booking.AttendeeName
	msg.AttendeeEmail = booking.AttendeeEmail
	msg.PaymentReference = booking.PaymentReference
	msg.SeatLabels = seats.Labels(owned)
	msg.TotalCents = booking.TotalCents

	if err := s.publisher.PublishBookingEvent(ctx, msg); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish booking event", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
			"type":       string(eventType),
		})
	}
}

package memstore

import (
	"context"
	"sort"
	"time"

	"seatline/internal/bookings"
	"seatline/internal/events"
	"seatline/internal/holds"
	"seatline/internal/promos"
	"seatline/internal/shared/apperrors"
	"seatline/internal/venues"

	"github.com/google/uuid"
)

type holdRepo struct{ s *Store }

func (r holdRepo) Create(_ context.Context, hold *holds.Hold) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if hold.ID == uuid.Nil {
		hold.ID = uuid.New()
	}
	hold.CreatedAt = now()
	r.s.holds[hold.ID] = *hold
	return nil
}

func (r holdRepo) GetByID(_ context.Context, id uuid.UUID) (*holds.Hold, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hold, ok := r.s.holds[id]
	if !ok {
		return nil, apperrors.NotFound("hold not found")
	}
	return &hold, nil
}

func (r holdRepo) LockByID(ctx context.Context, id uuid.UUID) (*holds.Hold, error) {
	return r.GetByID(ctx, id)
}

func (r holdRepo) ListByEventID(_ context.Context, eventID uuid.UUID) ([]holds.Hold, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []holds.Hold
	for _, hold := range r.s.holds {
		if hold.EventID == eventID {
			out = append(out, hold)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r holdRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.holds[id]; !ok {
		return apperrors.NotFound("hold not found")
	}
	delete(r.s.holds, id)
	return nil
}

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(_ context.Context, booking *bookings.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if booking.PaymentReference != nil {
		for _, b := range r.s.bookings {
			if b.PaymentReference != nil && *b.PaymentReference == *booking.PaymentReference {
				return bookings.ErrDuplicatePaymentReference
			}
		}
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.CreatedAt, booking.UpdatedAt = now(), now()
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r bookingRepo) GetByID(_ context.Context, id uuid.UUID) (*bookings.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	booking, ok := r.s.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking not found")
	}
	return &booking, nil
}

func (r bookingRepo) LockByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r bookingRepo) GetByPaymentReference(_ context.Context, ref string) (*bookings.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.PaymentReference != nil && *b.PaymentReference == ref {
			return &b, nil
		}
	}
	return nil, apperrors.NotFound("booking not found")
}

func (r bookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[id]; !ok {
		return apperrors.NotFound("booking not found")
	}
	delete(r.s.bookings, id)
	return nil
}

func (r bookingRepo) SetCheckedIn(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	booking, ok := r.s.bookings[id]
	if !ok || booking.CheckedInAt != nil {
		return apperrors.Conflict("booking is already checked in")
	}
	booking.CheckedInAt = &at
	r.s.bookings[id] = booking
	return nil
}

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, event *events.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt, event.UpdatedAt = now(), now()
	r.s.events[event.ID] = *event
	return nil
}

func (r eventRepo) GetByID(_ context.Context, id uuid.UUID) (*events.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event, ok := r.s.events[id]
	if !ok {
		return nil, apperrors.NotFound("event not found")
	}
	return &event, nil
}

func (r eventRepo) LockByID(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	return r.GetByID(ctx, id)
}

func (r eventRepo) UpdateMaxSeats(_ context.Context, id uuid.UUID, maxSeats *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event, ok := r.s.events[id]
	if !ok {
		return apperrors.NotFound("event not found")
	}
	event.MaxSeats = maxSeats
	event.UpdatedAt = now()
	r.s.events[id] = event
	return nil
}

type venueRepo struct{ s *Store }

func (r venueRepo) CreateVenueMap(_ context.Context, vm *venues.VenueMap) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.venueMaps[vm.EventID]; ok {
		return apperrors.Conflict("event already has a venue map")
	}
	if vm.ID == uuid.Nil {
		vm.ID = uuid.New()
	}
	vm.CreatedAt, vm.UpdatedAt = now(), now()
	stored := *vm
	stored.Sections = append([]venues.Section(nil), vm.Sections...)
	stored.Tables = append([]venues.Table(nil), vm.Tables...)
	r.s.venueMaps[vm.EventID] = stored
	return nil
}

func (r venueRepo) GetVenueMapByEventID(_ context.Context, eventID uuid.UUID) (*venues.VenueMap, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vm, ok := r.s.venueMaps[eventID]
	if !ok {
		return nil, apperrors.NotFound("event has no venue map")
	}
	vm.Sections = append([]venues.Section(nil), vm.Sections...)
	vm.Tables = append([]venues.Table(nil), vm.Tables...)
	sort.SliceStable(vm.Sections, func(i, j int) bool { return vm.Sections[i].SortOrder < vm.Sections[j].SortOrder })
	sort.SliceStable(vm.Tables, func(i, j int) bool { return vm.Tables[i].SortOrder < vm.Tables[j].SortOrder })
	return &vm, nil
}

type promoRepo struct{ s *Store }

func (r promoRepo) Create(_ context.Context, promo *promos.Promo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.promos {
		if p.EventID == promo.EventID && p.Code == promo.Code {
			return apperrors.Conflict("promo code already exists for this event")
		}
	}
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	promo.CreatedAt, promo.UpdatedAt = now(), now()
	r.s.promos[promo.ID] = *promo
	return nil
}

func (r promoRepo) FindByCode(_ context.Context, eventID uuid.UUID, code string) (*promos.Promo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.promos {
		if p.EventID == eventID && p.Code == code {
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("promo code not found")
}

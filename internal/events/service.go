package events

import (
	"context"
	"fmt"

	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/constants"
	"seatline/internal/shared/transaction"
	"seatline/pkg/cache"
	"seatline/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetBookedCounter(counter BookedCounter)

	CreateEvent(ctx context.Context, createdBy *uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateCapacity(ctx context.Context, id uuid.UUID, req UpdateCapacityRequest) (*EventResponse, error)
}

// BookedCounter reports how many seats of an event are BOOKED. Implemented
// by the venue service, which knows the event's venue map.
type BookedCounter interface {
	CountBookedForEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type service struct {
	repo          Repository
	txManager     transaction.Manager
	cacheService  cache.Service
	bookedCounter BookedCounter
	log           *logger.Logger
}

func NewService(repo Repository, txManager transaction.Manager, log *logger.Logger) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{
		repo:      repo,
		txManager: txManager,
		log:       log,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetBookedCounter(counter BookedCounter) {
	s.bookedCounter = counter
}

func (s *service) CreateEvent(ctx context.Context, createdBy *uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	event := &Event{
		Name:              req.Name,
		Description:       req.Description,
		StartsAt:          req.StartsAt.UTC(),
		MaxSeats:          req.MaxSeats,
		DefaultPriceCents: req.DefaultPriceCents,
		CreatedBy:         createdBy,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, apperrors.FromDB(fmt.Errorf("failed to create event: %w", err))
	}

	s.log.InfoWithContext(ctx, "Event Created", map[string]interface{}{
		"event_id": event.ID.String(),
	})

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	load := func() (interface{}, error) {
		event, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, apperrors.FromDB(err)
		}
		return event.ToResponse(), nil
	}

	var resp EventResponse
	if s.cacheService == nil {
		data, err := load()
		if err != nil {
			return nil, err
		}
		resp = data.(EventResponse)
		return &resp, nil
	}

	key := constants.BuildEventDetailKey(id.String())
	if err := s.cacheService.GetOrSet(ctx, key, constants.TTL_EVENT_DETAIL, load, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateCapacity changes the ceiling under the event lock. A ceiling below
// the seats already booked is refused.
func (s *service) UpdateCapacity(ctx context.Context, id uuid.UUID, req UpdateCapacityRequest) (*EventResponse, error) {
	var updated *Event
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}

		if req.MaxSeats != nil && s.bookedCounter != nil {
			booked, err := s.bookedCounter.CountBookedForEvent(ctx, id)
			if err != nil {
				return err
			}
			if booked > int64(*req.MaxSeats) {
				return apperrors.Conflict(
					"capacity cannot be lower than the seats already booked",
					fmt.Sprintf("booked=%d", booked),
				)
			}
		}

		if err := s.repo.UpdateMaxSeats(ctx, id, req.MaxSeats); err != nil {
			return err
		}
		event.MaxSeats = req.MaxSeats
		updated = event
		return nil
	})
	if err != nil {
		return nil, apperrors.FromDB(err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Delete(ctx, constants.BuildEventDetailKey(id.String())); err != nil {
			s.log.ErrorWithContext(ctx, "Failed to invalidate event cache", err, map[string]interface{}{
				"event_id": id.String(),
			})
		}
	}

	resp := updated.ToResponse()
	return &resp, nil
}

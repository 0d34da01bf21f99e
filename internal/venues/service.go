package venues

import (
	"context"
	"errors"
	"fmt"

	"seatline/internal/events"
	"seatline/internal/seats"
	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/transaction"
	"seatline/internal/shared/validation"
	"seatline/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	SetMapCache(mapCache *seats.MapCache)

	CreateVenueMap(ctx context.Context, eventID uuid.UUID, req CreateVenueMapRequest) (*VenueMapResponse, error)
	DuplicateVenueMap(ctx context.Context, sourceEventID, targetEventID uuid.UUID) (*VenueMapResponse, error)
	GetVenueMap(ctx context.Context, eventID uuid.UUID) (*VenueMapResponse, error)
	GetSeatMap(ctx context.Context, eventID uuid.UUID) (*SeatMapResponse, error)

	// CountBookedForEvent is zero for events without a venue map.
	CountBookedForEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type service struct {
	repo       Repository
	eventsRepo events.Repository
	ledger     *seats.Ledger
	txManager  transaction.Manager
	mapCache   *seats.MapCache
	log        *logger.Logger
}

func NewService(repo Repository, eventsRepo events.Repository, ledger *seats.Ledger, txManager transaction.Manager, log *logger.Logger) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{
		repo:       repo,
		eventsRepo: eventsRepo,
		ledger:     ledger,
		txManager:  txManager,
		log:        log,
	}
}

func (s *service) SetMapCache(mapCache *seats.MapCache) {
	s.mapCache = mapCache
}

func (s *service) CreateVenueMap(ctx context.Context, eventID uuid.UUID, req CreateVenueMapRequest) (*VenueMapResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if len(req.Sections)+len(req.Tables) == 0 {
		return nil, apperrors.InvalidInput("a venue map needs at least one section or table")
	}
	if dups := duplicateNames(req); len(dups) > 0 {
		return nil, apperrors.InvalidInput("section and table names must be unique", dups...)
	}

	return s.createPlaced(ctx, eventID, buildVenueMap(eventID, req))
}

// DuplicateVenueMap copies the floor plan of sourceEventID onto
// targetEventID. Every copied seat starts AVAILABLE.
func (s *service) DuplicateVenueMap(ctx context.Context, sourceEventID, targetEventID uuid.UUID) (*VenueMapResponse, error) {
	if sourceEventID == targetEventID {
		return nil, apperrors.InvalidInput("source and target event must differ")
	}

	src, err := s.repo.GetVenueMapByEventID(ctx, sourceEventID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}

	return s.createPlaced(ctx, targetEventID, copyVenueMap(src, targetEventID))
}

// createPlaced runs the layout placer and persists the map and all of its
// seats in one transaction.
func (s *service) createPlaced(ctx context.Context, eventID uuid.UUID, vm *VenueMap) (*VenueMapResponse, error) {
	vm.ApplyLayout(Place(vm.Layout()))
	generated := GenerateSeats(vm)

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.eventsRepo.LockByID(ctx, eventID); err != nil {
			return err
		}

		existing, err := s.repo.GetVenueMapByEventID(ctx, eventID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if existing != nil {
			return apperrors.Conflict("event already has a venue map")
		}

		if err := s.repo.CreateVenueMap(ctx, vm); err != nil {
			return err
		}
		if err := s.ledger.Repository().CreateSeats(ctx, generated); err != nil {
			return fmt.Errorf("failed to create seats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.FromDB(err)
	}

	s.mapCache.Invalidate(ctx, eventID)
	s.log.InfoWithContext(ctx, "Venue Map Created", map[string]interface{}{
		"event_id":     eventID.String(),
		"venue_map_id": vm.ID.String(),
		"seat_count":   len(generated),
		"grid_cols":    vm.GridCols,
		"grid_rows":    vm.GridRows,
	})

	resp := vm.ToResponse()
	return &resp, nil
}

func (s *service) GetVenueMap(ctx context.Context, eventID uuid.UUID) (*VenueMapResponse, error) {
	vm, err := s.repo.GetVenueMapByEventID(ctx, eventID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	resp := vm.ToResponse()
	return &resp, nil
}

func (s *service) GetSeatMap(ctx context.Context, eventID uuid.UUID) (*SeatMapResponse, error) {
	var resp SeatMapResponse
	err := s.mapCache.GetOrLoad(ctx, eventID, &resp, func() (interface{}, error) {
		vm, err := s.repo.GetVenueMapByEventID(ctx, eventID)
		if err != nil {
			return nil, apperrors.FromDB(err)
		}
		all, err := s.ledger.SeatsForVenueMap(ctx, vm.ID)
		if err != nil {
			return nil, err
		}
		return newSeatMapResponse(vm, all), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) CountBookedForEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	vm, err := s.repo.GetVenueMapByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, nil
		}
		return 0, apperrors.FromDB(err)
	}
	return s.ledger.CountBooked(ctx, vm.ID)
}

package holds

import (
	"context"
	"fmt"

	"seatline/internal/seats"
	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/transaction"
	"seatline/internal/venues"
	"seatline/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	SetMapCache(mapCache *seats.MapCache)

	CreateHold(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, label string, createdBy *uuid.UUID) (*HoldResponse, error)
	// ReleaseHold returns the hold's seats to AVAILABLE and deletes it. A
	// second release of the same hold fails with NotFound.
	ReleaseHold(ctx context.Context, holdID uuid.UUID) error
	GetHold(ctx context.Context, holdID uuid.UUID) (*HoldResponse, error)
	ListHolds(ctx context.Context, eventID uuid.UUID) ([]HoldResponse, error)
}

type service struct {
	repo       Repository
	venuesRepo venues.Repository
	ledger     *seats.Ledger
	txManager  transaction.Manager
	mapCache   *seats.MapCache
	log        *logger.Logger
}

func NewService(repo Repository, venuesRepo venues.Repository, ledger *seats.Ledger, txManager transaction.Manager, log *logger.Logger) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{
		repo:       repo,
		venuesRepo: venuesRepo,
		ledger:     ledger,
		txManager:  txManager,
		log:        log,
	}
}

func (s *service) SetMapCache(mapCache *seats.MapCache) {
	s.mapCache = mapCache
}

func (s *service) CreateHold(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, label string, createdBy *uuid.UUID) (*HoldResponse, error) {
	if label == "" {
		return nil, apperrors.InvalidInput("hold label is required")
	}

	var (
		hold *Hold
		held []seats.Seat
	)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		vm, err := s.venuesRepo.GetVenueMapByEventID(ctx, eventID)
		if err != nil {
			return err
		}

		resolved, err := s.ledger.Resolve(ctx, vm.ID, seatIDs)
		if err != nil {
			return err
		}

		hold = &Hold{
			ID:         uuid.New(),
			EventID:    eventID,
			VenueMapID: vm.ID,
			Label:      label,
			CreatedBy:  createdBy,
		}
		if err := s.repo.Create(ctx, hold); err != nil {
			return fmt.Errorf("failed to create hold: %w", err)
		}

		if err := s.ledger.PlaceHold(ctx, resolved, hold.ID); err != nil {
			return err
		}
		held = resolved
		return nil
	})
	if err != nil {
		err = apperrors.FromDB(err)
		if k := apperrors.KindOf(err); k == apperrors.KindConflict || k == apperrors.KindInvalidInput {
			s.log.LogAllocationRejected(ctx, eventID.String(), string(k), apperrors.DetailsOf(err))
		}
		return nil, err
	}

	s.mapCache.Invalidate(ctx, eventID)
	s.log.LogHoldCreated(ctx, hold.ID.String(), eventID.String(), len(held))

	resp := hold.ToResponse(held)
	return &resp, nil
}

func (s *service) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	var (
		hold     *Hold
		released int64
	)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		hold, err = s.repo.LockByID(ctx, holdID)
		if err != nil {
			return err
		}

		released, err = s.ledger.ReleaseHold(ctx, holdID)
		if err != nil {
			return err
		}

		return s.repo.Delete(ctx, holdID)
	})
	if err != nil {
		return apperrors.FromDB(err)
	}

	s.mapCache.Invalidate(ctx, hold.EventID)
	s.log.LogHoldReleased(ctx, holdID.String(), released)
	return nil
}

func (s *service) GetHold(ctx context.Context, holdID uuid.UUID) (*HoldResponse, error) {
	hold, err := s.repo.GetByID(ctx, holdID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	held, err := s.ledger.SeatsForHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	resp := hold.ToResponse(held)
	return &resp, nil
}

func (s *service) ListHolds(ctx context.Context, eventID uuid.UUID) ([]HoldResponse, error) {
	list, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}

	out := make([]HoldResponse, 0, len(list))
	for i := range list {
		held, err := s.ledger.SeatsForHold(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, list[i].ToResponse(held))
	}
	return out, nil
}

package promos

import (
	"context"
	"fmt"

	"seatline/internal/events"
	"seatline/internal/shared/apperrors"

	"github.com/google/uuid"
)

type Service interface {
	CreatePromo(ctx context.Context, eventID uuid.UUID, req CreatePromoRequest) (*Promo, error)
}

type service struct {
	repo       Repository
	eventsRepo events.Repository
}

func NewService(repo Repository, eventsRepo events.Repository) Service {
	return &service{repo: repo, eventsRepo: eventsRepo}
}

func (s *service) CreatePromo(ctx context.Context, eventID uuid.UUID, req CreatePromoRequest) (*Promo, error) {
	if req.DiscountType == DiscountPercent && req.Value > 100 {
		return nil, apperrors.InvalidInput("percent discount cannot exceed 100")
	}

	if _, err := s.eventsRepo.GetByID(ctx, eventID); err != nil {
		return nil, apperrors.FromDB(err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	promo := &Promo{
		EventID:      eventID,
		Code:         NormalizeCode(req.Code),
		DiscountType: req.DiscountType,
		Value:        req.Value,
		Active:       active,
	}
	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, apperrors.FromDB(fmt.Errorf("failed to create promo: %w", err))
	}
	return promo, nil
}

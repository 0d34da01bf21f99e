package venues

import (
	"context"
	"errors"

	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/transaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateVenueMap inserts the map with its sections and tables. A second
	// map for the same event fails with Conflict.
	CreateVenueMap(ctx context.Context, vm *VenueMap) error
	// GetVenueMapByEventID loads the map with sections and tables in input
	// order, or fails with NotFound.
	GetVenueMapByEventID(ctx context.Context, eventID uuid.UUID) (*VenueMap, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVenueMap(ctx context.Context, vm *VenueMap) error {
	err := transaction.Conn(ctx, r.db).Create(vm).Error
	if apperrors.IsUniqueViolation(err) {
		return apperrors.Conflict("event already has a venue map")
	}
	return err
}

func (r *repository) GetVenueMapByEventID(ctx context.Context, eventID uuid.UUID) (*VenueMap, error) {
	var vm VenueMap
	err := transaction.Conn(ctx, r.db).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Tables", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("event_id = ?", eventID).
		First(&vm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event has no venue map")
		}
		return nil, err
	}
	return &vm, nil
}

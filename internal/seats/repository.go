package seats

import (
	"context"
	"time"

	"seatline/internal/shared/transaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the persistence port of the seat ledger. Every write is a
// conditional update; callers compare the affected row count with the
// number of seats they meant to move.
type Repository interface {
	CreateSeats(ctx context.Context, seats []Seat) error

	// LockSeats loads the given seats FOR UPDATE, ordered by id so that
	// concurrent transactions acquire row locks in the same order.
	LockSeats(ctx context.Context, ids []uuid.UUID) ([]Seat, error)
	GetSeatsByVenueMapID(ctx context.Context, venueMapID uuid.UUID) ([]Seat, error)
	GetSeatsByHoldID(ctx context.Context, holdID uuid.UUID) ([]Seat, error)
	GetSeatsByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Seat, error)
	CountByStatus(ctx context.Context, venueMapID uuid.UUID, status Status) (int64, error)

	// CompareAndSwap moves the seats in ids whose status is one of from to
	// the target transition and returns how many rows changed.
	CompareAndSwap(ctx context.Context, ids []uuid.UUID, from []Status, to Transition) (int64, error)
	ReleaseByHoldID(ctx context.Context, holdID uuid.UUID) (int64, error)
	ReleaseByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return transaction.Conn(ctx, r.db).CreateInBatches(&seats, 500).Error
}

func (r *repository) LockSeats(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := transaction.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByVenueMapID(ctx context.Context, venueMapID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := transaction.Conn(ctx, r.db).
		Where("venue_map_id = ?", venueMapID).
		Order("label ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByHoldID(ctx context.Context, holdID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := transaction.Conn(ctx, r.db).
		Where("hold_id = ?", holdID).
		Order("label ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := transaction.Conn(ctx, r.db).
		Where("booking_id = ?", bookingID).
		Order("label ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) CountByStatus(ctx context.Context, venueMapID uuid.UUID, status Status) (int64, error) {
	var count int64
	err := transaction.Conn(ctx, r.db).
		Model(&Seat{}).
		Where("venue_map_id = ? AND status = ?", venueMapID, status).
		Count(&count).Error
	return count, err
}

func (r *repository) CompareAndSwap(ctx context.Context, ids []uuid.UUID, from []Status, to Transition) (int64, error) {
	res := transaction.Conn(ctx, r.db).
		Model(&Seat{}).
		Where("id IN ? AND status IN ?", ids, from).
		Updates(map[string]interface{}{
			"status":     to.Status,
			"hold_id":    nullableUUID(to.HoldID),
			"booking_id": nullableUUID(to.BookingID),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ReleaseByHoldID(ctx context.Context, holdID uuid.UUID) (int64, error) {
	res := transaction.Conn(ctx, r.db).
		Model(&Seat{}).
		Where("hold_id = ? AND status = ?", holdID, StatusHeld).
		Updates(map[string]interface{}{
			"status":     StatusAvailable,
			"hold_id":    nil,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ReleaseByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	res := transaction.Conn(ctx, r.db).
		Model(&Seat{}).
		Where("booking_id = ? AND status = ?", bookingID, StatusBooked).
		Updates(map[string]interface{}{
			"status":     StatusAvailable,
			"booking_id": nil,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// nullableUUID keeps gorm from writing the zero uuid for a nil pointer.
func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

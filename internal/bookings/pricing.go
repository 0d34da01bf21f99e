package bookings

import (
	"math"

	"seatline/internal/promos"
	"seatline/internal/seats"

	"github.com/google/uuid"
)

// PriceLine is the price of one seat before any discount.
type PriceLine struct {
	SeatID     string `json:"seat_id"`
	Label      string `json:"label"`
	PriceCents int64  `json:"price_cents"`
}

// Price is the outcome of pricing one order. PromoCode is empty when no
// discount applied.
type Price struct {
	Lines         []PriceLine
	PromoCode     string
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// SeatPrice returns the tier price of the seat's section or table, or
// the event's flat rate when the tier has no price of its own.
func SeatPrice(seat seats.Seat, tiers map[uuid.UUID]int64, defaultCents int64) int64 {
	if seat.SectionID != nil {
		if p, ok := tiers[*seat.SectionID]; ok {
			return p
		}
	}
	if seat.TableID != nil {
		if p, ok := tiers[*seat.TableID]; ok {
			return p
		}
	}
	return defaultCents
}

// Discount computes the amount a promo takes off subtotal. A nil or
// inactive promo discounts nothing. Percentages are clamped to [0, 100]
// and rounded half up to the cent; flat amounts never exceed subtotal.
func Discount(subtotal int64, promo *promos.Promo) int64 {
	if promo == nil || !promo.Active || subtotal <= 0 {
		return 0
	}

	var d int64
	switch promo.DiscountType {
	case promos.DiscountPercent:
		pct := math.Min(math.Max(promo.Value, 0), 100)
		d = int64(math.Floor(float64(subtotal)*pct/100 + 0.5))
	case promos.DiscountFlat:
		d = int64(math.Round(math.Max(promo.Value, 0)))
	}

	if d > subtotal {
		d = subtotal
	}
	return d
}

// ComputePrice prices seats and applies promo.
func ComputePrice(owned []seats.Seat, tiers map[uuid.UUID]int64, defaultCents int64, promo *promos.Promo) Price {
	p := Price{Lines: make([]PriceLine, 0, len(owned))}
	for _, seat := range owned {
		cents := SeatPrice(seat, tiers, defaultCents)
		p.Lines = append(p.Lines, PriceLine{
			SeatID:     seat.ID.String(),
			Label:      seat.Label,
			PriceCents: cents,
		})
		p.SubtotalCents += cents
	}

	p.DiscountCents = Discount(p.SubtotalCents, promo)
	if p.DiscountCents > 0 {
		p.PromoCode = promo.Code
	}
	p.TotalCents = max(p.SubtotalCents-p.DiscountCents, 0)
	return p
}

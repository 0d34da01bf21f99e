package promos

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFlat    DiscountType = "FLAT"
)

func (d DiscountType) IsValid() bool {
	return d == DiscountPercent || d == DiscountFlat
}

// Promo is one discount code of an event. Value is a percentage for
// PERCENT and an amount in cents for FLAT.
type Promo struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID      uuid.UUID    `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_promos_event_code"`
	Code         string       `json:"code" gorm:"not null;size:64;uniqueIndex:idx_promos_event_code"`
	DiscountType DiscountType `json:"discount_type" gorm:"type:varchar(16);not null;check:discount_type IN ('PERCENT', 'FLAT')"`
	Value        float64      `json:"value" gorm:"not null"`
	Active       bool         `json:"active" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Promo) TableName() string {
	return "promos"
}

type CreatePromoRequest struct {
	Code         string       `json:"code" binding:"required,min=2,max=64,alphanum"`
	DiscountType DiscountType `json:"discount_type" binding:"required,oneof=PERCENT FLAT"`
	Value        float64      `json:"value" binding:"gte=0"`
	Active       *bool        `json:"active"`
}

// NormalizeCode makes promo lookups case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mcruzdev/bundlecart-backend/pkg/enums"
)

// BundleTier captures a "buy N" discount threshold for a product.
// At most one active row per (product_id, tier_key) pair.
type BundleTier struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	TierKey            enums.TierKey   `gorm:"column:tier_key;not null"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null"`
	Label              string          `gorm:"column:label;not null"`
	IsActive           bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *BundleTier) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountCart is the durable per-account cart a guest cart merges into.
// Version implements optimistic concurrency for merge writes.
type AccountCart struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID uuid.UUID         `gorm:"column:account_id;type:uuid;not null;uniqueIndex"`
	Version   int64             `gorm:"column:version;not null;default:0"`
	Items     []AccountCartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *AccountCart) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

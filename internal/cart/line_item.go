package cart

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcruzdev/bundlecart-backend/pkg/enums"
)

// BundleSelection snapshots the discount tier a shopper picked for a line.
type BundleSelection struct {
	TierKey            enums.TierKey   `json:"tier_key"`
	RequiredQuantity   int             `json:"required_quantity"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Label              string          `json:"label"`
}

// LineItem is one product line in a guest cart. ID is generated client-side
// at creation time and never changes.
type LineItem struct {
	ID              string           `json:"id"`
	ProductID       uuid.UUID        `json:"product_id"`
	Quantity        int              `json:"quantity"`
	BundleSelection *BundleSelection `json:"bundle_selection,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewLineItemID builds an opaque line id from the creation timestamp plus a
// random suffix, so ids stay unique without coordination.
func NewLineItemID(now time.Time) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Sprintf("%d", now.UnixMilli())
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), hex.EncodeToString(suffix))
}

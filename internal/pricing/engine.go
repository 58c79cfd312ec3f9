package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	"github.com/mcruzdev/bundlecart-backend/pkg/enums"
)

// currencyScale is the minor-unit precision prices are rounded to. Rounding
// happens exactly once, on the final discount amount, so intermediate values
// never accumulate rounding error.
const currencyScale = 2

var oneHundred = decimal.NewFromInt(100)

// Quote is the result of evaluating bundle pricing for one product line.
// OriginalPrice covers only the bundle unit count when a tier applies; units
// beyond the tier threshold are reported as the remainder at base price.
type Quote struct {
	Quantity          int             `json:"quantity"`
	AppliedTierKey    *enums.TierKey  `json:"applied_tier_key,omitempty"`
	AppliedTierLabel  string          `json:"applied_tier_label,omitempty"`
	BundleQuantity    int             `json:"bundle_quantity"`
	OriginalPrice     decimal.Decimal `json:"original_price"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	DiscountedPrice   decimal.Decimal `json:"discounted_price"`
	RemainderQuantity int             `json:"remainder_quantity"`
	RemainderSubtotal decimal.Decimal `json:"remainder_subtotal"`
	Total             decimal.Decimal `json:"total"`
	Currency          enums.Currency  `json:"currency"`
}

// TierApplied reports whether a bundle tier discounted this quote.
func (q Quote) TierApplied() bool {
	return q.AppliedTierKey != nil
}

// Evaluate computes the effective pricing for quantity units of the product
// against its configured tiers. Pure: no I/O, no mutation. Zero quantity and
// no qualifying tier are valid results, never errors; tier data is assumed
// validated at ingestion.
func Evaluate(product models.Product, quantity int, tiers []models.BundleTier) Quote {
	quote := Quote{
		Quantity:          quantity,
		Currency:          product.Currency,
		OriginalPrice:     decimal.Zero,
		DiscountAmount:    decimal.Zero,
		DiscountedPrice:   decimal.Zero,
		RemainderSubtotal: decimal.Zero,
		Total:             decimal.Zero,
	}
	if quantity <= 0 {
		return quote
	}

	tier := selectTier(quantity, tiers)
	if tier == nil {
		original := product.BasePrice.Mul(decimal.NewFromInt(int64(quantity)))
		quote.OriginalPrice = original
		quote.DiscountedPrice = original
		quote.Total = original
		return quote
	}

	required := tier.TierKey.RequiredQuantity()
	original := product.BasePrice.Mul(decimal.NewFromInt(int64(required)))
	discountAmount := original.
		Mul(tier.DiscountPercentage).
		Div(oneHundred).
		Round(currencyScale)
	discounted := original.Sub(discountAmount)

	remainderQty := quantity - required
	remainder := product.BasePrice.Mul(decimal.NewFromInt(int64(remainderQty)))

	key := tier.TierKey
	quote.AppliedTierKey = &key
	quote.AppliedTierLabel = tier.Label
	quote.BundleQuantity = required
	quote.OriginalPrice = original
	quote.DiscountAmount = discountAmount
	quote.DiscountedPrice = discounted
	quote.RemainderQuantity = remainderQty
	quote.RemainderSubtotal = remainder
	quote.Total = discounted.Add(remainder)
	return quote
}

// selectTier picks the active tier with the largest qualifying threshold.
// Highest threshold wins, not highest percentage, so tier selection stays
// monotonic in quantity.
func selectTier(quantity int, tiers []models.BundleTier) *models.BundleTier {
	var selected *models.BundleTier
	for i := range tiers {
		tier := &tiers[i]
		if !tier.IsActive {
			continue
		}
		required := tier.TierKey.RequiredQuantity()
		if required == 0 || required > quantity {
			continue
		}
		if selected == nil || required > selected.TierKey.RequiredQuantity() {
			selected = tier
		}
	}
	if selected == nil {
		return nil
	}
	copied := *selected
	return &copied
}

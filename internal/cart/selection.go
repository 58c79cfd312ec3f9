package cart

import (
	"github.com/mcruzdev/bundlecart-backend/internal/pricing"
	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	"github.com/mcruzdev/bundlecart-backend/pkg/enums"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
)

// NewBundleSelection snapshots the named tier's pricing for the product so
// the cart line keeps showing the price the shopper accepted.
func NewBundleSelection(product models.Product, key enums.TierKey) (*BundleSelection, error) {
	var tier *models.BundleTier
	for i := range product.BundleTiers {
		candidate := &product.BundleTiers[i]
		if candidate.IsActive && candidate.TierKey == key {
			tier = candidate
			break
		}
	}
	if tier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bundle tier not available for product")
	}

	required := key.RequiredQuantity()
	quote := pricing.Evaluate(product, required, product.BundleTiers)

	return &BundleSelection{
		TierKey:            key,
		RequiredQuantity:   required,
		OriginalPrice:      quote.OriginalPrice,
		DiscountedPrice:    quote.DiscountedPrice,
		DiscountPercentage: tier.DiscountPercentage,
		Label:              tier.Label,
	}, nil
}

package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
)

// ValidateTiers enforces tier configuration invariants at ingestion time so
// Evaluate never has to reject anything: percentages stay in [0,100] and at
// most one active tier exists per (product, tier key) pair.
func ValidateTiers(tiers []models.BundleTier) error {
	problems := map[string]string{}
	activeKeys := map[string]struct{}{}

	for i, tier := range tiers {
		field := fmt.Sprintf("tiers[%d]", i)

		if !tier.TierKey.IsValid() {
			problems[field] = fmt.Sprintf("tier key %q does not encode a bundle threshold", tier.TierKey)
			continue
		}
		if tier.DiscountPercentage.IsNegative() {
			problems[field] = "discount percentage cannot be negative"
			continue
		}
		if tier.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
			problems[field] = "discount percentage cannot exceed 100"
			continue
		}
		if strings.TrimSpace(tier.Label) == "" {
			problems[field] = "label is required"
			continue
		}
		if !tier.IsActive {
			continue
		}
		dedupe := tier.ProductID.String() + "/" + tier.TierKey.String()
		if _, dup := activeKeys[dedupe]; dup {
			problems[field] = fmt.Sprintf("duplicate active tier for key %q", tier.TierKey)
			continue
		}
		activeKeys[dedupe] = struct{}{}
	}

	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "bundle tier configuration invalid").
			WithDetails(problems)
	}
	return nil
}

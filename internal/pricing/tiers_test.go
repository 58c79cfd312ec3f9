package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	"github.com/mcruzdev/bundlecart-backend/pkg/enums"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
)

func TestValidateTiersAcceptsWellFormedSet(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	tiers := []models.BundleTier{
		{ProductID: productID, TierKey: enums.TierKeyGet2, DiscountPercentage: decimal.RequireFromString("20"), Label: "Buy 2, save 20%", IsActive: true},
		{ProductID: productID, TierKey: enums.TierKeyGet3, DiscountPercentage: decimal.RequireFromString("30"), Label: "Buy 3, save 30%", IsActive: true},
	}

	if err := ValidateTiers(tiers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateTiersRejectsOutOfRangePercentage(t *testing.T) {
	t.Parallel()

	cases := []string{"-5", "100.01", "250"}
	for _, pct := range cases {
		tiers := []models.BundleTier{{
			ProductID:          uuid.New(),
			TierKey:            enums.TierKeyGet2,
			DiscountPercentage: decimal.RequireFromString(pct),
			Label:              "bad",
			IsActive:           true,
		}}
		err := ValidateTiers(tiers)
		if err == nil {
			t.Fatalf("expected error for percentage %s", pct)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConfiguration {
			t.Fatalf("expected configuration error, got %v", err)
		}
	}
}

func TestValidateTiersRejectsDuplicateActivePair(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	tiers := []models.BundleTier{
		{ProductID: productID, TierKey: enums.TierKeyGet2, DiscountPercentage: decimal.RequireFromString("10"), Label: "a", IsActive: true},
		{ProductID: productID, TierKey: enums.TierKeyGet2, DiscountPercentage: decimal.RequireFromString("15"), Label: "b", IsActive: true},
	}

	err := ValidateTiers(tiers)
	if err == nil {
		t.Fatal("expected error for duplicate active (product, tier_key) pair")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestValidateTiersAllowsInactiveDuplicate(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	tiers := []models.BundleTier{
		{ProductID: productID, TierKey: enums.TierKeyGet2, DiscountPercentage: decimal.RequireFromString("10"), Label: "a", IsActive: true},
		{ProductID: productID, TierKey: enums.TierKeyGet2, DiscountPercentage: decimal.RequireFromString("15"), Label: "b", IsActive: false},
	}

	if err := ValidateTiers(tiers); err != nil {
		t.Fatalf("inactive duplicate should be tolerated, got %v", err)
	}
}

func TestValidateTiersRejectsMalformedKeyAndEmptyLabel(t *testing.T) {
	t.Parallel()

	tiers := []models.BundleTier{
		{ProductID: uuid.New(), TierKey: enums.TierKey("weekly"), DiscountPercentage: decimal.RequireFromString("10"), Label: "x", IsActive: true},
		{ProductID: uuid.New(), TierKey: enums.TierKeyGet3, DiscountPercentage: decimal.RequireFromString("10"), Label: "   ", IsActive: true},
	}

	err := ValidateTiers(tiers)
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected per-field details, got %+v", typed.Details())
	}
	if len(details) != 2 {
		t.Fatalf("expected both tiers reported, got %+v", details)
	}
}

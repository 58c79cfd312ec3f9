package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mcruzdev/bundlecart-backend/internal/pricing"
	"github.com/mcruzdev/bundlecart-backend/pkg/db"
	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	"github.com/mcruzdev/bundlecart-backend/pkg/enums"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
	"github.com/mcruzdev/bundlecart-backend/pkg/metrics"
)

// Service exposes catalog and bundle tier management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListTiers(ctx context.Context, productID uuid.UUID) ([]models.BundleTier, error)
	ReplaceTiers(ctx context.Context, productID uuid.UUID, inputs []TierInput) ([]models.BundleTier, error)
	Quote(ctx context.Context, productID uuid.UUID, quantity int) (*pricing.Quote, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description *string
	BasePrice   decimal.Decimal
	Currency    enums.Currency
	IsActive    bool
}

// TierInput defines one bundle tier to ingest for a product.
type TierInput struct {
	TierKey            enums.TierKey
	DiscountPercentage decimal.Decimal
	Label              string
	IsActive           bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	metrics  *metrics.CartMetrics
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, cartMetrics *metrics.CartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, metrics: cartMetrics}, nil
}

// CreateProduct inserts a new catalog listing.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price cannot be negative")
	}
	if !input.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency").
			WithDetails(map[string]string{"currency": string(input.Currency)})
	}

	product := &models.Product{
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		BasePrice:   input.BasePrice,
		Currency:    input.Currency,
		IsActive:    input.IsActive,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku already exists").
				WithDetails(map[string]string{"sku": input.SKU})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return created, nil
}

// GetProduct loads a product with its bundle tiers.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

// ListTiers returns the configured bundle tiers for a product.
func (s *service) ListTiers(ctx context.Context, productID uuid.UUID) ([]models.BundleTier, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	tiers, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bundle tiers")
	}
	return tiers, nil
}

// ReplaceTiers validates and atomically swaps the tier set for a product.
// Malformed configurations are rejected here so pricing never sees them.
func (s *service) ReplaceTiers(ctx context.Context, productID uuid.UUID, inputs []TierInput) ([]models.BundleTier, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	tiers := make([]models.BundleTier, 0, len(inputs))
	for _, input := range inputs {
		tiers = append(tiers, models.BundleTier{
			ProductID:          productID,
			TierKey:            input.TierKey,
			DiscountPercentage: input.DiscountPercentage,
			Label:              input.Label,
			IsActive:           input.IsActive,
		})
	}
	if err := pricing.ValidateTiers(tiers); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).ReplaceForProduct(ctx, productID, tiers); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace bundle tiers")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	stored, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload bundle tiers")
	}
	return stored, nil
}

// Quote evaluates bundle pricing for quantity units of a product.
func (s *service) Quote(ctx context.Context, productID uuid.UUID, quantity int) (*pricing.Quote, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	quote := pricing.Evaluate(*product, quantity, product.BundleTiers)
	s.metrics.IncQuote(quote.TierApplied())
	return &quote, nil
}

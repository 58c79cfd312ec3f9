package catalog

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
)

// ProductRepository defines the read surface the pricing paths need.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
}

// TierRepository exposes bundle tier persistence.
type TierRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.BundleTier, error)
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, tiers []models.BundleTier) error
}

// Repository wires together catalog persistence over GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads the product with its bundle tiers.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("BundleTiers").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads the product by its merchant SKU.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("BundleTiers").
		First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product listing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ListByProduct returns tiers for the product, stable by threshold order.
// Keys sort by their parsed quantity, not lexically, so get10 lands after get2.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.BundleTier, error) {
	var tiers []models.BundleTier
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].TierKey.RequiredQuantity() < tiers[j].TierKey.RequiredQuantity()
	})
	return tiers, nil
}

// ReplaceForProduct atomically swaps the tier set for a product.
func (r *Repository) ReplaceForProduct(ctx context.Context, productID uuid.UUID, tiers []models.BundleTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.BundleTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		tiers[i].ProductID = productID
	}
	return tx.Create(&tiers).Error
}

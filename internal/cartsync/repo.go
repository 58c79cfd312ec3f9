package cartsync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
)

// ErrVersionMismatch signals the account cart changed between fetch and write.
var ErrVersionMismatch = errors.New("account cart version mismatch")

// RemoteCartRepository is the durable account-cart port the coordinator
// writes through.
type RemoteCartRepository interface {
	FetchCart(ctx context.Context, accountID uuid.UUID) (*models.AccountCart, error)
	WriteCart(ctx context.Context, accountID uuid.UUID, items []models.AccountCartItem, expectedVersion int64) (*models.AccountCart, error)
}

// Repository persists account carts over GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FetchCart loads the account cart with its items. A missing cart comes back
// as an unsaved cart at version zero so first-time merges need no special
// casing.
func (r *Repository) FetchCart(ctx context.Context, accountID uuid.UUID) (*models.AccountCart, error) {
	var cart models.AccountCart
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&cart, "account_id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.AccountCart{AccountID: accountID, Version: 0}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// WriteCart replaces the cart's items, guarded by the expected version. The
// version bump and the guard run in one statement so concurrent writers
// cannot both succeed; a guard miss returns ErrVersionMismatch.
func (r *Repository) WriteCart(ctx context.Context, accountID uuid.UUID, items []models.AccountCartItem, expectedVersion int64) (*models.AccountCart, error) {
	var written *models.AccountCart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.AccountCart
		err := tx.First(&cart, "account_id = ?", accountID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if expectedVersion != 0 {
				return ErrVersionMismatch
			}
			cart = models.AccountCart{AccountID: accountID, Version: 0}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		result := tx.Model(&models.AccountCart{}).
			Where("id = ? AND version = ?", cart.ID, expectedVersion).
			Update("version", expectedVersion+1)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionMismatch
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.AccountCartItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = uuid.Nil
			items[i].CartID = cart.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		cart.Version = expectedVersion + 1
		cart.Items = items
		written = &cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

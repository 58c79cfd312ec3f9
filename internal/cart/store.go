package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
)

// Store owns CRUD over one guest's cart. Every mutation enforces the
// at-most-one-line-per-product invariant and persists the full cart before
// returning; a failed persist surfaces as CodeStorage and the operation does
// not report success. Each call is a single read-modify-write; concurrent
// writers to the same guest id (multiple tabs) are last-write-wins.
type Store struct {
	storage Storage
	now     func() time.Time
}

// NewStore builds a guest cart store over the provided storage port.
func NewStore(storage Storage) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	return &Store{storage: storage, now: time.Now}, nil
}

// Items returns the cart in insertion order. A missing or corrupt payload
// yields an empty cart, never an error; only a storage transport failure is
// surfaced.
func (s *Store) Items(ctx context.Context, guestCartID string) ([]LineItem, error) {
	if guestCartID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest cart id is required")
	}

	payload, found, err := s.storage.Read(ctx, guestCartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read guest cart")
	}
	if !found {
		return []LineItem{}, nil
	}

	items, err := decodeItems(payload)
	if err != nil {
		// Corrupt payloads are discarded rather than propagated.
		return []LineItem{}, nil
	}
	return items, nil
}

// AddItem increments the existing line for the product or appends a new one.
func (s *Store) AddItem(ctx context.Context, guestCartID string, productID uuid.UUID, quantity int) ([]LineItem, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	items, err := s.Items(ctx, guestCartID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			items[i].UpdatedAt = now
			updated = true
			break
		}
	}
	if !updated {
		items = append(items, LineItem{
			ID:        NewLineItemID(now),
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.persist(ctx, guestCartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetQuantity updates a line's quantity; zero or less removes the line.
func (s *Store) SetQuantity(ctx context.Context, guestCartID, itemID string, quantity int) ([]LineItem, error) {
	items, err := s.Items(ctx, guestCartID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, itemID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = quantity
		items[idx].UpdatedAt = s.now()
	}

	if err := s.persist(ctx, guestCartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem deletes the line if present; an unknown id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, guestCartID, itemID string) ([]LineItem, error) {
	items, err := s.Items(ctx, guestCartID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, itemID)
	if idx >= 0 {
		items = append(items[:idx], items[idx+1:]...)
	}

	if err := s.persist(ctx, guestCartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetBundleSelection records (or clears, when nil) the chosen discount tier
// on an existing line.
func (s *Store) SetBundleSelection(ctx context.Context, guestCartID, itemID string, selection *BundleSelection) ([]LineItem, error) {
	items, err := s.Items(ctx, guestCartID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, itemID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	items[idx].BundleSelection = selection
	items[idx].UpdatedAt = s.now()

	if err := s.persist(ctx, guestCartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear empties the cart. Clearing an already-empty cart succeeds.
func (s *Store) Clear(ctx context.Context, guestCartID string) error {
	if guestCartID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "guest cart id is required")
	}
	return s.persist(ctx, guestCartID, []LineItem{})
}

func (s *Store) persist(ctx context.Context, guestCartID string, items []LineItem) error {
	payload, err := encodeItems(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode guest cart")
	}
	if err := s.storage.Write(ctx, guestCartID, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "persist guest cart")
	}
	return nil
}

func indexOf(items []LineItem, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

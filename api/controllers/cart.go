package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mcruzdev/bundlecart-backend/api/middleware"
	"github.com/mcruzdev/bundlecart-backend/api/responses"
	"github.com/mcruzdev/bundlecart-backend/api/validators"
	cartsvc "github.com/mcruzdev/bundlecart-backend/internal/cart"
	"github.com/mcruzdev/bundlecart-backend/internal/catalog"
	"github.com/mcruzdev/bundlecart-backend/pkg/enums"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
	"github.com/mcruzdev/bundlecart-backend/pkg/logger"
)

type cartItemsResponse struct {
	Items []cartsvc.LineItem `json:"items"`
	Count int                `json:"count"`
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"omitempty,min=1"`
}

// quantityOrDefault treats an omitted quantity as adding a single unit.
func (r addItemRequest) quantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type bundleSelectionRequest struct {
	TierKey *string `json:"tier_key"`
}

// CartFetch returns the guest cart in insertion order.
func CartFetch(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guestCartID := middleware.GuestCartIDFromContext(r.Context())

		items, err := store.Items(r.Context(), guestCartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartItemsResponse{Items: items, Count: len(items)})
	}
}

// CartAddItem adds quantity of a product, folding into an existing line.
func CartAddItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guestCartID := middleware.GuestCartIDFromContext(r.Context())

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := store.AddItem(r.Context(), guestCartID, payload.ProductID, payload.quantityOrDefault())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cartItemsResponse{Items: items, Count: len(items)})
	}
}

// CartSetQuantity updates a line's quantity; zero or less removes the line.
func CartSetQuantity(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guestCartID := middleware.GuestCartIDFromContext(r.Context())
		itemID := chi.URLParam(r, "itemId")

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := store.SetQuantity(r.Context(), guestCartID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartItemsResponse{Items: items, Count: len(items)})
	}
}

// CartRemoveItem deletes a line; an unknown id is a no-op.
func CartRemoveItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guestCartID := middleware.GuestCartIDFromContext(r.Context())
		itemID := chi.URLParam(r, "itemId")

		items, err := store.RemoveItem(r.Context(), guestCartID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartItemsResponse{Items: items, Count: len(items)})
	}
}

// CartClear empties the guest cart.
func CartClear(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guestCartID := middleware.GuestCartIDFromContext(r.Context())

		if err := store.Clear(r.Context(), guestCartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartItemsResponse{Items: []cartsvc.LineItem{}, Count: 0})
	}
}

// CartSetBundleSelection records (or clears, when tier_key is null) the
// shopper's chosen discount tier on a line, snapshotting current prices.
func CartSetBundleSelection(store *cartsvc.Store, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guestCartID := middleware.GuestCartIDFromContext(r.Context())
		itemID := chi.URLParam(r, "itemId")

		var payload bundleSelectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var selection *cartsvc.BundleSelection
		if payload.TierKey != nil {
			built, err := buildBundleSelection(r, store, catalogSvc, guestCartID, itemID, *payload.TierKey)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			selection = built
		}

		items, err := store.SetBundleSelection(r.Context(), guestCartID, itemID, selection)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartItemsResponse{Items: items, Count: len(items)})
	}
}

func buildBundleSelection(r *http.Request, store *cartsvc.Store, catalogSvc catalog.Service, guestCartID, itemID, rawKey string) (*cartsvc.BundleSelection, error) {
	key, err := enums.ParseTierKey(rawKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier key")
	}

	items, err := store.Items(r.Context(), guestCartID)
	if err != nil {
		return nil, err
	}
	var productID uuid.UUID
	for _, item := range items {
		if item.ID == itemID {
			productID = item.ProductID
			break
		}
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	product, err := catalogSvc.GetProduct(r.Context(), productID)
	if err != nil {
		return nil, err
	}

	return cartsvc.NewBundleSelection(*product, key)
}

package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mcruzdev/bundlecart-backend/api/middleware"
	"github.com/mcruzdev/bundlecart-backend/api/responses"
	"github.com/mcruzdev/bundlecart-backend/internal/cartsync"
	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
	"github.com/mcruzdev/bundlecart-backend/pkg/logger"
)

type mergeResponse struct {
	AccountID uuid.UUID           `json:"account_id"`
	Version   int64               `json:"version"`
	Items     []mergeItemResponse `json:"items"`
}

type mergeItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CartMerge folds the guest cart into the signed-in shopper's account cart.
func CartMerge(coordinator *cartsync.Coordinator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guestCartID := middleware.GuestCartIDFromContext(r.Context())

		accountID, err := uuid.Parse(middleware.AccountIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing account identity"))
			return
		}

		result, err := coordinator.Merge(r.Context(), guestCartID, accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newMergeResponse(result))
	}
}

func newMergeResponse(result *cartsync.MergeResult) mergeResponse {
	items := make([]mergeItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, newMergeItemResponse(item))
	}
	return mergeResponse{
		AccountID: result.AccountID,
		Version:   result.Version,
		Items:     items,
	}
}

func newMergeItemResponse(item models.AccountCartItem) mergeItemResponse {
	return mergeItemResponse{ProductID: item.ProductID, Quantity: item.Quantity}
}

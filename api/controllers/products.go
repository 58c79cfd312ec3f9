package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcruzdev/bundlecart-backend/api/responses"
	"github.com/mcruzdev/bundlecart-backend/api/validators"
	"github.com/mcruzdev/bundlecart-backend/internal/catalog"
	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	"github.com/mcruzdev/bundlecart-backend/pkg/enums"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
	"github.com/mcruzdev/bundlecart-backend/pkg/logger"
)

type productResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Currency    enums.Currency  `json:"currency"`
	IsActive    bool            `json:"is_active"`
	BundleTiers []tierResponse  `json:"bundle_tiers"`
}

type tierResponse struct {
	TierKey            enums.TierKey   `json:"tier_key"`
	RequiredQuantity   int             `json:"required_quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Label              string          `json:"label"`
	IsActive           bool            `json:"is_active"`
}

type createProductRequest struct {
	SKU         string  `json:"sku" validate:"required,min=1,max=64"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	BasePrice   string  `json:"base_price" validate:"required"`
	Currency    string  `json:"currency" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type replaceTiersRequest struct {
	Tiers []tierRequest `json:"tiers" validate:"dive"`
}

type tierRequest struct {
	TierKey            string `json:"tier_key" validate:"required"`
	DiscountPercentage string `json:"discount_percentage" validate:"required"`
	Label              string `json:"label" validate:"required,min=1,max=255"`
	IsActive           *bool  `json:"is_active"`
}

// ProductDetail returns the product with its bundle tiers.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// AdminCreateProduct inserts a new catalog listing.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		basePrice, err := decimal.NewFromString(payload.BasePrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base_price"))
			return
		}

		isActive := true
		if payload.IsActive != nil {
			isActive = *payload.IsActive
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			SKU:         payload.SKU,
			Name:        payload.Name,
			Description: payload.Description,
			BasePrice:   basePrice,
			Currency:    enums.Currency(payload.Currency),
			IsActive:    isActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(product))
	}
}

// AdminListTiers returns the configured tiers for a product.
func AdminListTiers(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		tiers, err := svc.ListTiers(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tiers": newTierResponses(tiers)})
	}
}

// AdminReplaceTiers validates and swaps the product's bundle tier set.
func AdminReplaceTiers(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload replaceTiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs, err := toTierInputs(payload.Tiers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tiers, err := svc.ReplaceTiers(r.Context(), productID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tiers": newTierResponses(tiers)})
	}
}

func toTierInputs(requests []tierRequest) ([]catalog.TierInput, error) {
	inputs := make([]catalog.TierInput, 0, len(requests))
	for _, req := range requests {
		pct, err := decimal.NewFromString(req.DiscountPercentage)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount_percentage").
				WithDetails(map[string]string{"tier_key": req.TierKey})
		}
		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		inputs = append(inputs, catalog.TierInput{
			TierKey:            enums.TierKey(req.TierKey),
			DiscountPercentage: pct,
			Label:              req.Label,
			IsActive:           isActive,
		})
	}
	return inputs, nil
}

func newProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		BasePrice:   product.BasePrice,
		Currency:    product.Currency,
		IsActive:    product.IsActive,
		BundleTiers: newTierResponses(product.BundleTiers),
	}
}

func newTierResponses(tiers []models.BundleTier) []tierResponse {
	out := make([]tierResponse, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, tierResponse{
			TierKey:            tier.TierKey,
			RequiredQuantity:   tier.TierKey.RequiredQuantity(),
			DiscountPercentage: tier.DiscountPercentage,
			Label:              tier.Label,
			IsActive:           tier.IsActive,
		})
	}
	return out
}

package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cartsvc "github.com/mcruzdev/bundlecart-backend/internal/cart"
	"github.com/mcruzdev/bundlecart-backend/internal/cartsync"
	"github.com/mcruzdev/bundlecart-backend/internal/catalog"
	"github.com/mcruzdev/bundlecart-backend/internal/pricing"
	"github.com/mcruzdev/bundlecart-backend/pkg/config"
	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
)

type stubCatalogService struct{}

func (stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired in test")
}

func (stubCatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubCatalogService) ListTiers(ctx context.Context, productID uuid.UUID) ([]models.BundleTier, error) {
	return nil, nil
}

func (stubCatalogService) ReplaceTiers(ctx context.Context, productID uuid.UUID, inputs []catalog.TierInput) ([]models.BundleTier, error) {
	return nil, nil
}

func (stubCatalogService) Quote(ctx context.Context, productID uuid.UUID, quantity int) (*pricing.Quote, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "bundlecart-test"

	store, err := cartsvc.NewStore(cartsvc.NewMemoryStorage())
	if err != nil {
		t.Fatalf("building cart store: %v", err)
	}
	coordinator, err := cartsync.NewCoordinator(store, cartsync.NewRepository(nil), 0, nil, nil)
	if err != nil {
		t.Fatalf("building coordinator: %v", err)
	}

	registry := prometheus.NewRegistry()
	return NewRouter(
		cfg,
		nil,
		nil,
		nil,
		store,
		stubCatalogService{},
		coordinator,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Bundlecart-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestRouterHealthReadySkipsUnwiredDatasources(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterPublicPing(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterCartRequiresGuestHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRouterCartFetchWithGuestHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Guest-Cart-Id", "guest-router-test")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterMergeRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/merge", nil)
	req.Header.Set("X-Guest-Cart-Id", "guest-router-test")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterAdminRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

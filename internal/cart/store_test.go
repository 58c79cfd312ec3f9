package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	store, err := NewStore(storage)
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return store, storage
}

func TestAddItemDeduplicatesByProduct(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()
	productA := uuid.New()
	productB := uuid.New()

	if _, err := store.AddItem(ctx, "guest-1", productA, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := store.AddItem(ctx, "guest-1", productB, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	items, err := store.AddItem(ctx, "guest-1", productA, 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].ProductID != productA || items[0].Quantity != 3 {
		t.Fatalf("expected product A quantity 3 in insertion position, got %+v", items[0])
	}
	if items[1].ProductID != productB || items[1].Quantity != 1 {
		t.Fatalf("expected product B untouched, got %+v", items[1])
	}
}

func TestAddItemValidatesInput(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddItem(ctx, "guest-1", uuid.Nil, 1); err == nil {
		t.Fatal("expected error for nil product id")
	}
	if _, err := store.AddItem(ctx, "guest-1", uuid.New(), 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if _, err := store.AddItem(ctx, "", uuid.New(), 1); err == nil {
		t.Fatal("expected error for missing guest cart id")
	}
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	items, err := store.AddItem(ctx, "guest-1", uuid.New(), 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	itemID := items[0].ID

	items, err = store.SetQuantity(ctx, "guest-1", itemID, 0)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart after quantity 0, got %+v", items)
	}

	// Same outcome as RemoveItem on a fresh line.
	items, _ = store.AddItem(ctx, "guest-1", uuid.New(), 2)
	items, err = store.RemoveItem(ctx, "guest-1", items[0].ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart after remove, got %+v", items)
	}
}

func TestSetQuantityUnknownItem(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	_, err := store.SetQuantity(context.Background(), "guest-1", "missing", 3)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRemoveItemUnknownIsNoop(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	added, err := store.AddItem(ctx, "guest-1", uuid.New(), 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	items, err := store.RemoveItem(ctx, "guest-1", "never-existed")
	if err != nil {
		t.Fatalf("remove of unknown id must not error: %v", err)
	}
	if len(items) != len(added) {
		t.Fatalf("cart changed on no-op remove: %+v", items)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddItem(ctx, "guest-1", uuid.New(), 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Clear(ctx, "guest-1"); err != nil {
		t.Fatalf("first clear failed: %v", err)
	}
	if err := store.Clear(ctx, "guest-1"); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}

	items, err := store.Items(ctx, "guest-1")
	if err != nil {
		t.Fatalf("items failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestItemsDiscardsCorruptPayload(t *testing.T) {
	t.Parallel()

	store, storage := newTestStore(t)
	storage.Seed("guest-1", []byte(`{"not":"a cart`))

	items, err := store.Items(context.Background(), "guest-1")
	if err != nil {
		t.Fatalf("corrupt payload must not error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart for corrupt payload, got %+v", items)
	}
}

func TestItemsMissingCartIsEmpty(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	items, err := store.Items(context.Background(), "guest-never-seen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestWriteFailureSurfacesAsStorageError(t *testing.T) {
	t.Parallel()

	store, storage := newTestStore(t)
	storage.WriteErr = errors.New("quota exceeded")

	_, err := store.AddItem(context.Background(), "guest-1", uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStorage {
		t.Fatalf("expected storage error, got %v", err)
	}

	// The failed write must not report success: cart stays unreadable/empty.
	storage.WriteErr = nil
	items, err := store.Items(context.Background(), "guest-1")
	if err != nil {
		t.Fatalf("items failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no persisted lines after failed write, got %+v", items)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	original := []LineItem{
		{ID: NewLineItemID(now), ProductID: uuid.New(), Quantity: 3, CreatedAt: now, UpdatedAt: now},
		{ID: NewLineItemID(now), ProductID: uuid.New(), Quantity: 1, CreatedAt: now, UpdatedAt: now},
	}

	payload, err := encodeItems(original)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := decodeItems(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(decoded) != len(original) {
		t.Fatalf("length mismatch: %d vs %d", len(decoded), len(original))
	}
	for i := range original {
		if decoded[i].ID != original[i].ID ||
			decoded[i].ProductID != original[i].ProductID ||
			decoded[i].Quantity != original[i].Quantity ||
			!decoded[i].CreatedAt.Equal(original[i].CreatedAt) {
			t.Fatalf("line %d mismatch: %+v vs %+v", i, decoded[i], original[i])
		}
	}
}

func TestSetBundleSelection(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	items, err := store.AddItem(ctx, "guest-1", uuid.New(), 3)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	selection := &BundleSelection{TierKey: "get3", RequiredQuantity: 3, Label: "Buy 3, save 30%"}
	items, err = store.SetBundleSelection(ctx, "guest-1", items[0].ID, selection)
	if err != nil {
		t.Fatalf("set bundle selection failed: %v", err)
	}
	if items[0].BundleSelection == nil || items[0].BundleSelection.TierKey != "get3" {
		t.Fatalf("expected selection persisted, got %+v", items[0])
	}

	items, err = store.SetBundleSelection(ctx, "guest-1", items[0].ID, nil)
	if err != nil {
		t.Fatalf("clearing selection failed: %v", err)
	}
	if items[0].BundleSelection != nil {
		t.Fatalf("expected selection cleared, got %+v", items[0])
	}

	if _, err := store.SetBundleSelection(ctx, "guest-1", "missing", selection); err == nil {
		t.Fatal("expected not-found for unknown line")
	}
}

func TestNewLineItemIDsAreUnique(t *testing.T) {
	t.Parallel()

	now := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewLineItemID(now)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

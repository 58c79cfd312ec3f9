package cartsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcruzdev/bundlecart-backend/internal/cart"
	"github.com/mcruzdev/bundlecart-backend/pkg/db/models"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
	"github.com/mcruzdev/bundlecart-backend/pkg/logger"
	"github.com/mcruzdev/bundlecart-backend/pkg/metrics"
)

// guestCartSource is the slice of the guest cart store the coordinator needs.
type guestCartSource interface {
	Items(ctx context.Context, guestCartID string) ([]cart.LineItem, error)
	Clear(ctx context.Context, guestCartID string) error
}

// MergeResult reports the account cart state after a successful merge.
type MergeResult struct {
	AccountID uuid.UUID
	Version   int64
	Items     []models.AccountCartItem
}

// Coordinator merges a guest cart into the durable account cart at sign-in.
// Writes are guarded by the account cart version: a concurrent update costs
// one full re-fetch and retry, and a second miss is fatal. Remote calls run
// under the configured timeout.
type Coordinator struct {
	guestCarts guestCartSource
	remote     RemoteCartRepository
	timeout    time.Duration
	metrics    *metrics.CartMetrics
	logger     *logger.Logger
}

// NewCoordinator constructs a merge coordinator.
func NewCoordinator(guestCarts guestCartSource, remote RemoteCartRepository, timeout time.Duration, cartMetrics *metrics.CartMetrics, logg *logger.Logger) (*Coordinator, error) {
	if guestCarts == nil {
		return nil, fmt.Errorf("guest cart source required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote cart repository required")
	}
	return &Coordinator{
		guestCarts: guestCarts,
		remote:     remote,
		timeout:    timeout,
		metrics:    cartMetrics,
		logger:     logg,
	}, nil
}

// Merge folds the guest cart's lines into the account cart: quantities sum
// per product, guest-only products append after the account's existing lines.
// On success the guest cart is cleared.
func (c *Coordinator) Merge(ctx context.Context, guestCartID string, accountID uuid.UUID) (*MergeResult, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}

	start := time.Now()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.merge(ctx, guestCartID, accountID)
	c.metrics.ObserveMerge(outcomeLabel(err), time.Since(start))
	return result, err
}

func (c *Coordinator) merge(ctx context.Context, guestCartID string, accountID uuid.UUID) (*MergeResult, error) {
	local, err := c.guestCarts.Items(ctx, guestCartID)
	if err != nil {
		return nil, err
	}

	var written *models.AccountCart
	for attempt := 0; attempt < 2; attempt++ {
		remote, err := c.remote.FetchCart(ctx, accountID)
		if err != nil {
			return nil, c.remoteError(ctx, err, "fetch account cart")
		}

		merged := mergeItems(remote.Items, local)
		written, err = c.remote.WriteCart(ctx, accountID, merged, remote.Version)
		if err == nil {
			break
		}
		if errors.Is(err, ErrVersionMismatch) {
			if attempt == 0 {
				c.warn(ctx, "account cart changed during merge, retrying")
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "account cart merge conflict")
		}
		return nil, c.remoteError(ctx, err, "write account cart")
	}

	if err := c.guestCarts.Clear(ctx, guestCartID); err != nil {
		return nil, err
	}

	return &MergeResult{
		AccountID: accountID,
		Version:   written.Version,
		Items:     written.Items,
	}, nil
}

// mergeItems sums quantities per product. Account order is preserved;
// guest-only products append in guest cart order.
func mergeItems(remote []models.AccountCartItem, local []cart.LineItem) []models.AccountCartItem {
	merged := make([]models.AccountCartItem, len(remote))
	copy(merged, remote)

	index := make(map[uuid.UUID]int, len(merged))
	for i, item := range merged {
		index[item.ProductID] = i
	}

	for _, line := range local {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		merged = append(merged, models.AccountCartItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
		index[line.ProductID] = len(merged) - 1
	}
	return merged
}

func (c *Coordinator) remoteError(ctx context.Context, err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeTimeout, err, op+": deadline exceeded")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func (c *Coordinator) warn(ctx context.Context, msg string) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(ctx, msg)
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return "error"
	}
	switch typed.Code() {
	case pkgerrors.CodeConflict:
		return "conflict"
	case pkgerrors.CodeTimeout:
		return "timeout"
	default:
		return "error"
	}
}

package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
	"github.com/mandlimart/mandlimart-backend/pkg/metrics"
)

type lineDeleter interface {
	DeleteClaimed(ctx context.Context, userID, orderID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type clearMarker interface {
	MarkCartCleared(ctx context.Context, orderID uuid.UUID, at time.Time) error
}

// CartCleaner removes the cart lines an order claimed and stamps the order once they are gone.
// Only lines still held by the order are deleted, so running it again for the same order is harmless.
type CartCleaner struct {
	lines   lineDeleter
	orders  clearMarker
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
}

func NewCartCleaner(lines lineDeleter, orders clearMarker, m *metrics.CheckoutMetrics) (*CartCleaner, error) {
	if lines == nil || orders == nil {
		return nil, fmt.Errorf("cart line and order stores are required")
	}
	return &CartCleaner{lines: lines, orders: orders, metrics: m, now: time.Now}, nil
}

// Clear deletes the order's claimed SourceLineIDs for the order's owner. On failure the returned error has
// code PARTIAL_COMMIT and CleanupPending details; order.CartClearedAt is set on success.
func (c *CartCleaner) Clear(ctx context.Context, order *models.Order) error {
	err := c.clear(ctx, order)
	c.metrics.Cleanup(err)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePartialCommit, err, "order placed but cart cleanup failed").
			WithDetails(CleanupPending{OrderID: order.ID, PendingLineIDs: pendingIDs(order.SourceLineIDs)})
	}
	return nil
}

func (c *CartCleaner) clear(ctx context.Context, order *models.Order) error {
	if _, err := c.lines.DeleteClaimed(ctx, order.UserID, order.ID, order.SourceLineIDs); err != nil {
		return fmt.Errorf("delete cart lines: %w", err)
	}
	at := c.now().UTC()
	if err := c.orders.MarkCartCleared(ctx, order.ID, at); err != nil {
		return fmt.Errorf("mark cart cleared: %w", err)
	}
	order.CartClearedAt = &at
	return nil
}

func pendingIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return append([]uuid.UUID(nil), ids...)
}

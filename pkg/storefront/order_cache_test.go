package storefront

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func cachedOrder(created time.Time, status string) Order {
	return Order{ID: uuid.New(), Status: status, CreatedAt: created, UpdatedAt: created}
}

func TestOrderCacheNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	older := cachedOrder(base, "Pending")
	newer := cachedOrder(base.Add(time.Hour), "Pending")

	cache := NewOrderCache()
	cache.Replace([]Order{older, newer})

	orders := cache.Orders()
	require.Len(t, orders, 2)
	require.Equal(t, newer.ID, orders[0].ID)
	require.Equal(t, older.ID, orders[1].ID)
}

func TestOrderCacheApplyIgnoresStaleUpdates(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	order := cachedOrder(base, "Pending")
	cache := NewOrderCache()
	cache.Replace([]Order{order})

	shipped := order
	shipped.Status = "Shipped"
	shipped.UpdatedAt = base.Add(time.Minute)
	require.True(t, cache.Apply(OrderEvent{Type: EventOrderUpdated, Order: shipped}))

	stale := order
	stale.Status = "Pending"
	require.False(t, cache.Apply(OrderEvent{Type: EventOrderUpdated, Order: stale}))

	got, ok := cache.Get(order.ID)
	require.True(t, ok)
	require.Equal(t, "Shipped", got.Status)

	require.False(t, cache.Apply(OrderEvent{Type: "order.deleted", Order: shipped}))
}

func TestOrderCacheApplyAddsUnknownOrder(t *testing.T) {
	cache := NewOrderCache()
	order := cachedOrder(time.Now().UTC(), "Pending")
	require.True(t, cache.Apply(OrderEvent{Type: EventOrderUpdated, Order: order}))
	require.Equal(t, 1, cache.Len())
}

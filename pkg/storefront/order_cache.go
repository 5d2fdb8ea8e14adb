package storefront

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// OrderCache keeps the caller's orders in sync with list fetches and stream events.
// An update older than the cached copy is ignored.
type OrderCache struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]Order
}

func NewOrderCache() *OrderCache {
	return &OrderCache{orders: map[uuid.UUID]Order{}}
}

// Replace swaps the cache contents for a full listing.
func (c *OrderCache) Replace(orders []Order) {
	next := make(map[uuid.UUID]Order, len(orders))
	for _, o := range orders {
		next[o.ID] = o
	}
	c.mu.Lock()
	c.orders = next
	c.mu.Unlock()
}

// Upsert stores order unless the cached copy is newer. It reports whether the cache changed.
func (c *OrderCache) Upsert(order Order) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.orders[order.ID]; ok && existing.UpdatedAt.After(order.UpdatedAt) {
		return false
	}
	c.orders[order.ID] = order
	return true
}

// Apply folds a stream event into the cache.
func (c *OrderCache) Apply(event OrderEvent) bool {
	if event.Type != EventOrderUpdated || event.Order.ID == uuid.Nil {
		return false
	}
	return c.Upsert(event.Order)
}

func (c *OrderCache) Get(id uuid.UUID) (Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.orders[id]
	return o, ok
}

// Orders returns a newest-first snapshot.
func (c *OrderCache) Orders() []Order {
	c.mu.RLock()
	out := make([]Order, 0, len(c.orders))
	for _, o := range c.orders {
		out = append(out, o)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (c *OrderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}

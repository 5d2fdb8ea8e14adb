package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListProducts returns the catalog, optionally filtered by a name search.
func (c *Client) ListProducts(ctx context.Context, search string) ([]Product, error) {
	query := url.Values{}
	if search = strings.TrimSpace(search); search != "" {
		query.Set("q", search)
	}
	var products []Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/products", query: query}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/products/" + id.String()}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AddToCart adds quantity of a product. The server merges into an existing line with the same
// product and price.
func (c *Client) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*CartLine, error) {
	var line CartLine
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/cart/items",
		body:   map[string]any{"product_id": productID, "quantity": quantity},
	}, &line)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, lineID uuid.UUID) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/v1/cart/items/" + lineID.String()}, nil)
}

// ListCart returns every line and the subtotal of the selected ones.
func (c *Client) ListCart(ctx context.Context, selected []uuid.UUID) (*Cart, error) {
	query := url.Values{}
	if len(selected) > 0 {
		ids := make([]string, 0, len(selected))
		for _, id := range selected {
			ids = append(ids, id.String())
		}
		query.Set("selected", strings.Join(ids, ","))
	}
	var cart Cart
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/cart", query: query}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Subtotal sums the line totals of the selected lines. Unknown ids are ignored.
func Subtotal(lines []CartLine, selected []uuid.UUID) decimal.Decimal {
	want := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}
	total := decimal.Zero
	for _, line := range lines {
		if _, ok := want[line.ID]; !ok {
			continue
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

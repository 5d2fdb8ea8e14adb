package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

func newIdempotencyKey() string {
	return uuid.NewString()
}

// PlaceOrder checks out the selected cart lines with cash on delivery. When the order was
// written but the cart lines were not removed, the order is returned together with an error
// for which IsPartialCommit is true; RetryCartCleanup finishes the job.
func (c *Client) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	key := input.IdempotencyKey
	if key == "" {
		key = newIdempotencyKey()
	}
	var order Order
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/api/v1/checkout",
		body:    input,
		headers: http.Header{idempotencyHeader: []string{key}},
	}, &order)
	if err != nil {
		if IsPartialCommit(err) && order.ID != uuid.Nil {
			return &order, err
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns one newest-first page. Pass the previous page's NextCursor to continue.
func (c *Client) ListOrders(ctx context.Context, limit int, cursor string) (*OrderPage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	var page OrderPage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/orders", query: query}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAllOrders walks every page.
func (c *Client) ListAllOrders(ctx context.Context) ([]Order, error) {
	var all []Order
	cursor := ""
	for {
		page, err := c.ListOrders(ctx, 0, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/orders/" + id.String()}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type ReceiptFormat string

const (
	ReceiptText ReceiptFormat = "text"
	ReceiptHTML ReceiptFormat = "html"
)

// Receipt returns the rendered receipt body.
func (c *Client) Receipt(ctx context.Context, id uuid.UUID, format ReceiptFormat) (string, error) {
	query := url.Values{}
	if format != "" {
		query.Set("format", string(format))
	}
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/api/v1/orders/" + id.String() + "/receipt", query: query})
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "", decodeError(resp)
	}
	return string(resp.body), nil
}

// RetryCartCleanup removes the cart lines an order consumed but left behind.
func (c *Client) RetryCartCleanup(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/api/v1/orders/" + id.String() + "/cart-cleanup",
		headers: http.Header{idempotencyHeader: []string{newIdempotencyKey()}},
	}, &order)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusMultiStatus {
			return &order, err
		}
		return nil, err
	}
	return &order, nil
}

package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemSnapshot freezes a cart line as it was when the order was placed.
type OrderItemSnapshot struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
}

// LineTotal is price times quantity at two decimal places.
func (s OrderItemSnapshot) LineTotal() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity))).Round(2)
}

type OrderItemSnapshots []OrderItemSnapshot

// Total recomputes the order total from the snapshot.
func (s OrderItemSnapshots) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

// AddressSnapshot freezes the shipping address used by an order.
type AddressSnapshot struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	Country     string `json:"country"`
	State       string `json:"state"`
	City        string `json:"city"`
	Street      string `json:"street"`
	Pincode     string `json:"pincode"`
	Phone       string `json:"phone"`
}

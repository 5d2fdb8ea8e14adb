package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
)

// LineDTO is one cart line as returned to the client.
type LineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`
	// CheckoutPending is set while a placed order still holds the line.
	CheckoutPending bool `json:"checkout_pending"`
}

// ListResponse is the cart payload with the subtotal of the selected lines.
type ListResponse struct {
	Items    []LineDTO       `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func FromModel(line models.CartLine) LineDTO {
	return LineDTO{
		ID:          line.ID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		UnitPrice:   line.UnitPrice.Round(2),
		ImageURL:    line.ImageURL,
		Quantity:    line.Quantity,
		LineTotal:   line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
		CreatedAt:   line.CreatedAt,

		CheckoutPending: line.CheckoutOrderID != nil,
	}
}

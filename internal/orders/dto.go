package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	"github.com/mandlimart/mandlimart-backend/pkg/enums"
	"github.com/mandlimart/mandlimart-backend/pkg/types"
)

// EventOrderUpdated is the stream frame type sent after a status change.
const EventOrderUpdated = "order.updated"

// OrderDTO is an order as returned to its owner.
type OrderDTO struct {
	ID            uuid.UUID                `json:"id"`
	UserID        uuid.UUID                `json:"user_id"`
	Items         types.OrderItemSnapshots `json:"order_items"`
	Address       types.AddressSnapshot    `json:"address"`
	PaymentMethod enums.PaymentMethod      `json:"payment_method"`
	TotalPrice    decimal.Decimal          `json:"total_price"`
	Status        enums.OrderStatus        `json:"status"`
	StatusView    StatusView               `json:"status_view"`
	CartCleared   bool                     `json:"cart_cleared"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// StreamEvent is one frame on the order stream.
type StreamEvent struct {
	Type  string   `json:"type"`
	Order OrderDTO `json:"order"`
}

// UpdateStatusRequest is the fulfillment payload for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CleanupPending is the detail attached when cart lines could not be removed after an order was placed.
type CleanupPending struct {
	OrderID        uuid.UUID   `json:"order_id"`
	PendingLineIDs []uuid.UUID `json:"pending_line_ids"`
}

func FromModel(o models.Order) OrderDTO {
	items := o.Items
	if items == nil {
		items = types.OrderItemSnapshots{}
	}
	return OrderDTO{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         items,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		TotalPrice:    o.TotalPrice.Round(2),
		Status:        o.Status,
		StatusView:    ViewForStatus(string(o.Status)),
		CartCleared:   o.CartClearedAt != nil,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventOrderUpdated is the only frame type the order stream emits.
const EventOrderUpdated = "order.updated"

type User struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
}

type CartLine struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`

	CheckoutPending bool `json:"checkout_pending"`
}

// Cart is the line list plus the server-side subtotal of the requested selection.
type Cart struct {
	Items    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type AddressInput struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	Country     string `json:"country"`
	State       string `json:"state"`
	City        string `json:"city"`
	Street      string `json:"street"`
	Pincode     string `json:"pincode"`
	Phone       string `json:"phone"`
}

type Address struct {
	ID uuid.UUID `json:"id"`
	AddressInput
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	FullName    string    `json:"full_name"`
	Street      string    `json:"street"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Pincode     string    `json:"pincode"`
	Phone       string    `json:"phone"`
	ImageBase64 *string   `json:"image_base64,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProfileInput struct {
	FullName    string  `json:"full_name"`
	Street      string  `json:"street"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Pincode     string  `json:"pincode"`
	Phone       string  `json:"phone"`
	ImageBase64 *string `json:"image_base64,omitempty"`
}

type OrderItem struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
}

type StatusView struct {
	Status   string `json:"status"`
	Label    string `json:"label"`
	Step     int    `json:"step"`
	Color    string `json:"color"`
	Terminal bool   `json:"terminal"`
}

type Order struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Items         []OrderItem     `json:"order_items"`
	Address       AddressInput    `json:"address"`
	PaymentMethod string          `json:"payment_method"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Status        string          `json:"status"`
	StatusView    StatusView      `json:"status_view"`
	CartCleared   bool            `json:"cart_cleared"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderPage struct {
	Items      []Order `json:"items"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// OrderEvent is one frame received from the order stream.
type OrderEvent struct {
	Type  string `json:"type"`
	Order Order  `json:"order"`
}

// PlaceOrderInput selects the cart lines and delivery address for checkout. An empty
// IdempotencyKey is replaced by a fresh uuid; reuse the returned key to retry safely.
type PlaceOrderInput struct {
	LineIDs        []uuid.UUID `json:"line_ids"`
	AddressID      uuid.UUID   `json:"address_id"`
	IdempotencyKey string      `json:"-"`
}

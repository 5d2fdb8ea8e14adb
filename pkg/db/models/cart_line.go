package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product placed in a user's cart. Product fields are copied at insert time.
// A line claimed by a checkout carries that order's id until it is deleted or the claim is released.
type CartLine struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	ImageURL    string          `gorm:"column:image_url;not null;default:''"`
	Quantity    int             `gorm:"column:quantity;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`

	CheckoutOrderID   *uuid.UUID `gorm:"column:checkout_order_id;type:uuid"`
	CheckoutClaimedAt *time.Time `gorm:"column:checkout_claimed_at"`
}

func (CartLine) TableName() string { return "cart_lines" }

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mandlimart/mandlimart-backend/pkg/enums"
	"github.com/mandlimart/mandlimart-backend/pkg/types"
)

// Order is an immutable record of a checkout. Only Status, CartClearedAt and UpdatedAt change after insert.
type Order struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	Items         types.OrderItemSnapshots `gorm:"column:order_items;type:jsonb;serializer:json;not null"`
	Address       types.AddressSnapshot    `gorm:"column:address;type:jsonb;serializer:json;not null"`
	PaymentMethod enums.PaymentMethod      `gorm:"column:payment_method;type:text;not null;default:'COD'"`
	TotalPrice    decimal.Decimal          `gorm:"column:total_price;type:numeric(12,2);not null"`
	Status        enums.OrderStatus        `gorm:"column:status;type:text;not null;default:'Pending'"`
	SourceLineIDs []uuid.UUID              `gorm:"column:source_line_ids;type:jsonb;serializer:json;not null"`
	CartClearedAt *time.Time               `gorm:"column:cart_cleared_at"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

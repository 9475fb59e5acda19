package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order, frozen at creation time so later
// catalog edits never rewrite history.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"orderId"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	ProductVariantID uuid.UUID       `gorm:"column:product_variant_id;type:uuid;not null" json:"productVariantId"`
	ProductName      string          `gorm:"column:product_name;not null" json:"productName"`
	VariantName      string          `gorm:"column:variant_name;not null" json:"variantName"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Quantity         int             `gorm:"column:quantity;not null" json:"quantity"`
	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	Notes            *string         `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

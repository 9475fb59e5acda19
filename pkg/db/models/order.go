package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	"github.com/pratomobowo/pasarantar-sub000/pkg/types"
)

// Order is the server-authoritative record produced by a checkout
// submission. Customer and shipping fields are frozen snapshots taken at
// creation time; later profile edits never touch them.
type Order struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber         string               `gorm:"column:order_number;not null;uniqueIndex" json:"orderNumber"`
	CustomerID          uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index" json:"customerId"`
	CustomerName        string               `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerWhatsapp    string               `gorm:"column:customer_whatsapp;not null" json:"customerWhatsapp"`
	CustomerAddress     string               `gorm:"column:customer_address;not null" json:"customerAddress"`
	CustomerCoordinates *types.Coordinates   `gorm:"column:customer_coordinates;type:jsonb;serializer:json" json:"customerCoordinates,omitempty"`
	ShippingMethod      enums.ShippingMethod `gorm:"column:shipping_method;type:text;not null" json:"shippingMethod"`
	DeliveryDay         *enums.DeliveryDay   `gorm:"column:delivery_day;type:text" json:"deliveryDay,omitempty"`
	PaymentMethod       enums.PaymentMethod  `gorm:"column:payment_method;type:text;not null" json:"paymentMethod"`
	Status              enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending';index" json:"status"`
	SubtotalAmount      decimal.Decimal      `gorm:"column:subtotal_amount;type:numeric(12,2);not null" json:"subtotalAmount"`
	ShippingFee         decimal.Decimal      `gorm:"column:shipping_fee;type:numeric(12,2);not null" json:"shippingFee"`
	TotalAmount         decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	Notes               *string              `gorm:"column:notes" json:"notes,omitempty"`
	Items               []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`
	DeliveredAt         *time.Time           `gorm:"column:delivered_at" json:"deliveredAt,omitempty"`
	CancelledAt         *time.Time           `gorm:"column:cancelled_at" json:"cancelledAt,omitempty"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

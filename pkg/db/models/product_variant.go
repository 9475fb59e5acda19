package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is a sellable unit of a product (e.g. "500 gr", "1 kg").
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index" json:"productId"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Unit      string          `gorm:"column:unit" json:"unit"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

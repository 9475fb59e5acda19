package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating for one (product, order) pair. The composite
// unique index is what makes the per-item eligibility check authoritative.
type Review struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_reviews_product_order" json:"productId"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_reviews_product_order" json:"orderId"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index" json:"customerId"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
	Comment    string    `gorm:"column:comment;not null" json:"comment"`
	Verified   bool      `gorm:"column:verified;not null;default:false" json:"verified"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

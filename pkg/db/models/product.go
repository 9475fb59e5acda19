package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a storefront listing. Pricing lives on its variants.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string           `gorm:"column:name;not null" json:"name"`
	Slug        string           `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Description string           `gorm:"column:description" json:"description"`
	Category    string           `gorm:"column:category;index" json:"category"`
	ImageURL    *string          `gorm:"column:image_url" json:"imageUrl,omitempty"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true" json:"isActive"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

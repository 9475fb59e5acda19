package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a registered shopper account.
type Customer struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string     `gorm:"column:name;not null" json:"name"`
	Whatsapp     string     `gorm:"column:whatsapp;not null;uniqueIndex" json:"whatsapp"`
	Address      string     `gorm:"column:address" json:"address"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

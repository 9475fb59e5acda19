package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
)

// CustomerRepository defines the persistence surface required by the customer service.
type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// Repository exposes persistence operations for customer accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customer repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CustomerRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads one customer account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update saves the profile fields of the customer.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"name":    customer.Name,
			"address": customer.Address,
		}).Error
}

// UpdatePasswordHash replaces the stored credential.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

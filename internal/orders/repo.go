package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

// ListFilter narrows an order listing.
type ListFilter struct {
	Status     *enums.OrderStatus
	CustomerID *uuid.UUID
}

// OrderRepository defines the persistence surface required by the order
// and checkout services.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filter ListFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, at time.Time) (bool, error)
}

// Repository exposes persistence operations for orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads one order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber loads one order by its public order number.
func (r *Repository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a newest-first page of orders matching the filter.
func (r *Repository) List(ctx context.Context, params pagination.Params, filter ListFilter) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateStatus moves an order from one status to another. The WHERE on
// the current status makes the transition atomic under concurrent
// updates; false means the order was not in the expected status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case enums.OrderStatusDelivered:
		updates["delivered_at"] = at
	case enums.OrderStatusCancelled:
		updates["cancelled_at"] = at
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

// ListFilter narrows a review listing.
type ListFilter struct {
	ProductID    *uuid.UUID
	VerifiedOnly bool
}

// ReviewRepository defines the persistence surface required by the review service.
type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Exists(ctx context.Context, productID, orderID uuid.UUID) (bool, error)
	List(ctx context.Context, params pagination.Params, filter ListFilter) ([]models.Review, int64, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Repository exposes persistence operations for reviews.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a review repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ReviewRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a review. The unique (product_id, order_id) index backs
// the one-review-per-item rule.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByID loads one review.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Exists reports whether the (product, order) pair is already reviewed.
func (r *Repository) Exists(ctx context.Context, productID, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND order_id = ?", productID, orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a newest-first page of reviews matching the filter.
func (r *Repository) List(ctx context.Context, params pagination.Params, filter ListFilter) ([]models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.VerifiedOnly {
		query = query.Where("verified = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Review
	err := query.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// SetVerified flips the verified flag; false means no such review.
func (r *Repository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("verified", verified)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes a review; false means no such review.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

// ProductRepository defines the persistence surface required by the product service.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	ListActive(ctx context.Context, params pagination.Params, category string) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error)
}

// Repository exposes persistence operations for the product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListActive returns a page of active products with their active variants.
func (r *Repository) ListActive(ctx context.Context, params pagination.Params, category string) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Product
	err := query.
		Preload("Variants", "is_active = ?", true).
		Order("name ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// FindByID loads one product with all of its variants.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads one product by its storefront slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariant loads one variant scoped to its product.
func (r *Repository) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", variantID, productID).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

// ListInput filters the storefront product listing.
type ListInput struct {
	Pagination pagination.Params
	Category   string
}

// Service exposes catalog reads for the storefront and for cart validation.
type Service interface {
	ListProducts(ctx context.Context, input ListInput) ([]models.Product, pagination.Meta, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ResolveVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.Product, *models.ProductVariant, error)
}

type service struct {
	repo ProductRepository
}

// NewService builds a product service backed by the provided repository.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListInput) ([]models.Product, pagination.Meta, error) {
	params := input.Pagination.Normalize()

	list, total, err := s.repo.ListActive(ctx, params, strings.TrimSpace(input.Category))
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	return list, pagination.BuildMeta(params, total), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

// ResolveVariant loads a sellable (product, variant) pair. Inactive
// products and variants resolve as not found so carts cannot pick up
// delisted items.
func (s *service) ResolveVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.Product, *models.ProductVariant, error) {
	if productID == uuid.Nil || variantID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product and variant ids are required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	variant, err := s.repo.FindVariant(ctx, productID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product variant")
	}
	if !variant.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
	}

	return product, variant, nil
}

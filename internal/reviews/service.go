package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/metrics"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

const minCommentLength = 10

type orderLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// CreateInput is a customer review submission.
type CreateInput struct {
	ProductID uuid.UUID
	OrderID   uuid.UUID
	Rating    int
	Comment   string
}

// ListInput filters a review listing.
type ListInput struct {
	Pagination   pagination.Params
	ProductID    *uuid.UUID
	VerifiedOnly bool
}

// Service owns review eligibility, creation, and moderation.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input CreateInput) (*models.Review, error)
	Exists(ctx context.Context, productID, orderID uuid.UUID) (bool, error)
	List(ctx context.Context, input ListInput) ([]models.Review, pagination.Meta, error)
	Verify(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   ReviewRepository
	orders orderLoader
	stats  *metrics.Metrics
}

// NewService builds the review service.
func NewService(repo ReviewRepository, orders orderLoader, stats *metrics.Metrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	if stats == nil {
		return nil, fmt.Errorf("metrics required")
	}
	return &service{repo: repo, orders: orders, stats: stats}, nil
}

// Create accepts a review for one delivered order item. Eligibility is
// per (product, order) pair: reviewing one item never consumes the
// eligibility of its siblings.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(comment) < minCommentLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("comment must be at least %d characters", minCommentLength))
	}
	if input.ProductID == uuid.Nil || input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product and order ids are required")
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.Status != enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only delivered orders can be reviewed")
	}
	if !orderContainsProduct(order, input.ProductID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not part of this order")
	}

	exists, err := s.repo.Exists(ctx, input.ProductID, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing review")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "this item has already been reviewed")
	}

	review := &models.Review{
		ProductID:  input.ProductID,
		OrderID:    input.OrderID,
		CustomerID: customerID,
		Rating:     input.Rating,
		Comment:    comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		// Lost a race against an identical submission.
		if db.IsUniqueViolation(err, "idx_reviews_product_order") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this item has already been reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating review")
	}

	s.stats.ReviewsSubmitted.Inc()
	return review, nil
}

func (s *service) Exists(ctx context.Context, productID, orderID uuid.UUID) (bool, error) {
	if productID == uuid.Nil || orderID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product and order ids are required")
	}
	exists, err := s.repo.Exists(ctx, productID, orderID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing review")
	}
	return exists, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]models.Review, pagination.Meta, error) {
	params := input.Pagination.Normalize()

	list, total, err := s.repo.List(ctx, params, ListFilter{
		ProductID:    input.ProductID,
		VerifiedOnly: input.VerifiedOnly,
	})
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	return list, pagination.BuildMeta(params, total), nil
}

func (s *service) Verify(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}

	ok, err := s.repo.SetVerified(ctx, id, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying review")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading review")
	}
	return review, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting review")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return nil
}

func orderContainsProduct(order *models.Order, productID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

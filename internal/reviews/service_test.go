package reviews

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/metrics"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

type stubReviewRepo struct {
	reviews map[uuid.UUID]*models.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: map[uuid.UUID]*models.Review{}}
}

func (s *stubReviewRepo) WithTx(tx *gorm.DB) ReviewRepository { return s }

func (s *stubReviewRepo) Create(ctx context.Context, review *models.Review) error {
	review.ID = uuid.New()
	s.reviews[review.ID] = review
	return nil
}

func (s *stubReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if r, ok := s.reviews[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReviewRepo) Exists(ctx context.Context, productID, orderID uuid.UUID) (bool, error) {
	for _, r := range s.reviews {
		if r.ProductID == productID && r.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubReviewRepo) List(ctx context.Context, params pagination.Params, filter ListFilter) ([]models.Review, int64, error) {
	var list []models.Review
	for _, r := range s.reviews {
		if filter.ProductID != nil && r.ProductID != *filter.ProductID {
			continue
		}
		if filter.VerifiedOnly && !r.Verified {
			continue
		}
		list = append(list, *r)
	}
	return list, int64(len(list)), nil
}

func (s *stubReviewRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (bool, error) {
	r, ok := s.reviews[id]
	if !ok {
		return false, nil
	}
	r.Verified = verified
	return true, nil
}

func (s *stubReviewRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := s.reviews[id]; !ok {
		return false, nil
	}
	delete(s.reviews, id)
	return true, nil
}

type stubOrderLoader struct {
	orders map[uuid.UUID]*models.Order
}

func (s *stubOrderLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type reviewFixture struct {
	svc        Service
	repo       *stubReviewRepo
	customerID uuid.UUID
	orderID    uuid.UUID
	productA   uuid.UUID
	productB   uuid.UUID
}

func newReviewFixture(t *testing.T, status enums.OrderStatus) *reviewFixture {
	t.Helper()
	f := &reviewFixture{
		repo:       newStubReviewRepo(),
		customerID: uuid.New(),
		orderID:    uuid.New(),
		productA:   uuid.New(),
		productB:   uuid.New(),
	}
	orders := &stubOrderLoader{orders: map[uuid.UUID]*models.Order{
		f.orderID: {
			ID:         f.orderID,
			CustomerID: f.customerID,
			Status:     status,
			Items: []models.OrderItem{
				{ProductID: f.productA, ProductName: "Bayam"},
				{ProductID: f.productB, ProductName: "Wortel"},
			},
		},
	}}

	svc, err := NewService(f.repo, orders, metrics.New())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func validInput(f *reviewFixture, productID uuid.UUID) CreateInput {
	return CreateInput{
		ProductID: productID,
		OrderID:   f.orderID,
		Rating:    5,
		Comment:   "Sayurnya segar sekali, pengiriman cepat.",
	}
}

func TestCreateReviewHappyPath(t *testing.T) {
	f := newReviewFixture(t, enums.OrderStatusDelivered)

	review, err := f.svc.Create(context.Background(), f.customerID, validInput(f, f.productA))
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.Verified {
		t.Fatal("new reviews must start unverified")
	}
	if review.CustomerID != f.customerID {
		t.Fatalf("unexpected customer %s", review.CustomerID)
	}
}

func TestCreateReviewValidation(t *testing.T) {
	f := newReviewFixture(t, enums.OrderStatusDelivered)

	input := validInput(f, f.productA)
	input.Rating = 6
	if _, err := f.svc.Create(context.Background(), f.customerID, input); err == nil {
		t.Fatal("rating above 5 must be rejected")
	}

	input = validInput(f, f.productA)
	input.Comment = "  bagus  "
	_, err := f.svc.Create(context.Background(), f.customerID, input)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("short comment after trim must be rejected, got %v", err)
	}
}

func TestCreateReviewCountsRunesNotBytes(t *testing.T) {
	f := newReviewFixture(t, enums.OrderStatusDelivered)

	// 10 runes, 20 bytes.
	input := validInput(f, f.productA)
	input.Comment = strings.Repeat("é", 10)
	if _, err := f.svc.Create(context.Background(), f.customerID, input); err != nil {
		t.Fatalf("10-rune multibyte comment must pass, got %v", err)
	}

	input = validInput(f, f.productB)
	input.Comment = strings.Repeat("é", 9)
	_, err := f.svc.Create(context.Background(), f.customerID, input)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("9-rune comment must be rejected, got %v", err)
	}
}

func TestCreateReviewRequiresDeliveredOrder(t *testing.T) {
	f := newReviewFixture(t, enums.OrderStatusProcessing)

	_, err := f.svc.Create(context.Background(), f.customerID, validInput(f, f.productA))
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for undelivered order, got %v", err)
	}
}

func TestCreateReviewChecksOwnershipAndMembership(t *testing.T) {
	f := newReviewFixture(t, enums.OrderStatusDelivered)

	_, err := f.svc.Create(context.Background(), uuid.New(), validInput(f, f.productA))
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign order must read as not found, got %v", err)
	}

	_, err = f.svc.Create(context.Background(), f.customerID, validInput(f, uuid.New()))
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("product outside the order must be rejected, got %v", err)
	}
}

func TestReviewEligibilityPerItem(t *testing.T) {
	f := newReviewFixture(t, enums.OrderStatusDelivered)

	if _, err := f.svc.Create(context.Background(), f.customerID, validInput(f, f.productA)); err != nil {
		t.Fatalf("review item A: %v", err)
	}

	// Item A is consumed, item B is still reviewable.
	_, err := f.svc.Create(context.Background(), f.customerID, validInput(f, f.productA))
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("duplicate review must conflict, got %v", err)
	}

	existsA, _ := f.svc.Exists(context.Background(), f.productA, f.orderID)
	existsB, _ := f.svc.Exists(context.Background(), f.productB, f.orderID)
	if !existsA || existsB {
		t.Fatalf("eligibility leaked across items: A=%v B=%v", existsA, existsB)
	}

	if _, err := f.svc.Create(context.Background(), f.customerID, validInput(f, f.productB)); err != nil {
		t.Fatalf("review item B: %v", err)
	}
}

func TestVerifyAndDelete(t *testing.T) {
	f := newReviewFixture(t, enums.OrderStatusDelivered)

	created, err := f.svc.Create(context.Background(), f.customerID, validInput(f, f.productA))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	verified, err := f.svc.Verify(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.Verified {
		t.Fatal("review not marked verified")
	}

	if err := f.svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = f.svc.Delete(context.Background(), created.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("second delete must be not found, got %v", err)
	}
}

func TestListVerifiedOnly(t *testing.T) {
	f := newReviewFixture(t, enums.OrderStatusDelivered)

	a, _ := f.svc.Create(context.Background(), f.customerID, validInput(f, f.productA))
	_, _ = f.svc.Create(context.Background(), f.customerID, validInput(f, f.productB))
	if _, err := f.svc.Verify(context.Background(), a.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}

	list, meta, err := f.svc.List(context.Background(), ListInput{
		Pagination:   pagination.Params{Page: 1, Limit: 10},
		VerifiedOnly: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || meta.Total != 1 {
		t.Fatalf("expected only the verified review, got %d", len(list))
	}
	if !strings.Contains(list[0].Comment, "segar") {
		t.Fatalf("unexpected review %+v", list[0])
	}
}

package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
)

type memoryStore struct {
	snapshots map[string][]Line
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snapshots: map[string][]Line{}}
}

func (m *memoryStore) Load(ctx context.Context, customerID string) ([]Line, error) {
	items, ok := m.snapshots[customerID]
	if !ok {
		return []Line{}, nil
	}
	out := make([]Line, len(items))
	copy(out, items)
	return out, nil
}

func (m *memoryStore) Save(ctx context.Context, customerID string, items []Line) error {
	saved := make([]Line, len(items))
	copy(saved, items)
	m.snapshots[customerID] = saved
	return nil
}

func (m *memoryStore) Clear(ctx context.Context, customerID string) error {
	delete(m.snapshots, customerID)
	return nil
}

type stubCatalog struct {
	variants map[uuid.UUID]*models.ProductVariant
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalog) ResolveVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.Product, *models.ProductVariant, error) {
	p, okP := s.products[productID]
	v, okV := s.variants[variantID]
	if !okP || !okV || v.ProductID != productID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
	}
	return p, v, nil
}

func fixtureCatalog() (*stubCatalog, uuid.UUID, uuid.UUID, uuid.UUID) {
	productID := uuid.New()
	variant500, variant1kg := uuid.New(), uuid.New()
	catalog := &stubCatalog{
		products: map[uuid.UUID]*models.Product{
			productID: {ID: productID, Name: "Wortel", Slug: "wortel", IsActive: true},
		},
		variants: map[uuid.UUID]*models.ProductVariant{
			variant500: {ID: variant500, ProductID: productID, Name: "500 gr", Price: decimal.NewFromInt(8000), IsActive: true},
			variant1kg: {ID: variant1kg, ProductID: productID, Name: "1 kg", Price: decimal.NewFromInt(15000), IsActive: true},
		},
	}
	return catalog, productID, variant500, variant1kg
}

func TestAddItemMergesSameVariant(t *testing.T) {
	catalog, productID, variant500, _ := fixtureCatalog()
	svc, err := NewService(newMemoryStore(), catalog)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
	if cart.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", cart.ItemCount)
	}
	if !cart.Total.Equal(decimal.NewFromInt(40000)) {
		t.Fatalf("expected total 40000, got %s", cart.Total)
	}
}

func TestAddItemDistinctVariantsKeepInsertionOrder(t *testing.T) {
	catalog, productID, variant500, variant1kg := fixtureCatalog()
	svc, _ := NewService(newMemoryStore(), catalog)
	customerID := uuid.New()

	_, _ = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant1kg, Quantity: 1})
	cart, err := svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if cart.Items[0].Variant.ID != variant1kg || cart.Items[1].Variant.ID != variant500 {
		t.Fatal("lines not in insertion order")
	}
	if !cart.Total.Equal(decimal.NewFromInt(23000)) {
		t.Fatalf("expected total 23000, got %s", cart.Total)
	}
}

func TestAddItemUnknownVariantRejected(t *testing.T) {
	catalog, productID, _, _ := fixtureCatalog()
	svc, _ := NewService(newMemoryStore(), catalog)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: productID, VariantID: uuid.New(), Quantity: 1})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	catalog, productID, variant500, _ := fixtureCatalog()
	svc, _ := NewService(newMemoryStore(), catalog)
	customerID := uuid.New()

	_, _ = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 2})

	cart, err := svc.UpdateQuantity(context.Background(), customerID, productID, variant500, 0)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if len(cart.Items) != 0 || cart.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if !cart.Total.IsZero() {
		t.Fatalf("expected zero total, got %s", cart.Total)
	}
}

func TestUpdateQuantityNegativeAlsoRemoves(t *testing.T) {
	catalog, productID, variant500, _ := fixtureCatalog()
	svc, _ := NewService(newMemoryStore(), catalog)
	customerID := uuid.New()

	_, _ = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 2})

	cart, err := svc.UpdateQuantity(context.Background(), customerID, productID, variant500, -5)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatal("expected negative quantity to remove the line")
	}
}

func TestRemoveAbsentLineIsNoOp(t *testing.T) {
	catalog, productID, variant500, variant1kg := fixtureCatalog()
	svc, _ := NewService(newMemoryStore(), catalog)
	customerID := uuid.New()

	_, _ = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 2})

	cart, err := svc.RemoveItem(context.Background(), customerID, productID, variant1kg)
	if err != nil {
		t.Fatalf("removing an absent line must succeed, got %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Variant.ID != variant500 {
		t.Fatalf("existing line must be untouched, got %+v", cart.Items)
	}
}

func TestTotalsRecomputedAfterEveryMutation(t *testing.T) {
	catalog, productID, variant500, variant1kg := fixtureCatalog()
	svc, _ := NewService(newMemoryStore(), catalog)
	customerID := uuid.New()

	_, _ = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 3})
	_, _ = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant1kg, Quantity: 1})
	_, _ = svc.UpdateQuantity(context.Background(), customerID, productID, variant500, 1)
	cart, err := svc.RemoveItem(context.Background(), customerID, productID, variant1kg)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}

	if !cart.Total.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("expected total 8000, got %s", cart.Total)
	}
	if cart.ItemCount != 1 {
		t.Fatalf("expected item count 1, got %d", cart.ItemCount)
	}
}

func TestUpdateNoteTrimsAndPersists(t *testing.T) {
	catalog, productID, variant500, _ := fixtureCatalog()
	store := newMemoryStore()
	svc, _ := NewService(store, catalog)
	customerID := uuid.New()

	_, _ = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 1})

	cart, err := svc.UpdateNote(context.Background(), customerID, productID, variant500, "  yang muda ya  ")
	if err != nil {
		t.Fatalf("update note: %v", err)
	}
	if cart.Items[0].Note != "yang muda ya" {
		t.Fatalf("unexpected note %q", cart.Items[0].Note)
	}

	reloaded, _ := svc.Get(context.Background(), customerID)
	if reloaded.Items[0].Note != "yang muda ya" {
		t.Fatal("note not persisted")
	}
}

func TestClearEmptiesCart(t *testing.T) {
	catalog, productID, variant500, _ := fixtureCatalog()
	svc, _ := NewService(newMemoryStore(), catalog)
	customerID := uuid.New()

	_, _ = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: productID, VariantID: variant500, Quantity: 2})
	if err := svc.Clear(context.Background(), customerID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	cart, err := svc.Get(context.Background(), customerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Items) != 0 || cart.ItemCount != 0 || !cart.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

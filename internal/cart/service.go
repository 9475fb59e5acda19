package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
)

const maxNoteLength = 500

type variantResolver interface {
	ResolveVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.Product, *models.ProductVariant, error)
}

// AddItemInput identifies the (product, variant) pair to add.
type AddItemInput struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Quantity  int
}

// Service exposes the cart mutation API. Every mutation persists the
// whole snapshot and returns the recomputed cart so callers always see
// totals consistent with the lines.
type Service interface {
	Get(ctx context.Context, customerID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, customerID uuid.UUID, productID, variantID uuid.UUID, quantity int) (*Cart, error)
	UpdateNote(ctx context.Context, customerID uuid.UUID, productID, variantID uuid.UUID, note string) (*Cart, error)
	RemoveItem(ctx context.Context, customerID uuid.UUID, productID, variantID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type service struct {
	store   Store
	catalog variantResolver
}

// NewService builds a cart service backed by the provided snapshot store
// and catalog.
func NewService(store Store, catalog variantResolver) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	return &service{store: store, catalog: catalog}, nil
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*Cart, error) {
	items, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return buildCart(items), nil
}

// AddItem validates the pair against the catalog, then merges into an
// existing line or appends a new one. Display order is insertion order.
func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*Cart, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, variant, err := s.catalog.ResolveVariant(ctx, input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}

	items, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if idx := lineIndex(items, input.ProductID, input.VariantID); idx >= 0 {
		items[idx].Quantity += input.Quantity
		// Refresh the frozen price so a long-lived cart shows current pricing.
		items[idx].Variant.Price = variant.Price
	} else {
		items = append(items, Line{
			Product: ProductRef{
				ID:       product.ID,
				Name:     product.Name,
				Slug:     product.Slug,
				ImageURL: product.ImageURL,
			},
			Variant: VariantRef{
				ID:    variant.ID,
				Name:  variant.Name,
				Unit:  variant.Unit,
				Price: variant.Price,
			},
			Quantity: input.Quantity,
		})
	}

	return s.persist(ctx, customerID, items)
}

// UpdateQuantity sets the line quantity. Zero or negative removes the
// line; a quantity is never stored below 1.
func (s *service) UpdateQuantity(ctx context.Context, customerID uuid.UUID, productID, variantID uuid.UUID, quantity int) (*Cart, error) {
	items, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := lineIndex(items, productID, variantID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = quantity
	}

	return s.persist(ctx, customerID, items)
}

func (s *service) UpdateNote(ctx context.Context, customerID uuid.UUID, productID, variantID uuid.UUID, note string) (*Cart, error) {
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note is too long")
	}

	items, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := lineIndex(items, productID, variantID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	items[idx].Note = note

	return s.persist(ctx, customerID, items)
}

// RemoveItem drops the line when present. Removing an absent line is a
// no-op so retried deletes stay safe.
func (s *service) RemoveItem(ctx context.Context, customerID uuid.UUID, productID, variantID uuid.UUID) (*Cart, error) {
	items, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := lineIndex(items, productID, variantID)
	if idx >= 0 {
		items = append(items[:idx], items[idx+1:]...)
	}

	return s.persist(ctx, customerID, items)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	return s.store.Clear(ctx, customerID.String())
}

func (s *service) load(ctx context.Context, customerID uuid.UUID) ([]Line, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	return s.store.Load(ctx, customerID.String())
}

func (s *service) persist(ctx context.Context, customerID uuid.UUID, items []Line) (*Cart, error) {
	if err := s.store.Save(ctx, customerID.String(), items); err != nil {
		return nil, err
	}
	return buildCart(items), nil
}

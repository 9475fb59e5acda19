package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/internal/cart"
	"github.com/pratomobowo/pasarantar-sub000/internal/orders"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/geo"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/metrics"
	"github.com/pratomobowo/pasarantar-sub000/pkg/types"
)

// expressFee is the flat delivery charge; pickup is free.
var expressFee = decimal.NewFromInt(15000)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartAccess interface {
	Get(ctx context.Context, customerID uuid.UUID) (*cart.Cart, error)
}

type variantResolver interface {
	ResolveVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.Product, *models.ProductVariant, error)
}

type profileLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type counterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// UpdateDraftInput carries partial draft edits; nil fields are untouched.
type UpdateDraftInput struct {
	Name           *string
	Whatsapp       *string
	Address        *string
	Notes          *string
	ShippingMethod *enums.ShippingMethod
	PaymentMethod  *enums.PaymentMethod
	DeliveryDay    *enums.DeliveryDay
}

// SubmitResult is returned after a committed order.
type SubmitResult struct {
	OrderNumber string        `json:"orderNumber"`
	Message     string        `json:"message"`
	Order       *models.Order `json:"order"`
}

// Service owns the checkout draft lifecycle and order submission.
type Service interface {
	GetDraft(ctx context.Context, customerID uuid.UUID) (*Draft, error)
	UpdateDraft(ctx context.Context, customerID uuid.UUID, input UpdateDraftInput) (*Draft, error)
	SetCoordinates(ctx context.Context, customerID uuid.UUID, raw string) (*Draft, error)
	ResolveLocation(ctx context.Context, customerID uuid.UUID) (*geo.Resolution, *Draft, error)
	Reset(ctx context.Context, customerID uuid.UUID) (*Draft, error)
	DeliveryDays(now time.Time) []DeliveryDayOption
	Submit(ctx context.Context, customerID uuid.UUID) (*SubmitResult, error)
}

type service struct {
	drafts    DraftStore
	carts     cartAccess
	catalog   variantResolver
	profiles  profileLoader
	orderRepo orders.OrderRepository
	tx        txRunner
	counters  counterStore
	publisher orders.Publisher
	stats     *metrics.Metrics
	locator   geo.Resolver
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout service. The geo resolver may be nil
// when no geocoding provider is configured.
func NewService(
	drafts DraftStore,
	carts cartAccess,
	catalog variantResolver,
	profiles profileLoader,
	orderRepo orders.OrderRepository,
	tx txRunner,
	counters counterStore,
	publisher orders.Publisher,
	stats *metrics.Metrics,
	locator geo.Resolver,
	logg *logger.Logger,
) (Service, error) {
	if drafts == nil {
		return nil, fmt.Errorf("draft store required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile loader required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if counters == nil {
		return nil, fmt.Errorf("counter store required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if stats == nil {
		return nil, fmt.Errorf("metrics required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		drafts:    drafts,
		carts:     carts,
		catalog:   catalog,
		profiles:  profiles,
		orderRepo: orderRepo,
		tx:        tx,
		counters:  counters,
		publisher: publisher,
		stats:     stats,
		locator:   locator,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// GetDraft resolves the working draft: the stored snapshot when present,
// else the customer's profile fields, else empty defaults.
func (s *service) GetDraft(ctx context.Context, customerID uuid.UUID) (*Draft, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	stored, err := s.drafts.Load(ctx, customerID.String())
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	profile, err := s.profiles.FindByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer profile")
		}
		return emptyDraft(), nil
	}

	draft := emptyDraft()
	draft.Name = profile.Name
	draft.Whatsapp = profile.Whatsapp
	draft.Address = profile.Address
	return draft, nil
}

// UpdateDraft applies the edits, clears any validation error attached to
// an edited field, and persists the whole draft.
func (s *service) UpdateDraft(ctx context.Context, customerID uuid.UUID, input UpdateDraftInput) (*Draft, error) {
	draft, err := s.GetDraft(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		draft.Name = *input.Name
		draft.clearFieldError(fieldName)
	}
	if input.Whatsapp != nil {
		draft.Whatsapp = *input.Whatsapp
		draft.clearFieldError(fieldWhatsapp)
	}
	if input.Address != nil {
		draft.Address = *input.Address
		draft.clearFieldError(fieldAddress)
	}
	if input.Notes != nil {
		draft.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.ShippingMethod != nil {
		if !input.ShippingMethod.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
		}
		draft.ShippingMethod = *input.ShippingMethod
		if draft.ShippingMethod == enums.ShippingMethodPickup {
			draft.clearFieldError(fieldDeliveryDay)
		}
	}
	if input.PaymentMethod != nil {
		if !input.PaymentMethod.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
		}
		draft.PaymentMethod = *input.PaymentMethod
	}
	if input.DeliveryDay != nil {
		if !input.DeliveryDay.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery day")
		}
		day := *input.DeliveryDay
		draft.DeliveryDay = &day
		draft.clearFieldError(fieldDeliveryDay)
	}

	if err := s.drafts.Save(ctx, customerID.String(), draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetCoordinates parses free-text "lat, lng" input. Invalid input leaves
// the stored coordinates untouched; empty input clears them.
func (s *service) SetCoordinates(ctx context.Context, customerID uuid.UUID, raw string) (*Draft, error) {
	coords, err := types.ParseCoordinates(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coordinates")
	}

	draft, err := s.GetDraft(ctx, customerID)
	if err != nil {
		return nil, err
	}
	draft.Coordinates = coords

	if err := s.drafts.Save(ctx, customerID.String(), draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// ResolveLocation geocodes the draft address through the retry policy
// and stores the coordinates on success. A failed resolution is a normal
// outcome, reported in the Resolution rather than as an error.
func (s *service) ResolveLocation(ctx context.Context, customerID uuid.UUID) (*geo.Resolution, *Draft, error) {
	if s.locator == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeDependency, "location resolution is not configured")
	}

	draft, err := s.GetDraft(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(draft.Address) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required before resolving location")
	}

	resolution, err := s.locator.Resolve(ctx, draft.Address)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving location")
	}

	if resolution.State == geo.StateResolved {
		draft.Coordinates = resolution.Coordinates
		if err := s.drafts.Save(ctx, customerID.String(), draft); err != nil {
			return nil, nil, err
		}
	}
	return resolution, draft, nil
}

// Reset discards the stored draft ("start over") and returns the freshly
// resolved one.
func (s *service) Reset(ctx context.Context, customerID uuid.UUID) (*Draft, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if err := s.drafts.Clear(ctx, customerID.String()); err != nil {
		return nil, err
	}
	return s.GetDraft(ctx, customerID)
}

func (s *service) DeliveryDays(now time.Time) []DeliveryDayOption {
	return DeliveryDayOptions(now)
}

// Submit validates the draft, freezes cart lines against current catalog
// prices, and creates the order atomically. The cart and draft are
// cleared only after the transaction commits; any failure leaves both
// untouched.
func (s *service) Submit(ctx context.Context, customerID uuid.UUID) (*SubmitResult, error) {
	result, err := s.submit(ctx, customerID)
	if err != nil {
		s.stats.OrderSubmissionFailed.Inc()
		return nil, err
	}
	s.stats.OrdersSubmitted.Inc()
	return result, nil
}

func (s *service) submit(ctx context.Context, customerID uuid.UUID) (*SubmitResult, error) {
	draft, err := s.GetDraft(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateDraft(draft); len(fieldErrors) > 0 {
		draft.FieldErrors = fieldErrors
		if saveErr := s.drafts.Save(ctx, customerID.String(), draft); saveErr != nil {
			s.logg.Error(ctx, "persisting draft validation errors", saveErr)
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout data is incomplete").WithDetails(fieldErrors)
	}

	currentCart, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(currentCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items, subtotal, err := s.freezeItems(ctx, currentCart.Items)
	if err != nil {
		return nil, err
	}

	fee := decimal.Zero
	if draft.ShippingMethod == enums.ShippingMethodExpress {
		fee = expressFee
	}

	whatsapp, _ := normalizeWhatsapp(draft.Whatsapp)

	order := &models.Order{
		OrderNumber:         s.nextOrderNumber(ctx),
		CustomerID:          customerID,
		CustomerName:        strings.TrimSpace(draft.Name),
		CustomerWhatsapp:    whatsapp,
		CustomerAddress:     strings.TrimSpace(draft.Address),
		CustomerCoordinates: draft.Coordinates,
		ShippingMethod:      draft.ShippingMethod,
		PaymentMethod:       draft.PaymentMethod,
		Status:              enums.OrderStatusPending,
		SubtotalAmount:      subtotal,
		ShippingFee:         fee,
		TotalAmount:         subtotal.Add(fee),
		Items:               items,
	}
	if draft.ShippingMethod == enums.ShippingMethodExpress {
		order.DeliveryDay = draft.DeliveryDay
	}
	if draft.Notes != "" {
		notes := draft.Notes
		order.Notes = &notes
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	// Post-commit cleanup is best effort; the order already exists.
	// The cart is left alone: clearing it is the customer's explicit
	// continue action, not a side effect of submission.
	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	if err := s.drafts.Clear(ctx, customerID.String()); err != nil {
		s.logg.Error(ctx, "clearing draft after submission", err)
	}
	s.publisher.OrderCreated(ctx, order)

	return &SubmitResult{
		OrderNumber: order.OrderNumber,
		Message:     "Pesanan berhasil dibuat.",
		Order:       order,
	}, nil
}

// freezeItems re-reads every line from the catalog so the order stores
// authoritative prices, not whatever the cart snapshot remembers.
func (s *service) freezeItems(ctx context.Context, lines []cart.Line) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		product, variant, err := s.catalog.ResolveVariant(ctx, line.Product.ID, line.Variant.ID)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("%s (%s) is no longer available", line.Product.Name, line.Variant.Name))
			}
			return nil, decimal.Zero, err
		}

		lineSubtotal := variant.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		item := models.OrderItem{
			ProductID:        product.ID,
			ProductVariantID: variant.ID,
			ProductName:      product.Name,
			VariantName:      variant.Name,
			UnitPrice:        variant.Price,
			Quantity:         line.Quantity,
			Subtotal:         lineSubtotal,
		}
		if line.Note != "" {
			note := line.Note
			item.Notes = &note
		}
		items = append(items, item)
		subtotal = subtotal.Add(lineSubtotal)
	}

	return items, subtotal, nil
}

// nextOrderNumber yields PA-YYYYMMDD-NNNN from a per-day Redis counter,
// falling back to a random suffix when the counter is unavailable.
func (s *service) nextOrderNumber(ctx context.Context) string {
	date := s.now().Format("20060102")

	seq, err := s.counters.Incr(ctx, s.counters.CounterKey("orders:"+date))
	if err != nil {
		s.logg.Warn(ctx, "order counter unavailable, using random suffix")
		return fmt.Sprintf("PA-%s-%s", date, strings.ToUpper(uuid.NewString()[:6]))
	}
	// %04d widens past 9999; the suffix never wraps into a collision.
	return fmt.Sprintf("PA-%s-%04d", date, seq)
}

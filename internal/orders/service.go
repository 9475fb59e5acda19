package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/metrics"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

const bulkUpdateConcurrency = 5

// ListInput filters an order listing.
type ListInput struct {
	Pagination pagination.Params
	Status     *enums.OrderStatus
}

// BulkFailure reports one order that could not be updated.
type BulkFailure struct {
	OrderID uuid.UUID `json:"orderId"`
	Reason  string    `json:"reason"`
}

// BulkResult is the per-order outcome of a bulk status update. Bulk
// updates are best effort: successes stand even when siblings fail, and
// every failure is reported instead of masked behind one alert.
type BulkResult struct {
	Updated  []uuid.UUID   `json:"updated"`
	Failures []BulkFailure `json:"failures"`
}

// Service exposes the order read side and the status workflow.
type Service interface {
	ListOrders(ctx context.Context, input ListInput) ([]models.Order, pagination.Meta, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, input ListInput) ([]models.Order, pagination.Meta, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetCustomerOrder(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to enums.OrderStatus) (*models.Order, error)
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, to enums.OrderStatus) (*BulkResult, error)
	CancelOwnOrder(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error)
}

type service struct {
	repo      OrderRepository
	publisher Publisher
	stats     *metrics.Metrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the order service.
func NewService(repo OrderRepository, publisher Publisher, stats *metrics.Metrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
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
		repo:      repo,
		publisher: publisher,
		stats:     stats,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) ListOrders(ctx context.Context, input ListInput) ([]models.Order, pagination.Meta, error) {
	return s.list(ctx, input, nil)
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, input ListInput) ([]models.Order, pagination.Meta, error) {
	if customerID == uuid.Nil {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	return s.list(ctx, input, &customerID)
}

func (s *service) list(ctx context.Context, input ListInput, customerID *uuid.UUID) ([]models.Order, pagination.Meta, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	params := input.Pagination.Normalize()

	list, total, err := s.repo.List(ctx, params, ListFilter{Status: input.Status, CustomerID: customerID})
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return list, pagination.BuildMeta(params, total), nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.load(ctx, id)
}

// GetCustomerOrder loads an order only when it belongs to the caller.
// Foreign orders read as not found so ownership is not probeable.
func (s *service) GetCustomerOrder(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// UpdateStatus applies one admin transition, validated against the
// transition table and applied as a compare-and-set on the current
// status.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !from.CanTransitionTo(to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot move from %s to %s", from, to))
	}

	if err := s.applyTransition(ctx, order, from, to, enums.ActorRoleAdmin); err != nil {
		return nil, err
	}
	return order, nil
}

// BulkUpdateStatus applies the transition to every order concurrently,
// best effort. The per-order failures come back to the caller; they are
// never collapsed into a single success flag.
func (s *service) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, to enums.OrderStatus) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order id is required")
	}
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	type outcome struct {
		id  uuid.UUID
		err error
	}

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, bulkUpdateConcurrency)
		outcomes = make([]outcome, len(ids))
	)

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			_, err := s.UpdateStatus(ctx, id, to)
			outcomes[i] = outcome{id: id, err: err}
		}(i, id)
	}
	wg.Wait()

	result := &BulkResult{Updated: []uuid.UUID{}, Failures: []BulkFailure{}}
	var combined error
	for _, o := range outcomes {
		if o.err == nil {
			result.Updated = append(result.Updated, o.id)
			continue
		}
		reason := o.err.Error()
		if appErr := pkgerrors.As(o.err); appErr != nil {
			reason = appErr.Message()
		}
		result.Failures = append(result.Failures, BulkFailure{OrderID: o.id, Reason: reason})
		combined = multierr.Append(combined, fmt.Errorf("order %s: %w", o.id, o.err))
	}

	if combined != nil {
		s.logg.Warn(s.logg.WithField(ctx, "failed", len(result.Failures)),
			"bulk status update completed with failures: "+combined.Error())
	}
	return result, nil
}

// CancelOwnOrder lets a customer cancel their order while it is still
// pending. Anything past pending is locked to admin transitions.
func (s *service) CancelOwnOrder(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error) {
	order, err := s.GetCustomerOrder(ctx, customerID, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !from.CustomerCancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"order can no longer be cancelled, please contact us")
	}

	if err := s.applyTransition(ctx, order, from, enums.OrderStatusCancelled, enums.ActorRoleCustomer); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) applyTransition(ctx context.Context, order *models.Order, from, to enums.OrderStatus, actor enums.ActorRole) error {
	at := s.now()
	ok, err := s.repo.UpdateStatus(ctx, order.ID, from, to, at)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently, reload and retry")
	}

	order.Status = to
	order.UpdatedAt = at
	switch to {
	case enums.OrderStatusDelivered:
		order.DeliveredAt = &at
	case enums.OrderStatusCancelled:
		order.CancelledAt = &at
	}

	s.stats.OrderStatusTransitions.WithLabelValues(to.String()).Inc()
	s.publisher.OrderStatusChanged(s.logg.WithOrderID(ctx, order.ID.String()), order, from, actor)
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

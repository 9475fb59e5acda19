package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/redis"
	"github.com/pratomobowo/pasarantar-sub000/pkg/types"
)

// Draft is the persisted checkout form. It survives across sessions and
// is destroyed only on successful submission or an explicit reset.
type Draft struct {
	Name           string               `json:"name"`
	Whatsapp       string               `json:"whatsapp"`
	Address        string               `json:"address"`
	Coordinates    *types.Coordinates   `json:"coordinates,omitempty"`
	ShippingMethod enums.ShippingMethod `json:"shippingMethod"`
	PaymentMethod  enums.PaymentMethod  `json:"paymentMethod"`
	DeliveryDay    *enums.DeliveryDay   `json:"deliveryDay,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	FieldErrors    map[string]string    `json:"fieldErrors,omitempty"`
}

func emptyDraft() *Draft {
	return &Draft{
		ShippingMethod: enums.ShippingMethodExpress,
		PaymentMethod:  enums.PaymentMethodTransfer,
	}
}

// applyDefaults backfills method fields that older snapshots may lack.
func (d *Draft) applyDefaults() {
	if d.ShippingMethod == "" {
		d.ShippingMethod = enums.ShippingMethodExpress
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = enums.PaymentMethodTransfer
	}
}

func (d *Draft) clearFieldError(field string) {
	if d.FieldErrors == nil {
		return
	}
	delete(d.FieldErrors, field)
	if len(d.FieldErrors) == 0 {
		d.FieldErrors = nil
	}
}

// DraftStore persists one checkout draft per customer.
type DraftStore interface {
	Load(ctx context.Context, customerID string) (*Draft, error)
	Save(ctx context.Context, customerID string, draft *Draft) error
	Clear(ctx context.Context, customerID string) error
}

type redisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore builds a Redis-backed draft store.
func NewDraftStore(client *redis.Client, ttl time.Duration) (DraftStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("draft ttl must be positive")
	}
	return &redisDraftStore{client: client, ttl: ttl}, nil
}

// Load returns nil when no draft exists; callers decide the fallback.
func (s *redisDraftStore) Load(ctx context.Context, customerID string) (*Draft, error) {
	raw, err := s.client.Get(ctx, s.client.CheckoutDraftKey(customerID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout draft")
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, nil
	}
	draft.applyDefaults()
	return &draft, nil
}

func (s *redisDraftStore) Save(ctx context.Context, customerID string, draft *Draft) error {
	if draft == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "draft must not be nil")
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding checkout draft")
	}
	if err := s.client.Set(ctx, s.client.CheckoutDraftKey(customerID), raw, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout draft")
	}
	return nil
}

func (s *redisDraftStore) Clear(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, s.client.CheckoutDraftKey(customerID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing checkout draft")
	}
	return nil
}

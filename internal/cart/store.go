package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/redis"
)

// Store persists one cart snapshot per customer. The snapshot holds only
// the lines; totals are derived on read.
type Store interface {
	Load(ctx context.Context, customerID string) ([]Line, error)
	Save(ctx context.Context, customerID string, items []Line) error
	Clear(ctx context.Context, customerID string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore builds a Redis-backed cart store. Snapshots expire after ttl
// of inactivity; every save refreshes the window.
func NewStore(client *redis.Client, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, customerID string) ([]Line, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(customerID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Line{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart snapshot")
	}

	var items []Line
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// A corrupt snapshot is unrecoverable; treat it as empty.
		return []Line{}, nil
	}
	return items, nil
}

func (s *redisStore) Save(ctx context.Context, customerID string, items []Line) error {
	if items == nil {
		items = []Line{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart snapshot")
	}
	if err := s.client.Set(ctx, s.client.CartKey(customerID), raw, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart snapshot")
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(customerID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart snapshot")
	}
	return nil
}

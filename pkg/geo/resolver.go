package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/types"
)

// Accuracy selects the quality tier a provider should aim for on a
// given attempt. Lower accuracy is expected to resolve faster.
type Accuracy string

const (
	AccuracyHigh Accuracy = "high"
	AccuracyLow  Accuracy = "low"
)

// ErrorCode classifies provider failures so callers can present a
// meaningful message regardless of which provider is wired in.
type ErrorCode string

const (
	ErrPermissionDenied    ErrorCode = "permission_denied"
	ErrPositionUnavailable ErrorCode = "position_unavailable"
	ErrTimeout             ErrorCode = "timeout"
	ErrUnknown             ErrorCode = "unknown"
)

var errorMessages = map[ErrorCode]string{
	ErrPermissionDenied:    "Izin akses lokasi ditolak.",
	ErrPositionUnavailable: "Lokasi tidak dapat ditentukan.",
	ErrTimeout:             "Permintaan lokasi melebihi batas waktu.",
	ErrUnknown:             "Terjadi kesalahan saat mengambil lokasi.",
}

// Error is the failure type providers are expected to return. Failures
// that are not an *Error are classified as ErrUnknown.
type Error struct {
	Code  ErrorCode
	cause error
}

func NewError(code ErrorCode, cause error) *Error {
	if _, ok := errorMessages[code]; !ok {
		code = ErrUnknown
	}
	return &Error{Code: code, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("geo: %s: %v", e.Code, e.cause)
	}
	return fmt.Sprintf("geo: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

// Message returns the human-readable text for the failure.
func (e *Error) Message() string { return errorMessages[e.Code] }

// Attempt describes one tier of the retry plan. MaxCacheAge tells the
// provider how stale a previously resolved position may be before it
// has to resolve a fresh one.
type Attempt struct {
	Accuracy    Accuracy
	Timeout     time.Duration
	MaxCacheAge time.Duration
}

// The plan degrades rather than retries blindly: a precise fix first,
// then a faster low-accuracy fix with a more tolerant cache window.
var defaultPlan = []Attempt{
	{Accuracy: AccuracyHigh, Timeout: 10 * time.Second, MaxCacheAge: 5 * time.Minute},
	{Accuracy: AccuracyLow, Timeout: 15 * time.Second, MaxCacheAge: 10 * time.Minute},
}

// State tracks where a resolution is in its lifecycle.
type State string

const (
	StateRequestingHighAccuracy State = "requesting_high_accuracy"
	StateRequestingLowAccuracy  State = "requesting_low_accuracy"
	StateResolved               State = "resolved"
	StateFailed                 State = "failed"
)

// Resolution is the outcome of running the retry plan. Coordinates is
// set only when State is StateResolved; FailureCode and FailureMessage
// only when State is StateFailed.
type Resolution struct {
	State          State
	Coordinates    *types.Coordinates
	Attempts       int
	FailureCode    ErrorCode
	FailureMessage string
}

// Provider resolves an address to coordinates at the requested tier.
type Provider interface {
	Locate(ctx context.Context, address string, attempt Attempt) (types.Coordinates, error)
}

// Resolver runs the degrading retry plan against a provider.
type Resolver interface {
	Resolve(ctx context.Context, address string) (*Resolution, error)
}

type resolver struct {
	provider Provider
	plan     []Attempt
	logg     *logger.Logger
}

func NewResolver(provider Provider, logg *logger.Logger) (Resolver, error) {
	if provider == nil {
		return nil, fmt.Errorf("geo: provider is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("geo: logger is required")
	}
	return &resolver{provider: provider, plan: defaultPlan, logg: logg}, nil
}

func (r *resolver) Resolve(ctx context.Context, address string) (*Resolution, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("geo: address is required")
	}

	res := &Resolution{}
	var lastErr *Error

	for i, attempt := range r.plan {
		res.Attempts = i + 1
		res.State = stateFor(attempt.Accuracy)

		coords, err := r.locate(ctx, address, attempt)
		if err == nil {
			res.State = StateResolved
			res.Coordinates = &coords
			return res, nil
		}

		lastErr = classify(err)
		r.logg.Warn(r.logg.WithFields(ctx, map[string]any{
			"attempt":  res.Attempts,
			"accuracy": string(attempt.Accuracy),
			"code":     string(lastErr.Code),
		}), "geo: locate attempt failed")

		// A denied permission will not heal on a lower-accuracy retry.
		if lastErr.Code == ErrPermissionDenied {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	res.State = StateFailed
	res.FailureCode = lastErr.Code
	res.FailureMessage = lastErr.Message()
	return res, nil
}

func (r *resolver) locate(ctx context.Context, address string, attempt Attempt) (types.Coordinates, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, attempt.Timeout)
	defer cancel()

	coords, err := r.provider.Locate(attemptCtx, address, attempt)
	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return types.Coordinates{}, NewError(ErrTimeout, err)
		}
		return types.Coordinates{}, err
	}
	if err := coords.Validate(); err != nil {
		return types.Coordinates{}, NewError(ErrPositionUnavailable, err)
	}
	return coords, nil
}

func stateFor(accuracy Accuracy) State {
	if accuracy == AccuracyHigh {
		return StateRequestingHighAccuracy
	}
	return StateRequestingLowAccuracy
}

func classify(err error) *Error {
	var geoErr *Error
	if errors.As(err, &geoErr) {
		return geoErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(ErrTimeout, err)
	}
	return NewError(ErrUnknown, err)
}

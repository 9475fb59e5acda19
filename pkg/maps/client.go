package maps

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pratomobowo/pasarantar-sub000/pkg/geo"
	"github.com/pratomobowo/pasarantar-sub000/pkg/redis"
	"github.com/pratomobowo/pasarantar-sub000/pkg/types"
)

const (
	defaultBaseURL             = "https://places.googleapis.com/v1"
	searchTextFieldMask        = "places.id,places.formattedAddress,places.location"
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("maps api key is required")

// Client wraps the Places text-search API used to geocode delivery
// addresses.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Places base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the geocoding client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

type searchTextRequest struct {
	TextQuery    string `json:"textQuery"`
	RegionCode   string `json:"regionCode,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
	MaxResults   int    `json:"pageSize,omitempty"`
}

// Geocode resolves a free-form address to coordinates via text search.
// Failures are classified with geo error codes so the retry policy can
// react to each kind.
func (c *Client) Geocode(ctx context.Context, address string) (types.Coordinates, error) {
	if c == nil {
		return types.Coordinates{}, geo.NewError(geo.ErrUnknown, errors.New("maps client not configured"))
	}
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return types.Coordinates{}, geo.NewError(geo.ErrPositionUnavailable, errors.New("address is empty"))
	}

	payload, err := json.Marshal(searchTextRequest{
		TextQuery:    trimmed,
		RegionCode:   "id",
		LanguageCode: "id",
		MaxResults:   1,
	})
	if err != nil {
		return types.Coordinates{}, geo.NewError(geo.ErrUnknown, fmt.Errorf("marshal search request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("places:searchText"), bytes.NewReader(payload))
	if err != nil {
		return types.Coordinates{}, geo.NewError(geo.ErrUnknown, fmt.Errorf("build search request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", searchTextFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return types.Coordinates{}, geo.NewError(geo.ErrUnknown, fmt.Errorf("execute search request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return types.Coordinates{}, geo.NewError(geo.ErrPermissionDenied, cause)
		case http.StatusNotFound:
			return types.Coordinates{}, geo.NewError(geo.ErrPositionUnavailable, cause)
		default:
			return types.Coordinates{}, geo.NewError(geo.ErrUnknown, cause)
		}
	}

	var apiResp struct {
		Places []struct {
			Location struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"location"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return types.Coordinates{}, geo.NewError(geo.ErrUnknown, fmt.Errorf("decode search response: %w", err))
	}

	if len(apiResp.Places) == 0 {
		return types.Coordinates{}, geo.NewError(geo.ErrPositionUnavailable, errors.New("no place matched the address"))
	}

	return types.Coordinates{
		Latitude:  apiResp.Places[0].Location.Latitude,
		Longitude: apiResp.Places[0].Location.Longitude,
	}, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}

type cachedGeocode struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

// Provider adapts the geocoding client to the location retry policy.
// Resolved coordinates are kept in Redis and reused while they are
// younger than the attempt's cache tolerance.
type Provider struct {
	client *Client
	cache  *redis.Client
	now    func() time.Time
}

func NewProvider(client *Client, cache *redis.Client) (*Provider, error) {
	if client == nil {
		return nil, errors.New("maps: client is required")
	}
	if cache == nil {
		return nil, errors.New("maps: cache is required")
	}
	return &Provider{client: client, cache: cache, now: time.Now}, nil
}

func (p *Provider) Locate(ctx context.Context, address string, attempt geo.Attempt) (types.Coordinates, error) {
	key := p.cache.GeocodeKey(addressHash(address))

	if cached, ok := p.cachedWithin(ctx, key, attempt.MaxCacheAge); ok {
		return cached, nil
	}

	coords, err := p.client.Geocode(ctx, address)
	if err != nil {
		return types.Coordinates{}, err
	}

	entry := cachedGeocode{
		Latitude:   coords.Latitude,
		Longitude:  coords.Longitude,
		ResolvedAt: p.now(),
	}
	if raw, err := json.Marshal(entry); err == nil {
		// Cache misses are tolerable; a failed write must not fail the lookup.
		_ = p.cache.Set(ctx, key, raw, 24*time.Hour)
	}

	return coords, nil
}

func (p *Provider) cachedWithin(ctx context.Context, key string, maxAge time.Duration) (types.Coordinates, bool) {
	if maxAge <= 0 {
		return types.Coordinates{}, false
	}

	raw, err := p.cache.Get(ctx, key)
	if err != nil {
		return types.Coordinates{}, false
	}

	var entry cachedGeocode
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return types.Coordinates{}, false
	}
	if p.now().Sub(entry.ResolvedAt) > maxAge {
		return types.Coordinates{}, false
	}

	return types.Coordinates{Latitude: entry.Latitude, Longitude: entry.Longitude}, true
}

func addressHash(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:8])
}

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is a WGS84 latitude/longitude pair attached to a checkout
// draft or frozen onto an order.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the pair against the WGS84 ranges.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	}
	return nil
}

// String renders the pair in the "lat, lng" form accepted by ParseCoordinates.
func (c Coordinates) String() string {
	return fmt.Sprintf("%g, %g", c.Latitude, c.Longitude)
}

// ParseCoordinates parses manual "lat, lng" input. An empty string returns
// (nil, nil), which callers treat as "clear the stored coordinate". Invalid
// input returns an error and must leave any prior value untouched.
func ParseCoordinates(raw string) (*Coordinates, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("coordinates must be in \"lat, lng\" form")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", strings.TrimSpace(parts[0]))
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", strings.TrimSpace(parts[1]))
	}

	coords := Coordinates{Latitude: lat, Longitude: lng}
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	return &coords, nil
}

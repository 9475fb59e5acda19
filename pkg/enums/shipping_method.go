package enums

import "fmt"

// ShippingMethod selects how an order reaches the customer.
type ShippingMethod string

const (
	ShippingMethodExpress ShippingMethod = "express"
	ShippingMethodPickup  ShippingMethod = "pickup"
)

var validShippingMethods = []ShippingMethod{
	ShippingMethodExpress,
	ShippingMethodPickup,
}

// String implements fmt.Stringer.
func (m ShippingMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ShippingMethod.
func (m ShippingMethod) IsValid() bool {
	for _, candidate := range validShippingMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseShippingMethod converts raw input into a ShippingMethod.
func ParseShippingMethod(value string) (ShippingMethod, error) {
	for _, candidate := range validShippingMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping method %q", value)
}

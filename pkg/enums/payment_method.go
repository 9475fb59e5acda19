package enums

import "fmt"

// PaymentMethod identifies how the customer settles an order.
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCOD      PaymentMethod = "cod"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodTransfer,
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

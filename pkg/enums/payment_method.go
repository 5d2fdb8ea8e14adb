package enums

import "fmt"

// PaymentMethod identifies how an order is paid. Cash on delivery is the only supported method.
type PaymentMethod string

const (
	PaymentMethodCOD PaymentMethod = "COD"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label is the human readable name printed on receipts.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodCOD:
		return "Cash on Delivery"
	default:
		return string(p)
	}
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

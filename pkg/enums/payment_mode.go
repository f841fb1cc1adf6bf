package enums

import "fmt"

// PaymentMode selects how the checkout session charges the shopper.
type PaymentMode string

const (
	PaymentModeOneTime      PaymentMode = "payment"
	PaymentModeSubscription PaymentMode = "subscription"
)

var validPaymentModes = []PaymentMode{
	PaymentModeOneTime,
	PaymentModeSubscription,
}

// String implements fmt.Stringer.
func (p PaymentMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMode.
func (p PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMode converts raw input into a PaymentMode.
func ParsePaymentMode(value string) (PaymentMode, error) {
	for _, candidate := range validPaymentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}

package money

import (
	"testing"

	"github.com/verdemart/verdemart-backend/pkg/enums"
)

func TestFromCents(t *testing.T) {
	if got := FromCents(3234).StringFixed(2); got != "32.34" {
		t.Fatalf("expected 32.34, got %s", got)
	}
	if got := FromCents(0).StringFixed(2); got != "0.00" {
		t.Fatalf("expected 0.00, got %s", got)
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(5000, enums.CurrencyMXN); got != "$50.00 MXN" {
		t.Fatalf("unexpected display string %q", got)
	}
}

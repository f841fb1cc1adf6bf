package enums

import "fmt"

// RecurringInterval marks how often a subscription-priced product renews.
type RecurringInterval string

const (
	RecurringIntervalDay   RecurringInterval = "day"
	RecurringIntervalWeek  RecurringInterval = "week"
	RecurringIntervalMonth RecurringInterval = "month"
	RecurringIntervalYear  RecurringInterval = "year"
)

var validRecurringIntervals = []RecurringInterval{
	RecurringIntervalDay,
	RecurringIntervalWeek,
	RecurringIntervalMonth,
	RecurringIntervalYear,
}

// String implements fmt.Stringer.
func (r RecurringInterval) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RecurringInterval.
func (r RecurringInterval) IsValid() bool {
	for _, candidate := range validRecurringIntervals {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecurringInterval converts raw input into a RecurringInterval.
func ParseRecurringInterval(value string) (RecurringInterval, error) {
	for _, candidate := range validRecurringIntervals {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recurring interval %q", value)
}

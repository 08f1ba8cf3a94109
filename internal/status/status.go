package status

import (
	"math"
	"time"
)

// Status is the derived validity of a document.
type Status string

const (
	Valid        Status = "valid"
	ExpiringSoon Status = "expiring_soon"
	Expired      Status = "expired"
)

// Expiry thresholds in days.
const (
	WarningThresholdDays  = 15
	CriticalThresholdDays = 7
)

// Info is the full classification of an expiry date.
type Info struct {
	Status          Status
	DaysUntilExpiry int
	IsExpired       bool
	IsCritical      bool
	IsValid         bool
}

// DaysUntilExpiry returns the number of whole days from now until expiry,
// rounding partial days up. Zero or negative means already expired.
func DaysUntilExpiry(expiry time.Time, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Classify derives the status of an optional expiry date. It is pure: the
// same (expiry, now) pair always yields the same result. Documents without
// an expiry date are always valid.
func Classify(expiry *time.Time, now time.Time) Info {
	if expiry == nil {
		return Info{Status: Valid, IsValid: true}
	}

	days := DaysUntilExpiry(*expiry, now)

	if days <= 0 {
		return Info{Status: Expired, DaysUntilExpiry: 0, IsExpired: true}
	}
	if days <= CriticalThresholdDays {
		return Info{Status: ExpiringSoon, DaysUntilExpiry: days, IsCritical: true}
	}
	if days <= WarningThresholdDays {
		return Info{Status: ExpiringSoon, DaysUntilExpiry: days}
	}
	return Info{Status: Valid, DaysUntilExpiry: days, IsValid: true}
}

// IsKnown reports whether s is one of the three defined statuses.
func IsKnown(s string) bool {
	switch Status(s) {
	case Valid, ExpiringSoon, Expired:
		return true
	}
	return false
}

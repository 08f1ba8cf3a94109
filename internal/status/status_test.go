package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(days int, now time.Time) *time.Time {
	t := now.Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

func TestClassifyNoExpiry(t *testing.T) {
	info := Classify(nil, time.Now())
	assert.Equal(t, Valid, info.Status)
	assert.True(t, info.IsValid)
	assert.Zero(t, info.DaysUntilExpiry)
}

func TestClassifyBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		days     int
		want     Status
		critical bool
	}{
		{"well in the future", 120, Valid, false},
		{"just outside warning", 16, Valid, false},
		{"warning boundary", 15, ExpiringSoon, false},
		{"inside warning", 10, ExpiringSoon, false},
		{"critical boundary", 7, ExpiringSoon, true},
		{"last day", 1, ExpiringSoon, true},
		{"expires now", 0, Expired, false},
		{"long expired", -30, Expired, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Classify(at(tt.days, now), now)
			assert.Equal(t, tt.want, info.Status)
			assert.Equal(t, tt.critical, info.IsCritical)
		})
	}
}

func TestClassifyPartialDaysRoundUp(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// 15 days and one hour out is a 16-day distance, still valid.
	expiry := now.Add(15*24*time.Hour + time.Hour)
	info := Classify(&expiry, now)
	assert.Equal(t, Valid, info.Status)
	assert.Equal(t, 16, info.DaysUntilExpiry)

	// One minute from expiry still counts as one day left.
	expiry = now.Add(time.Minute)
	info = Classify(&expiry, now)
	assert.Equal(t, ExpiringSoon, info.Status)
	assert.Equal(t, 1, info.DaysUntilExpiry)
	assert.True(t, info.IsCritical)
}

func TestClassifyExpiredReportsZeroDays(t *testing.T) {
	now := time.Now()
	info := Classify(at(-3, now), now)
	assert.True(t, info.IsExpired)
	assert.Equal(t, 0, info.DaysUntilExpiry)
}

func TestClassifyIsPure(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	expiry := at(9, now)
	first := Classify(expiry, now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(expiry, now))
	}
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("valid"))
	assert.True(t, IsKnown("expiring_soon"))
	assert.True(t, IsKnown("expired"))
	assert.False(t, IsKnown("archived"))
	assert.False(t, IsKnown(""))
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int64
	}{
		{"one night", date(2026, 3, 10), date(2026, 3, 11), 1},
		{"week", date(2026, 3, 10), date(2026, 3, 17), 7},
		{"same day charges one night", date(2026, 3, 10), date(2026, 3, 10), 1},
		{"partial day rounds up", date(2026, 3, 10), date(2026, 3, 11).Add(6 * time.Hour), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestTotalPrice(t *testing.T) {
	in := date(2026, 7, 1)
	out := date(2026, 7, 4)
	assert.Equal(t, int64(450), TotalPrice(150, in, out))

	// Same-day stay still bills a single night.
	assert.Equal(t, int64(150), TotalPrice(150, in, in))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		aIn  time.Time
		aOut time.Time
		bIn  time.Time
		bOut time.Time
		want bool
	}{
		{"disjoint before", date(2026, 5, 1), date(2026, 5, 3), date(2026, 5, 10), date(2026, 5, 12), false},
		{"disjoint after", date(2026, 5, 10), date(2026, 5, 12), date(2026, 5, 1), date(2026, 5, 3), false},
		{"contained", date(2026, 5, 5), date(2026, 5, 6), date(2026, 5, 1), date(2026, 5, 10), true},
		{"partial overlap", date(2026, 5, 1), date(2026, 5, 5), date(2026, 5, 4), date(2026, 5, 10), true},
		{"boundary touch counts as overlap", date(2026, 5, 1), date(2026, 5, 5), date(2026, 5, 5), date(2026, 5, 10), true},
		{"boundary touch other side", date(2026, 5, 5), date(2026, 5, 10), date(2026, 5, 1), date(2026, 5, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aIn, tt.aOut, tt.bIn, tt.bOut))
		})
	}
}

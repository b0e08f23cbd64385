package usecase

import (
	"testing"
	"time"
)

func TestWithinIssuanceWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	window := time.Minute

	cases := []struct {
		name          string
		lastCreatedAt time.Time
		want          bool
	}{
		{name: "just issued", lastCreatedAt: now, want: true},
		{name: "half window", lastCreatedAt: now.Add(-30 * time.Second), want: true},
		{name: "one second short", lastCreatedAt: now.Add(-59 * time.Second), want: true},
		{name: "exactly at window", lastCreatedAt: now.Add(-60 * time.Second), want: false},
		{name: "past window", lastCreatedAt: now.Add(-61 * time.Second), want: false},
		{name: "long ago", lastCreatedAt: now.Add(-time.Hour), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := withinIssuanceWindow(now, tc.lastCreatedAt, window); got != tc.want {
				t.Errorf("withinIssuanceWindow(now, now-%v, %v) = %v, want %v", now.Sub(tc.lastCreatedAt), window, got, tc.want)
			}
		})
	}
}

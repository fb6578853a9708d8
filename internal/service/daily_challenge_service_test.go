package service

import (
	"testing"
	"time"
)

func TestTTLUntilMidnight(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"one hour left", time.Date(2026, time.March, 10, 23, 0, 0, 0, time.Local), time.Hour},
		{"just after midnight", time.Date(2026, time.March, 10, 0, 0, 1, 0, time.Local), 24*time.Hour - time.Second},
		{"midday", time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local), 12 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ttlUntilMidnight(tt.now); got != tt.want {
				t.Errorf("ttlUntilMidnight() = %v, want %v", got, tt.want)
			}
		})
	}
}

package config

import (
	"testing"
	"time"
)

func TestCalculateBetweenTime(t *testing.T) {
	cases := []struct {
		timer Timer
		want  time.Duration
	}{
		{Timer{Hours: 6}, 6 * time.Hour},
		{Timer{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}, 26*time.Hour + 3*time.Minute + 4*time.Second},
		{Timer{}, time.Second},            // minimum enforced
		{Timer{Seconds: 0}, time.Second},  // zero timer never spins
		{Timer{Seconds: 90}, 90 * time.Second},
	}

	for _, tc := range cases {
		if got := CalculateBetweenTime(tc.timer); got != tc.want {
			t.Errorf("CalculateBetweenTime(%+v) returned %v, want %v", tc.timer, got, tc.want)
		}
	}
}

func TestCalculateRefreshIntervalDefaultsWhenZero(t *testing.T) {
	var cfg Config
	if got := calculateRefreshInterval(cfg); got != defaultRefreshInterval {
		t.Fatalf("calculateRefreshInterval of zero timer returned %v, want %v", got, defaultRefreshInterval)
	}

	cfg.Blocklist.RefreshTimer = Timer{Minutes: 30}
	if got := calculateRefreshInterval(cfg); got != 30*time.Minute {
		t.Fatalf("calculateRefreshInterval returned %v, want 30m", got)
	}
}

func TestRefreshIntervalUpdatesDeliverCurrentValue(t *testing.T) {
	updates := RefreshIntervalUpdates()

	select {
	case got := <-updates:
		if got != GetRefreshInterval() {
			t.Fatalf("initial interval was %v, want %v", got, GetRefreshInterval())
		}
	default:
		t.Fatal("expected the current interval to be delivered immediately")
	}
}

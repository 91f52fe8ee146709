package config

import (
	"sync"
	"sync/atomic"
	"time"
)

const defaultRefreshInterval = 6 * time.Hour

var (
	refreshInterval          atomic.Value
	refreshIntervalListeners []chan time.Duration
	listenersMu              sync.Mutex
)

func init() {
	refreshInterval.Store(defaultRefreshInterval)
}

func recalculateIntervals() {
	setRefreshInterval(calculateRefreshInterval(GetConfig()))
}

// CalculateBetweenTime converts a Timer into a duration, enforcing a one
// second minimum.
func CalculateBetweenTime(timer Timer) time.Duration {
	intervalMs := uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000

	if intervalMs < 1000 {
		intervalMs = 1000
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func calculateRefreshInterval(cfg Config) time.Duration {
	timer := cfg.Blocklist.RefreshTimer
	if timer.Days == 0 && timer.Hours == 0 && timer.Minutes == 0 && timer.Seconds == 0 {
		return defaultRefreshInterval
	}
	return CalculateBetweenTime(timer)
}

func GetRefreshInterval() time.Duration {
	return refreshInterval.Load().(time.Duration)
}

// RefreshIntervalUpdates registers a listener that receives the current
// interval immediately and every later change.
func RefreshIntervalUpdates() <-chan time.Duration {
	ch := make(chan time.Duration, 1)
	listenersMu.Lock()
	refreshIntervalListeners = append(refreshIntervalListeners, ch)
	listenersMu.Unlock()

	ch <- GetRefreshInterval()
	return ch
}

func setRefreshInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	if GetRefreshInterval() == interval {
		return
	}
	refreshInterval.Store(interval)

	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, ch := range refreshIntervalListeners {
		select {
		case ch <- interval:
		default:
		}
	}
}

package blocklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"netfence/internal/cidr"
	"netfence/internal/config"
	"netfence/internal/support"
)

const refreshLockKey = "netfence:leader:blocklist_refresh"

// RefreshOutcome summarizes one pass over the configured sources.
type RefreshOutcome struct {
	Sources    int `json:"sources"`
	Failed     int `json:"failed"`
	Candidates int `json:"candidates"`
	Accepted   int `json:"accepted"`
	SetSize    int `json:"setSize"`
}

// StartRefreshRoutine runs the source refresh loop with dynamic rescheduling.
// With redis configured, a leadership lock keeps the refresh on a single
// instance; without it the loop runs locally.
func StartRefreshRoutine(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	updates := config.RefreshIntervalUpdates()

	if !support.RedisConfigured() {
		log.Debug("No redis configured, refreshing without leader lock")
		runRefreshLoop(ctx, updates)
		return
	}

	err := support.RunWithLeader(ctx, refreshLockKey, support.DefaultLeadershipTTL, func(leaderCtx context.Context) {
		runRefreshLoop(leaderCtx, updates)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Blocklist refresh routine stopped", "error", err)
	}
}

// RunRefresh triggers a refresh immediately, outside of the scheduled loop.
func RunRefresh(ctx context.Context, reason string) (*RefreshOutcome, error) {
	result, err, _ := refreshOnce.Do("refresh", func() (any, error) {
		return doRefresh(ctx, reason)
	})
	if err != nil {
		return nil, err
	}
	outcome, _ := result.(*RefreshOutcome)
	return outcome, nil
}

func runRefreshLoop(ctx context.Context, updates <-chan time.Duration) {
	current := config.GetRefreshInterval()

	ticker := time.NewTicker(current)
	defer ticker.Stop()

	triggerRefresh(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			triggerRefresh(ctx, "scheduled")
		case newInterval := <-updates:
			if newInterval <= 0 || newInterval == current {
				continue
			}
			drainTicker(ticker)
			current = newInterval
			ticker.Reset(current)
		}
	}
}

func triggerRefresh(ctx context.Context, reason string) {
	outcome, err := RunRefresh(ctx, reason)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Blocklist refresh canceled", "reason", reason)
		} else {
			log.Error("Blocklist refresh failed", "reason", reason, "error", err)
		}
		return
	}
	if outcome == nil {
		return
	}

	log.Info("Blocklist refresh completed",
		"reason", reason,
		"sources", outcome.Sources,
		"candidates", outcome.Candidates,
		"accepted", outcome.Accepted,
		"set_size", outcome.SetSize,
	)
}

func drainTicker(ticker *time.Ticker) {
	for {
		select {
		case <-ticker.C:
		default:
			return
		}
	}
}

func doRefresh(ctx context.Context, reason string) (*RefreshOutcome, error) {
	cfg := config.GetConfig()
	return refreshFromSources(ctx, reason, append([]string(nil), cfg.Blocklist.Sources...))
}

func refreshFromSources(ctx context.Context, reason string, sources []string) (*RefreshOutcome, error) {
	outcome := &RefreshOutcome{Sources: len(sources)}
	if len(sources) == 0 {
		outcome.SetSize = len(setValue.Load())
		return outcome, nil
	}

	var candidates []string
	for _, src := range sources {
		found, err := fetchSource(ctx, src)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			log.Warn("Blocklist source fetch failed", "source", src, "error", err)
			outcome.Failed++
			continue
		}
		candidates = append(candidates, found...)
	}

	setMu.Lock()
	defer setMu.Unlock()

	before := canonicalSet(setValue.Load())
	merged, err := cidr.AddMany(setValue.Load(), candidates)
	if err != nil {
		// Candidates come from ExtractCandidates and are pre-validated.
		return nil, err
	}

	outcome.Candidates = len(candidates)
	outcome.Accepted = countNew(merged, before)
	outcome.SetSize = len(merged)

	if outcome.Accepted > 0 || len(merged) != len(before) {
		if err := persistLocked(ctx, merged, "refresh"); err != nil {
			return nil, err
		}
		setValue.Store(merged)
	}

	recordImport(ctx, reason, sources, ImportOutcome{
		Candidates: outcome.Candidates,
		Accepted:   outcome.Accepted,
		SetSize:    outcome.SetSize,
	})
	return outcome, nil
}

func fetchSource(ctx context.Context, source string) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return cidr.ExtractCandidates(string(content)), nil
}

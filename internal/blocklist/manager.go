// Package blocklist owns the live range set. The set itself is a value the
// cidr engine computes; this package serializes structural updates, keeps an
// atomic snapshot for readers, and writes every accepted change through to
// the address file and the optional Postgres mirror.
package blocklist

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"netfence/internal/cidr"
	"netfence/internal/config"
	"netfence/internal/database"
	"netfence/internal/domain"
	"netfence/internal/store"
)

const maxResponseBytes = 10 << 20 // 10 MiB safety cap

var (
	setValue    atomicRangeList
	setMu       sync.Mutex
	file        *store.AddressFile
	refreshOnce singleflight.Group
	httpClient  = &http.Client{Timeout: 30 * time.Second}
)

type atomicRangeList struct {
	val atomic.Value
}

func (a *atomicRangeList) Load() []cidr.AddressRange {
	raw, ok := a.val.Load().([]cidr.AddressRange)
	if !ok || raw == nil {
		empty := make([]cidr.AddressRange, 0)
		a.val.Store(empty)
		return empty
	}
	return raw
}

func (a *atomicRangeList) Store(r []cidr.AddressRange) {
	a.val.Store(r)
}

func init() {
	setValue.Store(make([]cidr.AddressRange, 0))
}

// Initialize hydrates the set from the address file, falling back to the
// Postgres mirror when the file is empty but a mirror exists.
func Initialize(ctx context.Context) error {
	file = store.NewAddressFile(config.GetConfig().Storage.AddressFile)

	ranges := file.Load()
	if len(ranges) == 0 && database.Enabled() && database.DB != nil {
		cidrs, err := database.ListBlockedRanges(ctx)
		if err != nil {
			log.Warn("Could not hydrate from database mirror", "error", err)
		} else if merged, err := cidr.AddMany(nil, cidrs); err == nil {
			ranges = merged
		}
	}

	setValue.Store(ranges)
	log.Info("Blocklist loaded", "ranges", len(ranges))
	return nil
}

// Snapshot returns a copy of the current set in insertion order.
func Snapshot() []cidr.AddressRange {
	current := setValue.Load()
	out := make([]cidr.AddressRange, len(current))
	copy(out, current)
	return out
}

// Canonical returns the canonical text forms of the current set.
func Canonical() []string {
	current := setValue.Load()
	out := make([]string, 0, len(current))
	for _, r := range current {
		out = append(out, r.String())
	}
	return out
}

// Contains reports whether the given host address falls inside any range of
// the current set. Malformed input is simply not contained.
func Contains(ip string) bool {
	if strings.Contains(ip, "/") {
		return false
	}
	host, err := cidr.Parse(ip)
	if err != nil {
		return false
	}

	for _, r := range setValue.Load() {
		if cidr.IsSubsetOf(host, r) {
			return true
		}
	}
	return false
}

// Add merges the given tokens into the set, all or nothing: the first
// unparsable token aborts the call and nothing is persisted. On success the
// new canonical set is returned.
func Add(ctx context.Context, tokens []string) ([]string, error) {
	setMu.Lock()
	defer setMu.Unlock()

	merged, err := cidr.AddMany(setValue.Load(), tokens)
	if err != nil {
		return nil, err
	}

	if err := persistLocked(ctx, merged, "api"); err != nil {
		return nil, err
	}
	setValue.Store(merged)
	return Canonical(), nil
}

// ImportOutcome summarizes one free-text import.
type ImportOutcome struct {
	Candidates int `json:"candidates"`
	Accepted   int `json:"accepted"`
	SetSize    int `json:"setSize"`
}

// ImportText extracts every address-like candidate from the text, drops the
// invalid ones silently, and merges the rest. Partial success is the point
// here; use Add for strict, all-or-nothing input.
func ImportText(ctx context.Context, text string) (ImportOutcome, error) {
	candidates := cidr.ExtractCandidates(text)

	setMu.Lock()
	defer setMu.Unlock()

	before := canonicalSet(setValue.Load())

	// Candidates are pre-validated, so AddMany cannot fail on them.
	merged, err := cidr.AddMany(setValue.Load(), candidates)
	if err != nil {
		return ImportOutcome{}, err
	}

	outcome := ImportOutcome{
		Candidates: len(candidates),
		Accepted:   countNew(merged, before),
		SetSize:    len(merged),
	}

	if outcome.Accepted > 0 || len(merged) != len(before) {
		if err := persistLocked(ctx, merged, "api"); err != nil {
			return ImportOutcome{}, err
		}
		setValue.Store(merged)
	}

	recordImport(ctx, "api", nil, outcome)
	return outcome, nil
}

// Remove drops entries by exact canonical form and reports how many matched.
func Remove(ctx context.Context, cidrs []string) (int, error) {
	drop := make(map[string]struct{}, len(cidrs))
	for _, c := range cidrs {
		drop[strings.TrimSpace(c)] = struct{}{}
	}

	setMu.Lock()
	defer setMu.Unlock()

	current := setValue.Load()
	kept := make([]cidr.AddressRange, 0, len(current))
	removed := 0
	for _, r := range current {
		if _, found := drop[r.String()]; found {
			removed++
			continue
		}
		kept = append(kept, r)
	}

	if removed == 0 {
		return 0, nil
	}

	if err := persistLocked(ctx, kept, "api"); err != nil {
		return 0, err
	}
	setValue.Store(kept)
	return removed, nil
}

// persistLocked writes the set through to disk and, best effort, to the
// Postgres mirror. Callers hold setMu.
func persistLocked(ctx context.Context, ranges []cidr.AddressRange, source string) error {
	if file == nil {
		file = store.NewAddressFile(config.GetConfig().Storage.AddressFile)
	}
	if err := file.Save(ranges); err != nil {
		return err
	}

	if database.Enabled() && database.DB != nil {
		canonical := make([]string, 0, len(ranges))
		for _, r := range ranges {
			canonical = append(canonical, r.String())
		}
		if err := database.ReplaceBlockedRanges(ctx, canonical, source); err != nil {
			log.Warn("Database mirror update failed", "error", err)
		}
	}
	return nil
}

func recordImport(ctx context.Context, trigger string, sources []string, outcome ImportOutcome) {
	if !database.Enabled() || database.DB == nil {
		return
	}
	report := domain.ImportReport{
		Trigger:    trigger,
		Sources:    domain.StringList(sources),
		Candidates: outcome.Candidates,
		Accepted:   outcome.Accepted,
		SetSize:    outcome.SetSize,
	}
	if err := database.RecordImport(ctx, report); err != nil {
		log.Warn("Could not record import report", "error", err)
	}
}

func canonicalSet(ranges []cidr.AddressRange) map[string]struct{} {
	set := make(map[string]struct{}, len(ranges))
	for _, r := range ranges {
		set[r.String()] = struct{}{}
	}
	return set
}

func countNew(after []cidr.AddressRange, before map[string]struct{}) int {
	added := 0
	for _, r := range after {
		if _, found := before[r.String()]; !found {
			added++
		}
	}
	return added
}

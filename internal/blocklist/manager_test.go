package blocklist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"netfence/internal/cidr"
	"netfence/internal/store"
)

// useTempStore points the manager at a throwaway address file and clears the
// in-memory set.
func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "")

	file = store.NewAddressFile(filepath.Join(t.TempDir(), "addresses.yaml"))
	setValue.Store(make([]cidr.AddressRange, 0))
}

func TestAddMergesAndPersists(t *testing.T) {
	useTempStore(t)

	got, err := Add(context.Background(), []string{"192.168.1.0/24", "192.168.2.0/24", "192.168.0.0/16"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	want := []string{"192.168.0.0/16"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Add returned %v, want %v", got, want)
	}

	// Persisted state matches the in-memory set.
	loaded := file.Load()
	if len(loaded) != 1 || loaded[0].String() != "192.168.0.0/16" {
		t.Fatalf("persisted set was %v, want [192.168.0.0/16]", loaded)
	}
}

func TestAddAbortsWithoutPartialCommit(t *testing.T) {
	useTempStore(t)

	if _, err := Add(context.Background(), []string{"10.0.0.0/8"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	_, err := Add(context.Background(), []string{"192.168.1.0/24", "bogus"})
	if !errors.Is(err, cidr.ErrInvalidAddress) {
		t.Fatalf("Add returned %v, want ErrInvalidAddress", err)
	}

	if got := Canonical(); !reflect.DeepEqual(got, []string{"10.0.0.0/8"}) {
		t.Fatalf("set after failed Add was %v, want [10.0.0.0/8]", got)
	}
}

func TestContains(t *testing.T) {
	useTempStore(t)

	if _, err := Add(context.Background(), []string{"10.0.0.0/8", "192.168.1.5/24"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	cases := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.168.1.200", true}, // host-bit entry still covers its network
		{"172.16.0.1", false},
		{"not-an-ip", false},
		{"10.0.0.0/8", false}, // ranges are not host lookups
	}

	for _, tc := range cases {
		if got := Contains(tc.ip); got != tc.want {
			t.Errorf("Contains(%q) = %v, want %v", tc.ip, got, tc.want)
		}
	}
}

func TestImportTextFiltersAndCounts(t *testing.T) {
	useTempStore(t)

	outcome, err := ImportText(context.Background(), "Valid: 192.168.1.0/24, Invalid: 999.999.999.999, Valid: 10.0.0.1")
	if err != nil {
		t.Fatalf("ImportText returned error: %v", err)
	}

	if outcome.Candidates != 2 || outcome.Accepted != 2 || outcome.SetSize != 2 {
		t.Fatalf("outcome was %+v, want 2 candidates, 2 accepted, set size 2", outcome)
	}

	want := []string{"192.168.1.0/24", "10.0.0.1/32"}
	if got := Canonical(); !reflect.DeepEqual(got, want) {
		t.Fatalf("set after import was %v, want %v", got, want)
	}
}

func TestImportTextIsIdempotent(t *testing.T) {
	useTempStore(t)

	if _, err := ImportText(context.Background(), "10.0.0.0/8"); err != nil {
		t.Fatalf("ImportText returned error: %v", err)
	}

	outcome, err := ImportText(context.Background(), "10.0.0.0/8 and 10.1.0.0/16")
	if err != nil {
		t.Fatalf("ImportText returned error: %v", err)
	}

	if outcome.Accepted != 0 {
		t.Fatalf("re-import accepted %d entries, want 0", outcome.Accepted)
	}
	if got := Canonical(); !reflect.DeepEqual(got, []string{"10.0.0.0/8"}) {
		t.Fatalf("set after re-import was %v, want [10.0.0.0/8]", got)
	}
}

func TestRemove(t *testing.T) {
	useTempStore(t)

	if _, err := Add(context.Background(), []string{"10.0.0.0/8", "192.168.1.0/24"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	removed, err := Remove(context.Background(), []string{"10.0.0.0/8", "172.16.0.0/12"})
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Remove reported %d entries, want 1", removed)
	}

	if got := Canonical(); !reflect.DeepEqual(got, []string{"192.168.1.0/24"}) {
		t.Fatalf("set after remove was %v, want [192.168.1.0/24]", got)
	}
}

func TestFetchSource(t *testing.T) {
	useTempStore(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# blocklist\n192.168.1.0/24\n999.999.999.999\n10.0.0.1\n"))
	}))
	defer server.Close()

	candidates, err := fetchSource(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetchSource returned error: %v", err)
	}

	want := []string{"192.168.1.0/24", "10.0.0.1"}
	if !reflect.DeepEqual(candidates, want) {
		t.Fatalf("fetchSource returned %v, want %v", candidates, want)
	}
}

func TestFetchSourceRejectsBadStatus(t *testing.T) {
	useTempStore(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	if _, err := fetchSource(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-2xx response, got nil")
	}
}

func TestRefreshFromSourcesMerges(t *testing.T) {
	useTempStore(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("192.168.1.0/24\n192.168.2.0/24\n192.168.0.0/16\n"))
	}))
	defer server.Close()

	outcome, err := refreshFromSources(context.Background(), "test", []string{server.URL})
	if err != nil {
		t.Fatalf("refreshFromSources returned error: %v", err)
	}

	if outcome.Sources != 1 || outcome.Failed != 0 {
		t.Fatalf("outcome was %+v, want 1 source and no failures", outcome)
	}
	if got := Canonical(); !reflect.DeepEqual(got, []string{"192.168.0.0/16"}) {
		t.Fatalf("set after refresh was %v, want [192.168.0.0/16]", got)
	}
}

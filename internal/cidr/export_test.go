package cidr

import (
	"strings"
	"testing"
)

func TestExportCSVPreservesOrder(t *testing.T) {
	ranges := []AddressRange{
		mustParse(t, "192.168.1.0/24"),
		mustParse(t, "10.0.0.0/8"),
	}

	if got := ExportCSV(ranges); got != "192.168.1.0/24,10.0.0.0/8" {
		t.Fatalf("ExportCSV returned %q, want %q", got, "192.168.1.0/24,10.0.0.0/8")
	}
}

func TestExportCSVEmpty(t *testing.T) {
	if got := ExportCSV(nil); got != "" {
		t.Fatalf("ExportCSV of empty set returned %q, want empty string", got)
	}
}

func TestExportRouteCommands(t *testing.T) {
	ranges := []AddressRange{mustParse(t, "192.168.1.0/24")}

	want := "route ADD 192.168.1.0 MASK 255.255.255.0 0.0.0.0"
	if got := ExportRouteCommands(ranges); got != want {
		t.Fatalf("ExportRouteCommands returned %q, want %q", got, want)
	}
}

func TestExportRouteCommandsUsesNetworkAddress(t *testing.T) {
	// Host bits stay in the canonical form but never leak into the route
	// table commands.
	ranges := []AddressRange{mustParse(t, "192.168.1.5/24")}

	want := "route ADD 192.168.1.0 MASK 255.255.255.0 0.0.0.0"
	if got := ExportRouteCommands(ranges); got != want {
		t.Fatalf("ExportRouteCommands returned %q, want %q", got, want)
	}
}

func TestExportRouteCommandsMultipleLines(t *testing.T) {
	ranges := []AddressRange{
		mustParse(t, "10.0.0.0/8"),
		mustParse(t, "0.0.0.0/0"),
		mustParse(t, "8.8.8.8"),
	}

	got := ExportRouteCommands(ranges)
	lines := strings.Split(got, routeLineSeparator)
	want := []string{
		"route ADD 10.0.0.0 MASK 255.0.0.0 0.0.0.0",
		"route ADD 0.0.0.0 MASK 0.0.0.0 0.0.0.0",
		"route ADD 8.8.8.8 MASK 255.255.255.255 0.0.0.0",
	}

	if len(lines) != len(want) {
		t.Fatalf("ExportRouteCommands returned %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d was %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestExportRouteCommandsEmpty(t *testing.T) {
	if got := ExportRouteCommands(nil); got != "" {
		t.Fatalf("ExportRouteCommands of empty set returned %q, want empty string", got)
	}
}

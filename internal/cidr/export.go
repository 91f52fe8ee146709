package cidr

import (
	"fmt"
	"runtime"
	"strings"
)

// routeLineSeparator matches the platform the generated script runs on. The
// route ADD syntax targets the Windows route table, but the script may be
// generated anywhere.
var routeLineSeparator = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// ExportCSV joins the canonical text forms with commas, in the order given.
// Callers wanting stable output sort the slice first; the engine does not.
func ExportCSV(ranges []AddressRange) string {
	forms := make([]string, 0, len(ranges))
	for _, r := range ranges {
		forms = append(forms, r.String())
	}
	return strings.Join(forms, ",")
}

// ExportRouteCommands renders one route table command per range, using the
// derived network address and mask rather than the stored address.
func ExportRouteCommands(ranges []AddressRange) string {
	lines := make([]string, 0, len(ranges))
	for _, r := range ranges {
		lines = append(lines, fmt.Sprintf("route ADD %s MASK %s 0.0.0.0",
			FormatAddr(r.Network()), FormatAddr(r.Mask())))
	}
	return strings.Join(lines, routeLineSeparator)
}

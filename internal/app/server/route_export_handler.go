package server

import (
	"net/http"

	"netfence/internal/blocklist"
	"netfence/internal/cidr"
)

func exportCSV(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="blocked_ranges.csv"`)
	_, _ = w.Write([]byte(cidr.ExportCSV(blocklist.Snapshot())))
}

func exportRouteCommands(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", `attachment; filename="blocked_routes.cmd"`)
	_, _ = w.Write([]byte(cidr.ExportRouteCommands(blocklist.Snapshot())))
}

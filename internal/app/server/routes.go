package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"netfence/internal/auth"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func OpenRoutes(port int) error {
	router := http.NewServeMux()

	router.HandleFunc("POST /login", loginAdmin)
	router.HandleFunc("GET /version", getVersion)

	router.Handle("GET /ranges", auth.RequireAuth(http.HandlerFunc(getRanges)))
	router.Handle("POST /ranges", auth.RequireAuth(http.HandlerFunc(addRanges)))
	router.Handle("DELETE /ranges", auth.RequireAuth(http.HandlerFunc(deleteRanges)))
	router.Handle("POST /import", auth.RequireAuth(http.HandlerFunc(importText)))
	router.Handle("GET /contains", auth.RequireAuth(http.HandlerFunc(containsIP)))

	router.Handle("GET /export/csv", auth.RequireAuth(http.HandlerFunc(exportCSV)))
	router.Handle("GET /export/route", auth.RequireAuth(http.HandlerFunc(exportRouteCommands)))

	router.Handle("POST /refresh", auth.IsAdmin(http.HandlerFunc(triggerRefresh)))
	router.Handle("GET /global/settings", auth.IsAdmin(http.HandlerFunc(getGlobalSettings)))
	router.Handle("POST /saveSettings", auth.IsAdmin(http.HandlerFunc(saveSettings)))

	log.Debug("Routes opened")

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: enableCORS(router),
	}

	log.Infof("Starting netfence backend on port :%d", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"netfence/internal/api/dto"
	"netfence/internal/app/version"
	"netfence/internal/auth"
	"netfence/internal/blocklist"
	"netfence/internal/config"
)

func loginAdmin(w http.ResponseWriter, r *http.Request) {
	var creds dto.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !auth.CheckAdminPassword(creds.Password) {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT("admin")
	if err != nil {
		log.Error("Could not issue token", "error", err)
		writeError(w, "Could not issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

func getVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func getGlobalSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, config.GetConfig())
}

func saveSettings(w http.ResponseWriter, r *http.Request) {
	var newConfig config.Config
	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		writeError(w, "Invalid settings payload", http.StatusBadRequest)
		return
	}

	config.SetConfig(newConfig)
	w.WriteHeader(http.StatusOK)
}

func triggerRefresh(w http.ResponseWriter, r *http.Request) {
	outcome, err := blocklist.RunRefresh(r.Context(), "api")
	if err != nil {
		log.Error("Manual refresh failed", "error", err)
		writeError(w, "Refresh failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

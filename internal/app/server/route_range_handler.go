package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"netfence/internal/api/dto"
	"netfence/internal/blocklist"
	"netfence/internal/cidr"
)

func getRanges(w http.ResponseWriter, _ *http.Request) {
	addresses := blocklist.Canonical()
	writeJSON(w, http.StatusOK, dto.RangeSetResponse{
		Addresses: addresses,
		Count:     len(addresses),
	})
}

func addRanges(w http.ResponseWriter, r *http.Request) {
	var req dto.AddRangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Tokens) == 0 {
		writeError(w, "No tokens provided", http.StatusBadRequest)
		return
	}

	addresses, err := blocklist.Add(r.Context(), req.Tokens)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cidr.ErrInvalidAddress) ||
			errors.Is(err, cidr.ErrInvalidPrefixLength) ||
			errors.Is(err, cidr.ErrInvalidCIDRFormat) {
			status = http.StatusBadRequest
		}
		writeError(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, dto.RangeSetResponse{
		Addresses: addresses,
		Count:     len(addresses),
	})
}

func deleteRanges(w http.ResponseWriter, r *http.Request) {
	var req dto.RemoveRangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	removed, err := blocklist.Remove(r.Context(), req.Cidrs)
	if err != nil {
		log.Error("Could not remove ranges", "error", err)
		writeError(w, "Could not remove ranges", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.RemoveResponse{
		Removed: removed,
		Count:   len(blocklist.Canonical()),
	})
}

func importText(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, "No text provided", http.StatusBadRequest)
		return
	}

	outcome, err := blocklist.ImportText(r.Context(), req.Text)
	if err != nil {
		log.Error("Import failed", "error", err)
		writeError(w, "Import failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func containsIP(w http.ResponseWriter, r *http.Request) {
	ip := strings.TrimSpace(r.URL.Query().Get("ip"))
	if ip == "" {
		writeError(w, "Missing ip parameter", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContainsResponse{
		IP:      ip,
		Blocked: blocklist.Contains(ip),
	})
}

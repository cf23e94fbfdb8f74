package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/dcastano/authcalc-be/internal/models"
	"github.com/dcastano/authcalc-be/internal/services"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

// AuditHandler exposes the recent authentication audit trail.
type AuditHandler struct {
	service services.AuditServiceProvider
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(service services.AuditServiceProvider) *AuditHandler {
	return &AuditHandler{service: service}
}

// Recent returns the most recent audit events, newest first.
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxEventLimit)
	}

	events, err := h.service.GetRecentEvents(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load audit events")
		respondError(w, http.StatusInternalServerError, "failed to load audit events")
		return
	}
	if events == nil {
		events = []models.AuditEvent{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}

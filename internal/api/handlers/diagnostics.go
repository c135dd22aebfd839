package handlers

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"pcbridge/internal/engine/record"
	"pcbridge/internal/engine/schema"
	"pcbridge/internal/pkg/errors"
	"pcbridge/internal/platform/store"
)

// DiagnosticsHandler serves the manual-trigger probe routes. These are
// admin-facing debug aids, not part of the ingest path.
type DiagnosticsHandler struct {
	store Store
}

func NewDiagnosticsHandler(st Store) *DiagnosticsHandler {
	return &DiagnosticsHandler{store: st}
}

func (h *DiagnosticsHandler) TestRead(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.Context(), store.ListOptions{MaxRecords: 10})
	if err != nil {
		log.Error().Err(err).Msg("test read failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeUpstream, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Count   int            `json:"count"`
		Records []store.Record `json:"records"`
	}{
		Count:   len(records),
		Records: records,
	})
}

func (h *DiagnosticsHandler) TestWrite(w http.ResponseWriter, r *http.Request) {
	rec := record.Record{
		Name:   "Manual test row",
		Notes:  "Written by the test-write probe at " + time.Now().UTC().Format(time.RFC3339),
		Status: "Not started",
	}

	created, err := h.store.Create(r.Context(), []store.Record{{Fields: rec.Fields()}})
	if err != nil {
		log.Error().Err(err).Msg("test write failed")
		// Stack trace in the response body is acceptable on a debug route.
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeUpstream, err.Error(), string(debug.Stack()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Records []store.Record `json:"records"`
	}{Records: created})
}

func (h *DiagnosticsHandler) InspectSchema(w http.ResponseWriter, r *http.Request) {
	snapshot := schema.Probe(r.Context(), h.store)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

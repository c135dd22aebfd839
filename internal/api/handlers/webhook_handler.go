package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"pcbridge/internal/engine/record"
	"pcbridge/internal/engine/schema"
	"pcbridge/internal/pkg/errors"
	"pcbridge/internal/platform/store"
)

// Store is the slice of the store client the handlers need.
type Store interface {
	Create(ctx context.Context, records []store.Record) ([]store.Record, error)
	List(ctx context.Context, opts store.ListOptions) ([]store.Record, error)
}

type WebhookHandler struct {
	store Store
	now   func() time.Time
}

func NewWebhookHandler(st Store) *WebhookHandler {
	return &WebhookHandler{store: st, now: time.Now}
}

// Handle ingests one webhook event: transform, sanitize the status against
// the probed schema, write to the store, echo the created identifier. Each
// event is processed independently; a failure here never affects the next one.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var payload record.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Warn().Err(err).Msg("webhook payload is not valid JSON")
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidPayload, "Invalid request body", nil)
		return
	}

	if payload.Data == nil {
		log.Warn().Str("action", payload.Action).Msg("webhook payload has no data object")
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidPayload, "Payload has no data object", nil)
		return
	}

	rec := record.FromPayload(&payload, h.now)

	snapshot := schema.Probe(r.Context(), h.store)
	rec.Status = snapshot.Sanitize(rec.Status)

	created, err := h.store.Create(r.Context(), []store.Record{{Fields: rec.Fields()}})
	if err != nil {
		log.Error().Err(err).Str("name", rec.Name).Msg("store write failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeUpstream, err.Error(), nil)
		return
	}

	id := ""
	if len(created) > 0 {
		id = created[0].ID
	}

	log.Info().Str("id", id).Str("name", rec.Name).Str("status", rec.Status).Msg("webhook forwarded")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}{
		Message: "Webhook received and row created",
		ID:      id,
	})
}

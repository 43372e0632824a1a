package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mentorloop/backend/internal/domain/entities"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

// SyncService defines the interface for pull-based reconciliation
type SyncService interface {
	SyncBulk(ctx context.Context) (*entities.SyncSummary, error)
	SyncUser(ctx context.Context, email string) (*entities.SyncSummary, error)
}

// SyncHandler exposes the bulk and per-user reconciliation triggers.
type SyncHandler struct {
	service SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(service SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// syncResponse carries the summary at the top level rather than inside the
// shared data envelope; the counters are the documented surface.
type syncResponse struct {
	Success   bool                  `json:"success"`
	Summary   *entities.SyncSummary `json:"summary"`
	Timestamp string                `json:"timestamp"`
}

// SyncBulk handles POST /api/sync/bulk. Per-record failures ride inside the
// summary; only a whole-pass failure surfaces as an error status.
func (h *SyncHandler) SyncBulk(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.SyncBulk(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	h.respond(w, summary)
}

// SyncUser handles POST /api/sync/user
func (h *SyncHandler) SyncUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithAppError(w, apperrors.NewValidationError("invalid request payload"))
		return
	}

	summary, err := h.service.SyncUser(r.Context(), req.Email)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	h.respond(w, summary)
}

func (h *SyncHandler) respond(w http.ResponseWriter, summary *entities.SyncSummary) {
	respondRaw(w, http.StatusOK, syncResponse{
		Success:   true,
		Summary:   summary,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

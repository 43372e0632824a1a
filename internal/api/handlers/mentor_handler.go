package handlers

import (
	"net/http"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/domain/repositories"
)

// MentorHandler lists the mentors bookable through this subsystem.
type MentorHandler struct {
	mentors repositories.MentorRepository
}

// NewMentorHandler creates a new mentor handler
func NewMentorHandler(mentors repositories.MentorRepository) *MentorHandler {
	return &MentorHandler{mentors: mentors}
}

// List handles GET /api/mentors
func (h *MentorHandler) List(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.mentors.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if mappings == nil {
		mappings = []*entities.AppointmentTypeMapping{}
	}
	respondWithJSON(w, http.StatusOK, mappings)
}

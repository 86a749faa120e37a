package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/usecase"
)

type FollowUpHandler struct {
	Directory *usecase.Directory
	Logger    *zap.Logger
}

func NewFollowUpHandler(dir *usecase.Directory, logger *zap.Logger) *FollowUpHandler {
	return &FollowUpHandler{Directory: dir, Logger: nopIfNil(logger)}
}

type AddFollowUpRequest struct {
	OwnerID        string     `json:"ownerId"`
	Content        string     `json:"content"`
	NextFollowUpAt *time.Time `json:"nextFollowUpAt,omitempty"`
}

// Routes is mounted under /leads/{id}/follow-ups.
func (h *FollowUpHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Add)
}

func (h *FollowUpHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Directory.ListFollowUps(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *FollowUpHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddFollowUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "content is required")
		return
	}

	fu, err := h.Directory.AddFollowUp(r.Context(), usecase.AddFollowUpInput{
		LeadID:         chi.URLParam(r, "id"),
		OwnerID:        req.OwnerID,
		Content:        req.Content,
		NextFollowUpAt: req.NextFollowUpAt,
	})
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, fu)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/entity"
	"github.com/leadflow/crm-directory/internal/usecase"
)

type LeadHandler struct {
	Directory *usecase.Directory
	Logger    *zap.Logger
}

func NewLeadHandler(dir *usecase.Directory, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{Directory: dir, Logger: nopIfNil(logger)}
}

// LeadResponse is a lead with its owner's display name resolved.
type LeadResponse struct {
	entity.Lead
	OwnerName string `json:"ownerName"`
}

type AssignLeadsRequest struct {
	LeadIDs    []string `json:"leadIds"`
	EmployeeID string   `json:"employeeId"`
}

type UpdateStatusRequest struct {
	Status   entity.LeadStatus `json:"status"`
	DealName string            `json:"dealName,omitempty"`
}

// Routes mounts the lead endpoints. Follow-ups are nested under a lead and
// mounted by FollowUpHandler. importLimit, when set, wraps the import
// endpoints.
func (h *LeadHandler) Routes(r chi.Router, importLimit func(http.Handler) http.Handler) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/assign", h.Assign)
	r.Post("/auto-assign", h.AutoAssign)
	r.Group(func(r chi.Router) {
		if importLimit != nil {
			r.Use(importLimit)
		}
		r.Post("/import", h.Import)
		r.Post("/import/sample", h.ImportSample)
	})
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/status", h.UpdateStatus)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := usecase.LeadFilter{
		OwnerID: q.Get("owner_id"),
		Status:  entity.LeadStatus(q.Get("status")),
		Query:   q.Get("q"),
	}
	if raw := q.Get("recycled"); raw != "" {
		recycled, err := strconv.ParseBool(raw)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "recycled must be a boolean")
			return
		}
		filter.Recycled = recycled
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "unknown status "+string(filter.Status))
		return
	}

	leads, err := h.Directory.ListLeads(r.Context(), filter)
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withOwnerNames(leads))
}

func (h *LeadHandler) withOwnerNames(leads []entity.Lead) []LeadResponse {
	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		ids = append(ids, l.OwnerID)
	}
	names := h.Directory.ResolveOwnerNames(ids)

	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, LeadResponse{Lead: l, OwnerName: names[l.OwnerID]})
	}
	return out
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.LeadPatch
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if errs := usecase.ValidateCreateLeadInput(input); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	lead, err := h.Directory.CreateLead(r.Context(), input)
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	lead, err := h.Directory.UpdateLeadInfo(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Directory.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) Import(w http.ResponseWriter, r *http.Request) {
	var records []entity.LeadPatch
	if err := decodeJSON(r, &records); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	res, err := h.Directory.ImportLeads(r.Context(), records)
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *LeadHandler) ImportSample(w http.ResponseWriter, r *http.Request) {
	res, err := h.Directory.ImportSampleLeads(r.Context())
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *LeadHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignLeadsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.EmployeeID == "" {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "employeeId is required")
		return
	}

	res, err := h.Directory.AssignLeads(r.Context(), req.LeadIDs, req.EmployeeID)
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *LeadHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	res, err := h.Directory.AutoAssignLeads(r.Context())
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	res, err := h.Directory.UpdateLeadStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.DealName)
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/entity"
	"github.com/leadflow/crm-directory/internal/usecase"
)

type EmployeeHandler struct {
	Directory *usecase.Directory
	Logger    *zap.Logger
}

func NewEmployeeHandler(dir *usecase.Directory, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{Directory: dir, Logger: nopIfNil(logger)}
}

func (h *EmployeeHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/activate", h.Activate)
	r.Post("/{id}/deactivate", h.Deactivate)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Directory.ListEmployees(r.Context())
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateEmployeeInput
	if err := decodeJSON(r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if errs := usecase.ValidateCreateEmployeeInput(input); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	emp, err := h.Directory.CreateEmployee(r.Context(), input)
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.EmployeePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	emp, err := h.Directory.UpdateEmployee(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.Directory.ActivateEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	res, err := h.Directory.DeactivateEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Directory.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/entity"
	"github.com/leadflow/crm-directory/internal/usecase"
)

type CustomerHandler struct {
	Directory *usecase.Directory
	Logger    *zap.Logger
}

func NewCustomerHandler(dir *usecase.Directory, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{Directory: dir, Logger: nopIfNil(logger)}
}

type CustomerResponse struct {
	entity.Customer
	OwnerName string `json:"ownerName"`
}

func (h *CustomerHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
}

// List (GET /customers?owner_id=)
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Directory.ListCustomers(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		writeDirectoryError(w, h.Logger, err)
		return
	}

	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.OwnerID)
	}
	names := h.Directory.ResolveOwnerNames(ids)

	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, CustomerResponse{Customer: c, OwnerName: names[c.OwnerID]})
	}
	writeJSON(w, http.StatusOK, out)
}

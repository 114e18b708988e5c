package workorders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/facilitykit/pkg/tenant"
)

// Router mounts the work-order endpoints. It expects to be mounted behind
// the authentication middleware and tenant.Middleware; RequireTenant is
// applied here as well so every route fails closed even if the mount order
// is wrong.
func Router(svc *Service, violations *tenant.ViolationHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(tenant.RequireTenant(violations))

	h := &handlers{svc: svc, violations: violations}

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)

	return r
}

type handlers struct {
	svc        *Service
	violations *tenant.ViolationHandler
}

// fail writes the response for err. Violations go to the violation handler
// boundary; everything else maps to a conventional status code.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if h.violations.HandleError(w, r, err) {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "work order not found", http.StatusNotFound)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid work order id", http.StatusBadRequest)
		return
	}

	wo, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

type createRequest struct {
	AssetID     uuid.UUID `json:"asset_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusUnprocessableEntity)
		return
	}

	wo := &WorkOrder{
		AssetID:     req.AssetID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.svc.Create(r.Context(), wo); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wo)
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *handlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid work order id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Status.Valid() {
		http.Error(w, "invalid status", http.StatusUnprocessableEntity)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

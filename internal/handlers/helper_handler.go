package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"dukanBack/internal/models"
	"dukanBack/internal/services"
)

type HelperHandler struct {
	Service           *services.HelperService
	CommissionService *services.CommissionService
}

func (h *HelperHandler) ApplyHelper(w http.ResponseWriter, r *http.Request) {
	var app models.HelperApplication
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if app.Name == "" || app.Email == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}

	helper, err := h.Service.ApproveApplication(r.Context(), app)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, helper)
}

func (h *HelperHandler) GetHelper(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid helper id", http.StatusBadRequest)
		return
	}

	helper, err := h.Service.GetHelper(r.Context(), id)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, helper)
}

func (h *HelperHandler) ListHelpers(w http.ResponseWriter, r *http.Request) {
	helpers, err := h.Service.ListHelpers(r.Context())
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, helpers)
}

func (h *HelperHandler) SuspendHelper(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.Service.SuspendHelper)
}

func (h *HelperHandler) ActivateHelper(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.Service.ActivateHelper)
}

func (h *HelperHandler) setStatus(w http.ResponseWriter, r *http.Request, update func(ctx context.Context, id int) error) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid helper id", http.StatusBadRequest)
		return
	}
	if err := update(r.Context(), id); err != nil {
		serveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HelperHandler) UpdateRates(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid helper id", http.StatusBadRequest)
		return
	}

	var req struct {
		DirectRate  float64 `json:"direct_rate"`
		NetworkRate float64 `json:"network_rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateRates(r.Context(), id, req.DirectRate, req.NetworkRate); err != nil {
		if err == models.ErrHelperNotFound {
			serveError(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HelperHandler) AssignRecruiter(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid helper id", http.StatusBadRequest)
		return
	}

	var req struct {
		RecruiterID int `json:"recruiter_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.AssignRecruiter(r.Context(), id, req.RecruiterID); err != nil {
		serveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHelperSummary returns the recomputed dashboard stats for a helper.
func (h *HelperHandler) GetHelperSummary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid helper id", http.StatusBadRequest)
		return
	}

	stats, err := h.Service.SummarizeHelper(r.Context(), id)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *HelperHandler) ListHelperCommissions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid helper id", http.StatusBadRequest)
		return
	}

	commissions, err := h.CommissionService.ListByHelper(r.Context(), id)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commissions)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dukanBack/internal/models"
	"dukanBack/internal/services"
)

type PlanHandler struct {
	Service *services.PlanService
}

func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Service.ListPlans(r.Context())
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid plan id", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.GetPlan(r.Context(), id)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var plan models.SubscriptionPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreatePlan(r.Context(), plan)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid plan id", http.StatusBadRequest)
		return
	}

	var plan models.SubscriptionPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	plan.ID = id

	if err := h.Service.UpdatePlan(r.Context(), plan); err != nil {
		if err == models.ErrPlanNotFound {
			serveError(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dukanBack/internal/models"
	"dukanBack/internal/services"
)

type CommissionHandler struct {
	Service *services.CommissionService
}

// MarkPaid pays out a batch of pending commissions. All-or-nothing: any
// missing or already-paid id rejects the whole batch.
func (h *CommissionHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req models.PayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.MarkPaid(r.Context(), req); err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"paid_count":  len(req.CommissionIDs),
		"payment_ref": req.PaymentRef,
	})
}

// UpdateGlobalConfig saves a network-wide tier default. Validation warnings
// come back with the response; validation errors block the save.
func (h *CommissionHandler) UpdateGlobalConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.CommissionConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	issues, err := h.Service.UpdateGlobalConfig(r.Context(), cfg)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  err.Error(),
			"issues": issues,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"issues": issues})
}

// SetPlanOverride saves a plan-scoped override: the enabled flag plus any
// cycle configs in the body. Validation warnings come back with the response;
// validation errors block the save.
func (h *CommissionHandler) SetPlanOverride(w http.ResponseWriter, r *http.Request) {
	planID, err := strconv.Atoi(r.URL.Query().Get(":plan_id"))
	if err != nil {
		http.Error(w, "invalid plan id", http.StatusBadRequest)
		return
	}

	var req models.PlanOverride
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Tier != models.TierDirect && req.Tier != models.TierNetwork {
		http.Error(w, "tier must be direct or network", http.StatusBadRequest)
		return
	}

	issues, err := h.Service.UpdatePlanOverride(r.Context(), planID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  err.Error(),
			"issues": issues,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"issues": issues})
}

// RecordRenewal is the billing-cycle hook creating the next commission period
// for a converted referral.
func (h *CommissionHandler) RecordRenewal(w http.ResponseWriter, r *http.Request) {
	referralID, err := strconv.Atoi(r.URL.Query().Get(":referral_id"))
	if err != nil {
		http.Error(w, "invalid referral id", http.StatusBadRequest)
		return
	}

	if err := h.Service.RecordRenewal(r.Context(), referralID); err != nil {
		serveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dukanBack/internal/models"
	"dukanBack/internal/services"
)

type ReferralHandler struct {
	Service      *services.ReferralService
	StoreService *services.StoreService
}

// AttributeSignup links a store signup to a helper's referral code.
func (h *ReferralHandler) AttributeSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReferralCode string `json:"referral_code"`
		StoreID      int    `json:"store_id"`
		OwnerName    string `json:"owner_name"`
		OwnerEmail   string `json:"owner_email"`
		OwnerPhone   string `json:"owner_phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if req.ReferralCode == "" {
		http.Error(w, "referral_code is required", http.StatusBadRequest)
		return
	}

	store, err := h.StoreService.GetStore(r.Context(), req.StoreID)
	if err != nil {
		serveError(w, err)
		return
	}

	owner := models.User{Name: req.OwnerName, Email: req.OwnerEmail, Phone: req.OwnerPhone}
	referral, err := h.Service.AttributeSignup(r.Context(), req.ReferralCode, store, owner, time.Now())
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, referral)
}

func (h *ReferralHandler) GetReferral(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "invalid referral id", http.StatusBadRequest)
		return
	}

	referral, err := h.Service.GetReferral(r.Context(), id)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, referral)
}

func (h *ReferralHandler) ListByHelper(w http.ResponseWriter, r *http.Request) {
	helperID, err := strconv.Atoi(r.URL.Query().Get(":helper_id"))
	if err != nil {
		http.Error(w, "invalid helper id", http.StatusBadRequest)
		return
	}

	referrals, err := h.Service.ListByHelper(r.Context(), helperID)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, referrals)
}

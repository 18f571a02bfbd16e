package handlers

import (
	"encoding/json"
	"net/http"

	"dukanBack/internal/services"
)

type NotifyHandler struct {
	Service *services.NotifyService
}

// RegisterDeviceToken stores an FCM device token for payout and publish
// notifications.
func (h *NotifyHandler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerKind string `json:"owner_kind"`
		OwnerID   int    `json:"owner_id"`
		Token     string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Token == "" || (req.OwnerKind != "helper" && req.OwnerKind != "store") {
		http.Error(w, "owner_kind must be helper or store and token is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.RegisterDeviceToken(r.Context(), req.OwnerKind, req.OwnerID, req.Token); err != nil {
		serveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

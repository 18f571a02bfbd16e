package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dukanBack/internal/services"
)

type DesignerHandler struct {
	Service *services.DesignerService
}

func storeIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get(":store_id"))
	return id, err == nil
}

// GetSession returns the restored designer session for a store: published
// design, re-staged pending work or a clean idle state.
func (h *DesignerHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	storeID, ok := storeIDParam(r)
	if !ok {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	sess, err := h.Service.RestoreSession(r.Context(), storeID)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"store_id": sess.StoreID,
		"state":    sess.State,
		"pending":  sess.Pending,
		"current":  sess.Current,
	})
}

func (h *DesignerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	storeID, ok := storeIDParam(r)
	if !ok {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	balance, err := h.Service.Balance(r.Context(), storeID)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GenerateTurn runs one chat turn against the model. The response carries the
// classified reply plus the session state the client should render.
func (h *DesignerHandler) GenerateTurn(w http.ResponseWriter, r *http.Request) {
	storeID, ok := storeIDParam(r)
	if !ok {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	sess, err := h.Service.RestoreSession(r.Context(), storeID)
	if err != nil {
		serveError(w, err)
		return
	}

	sess, reply, err := h.Service.GenerateTurn(r.Context(), sess, req.Prompt)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state": sess.State,
		"reply": reply,
	})
}

func (h *DesignerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	storeID, ok := storeIDParam(r)
	if !ok {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	turns, err := h.Service.History(r.Context(), storeID, limit)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turns)
}

// Publish makes a historical turn's design the store's live theme.
func (h *DesignerHandler) Publish(w http.ResponseWriter, r *http.Request) {
	storeID, ok := storeIDParam(r)
	if !ok {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	var req struct {
		TurnID int `json:"turn_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	sess, summary, err := h.Service.Publish(r.Context(), storeID, req.TurnID)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":   sess.State,
		"summary": summary,
	})
}

// Reset discards the live theme and records the explicit-reset sentinel.
func (h *DesignerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	storeID, ok := storeIDParam(r)
	if !ok {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	sess, err := h.Service.Reset(r.Context(), storeID)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"state": sess.State})
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"

	"dukanBack/internal/services"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func (h *PaymentHandler) CreateSubscriptionOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID      int    `json:"store_id"`
		PlanID       int    `json:"plan_id"`
		BillingCycle string `json:"billing_cycle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	txn, err := h.Service.CreateSubscriptionOrder(r.Context(), req.StoreID, req.PlanID, req.BillingCycle)
	if err != nil {
		http.Error(w, err.Error(), paymentErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (h *PaymentHandler) CreateTokenPackOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID    int     `json:"store_id"`
		TokenCount int     `json:"token_count"`
		Amount     float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	txn, err := h.Service.CreateTokenPackOrder(r.Context(), req.StoreID, req.TokenCount, req.Amount)
	if err != nil {
		http.Error(w, err.Error(), paymentErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

// ConfirmPayment is the checkout callback: signature check, gateway
// verification with bounded retry, then plan activation or token credit.
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		http.Error(w, "order id, payment id and signature are required", http.StatusBadRequest)
		return
	}

	txn, err := h.Service.ConfirmPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		http.Error(w, err.Error(), paymentErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// Webhook handles gateway-initiated payment events, verified against the
// webhook secret over the raw body.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	secret := os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	if !services.VerifyWebhookSignature(body, signature, secret) {
		http.Error(w, "invalid webhook signature", http.StatusUnauthorized)
		return
	}

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid webhook payload", http.StatusBadRequest)
		return
	}

	if event.Event == "payment.captured" {
		entity := event.Payload.Payment.Entity
		// webhook is already authenticated by its signature; the checkout
		// signature does not apply here
		if _, err := h.Service.ConfirmWebhookPayment(r.Context(), entity.OrderID, entity.ID); err != nil {
			http.Error(w, err.Error(), paymentErrorStatus(err))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.Atoi(r.URL.Query().Get(":store_id"))
	if err != nil {
		http.Error(w, "invalid store id", http.StatusBadRequest)
		return
	}

	txns, err := h.Service.ListTransactions(r.Context(), storeID)
	if err != nil {
		serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dukanBack/internal/models"
)

func newTestRazorpay(t *testing.T, baseURL string) *RazorpayService {
	t.Helper()
	svc, err := NewRazorpayService(RazorpayConfig{
		KeyID:        "rzp_test_key",
		KeySecret:    "secret",
		BaseURL:      baseURL,
		RetryBackoff: time.Millisecond,
		Client:       http.DefaultClient,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := newTestRazorpay(t, "")

	good := sign("order_1", "pay_1", "secret")
	if !svc.VerifySignature("order_1", "pay_1", good) {
		t.Errorf("valid signature rejected")
	}
	if svc.VerifySignature("order_1", "pay_1", sign("order_1", "pay_1", "wrong")) {
		t.Errorf("signature from wrong secret accepted")
	}
	if svc.VerifySignature("order_2", "pay_1", good) {
		t.Errorf("signature for different order accepted")
	}
}

func TestVerifyPaymentWithRetry_EventuallyCaptured(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		status := "created"
		if calls >= 2 {
			status = "captured"
		}
		fmt.Fprintf(w, `{"id":"pay_1","order_id":"order_1","amount":99900,"status":%q}`, status)
	}))
	defer srv.Close()

	svc := newTestRazorpay(t, srv.URL)
	payment, err := svc.VerifyPaymentWithRetry(context.Background(), "pay_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != "captured" {
		t.Errorf("status mismatch: %q", payment.Status)
	}
	if calls != 2 {
		t.Errorf("expected 2 fetches, got %d", calls)
	}
}

func TestVerifyPaymentWithRetry_FailedPaymentStopsEarly(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"id":"pay_1","order_id":"order_1","amount":99900,"status":"failed"}`)
	}))
	defer srv.Close()

	svc := newTestRazorpay(t, srv.URL)
	_, err := svc.VerifyPaymentWithRetry(context.Background(), "pay_1")
	if !errors.Is(err, models.ErrPaymentNotVerified) {
		t.Fatalf("expected ErrPaymentNotVerified, got %v", err)
	}
	if calls != 1 {
		t.Errorf("failed payment should not be retried, got %d fetches", calls)
	}
}

func TestVerifyPaymentWithRetry_BoundedAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"description":"server error"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newTestRazorpay(t, srv.URL)
	_, err := svc.VerifyPaymentWithRetry(context.Background(), "pay_1")
	if err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
	var rzpErr *RazorpayError
	if !errors.As(err, &rzpErr) {
		t.Fatalf("expected RazorpayError, got %T: %v", err, err)
	}
	if rzpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status code mismatch: %d", rzpErr.StatusCode)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestCreateOrder_AmountInPaise(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "rzp_test_key" || pass != "secret" {
			t.Errorf("missing or wrong basic auth")
		}
		fmt.Fprint(w, `{"id":"order_1","amount":99900,"currency":"INR","receipt":"sub_1_abc","status":"created"}`)
	}))
	defer srv.Close()

	svc := newTestRazorpay(t, srv.URL)
	order, err := svc.CreateOrder(context.Background(), 999.00, "INR", "sub_1_abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Amount != 99900 {
		t.Errorf("amount mismatch: %d", order.Amount)
	}
	if order.ID != "order_1" {
		t.Errorf("order id mismatch: %q", order.ID)
	}
}

func TestNewRazorpayService_RequiresCredentials(t *testing.T) {
	if _, err := NewRazorpayService(RazorpayConfig{KeyID: "only-key"}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

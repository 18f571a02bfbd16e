package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"dukanBack/internal/models"
)

const defaultRazorpayBaseURL = "https://api.razorpay.com/v1"

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string

	// RetryBackoff overrides the verification backoff step; zero keeps the
	// default.
	RetryBackoff time.Duration

	Client *http.Client
	Logger *slog.Logger
}

type RazorpayService struct {
	keyID     string
	keySecret string
	baseURL   string
	backoff   time.Duration

	httpClient *http.Client
	logger     *slog.Logger
}

func NewRazorpayService(cfg RazorpayConfig) (*RazorpayService, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, fmt.Errorf("razorpay: key_id/key_secret are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultRazorpayBaseURL
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backoff := cfg.RetryBackoff
	if backoff == 0 {
		backoff = 2 * time.Second
	}

	return &RazorpayService{
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		backoff:    backoff,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type RazorpayPayment struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Status  string `json:"status"` // created | authorized | captured | failed
}

// CreateOrder opens a gateway order for the given amount in rupees. The
// gateway counts in paise.
func (s *RazorpayService) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (RazorpayOrder, error) {
	payload := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return RazorpayOrder{}, fmt.Errorf("marshal order: %w", err)
	}

	var order RazorpayOrder
	if err := s.do(ctx, http.MethodPost, "/orders", bytes.NewReader(body), &order); err != nil {
		return RazorpayOrder{}, err
	}

	s.logger.Info("razorpay order created", "order_id", order.ID, "amount", order.Amount, "currency", order.Currency)
	return order, nil
}

// FetchPayment reads the payment's current state from the gateway.
func (s *RazorpayService) FetchPayment(ctx context.Context, paymentID string) (RazorpayPayment, error) {
	var payment RazorpayPayment
	if err := s.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &payment); err != nil {
		return RazorpayPayment{}, err
	}
	return payment, nil
}

// VerifyPaymentWithRetry polls the gateway until the payment reports captured
// or authorized. Bounded at three attempts with linear backoff; transient
// gateway errors count as attempts. Anything else is ErrPaymentNotVerified.
func (s *RazorpayService) VerifyPaymentWithRetry(ctx context.Context, paymentID string) (RazorpayPayment, error) {
	const attempts = 3

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		payment, err := s.FetchPayment(ctx, paymentID)
		if err == nil {
			switch payment.Status {
			case "captured", "authorized":
				return payment, nil
			case "failed":
				return payment, models.ErrPaymentNotVerified
			}
			lastErr = models.ErrPaymentNotVerified
		} else {
			lastErr = err
			s.logger.Error("razorpay verify attempt failed", "payment_id", paymentID, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return RazorpayPayment{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * s.backoff):
			}
		}
	}
	if lastErr == nil {
		lastErr = models.ErrPaymentNotVerified
	}
	return RazorpayPayment{}, lastErr
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(order_id + "|" + payment_id, key_secret), hex-encoded.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header over the raw
// webhook body using the webhook secret.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *RazorpayService) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(s.keyID, s.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("razorpay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &RazorpayError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode razorpay response: %w", err)
	}
	return nil
}

type RazorpayError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *RazorpayError) Error() string {
	return fmt.Sprintf("razorpay: %s: %s", e.Status, e.Body)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"dukanBack/internal/models"
	"dukanBack/internal/services"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{models.ErrHelperNotFound, http.StatusNotFound},
		{models.ErrRecruiterCycle, http.StatusConflict},
		{models.ErrCommissionAlreadyPaid, http.StatusConflict},
		{models.ErrDuplicatePhone, http.StatusConflict},
		{models.ErrGenerationInFlight, http.StatusConflict},
		{models.ErrEmptyPaymentReference, http.StatusBadRequest},
		{models.ErrNoTokensRemaining, http.StatusPaymentRequired},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrPaymentNotVerified, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrap: %w", models.ErrStoreNotFound), http.StatusNotFound},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := statusForError(tc.err); got != tc.status {
			t.Errorf("statusForError(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}

func TestPaymentErrorStatus(t *testing.T) {
	t.Run("propagates gateway 4xx", func(t *testing.T) {
		err := &services.RazorpayError{StatusCode: http.StatusNotFound}
		if got := paymentErrorStatus(err); got != http.StatusNotFound {
			t.Fatalf("expected %d, got %d", http.StatusNotFound, got)
		}
	})

	t.Run("gateway 5xx becomes bad gateway", func(t *testing.T) {
		err := &services.RazorpayError{StatusCode: http.StatusInternalServerError}
		if got := paymentErrorStatus(err); got != http.StatusBadGateway {
			t.Fatalf("expected %d, got %d", http.StatusBadGateway, got)
		}
	})

	t.Run("falls back to domain mapping", func(t *testing.T) {
		if got := paymentErrorStatus(models.ErrPaymentNotVerified); got != http.StatusUnprocessableEntity {
			t.Fatalf("expected %d, got %d", http.StatusUnprocessableEntity, got)
		}
	})
}

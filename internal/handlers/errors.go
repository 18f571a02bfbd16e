package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dukanBack/internal/designer"
	"dukanBack/internal/models"
	"dukanBack/internal/services"
)

// statusForError maps domain errors to HTTP statuses. Unknown errors are
// internal; gateway errors get their own mapping in paymentErrorStatus.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrHelperNotFound),
		errors.Is(err, models.ErrStoreNotFound),
		errors.Is(err, models.ErrReferralNotFound),
		errors.Is(err, models.ErrPlanNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrCommissionNotFound),
		errors.Is(err, models.ErrDesignNotFound),
		errors.Is(err, models.ErrTransactionNotFound),
		errors.Is(err, models.ErrNoRecord):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRecruiterCycle),
		errors.Is(err, models.ErrCommissionAlreadyPaid),
		errors.Is(err, models.ErrHelperSuspended),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrDuplicatePhone),
		errors.Is(err, models.ErrDuplicateReferralCode),
		errors.Is(err, models.ErrGenerationInFlight):
		return http.StatusConflict
	case errors.Is(err, models.ErrEmptyPaymentReference),
		errors.Is(err, models.ErrEmptyPrompt),
		errors.Is(err, models.ErrNoPendingDesign),
		errors.Is(err, designer.ErrEmptyPrompt),
		errors.Is(err, designer.ErrNothingToPublish),
		errors.Is(err, designer.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNoTokensRemaining),
		errors.Is(err, models.ErrTokensExpired),
		errors.Is(err, designer.ErrNoTokens):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrPaymentNotVerified):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// paymentErrorStatus propagates gateway 4xx as-is; everything else from the
// gateway is a bad gateway from the caller's perspective.
func paymentErrorStatus(err error) int {
	var rzpErr *services.RazorpayError
	if errors.As(err, &rzpErr) {
		if rzpErr.StatusCode >= 400 && rzpErr.StatusCode < 500 {
			return rzpErr.StatusCode
		}
		return http.StatusBadGateway
	}
	return statusForError(err)
}

func serveError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusForError(err))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

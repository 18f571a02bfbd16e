package models

import (
	"errors"
)

var ErrHelperNotFound = errors.New("helper not found")
var ErrStoreNotFound = errors.New("store not found")
var ErrReferralNotFound = errors.New("referral not found")
var ErrPlanNotFound = errors.New("plan not found")
var (
	ErrNoRecord               = errors.New("models: no matching record found")
	ErrInvalidCredentials     = errors.New("models: invalid credentials")
	ErrDuplicateEmail         = errors.New("models: duplicate email")
	ErrDuplicatePhone         = errors.New("models: duplicate phone number")
	ErrDuplicateReferralCode  = errors.New("models: duplicate referral code")
	ErrUserNotFound           = errors.New("models: user not found")
	ErrInvalidPassword        = errors.New("models: invalid password")
	ErrHelperSuspended        = errors.New("helper is suspended")
	ErrRecruiterCycle         = errors.New("recruiter assignment would create a cycle")
	ErrCommissionNotFound     = errors.New("commission not found")
	ErrCommissionAlreadyPaid  = errors.New("commission already paid")
	ErrEmptyPaymentReference  = errors.New("payment reference is required")
	ErrNoTokensRemaining      = errors.New("no design tokens remaining")
	ErrTokensExpired          = errors.New("design tokens expired")
	ErrEmptyPrompt            = errors.New("prompt text is empty")
	ErrNoPendingDesign        = errors.New("no pending design to publish")
	ErrDesignNotFound         = errors.New("design not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrPaymentNotVerified     = errors.New("payment could not be verified")
	ErrGenerationInFlight     = errors.New("a design generation is already in progress")
)

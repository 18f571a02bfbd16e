package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

// PaymentService ties the gateway to the domain: a paid subscription order
// activates the plan and converts the referral; a paid token pack credits the
// design token balance.
type PaymentService struct {
	Razorpay        *RazorpayService
	TransactionRepo *repositories.TransactionRepository
	PlanRepo        *repositories.PlanRepository
	StoreRepo       *repositories.StoreRepository
	ReferralRepo    *repositories.ReferralRepository
	TokenRepo       *repositories.TokenRepository
	Commissions     *CommissionService
	Logger          *slog.Logger
}

const paymentCurrency = "INR"

// Token packs expire a year after purchase.
const tokenPackValidity = 365 * 24 * time.Hour

func (s *PaymentService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// CreateSubscriptionOrder opens a gateway order for a plan purchase and
// records the pending transaction.
func (s *PaymentService) CreateSubscriptionOrder(ctx context.Context, storeID, planID int, billingCycle string) (models.Transaction, error) {
	if billingCycle != models.BillingCycleMonthly && billingCycle != models.BillingCycleYearly {
		return models.Transaction{}, fmt.Errorf("unknown billing cycle %q", billingCycle)
	}
	plan, err := s.PlanRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return models.Transaction{}, err
	}
	if _, err := s.StoreRepo.GetStoreByID(ctx, storeID); err != nil {
		return models.Transaction{}, err
	}

	amount := plan.MonthlyPrice
	if billingCycle == models.BillingCycleYearly {
		amount = plan.YearlyPrice
	}

	order, err := s.Razorpay.CreateOrder(ctx, amount, paymentCurrency, receipt("sub", storeID))
	if err != nil {
		return models.Transaction{}, err
	}

	return s.TransactionRepo.CreateTransaction(ctx, models.Transaction{
		StoreID:      storeID,
		Kind:         models.TransactionKindSubscription,
		Amount:       amount,
		Currency:     paymentCurrency,
		PlanID:       &plan.ID,
		BillingCycle: billingCycle,
		OrderID:      order.ID,
		Status:       models.TransactionStatusCreated,
	})
}

// CreateTokenPackOrder opens a gateway order for a design token pack.
func (s *PaymentService) CreateTokenPackOrder(ctx context.Context, storeID, tokenCount int, amount float64) (models.Transaction, error) {
	if tokenCount <= 0 || amount <= 0 {
		return models.Transaction{}, fmt.Errorf("token pack needs a positive count and amount")
	}
	if _, err := s.StoreRepo.GetStoreByID(ctx, storeID); err != nil {
		return models.Transaction{}, err
	}

	order, err := s.Razorpay.CreateOrder(ctx, amount, paymentCurrency, receipt("tok", storeID))
	if err != nil {
		return models.Transaction{}, err
	}

	return s.TransactionRepo.CreateTransaction(ctx, models.Transaction{
		StoreID:    storeID,
		Kind:       models.TransactionKindTokenPack,
		Amount:     amount,
		Currency:   paymentCurrency,
		TokenCount: tokenCount,
		OrderID:    order.ID,
		Status:     models.TransactionStatusCreated,
	})
}

// ConfirmPayment is the checkout callback path: verify the signature, confirm
// the payment with the gateway (bounded retry), then apply the purchase. The
// transaction row moves to paid only after the gateway confirms; commission
// and token credit failures are logged, not unwound, since the money already
// moved.
func (s *PaymentService) ConfirmPayment(ctx context.Context, orderID, paymentID, signature string) (models.Transaction, error) {
	txn, err := s.TransactionRepo.GetTransactionByOrderID(ctx, orderID)
	if err != nil {
		return models.Transaction{}, err
	}
	if txn.Status == models.TransactionStatusPaid {
		return txn, nil
	}

	if !s.Razorpay.VerifySignature(orderID, paymentID, signature) {
		return models.Transaction{}, models.ErrPaymentNotVerified
	}
	return s.settle(ctx, txn, paymentID)
}

// ConfirmWebhookPayment applies a gateway-initiated capture event. The
// webhook body was already authenticated by its own signature, so only the
// gateway-side verification runs here.
func (s *PaymentService) ConfirmWebhookPayment(ctx context.Context, orderID, paymentID string) (models.Transaction, error) {
	txn, err := s.TransactionRepo.GetTransactionByOrderID(ctx, orderID)
	if err != nil {
		return models.Transaction{}, err
	}
	if txn.Status == models.TransactionStatusPaid {
		return txn, nil
	}
	return s.settle(ctx, txn, paymentID)
}

// settle runs gateway-side verification and applies the purchase.
func (s *PaymentService) settle(ctx context.Context, txn models.Transaction, paymentID string) (models.Transaction, error) {
	if _, err := s.Razorpay.VerifyPaymentWithRetry(ctx, paymentID); err != nil {
		_ = s.TransactionRepo.MarkFailed(ctx, txn.ID)
		return models.Transaction{}, err
	}
	if err := s.TransactionRepo.MarkPaid(ctx, txn.ID, paymentID); err != nil {
		return models.Transaction{}, err
	}

	switch txn.Kind {
	case models.TransactionKindSubscription:
		s.applySubscription(ctx, txn)
	case models.TransactionKindTokenPack:
		expires := time.Now().Add(tokenPackValidity)
		if err := s.TokenRepo.AddTokens(ctx, txn.StoreID, txn.TokenCount, &expires); err != nil {
			s.logger().Error("credit token pack", "store_id", txn.StoreID, "transaction_id", txn.ID, "error", err)
		}
	}
	return s.TransactionRepo.GetTransactionByID(ctx, txn.ID)
}

func (s *PaymentService) applySubscription(ctx context.Context, txn models.Transaction) {
	if txn.PlanID == nil {
		s.logger().Error("subscription transaction without plan", "transaction_id", txn.ID)
		return
	}
	plan, err := s.PlanRepo.GetPlanByID(ctx, *txn.PlanID)
	if err != nil {
		s.logger().Error("load purchased plan", "plan_id", *txn.PlanID, "error", err)
		return
	}
	if err := s.StoreRepo.SetPlan(ctx, txn.StoreID, plan.ID); err != nil {
		s.logger().Error("activate plan on store", "store_id", txn.StoreID, "error", err)
		return
	}

	referral, err := s.ReferralRepo.GetReferralByStoreID(ctx, txn.StoreID)
	if err == models.ErrReferralNotFound {
		return // organic signup, nobody earns
	}
	if err != nil {
		s.logger().Error("load referral for conversion", "store_id", txn.StoreID, "error", err)
		return
	}
	if referral.SubscriptionPurchased {
		if err := s.Commissions.RecordRenewal(ctx, referral.ID); err != nil {
			s.logger().Error("record renewal commission", "referral_id", referral.ID, "error", err)
		}
		return
	}
	if err := s.Commissions.RecordConversion(ctx, referral.ID, plan, txn.BillingCycle, time.Now()); err != nil {
		s.logger().Error("record conversion commission", "referral_id", referral.ID, "error", err)
	}
}

func (s *PaymentService) ListTransactions(ctx context.Context, storeID int) ([]models.Transaction, error) {
	return s.TransactionRepo.ListByStore(ctx, storeID)
}

func receipt(prefix string, storeID int) string {
	return fmt.Sprintf("%s_%d_%s", prefix, storeID, uuid.NewString()[:8])
}

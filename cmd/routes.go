package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"dukanBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	ownerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleStoreOwner))
	helperMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleHelper))
	adminMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	// Auth
	mux.Post("/auth/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/auth/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/auth/refresh", standardMiddleware.ThenFunc(app.userHandler.Refresh))
	mux.Post("/auth/logout", standardMiddleware.ThenFunc(app.userHandler.Logout))

	// Helpers
	mux.Post("/helpers", adminMiddleware.ThenFunc(app.helperHandler.ApplyHelper))
	mux.Get("/helpers", adminMiddleware.ThenFunc(app.helperHandler.ListHelpers))
	mux.Get("/helpers/:id", helperMiddleware.ThenFunc(app.helperHandler.GetHelper))
	mux.Post("/helpers/:id/suspend", adminMiddleware.ThenFunc(app.helperHandler.SuspendHelper))
	mux.Post("/helpers/:id/activate", adminMiddleware.ThenFunc(app.helperHandler.ActivateHelper))
	mux.Put("/helpers/:id/rates", adminMiddleware.ThenFunc(app.helperHandler.UpdateRates))
	mux.Put("/helpers/:id/recruiter", adminMiddleware.ThenFunc(app.helperHandler.AssignRecruiter))
	mux.Get("/helpers/:id/summary", helperMiddleware.ThenFunc(app.helperHandler.GetHelperSummary))
	mux.Get("/helpers/:id/commissions", helperMiddleware.ThenFunc(app.helperHandler.ListHelperCommissions))

	// Referrals
	mux.Post("/referrals", standardMiddleware.ThenFunc(app.referralHandler.AttributeSignup))
	mux.Get("/referrals/:id", helperMiddleware.ThenFunc(app.referralHandler.GetReferral))
	mux.Get("/referrals/helper/:helper_id", helperMiddleware.ThenFunc(app.referralHandler.ListByHelper))

	// Commissions
	mux.Post("/commissions/payout", adminMiddleware.ThenFunc(app.commissionHandler.MarkPaid))
	mux.Put("/commissions/config", adminMiddleware.ThenFunc(app.commissionHandler.UpdateGlobalConfig))
	mux.Put("/commissions/plans/:plan_id/override", adminMiddleware.ThenFunc(app.commissionHandler.SetPlanOverride))
	mux.Post("/commissions/renewals/:referral_id", adminMiddleware.ThenFunc(app.commissionHandler.RecordRenewal))

	// Plans
	mux.Get("/plans", standardMiddleware.ThenFunc(app.planHandler.ListPlans))
	mux.Get("/plans/:id", standardMiddleware.ThenFunc(app.planHandler.GetPlan))
	mux.Post("/plans", adminMiddleware.ThenFunc(app.planHandler.CreatePlan))
	mux.Put("/plans/:id", adminMiddleware.ThenFunc(app.planHandler.UpdatePlan))

	// Stores
	mux.Post("/stores", ownerMiddleware.ThenFunc(app.storeHandler.CreateStore))
	mux.Get("/stores/my", ownerMiddleware.ThenFunc(app.storeHandler.GetMyStore))
	mux.Get("/stores/:id", ownerMiddleware.ThenFunc(app.storeHandler.GetStore))
	mux.Put("/stores/:id", ownerMiddleware.ThenFunc(app.storeHandler.UpdateStore))
	mux.Post("/stores/:id/logo", ownerMiddleware.ThenFunc(app.storeHandler.UploadLogo))

	// Public storefront
	mux.Get("/shop/:slug", standardMiddleware.ThenFunc(app.storeHandler.PublicStore))
	mux.Get("/shop/:slug/theme.css", standardMiddleware.ThenFunc(app.storeHandler.PublicTheme))

	// AI designer
	mux.Get("/designer/:store_id/session", ownerMiddleware.ThenFunc(app.designerHandler.GetSession))
	mux.Get("/designer/:store_id/balance", ownerMiddleware.ThenFunc(app.designerHandler.GetBalance))
	mux.Post("/designer/:store_id/generate", ownerMiddleware.ThenFunc(app.designerHandler.GenerateTurn))
	mux.Get("/designer/:store_id/history", ownerMiddleware.ThenFunc(app.designerHandler.GetHistory))
	mux.Post("/designer/:store_id/publish", ownerMiddleware.ThenFunc(app.designerHandler.Publish))
	mux.Post("/designer/:store_id/reset", ownerMiddleware.ThenFunc(app.designerHandler.Reset))
	mux.Get("/designer/:store_id/ws", http.HandlerFunc(app.servePreviewWS))

	// Payments
	mux.Post("/payments/subscription", ownerMiddleware.ThenFunc(app.paymentHandler.CreateSubscriptionOrder))
	mux.Post("/payments/tokens", ownerMiddleware.ThenFunc(app.paymentHandler.CreateTokenPackOrder))
	mux.Post("/payments/confirm", ownerMiddleware.ThenFunc(app.paymentHandler.ConfirmPayment))
	mux.Post("/payments/webhook", standardMiddleware.ThenFunc(app.paymentHandler.Webhook))
	mux.Get("/payments/store/:store_id", ownerMiddleware.ThenFunc(app.paymentHandler.ListTransactions))

	// Notifications
	mux.Post("/notifications/device_token", standardMiddleware.ThenFunc(app.notifyHandler.RegisterDeviceToken))

	return mux
}

package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"dukanBack/internal/config"
	"dukanBack/internal/handlers"
	"dukanBack/internal/repositories"
	"dukanBack/internal/services"
	"dukanBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB
	jwtKey   string

	userRepo *repositories.UserRepository

	referralService *services.ReferralService
	designerService *services.DesignerService

	previewHub *PreviewHub

	userHandler       *handlers.UserHandler
	helperHandler     *handlers.HelperHandler
	referralHandler   *handlers.ReferralHandler
	commissionHandler *handlers.CommissionHandler
	planHandler       *handlers.PlanHandler
	storeHandler      *handlers.StoreHandler
	designerHandler   *handlers.DesignerHandler
	paymentHandler    *handlers.PaymentHandler
	notifyHandler     *handlers.NotifyHandler
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	slogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Repositories
	userRepo := &repositories.UserRepository{DB: db}
	helperRepo := &repositories.HelperRepository{DB: db}
	referralRepo := &repositories.ReferralRepository{DB: db}
	commissionRepo := &repositories.CommissionRepository{DB: db}
	configRepo := &repositories.CommissionConfigRepository{DB: db}
	planRepo := &repositories.PlanRepository{DB: db}
	storeRepo := &repositories.StoreRepository{DB: db}
	designRepo := &repositories.DesignRepository{DB: db}
	tokenRepo := &repositories.TokenRepository{DB: db}
	transactionRepo := &repositories.TransactionRepository{DB: db}
	themeCache := repositories.NewThemeCache(rdb)

	// Services
	tokenManager, err := utils.NewManager(cfg.JWT.SigningKey)
	if err != nil {
		return nil, err
	}

	notifyService := &services.NotifyService{Client: fcmClient, DB: db}

	userService := &services.UserService{UserRepo: userRepo, TokenManager: tokenManager}
	helperService := &services.HelperService{
		HelperRepo:     helperRepo,
		ReferralRepo:   referralRepo,
		CommissionRepo: commissionRepo,
	}
	referralService := &services.ReferralService{
		HelperRepo:   helperRepo,
		ReferralRepo: referralRepo,
		PlanRepo:     planRepo,
	}
	commissionService := &services.CommissionService{
		CommissionRepo: commissionRepo,
		ConfigRepo:     configRepo,
		HelperRepo:     helperRepo,
		ReferralRepo:   referralRepo,
		PlanRepo:       planRepo,
		Notifier:       notifyService,
	}
	planService := &services.PlanService{PlanRepo: planRepo}
	storeService := &services.StoreService{
		StoreRepo:  storeRepo,
		PlanRepo:   planRepo,
		ThemeCache: themeCache,
	}
	designerService := &services.DesignerService{
		TokenRepo:  tokenRepo,
		DesignRepo: designRepo,
		StoreRepo:  storeRepo,
		ThemeCache: themeCache,
		AI:         services.NewOpenAIClient(http.DefaultClient, cfg.OpenAI.APIKey),
		Model:      cfg.OpenAI.Model,
		Notifier:   notifyService,
		Logger:     slogger,
	}

	razorpayService, err := services.NewRazorpayService(services.RazorpayConfig{
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
		BaseURL:   cfg.Razorpay.BaseURL,
		Logger:    slogger,
	})
	if err != nil {
		return nil, err
	}
	paymentService := &services.PaymentService{
		Razorpay:        razorpayService,
		TransactionRepo: transactionRepo,
		PlanRepo:        planRepo,
		StoreRepo:       storeRepo,
		ReferralRepo:    referralRepo,
		TokenRepo:       tokenRepo,
		Commissions:     commissionService,
		Logger:          slogger,
	}

	return &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		db:       db,
		jwtKey:   cfg.JWT.SigningKey,

		userRepo: userRepo,

		referralService: referralService,
		designerService: designerService,

		userHandler:       &handlers.UserHandler{Service: userService},
		helperHandler:     &handlers.HelperHandler{Service: helperService, CommissionService: commissionService},
		referralHandler:   &handlers.ReferralHandler{Service: referralService, StoreService: storeService},
		commissionHandler: &handlers.CommissionHandler{Service: commissionService},
		planHandler:       &handlers.PlanHandler{Service: planService},
		storeHandler:      &handlers.StoreHandler{Service: storeService},
		designerHandler:   &handlers.DesignerHandler{Service: designerService},
		paymentHandler:    &handlers.PaymentHandler{Service: paymentService},
		notifyHandler:     &handlers.NotifyHandler{Service: notifyService},
	}, nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Demilade/Kudi/internal/bank"
	"github.com/Demilade/Kudi/internal/config"
	"github.com/Demilade/Kudi/internal/database"
	"github.com/Demilade/Kudi/internal/logger"
	"github.com/Demilade/Kudi/internal/psp"
	"github.com/Demilade/Kudi/internal/redis"
	"github.com/Demilade/Kudi/internal/router"
	"github.com/Demilade/Kudi/internal/server"
	"github.com/Demilade/Kudi/internal/transaction"
	"github.com/Demilade/Kudi/internal/user"
	"github.com/Demilade/Kudi/internal/virtualaccount"
	"github.com/Demilade/Kudi/internal/wallet"
	"github.com/Demilade/Kudi/internal/webhook"
	"github.com/Demilade/Kudi/pkg/types"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.New(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	db, err := database.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	redisClient, err := redis.New(&log, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize redis client")
	}
	defer redisClient.Close()

	srv, err := server.NewServer(cfg, &log, loggerService, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	paystackClient := psp.NewPaystackClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL, cfg.Primary.AppURL+"/api/v1/transactions/verify")
	payrantClient := psp.NewPayrantClient(cfg.Payrant.APIKey, cfg.Payrant.BaseURL)

	providers := map[types.Provider]psp.VirtualAccountProvider{
		types.ProviderPaystack: paystackClient,
	}
	if cfg.Payrant.Enabled {
		providers[types.ProviderPayrant] = payrantClient
	}

	userRepo := user.NewUserRepository(db.Pool)
	walletRepo := wallet.NewWalletRepository(db.Pool)
	transactionRepo := transaction.NewTransactionRepository(db.Pool)
	virtualAccountRepo := virtualaccount.NewVirtualAccountRepository(db.Pool)

	userService := user.NewUserService(userRepo)
	walletService := wallet.NewWalletService(walletRepo)
	transactionService := transaction.NewTransactionService(transactionRepo, redisClient, paystackClient)
	virtualAccountService := virtualaccount.NewService(virtualAccountRepo, providers)

	// Paystack signs webhooks with the secret key unless a dedicated
	// webhook secret is configured
	webhookSecret := cfg.Paystack.WebhookSecret
	if webhookSecret == "" {
		webhookSecret = cfg.Paystack.SecretKey
	}
	verifier := webhook.NewVerifier(webhookSecret)

	handlers := &router.Handlers{
		User:           user.NewUserHandler(userService),
		Wallet:         wallet.NewWalletHandler(walletService),
		Transaction:    transaction.NewTransactionHandler(transactionService),
		VirtualAccount: virtualaccount.NewVirtualAccountHandler(virtualAccountService),
		Webhook:        webhook.NewWebhookHandler(verifier, db.Pool),
		Bank:           bank.NewBankHandler(paystackClient),
	}

	r := router.NewRouter(srv, handlers, redisClient)

	srv.SetupHTTPServer(r)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}

package router

import (
	"time"

	"github.com/Demilade/Kudi/internal/bank"
	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/redis"
	"github.com/Demilade/Kudi/internal/server"
	"github.com/Demilade/Kudi/internal/transaction"
	"github.com/Demilade/Kudi/internal/user"
	"github.com/Demilade/Kudi/internal/virtualaccount"
	"github.com/Demilade/Kudi/internal/wallet"
	"github.com/Demilade/Kudi/internal/webhook"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	User           *user.UserHandler
	Wallet         *wallet.WalletHandler
	Transaction    *transaction.TransactionHandler
	VirtualAccount *virtualaccount.VirtualAccountHandler
	Webhook        *webhook.WebhookHandler
	Bank           *bank.BankHandler
}

func NewRouter(s *server.Server, h *Handlers, redisClient *redis.Client) *chi.Mux {
	r := chi.NewRouter()

	mw := middleware.NewMiddlewares(s)

	// Apply middleware in order
	r.Use(middleware.RequestID)
	r.Use(mw.Tracing.NewRelicMiddleware())
	r.Use(mw.Tracing.EnhanceTracing)
	r.Use(mw.ContextEnhancer.EnhanceContext)
	r.Use(mw.Global.RequestLogger)

	paymentLimiter := middleware.NewRateLimiter(redisClient, 30, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.User.CreateUser)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Post("/create", h.Wallet.CreateWallet)
			r.Get("/me", h.Wallet.GetWallet)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(paymentLimiter.Limit)
			r.Post("/intent", h.Transaction.PaymentIntent)
			r.Get("/verify/{reference}", h.Transaction.VerifyCharge)
		})

		r.Route("/payment", func(r chi.Router) {
			// The webhook route carries its own auth (signature check)
			r.Post("/webhook", h.Webhook.HandleWebhook)

			r.Group(func(r chi.Router) {
				r.Use(paymentLimiter.Limit)
				r.Post("/{provider}/virtual-account", h.VirtualAccount.CreateVirtualAccount)
				r.Get("/{provider}/virtual-account", h.VirtualAccount.GetVirtualAccount)
				r.Delete("/{provider}/virtual-account", h.VirtualAccount.DeactivateVirtualAccount)
			})
		})

		r.Route("/banks", func(r chi.Router) {
			r.Get("/", h.Bank.ListBanks)
			r.Post("/resolve", h.Bank.ResolveAccount)
		})
	})

	return r
}

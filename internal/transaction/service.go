package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/redis"
	"github.com/Demilade/Kudi/pkg/types"
)

// ChargeGateway is the slice of the Paystack client this service uses.
type ChargeGateway interface {
	InitializeCharge(ctx context.Context, req *types.InitializeChargeRequest) (*types.InitializeChargeResponse, error)
	VerifyCharge(ctx context.Context, reference string) (*types.VerifyChargeResponse, error)
}

type TransactionService struct {
	repo    TransactionRepository
	redis   *redis.Client
	gateway ChargeGateway
}

func NewTransactionService(repo TransactionRepository, redisClient *redis.Client, gateway ChargeGateway) *TransactionService {
	return &TransactionService{
		repo:    repo,
		redis:   redisClient,
		gateway: gateway,
	}
}

var supportedCurrencies = map[string]bool{
	"NGN": true,
	"GHS": true,
	"USD": true,
}

// PaymentIntent records a pending transaction and opens a checkout session
// with the gateway. Duplicate requests carrying the same idempotency key get
// the cached response instead of a second charge.
func (ts *TransactionService) PaymentIntent(ctx context.Context, request *types.InitializeChargeRequest, userID, idempotencyKey string) (*types.InitializeChargeResponse, error) {
	logger := middleware.GetLogger(ctx)

	cached, err := ts.redis.CheckAndSetIdempotency(ctx, idempotencyKey, 24*time.Hour)
	if cached != nil {
		logger.Info().Msg("Returning cached payment intent response for idempotency key")
		var res types.InitializeChargeResponse
		if err := json.Unmarshal(cached, &res); err != nil {
			return nil, fmt.Errorf("failed to decode cached response: %w", err)
		}
		return &res, nil
	}
	if errors.Is(err, redis.ErrKeyExists) {
		logger.Warn().Msg("Request still in progress with same idempotency key")
		return nil, fmt.Errorf("request in progress: please retry later")
	}
	if err != nil {
		return nil, err
	}

	if request.Currency == "" {
		request.Currency = "NGN"
	}
	if !supportedCurrencies[request.Currency] {
		ts.redis.MarkIdempotencyFailed(ctx, idempotencyKey)
		return nil, fmt.Errorf("unsupported currency %q", request.Currency)
	}
	if request.Amount <= 0 {
		ts.redis.MarkIdempotencyFailed(ctx, idempotencyKey)
		return nil, fmt.Errorf("amount must be more than zero")
	}

	transactionID, err := ts.repo.CreatePaymentIntent(ctx, request, userID, idempotencyKey)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to persist payment intent")
		ts.redis.MarkIdempotencyFailed(ctx, idempotencyKey)
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	request.Metadata = types.WebhookMetadata{
		UserID:        userID,
		TransactionID: transactionID,
	}

	gatewayRes, err := ts.gateway.InitializeCharge(ctx, request)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize charge with gateway")
		ts.redis.MarkIdempotencyFailed(ctx, idempotencyKey)
		if markErr := ts.repo.MarkFailed(ctx, transactionID, err.Error()); markErr != nil {
			logger.Error().Err(markErr).Msg("Failed to mark transaction as failed")
		}
		return nil, err
	}

	// Cache the successful response for duplicate requests
	if responseBytes, err := json.Marshal(gatewayRes); err == nil {
		ts.redis.MarkIdempotencyComplete(ctx, idempotencyKey, responseBytes, 24*time.Hour)
	}

	return gatewayRes, nil
}

// VerifyCharge proxies a reference lookup to the gateway.
func (ts *TransactionService) VerifyCharge(ctx context.Context, reference string) (*types.VerifyChargeResponse, error) {
	return ts.gateway.VerifyCharge(ctx, reference)
}

package transaction

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/psp"
	"github.com/Demilade/Kudi/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type TransactionHandler struct {
	transactionService *TransactionService
}

func NewTransactionHandler(transactionService *TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

var validate = validator.New()

func (th *TransactionHandler) PaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)
	logger.Info().Msg("Received request to create payment intent")

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey == "" {
		http.Error(w, "Idempotency-Key header is required", http.StatusBadRequest)
		return
	}

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		http.Error(w, "Missing or invalid user identity", http.StatusUnauthorized)
		return
	}

	var req types.InitializeChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error().Err(err).Msg("Failed to decode payment intent request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(&req); err != nil {
		logger.Error().Err(err).Msg("Validation error on payment intent request")
		http.Error(w, "Validation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := th.transactionService.PaymentIntent(ctx, &req, userID, idemKey)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create payment intent")
		var gatewayErr *psp.Error
		if errors.As(err, &gatewayErr) {
			http.Error(w, gatewayErr.Message, http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to create payment intent: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (th *TransactionHandler) VerifyCharge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	reference := chi.URLParam(r, "reference")
	if reference == "" {
		http.Error(w, "reference is required", http.StatusBadRequest)
		return
	}

	res, err := th.transactionService.VerifyCharge(ctx, reference)
	if err != nil {
		logger.Error().Err(err).Str("reference", reference).Msg("Failed to verify charge")
		var gatewayErr *psp.Error
		if errors.As(err, &gatewayErr) {
			http.Error(w, gatewayErr.Message, http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to verify charge", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

package wallet

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type WalletHandler struct {
	Service *WalletService
}

func NewWalletHandler(service *WalletService) *WalletHandler {
	return &WalletHandler{
		Service: service,
	}
}

var validate = validator.New()

func (wh *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var wallet model.Wallet
	ctx := r.Context()

	logger := middleware.GetLogger(ctx)
	logger.Info().Msg("Received request to create wallet")

	if err := json.NewDecoder(r.Body).Decode(&wallet); err != nil {
		logger.Error().Err(err).Msg("Failed to decode wallet creation request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(&wallet); err != nil {
		logger.Error().Err(err).Msg("Validation error on wallet creation request")
		http.Error(w, "Validation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := wh.Service.CreateWallet(ctx, &wallet); err != nil {
		logger.Error().Err(err).Msg("Failed to create wallet")
		http.Error(w, "Failed to create wallet", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":   "Wallet created successfully",
		"wallet_id": wallet.ID,
	})
}

func (wh *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		http.Error(w, "Missing or invalid user identity", http.StatusUnauthorized)
		return
	}

	wallet, err := wh.Service.GetWallet(ctx, userID)
	if errors.Is(err, ErrWalletNotFound) {
		http.Error(w, "Wallet not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch wallet")
		http.Error(w, "Failed to fetch wallet", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wallet)
}

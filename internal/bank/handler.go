package bank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/psp"
	"github.com/Demilade/Kudi/pkg/types"
	"github.com/go-playground/validator/v10"
)

// Directory is the slice of the Paystack client used for bank lookups.
type Directory interface {
	ListBanks(ctx context.Context) (*types.ListBanksResponse, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*types.ResolveAccountResponse, error)
}

type BankHandler struct {
	directory Directory
}

func NewBankHandler(directory Directory) *BankHandler {
	return &BankHandler{
		directory: directory,
	}
}

var validate = validator.New()

func (bh *BankHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	res, err := bh.directory.ListBanks(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch bank list")
		writeGatewayError(w, err, "Failed to fetch banks")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

type resolveAccountRequest struct {
	AccountNumber string `json:"account_number" validate:"required,len=10,numeric"`
	BankCode      string `json:"bank_code" validate:"required"`
}

func (bh *BankHandler) ResolveAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var req resolveAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, "Validation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := bh.directory.ResolveAccount(ctx, req.AccountNumber, req.BankCode)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve account")
		writeGatewayError(w, err, "Failed to resolve account details")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func writeGatewayError(w http.ResponseWriter, err error, fallback string) {
	var gatewayErr *psp.Error
	if errors.As(err, &gatewayErr) {
		http.Error(w, gatewayErr.Message, http.StatusBadGateway)
		return
	}
	http.Error(w, fallback, http.StatusInternalServerError)
}

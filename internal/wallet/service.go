package wallet

import (
	"context"

	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/model"
	"github.com/Demilade/Kudi/pkg/constants"
	"github.com/google/uuid"
)

type WalletService struct {
	walletRepo WalletRepository
}

func NewWalletService(walletRepo WalletRepository) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
	}
}

func (ws *WalletService) CreateWallet(ctx context.Context, wallet *model.Wallet) error {
	logger := middleware.GetLogger(ctx)
	logger.Info().Str("user_id", wallet.UserID.String()).Msg("Creating wallet")

	if wallet.Currency == "" {
		wallet.Currency = constants.DefaultCurrency
	}
	if wallet.Type == "" {
		wallet.Type = "holding"
	}
	return ws.walletRepo.CreateWallet(ctx, wallet)
}

func (ws *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	return ws.walletRepo.FindByUserID(ctx, userID)
}

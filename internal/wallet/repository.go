package wallet

import (
	"context"
	"errors"

	"github.com/Demilade/Kudi/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrWalletNotFound = errors.New("wallet not found")

type WalletRepository interface {
	CreateWallet(ctx context.Context, wallet *model.Wallet) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)
}

type WalletRepo struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{db: db}
}

func (wr *WalletRepo) CreateWallet(ctx context.Context, wallet *model.Wallet) error {
	return wr.db.QueryRow(ctx,
		"INSERT INTO wallets (user_id, currency, type) VALUES ($1, $2, $3) RETURNING id",
		wallet.UserID, wallet.Currency, wallet.Type,
	).Scan(&wallet.ID)
}

func (wr *WalletRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	var w model.Wallet
	err := wr.db.QueryRow(ctx, `
		SELECT id, user_id, balance, locked_balance, currency, type, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID).Scan(&w.ID, &w.UserID, &w.Balance, &w.LockedBalance, &w.Currency, &w.Type, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

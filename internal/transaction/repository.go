package transaction

import (
	"context"

	"github.com/Demilade/Kudi/pkg/types"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository interface {
	CreatePaymentIntent(ctx context.Context, request *types.InitializeChargeRequest, userID, idempotencyKey string) (string, error)
	MarkFailed(ctx context.Context, transactionID, reason string) error
}

type TransactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{
		db: db,
	}
}

func (tr *TransactionRepo) CreatePaymentIntent(ctx context.Context, request *types.InitializeChargeRequest, userID, idempotencyKey string) (string, error) {
	var id string
	err := tr.db.QueryRow(ctx, `
		INSERT INTO transactions (user_id, idempotency_key, amount, currency, status, type)
		VALUES ($1, $2, $3, $4, 'pending', 'payment_intent')
		RETURNING id
	`, userID, idempotencyKey, request.Amount, request.Currency).Scan(&id)
	return id, err
}

func (tr *TransactionRepo) MarkFailed(ctx context.Context, transactionID, reason string) error {
	_, err := tr.db.Exec(ctx, `
		UPDATE transactions
		SET status = 'failed', failure_reason = $1, updated_at = NOW()
		WHERE id = $2
	`, reason, transactionID)
	return err
}

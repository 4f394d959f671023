package virtualaccount

import (
	"context"
	"errors"

	"github.com/Demilade/Kudi/internal/model"
	"github.com/Demilade/Kudi/pkg/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound means no active virtual account exists for the user yet.
	// This is an expected outcome, not a failure.
	ErrNotFound = errors.New("virtual account not found")
	// ErrDuplicate means the partial unique index on (user_id, provider)
	// rejected the insert: a concurrent request won the race.
	ErrDuplicate = errors.New("virtual account already exists")
)

type VirtualAccountRepository interface {
	Find(ctx context.Context, userID uuid.UUID, provider types.Provider) (*model.VirtualAccount, error)
	Insert(ctx context.Context, va *model.VirtualAccount) error
	Deactivate(ctx context.Context, userID uuid.UUID, provider types.Provider) error
}

type VirtualAccountRepo struct {
	db *pgxpool.Pool
}

func NewVirtualAccountRepository(db *pgxpool.Pool) *VirtualAccountRepo {
	return &VirtualAccountRepo{db: db}
}

func (r *VirtualAccountRepo) Find(ctx context.Context, userID uuid.UUID, provider types.Provider) (*model.VirtualAccount, error) {
	var va model.VirtualAccount
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, provider, account_number, account_name, bank_name,
		       document_type, document_number, reference, is_active, created_at, updated_at
		FROM virtual_accounts
		WHERE user_id = $1 AND provider = $2 AND is_active
	`, userID, provider).Scan(
		&va.ID, &va.UserID, &va.Provider, &va.AccountNumber, &va.AccountName, &va.BankName,
		&va.DocumentType, &va.DocumentNumber, &va.Reference, &va.IsActive, &va.CreatedAt, &va.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &va, nil
}

func (r *VirtualAccountRepo) Insert(ctx context.Context, va *model.VirtualAccount) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO virtual_accounts
			(user_id, provider, account_number, account_name, bank_name,
			 document_type, document_number, reference, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING id, created_at, updated_at
	`,
		va.UserID, va.Provider, va.AccountNumber, va.AccountName, va.BankName,
		va.DocumentType, va.DocumentNumber, va.Reference,
	).Scan(&va.ID, &va.CreatedAt, &va.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	va.IsActive = true
	return nil
}

// Deactivate soft-disables the active account. Rows are never hard-deleted.
func (r *VirtualAccountRepo) Deactivate(ctx context.Context, userID uuid.UUID, provider types.Provider) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE virtual_accounts
		SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND provider = $2 AND is_active
	`, userID, provider)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

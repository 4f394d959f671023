package model

import (
	"encoding/json"
	"time"

	"github.com/Demilade/Kudi/pkg/types"
	"github.com/google/uuid"
)

type Model struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name" validate:"required,min=2,max=100"`
	Email string    `json:"email" validate:"required,email"`
	Phone string    `json:"phone,omitempty"`
	Model
}

type Wallet struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id" validate:"required"`
	Balance       int64     `json:"balance" validate:"gte=0"`
	LockedBalance int64     `json:"locked_balance" validate:"gte=0"`
	Currency      string    `json:"currency" validate:"required,len=3"`
	Type          string    `json:"type" validate:"required,oneof=holding settlement revenue"`
	Model
}

type Transaction struct {
	ID             uuid.UUID `json:"id"`
	IdempotencyKey string    `json:"idempotency_key" validate:"required"`
	UserID         uuid.UUID `json:"user_id" validate:"required"`
	Amount         int64     `json:"amount" validate:"required,gte=0"`
	Currency       string    `json:"currency" validate:"required,len=3"`
	PspReference   string    `json:"psp_reference,omitempty"`
	Status         string    `json:"status" validate:"required,oneof=pending completed failed refunded"`
	Type           string    `json:"type" validate:"required,oneof=payment_intent payout refund fee"`
	FailureReason  string    `json:"failure_reason,omitempty"`
	Model
}

// VirtualAccount is a provider-issued receiving account bound to exactly one
// user. At most one active row exists per (user_id, provider); the partial
// unique index in migrations enforces it. Rows are soft-deactivated, never
// deleted.
type VirtualAccount struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id" validate:"required"`
	Provider       types.Provider `json:"provider" validate:"required,oneof=paystack payrant"`
	AccountNumber  string         `json:"account_number" validate:"required"`
	AccountName    string         `json:"account_name" validate:"required"`
	BankName       string         `json:"bank_name,omitempty"`
	DocumentType   string         `json:"document_type" validate:"required"`
	DocumentNumber string         `json:"document_number" validate:"required"`
	Reference      string         `json:"reference" validate:"required"`
	IsActive       bool           `json:"is_active"`
	Model
}

type TransactionOutbox struct {
	ID            int64           `json:"id"`
	EventType     string          `json:"event_type" validate:"required"`
	Payload       json.RawMessage `json:"payload" validate:"required"`
	PartitionKey  string          `json:"partition_key" validate:"required"`
	Status        string          `json:"status" validate:"required,oneof=pending processed failed"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	RetryCount    int             `json:"retry_count" validate:"gte=0"`
	LastError     string          `json:"last_error,omitempty"`
	Model
}

type PspWebhook struct {
	ID      uuid.UUID       `json:"id"`
	EventID string          `json:"event_id" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"required"`
	Status  string          `json:"status" validate:"required,oneof=received error processed"`
	Model
}

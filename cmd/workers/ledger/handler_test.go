package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Demilade/Kudi/pkg/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type stubRow struct {
	err error
}

func (r stubRow) Scan(dest ...any) error {
	return r.err
}

// stubLedgerTx scripts Exec and QueryRow results in call order.
type stubLedgerTx struct {
	execTags []pgconn.CommandTag
	execErrs []error
	execSQL  []string

	rowErrs []error
	rowSQL  []string
}

func (s *stubLedgerTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	i := len(s.execSQL)
	s.execSQL = append(s.execSQL, sql)
	var tag pgconn.CommandTag
	var err error
	if i < len(s.execTags) {
		tag = s.execTags[i]
	}
	if i < len(s.execErrs) {
		err = s.execErrs[i]
	}
	return tag, err
}

func (s *stubLedgerTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	i := len(s.rowSQL)
	s.rowSQL = append(s.rowSQL, sql)
	var err error
	if i < len(s.rowErrs) {
		err = s.rowErrs[i]
	}
	return stubRow{err: err}
}

func chargeEvent() *types.PaystackWebhookEvent {
	event := &types.PaystackWebhookEvent{Event: "charge.success"}
	event.Data.ID = 302961
	event.Data.Reference = "VTU_1"
	event.Data.Amount = 500000
	event.Data.Currency = "NGN"
	event.Data.Metadata = types.WebhookMetadata{UserID: "u-1", TransactionID: "t-1"}
	return event
}

func TestCreditInflowHappyPath(t *testing.T) {
	log := zerolog.Nop()
	tx := &stubLedgerTx{
		execTags: []pgconn.CommandTag{
			pgconn.NewCommandTag("INSERT 0 1"), // claim
			pgconn.NewCommandTag("UPDATE 1"),   // transaction completion
			pgconn.NewCommandTag("INSERT 0 1"), // outbox
		},
	}

	claimed, err := creditInflow(context.Background(), tx, chargeEvent(), []byte(`{}`), &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claimed {
		t.Fatal("expected fresh event to be claimed")
	}

	if len(tx.rowSQL) != 3 {
		t.Fatalf("expected 3 wallet updates, got %d", len(tx.rowSQL))
	}
	if !strings.Contains(tx.execSQL[0], "psp_webhooks") {
		t.Errorf("first statement must be the event claim, got %q", tx.execSQL[0])
	}
	if !strings.Contains(tx.execSQL[len(tx.execSQL)-1], "transaction_outbox") {
		t.Errorf("expected a balance update enqueued in the outbox")
	}
}

func TestCreditInflowDuplicateClaimSkipsCredits(t *testing.T) {
	log := zerolog.Nop()
	tx := &stubLedgerTx{
		execTags: []pgconn.CommandTag{pgconn.NewCommandTag("INSERT 0 0")},
	}

	claimed, err := creditInflow(context.Background(), tx, chargeEvent(), []byte(`{}`), &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed {
		t.Fatal("expected already-claimed event to be skipped")
	}
	if len(tx.rowSQL) != 0 {
		t.Errorf("duplicate delivery must not touch wallets, got %d updates", len(tx.rowSQL))
	}
	if len(tx.execSQL) != 1 {
		t.Errorf("duplicate delivery must stop at the claim, got %d statements", len(tx.execSQL))
	}
}

func TestCreditInflowFailureAfterClaimIsRetryable(t *testing.T) {
	log := zerolog.Nop()
	tx := &stubLedgerTx{
		execTags: []pgconn.CommandTag{pgconn.NewCommandTag("INSERT 0 1")},
		rowErrs:  []error{errors.New("connection reset")},
	}

	claimed, err := creditInflow(context.Background(), tx, chargeEvent(), []byte(`{}`), &log)
	if err == nil {
		t.Fatal("a failed credit must surface an error so the consumer retries")
	}
	if claimed {
		t.Fatal("a failed attempt must not report the event as claimed")
	}

	// The claim ran on the same transaction as the failed credit, so the
	// caller's rollback discards it and the redelivery claims afresh.
	if !strings.Contains(tx.execSQL[0], "psp_webhooks") {
		t.Errorf("claim must execute on the transaction, got %q", tx.execSQL[0])
	}
	if len(tx.execSQL) != 1 {
		t.Errorf("nothing past the failed credit should run, got %d statements", len(tx.execSQL))
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Demilade/Kudi/internal/database"
	"github.com/Demilade/Kudi/internal/kafka"
	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/redis"
	"github.com/Demilade/Kudi/pkg/constants"
	"github.com/Demilade/Kudi/pkg/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PlatformFeePercent is deducted from each inflow before crediting the
// user's wallet.
const PlatformFeePercent int64 = 2

// ledgerTx is the slice of pgx.Tx the credit flow needs.
type ledgerTx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ledgerHandler credits wallets from verified charge.success events.
// The unique constraint on psp_webhooks.event_id is the replay guard; the
// claim insert runs inside the same transaction as the credits, so a failed
// attempt rolls the claim back and the redelivery starts clean. The Redis
// key is only a fast path in front of it.
func ledgerHandler(db *database.Database, redisClient *redis.Client, log *zerolog.Logger) kafka.Handler {
	return func(ctx context.Context, msg *kafka.Message) error {
		log.Info().Str("topic", msg.Topic).Int64("offset", msg.Offset).Msg("Processing webhook event")

		var event types.PaystackWebhookEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal webhook message")
			return err
		}

		if processed, _ := redisClient.GetIdempotencyKey(ctx, event.Data.Reference); processed == "done" {
			log.Info().Str("reference", event.Data.Reference).Msg("Webhook already processed, skipping")
			return nil
		}

		// Serialize credits to this wallet across worker replicas
		lock, err := redisClient.AcquireLock(ctx, "wallet:"+event.Data.Metadata.UserID, 10*time.Second)
		if err != nil {
			log.Error().Err(err).Str("user_id", event.Data.Metadata.UserID).Msg("Failed to acquire wallet lock")
			return err // Retry later
		}
		defer lock.Release(ctx)

		tx, err := db.Pool.Begin(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to begin transaction")
			return err
		}
		defer tx.Rollback(ctx)

		claimed, err := creditInflow(ctx, tx, &event, msg.Value, log)
		if err != nil {
			return err
		}
		if !claimed {
			// A previous delivery already committed this event
			log.Info().Int64("event_id", event.Data.ID).Msg("Duplicate webhook delivery, skipping")
			return nil
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		redisClient.MarkIdempotencyComplete(ctx, event.Data.Reference, []byte("done"), 30*time.Minute)
		return nil
	}
}

// creditInflow claims the webhook event and applies the wallet credits on
// the caller's transaction. It returns claimed=false when another delivery
// already holds the event. Claim and credits commit or roll back together.
func creditInflow(ctx context.Context, tx ledgerTx, event *types.PaystackWebhookEvent, payload []byte, log *zerolog.Logger) (claimed bool, err error) {
	eventID := fmt.Sprintf("%d", event.Data.ID)
	tag, err := tx.Exec(ctx, `
		INSERT INTO psp_webhooks (event_id, payload, status)
		VALUES ($1, $2, 'processed')
		ON CONFLICT (event_id) DO NOTHING
	`, eventID, payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to record webhook event")
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	platformAmount := event.Data.Amount * PlatformFeePercent / 100
	netAmount := event.Data.Amount - platformAmount

	var userBalanceAfter int64
	err = tx.QueryRow(ctx,
		"UPDATE wallets SET locked_balance = locked_balance + $1, updated_at = NOW() WHERE user_id = $2 RETURNING locked_balance",
		netAmount, event.Data.Metadata.UserID,
	).Scan(&userBalanceAfter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to credit user wallet")
		return false, err
	}

	var platformBalanceAfter int64
	err = tx.QueryRow(ctx,
		"UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE id = $2 RETURNING balance",
		platformAmount, constants.WalletPlatformID,
	).Scan(&platformBalanceAfter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to credit platform wallet")
		return false, err
	}

	var externalBalanceAfter int64
	err = tx.QueryRow(ctx,
		"UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE id = $2 RETURNING balance",
		event.Data.Amount, constants.WalletExternalID,
	).Scan(&externalBalanceAfter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update external wallet")
		return false, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE transactions SET psp_reference = $1, status = 'completed', updated_at = NOW()
		WHERE id = $2
	`, event.Data.Reference, event.Data.Metadata.TransactionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to mark transaction as completed")
		return false, err
	}

	updateEvent := types.BalanceUpdateEvent{
		TransactionID: event.Data.Metadata.TransactionID,
		UserID:        event.Data.Metadata.UserID,
		NetAmount:     netAmount,
		Currency:      event.Data.Currency,
		Reference:     event.Data.Reference,
	}
	payloadBytes, err := json.Marshal(updateEvent)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal balance update event")
		return false, err
	}

	correlationID := middleware.GetRequestIDFromContext(ctx)
	if correlationID == "" {
		correlationID = fmt.Sprintf("gen-%s", time.Now().Format("20060102150405"))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transaction_outbox (event_type, payload, partition_key, correlation_id, status)
		VALUES ($1, $2, $3, $4, 'pending')
	`, kafka.EventLedgerEntryCreated, payloadBytes, event.Data.Metadata.UserID, correlationID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to enqueue balance update event")
		return false, err
	}

	return true, nil
}

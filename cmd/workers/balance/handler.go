package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Demilade/Kudi/internal/database"
	"github.com/Demilade/Kudi/internal/kafka"
	"github.com/Demilade/Kudi/internal/redis"
	"github.com/Demilade/Kudi/pkg/types"
	"github.com/rs/zerolog"
)

// balanceHandler moves settled funds from locked_balance into the spendable
// balance once the ledger worker has recorded the inflow.
func balanceHandler(db *database.Database, redisClient *redis.Client, log *zerolog.Logger) kafka.Handler {
	return func(ctx context.Context, msg *kafka.Message) error {
		var event types.BalanceUpdateEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal balance update event")
			return err
		}

		log.Info().
			Str("transaction_id", event.TransactionID).
			Str("user_id", event.UserID).
			Int64("net_amount", event.NetAmount).
			Msg("Processing balance update")

		settleKey := "settle:" + event.TransactionID
		if done, _ := redisClient.GetIdempotencyKey(ctx, settleKey); done == "done" {
			log.Info().Str("transaction_id", event.TransactionID).Msg("Balance already settled, skipping")
			return nil
		}

		lock, err := redisClient.AcquireLock(ctx, "wallet:"+event.UserID, 10*time.Second)
		if err != nil {
			log.Error().Err(err).Str("user_id", event.UserID).Msg("Failed to acquire wallet lock")
			return err
		}
		defer lock.Release(ctx)

		tag, err := db.Pool.Exec(ctx, `
			UPDATE wallets
			SET locked_balance = locked_balance - $1,
			    balance = balance + $1,
			    updated_at = NOW()
			WHERE user_id = $2 AND locked_balance >= $1
		`, event.NetAmount, event.UserID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to settle wallet balance")
			return err
		}
		if tag.RowsAffected() == 0 {
			// Either a replay that already settled or insufficient locked
			// funds; both are terminal for this message.
			log.Warn().
				Str("transaction_id", event.TransactionID).
				Str("user_id", event.UserID).
				Msg("No wallet row settled, skipping")
			return nil
		}

		redisClient.MarkIdempotencyComplete(ctx, settleKey, []byte("done"), 30*time.Minute)
		return nil
	}
}

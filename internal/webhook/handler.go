package webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/Demilade/Kudi/internal/kafka"
	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
)

const signatureHeader = "x-paystack-signature"

type WebhookHandler struct {
	verifier *Verifier
	db       *pgxpool.Pool
}

func NewWebhookHandler(verifier *Verifier, db *pgxpool.Pool) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		db:       db,
	}
}

// HandleWebhook authenticates the callback and, for actionable events,
// stores the raw payload in the outbox for the relay to publish. The ledger
// worker downstream is responsible for replay deduplication.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read webhook body")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	event, handled, err := h.verifier.HandleWebhook(body, signature)
	if errors.Is(err, ErrInvalidSignature) {
		logger.Error().Msg("Invalid webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to process webhook payload")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if !handled {
		// Unhandled event types are an expected no-op
		logger.Info().Msg("Ignoring unhandled webhook event type")
		w.WriteHeader(http.StatusOK)
		return
	}

	// TODO: resolve the owning user from virtual_accounts by the receiving
	// account number so dedicated-NUBAN inflows without intent metadata
	// still settle. Until then they are acknowledged and logged.
	if event.Metadata.UserID == "" {
		logger.Warn().
			Str("reference", event.Reference).
			Msg("Charge event carries no user metadata, skipping")
		w.WriteHeader(http.StatusOK)
		return
	}

	_, err = h.db.Exec(ctx, `
		INSERT INTO transaction_outbox (event_type, payload, partition_key, correlation_id, status)
		VALUES ($1, $2, $3, $4, 'pending')
	`, kafka.EventWebhookReceived, body, event.Metadata.UserID, middleware.GetRequestIDFromContext(ctx))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to store webhook in outbox")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	logger.Info().
		Str("reference", event.Reference).
		Str("user_id", event.Metadata.UserID).
		Msg("Webhook stored in outbox")
	w.WriteHeader(http.StatusOK)
}

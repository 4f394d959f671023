package webhook

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Demilade/Kudi/pkg/types"
)

// ErrInvalidSignature is returned when the computed digest does not match
// the provider-supplied one. Nothing in the payload is trusted or processed
// past this point.
var ErrInvalidSignature = errors.New("invalid webhook signature")

const eventChargeSuccess = "charge.success"

// Verifier authenticates inbound provider callbacks. It is purely a trust
// boundary: deduplication of replayed events is the ledger's contract, not
// the verifier's.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifySignature computes an HMAC-SHA512 hex digest over the exact payload
// bytes and compares it to the supplied signature.
func (v *Verifier) VerifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha512.New, v.secret)
	if _, err := mac.Write(payload); err != nil {
		return false
	}
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleWebhook authenticates and interprets a raw provider callback.
// On a verified charge.success it returns the normalized event with the
// amount converted from kobo to naira and handled=true. Other event types
// return handled=false with no error: not every event is actionable, and
// that is expected rather than exceptional.
func (v *Verifier) HandleWebhook(payload []byte, signature string) (*types.ChargeEvent, bool, error) {
	if !v.VerifySignature(payload, signature) {
		return nil, false, ErrInvalidSignature
	}

	var event types.PaystackWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, false, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	if event.Event != eventChargeSuccess {
		return nil, false, nil
	}

	return &types.ChargeEvent{
		Reference: event.Data.Reference,
		Amount:    event.Data.Amount / 100,
		Status:    event.Data.Status,
		PaidAt:    event.Data.PaidAt,
		Metadata:  event.Data.Metadata,
	}, true, nil
}

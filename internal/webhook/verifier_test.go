package webhook

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"
)

const testSecret = "sk_test_webhook_secret"

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	v := NewVerifier(testSecret)
	payload := []byte(`{"event":"charge.success","data":{"reference":"VTU_1"}}`)

	if !v.VerifySignature(payload, sign(testSecret, payload)) {
		t.Fatal("expected valid signature to verify")
	}

	if v.VerifySignature(payload, sign("wrong_secret", payload)) {
		t.Fatal("expected signature from wrong secret to fail")
	}

	// Any change to the payload after signing must invalidate the digest
	tampered := make([]byte, len(payload))
	copy(tampered, payload)
	tampered[len(tampered)-3] = '2'
	if v.VerifySignature(tampered, sign(testSecret, payload)) {
		t.Fatal("expected tampered payload to fail verification")
	}

	if v.VerifySignature(payload, "") {
		t.Fatal("expected empty signature to fail")
	}
}

func TestHandleWebhookChargeSuccess(t *testing.T) {
	v := NewVerifier(testSecret)
	payload := []byte(`{
		"event": "charge.success",
		"data": {
			"id": 302961,
			"reference": "VTU_1724500000000",
			"amount": 500000,
			"status": "success",
			"paid_at": "2024-08-24T12:31:02.000Z",
			"currency": "NGN",
			"metadata": {"user_id": "u-1", "transaction_id": "t-1"}
		}
	}`)

	event, handled, err := v.HandleWebhook(payload, sign(testSecret, payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handled {
		t.Fatal("expected charge.success to be handled")
	}
	if event.Amount != 5000 {
		t.Errorf("expected amount converted to major units (5000), got %d", event.Amount)
	}
	if event.Reference != "VTU_1724500000000" {
		t.Errorf("unexpected reference %q", event.Reference)
	}
	if event.Metadata.UserID != "u-1" || event.Metadata.TransactionID != "t-1" {
		t.Errorf("metadata not carried through: %+v", event.Metadata)
	}
	if event.PaidAt != "2024-08-24T12:31:02.000Z" {
		t.Errorf("unexpected paid_at %q", event.PaidAt)
	}
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	v := NewVerifier(testSecret)
	payload := []byte(`{"event":"transfer.success","data":{"reference":"TRF_1","amount":10000}}`)

	event, handled, err := v.HandleWebhook(payload, sign(testSecret, payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handled {
		t.Fatal("expected non-charge event to be unhandled")
	}
	if event != nil {
		t.Fatalf("expected nil event, got %+v", event)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	v := NewVerifier(testSecret)
	payload := []byte(`{"event":"charge.success","data":{"reference":"VTU_1","amount":100}}`)

	event, handled, err := v.HandleWebhook(payload, "deadbeef")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if handled || event != nil {
		t.Fatal("nothing should be returned for an unverified payload")
	}
}

func TestHandleWebhookMalformedJSON(t *testing.T) {
	v := NewVerifier(testSecret)
	payload := []byte(`{"event":"charge.success","data":`)

	_, handled, err := v.HandleWebhook(payload, sign(testSecret, payload))
	if err == nil {
		t.Fatal("expected parse error for truncated payload")
	}
	if handled {
		t.Fatal("malformed payload must not be marked handled")
	}
}

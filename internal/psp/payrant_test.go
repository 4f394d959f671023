package psp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Demilade/Kudi/pkg/types"
)

func payrantIdentity() *types.VirtualAccountIdentity {
	return &types.VirtualAccountIdentity{
		Email:              "ada@example.com",
		DocumentType:       "nin",
		DocumentNumber:     "12345678901",
		VirtualAccountName: "Ada Obi",
		CustomerName:       "Ada Obi",
	}
}

func TestPayrantCreateVirtualAccount(t *testing.T) {
	var wire types.PayrantVirtualAccountRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/virtual-account" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer pk_test_y" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"account_no":"9012345678","virtualAccountName":"Ada Obi","bank_name":"PalmPay","reference":"va_1"}`))
	}))
	defer server.Close()

	client := NewPayrantClient("pk_test_y", server.URL)
	account, err := client.CreateVirtualAccount(context.Background(), payrantIdentity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wire.DocumentType != "nin" || wire.DocumentNumber != "12345678901" {
		t.Errorf("identity not forwarded: %+v", wire)
	}
	if account.AccountNumber != "9012345678" {
		t.Errorf("unexpected account number %q", account.AccountNumber)
	}
	if account.BankName != "PalmPay" {
		t.Errorf("unexpected bank name %q", account.BankName)
	}
	if account.Reference != "va_1" {
		t.Errorf("unexpected reference %q", account.Reference)
	}
}

func TestPayrantDefaultsReferenceAndBank(t *testing.T) {
	var wire types.PayrantVirtualAccountRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&wire)
		// Provider omits bank_name and reference
		w.Write([]byte(`{"account_no":"9012345678","virtualAccountName":"Ada Obi"}`))
	}))
	defer server.Close()

	client := NewPayrantClient("pk_test_y", server.URL)
	account, err := client.CreateVirtualAccount(context.Background(), payrantIdentity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(wire.AccountReference, "VTU_") {
		t.Errorf("expected generated account reference, got %q", wire.AccountReference)
	}
	if account.BankName != "PalmPay" {
		t.Errorf("expected bank defaulted to PalmPay, got %q", account.BankName)
	}
	if account.Reference != wire.AccountReference {
		t.Errorf("expected reference backfilled from request, got %q", account.Reference)
	}
}

func TestPayrantErrorNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid document number"}`))
	}))
	defer server.Close()

	client := NewPayrantClient("pk_test_y", server.URL)
	_, err := client.CreateVirtualAccount(context.Background(), payrantIdentity())

	var pspErr *Error
	if !errors.As(err, &pspErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if pspErr.Provider != "payrant" {
		t.Errorf("expected provider payrant, got %q", pspErr.Provider)
	}
	if pspErr.Message != "Invalid document number" {
		t.Errorf("expected provider message extracted, got %q", pspErr.Message)
	}
}

func TestAmountRoundTrip(t *testing.T) {
	if got := toKobo(5000); got != 500000 {
		t.Errorf("toKobo(5000) = %d, want 500000", got)
	}
	if got := fromKobo(500000); got != 5000 {
		t.Errorf("fromKobo(500000) = %d, want 5000", got)
	}
	if got := fromKobo(toKobo(123)); got != 123 {
		t.Errorf("round trip lost precision: %d", got)
	}
	// Sub-naira remainders truncate
	if got := fromKobo(500050); got != 5000 {
		t.Errorf("fromKobo(500050) = %d, want 5000", got)
	}
}

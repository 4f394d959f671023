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

func TestInitializeChargeConvertsToMinorUnits(t *testing.T) {
	var wire map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_x" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"VTU_1"}}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "https://app.example.com/verify")
	resp, err := client.InitializeCharge(context.Background(), &types.InitializeChargeRequest{
		Email:  "ada@example.com",
		Amount: 5000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := wire["amount"].(float64); got != 500000 {
		t.Errorf("expected 5000 naira sent as 500000 kobo, got %v", got)
	}
	if resp.Data.AuthorizationURL == "" {
		t.Error("expected authorization url in response")
	}
}

func TestInitializeChargeDefaults(t *testing.T) {
	var wire map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&wire)
		w.Write([]byte(`{"status":true,"message":"ok","data":{"reference":"VTU_1"}}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "https://app.example.com/verify")
	_, err := client.InitializeCharge(context.Background(), &types.InitializeChargeRequest{
		Email:  "ada@example.com",
		Amount: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ref, _ := wire["reference"].(string)
	if !strings.HasPrefix(ref, "VTU_") {
		t.Errorf("expected generated reference with VTU_ prefix, got %q", ref)
	}
	if wire["currency"] != "NGN" {
		t.Errorf("expected currency defaulted to NGN, got %v", wire["currency"])
	}
	if wire["callback_url"] != "https://app.example.com/verify" {
		t.Errorf("expected configured callback url, got %v", wire["callback_url"])
	}
}

func TestInitializeChargeKeepsCallerReference(t *testing.T) {
	var wire map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&wire)
		w.Write([]byte(`{"status":true,"message":"ok","data":{"reference":"order_77"}}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "")
	_, err := client.InitializeCharge(context.Background(), &types.InitializeChargeRequest{
		Email:     "ada@example.com",
		Amount:    100,
		Reference: "order_77",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wire["reference"] != "order_77" {
		t.Errorf("caller reference must be preserved, got %v", wire["reference"])
	}
}

func TestVerifyChargeConvertsFromMinorUnits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/VTU_1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","reference":"VTU_1","amount":500000,"currency":"NGN"}}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "")
	resp, err := client.VerifyCharge(context.Background(), "VTU_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Amount != 5000 {
		t.Errorf("expected amount converted to 5000 naira, got %d", resp.Data.Amount)
	}
}

func TestAPIErrorExtractsProviderMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_bad", server.URL, "")
	_, err := client.VerifyCharge(context.Background(), "VTU_1")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}

	var pspErr *Error
	if !errors.As(err, &pspErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if pspErr.Message != "Invalid key" {
		t.Errorf("expected provider message extracted, got %q", pspErr.Message)
	}
	if pspErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", pspErr.StatusCode)
	}
	if pspErr.Provider != "paystack" {
		t.Errorf("expected provider paystack, got %q", pspErr.Provider)
	}
}

func TestAPIErrorFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>Bad Gateway</html>`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "")
	_, err := client.VerifyCharge(context.Background(), "VTU_1")

	var pspErr *Error
	if !errors.As(err, &pspErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if pspErr.Message != "Failed to verify payment" {
		t.Errorf("expected fallback message for an unparseable body, got %q", pspErr.Message)
	}
}

func TestTransportErrorIsNormalized(t *testing.T) {
	// Point at a closed server to force a connection failure
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "")
	_, err := client.ListBanks(context.Background())

	var pspErr *Error
	if !errors.As(err, &pspErr) {
		t.Fatalf("transport failures must be normalized, got %T", err)
	}
	if pspErr.Unwrap() == nil {
		t.Error("expected underlying transport error preserved as cause")
	}
}

func TestListBanksFiltersToNigeria(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bank" || r.URL.Query().Get("country") != "nigeria" {
			t.Errorf("unexpected request %q", r.URL.String())
		}
		w.Write([]byte(`{"status":true,"message":"Banks retrieved","data":[{"name":"Access Bank","code":"044","currency":"NGN"}]}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "")
	resp, err := client.ListBanks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Code != "044" {
		t.Errorf("unexpected banks payload: %+v", resp.Data)
	}
}

func TestResolveAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("account_number") != "0123456789" || q.Get("bank_code") != "058" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"status":true,"message":"Account number resolved","data":{"account_number":"0123456789","account_name":"ADA OBI"}}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "")
	resp, err := client.ResolveAccount(context.Background(), "0123456789", "058")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.AccountName != "ADA OBI" {
		t.Errorf("unexpected account name %q", resp.Data.AccountName)
	}
}

func TestInitiateTransferSendsMinorUnits(t *testing.T) {
	var wire map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&wire)
		w.Write([]byte(`{"status":true,"message":"Transfer queued","data":{"amount":500000,"reference":"trf_1","status":"pending","transfer_code":"TRF_x"}}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_x", server.URL, "")
	resp, err := client.InitiateTransfer(context.Background(), 5000, "RCP_abc", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wire["amount"].(float64) != 500000 {
		t.Errorf("expected transfer amount in kobo, got %v", wire["amount"])
	}
	if wire["source"] != "balance" {
		t.Errorf("expected source balance, got %v", wire["source"])
	}
	if wire["reason"] != "VTU Wallet Withdrawal" {
		t.Errorf("expected default reason, got %v", wire["reason"])
	}
	if resp.Data.Amount != 5000 {
		t.Errorf("expected response amount in naira, got %d", resp.Data.Amount)
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		full  string
		first string
		last  string
	}{
		{"Ada Obi", "Ada", "Obi"},
		{"Ada", "Ada", "Ada"},
		{"Ada Ngozi Obi", "Ada", "Ngozi Obi"},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := splitName(tc.full)
		if first != tc.first || last != tc.last {
			t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tc.full, first, last, tc.first, tc.last)
		}
	}
}

package psp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Demilade/Kudi/pkg/types"
	"github.com/rs/zerolog/log"
)

const providerPaystack = "paystack"

type PaystackClient struct {
	httpClient  *http.Client
	secretKey   string
	baseURL     string
	callbackURL string
}

func NewPaystackClient(secretKey, baseURL, callbackURL string) *PaystackClient {
	return &PaystackClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 50,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		secretKey:   secretKey,
		baseURL:     baseURL,
		callbackURL: callbackURL,
	}
}

// defaultReference derives a unique reference when the caller omits one.
func defaultReference() string {
	return fmt.Sprintf("VTU_%d", time.Now().UnixMilli())
}

// InitializeCharge opens a checkout session. amount is in naira.
func (c *PaystackClient) InitializeCharge(ctx context.Context, req *types.InitializeChargeRequest) (*types.InitializeChargeResponse, error) {
	if req.Reference == "" {
		req.Reference = defaultReference()
	}
	if req.CallbackURL == "" {
		req.CallbackURL = c.callbackURL
	}
	if req.Currency == "" {
		req.Currency = "NGN"
	}

	wire := *req
	wire.Amount = toKobo(req.Amount)

	respBody, err := c.doRequest(ctx, http.MethodPost, "/transaction/initialize", wire, "Failed to initialize payment")
	if err != nil {
		return nil, err
	}

	var resp types.InitializeChargeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, newTransportError(providerPaystack, err)
	}
	if !resp.Status {
		return nil, &Error{Provider: providerPaystack, Message: resp.Message}
	}

	return &resp, nil
}

// VerifyCharge fetches the status of a charge by reference. The returned
// amount is converted back to naira.
func (c *PaystackClient) VerifyCharge(ctx context.Context, reference string) (*types.VerifyChargeResponse, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, "Failed to verify payment")
	if err != nil {
		return nil, err
	}

	var resp types.VerifyChargeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, newTransportError(providerPaystack, err)
	}
	if !resp.Status {
		return nil, &Error{Provider: providerPaystack, Message: resp.Message}
	}

	resp.Data.Amount = fromKobo(resp.Data.Amount)
	return &resp, nil
}

func (c *PaystackClient) CreateTransferRecipient(ctx context.Context, accountNumber, bankCode, name string) (*types.TransferRecipientResponse, error) {
	if name == "" {
		name = "VTU Customer"
	}
	body := map[string]string{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       "NGN",
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "/transferrecipient", body, "Failed to create transfer recipient")
	if err != nil {
		return nil, err
	}

	var resp types.TransferRecipientResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, newTransportError(providerPaystack, err)
	}
	if !resp.Status {
		return nil, &Error{Provider: providerPaystack, Message: resp.Message}
	}
	return &resp, nil
}

// InitiateTransfer pays out from the Paystack balance. amount is in naira.
func (c *PaystackClient) InitiateTransfer(ctx context.Context, amount int64, recipientCode, reason string) (*types.TransferResponse, error) {
	if reason == "" {
		reason = "VTU Wallet Withdrawal"
	}
	body := map[string]any{
		"source":    "balance",
		"amount":    toKobo(amount),
		"recipient": recipientCode,
		"reason":    reason,
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "/transfer", body, "Failed to initiate transfer")
	if err != nil {
		return nil, err
	}

	var resp types.TransferResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, newTransportError(providerPaystack, err)
	}
	if !resp.Status {
		return nil, &Error{Provider: providerPaystack, Message: resp.Message}
	}

	resp.Data.Amount = fromKobo(resp.Data.Amount)
	return &resp, nil
}

func (c *PaystackClient) VerifyTransfer(ctx context.Context, reference string) (*types.TransferResponse, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/transfer/verify/"+url.PathEscape(reference), nil, "Failed to verify transfer")
	if err != nil {
		return nil, err
	}

	var resp types.TransferResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, newTransportError(providerPaystack, err)
	}
	if !resp.Status {
		return nil, &Error{Provider: providerPaystack, Message: resp.Message}
	}

	resp.Data.Amount = fromKobo(resp.Data.Amount)
	return &resp, nil
}

func (c *PaystackClient) ListBanks(ctx context.Context) (*types.ListBanksResponse, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/bank?country=nigeria", nil, "Failed to fetch banks")
	if err != nil {
		return nil, err
	}

	var resp types.ListBanksResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, newTransportError(providerPaystack, err)
	}
	if !resp.Status {
		return nil, &Error{Provider: providerPaystack, Message: resp.Message}
	}
	return &resp, nil
}

func (c *PaystackClient) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*types.ResolveAccountResponse, error) {
	path := fmt.Sprintf("/bank/resolve?account_number=%s&bank_code=%s",
		url.QueryEscape(accountNumber), url.QueryEscape(bankCode))

	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil, "Failed to resolve account details")
	if err != nil {
		return nil, err
	}

	var resp types.ResolveAccountResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, newTransportError(providerPaystack, err)
	}
	if !resp.Status {
		return nil, &Error{Provider: providerPaystack, Message: resp.Message}
	}
	return &resp, nil
}

// CreateVirtualAccount assigns a dedicated NUBAN to the customer identity.
func (c *PaystackClient) CreateVirtualAccount(ctx context.Context, identity *types.VirtualAccountIdentity) (*types.ProvisionedAccount, error) {
	firstName, lastName := splitName(identity.CustomerName)
	body := map[string]string{
		"email":          identity.Email,
		"first_name":     firstName,
		"last_name":      lastName,
		"preferred_bank": "wema-bank",
		"country":        "NG",
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "/dedicated_account/assign", body, "Failed to create virtual account")
	if err != nil {
		return nil, err
	}

	var resp types.DedicatedAccountResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, newTransportError(providerPaystack, err)
	}
	if !resp.Status {
		return nil, &Error{Provider: providerPaystack, Message: resp.Message}
	}

	reference := identity.AccountReference
	if reference == "" {
		reference = defaultReference()
	}

	return &types.ProvisionedAccount{
		AccountNumber: resp.Data.AccountNumber,
		AccountName:   resp.Data.AccountName,
		BankName:      resp.Data.Bank.Name,
		Reference:     reference,
	}, nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], parts[0]
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (c *PaystackClient) doRequest(ctx context.Context, method, path string, body any, fallback string) ([]byte, error) {
	fullURL := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal request body")
			return nil, newTransportError(providerPaystack, err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create HTTP request")
		return nil, newTransportError(providerPaystack, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.Error().Err(err).
			Str("method", method).
			Str("url", fullURL).
			Int64("duration_ms", duration).
			Msg("HTTP request failed")
		return nil, newTransportError(providerPaystack, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).
			Str("method", method).
			Str("url", fullURL).
			Int64("duration_ms", duration).
			Msg("Failed to read response body")
		return nil, newTransportError(providerPaystack, err)
	}

	if resp.StatusCode >= 400 {
		log.Error().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("url", fullURL).
			Int64("duration_ms", duration).
			Str("body", string(respBody)).
			Msg("Paystack API error response")
		return nil, newAPIError(providerPaystack, resp.StatusCode, respBody, fallback)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Str("method", method).
		Str("url", fullURL).
		Int64("duration_ms", duration).
		Msg("Paystack API request successful")

	return respBody, nil
}

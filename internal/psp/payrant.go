package psp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Demilade/Kudi/pkg/types"
	"github.com/rs/zerolog/log"
)

const providerPayrant = "payrant"

// VirtualAccountProvider is the slice of a gateway client the reconciler
// needs. Both PaystackClient and PayrantClient satisfy it.
type VirtualAccountProvider interface {
	CreateVirtualAccount(ctx context.Context, identity *types.VirtualAccountIdentity) (*types.ProvisionedAccount, error)
}

type PayrantClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewPayrantClient(apiKey, baseURL string) *PayrantClient {
	return &PayrantClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// CreateVirtualAccount requests a PalmPay receiving account for the identity.
func (c *PayrantClient) CreateVirtualAccount(ctx context.Context, identity *types.VirtualAccountIdentity) (*types.ProvisionedAccount, error) {
	reference := identity.AccountReference
	if reference == "" {
		reference = defaultReference()
	}

	payload := types.PayrantVirtualAccountRequest{
		Email:              identity.Email,
		DocumentType:       identity.DocumentType,
		DocumentNumber:     identity.DocumentNumber,
		VirtualAccountName: identity.VirtualAccountName,
		CustomerName:       identity.CustomerName,
		AccountReference:   reference,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, newTransportError(providerPayrant, err)
	}

	fullURL := c.baseURL + "/virtual-account"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, newTransportError(providerPayrant, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.Error().Err(err).
			Str("url", fullURL).
			Int64("duration_ms", duration).
			Msg("HTTP request failed")
		return nil, newTransportError(providerPayrant, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(providerPayrant, err)
	}

	if resp.StatusCode >= 400 {
		log.Error().
			Int("status", resp.StatusCode).
			Str("url", fullURL).
			Int64("duration_ms", duration).
			Str("body", string(respBody)).
			Msg("Payrant API error response")
		return nil, newAPIError(providerPayrant, resp.StatusCode, respBody, "Failed to create virtual account")
	}

	var parsed types.PayrantVirtualAccountResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, newTransportError(providerPayrant, err)
	}

	if parsed.Reference == "" {
		parsed.Reference = reference
	}
	if parsed.BankName == "" {
		parsed.BankName = "PalmPay"
	}

	return &types.ProvisionedAccount{
		AccountNumber: parsed.AccountNo,
		AccountName:   parsed.VirtualAccountName,
		BankName:      parsed.BankName,
		Reference:     parsed.Reference,
	}, nil
}

package types

import "time"

type PaystackWebhookEvent struct {
	Event string              `json:"event"`
	Data  PaystackWebhookData `json:"data"`
}
type PaystackWebhookData struct {
	ID              int64            `json:"id"`
	Domain          string           `json:"domain"`
	Status          string           `json:"status"`
	Reference       string           `json:"reference"`
	Amount          int64            `json:"amount"`
	Message         *string          `json:"message"`
	GatewayResponse string           `json:"gateway_response"`
	PaidAt          string           `json:"paid_at"`
	CreatedAt       time.Time        `json:"created_at"`
	Channel         string           `json:"channel"`
	Currency        string           `json:"currency"`
	IPAddress       string           `json:"ip_address"`
	Metadata        WebhookMetadata  `json:"metadata"`
	Fees            int64            `json:"fees"`
	Customer        PaystackCustomer `json:"customer"`
	RequestedAmount int64            `json:"requested_amount"`
}

type WebhookMetadata struct {
	UserID        string `json:"user_id"`
	TransactionID string `json:"transaction_id"`
}

type PaystackCustomer struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	CustomerCode string  `json:"customer_code"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Phone        *string `json:"phone"`
	RiskAction   string  `json:"risk_action"`
}

// ChargeEvent is the normalized record emitted for a verified charge.success
// webhook. Amount is in major currency units (naira, not kobo).
type ChargeEvent struct {
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"`
	Status    string          `json:"status"`
	PaidAt    string          `json:"paid_at"`
	Metadata  WebhookMetadata `json:"metadata"`
}

type InitializeChargeRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	Amount      int64           `json:"amount" validate:"required,gt=0"`
	Reference   string          `json:"reference,omitempty"`
	CallbackURL string          `json:"callback_url,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	Metadata    WebhookMetadata `json:"metadata,omitempty"`
}

type InitializeChargeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type VerifyChargeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string          `json:"status"`
		Reference string          `json:"reference"`
		Amount    int64           `json:"amount"`
		PaidAt    string          `json:"paid_at"`
		Channel   string          `json:"channel"`
		Currency  string          `json:"currency"`
		Metadata  WebhookMetadata `json:"metadata"`
	} `json:"data"`
}

type TransferRecipientResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		RecipientCode string `json:"recipient_code"`
		Type          string `json:"type"`
		Name          string `json:"name"`
		Details       struct {
			AccountNumber string `json:"account_number"`
			AccountName   string `json:"account_name"`
			BankCode      string `json:"bank_code"`
			BankName      string `json:"bank_name"`
		} `json:"details"`
	} `json:"data"`
}

type TransferResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Amount       int64  `json:"amount"`
		Reference    string `json:"reference"`
		Status       string `json:"status"`
		TransferCode string `json:"transfer_code"`
	} `json:"data"`
}

type Bank struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Active   bool   `json:"active"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
}

type ListBanksResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    []Bank `json:"data"`
}

type ResolveAccountResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	} `json:"data"`
}

// DedicatedAccountResponse is Paystack's dedicated NUBAN issuance response.
type DedicatedAccountResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
		Bank          struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"bank"`
		Assigned bool `json:"assigned"`
	} `json:"data"`
}

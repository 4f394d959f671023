package types

// Provider identifies a payment gateway.
type Provider string

const (
	ProviderPaystack Provider = "paystack"
	ProviderPayrant  Provider = "payrant"
)

func (p Provider) Valid() bool {
	return p == ProviderPaystack || p == ProviderPayrant
}

// VirtualAccountIdentity is the KYC payload required to provision a
// provider-issued virtual account for a user.
type VirtualAccountIdentity struct {
	Email              string `json:"email" validate:"required,email"`
	DocumentType       string `json:"documentType" validate:"required,oneof=nin bvn passport"`
	DocumentNumber     string `json:"documentNumber" validate:"required,min=8,max=20"`
	VirtualAccountName string `json:"virtualAccountName" validate:"required,min=2,max=100"`
	CustomerName       string `json:"customerName" validate:"required,min=2,max=100"`
	AccountReference   string `json:"accountReference,omitempty"`
}

// VirtualAccountStatus tags the outcome of a get-or-create call.
type VirtualAccountStatus string

const (
	VirtualAccountExists  VirtualAccountStatus = "exists"
	VirtualAccountCreated VirtualAccountStatus = "success"
)

// VirtualAccountResult is the normalized response returned to callers for
// both the fresh-provision and already-exists paths.
type VirtualAccountResult struct {
	Status             VirtualAccountStatus `json:"status"`
	AccountNo          string               `json:"account_no"`
	VirtualAccountName string               `json:"virtualAccountName"`
	BankName           string               `json:"bank_name,omitempty"`
	Provider           Provider             `json:"provider"`
	Reference          string               `json:"reference,omitempty"`
}

// ProvisionedAccount is what a gateway client returns after issuing a
// virtual account, before it is persisted.
type ProvisionedAccount struct {
	AccountNumber string
	AccountName   string
	BankName      string
	Reference     string
}

// PayrantVirtualAccountRequest is the Payrant account issuance payload.
type PayrantVirtualAccountRequest struct {
	Email              string `json:"email"`
	DocumentType       string `json:"documentType"`
	DocumentNumber     string `json:"documentNumber"`
	VirtualAccountName string `json:"virtualAccountName"`
	CustomerName       string `json:"customerName"`
	AccountReference   string `json:"accountReference"`
}

type PayrantVirtualAccountResponse struct {
	AccountNo          string `json:"account_no"`
	VirtualAccountName string `json:"virtualAccountName"`
	BankName           string `json:"bank_name"`
	Reference          string `json:"reference"`
}

type BalanceUpdateEvent struct {
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
	NetAmount     int64  `json:"net_amount"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
}

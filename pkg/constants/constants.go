package constants

// System wallet identifiers. These rows are seeded by the migrations and
// referenced by the ledger worker when splitting inflows.
const (
	WalletExternalID = "00000000-0000-0000-0000-000000000001"
	WalletPlatformID = "00000000-0000-0000-0000-000000000002"
)

// DefaultCurrency is the only settlement currency the service supports.
const DefaultCurrency = "NGN"

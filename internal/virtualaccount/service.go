package virtualaccount

import (
	"context"
	"errors"
	"fmt"

	"github.com/Demilade/Kudi/internal/middleware"
	"github.com/Demilade/Kudi/internal/model"
	"github.com/Demilade/Kudi/internal/psp"
	"github.com/Demilade/Kudi/pkg/types"
	"github.com/google/uuid"
)

// ErrUnknownProvider is returned when no gateway client is registered for
// the requested provider.
var ErrUnknownProvider = errors.New("unknown payment provider")

// Service maps each user to exactly one active virtual account per provider.
// Repeated calls are idempotent: an existing row short-circuits before any
// outbound provider call.
type Service struct {
	repo      VirtualAccountRepository
	providers map[types.Provider]psp.VirtualAccountProvider
}

func NewService(repo VirtualAccountRepository, providers map[types.Provider]psp.VirtualAccountProvider) *Service {
	return &Service{
		repo:      repo,
		providers: providers,
	}
}

// GetOrCreate returns the user's virtual account for the provider,
// provisioning one on first call. Concurrent duplicate attempts are settled
// by the unique index: the losing insert re-fetches the winning row instead
// of erroring out.
func (s *Service) GetOrCreate(ctx context.Context, userID uuid.UUID, provider types.Provider, identity *types.VirtualAccountIdentity) (*types.VirtualAccountResult, error) {
	logger := middleware.GetLogger(ctx)

	existing, err := s.repo.Find(ctx, userID, provider)
	if err == nil {
		logger.Info().
			Str("provider", string(provider)).
			Str("user_id", userID.String()).
			Msg("Virtual account already exists, skipping provider call")
		return toResult(existing, types.VirtualAccountExists), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up virtual account: %w", err)
	}

	client, ok := s.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	provisioned, err := client.CreateVirtualAccount(ctx, identity)
	if err != nil {
		logger.Error().Err(err).
			Str("provider", string(provider)).
			Str("user_id", userID.String()).
			Msg("Provider virtual account creation failed")
		// Nothing persisted on a failed provider call
		return nil, err
	}

	va := &model.VirtualAccount{
		UserID:         userID,
		Provider:       provider,
		AccountNumber:  provisioned.AccountNumber,
		AccountName:    provisioned.AccountName,
		BankName:       provisioned.BankName,
		DocumentType:   identity.DocumentType,
		DocumentNumber: identity.DocumentNumber,
		Reference:      provisioned.Reference,
	}

	if err := s.repo.Insert(ctx, va); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// A concurrent request beat us to the insert. The index
			// guarantees their row is the single active one; return it.
			logger.Warn().
				Str("provider", string(provider)).
				Str("user_id", userID.String()).
				Msg("Concurrent virtual account creation detected, returning existing row")
			winner, findErr := s.repo.Find(ctx, userID, provider)
			if findErr != nil {
				return nil, fmt.Errorf("failed to re-fetch virtual account after conflict: %w", findErr)
			}
			return toResult(winner, types.VirtualAccountExists), nil
		}
		return nil, fmt.Errorf("failed to persist virtual account: %w", err)
	}

	logger.Info().
		Str("provider", string(provider)).
		Str("user_id", userID.String()).
		Str("account_number", va.AccountNumber).
		Msg("Virtual account provisioned")

	return toResult(va, types.VirtualAccountCreated), nil
}

// Get returns the user's active virtual account, or ErrNotFound when none
// has been provisioned yet.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, provider types.Provider) (*types.VirtualAccountResult, error) {
	va, err := s.repo.Find(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	return toResult(va, types.VirtualAccountExists), nil
}

// Deactivate soft-disables the user's account for the provider.
func (s *Service) Deactivate(ctx context.Context, userID uuid.UUID, provider types.Provider) error {
	return s.repo.Deactivate(ctx, userID, provider)
}

func toResult(va *model.VirtualAccount, status types.VirtualAccountStatus) *types.VirtualAccountResult {
	return &types.VirtualAccountResult{
		Status:             status,
		AccountNo:          va.AccountNumber,
		VirtualAccountName: va.AccountName,
		BankName:           va.BankName,
		Provider:           va.Provider,
		Reference:          va.Reference,
	}
}

package virtualaccount

import (
	"context"
	"errors"
	"testing"

	"github.com/Demilade/Kudi/internal/model"
	"github.com/Demilade/Kudi/internal/psp"
	"github.com/Demilade/Kudi/pkg/types"
	"github.com/google/uuid"
)

type stubRepo struct {
	findResult    *model.VirtualAccount
	findErr       error
	insertErr     error
	inserted      *model.VirtualAccount
	findCalls     int
	insertCalls   int
	findOnRetry   *model.VirtualAccount
	deactivateErr error
}

func (s *stubRepo) Find(ctx context.Context, userID uuid.UUID, provider types.Provider) (*model.VirtualAccount, error) {
	s.findCalls++
	if s.findCalls > 1 && s.findOnRetry != nil {
		return s.findOnRetry, nil
	}
	return s.findResult, s.findErr
}

func (s *stubRepo) Insert(ctx context.Context, va *model.VirtualAccount) error {
	s.insertCalls++
	s.inserted = va
	return s.insertErr
}

func (s *stubRepo) Deactivate(ctx context.Context, userID uuid.UUID, provider types.Provider) error {
	return s.deactivateErr
}

type stubProvider struct {
	account *types.ProvisionedAccount
	err     error
	calls   int
}

func (s *stubProvider) CreateVirtualAccount(ctx context.Context, identity *types.VirtualAccountIdentity) (*types.ProvisionedAccount, error) {
	s.calls++
	return s.account, s.err
}

func testIdentity() *types.VirtualAccountIdentity {
	return &types.VirtualAccountIdentity{
		Email:              "ada@example.com",
		DocumentType:       "bvn",
		DocumentNumber:     "22212345678",
		VirtualAccountName: "Ada Obi",
		CustomerName:       "Ada Obi",
	}
}

func newTestService(repo *stubRepo, provider *stubProvider) *Service {
	return NewService(repo, map[types.Provider]psp.VirtualAccountProvider{
		types.ProviderPayrant: provider,
	})
}

func TestGetOrCreateProvisionsOnFirstCall(t *testing.T) {
	repo := &stubRepo{findErr: ErrNotFound}
	provider := &stubProvider{account: &types.ProvisionedAccount{
		AccountNumber: "9012345678",
		AccountName:   "Ada Obi",
		BankName:      "PalmPay",
		Reference:     "VTU_1",
	}}
	svc := newTestService(repo, provider)

	userID := uuid.New()
	result, err := svc.GetOrCreate(context.Background(), userID, types.ProviderPayrant, testIdentity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != types.VirtualAccountCreated {
		t.Errorf("expected status %q, got %q", types.VirtualAccountCreated, result.Status)
	}
	if result.AccountNo != "9012345678" {
		t.Errorf("unexpected account number %q", result.AccountNo)
	}
	if provider.calls != 1 {
		t.Errorf("expected exactly one provider call, got %d", provider.calls)
	}
	if repo.insertCalls != 1 {
		t.Errorf("expected exactly one insert, got %d", repo.insertCalls)
	}
	if repo.inserted.UserID != userID {
		t.Errorf("persisted row has wrong user id")
	}
	if repo.inserted.DocumentType != "bvn" || repo.inserted.DocumentNumber != "22212345678" {
		t.Errorf("identity not persisted: %+v", repo.inserted)
	}
}

func TestGetOrCreateReturnsExistingWithoutProviderCall(t *testing.T) {
	existing := &model.VirtualAccount{
		UserID:        uuid.New(),
		Provider:      types.ProviderPayrant,
		AccountNumber: "9012345678",
		AccountName:   "Ada Obi",
		BankName:      "PalmPay",
	}
	repo := &stubRepo{findResult: existing}
	provider := &stubProvider{}
	svc := newTestService(repo, provider)

	result, err := svc.GetOrCreate(context.Background(), existing.UserID, types.ProviderPayrant, testIdentity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != types.VirtualAccountExists {
		t.Errorf("expected status %q, got %q", types.VirtualAccountExists, result.Status)
	}
	if provider.calls != 0 {
		t.Errorf("existing account must not trigger a provider call, got %d", provider.calls)
	}
	if repo.insertCalls != 0 {
		t.Errorf("existing account must not be re-inserted, got %d inserts", repo.insertCalls)
	}
}

func TestGetOrCreateProviderFailureLeavesNothingPersisted(t *testing.T) {
	repo := &stubRepo{findErr: ErrNotFound}
	providerErr := &psp.Error{Provider: "payrant", Message: "KYC rejected", StatusCode: 422}
	provider := &stubProvider{err: providerErr}
	svc := newTestService(repo, provider)

	_, err := svc.GetOrCreate(context.Background(), uuid.New(), types.ProviderPayrant, testIdentity())
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
	var pspErr *psp.Error
	if !errors.As(err, &pspErr) {
		t.Fatalf("expected *psp.Error, got %T", err)
	}
	if repo.insertCalls != 0 {
		t.Errorf("failed provisioning must not persist anything, got %d inserts", repo.insertCalls)
	}
}

func TestGetOrCreateConcurrentDuplicateReturnsWinner(t *testing.T) {
	winner := &model.VirtualAccount{
		UserID:        uuid.New(),
		Provider:      types.ProviderPayrant,
		AccountNumber: "9099999999",
		AccountName:   "Ada Obi",
		BankName:      "PalmPay",
	}
	repo := &stubRepo{
		findErr:     ErrNotFound,
		insertErr:   ErrDuplicate,
		findOnRetry: winner,
	}
	provider := &stubProvider{account: &types.ProvisionedAccount{
		AccountNumber: "9011111111",
		AccountName:   "Ada Obi",
		BankName:      "PalmPay",
	}}
	svc := newTestService(repo, provider)

	result, err := svc.GetOrCreate(context.Background(), winner.UserID, types.ProviderPayrant, testIdentity())
	if err != nil {
		t.Fatalf("losing the insert race must not surface an error: %v", err)
	}
	if result.Status != types.VirtualAccountExists {
		t.Errorf("expected status %q after losing the race, got %q", types.VirtualAccountExists, result.Status)
	}
	if result.AccountNo != "9099999999" {
		t.Errorf("expected the winning row's account %q, got %q", "9099999999", result.AccountNo)
	}
}

func TestGetOrCreateUnknownProvider(t *testing.T) {
	repo := &stubRepo{findErr: ErrNotFound}
	svc := newTestService(repo, &stubProvider{})

	_, err := svc.GetOrCreate(context.Background(), uuid.New(), types.Provider("flutterwave"), testIdentity())
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestGetPassesThroughNotFound(t *testing.T) {
	repo := &stubRepo{findErr: ErrNotFound}
	svc := newTestService(repo, &stubProvider{})

	_, err := svc.Get(context.Background(), uuid.New(), types.ProviderPayrant)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

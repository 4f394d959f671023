package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/Demilade/Kudi/internal/psp"
	"github.com/Demilade/Kudi/pkg/types"
)

type stubGateway struct {
	verifyResp  *types.VerifyChargeResponse
	verifyErr   error
	verifiedRef string
}

func (s *stubGateway) InitializeCharge(ctx context.Context, req *types.InitializeChargeRequest) (*types.InitializeChargeResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubGateway) VerifyCharge(ctx context.Context, reference string) (*types.VerifyChargeResponse, error) {
	s.verifiedRef = reference
	return s.verifyResp, s.verifyErr
}

func TestVerifyChargeDelegatesToGateway(t *testing.T) {
	resp := &types.VerifyChargeResponse{Status: true, Message: "Verification successful"}
	resp.Data.Reference = "VTU_1"
	resp.Data.Status = "success"
	gateway := &stubGateway{verifyResp: resp}

	svc := NewTransactionService(nil, nil, gateway)
	got, err := svc.VerifyCharge(context.Background(), "VTU_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.verifiedRef != "VTU_1" {
		t.Errorf("expected reference forwarded, got %q", gateway.verifiedRef)
	}
	if got.Data.Status != "success" {
		t.Errorf("unexpected status %q", got.Data.Status)
	}
}

func TestVerifyChargePropagatesGatewayError(t *testing.T) {
	gateway := &stubGateway{verifyErr: &psp.Error{Provider: "paystack", Message: "Transaction not found", StatusCode: 404}}

	svc := NewTransactionService(nil, nil, gateway)
	_, err := svc.VerifyCharge(context.Background(), "missing")

	var pspErr *psp.Error
	if !errors.As(err, &pspErr) {
		t.Fatalf("expected *psp.Error, got %T", err)
	}
	if pspErr.Message != "Transaction not found" {
		t.Errorf("unexpected message %q", pspErr.Message)
	}
}

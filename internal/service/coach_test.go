package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/infra/memory"
	"github.com/boddenberg/homi-brain-go/internal/service"

	"go.uber.org/zap"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func newCoachService(t *testing.T) *service.CoachService {
	t.Helper()
	store := memory.NewStore()
	if err := store.SeedDemoCoach(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return service.NewCoachService(store, testSecret, time.Hour, zap.NewNop())
}

func TestSignIn_IssuesValidToken(t *testing.T) {
	svc := newCoachService(t)

	resp, err := svc.SignIn(context.Background(), &domain.CoachSignInRequest{
		Email:    "Demo@Coach.com",
		Password: memory.DemoCoachPassword,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("expected expiresIn 3600, got %d", resp.ExpiresIn)
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("expected token to validate, got %v", err)
	}
	if claims.Sub != resp.Coach.ID {
		t.Errorf("expected sub %q, got %q", resp.Coach.ID, claims.Sub)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc := newCoachService(t)

	_, err := svc.SignIn(context.Background(), &domain.CoachSignInRequest{
		Email:    memory.DemoCoachEmail,
		Password: "nope",
	})
	var ue *domain.ErrUnauthorized
	if !errors.As(err, &ue) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSignIn_UnknownEmail(t *testing.T) {
	svc := newCoachService(t)

	_, err := svc.SignIn(context.Background(), &domain.CoachSignInRequest{
		Email:    "ghost@coach.com",
		Password: memory.DemoCoachPassword,
	})
	var ue *domain.ErrUnauthorized
	if !errors.As(err, &ue) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSignIn_MissingFields(t *testing.T) {
	svc := newCoachService(t)

	_, err := svc.SignIn(context.Background(), &domain.CoachSignInRequest{Email: memory.DemoCoachEmail})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateAccessToken_RejectsForeignSecret(t *testing.T) {
	svc := newCoachService(t)
	other := service.NewCoachService(memory.NewStore(), "a-completely-different-secret-value", time.Hour, zap.NewNop())

	resp, err := svc.SignIn(context.Background(), &domain.CoachSignInRequest{
		Email:    memory.DemoCoachEmail,
		Password: memory.DemoCoachPassword,
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if _, err := other.ValidateAccessToken(resp.AccessToken); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
	if _, err := svc.ValidateAccessToken("not-a-jwt"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}

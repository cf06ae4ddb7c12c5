package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/infra/memory"
)

func TestJoinWaitlist_NormalizesAndLogs(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newAdvisor(t, store, 1)

	score := 72
	entry, err := svc.JoinWaitlist(context.Background(), &domain.WaitlistRequest{
		Email: "  Jane.Doe@Example.com ",
		Score: &score,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if entry.Email != "jane.doe@example.com" {
		t.Errorf("expected lowercased email, got %q", entry.Email)
	}
	if entry.Source != "web" {
		t.Errorf("expected default source web, got %q", entry.Source)
	}

	events := store.Events()
	if len(events) != 1 || events[0].Type != domain.EventWaitlistJoined {
		t.Fatalf("expected one waitlist_joined event, got %+v", events)
	}
	if events[0].Properties["score"] != 72 {
		t.Errorf("expected score in event properties, got %v", events[0].Properties)
	}

	n, err := svc.WaitlistCount(context.Background())
	if err != nil || n != 1 {
		t.Errorf("expected count 1, got %d (%v)", n, err)
	}
}

func TestJoinWaitlist_DuplicateIsConflict(t *testing.T) {
	svc, m := newAdvisor(t, memory.NewStore(), 1)
	ctx := context.Background()

	if _, err := svc.JoinWaitlist(ctx, &domain.WaitlistRequest{Email: "a@b.co"}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, err := svc.JoinWaitlist(ctx, &domain.WaitlistRequest{Email: "A@B.CO"})
	var ce *domain.ErrConflict
	if !errors.As(err, &ce) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if got := m.GetSnapshot().StoreErrors; got != 0 {
		t.Errorf("expected a duplicate not to count as a store error, got %v", got)
	}
}

func TestJoinWaitlist_StoreFailureIsCounted(t *testing.T) {
	svc, m := newAdvisor(t, &failingStore{err: errors.New("connection refused")}, 1)

	if _, err := svc.JoinWaitlist(context.Background(), &domain.WaitlistRequest{Email: "a@b.co"}); err == nil {
		t.Fatal("expected an error")
	}
	if got := m.GetSnapshot().StoreErrors; got != 1 {
		t.Errorf("expected 1 store error, got %v", got)
	}
}

func TestJoinWaitlist_Validation(t *testing.T) {
	svc, _ := newAdvisor(t, memory.NewStore(), 1)

	bad := 101
	cases := []struct {
		name  string
		req   domain.WaitlistRequest
		field string
	}{
		{"empty email", domain.WaitlistRequest{}, "email"},
		{"no domain", domain.WaitlistRequest{Email: "jane@localhost"}, "email"},
		{"display name", domain.WaitlistRequest{Email: "Jane <jane@example.com>"}, "email"},
		{"score above 100", domain.WaitlistRequest{Email: "jane@example.com", Score: &bad}, "score"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.JoinWaitlist(context.Background(), &tc.req)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
		})
	}
}

func TestWaitlistCount_StoreError(t *testing.T) {
	svc, m := newAdvisor(t, &failingStore{err: errors.New("down")}, 1)

	if _, err := svc.WaitlistCount(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if m.GetSnapshot().StoreErrors != 1 {
		t.Error("expected the store error to be counted")
	}
}

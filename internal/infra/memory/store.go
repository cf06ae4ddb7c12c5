// Package memory is an in-process port.Store for local runs and tests.
// Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/port"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Demo coach seeded by SeedDemoCoach.
const (
	DemoCoachEmail    = "demo@coach.com"
	DemoCoachPassword = "demo123"
)

// Store is an in-memory implementation of port.Store.
type Store struct {
	mu          sync.RWMutex
	assessments []domain.Assessment
	events      []domain.Event
	waitlist    map[string]domain.WaitlistEntry // keyed by lower-cased email
	coaches     map[string]domain.Coach         // keyed by lower-cased email
}

// Compile-time interface check.
var _ port.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		waitlist: make(map[string]domain.WaitlistEntry),
		coaches:  make(map[string]domain.Coach),
	}
}

// DemoCoach builds the demo coach account used with DEV_AUTH.
func DemoCoach() (domain.Coach, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoCoachPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Coach{}, fmt.Errorf("hash demo password: %w", err)
	}
	return domain.Coach{
		ID:           uuid.NewString(),
		Email:        DemoCoachEmail,
		Name:         "Demo Coach",
		PasswordHash: string(hash),
	}, nil
}

// SeedDemoCoach adds the demo coach.
func (s *Store) SeedDemoCoach() error {
	c, err := DemoCoach()
	if err != nil {
		return err
	}
	s.AddCoach(c)
	return nil
}

// AddCoach inserts or replaces a coach.
func (s *Store) AddCoach(c domain.Coach) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coaches[strings.ToLower(c.Email)] = c
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// SaveAssessment stores a copy of a.
func (s *Store) SaveAssessment(_ context.Context, a *domain.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assessments {
		if existing.ID == a.ID {
			return &domain.ErrConflict{Message: "assessment already exists"}
		}
	}
	s.assessments = append(s.assessments, *a)
	return nil
}

// ListAssessments returns up to limit assessments, newest first.
func (s *Store) ListAssessments(_ context.Context, limit int) ([]domain.Assessment, error) {
	s.mu.RLock()
	out := make([]domain.Assessment, len(s.assessments))
	copy(out, s.assessments)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LogEvent appends an event.
func (s *Store) LogEvent(_ context.Context, eventType string, props map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Properties: props,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

// Events returns a copy of the logged events.
func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// JoinWaitlist stores e unless its email is already listed.
func (s *Store) JoinWaitlist(_ context.Context, e *domain.WaitlistEntry) error {
	key := strings.ToLower(e.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.waitlist[key]; exists {
		return &domain.ErrConflict{Message: "email already on the waitlist"}
	}
	s.waitlist[key] = *e
	return nil
}

// CountWaitlist returns the number of sign-ups.
func (s *Store) CountWaitlist(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.waitlist), nil
}

// GetCoachByEmail returns a copy of the coach.
func (s *Store) GetCoachByEmail(_ context.Context, email string) (*domain.Coach, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.coaches[strings.ToLower(email)]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "coach", ID: email}
	}
	return &c, nil
}

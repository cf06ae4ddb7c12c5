// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

// Cache provides keyed storage with a TTL fixed by the implementation.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
}

// AssessmentStore persists completed assessments and analytics events.
type AssessmentStore interface {
	SaveAssessment(ctx context.Context, a *domain.Assessment) error
	ListAssessments(ctx context.Context, limit int) ([]domain.Assessment, error)
	LogEvent(ctx context.Context, eventType string, props map[string]any) error
}

// WaitlistStore keeps waitlist sign-ups. JoinWaitlist returns
// *domain.ErrConflict when the email is already listed.
type WaitlistStore interface {
	JoinWaitlist(ctx context.Context, entry *domain.WaitlistEntry) error
	CountWaitlist(ctx context.Context) (int, error)
}

// CoachStore looks up coach credentials. GetCoachByEmail returns
// *domain.ErrNotFound for unknown emails.
type CoachStore interface {
	GetCoachByEmail(ctx context.Context, email string) (*domain.Coach, error)
}

// Store is everything a persistence backend provides.
type Store interface {
	AssessmentStore
	WaitlistStore
	CoachStore
	Ping(ctx context.Context) error
}

// AdvisorStore is the persistence the advisor service writes to.
type AdvisorStore interface {
	AssessmentStore
	WaitlistStore
}

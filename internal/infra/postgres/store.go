package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"
	"github.com/boddenberg/homi-brain-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("postgres")

// Store implements port.Store.
type Store struct {
	pool *Pool
}

// NewStore creates a Store on pool.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

// Compile-time interface check.
var _ port.Store = (*Store)(nil)

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// SaveAssessment inserts one assessment. Headline numbers get columns; the
// full assessment is kept as JSONB.
func (s *Store) SaveAssessment(ctx context.Context, a *domain.Assessment) error {
	ctx, span := tracer.Start(ctx, "Postgres.SaveAssessment")
	defer span.End()

	result, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}

	var (
		score, decision        = 0, ""
		successRate, riskLevel = 0.0, ""
		resilience             = ""
	)
	if a.Score != nil {
		score, decision = a.Score.Total, string(a.Score.Decision)
	}
	if a.Simulation != nil {
		successRate, riskLevel = a.Simulation.SuccessRatePercent, string(a.Simulation.RiskLevel)
	}
	if a.StressTest != nil {
		resilience = string(a.StressTest.Resilience)
	}

	query := `
		INSERT INTO assessments (
			id, created_at, email, location, timeline, annual_income, property_price, down_payment,
			total_score, decision, success_rate, risk_level, resilience, result
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = s.pool.Exec(ctx, query,
		a.ID, a.CreatedAt, nullable(a.Email), nullable(a.Location), nullable(a.Timeline),
		a.Household.AnnualIncome, a.PropertyPrice, a.DownPayment,
		score, decision, successRate, riskLevel, resilience, result,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return &domain.ErrConflict{Message: "assessment already exists"}
		}
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// ListAssessments returns the newest assessments first.
func (s *Store) ListAssessments(ctx context.Context, limit int) ([]domain.Assessment, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListAssessments")
	defer span.End()

	rows, err := s.pool.Query(ctx, `SELECT result FROM assessments ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assessment
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		var a domain.Assessment
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode assessment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}

// LogEvent appends an analytics event.
func (s *Store) LogEvent(ctx context.Context, eventType string, props map[string]any) error {
	ctx, span := tracer.Start(ctx, "Postgres.LogEvent")
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, event_type, properties, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), eventType, props, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// JoinWaitlist inserts a sign-up. A repeated email is *domain.ErrConflict.
func (s *Store) JoinWaitlist(ctx context.Context, e *domain.WaitlistEntry) error {
	ctx, span := tracer.Start(ctx, "Postgres.JoinWaitlist")
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO waitlist (id, email, score, source, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, strings.ToLower(e.Email), e.Score, e.Source, e.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return &domain.ErrConflict{Message: "email already on the waitlist"}
		}
		return fmt.Errorf("insert waitlist entry: %w", err)
	}
	return nil
}

// CountWaitlist returns the number of sign-ups.
func (s *Store) CountWaitlist(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM waitlist`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count waitlist: %w", err)
	}
	return n, nil
}

// GetCoachByEmail loads a coach with the stored bcrypt hash.
func (s *Store) GetCoachByEmail(ctx context.Context, email string) (*domain.Coach, error) {
	var c domain.Coach
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash FROM coaches WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash)
	if err != nil {
		if isNotFoundError(err) {
			return nil, &domain.ErrNotFound{Resource: "coach", ID: email}
		}
		return nil, fmt.Errorf("get coach: %w", err)
	}
	return &c, nil
}

// CreateCoach inserts a coach account.
func (s *Store) CreateCoach(ctx context.Context, c *domain.Coach) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO coaches (id, email, name, password_hash) VALUES ($1, $2, $3, $4)`,
		c.ID, strings.ToLower(c.Email), c.Name, c.PasswordHash,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return &domain.ErrConflict{Message: "coach already exists"}
		}
		return fmt.Errorf("insert coach: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

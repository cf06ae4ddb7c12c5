package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	t.Run("assessments newest first", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Millisecond)
		for i, decision := range []domain.Decision{domain.DecisionNo, domain.DecisionNotYet, domain.DecisionYes} {
			a := &domain.Assessment{
				ID:            uuid.NewString(),
				CreatedAt:     base.Add(time.Duration(i) * time.Minute),
				PropertyPrice: 300000 + float64(i),
				Household:     domain.HouseholdFinancials{AnnualIncome: 100000},
				Score:         &domain.HomiScore{Total: 50 + 15*i, Decision: decision},
				Simulation:    &domain.SimulationResult{SuccessRatePercent: 80, RiskLevel: domain.RiskModerate, Simulations: 100},
				StressTest:    &domain.StressTestReport{Resilience: domain.ResilienceGood},
			}
			require.NoError(t, store.SaveAssessment(ctx, a))
		}

		list, err := store.ListAssessments(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, domain.DecisionYes, list[0].Score.Decision)
		assert.Equal(t, 300002.0, list[0].PropertyPrice)
		assert.Equal(t, domain.DecisionNotYet, list[1].Score.Decision)
	})

	t.Run("timeline column", func(t *testing.T) {
		a := &domain.Assessment{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			Timeline:  "12+ months",
			Score:     &domain.HomiScore{Total: 70, Decision: domain.DecisionNotYet},
		}
		require.NoError(t, store.SaveAssessment(ctx, a))

		var timeline string
		require.NoError(t, store.pool.QueryRow(ctx, `SELECT timeline FROM assessments WHERE id = $1`, a.ID).Scan(&timeline))
		assert.Equal(t, "12+ months", timeline)
	})

	t.Run("events", func(t *testing.T) {
		require.NoError(t, store.LogEvent(ctx, domain.EventAssessmentCompleted, map[string]any{"score": 72}))
	})

	t.Run("waitlist conflict and count", func(t *testing.T) {
		entry := &domain.WaitlistEntry{ID: uuid.NewString(), Email: "Buyer@Example.com", Score: ptr(71), Source: "web", CreatedAt: time.Now()}
		require.NoError(t, store.JoinWaitlist(ctx, entry))

		dup := &domain.WaitlistEntry{ID: uuid.NewString(), Email: "buyer@example.com", Source: "web", CreatedAt: time.Now()}
		var conflict *domain.ErrConflict
		require.ErrorAs(t, store.JoinWaitlist(ctx, dup), &conflict)

		n, err := store.CountWaitlist(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("coaches", func(t *testing.T) {
		require.NoError(t, store.CreateCoach(ctx, &domain.Coach{ID: uuid.NewString(), Email: "coach@homi.app", Name: "Coach", PasswordHash: "hash"}))

		c, err := store.GetCoachByEmail(ctx, "COACH@homi.app")
		require.NoError(t, err)
		assert.Equal(t, "hash", c.PasswordHash)

		_, err = store.GetCoachByEmail(ctx, "missing@homi.app")
		var nf *domain.ErrNotFound
		assert.ErrorAs(t, err, &nf)
	})

	require.NoError(t, store.Ping(ctx))
}

package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/homi-brain-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// assessmentRow maps the assessments table. Headline numbers get their own
// columns for dashboards; the full assessment rides along in result.
type assessmentRow struct {
	ID            string             `json:"id"`
	CreatedAt     time.Time          `json:"created_at"`
	Email         string             `json:"email,omitempty"`
	Location      string             `json:"location,omitempty"`
	Timeline      string             `json:"timeline,omitempty"`
	AnnualIncome  float64            `json:"annual_income"`
	PropertyPrice float64            `json:"property_price"`
	DownPayment   float64            `json:"down_payment"`
	TotalScore    int                `json:"total_score"`
	Decision      string             `json:"decision"`
	SuccessRate   float64            `json:"success_rate"`
	RiskLevel     string             `json:"risk_level"`
	Resilience    string             `json:"resilience"`
	Result        *domain.Assessment `json:"result"`
}

func toAssessmentRow(a *domain.Assessment) assessmentRow {
	row := assessmentRow{
		ID:            a.ID,
		CreatedAt:     a.CreatedAt,
		Email:         a.Email,
		Location:      a.Location,
		Timeline:      a.Timeline,
		AnnualIncome:  a.Household.AnnualIncome,
		PropertyPrice: a.PropertyPrice,
		DownPayment:   a.DownPayment,
		Result:        a,
	}
	if a.Score != nil {
		row.TotalScore = a.Score.Total
		row.Decision = string(a.Score.Decision)
	}
	if a.Simulation != nil {
		row.SuccessRate = a.Simulation.SuccessRatePercent
		row.RiskLevel = string(a.Simulation.RiskLevel)
	}
	if a.StressTest != nil {
		row.Resilience = string(a.StressTest.Resilience)
	}
	return row
}

// SaveAssessment inserts one assessment.
func (c *Client) SaveAssessment(ctx context.Context, a *domain.Assessment) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveAssessment")
	defer span.End()
	span.SetAttributes(attribute.String("assessment.id", a.ID))

	_, err := c.call(ctx, http.MethodPost, "assessments", toAssessmentRow(a), "return=minimal")
	return err
}

// ListAssessments returns the newest assessments first.
func (c *Client) ListAssessments(ctx context.Context, limit int) ([]domain.Assessment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAssessments")
	defer span.End()

	path := fmt.Sprintf("assessments?select=result&order=created_at.desc&limit=%d", limit)
	resp, err := c.call(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Result *domain.Assessment `json:"result"`
	}
	if err := json.Unmarshal(resp.body, &rows); err != nil {
		return nil, fmt.Errorf("decode assessments: %w", err)
	}

	out := make([]domain.Assessment, 0, len(rows))
	for _, r := range rows {
		if r.Result != nil {
			out = append(out, *r.Result)
		}
	}
	return out, nil
}

// LogEvent appends an analytics event.
func (c *Client) LogEvent(ctx context.Context, eventType string, props map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.LogEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event.type", eventType))

	_, err := c.call(ctx, http.MethodPost, "events", map[string]any{
		"event_type": eventType,
		"properties": props,
	}, "return=minimal")
	return err
}

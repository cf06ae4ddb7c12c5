package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

type coachRow struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
}

// GetCoachByEmail loads a coach with the stored bcrypt hash.
func (c *Client) GetCoachByEmail(ctx context.Context, email string) (*domain.Coach, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCoachByEmail")
	defer span.End()

	path := fmt.Sprintf("coaches?email=eq.%s&limit=1", url.QueryEscape(email))
	resp, err := c.call(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []coachRow
	if err := json.Unmarshal(resp.body, &rows); err != nil {
		return nil, fmt.Errorf("decode coaches: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "coach", ID: email}
	}
	r := rows[0]
	return &domain.Coach{ID: r.ID, Email: r.Email, Name: r.Name, PasswordHash: r.PasswordHash}, nil
}

package supabase

import (
	"context"
	"net/http"

	"github.com/boddenberg/homi-brain-go/internal/domain"
)

// JoinWaitlist inserts a sign-up. The table's unique email constraint turns
// repeats into *domain.ErrConflict.
func (c *Client) JoinWaitlist(ctx context.Context, entry *domain.WaitlistEntry) error {
	ctx, span := tracer.Start(ctx, "Supabase.JoinWaitlist")
	defer span.End()

	_, err := c.call(ctx, http.MethodPost, "waitlist", entry, "return=minimal")
	return err
}

// CountWaitlist asks PostgREST for an exact count without fetching rows.
func (c *Client) CountWaitlist(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountWaitlist")
	defer span.End()

	resp, err := c.call(ctx, http.MethodGet, "waitlist?select=id&limit=1", nil, "count=exact")
	if err != nil {
		return 0, err
	}
	return totalFromContentRange(resp.contentRange)
}

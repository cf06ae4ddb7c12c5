package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/boddenberg/homi-brain-go/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultWaitlistSource = "web"

// ============================================================
// Waitlist — POST /v1/waitlist, GET /v1/waitlist/count
// ============================================================

// JoinWaitlist signs an email up once. A repeat sign-up surfaces the
// store's *domain.ErrConflict.
func (a *Advisor) JoinWaitlist(ctx context.Context, req *domain.WaitlistRequest) (*domain.WaitlistEntry, error) {
	ctx, span := tracer.Start(ctx, "Advisor.JoinWaitlist")
	defer span.End()

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if req.Score != nil && (*req.Score < 0 || *req.Score > 100) {
		return nil, invalid("score", "must be between 0 and 100")
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = defaultWaitlistSource
	}

	entry := &domain.WaitlistEntry{
		ID:        uuid.NewString(),
		Email:     email,
		Score:     req.Score,
		Source:    source,
		CreatedAt: a.now().UTC(),
	}
	if err := a.store.JoinWaitlist(ctx, entry); err != nil {
		var conflict *domain.ErrConflict
		if !errors.As(err, &conflict) {
			a.metrics.IncrStoreError("join_waitlist")
		}
		return nil, fmt.Errorf("join waitlist: %w", err)
	}

	props := map[string]any{"source": source}
	if req.Score != nil {
		props["score"] = *req.Score
	}
	if err := a.store.LogEvent(ctx, domain.EventWaitlistJoined, props); err != nil {
		a.metrics.IncrStoreError("log_event")
		a.logger.Warn("failed to log waitlist event", zap.Error(err))
	}

	a.logger.Info("waitlist joined", zap.String("waitlist_id", entry.ID), zap.String("source", source))
	return entry, nil
}

// WaitlistCount returns the number of sign-ups.
func (a *Advisor) WaitlistCount(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "Advisor.WaitlistCount")
	defer span.End()

	n, err := a.store.CountWaitlist(ctx)
	if err != nil {
		a.metrics.IncrStoreError("count_waitlist")
		return 0, fmt.Errorf("count waitlist: %w", err)
	}
	return n, nil
}

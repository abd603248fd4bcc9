package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/matching"
	"github.com/spigell/career-match/internal/store"
)

const candidatesTable = "candidates"

func (c *Client) GetCandidate(ctx context.Context, id string) (matching.Candidate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return matching.Candidate{}, fmt.Errorf("candidate %q: %w", id, store.ErrNotFound)
	}

	return c.getCandidate(ctx, "id", id)
}

func (c *Client) GetCandidateByEmail(ctx context.Context, email string) (matching.Candidate, error) {
	return c.getCandidate(ctx, "email", email)
}

func (c *Client) getCandidate(ctx context.Context, column, value string) (matching.Candidate, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set(column, eq(value))
	q.Set("limit", "1")

	rows, err := c.getRows(ctx, candidatesTable, q)
	if err != nil {
		return matching.Candidate{}, fmt.Errorf("getting candidate by %s: %w", column, err)
	}
	if len(rows) == 0 {
		return matching.Candidate{}, fmt.Errorf("candidate with %s %q: %w", column, value, store.ErrNotFound)
	}

	var candidate matching.Candidate
	if err := decodeRows(rows[0], &candidate); err != nil {
		return matching.Candidate{}, fmt.Errorf("decoding candidate: %w", err)
	}

	return candidate, nil
}

func (c *Client) ListPublishedCandidates(ctx context.Context) ([]matching.Candidate, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("profile_published", eq("true"))
	q.Set("consent_given", eq("true"))
	q.Set("order", newestFirst)

	rows, err := c.getRows(ctx, candidatesTable, q)
	if err != nil {
		return nil, fmt.Errorf("listing published candidates: %w", err)
	}

	candidates := make([]matching.Candidate, 0, len(rows))
	if err := decodeRows(rows, &candidates); err != nil {
		return nil, fmt.Errorf("decoding candidates: %w", err)
	}

	return candidates, nil
}

// SaveGeneratedProfile stores the profile on the candidate with the given email.
func (c *Client) SaveGeneratedProfile(ctx context.Context, email string, profile *matching.GeneratedProfile, at time.Time) error {
	q := url.Values{}
	q.Set("email", eq(email))

	payload := map[string]any{
		"generated_profile":    profile,
		"profile_generated_at": at.UTC().Format(time.RFC3339),
	}

	rows, err := c.sendRows(ctx, http.MethodPatch, candidatesTable, q, payload)
	if err != nil {
		return fmt.Errorf("saving generated profile: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("candidate with email %q: %w", email, store.ErrNotFound)
	}

	c.logger.Debug("generated profile saved", zap.String("candidate_email", email))

	return nil
}

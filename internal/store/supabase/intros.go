package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spigell/career-match/internal/store"
)

const introsTable = "intros"

// CreateIntro inserts the intro and returns the stored row.
func (c *Client) CreateIntro(ctx context.Context, intro store.Intro) (store.Intro, error) {
	if err := intro.Validate(); err != nil {
		return store.Intro{}, err
	}

	payload := map[string]any{
		"candidate_id":     intro.CandidateID,
		"employer_email":   intro.EmployerEmail,
		"employer_company": intro.EmployerCompany,
		"message":          intro.Message,
		"status":           intro.Status,
	}

	rows, err := c.sendRows(ctx, http.MethodPost, introsTable, nil, payload)
	if err != nil {
		return store.Intro{}, fmt.Errorf("creating intro: %w", err)
	}
	if len(rows) == 0 {
		return store.Intro{}, errors.New("creating intro: no row returned")
	}

	var created store.Intro
	if err := decodeRows(rows[0], &created); err != nil {
		return store.Intro{}, fmt.Errorf("decoding intro: %w", err)
	}

	return created, nil
}

func (c *Client) ListIntrosByEmployer(ctx context.Context, employerEmail string) ([]store.Intro, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("employer_email", eq(employerEmail))
	q.Set("order", newestFirst)

	rows, err := c.getRows(ctx, introsTable, q)
	if err != nil {
		return nil, fmt.Errorf("listing intros: %w", err)
	}

	intros := make([]store.Intro, 0, len(rows))
	if err := decodeRows(rows, &intros); err != nil {
		return nil, fmt.Errorf("decoding intros: %w", err)
	}

	return intros, nil
}

// Stats counts rows with exact PostgREST counts.
func (c *Client) Stats(ctx context.Context) (store.Stats, error) {
	var stats store.Stats

	for _, item := range []struct {
		table  string
		column string
		value  string
		target *int
	}{
		{candidatesTable, "", "", &stats.Candidates},
		{candidatesTable, "is_complete", "true", &stats.CompleteCandidates},
		{candidatesTable, "profile_published", "true", &stats.PublishedCandidates},
		{jobsTable, "", "", &stats.Jobs},
		{introsTable, "", "", &stats.Intros},
		{introsTable, "status", store.IntroStatusPending, &stats.PendingIntros},
	} {
		q := url.Values{}
		if item.column != "" {
			q.Set(item.column, eq(item.value))
		}

		n, err := c.count(ctx, item.table, q)
		if err != nil {
			return store.Stats{}, fmt.Errorf("counting %s: %w", item.table, err)
		}
		*item.target = n
	}

	return stats, nil
}

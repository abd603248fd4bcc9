package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/spigell/career-match/internal/matching"
	"github.com/spigell/career-match/internal/store"
)

const (
	jobsTable   = "jobs"
	newestFirst = "created_at.desc"
)

// ListJobs returns every job, newest first.
func (c *Client) ListJobs(ctx context.Context) ([]matching.Job, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", newestFirst)

	rows, err := c.getRows(ctx, jobsTable, q)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	jobs := make([]matching.Job, 0, len(rows))
	if err := decodeRows(rows, &jobs); err != nil {
		return nil, fmt.Errorf("decoding jobs: %w", err)
	}

	c.logger.Debug("got jobs from datastore")

	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (matching.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return matching.Job{}, fmt.Errorf("job %q: %w", id, store.ErrNotFound)
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", eq(id))
	q.Set("limit", "1")

	rows, err := c.getRows(ctx, jobsTable, q)
	if err != nil {
		return matching.Job{}, fmt.Errorf("getting job %s: %w", id, err)
	}
	if len(rows) == 0 {
		return matching.Job{}, fmt.Errorf("job %s: %w", id, store.ErrNotFound)
	}

	var job matching.Job
	if err := decodeRows(rows[0], &job); err != nil {
		return matching.Job{}, fmt.Errorf("decoding job %s: %w", id, err)
	}

	return job, nil
}

package matching

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// DefaultLimit is the number of matches returned when no positive limit is given.
const DefaultLimit = 5

// JobSource lists job postings, newest first.
type JobSource interface {
	ListJobs(ctx context.Context) ([]Job, error)
}

type Engine struct {
	jobs   JobSource
	logger *zap.Logger
}

func NewEngine(jobs JobSource, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		jobs:   jobs,
		logger: logger,
	}
}

// TopMatches scores every job for the candidate and returns the best limit
// matches. Equal scores keep the order the jobs were listed in.
// An error from the job source is returned as is.
func (e *Engine) TopMatches(ctx context.Context, candidate Candidate, limit int) ([]JobMatch, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	jobs, err := e.jobs.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("scoring jobs",
		zap.String("candidate_name", candidate.Name),
		zap.Int("jobs", len(jobs)),
		zap.Int("limit", limit),
	)

	matches := ScoreJobs(candidate, jobs)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// ScoreJobs scores the candidate against each job and sorts the result by
// descending score, keeping input order on ties.
func ScoreJobs(candidate Candidate, jobs []Job) []JobMatch {
	matches := make([]JobMatch, 0, len(jobs))
	for _, job := range jobs {
		matches = append(matches, ComputeFitScore(candidate, job))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// RankCandidates scores each candidate against one job, best first.
func RankCandidates(job Job, candidates []Candidate) []CandidateMatch {
	ranked := make([]CandidateMatch, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, CandidateMatch{
			Candidate: c,
			Match:     ComputeFitScore(c, job),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Match.Score > ranked[j].Match.Score
	})

	return ranked
}

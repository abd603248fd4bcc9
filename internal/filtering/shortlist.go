package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/matching"
)

// Shortlist is the ranked candidate list for one job.
type Shortlist struct {
	Job   matching.Job              `json:"job"`
	Items []matching.CandidateMatch `json:"candidates"`
}

func NewShortlist(job matching.Job, ranked []matching.CandidateMatch) *Shortlist {
	return &Shortlist{Job: job, Items: ranked}
}

func (s *Shortlist) Len() int {
	return len(s.Items)
}

// Exclude drops the items for which drop returns true and returns the IDs of
// the dropped candidates. Ranking order is preserved.
func (s *Shortlist) Exclude(drop func(matching.CandidateMatch) bool) []string {
	kept := s.Items[:0]
	var excluded []string
	for _, item := range s.Items {
		if drop(item) {
			excluded = append(excluded, item.Candidate.ID)
			continue
		}
		kept = append(kept, item)
	}
	s.Items = kept
	return excluded
}

// CandidateSource provides the job and the candidates open to employers.
type CandidateSource interface {
	GetJob(ctx context.Context, id string) (matching.Job, error)
	ListPublishedCandidates(ctx context.Context) ([]matching.Candidate, error)
}

// Criteria are the employer's filter inputs.
type Criteria struct {
	Role          string
	Skills        []string
	MinScore      float64
	EmployerEmail string
}

// Steps builds the default filter chain for the criteria.
func Steps(c Criteria, intros IntroLister, log *zap.Logger) []Filter {
	return []Filter{
		NewPublished(),
		NewRole(c.Role),
		NewSkills(c.Skills),
		NewMinScore(c.MinScore),
		NewContacted(&ContactedConfig{EmployerEmail: c.EmployerEmail}, &ContactedDeps{Intros: intros, Logger: log}),
	}
}

// Build ranks the published candidates for the job and runs the steps over them.
func Build(ctx context.Context, src CandidateSource, jobID string, steps []Filter, log *zap.Logger) (*Shortlist, error) {
	job, err := src.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	candidates, err := src.ListPublishedCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("get published candidates: %w", err)
	}

	list := NewShortlist(job, matching.RankCandidates(job, candidates))

	return New(steps, log).RunFilters(ctx, list)
}

package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/matching"
	"github.com/spigell/career-match/internal/store"
)

const noEmployerMsg = "no employer given"

// IntroLister returns the intros an employer has already sent.
type IntroLister interface {
	ListIntrosByEmployer(ctx context.Context, employerEmail string) ([]store.Intro, error)
}

type contactedFilter struct {
	toggle
	deps     *ContactedDeps
	employer string
}

type ContactedDeps struct {
	Intros IntroLister
	Logger *zap.Logger
}

type ContactedConfig struct {
	EmployerEmail string
}

// NewContacted creates a filter that removes candidates the employer has
// already requested an intro to.
func NewContacted(cfg *ContactedConfig, deps *ContactedDeps) Filter {
	employer := ""
	if cfg != nil {
		employer = strings.TrimSpace(cfg.EmployerEmail)
	}

	return &contactedFilter{
		deps:     deps,
		employer: employer,
	}
}

func (f *contactedFilter) Name() string { return "contacted" }

func (f *contactedFilter) Validate() error {
	if f.employer == "" {
		return nil
	}

	if f.deps == nil || f.deps.Intros == nil {
		return fmt.Errorf("intro store is required")
	}

	if f.deps.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	return nil
}

func (f *contactedFilter) Apply(ctx context.Context, list *Shortlist) (*Shortlist, Step, error) {
	initial := list.Len()
	if f.employer == "" {
		return list, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	intros, err := f.deps.Intros.ListIntrosByEmployer(ctx, f.employer)
	if err != nil {
		return list, Step{}, fmt.Errorf("get employer intros: %w", err)
	}

	contacted := make(map[string]struct{}, len(intros))
	for _, intro := range intros {
		contacted[intro.CandidateID] = struct{}{}
	}

	excluded := list.Exclude(func(m matching.CandidateMatch) bool {
		_, ok := contacted[m.Candidate.ID]
		return ok
	})
	if len(excluded) > 0 {
		f.deps.Logger.Info("excluding candidates already contacted by employer",
			zap.String("employer_email", f.employer),
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", list.Len()),
		)
	}

	return list, Step{Initial: initial, Dropped: len(excluded), Left: list.Len()}, nil
}

func (f *contactedFilter) Status() Status {
	details := map[string]string{}
	reason := f.reason
	if f.employer != "" {
		details["employer_email"] = f.employer
	} else if reason == "" {
		reason = noEmployerMsg
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: reason, Details: details}
}

package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/career-match/internal/matching"
)

type publishedFilter struct {
	toggle
}

// NewPublished creates a filter that removes candidates who have not
// published their profile or have not consented to be contacted.
func NewPublished() Filter {
	return &publishedFilter{}
}

func (f *publishedFilter) Name() string { return "published" }

func (f *publishedFilter) Validate() error { return nil }

func (f *publishedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

func (f *publishedFilter) Apply(_ context.Context, list *Shortlist) (*Shortlist, Step, error) {
	initial := list.Len()
	excluded := list.Exclude(func(m matching.CandidateMatch) bool {
		return !m.Candidate.ProfilePublished || !m.Candidate.ConsentGiven
	})

	return list, Step{Initial: initial, Dropped: len(excluded), Left: list.Len()}, nil
}

type roleFilter struct {
	toggle
	role string
}

// NewRole creates a filter that keeps candidates whose generated titles or
// goal roles mention the role. An empty role keeps everyone.
func NewRole(role string) Filter {
	return &roleFilter{role: strings.TrimSpace(role)}
}

func (f *roleFilter) Name() string { return "role" }

func (f *roleFilter) Validate() error { return nil }

func (f *roleFilter) Apply(_ context.Context, list *Shortlist) (*Shortlist, Step, error) {
	initial := list.Len()
	if f.role == "" {
		return list, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	role := strings.ToLower(f.role)
	excluded := list.Exclude(func(m matching.CandidateMatch) bool {
		profile := m.Candidate.GeneratedProfile
		if profile == nil {
			return true
		}
		for _, title := range append(append([]string{}, profile.Titles...), profile.Goals.Roles...) {
			if strings.Contains(strings.ToLower(title), role) {
				return false
			}
		}
		return true
	})

	return list, Step{Initial: initial, Dropped: len(excluded), Left: list.Len()}, nil
}

func (f *roleFilter) Status() Status {
	details := map[string]string{}
	if f.role != "" {
		details["role"] = f.role
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type skillsFilter struct {
	toggle
	skills []string
}

// NewSkills creates a filter that keeps candidates having every listed skill.
// Skills match case-insensitively when either side contains the other.
func NewSkills(skills []string) Filter {
	cleaned := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return &skillsFilter{skills: cleaned}
}

func (f *skillsFilter) Name() string { return "skills" }

func (f *skillsFilter) Validate() error { return nil }

func (f *skillsFilter) Apply(_ context.Context, list *Shortlist) (*Shortlist, Step, error) {
	initial := list.Len()
	if len(f.skills) == 0 {
		return list, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded := list.Exclude(func(m matching.CandidateMatch) bool {
		for _, wanted := range f.skills {
			if !hasSkill(m.Candidate.Skills, wanted) {
				return true
			}
		}
		return false
	})

	return list, Step{Initial: initial, Dropped: len(excluded), Left: list.Len()}, nil
}

func (f *skillsFilter) Status() Status {
	details := map[string]string{}
	if len(f.skills) > 0 {
		details["skills"] = strings.Join(f.skills, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

func hasSkill(skills []string, wanted string) bool {
	for _, s := range skills {
		s = strings.ToLower(s)
		if strings.Contains(s, wanted) || strings.Contains(wanted, s) {
			return true
		}
	}
	return false
}

type minScoreFilter struct {
	toggle
	threshold float64
}

// NewMinScore creates a filter that removes matches scoring below threshold.
func NewMinScore(threshold float64) Filter {
	return &minScoreFilter{threshold: threshold}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Validate() error {
	if f.threshold < 0 || f.threshold > 100 {
		return fmt.Errorf("minimum score must be between 0 and 100, got %v", f.threshold)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, list *Shortlist) (*Shortlist, Step, error) {
	initial := list.Len()
	excluded := list.Exclude(func(m matching.CandidateMatch) bool {
		return m.Match.Score < f.threshold
	})

	return list, Step{Initial: initial, Dropped: len(excluded), Left: list.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_score": strconv.FormatFloat(f.threshold, 'f', -1, 64)},
	}
}

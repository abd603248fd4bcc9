// Package store describes the persistence surface of career-match and the
// record types that only exist there. Concrete backends live in subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/career-match/internal/matching"
)

const IntroStatusPending = "pending"

var ErrNotFound = errors.New("not found")

type Store interface {
	ListJobs(ctx context.Context) ([]matching.Job, error)
	GetJob(ctx context.Context, id string) (matching.Job, error)

	GetCandidate(ctx context.Context, id string) (matching.Candidate, error)
	GetCandidateByEmail(ctx context.Context, email string) (matching.Candidate, error)
	// ListPublishedCandidates returns candidates that published their profile
	// and gave consent to be contacted.
	ListPublishedCandidates(ctx context.Context) ([]matching.Candidate, error)
	SaveGeneratedProfile(ctx context.Context, email string, profile *matching.GeneratedProfile, at time.Time) error

	CreateIntro(ctx context.Context, intro Intro) (Intro, error)
	ListIntrosByEmployer(ctx context.Context, employerEmail string) ([]Intro, error)

	Stats(ctx context.Context) (Stats, error)
}

// Intro is an employer's request to be introduced to a candidate.
type Intro struct {
	ID              string    `json:"id,omitempty"`
	CandidateID     string    `json:"candidate_id" validate:"required,uuid"`
	EmployerEmail   string    `json:"employer_email" validate:"required,email"`
	EmployerCompany string    `json:"employer_company" validate:"required,max=200"`
	Message         *string   `json:"message"`
	Status          string    `json:"status,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

type Stats struct {
	Candidates          int `json:"candidates"`
	CompleteCandidates  int `json:"complete_candidates"`
	PublishedCandidates int `json:"published_candidates"`
	Jobs                int `json:"jobs"`
	Intros              int `json:"intros"`
	PendingIntros       int `json:"pending_intros"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the intro fields an employer supplies and fills the default status.
func (i *Intro) Validate() error {
	if err := validate.Struct(i); err != nil {
		return err
	}
	if i.Status == "" {
		i.Status = IntroStatusPending
	}
	return nil
}

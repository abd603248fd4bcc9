// Package ai holds the AI-assisted parts of career-match: candidate profile
// generation and elevator pitch writing. Providers live in subpackages.
package ai

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/career-match/internal/matching"
)

var (
	// ErrGeneration is returned when the provider failed to produce content.
	ErrGeneration = errors.New("ai generation failed")
	// ErrInvalidResponse is returned when the provider answered with content
	// that cannot be used.
	ErrInvalidResponse = errors.New("invalid response format from ai service")
)

// OnboardingAnswers is what a candidate fills in during onboarding.
type OnboardingAnswers struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Experience   string   `json:"experience"`
	Skills       []string `json:"skills"`
	Interests    []string `json:"interests"`
	Goals        string   `json:"goals"`
	Availability string   `json:"availability"`
	PitchText    string   `json:"pitch_text"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (a OnboardingAnswers) Validate() error {
	return validate.Struct(a)
}

// AnswersFromCandidate rebuilds onboarding answers from a stored candidate.
func AnswersFromCandidate(c matching.Candidate) OnboardingAnswers {
	return OnboardingAnswers{
		Name:         c.Name,
		Email:        c.Email,
		Experience:   c.Experience,
		Skills:       c.Skills,
		Interests:    c.Interests,
		Goals:        c.Goals,
		Availability: c.Availability,
		PitchText:    c.PitchText,
	}
}

type ProfileGenerator interface {
	GenerateProfile(ctx context.Context, answers OnboardingAnswers) (*matching.GeneratedProfile, error)
}

type ScriptWriter interface {
	GenerateScript(ctx context.Context, data OnboardingAnswers) (string, error)
}

package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/logger"
	"github.com/spigell/career-match/internal/matching"
)

type ProfileSaver interface {
	SaveGeneratedProfile(ctx context.Context, email string, profile *matching.GeneratedProfile, at time.Time) error
}

// ProfileService generates a candidate profile and stores it on the candidate.
type ProfileService struct {
	generator ProfileGenerator
	saver     ProfileSaver
	logger    *zap.Logger
	now       func() time.Time
}

func NewProfileService(generator ProfileGenerator, saver ProfileSaver, log *zap.Logger) *ProfileService {
	return &ProfileService{
		generator: generator,
		saver:     saver,
		logger:    logger.WithFields(log),
		now:       time.Now,
	}
}

// Generate validates the answers and asks the generator for a profile.
func (s *ProfileService) Generate(ctx context.Context, answers OnboardingAnswers) (*matching.GeneratedProfile, error) {
	if err := answers.Validate(); err != nil {
		return nil, err
	}

	return s.generator.GenerateProfile(ctx, answers)
}

// Save stores the profile. Failures are logged and swallowed: the caller still
// has a usable profile.
func (s *ProfileService) Save(ctx context.Context, email string, profile *matching.GeneratedProfile) bool {
	if s.saver == nil {
		return false
	}

	if err := s.saver.SaveGeneratedProfile(ctx, email, profile, s.now()); err != nil {
		s.logger.Error("failed to store generated profile",
			zap.String(logger.FieldCandidateEmail, email),
			zap.Error(err),
		)
		return false
	}

	s.logger.Info("generated profile stored", zap.String(logger.FieldCandidateEmail, email))

	return true
}

// GenerateAndSave generates the profile and stores it.
func (s *ProfileService) GenerateAndSave(ctx context.Context, answers OnboardingAnswers) (*matching.GeneratedProfile, error) {
	profile, err := s.Generate(ctx, answers)
	if err != nil {
		return nil, err
	}

	s.Save(ctx, answers.Email, profile)

	return profile, nil
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/logger"
	"github.com/spigell/career-match/internal/matching"
	"github.com/spigell/career-match/internal/utils"
)

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

var _ ai.ProfileGenerator = (*ProfileWriter)(nil)

// ProfileWriter turns onboarding answers into a GeneratedProfile.
type ProfileWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewProfileWriter(generator contentGenerator, log *zap.Logger, maxLogLength int) *ProfileWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &ProfileWriter{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

func (p *ProfileWriter) GenerateProfile(ctx context.Context, answers ai.OnboardingAnswers) (*matching.GeneratedProfile, error) {
	prompt := buildProfilePrompt(answers)

	log := p.logger.With(zap.String(logger.FieldCandidateEmail, answers.Email))
	log.Debug("gemini profile request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, profileSystemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini profile response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	profile, err := parseProfile(raw)
	if err != nil {
		log.Warn("unusable profile response",
			zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
			zap.Error(err),
		)
		return nil, err
	}

	return profile, nil
}

// profileResponse mirrors GeneratedProfile with pointers so that missing
// sections can be told apart from empty ones.
type profileResponse struct {
	Titles            []string                `json:"titles"`
	Skills            *matching.ProfileSkills `json:"skills"`
	Goals             *matching.ProfileGoals  `json:"goals"`
	LearningGaps      []string                `json:"learningGaps"`
	Summary           string                  `json:"summary"`
	SuggestedProjects []string                `json:"suggestedProjects"`
}

func parseProfile(raw string) (*matching.GeneratedProfile, error) {
	var resp profileResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidResponse, err)
	}

	if resp.Titles == nil || resp.Skills == nil || resp.Goals == nil {
		return nil, fmt.Errorf("%w: incomplete profile data generated", ai.ErrInvalidResponse)
	}

	return &matching.GeneratedProfile{
		Titles:            resp.Titles,
		Skills:            *resp.Skills,
		Goals:             *resp.Goals,
		LearningGaps:      resp.LearningGaps,
		Summary:           resp.Summary,
		SuggestedProjects: resp.SuggestedProjects,
	}, nil
}

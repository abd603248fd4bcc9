package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/logger"
)

// Scripts writes elevator pitches and never fails: when the writer errors or
// returns nothing, the template pitch is used instead.
type Scripts struct {
	writer ScriptWriter
	logger *zap.Logger
}

// NewScripts accepts a nil writer, in which case every pitch is the template one.
func NewScripts(writer ScriptWriter, log *zap.Logger) *Scripts {
	return &Scripts{
		writer: writer,
		logger: logger.WithFields(log),
	}
}

// Write returns the pitch and whether it came from the template.
func (s *Scripts) Write(ctx context.Context, data OnboardingAnswers) (string, bool) {
	log := s.logger.With(zap.String(logger.FieldCandidateName, data.Name))

	if s.writer == nil {
		log.Debug("no script writer configured, using template pitch")
		return FallbackScript(data), true
	}

	script, err := s.writer.GenerateScript(ctx, data)
	if err != nil {
		log.Warn("script generation failed, using template pitch", zap.Error(err))
		return FallbackScript(data), true
	}

	script = strings.TrimSpace(script)
	if script == "" {
		log.Warn("script writer returned empty pitch, using template pitch")
		return FallbackScript(data), true
	}

	log.Debug("script generated")

	return script, false
}

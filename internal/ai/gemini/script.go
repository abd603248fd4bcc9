package gemini

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/logger"
	"github.com/spigell/career-match/internal/utils"
)

var _ ai.ScriptWriter = (*ScriptWriter)(nil)

type ScriptWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewScriptWriter(generator contentGenerator, log *zap.Logger, maxLogLength int) *ScriptWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &ScriptWriter{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

func (s *ScriptWriter) GenerateScript(ctx context.Context, data ai.OnboardingAnswers) (string, error) {
	log := s.logger.With(zap.String(logger.FieldCandidateName, data.Name))
	log.Debug("generating script")

	script, err := s.generator.GenerateContent(ctx, scriptSystemInstruction, buildScriptPrompt(data))
	if err != nil {
		return "", err
	}

	log.Debug("script generated", zap.String("script_preview", utils.TruncateForLog(script, s.maxLogLen)))

	return strings.TrimSpace(script), nil
}

package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/matching"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"

	FieldCandidateEmail = "candidate_email"
	FieldCandidateName  = "candidate_name"
	FieldJobID          = "job_id"
	FieldJobTitle       = "job_title"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns standard zap fields that describe the AI provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// CandidateFields identifies a candidate in log entries by email and name.
func CandidateFields(c matching.Candidate) []zap.Field {
	return StringFields(
		StringField{Key: FieldCandidateEmail, Value: c.Email},
		StringField{Key: FieldCandidateName, Value: c.Name},
	)
}

func JobFields(j matching.Job) []zap.Field {
	return StringFields(
		StringField{Key: FieldJobID, Value: j.ID},
		StringField{Key: FieldJobTitle, Value: j.Title},
	)
}

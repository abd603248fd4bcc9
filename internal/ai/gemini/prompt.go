package gemini

import (
	"strings"

	_ "embed"

	"github.com/spigell/career-match/internal/ai"
)

//go:embed profile_prompt.md
var profilePromptTemplate string

//go:embed script_prompt.md
var scriptPromptTemplate string

const (
	profileSystemInstruction = "You are an expert career counselor and data analyst. Generate accurate, actionable career profiles based on candidate information. Always return valid JSON."
	scriptSystemInstruction  = "You are an expert career coach who specializes in creating compelling elevator pitches. Generate natural, confident, and engaging pitch scripts."

	maxFieldRunes = 1000
	maxPitchRunes = 3000
)

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")", "{{", "(", "}}", ")")

// sanitizeLine collapses whitespace and neutralises brackets so that answers
// cannot pose as prompt sections or template placeholders.
func sanitizeLine(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	value = bracketReplacer.Replace(value)
	if runes := []rune(value); len(runes) > limit {
		value = string(runes[:limit])
	}
	return value
}

// sanitizeBlock keeps line breaks but cleans each line like sanitizeLine.
func sanitizeBlock(value string, limit int) string {
	lines := strings.Split(value, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = sanitizeLine(line, limit); line != "" {
			cleaned = append(cleaned, line)
		}
	}

	value = strings.Join(cleaned, "\n")
	if runes := []rune(value); len(runes) > limit {
		value = string(runes[:limit])
	}
	return value
}

func sanitizeList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = sanitizeLine(v, maxFieldRunes); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return strings.Join(cleaned, ", ")
}

func fillTemplate(template string, data ai.OnboardingAnswers) string {
	return strings.NewReplacer(
		"{{NAME}}", sanitizeLine(data.Name, maxFieldRunes),
		"{{EXPERIENCE}}", sanitizeBlock(data.Experience, maxFieldRunes),
		"{{SKILLS}}", sanitizeList(data.Skills),
		"{{INTERESTS}}", sanitizeList(data.Interests),
		"{{GOALS}}", sanitizeBlock(data.Goals, maxFieldRunes),
		"{{AVAILABILITY}}", sanitizeLine(data.Availability, maxFieldRunes),
		"{{PITCH}}", sanitizeBlock(data.PitchText, maxPitchRunes),
	).Replace(template)
}

func buildProfilePrompt(answers ai.OnboardingAnswers) string {
	return strings.TrimSpace(fillTemplate(profilePromptTemplate, answers))
}

func buildScriptPrompt(data ai.OnboardingAnswers) string {
	return strings.TrimSpace(fillTemplate(scriptPromptTemplate, data))
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

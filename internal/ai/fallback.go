package ai

import (
	"fmt"
	"strings"
)

const (
	defaultName         = "[Your Name]"
	defaultSkills       = "various skills"
	defaultInterests    = "innovative projects"
	defaultAvailability = "available"

	experiencePreview = 50
	goalsPreview      = 80
)

// FallbackScript builds a template pitch from the candidate's own answers.
// It is used whenever the AI writer is unavailable.
func FallbackScript(data OnboardingAnswers) string {
	name := data.Name
	if name == "" {
		name = defaultName
	}

	background := "a passionate professional"
	if data.Experience != "" {
		background = fmt.Sprintf("with experience in %s...", prefix(data.Experience, experiencePreview))
	}

	skills := strings.Join(firstN(data.Skills, 3), ", ")
	if skills == "" {
		skills = defaultSkills
	}

	interests := strings.Join(firstN(data.Interests, 2), " and ")
	if interests == "" {
		interests = defaultInterests
	}

	goals := "I'm seeking new opportunities to grow and make an impact."
	if data.Goals != "" {
		goals = fmt.Sprintf("I'm looking for %s...", prefix(data.Goals, goalsPreview))
	}

	availability := data.Availability
	if availability == "" {
		availability = defaultAvailability
	}

	return fmt.Sprintf(
		"Hi, I'm %s, %s. I specialize in %s and I'm particularly interested in %s. %s I'm %s and excited to discuss how I can contribute to your team.",
		name, background, skills, interests, goals, availability,
	)
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

// prefix returns at most n runes of s.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

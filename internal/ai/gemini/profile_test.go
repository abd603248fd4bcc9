package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

const fullProfile = `{
  "titles": ["Frontend Developer", "UI Engineer"],
  "skills": {"pro": ["React", "TypeScript"], "growing": ["GraphQL"]},
  "goals": {"roles": ["Senior Frontend Developer"], "industries": ["SaaS"]},
  "learningGaps": ["System design"],
  "summary": "Frontend developer focused on accessible interfaces.",
  "suggestedProjects": ["Build a design system"]
}`

func testAnswers() ai.OnboardingAnswers {
	return ai.OnboardingAnswers{
		Name:         "Alex",
		Email:        "alex@example.com",
		Experience:   "3 years of React",
		Skills:       []string{"React", "TypeScript"},
		Interests:    []string{"design systems", "education"},
		Goals:        "Become a senior frontend developer",
		Availability: "Immediately",
		PitchText:    "I build interfaces people enjoy.",
	}
}

func TestProfileWriterGenerateProfile(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + fullProfile + "\n```"}
	writer := NewProfileWriter(stub, zap.NewNop(), 0)

	profile, err := writer.GenerateProfile(context.Background(), testAnswers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(profile.Titles) != 2 || profile.Titles[0] != "Frontend Developer" {
		t.Fatalf("unexpected titles: %v", profile.Titles)
	}
	if len(profile.Skills.Growing) != 1 || profile.Skills.Growing[0] != "GraphQL" {
		t.Fatalf("unexpected growing skills: %v", profile.Skills.Growing)
	}
	if profile.Goals.Roles[0] != "Senior Frontend Developer" {
		t.Fatalf("unexpected roles: %v", profile.Goals.Roles)
	}
	if profile.SuggestedProjects[0] != "Build a design system" {
		t.Fatalf("unexpected projects: %v", profile.SuggestedProjects)
	}

	if stub.lastSystem != profileSystemInstruction {
		t.Fatalf("unexpected system instruction: %q", stub.lastSystem)
	}
	for _, want := range []string{
		"- Name: Alex",
		"- Skills: React, TypeScript",
		"- Interests: design systems, education",
		"- Career Goals: Become a senior frontend developer",
		"- Pitch: I build interfaces people enjoy.",
		`"learningGaps"`,
	} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt is missing %q:\n%s", want, stub.lastPrompt)
		}
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("prompt has unreplaced placeholders:\n%s", stub.lastPrompt)
	}
}

func TestProfileWriterInvalidResponses(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "Here is your profile!"},
		{name: "missing titles", response: `{"skills": {"pro": [], "growing": []}, "goals": {"roles": [], "industries": []}}`},
		{name: "missing skills", response: `{"titles": ["Dev"], "goals": {"roles": [], "industries": []}}`},
		{name: "null goals", response: `{"titles": ["Dev"], "skills": {"pro": [], "growing": []}, "goals": null}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			writer := NewProfileWriter(&stubGenerator{response: tc.response}, zap.NewNop(), 0)

			_, err := writer.GenerateProfile(context.Background(), testAnswers())
			if !errors.Is(err, ai.ErrInvalidResponse) {
				t.Fatalf("expected ErrInvalidResponse, got %v", err)
			}
		})
	}
}

func TestProfileWriterAcceptsEmptySections(t *testing.T) {
	stub := &stubGenerator{response: `{"titles": [], "skills": {"pro": [], "growing": []}, "goals": {"roles": [], "industries": []}}`}

	profile, err := NewProfileWriter(stub, nil, 0).GenerateProfile(context.Background(), testAnswers())
	if err != nil {
		t.Fatalf("empty but present sections must be accepted, got %v", err)
	}
	if profile.Titles == nil || len(profile.Titles) != 0 {
		t.Fatalf("unexpected titles: %#v", profile.Titles)
	}
}

func TestProfileWriterPropagatesGeneratorError(t *testing.T) {
	genErr := errors.New("upstream down")
	writer := NewProfileWriter(&stubGenerator{err: genErr}, nil, 0)

	if _, err := writer.GenerateProfile(context.Background(), testAnswers()); !errors.Is(err, genErr) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

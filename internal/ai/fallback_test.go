package ai

import (
	"strings"
	"testing"
)

func TestFallbackScript(t *testing.T) {
	tests := []struct {
		name   string
		data   OnboardingAnswers
		expect string
	}{
		{
			name: "empty answers use defaults",
			data: OnboardingAnswers{},
			expect: "Hi, I'm [Your Name], a passionate professional. I specialize in various skills and " +
				"I'm particularly interested in innovative projects. I'm seeking new opportunities to grow and " +
				"make an impact. I'm available and excited to discuss how I can contribute to your team.",
		},
		{
			name: "full answers",
			data: OnboardingAnswers{
				Name:         "Alex",
				Experience:   "5 years building payment systems",
				Skills:       []string{"Go", "Postgres", "Kafka", "Docker"},
				Interests:    []string{"fintech", "open source", "education"},
				Goals:        "a staff role",
				Availability: "available in two weeks",
			},
			expect: "Hi, I'm Alex, with experience in 5 years building payment systems.... I specialize in " +
				"Go, Postgres, Kafka and I'm particularly interested in fintech and open source. I'm looking for " +
				"a staff role... I'm available in two weeks and excited to discuss how I can contribute to your team.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackScript(tt.data); got != tt.expect {
				t.Fatalf("unexpected script:\nwant %q\ngot  %q", tt.expect, got)
			}
		})
	}
}

func TestFallbackScriptCutsLongAnswers(t *testing.T) {
	script := FallbackScript(OnboardingAnswers{
		Experience: strings.Repeat("e", 60),
		Goals:      strings.Repeat("ж", 100),
	})

	if !strings.Contains(script, "with experience in "+strings.Repeat("e", 50)+"...") {
		t.Fatalf("experience not cut to 50 characters: %q", script)
	}
	if strings.Contains(script, strings.Repeat("e", 51)) {
		t.Fatalf("experience longer than 50 characters: %q", script)
	}
	if !strings.Contains(script, "I'm looking for "+strings.Repeat("ж", 80)+"...") {
		t.Fatalf("goals not cut to 80 characters: %q", script)
	}
}

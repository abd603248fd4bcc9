package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "logging disabled",
			input:  `{"titles":["Backend Engineer"]}`,
			limit:  0,
			expect: "",
		},
		{
			name:   "short response kept",
			input:  `{"titles":["Backend Engineer"]}`,
			limit:  200,
			expect: `{"titles":["Backend Engineer"]}`,
		},
		{
			name:   "multi-line prompt flattened",
			input:  "Candidate Information:\n- Name: Alex\n- Skills: Go, SQL\n",
			limit:  200,
			expect: "Candidate Information: - Name: Alex - Skills: Go, SQL",
		},
		{
			name:   "fenced response cut",
			input:  "```json\n{\n  \"summary\": \"Seasoned backend engineer\"\n}\n```",
			limit:  20,
			expect: "```json { \"summary\":...",
		},
		{
			name:   "pitch cut on runes",
			input:  "Привет, я Алекс, бэкенд-разработчик",
			limit:  6,
			expect: "Привет...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

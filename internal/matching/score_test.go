package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFitScore_PartialSkillsRemote(t *testing.T) {
	candidate := Candidate{
		Name:       "Alex",
		Skills:     []string{"React", "TypeScript"},
		Experience: "2 years",
	}
	job := Job{
		Title:          "Frontend Developer",
		SkillsRequired: []string{"React", "TypeScript", "GraphQL"},
		Remote:         true,
	}

	match := ComputeFitScore(candidate, job)

	assert.InDelta(t, 2.0/3.0*40+15+10, match.Score, 0.01)
	assert.Equal(t, []string{
		"2/3 required skills match",
		"Remote work option available",
		"Growing company with opportunities",
	}, match.WhyReasons)
	assert.Equal(t, "Learn graphql - Start with online courses", match.LearningGap)
	assert.Equal(t, job, match.Job)
}

func TestComputeFitScore_NoRequiredSkills(t *testing.T) {
	candidate := Candidate{Skills: []string{"Go", "Kubernetes"}}
	job := Job{Title: "Engineer"}

	match := ComputeFitScore(candidate, job)

	// on-site 10 + unspecified seniority 10, nothing from skills
	assert.InDelta(t, 20, match.Score, 0.001)
	assert.NotContains(t, match.WhyReasons, "0/0 required skills match")
	assert.Equal(t, []string{
		"Growing company with opportunities",
		"Role matches your experience level",
	}, match.WhyReasons)
	assert.Equal(t, "Enhance go - Practice advanced techniques", match.LearningGap)
}

func TestComputeFitScore_TitleAlignment(t *testing.T) {
	tests := []struct {
		name    string
		profile *GeneratedProfile
		title   string
		aligned bool
	}{
		{
			name:    "exact title",
			profile: &GeneratedProfile{Titles: []string{"Frontend Developer"}},
			title:   "Frontend Developer",
			aligned: true,
		},
		{
			name:    "goal role inside job title",
			profile: &GeneratedProfile{Goals: ProfileGoals{Roles: []string{"data scientist"}}},
			title:   "Senior Data Scientist",
			aligned: true,
		},
		{
			name:    "job title first word inside candidate title",
			profile: &GeneratedProfile{Titles: []string{"Frontend Engineer"}},
			title:   "Frontend Developer",
			aligned: true,
		},
		{
			name:    "no overlap",
			profile: &GeneratedProfile{Titles: []string{"UX Designer"}},
			title:   "Backend Developer",
			aligned: false,
		},
		{
			name:    "no generated profile",
			profile: nil,
			title:   "Frontend Developer",
			aligned: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := ComputeFitScore(Candidate{GeneratedProfile: tt.profile}, Job{Title: tt.title})
			if tt.aligned {
				assert.Contains(t, match.WhyReasons, "Role aligns with career goals")
			} else {
				assert.NotContains(t, match.WhyReasons, "Role aligns with career goals")
			}
		})
	}
}

func TestComputeFitScore_TitleAlignmentAddsThirty(t *testing.T) {
	job := Job{Title: "Frontend Developer"}
	without := ComputeFitScore(Candidate{}, job)
	with := ComputeFitScore(Candidate{
		GeneratedProfile: &GeneratedProfile{Titles: []string{"Frontend Developer"}},
	}, job)

	assert.InDelta(t, 30, with.Score-without.Score, 0.001)
}

func TestComputeFitScore_BidirectionalCaseInsensitive(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		required  string
	}{
		{"candidate shorter", "react", "React.js"},
		{"candidate longer", "React.js", "react"},
		{"same word different case", "PYTHON", "python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := ComputeFitScore(
				Candidate{Skills: []string{tt.candidate}},
				Job{Title: "Engineer", SkillsRequired: []string{tt.required}},
			)
			assert.Contains(t, match.WhyReasons, "1/1 required skills match")
			assert.InDelta(t, 40+10+10, match.Score, 0.001)
		})
	}
}

func TestComputeFitScore_WorkMode(t *testing.T) {
	remote := ComputeFitScore(Candidate{Experience: "senior"}, Job{Title: "Junior Dev", Remote: true})
	onsite := ComputeFitScore(Candidate{Experience: "senior"}, Job{Title: "Junior Dev"})

	assert.InDelta(t, 15, remote.Score, 0.001)
	assert.InDelta(t, 10, onsite.Score, 0.001)
	assert.Contains(t, remote.WhyReasons, "Remote work option available")
	assert.NotContains(t, remote.WhyReasons, "Flexible remote work environment")
}

func TestComputeFitScore_Seniority(t *testing.T) {
	tests := []struct {
		name       string
		experience string
		title      string
		points     float64
	}{
		{"both senior", "Senior engineer, 8 years", "Senior Go Developer", 10},
		{"both junior", "junior", "Junior Analyst", 10},
		{"neither", "3 years", "Analyst", 10},
		{"senior vs junior", "senior", "Junior Analyst", 0},
		{"only job has level", "3 years", "Senior Analyst", 0},
		{"only candidate has level", "junior dev", "Analyst", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := ComputeFitScore(Candidate{Experience: tt.experience}, Job{Title: tt.title})
			// on-site always contributes 10
			assert.InDelta(t, 10+tt.points, match.Score, 0.001)
		})
	}
}

func TestComputeFitScore_ReasonsCappedAtThree(t *testing.T) {
	candidate := Candidate{
		Skills:           []string{"Go"},
		Experience:       "senior",
		GeneratedProfile: &GeneratedProfile{Titles: []string{"Backend Engineer"}},
	}
	job := Job{
		Title:          "Senior Backend Engineer",
		SkillsRequired: []string{"go"},
		Remote:         true,
	}

	match := ComputeFitScore(candidate, job)

	require.Len(t, match.WhyReasons, 3)
	assert.Equal(t, []string{
		"1/1 required skills match",
		"Role aligns with career goals",
		"Remote work option available",
	}, match.WhyReasons)
	assert.InDelta(t, 95, match.Score, 0.001)
	assert.Equal(t, "Enhance go - Practice advanced techniques", match.LearningGap)
}

func TestComputeFitScore_LearningGapDefaults(t *testing.T) {
	match := ComputeFitScore(Candidate{}, Job{Title: "Engineer"})
	assert.Equal(t, "Enhance core skills - Practice advanced techniques", match.LearningGap)

	match = ComputeFitScore(Candidate{Skills: []string{"Go"}}, Job{SkillsRequired: []string{"Rust", "Zig"}})
	assert.Equal(t, "Learn rust - Start with online courses", match.LearningGap)
}

func TestComputeFitScore_SingleLetterSkillMatchesEverything(t *testing.T) {
	match := ComputeFitScore(
		Candidate{Skills: []string{"a"}},
		Job{SkillsRequired: []string{"Java", "Kafka", "Scala"}},
	)

	assert.Contains(t, match.WhyReasons, "3/3 required skills match")
}

func TestComputeFitScore_Properties(t *testing.T) {
	candidates := []Candidate{
		{},
		{Skills: []string{"Go", "SQL"}, Experience: "junior"},
		{Skills: []string{"x"}, GeneratedProfile: &GeneratedProfile{Titles: []string{""}}},
	}
	jobs := []Job{
		{},
		{Title: "Junior Go Developer", SkillsRequired: []string{"go", "sql", "docker"}, Remote: true},
		{Title: "Staff Engineer", SkillsRequired: []string{"x"}},
	}

	for _, c := range candidates {
		for _, j := range jobs {
			first := ComputeFitScore(c, j)
			second := ComputeFitScore(c, j)

			assert.Equal(t, first, second)
			assert.GreaterOrEqual(t, first.Score, 0.0)
			assert.LessOrEqual(t, first.Score, 100.0)
			assert.LessOrEqual(t, len(first.WhyReasons), 3)
			if j.Remote {
				assert.GreaterOrEqual(t, first.Score, 15.0)
			} else {
				assert.GreaterOrEqual(t, first.Score, 10.0)
			}
		}
	}
}

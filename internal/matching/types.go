// Package matching scores how well a candidate fits a job posting.
package matching

import "time"

// Candidate is a job seeker as stored in the candidates table.
// Only Name, Skills, Experience and GeneratedProfile take part in scoring.
type Candidate struct {
	ID                 string            `json:"id,omitempty"`
	Name               string            `json:"name"`
	Email              string            `json:"email,omitempty"`
	Skills             []string          `json:"skills"`
	Interests          []string          `json:"interests,omitempty"`
	Experience         string            `json:"experience"`
	Goals              string            `json:"goals"`
	Availability       string            `json:"availability,omitempty"`
	PitchText          string            `json:"pitch_text,omitempty"`
	IsComplete         bool              `json:"is_complete,omitempty"`
	ProfilePublished   bool              `json:"profile_published,omitempty"`
	ConsentGiven       bool              `json:"consent_given,omitempty"`
	GeneratedProfile   *GeneratedProfile `json:"generated_profile,omitempty"`
	ProfileGeneratedAt *time.Time        `json:"profile_generated_at,omitempty"`
}

// GeneratedProfile is the AI enrichment attached to a candidate.
type GeneratedProfile struct {
	Titles            []string      `json:"titles"`
	Skills            ProfileSkills `json:"skills"`
	Goals             ProfileGoals  `json:"goals"`
	LearningGaps      []string      `json:"learningGaps"`
	Summary           string        `json:"summary"`
	SuggestedProjects []string      `json:"suggestedProjects"`
}

type ProfileSkills struct {
	Pro     []string `json:"pro"`
	Growing []string `json:"growing"`
}

type ProfileGoals struct {
	Roles      []string `json:"roles"`
	Industries []string `json:"industries"`
}

// Job is a posting from the jobs table. The engine never mutates it.
type Job struct {
	ID             string    `json:"id,omitempty"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	SkillsRequired []string  `json:"skills_required"`
	Tags           []string  `json:"tags,omitempty"`
	Remote         bool      `json:"remote"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// JobMatch is the result of scoring one candidate against one job.
type JobMatch struct {
	Job         Job      `json:"job"`
	Score       float64  `json:"score"`
	WhyReasons  []string `json:"whyReasons"`
	LearningGap string   `json:"learningGap"`
}

// CandidateMatch pairs a candidate with its match against a single job.
type CandidateMatch struct {
	Candidate Candidate `json:"candidate"`
	Match     JobMatch  `json:"match"`
}

// titlesAndRoles returns generated titles followed by goal roles.
func (c Candidate) titlesAndRoles() []string {
	if c.GeneratedProfile == nil {
		return nil
	}

	out := make([]string, 0, len(c.GeneratedProfile.Titles)+len(c.GeneratedProfile.Goals.Roles))
	out = append(out, c.GeneratedProfile.Titles...)
	out = append(out, c.GeneratedProfile.Goals.Roles...)
	return out
}

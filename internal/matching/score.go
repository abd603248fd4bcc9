package matching

import (
	"fmt"
	"strings"
)

const (
	maxScore = 100

	skillWeight     = 40
	titleWeight     = 30
	remoteWeight    = 15
	onsiteWeight    = 10
	seniorityWeight = 10

	maxReasons = 3

	reasonRoleAligned = "Role aligns with career goals"
	reasonRemote      = "Remote work option available"

	fillerRemote     = "Flexible remote work environment"
	fillerGrowth     = "Growing company with opportunities"
	fillerExperience = "Role matches your experience level"

	defaultSkill = "core skills"
)

// ComputeFitScore scores a candidate against a job.
//
// Skills and titles are compared with case-insensitive substring containment in
// both directions, so "react" matches "React.js" and the other way round. This
// means a one-letter skill matches nearly everything.
func ComputeFitScore(candidate Candidate, job Job) JobMatch {
	var score float64
	reasons := make([]string, 0, maxReasons)

	candidateSkills := lowerAll(candidate.Skills)
	jobSkills := lowerAll(job.SkillsRequired)

	matched := 0
	for _, required := range jobSkills {
		if containsEither(candidateSkills, required) {
			matched++
		}
	}

	if len(jobSkills) > 0 {
		score += float64(matched) / float64(len(jobSkills)) * skillWeight
	}
	if matched > 0 {
		reasons = append(reasons, fmt.Sprintf("%d/%d required skills match", matched, len(jobSkills)))
	}

	if titleAligned(candidate, job) {
		score += titleWeight
		reasons = append(reasons, reasonRoleAligned)
	}

	if job.Remote {
		score += remoteWeight
		reasons = append(reasons, reasonRemote)
	} else {
		score += onsiteWeight
	}

	if seniorityAligned(candidate.Experience, job.Title) {
		score += seniorityWeight
	}

	reasons = backfillReasons(reasons, job.Remote)
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	return JobMatch{
		Job:         job,
		Score:       clamp(score),
		WhyReasons:  reasons,
		LearningGap: learningGap(candidateSkills, jobSkills),
	}
}

// titleAligned reports whether any generated title or goal role is part of the
// job title, or contains the job title's first word.
func titleAligned(candidate Candidate, job Job) bool {
	titles := lowerAll(candidate.titlesAndRoles())
	jobTitle := strings.ToLower(job.Title)
	firstWord := strings.SplitN(jobTitle, " ", 2)[0]

	for _, title := range titles {
		if strings.Contains(jobTitle, title) || strings.Contains(title, firstWord) {
			return true
		}
	}
	return false
}

// seniorityAligned is true when both sides say senior, both say junior, or
// neither mentions a level at all.
func seniorityAligned(experience, title string) bool {
	exp := strings.ToLower(experience)
	jt := strings.ToLower(title)

	expSenior, expJunior := strings.Contains(exp, "senior"), strings.Contains(exp, "junior")
	jobSenior, jobJunior := strings.Contains(jt, "senior"), strings.Contains(jt, "junior")

	switch {
	case expSenior && jobSenior:
		return true
	case expJunior && jobJunior:
		return true
	default:
		return !expSenior && !expJunior && !jobSenior && !jobJunior
	}
}

func backfillReasons(reasons []string, remote bool) []string {
	if len(reasons) >= maxReasons {
		return reasons
	}

	if remote && !anyContains(reasons, "Remote") {
		reasons = append(reasons, fillerRemote)
	}
	if len(reasons) < maxReasons {
		reasons = append(reasons, fillerGrowth)
	}
	if len(reasons) < maxReasons {
		reasons = append(reasons, fillerExperience)
	}
	return reasons
}

// learningGap suggests the first required skill the candidate lacks, or the
// candidate's first skill when nothing is missing.
func learningGap(candidateSkills, jobSkills []string) string {
	for _, required := range jobSkills {
		if !containsEither(candidateSkills, required) {
			return fmt.Sprintf("Learn %s - Start with online courses", required)
		}
	}

	skill := defaultSkill
	if len(candidateSkills) > 0 && candidateSkills[0] != "" {
		skill = candidateSkills[0]
	}
	return fmt.Sprintf("Enhance %s - Practice advanced techniques", skill)
}

// containsEither reports whether target contains, or is contained by, any of the values.
func containsEither(values []string, target string) bool {
	for _, v := range values {
		if strings.Contains(target, v) || strings.Contains(v, target) {
			return true
		}
	}
	return false
}

func anyContains(values []string, substr string) bool {
	for _, v := range values {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

package httpapi

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/filtering"
	"github.com/spigell/career-match/internal/logger"
	"github.com/spigell/career-match/internal/matching"
	"github.com/spigell/career-match/internal/store"
)

type scoreRequest struct {
	Candidate *matching.Candidate `json:"candidate"`
	Job       *matching.Job       `json:"job"`
}

type matchesRequest struct {
	Candidate *matching.Candidate `json:"candidate"`
	Limit     int                 `json:"limit"`
}

type matchesResponse struct {
	Matches []matching.JobMatch `json:"matches"`
}

type profileRequest struct {
	Answers *ai.OnboardingAnswers `json:"answers"`
}

type profileResponse struct {
	Success bool                       `json:"success"`
	Profile *matching.GeneratedProfile `json:"profile,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

type scriptRequest struct {
	CandidateData *ai.OnboardingAnswers `json:"candidateData"`
}

type scriptResponse struct {
	Success  bool   `json:"success"`
	Script   string `json:"script"`
	Fallback bool   `json:"fallback"`
}

type introRequest struct {
	EmployerEmail   string `json:"employer_email"`
	EmployerCompany string `json:"employer_company"`
	Message         string `json:"message"`
}

type shortlistResponse struct {
	*filtering.Shortlist
	Filters []filtering.Status `json:"filters"`
}

func pathID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", invalidf("id %q is not a valid uuid", id)
	}
	return id, nil
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListJobs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []matching.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Candidate == nil || req.Job == nil {
		s.writeError(w, r, invalidf("candidate and job are required"))
		return
	}

	match := matching.ComputeFitScore(*req.Candidate, *req.Job)
	s.metrics.ObserveScore(match.Score)

	writeJSON(w, http.StatusOK, match)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	var req matchesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Candidate == nil {
		s.writeError(w, r, invalidf("candidate is required"))
		return
	}

	s.writeMatches(w, r, *req.Candidate, req.Limit)
}

func (s *Server) handleCandidateMatches(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			s.writeError(w, r, invalidf("limit must be an integer"))
			return
		}
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMatches(w, r, candidate, limit)
}

func (s *Server) writeMatches(w http.ResponseWriter, r *http.Request, candidate matching.Candidate, limit int) {
	if limit <= 0 {
		limit = s.opts.MatchLimit
	}

	matches, err := s.engine.TopMatches(r.Context(), candidate, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	for _, m := range matches {
		s.metrics.ObserveScore(m.Score)
	}
	if matches == nil {
		matches = []matching.JobMatch{}
	}

	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeProfileError(w, r, err)
		return
	}
	if req.Answers == nil {
		s.writeProfileError(w, r, invalidf("answers are required"))
		return
	}
	if s.profiles == nil {
		s.writeProfileError(w, r, errAIDisabled)
		return
	}

	profile, err := s.profiles.GenerateAndSave(r.Context(), *req.Answers)
	if err != nil {
		s.writeProfileError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Success: true, Profile: profile})
}

func (s *Server) writeProfileError(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("error generating profile", zap.String("path", r.URL.Path), zap.Error(err))
	}

	writeJSON(w, status, profileResponse{Success: false, Error: errorMessage(status, err)})
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.CandidateData == nil {
		s.writeError(w, r, invalidf("candidate data is required"))
		return
	}

	script, fallback := s.scripts.Write(r.Context(), *req.CandidateData)
	if fallback {
		s.metrics.fallbacks.Inc()
	}

	writeJSON(w, http.StatusOK, scriptResponse{Success: true, Script: script, Fallback: fallback})
}

func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	criteria := filtering.Criteria{
		Role:          query.Get("role"),
		EmployerEmail: query.Get("employer"),
	}
	if raw := query.Get("skills"); raw != "" {
		criteria.Skills = strings.Split(raw, ",")
	}
	if raw := query.Get("min_score"); raw != "" {
		if criteria.MinScore, err = strconv.ParseFloat(raw, 64); err != nil {
			s.writeError(w, r, invalidf("min_score must be a number"))
			return
		}
	}

	steps := filtering.Steps(criteria, s.store, s.logger)
	if err := validateSteps(steps); err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := filtering.Build(r.Context(), s.store, id, steps, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list.Items == nil {
		list.Items = []matching.CandidateMatch{}
	}

	writeJSON(w, http.StatusOK, shortlistResponse{Shortlist: list, Filters: filtering.Describe(steps)})
}

// validateSteps reports bad filter input as a client error before any lookup.
func validateSteps(steps []filtering.Filter) error {
	for _, step := range steps {
		if err := step.Validate(); err != nil {
			return invalidf("%s: %v", step.Name(), err)
		}
	}
	return nil
}

func (s *Server) handleCreateIntro(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req introRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !candidate.ProfilePublished || !candidate.ConsentGiven {
		s.writeError(w, r, fmt.Errorf("candidate %s is not open to intros: %w", id, store.ErrNotFound))
		return
	}

	intro := store.Intro{
		CandidateID:     id,
		EmployerEmail:   strings.TrimSpace(req.EmployerEmail),
		EmployerCompany: s.plainText(req.EmployerCompany),
	}
	if msg := s.plainText(req.Message); msg != "" {
		intro.Message = &msg
	}

	created, err := s.store.CreateIntro(r.Context(), intro)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("intro requested",
		append(logger.CandidateFields(candidate), zap.String("employer_email", created.EmployerEmail))...,
	)

	writeJSON(w, http.StatusCreated, created)
}

// plainText strips markup and keeps the text as typed: the sanitizer's
// entity escaping is undone so "AT&T" is stored as "AT&T".
func (s *Server) plainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

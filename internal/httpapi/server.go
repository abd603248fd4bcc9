// Package httpapi exposes matching, shortlisting, AI generation and intro
// requests as a JSON HTTP API.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/logger"
	"github.com/spigell/career-match/internal/matching"
	"github.com/spigell/career-match/internal/store"
)

type Options struct {
	CORSOrigins     []string
	RateLimitPerMin int
	MatchLimit      int
}

type Deps struct {
	Store store.Store
	// Profiles is nil when AI generation is disabled.
	Profiles *ai.ProfileService
	Scripts  *ai.Scripts
	Metrics  *Metrics
	Logger   *zap.Logger
}

type Server struct {
	store     store.Store
	engine    *matching.Engine
	profiles  *ai.ProfileService
	scripts   *ai.Scripts
	metrics   *Metrics
	sanitizer *bluemonday.Policy
	opts      Options
	logger    *zap.Logger
}

func New(deps Deps, opts Options) *Server {
	log := logger.WithFields(deps.Logger)

	scripts := deps.Scripts
	if scripts == nil {
		scripts = ai.NewScripts(nil, log)
	}

	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Server{
		store:     deps.Store,
		engine:    matching.NewEngine(deps.Store, log),
		profiles:  deps.Profiles,
		scripts:   scripts,
		metrics:   metrics,
		sanitizer: bluemonday.StrictPolicy(),
		opts:      opts,
		logger:    log,
	}
}

// ParseOrigins splits a comma-separated origin list. Empty input allows any origin.
func ParseOrigins(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// Routes builds the router with middleware and every endpoint.
func (s *Server) Routes() http.Handler {
	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(s.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}/candidates", s.handleShortlist)
		r.Post("/score", s.handleScore)
		r.Post("/matches", s.handleMatches)
		r.Get("/candidates/{id}/matches", s.handleCandidateMatches)
		r.Get("/admin/stats", s.handleStats)

		r.Group(func(r chi.Router) {
			if s.opts.RateLimitPerMin > 0 {
				r.Use(httprate.LimitByIP(s.opts.RateLimitPerMin, time.Minute))
			}
			r.Post("/profile", s.handleProfile)
			r.Post("/script", s.handleScript)
			r.Post("/candidates/{id}/intros", s.handleCreateIntro)
		})
	})

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

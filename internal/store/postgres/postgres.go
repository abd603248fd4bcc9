// Package postgres implements store.Store with direct SQL against the same
// tables the hosted REST API serves.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/matching"
	"github.com/spigell/career-match/internal/store"
)

// Pool is the subset of *pgxpool.Pool the store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ store.Store = (*Store)(nil)

type Store struct {
	pool   Pool
	logger *zap.Logger
}

func New(pool Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, logger: logger}
}

// Connect opens a pool for dsn and checks it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

const (
	jobColumns = `id::text, title, company, location, skills_required, tags, remote, created_at, updated_at`

	candidateColumns = `id::text, name, email, skills, interests, experience, goals, availability,
		pitch_text, is_complete, profile_published, consent_given, generated_profile, profile_generated_at`

	introColumns = `id::text, candidate_id::text, employer_email, employer_company, message, status, created_at`
)

func (s *Store) ListJobs(ctx context.Context) ([]matching.Job, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []matching.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	return jobs, nil
}

func (s *Store) GetJob(ctx context.Context, id string) (matching.Job, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return matching.Job{}, fmt.Errorf("job %q: %w", id, store.ErrNotFound)
	}

	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID.String())
	job, err := scanJob(row)
	if err != nil {
		return matching.Job{}, notFound(fmt.Sprintf("job %s", id), err)
	}
	return job, nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (matching.Candidate, error) {
	candidateID, err := uuid.Parse(id)
	if err != nil {
		return matching.Candidate{}, fmt.Errorf("candidate %q: %w", id, store.ErrNotFound)
	}

	row := s.pool.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, candidateID.String())
	candidate, err := scanCandidate(row)
	if err != nil {
		return matching.Candidate{}, notFound(fmt.Sprintf("candidate %s", id), err)
	}
	return candidate, nil
}

func (s *Store) GetCandidateByEmail(ctx context.Context, email string) (matching.Candidate, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE email = $1 LIMIT 1`, email)
	candidate, err := scanCandidate(row)
	if err != nil {
		return matching.Candidate{}, notFound(fmt.Sprintf("candidate with email %q", email), err)
	}
	return candidate, nil
}

func (s *Store) ListPublishedCandidates(ctx context.Context) ([]matching.Candidate, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+candidateColumns+` FROM candidates
		WHERE profile_published AND consent_given ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing published candidates: %w", err)
	}
	defer rows.Close()

	var candidates []matching.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing published candidates: %w", err)
	}

	return candidates, nil
}

func (s *Store) SaveGeneratedProfile(ctx context.Context, email string, profile *matching.GeneratedProfile, at time.Time) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding generated profile: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE candidates SET generated_profile = $2, profile_generated_at = $3 WHERE email = $1`,
		email, payload, at.UTC())
	if err != nil {
		return fmt.Errorf("saving generated profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("candidate with email %q: %w", email, store.ErrNotFound)
	}

	s.logger.Debug("generated profile saved", zap.String("candidate_email", email))

	return nil
}

func (s *Store) CreateIntro(ctx context.Context, intro store.Intro) (store.Intro, error) {
	if err := intro.Validate(); err != nil {
		return store.Intro{}, err
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO intros (candidate_id, employer_email, employer_company, message, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING `+introColumns,
		intro.CandidateID, intro.EmployerEmail, intro.EmployerCompany, intro.Message, intro.Status)

	created, err := scanIntro(row)
	if err != nil {
		return store.Intro{}, fmt.Errorf("creating intro: %w", err)
	}
	return created, nil
}

func (s *Store) ListIntrosByEmployer(ctx context.Context, employerEmail string) ([]store.Intro, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+introColumns+` FROM intros WHERE employer_email = $1 ORDER BY created_at DESC`, employerEmail)
	if err != nil {
		return nil, fmt.Errorf("listing intros: %w", err)
	}
	defer rows.Close()

	var intros []store.Intro
	for rows.Next() {
		intro, err := scanIntro(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning intro: %w", err)
		}
		intros = append(intros, intro)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing intros: %w", err)
	}

	return intros, nil
}

func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	var stats store.Stats
	err := s.pool.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM candidates),
		(SELECT count(*) FROM candidates WHERE is_complete),
		(SELECT count(*) FROM candidates WHERE profile_published),
		(SELECT count(*) FROM jobs),
		(SELECT count(*) FROM intros),
		(SELECT count(*) FROM intros WHERE status = $1)`, store.IntroStatusPending).Scan(
		&stats.Candidates,
		&stats.CompleteCandidates,
		&stats.PublishedCandidates,
		&stats.Jobs,
		&stats.Intros,
		&stats.PendingIntros,
	)
	if err != nil {
		return store.Stats{}, fmt.Errorf("counting rows: %w", err)
	}
	return stats, nil
}

func notFound(what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return fmt.Errorf("getting %s: %w", what, err)
}

func scanJob(row pgx.Row) (matching.Job, error) {
	var job matching.Job
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location,
		&job.SkillsRequired, &job.Tags, &job.Remote,
		&job.CreatedAt, &job.UpdatedAt,
	)
	return job, err
}

func scanCandidate(row pgx.Row) (matching.Candidate, error) {
	var (
		c       matching.Candidate
		profile []byte
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Skills, &c.Interests, &c.Experience, &c.Goals, &c.Availability,
		&c.PitchText, &c.IsComplete, &c.ProfilePublished, &c.ConsentGiven, &profile, &c.ProfileGeneratedAt,
	)
	if err != nil {
		return matching.Candidate{}, err
	}

	if len(profile) > 0 && string(profile) != "null" {
		c.GeneratedProfile = &matching.GeneratedProfile{}
		if err := json.Unmarshal(profile, c.GeneratedProfile); err != nil {
			return matching.Candidate{}, fmt.Errorf("decoding generated profile: %w", err)
		}
	}

	return c, nil
}

func scanIntro(row pgx.Row) (store.Intro, error) {
	var intro store.Intro
	err := row.Scan(
		&intro.ID, &intro.CandidateID, &intro.EmployerEmail, &intro.EmployerCompany,
		&intro.Message, &intro.Status, &intro.CreatedAt,
	)
	return intro, err
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/career-match/internal/matching"
	"github.com/spigell/career-match/internal/store"
)

const (
	jobID  = "0b5d1a52-5a4f-4d55-b3e5-3f0e9a1b8c01"
	candID = "6c7f3d1e-2b0a-4c9e-8f11-4d2a7e5b9c02"
)

// assign copies values into scan destinations by reflection.
func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values for %d destinations", len(values), len(dest))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

type rowStub struct {
	values []any
	err    error
}

func (r rowStub) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

type rowsStub struct {
	rows [][]any
	idx  int
	err  error
}

func (r *rowsStub) Close()                                       {}
func (r *rowsStub) Err() error                                   { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rowsStub) Values() ([]any, error)                       { return r.rows[r.idx-1], nil }
func (r *rowsStub) RawValues() [][]byte                          { return nil }
func (r *rowsStub) Conn() *pgx.Conn                              { return nil }

func (r *rowsStub) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *rowsStub) Scan(dest ...any) error {
	return assign(r.rows[r.idx-1], dest)
}

type call struct {
	sql  string
	args []any
}

type poolStub struct {
	rows     *rowsStub
	queryErr error
	row      rowStub
	tag      pgconn.CommandTag
	execErr  error
	calls    []call
}

func (p *poolStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.calls = append(p.calls, call{sql, args})
	return p.tag, p.execErr
}

func (p *poolStub) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.calls = append(p.calls, call{sql, args})
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return p.rows, nil
}

func (p *poolStub) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	p.calls = append(p.calls, call{sql, args})
	return p.row
}

func jobRow(id, title string, skills []string, remote bool) []any {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return []any{id, title, "Acme", "Remote", skills, []string{}, remote, now, now}
}

func candidateRow(profile []byte, generatedAt *time.Time) []any {
	return []any{
		candID, "Alex", "alex@example.com", []string{"Go"}, []string{"fintech"}, "3 years", "lead",
		"now", "pitch", true, true, true, profile, generatedAt,
	}
}

func TestListJobs(t *testing.T) {
	pool := &poolStub{rows: &rowsStub{rows: [][]any{
		jobRow(jobID, "Backend Engineer", []string{"go"}, true),
		jobRow("second", "Analyst", nil, false),
	}}}

	jobs, err := New(pool, nil).ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, jobID, jobs[0].ID)
	assert.Equal(t, []string{"go"}, jobs[0].SkillsRequired)
	assert.True(t, jobs[0].Remote)
	assert.Contains(t, pool.calls[0].sql, "ORDER BY created_at DESC")
}

func TestListJobsErrors(t *testing.T) {
	_, err := New(&poolStub{queryErr: assert.AnError}, nil).ListJobs(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "listing jobs")

	_, err = New(&poolStub{rows: &rowsStub{err: assert.AnError}}, nil).ListJobs(context.Background())
	require.ErrorIs(t, err, assert.AnError)
}

func TestGetJob(t *testing.T) {
	pool := &poolStub{row: rowStub{values: jobRow(jobID, "Backend Engineer", []string{"go"}, false)}}

	job, err := New(pool, nil).GetJob(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, []any{jobID}, pool.calls[0].args)
}

func TestGetJobNotFound(t *testing.T) {
	pool := &poolStub{row: rowStub{err: pgx.ErrNoRows}}
	s := New(pool, nil)

	_, err := s.GetJob(context.Background(), jobID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetJob(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, pool.calls, 1)

	pool.row = rowStub{err: errors.New("connection reset")}
	_, err = s.GetJob(context.Background(), jobID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGetCandidateDecodesProfile(t *testing.T) {
	at := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	profile := []byte(`{"titles":["Backend Engineer"],"skills":{"pro":["Go"],"growing":[]},
		"goals":{"roles":["Tech Lead"],"industries":[]},"learningGaps":[],"summary":"s","suggestedProjects":[]}`)
	pool := &poolStub{row: rowStub{values: candidateRow(profile, &at)}}

	candidate, err := New(pool, nil).GetCandidate(context.Background(), candID)
	require.NoError(t, err)
	require.NotNil(t, candidate.GeneratedProfile)
	assert.Equal(t, []string{"Backend Engineer"}, candidate.GeneratedProfile.Titles)
	assert.Equal(t, []string{"Tech Lead"}, candidate.GeneratedProfile.Goals.Roles)
	require.NotNil(t, candidate.ProfileGeneratedAt)
	assert.True(t, at.Equal(*candidate.ProfileGeneratedAt))
}

func TestGetCandidateByEmailWithoutProfile(t *testing.T) {
	pool := &poolStub{row: rowStub{values: candidateRow(nil, nil)}}

	candidate, err := New(pool, nil).GetCandidateByEmail(context.Background(), "alex@example.com")
	require.NoError(t, err)
	assert.Nil(t, candidate.GeneratedProfile)
	assert.Nil(t, candidate.ProfileGeneratedAt)
	assert.Equal(t, []any{"alex@example.com"}, pool.calls[0].args)
}

func TestGetCandidateBrokenProfile(t *testing.T) {
	pool := &poolStub{row: rowStub{values: candidateRow([]byte(`{"titles": 5}`), nil)}}

	_, err := New(pool, nil).GetCandidate(context.Background(), candID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding generated profile")
}

func TestListPublishedCandidates(t *testing.T) {
	pool := &poolStub{rows: &rowsStub{rows: [][]any{candidateRow(nil, nil), candidateRow([]byte("null"), nil)}}}

	candidates, err := New(pool, nil).ListPublishedCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Nil(t, candidates[1].GeneratedProfile)
	assert.Contains(t, pool.calls[0].sql, "profile_published AND consent_given")
}

func TestSaveGeneratedProfile(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	pool := &poolStub{tag: pgconn.NewCommandTag("UPDATE 1")}
	err := New(pool, nil).SaveGeneratedProfile(context.Background(), "alex@example.com",
		&matching.GeneratedProfile{Titles: []string{"Engineer"}}, at)
	require.NoError(t, err)

	args := pool.calls[0].args
	assert.Equal(t, "alex@example.com", args[0])
	assert.Contains(t, string(args[1].([]byte)), `"titles":["Engineer"]`)
	assert.Equal(t, time.UTC, args[2].(time.Time).Location())

	pool = &poolStub{tag: pgconn.NewCommandTag("UPDATE 0")}
	err = New(pool, nil).SaveGeneratedProfile(context.Background(), "ghost@example.com", &matching.GeneratedProfile{}, at)
	assert.ErrorIs(t, err, store.ErrNotFound)

	pool = &poolStub{execErr: assert.AnError}
	err = New(pool, nil).SaveGeneratedProfile(context.Background(), "alex@example.com", &matching.GeneratedProfile{}, at)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCreateIntro(t *testing.T) {
	now := time.Now().UTC()
	msg := "hello"
	pool := &poolStub{row: rowStub{values: []any{"i-1", candID, "hr@acme.io", "Acme", &msg, "pending", now}}}

	created, err := New(pool, nil).CreateIntro(context.Background(), store.Intro{
		CandidateID:     candID,
		EmployerEmail:   "hr@acme.io",
		EmployerCompany: "Acme",
		Message:         &msg,
	})
	require.NoError(t, err)
	assert.Equal(t, "i-1", created.ID)
	assert.Equal(t, "pending", created.Status)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(pool.calls[0].sql), "INSERT INTO intros"))
	assert.Equal(t, "pending", pool.calls[0].args[4])
}

func TestCreateIntroInvalid(t *testing.T) {
	pool := &poolStub{}

	_, err := New(pool, nil).CreateIntro(context.Background(), store.Intro{CandidateID: "x"})
	require.Error(t, err)
	assert.Empty(t, pool.calls)
}

func TestListIntrosByEmployer(t *testing.T) {
	now := time.Now().UTC()
	pool := &poolStub{rows: &rowsStub{rows: [][]any{
		{"i-1", candID, "hr@acme.io", "Acme", nil, "pending", now},
	}}}

	intros, err := New(pool, nil).ListIntrosByEmployer(context.Background(), "hr@acme.io")
	require.NoError(t, err)
	require.Len(t, intros, 1)
	assert.Nil(t, intros[0].Message)
	assert.Equal(t, candID, intros[0].CandidateID)
}

func TestStats(t *testing.T) {
	pool := &poolStub{row: rowStub{values: []any{12, 8, 5, 30, 4, 3}}}

	stats, err := New(pool, nil).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.Stats{
		Candidates: 12, CompleteCandidates: 8, PublishedCandidates: 5,
		Jobs: 30, Intros: 4, PendingIntros: 3,
	}, stats)
	assert.Equal(t, []any{store.IntroStatusPending}, pool.calls[0].args)

	pool.row = rowStub{err: assert.AnError}
	_, err = New(pool, nil).Stats(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bmadison/classwrap/internal/deck"
	"github.com/bmadison/classwrap/internal/recap"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound reports a job id with no row behind it.
var ErrNotFound = errors.New("job not found")

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	email TEXT NOT NULL,
	request_json TEXT NOT NULL,
	record_json TEXT,
	error TEXT
)`

// Store persists recap jobs in SQLite. It is safe for concurrent use by the
// HTTP handlers and the worker.
type Store struct {
	db *sql.DB
}

// OpenStore opens the job database at path, creating the schema if needed.
// Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening job database: %w", err)
	}
	if path == ":memory:" {
		// An in-memory database exists per connection, so keep the pool at one.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(createJobsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateJob queues a build for req and returns the new job.
func (s *Store) CreateJob(req *recap.Request) (*recap.Job, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	id, err := newJobID()
	if err != nil {
		return nil, err
	}
	job := &recap.Job{
		ID:        id,
		Status:    recap.StatusQueued,
		CreatedAt: time.Now().UTC(),
		Email:     req.Email,
	}
	_, err = s.db.Exec(
		"INSERT INTO jobs (id, status, created_at, email, request_json) VALUES (?, ?, ?, ?, ?)",
		job.ID, string(job.Status), job.CreatedAt, job.Email, string(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}
	return job, nil
}

// Job fetches one job by id, including its record once the build is done.
func (s *Store) Job(id string) (*recap.Job, error) {
	var (
		job        recap.Job
		status     string
		recordJSON sql.NullString
		jobError   sql.NullString
	)
	err := s.db.QueryRow(
		"SELECT id, status, created_at, email, record_json, error FROM jobs WHERE id = ?", id,
	).Scan(&job.ID, &status, &job.CreatedAt, &job.Email, &recordJSON, &jobError)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching job: %w", err)
	}
	job.Status = recap.Status(status)
	job.Error = jobError.String
	if recordJSON.Valid {
		var rec deck.DataRecord
		if err := json.Unmarshal([]byte(recordJSON.String), &rec); err != nil {
			return nil, fmt.Errorf("decoding job record: %w", err)
		}
		job.Record = &rec
	}
	return &job, nil
}

// ClaimedJob is a queued job one worker has atomically moved to running.
type ClaimedJob struct {
	ID      string
	Request *recap.Request
}

// ClaimNext claims the oldest queued job, or returns nil when the queue is
// empty. The status guard on the update keeps two workers from claiming the
// same row.
func (s *Store) ClaimNext() (*ClaimedJob, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting claim: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow(
		"SELECT id FROM jobs WHERE status = ? ORDER BY created_at LIMIT 1",
		string(recap.StatusQueued),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting queued job: %w", err)
	}

	res, err := tx.Exec(
		"UPDATE jobs SET status = ? WHERE id = ? AND status = ?",
		string(recap.StatusRunning), id, string(recap.StatusQueued),
	)
	if err != nil {
		return nil, fmt.Errorf("claiming job: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		// Lost the race; the next poll will try again.
		return nil, tx.Commit()
	}

	var requestJSON string
	if err := tx.QueryRow(
		"SELECT request_json FROM jobs WHERE id = ?", id,
	).Scan(&requestJSON); err != nil {
		return nil, fmt.Errorf("fetching claimed job: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	var req recap.Request
	if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
		return nil, fmt.Errorf("decoding claimed request: %w", err)
	}
	return &ClaimedJob{ID: id, Request: &req}, nil
}

// SaveResult stores the finished record and marks the job done.
func (s *Store) SaveResult(id string, rec *deck.DataRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	_, err = s.db.Exec(
		"UPDATE jobs SET record_json = ?, status = ? WHERE id = ?",
		string(recordJSON), string(recap.StatusDone), id,
	)
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}

// SaveError marks the job failed with a message for the status endpoint.
func (s *Store) SaveError(id string, jobErr error) error {
	_, err := s.db.Exec(
		"UPDATE jobs SET status = ?, error = ? WHERE id = ?",
		string(recap.StatusError), jobErr.Error(), id,
	)
	if err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

func newJobID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating job id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

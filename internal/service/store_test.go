package service

import (
	"errors"
	"testing"

	"github.com/bmadison/classwrap/internal/deck"
	"github.com/bmadison/classwrap/internal/recap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRequest(name string) *recap.Request {
	return &recap.Request{
		Email:  "sam@example.edu",
		Name:   name,
		UserID: "u0",
		Data: recap.Source{
			Sections: []recap.Section{{ID: "s1", Title: "AP Chemistry"}},
		},
	}
}

// TestStoreCreateAndFetch verifies the queued job round trip
func TestStoreCreateAndFetch(t *testing.T) {
	store := newTestStore(t)

	job, err := store.CreateJob(testRequest("Sam Rivera"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if len(job.ID) != 32 {
		t.Errorf("Expected 32-char hex id, got %q", job.ID)
	}
	if job.Status != recap.StatusQueued {
		t.Errorf("Expected queued, got %s", job.Status)
	}

	got, err := store.Job(job.ID)
	if err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	if got.Status != recap.StatusQueued || got.Email != "sam@example.edu" {
		t.Errorf("Expected queued job for sam@example.edu, got %+v", got)
	}
	if got.Record != nil {
		t.Errorf("Expected no record before the build, got %+v", got.Record)
	}
	if got.Error != "" {
		t.Errorf("Expected empty error, got %q", got.Error)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected created_at to survive the round trip")
	}
}

// TestStoreNotFound verifies the sentinel for unknown ids
func TestStoreNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Job("deadbeef"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestStoreClaimEmpty verifies an empty queue claims to nothing
func TestStoreClaimEmpty(t *testing.T) {
	store := newTestStore(t)

	claimed, err := store.ClaimNext()
	if err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}
	if claimed != nil {
		t.Errorf("Expected nil claim from empty queue, got %+v", claimed)
	}
}

// TestStoreClaimDrainsQueue verifies each job is claimed exactly once and
// moves to running
func TestStoreClaimDrainsQueue(t *testing.T) {
	store := newTestStore(t)

	queued := map[string]bool{}
	for _, name := range []string{"A", "B", "C"} {
		job, err := store.CreateJob(testRequest(name))
		if err != nil {
			t.Fatalf("CreateJob failed: %v", err)
		}
		queued[job.ID] = false
	}

	for i := 0; i < 3; i++ {
		claimed, err := store.ClaimNext()
		if err != nil {
			t.Fatalf("ClaimNext failed: %v", err)
		}
		if claimed == nil {
			t.Fatalf("Expected a claim on round %d, got nil", i)
		}
		seen, ok := queued[claimed.ID]
		if !ok {
			t.Fatalf("Claimed unknown job %s", claimed.ID)
		}
		if seen {
			t.Fatalf("Job %s claimed twice", claimed.ID)
		}
		queued[claimed.ID] = true

		if claimed.Request == nil || len(claimed.Request.Data.Sections) != 1 {
			t.Errorf("Expected request to round-trip, got %+v", claimed.Request)
		}
		job, err := store.Job(claimed.ID)
		if err != nil {
			t.Fatalf("Job failed: %v", err)
		}
		if job.Status != recap.StatusRunning {
			t.Errorf("Expected running after claim, got %s", job.Status)
		}
	}

	claimed, err := store.ClaimNext()
	if err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}
	if claimed != nil {
		t.Errorf("Expected drained queue, got %+v", claimed)
	}
}

// TestStoreSaveResult verifies the done path carries the record
func TestStoreSaveResult(t *testing.T) {
	store := newTestStore(t)

	job, err := store.CreateJob(testRequest("Sam Rivera"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if _, err := store.ClaimNext(); err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}

	rec := &deck.DataRecord{Fields: map[string]string{"student_name": "Sam Rivera"}}
	if err := store.SaveResult(job.ID, rec); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	got, err := store.Job(job.ID)
	if err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	if got.Status != recap.StatusDone || !got.Status.Terminal() {
		t.Errorf("Expected terminal done status, got %s", got.Status)
	}
	if got.Record == nil {
		t.Fatal("Expected a record on the done job")
	}
	if name, _ := got.Record.Field("student_name"); name != "Sam Rivera" {
		t.Errorf("Expected record field to round-trip, got %q", name)
	}
}

// TestStoreSaveError verifies the failure path keeps the message
func TestStoreSaveError(t *testing.T) {
	store := newTestStore(t)

	job, err := store.CreateJob(testRequest("Sam Rivera"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if _, err := store.ClaimNext(); err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}
	if err := store.SaveError(job.ID, errors.New("source export was empty")); err != nil {
		t.Fatalf("SaveError failed: %v", err)
	}

	got, err := store.Job(job.ID)
	if err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	if got.Status != recap.StatusError || !got.Status.Terminal() {
		t.Errorf("Expected terminal error status, got %s", got.Status)
	}
	if got.Error != "source export was empty" {
		t.Errorf("Expected stored error message, got %q", got.Error)
	}
	if got.Record != nil {
		t.Errorf("Expected no record on a failed job, got %+v", got.Record)
	}
}

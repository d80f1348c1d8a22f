package recap

import (
	"fmt"
	"time"

	"github.com/bmadison/classwrap/internal/deck"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Terminal reports whether the job will never change again.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Job is one recap build, from submission through the worker to its record.
type Job struct {
	ID        string           `json:"id"`
	Status    Status           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	Email     string           `json:"email"`
	Record    *deck.DataRecord `json:"record,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Section is one course section the student is enrolled in.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Enrollment places a user in a section. The student's own enrollments are
// included; stats that mean "classmates" exclude the requesting user.
type Enrollment struct {
	SectionID string `json:"section_id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
}

// Assignment is one dated piece of work. A zero Due means the assignment has
// no due date and is skipped by deadline-relative stats.
type Assignment struct {
	ID        string    `json:"id"`
	SectionID string    `json:"section_id"`
	Title     string    `json:"title"`
	Due       time.Time `json:"due,omitzero"`
}

// Submission is one turned-in assignment. A zero Submitted time means the
// timestamp was not recorded.
type Submission struct {
	AssignmentID string    `json:"assignment_id"`
	SectionID    string    `json:"section_id"`
	Submitted    time.Time `json:"submitted,omitzero"`
	Late         bool      `json:"late,omitempty"`
}

// Source is a student's exported year of coursework, the input to a recap.
type Source struct {
	Sections    []Section    `json:"sections"`
	Enrollments []Enrollment `json:"enrollments"`
	Assignments []Assignment `json:"assignments"`
	Submissions []Submission `json:"submissions"`
}

// Request submits a recap build.
type Request struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	Data   Source `json:"data"`
}

// Validate rejects requests the worker could not do anything useful with.
func (r *Request) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if len(r.Data.Sections) == 0 {
		return fmt.Errorf("data contains no sections")
	}
	return nil
}

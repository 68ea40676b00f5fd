package models

import (
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "created"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus validates s against the closed set of statuses.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(s); st {
	case TaskStatusCreated, TaskStatusInProgress, TaskStatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown task status %q", s)
	}
}

// Task belongs to exactly one user.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskInput carries the fields of a new task. An empty Status means created.
type TaskInput struct {
	Title       string
	Description *string
	Status      TaskStatus
}

// TaskPatch is a partial update; nil fields are left unchanged.
// ClearDescription removes the description.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *TaskStatus
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.ClearDescription {
		t.Description = nil
	} else if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}

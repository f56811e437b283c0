package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyTitle       = errors.New("title is empty")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidDueDate   = errors.New("invalid due date")
	ErrEmptyProjectName = errors.New("project name is empty")
)

// DefaultProjectColor is used when a task names a project that does not exist.
const DefaultProjectColor = "bg-primary"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, v)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities from low (0) to high (2). Unknown values rank -1.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	}
	return -1
}

type Task struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Completed    bool      `json:"completed" yaml:"completed"`
	Priority     Priority  `json:"priority" yaml:"priority"`
	Project      string    `json:"project" yaml:"project"`
	ProjectColor string    `json:"projectColor" yaml:"project_color"`
	DueDate      Date      `json:"dueDate,omitzero" yaml:"due_date,omitempty"`
	DueTime      string    `json:"dueTime,omitempty" yaml:"due_time,omitempty"`
	CreatedAt    time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"updated_at"`
}

func (t Task) HasDue() bool {
	return !t.DueDate.IsZero()
}

// Overdue reports whether an incomplete task was due before today.
func (t Task) Overdue(today Date) bool {
	return !t.Completed && t.HasDue() && t.DueDate.Before(today)
}

type Project struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color" yaml:"color"`
	TaskCount int    `json:"taskCount" yaml:"task_count"`
}

type Stats struct {
	Total        int `json:"total" yaml:"total"`
	Completed    int `json:"completed" yaml:"completed"`
	InProgress   int `json:"inProgress" yaml:"in_progress"`
	HighPriority int `json:"highPriority" yaml:"high_priority"`
}

// NewTask holds the caller-supplied fields of a task being created.
// Priority defaults to medium; an empty ProjectColor is filled from the project.
type NewTask struct {
	Title        string
	Description  string
	Completed    bool
	Priority     Priority
	Project      string
	ProjectColor string
	DueDate      Date
	DueTime      string
}

// Patch lists the fields an update may change. Nil fields are left untouched;
// a non-nil DueDate pointing at the zero Date clears the due date.
type Patch struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *Priority
	Project      *string
	ProjectColor *string
	DueDate      *Date
	DueTime      *string
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.Priority == nil &&
		p.Project == nil && p.ProjectColor == nil && p.DueDate == nil && p.DueTime == nil
}

// ApplyTo returns t with the patch fields merged in. Timestamps are not touched.
func (p Patch) ApplyTo(t Task) (Task, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return t, ErrEmptyTitle
		}
		t.Title = title
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return t, fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
		}
		t.Priority = *p.Priority
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.ProjectColor != nil {
		t.ProjectColor = *p.ProjectColor
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = strings.TrimSpace(*p.DueTime)
	}
	return t, nil
}

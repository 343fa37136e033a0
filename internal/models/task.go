package models

import (
	"fmt"
	"time"

	apperrors "github.com/yukikurage/task-tracker/internal/errors"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every task status
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is a known task status
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Priority orders tasks; lower values come first.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// Priorities lists every priority, highest first
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return "unknown"
}

type Task struct {
	id          uint64
	title       string
	description string
	priority    Priority
	status      TaskStatus
	dueDate     time.Time
	projectID   uint64
	assigneeID  uint64
}

// NewTask validates the fields and creates a pending task. The due date may
// not lie in the past.
func NewTask(title, description string, priority Priority, dueDate time.Time, projectID, assigneeID uint64) (*Task, error) {
	task := &Task{
		title:       title,
		description: description,
		priority:    priority,
		status:      TaskStatusPending,
		dueDate:     dueDate,
		projectID:   projectID,
		assigneeID:  assigneeID,
	}
	if err := task.validate(); err != nil {
		return nil, err
	}
	if dueDate.Before(time.Now()) {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidDates, "due_date", "due date cannot be in the past")
	}
	return task, nil
}

// RestoreTask rebuilds a persisted task. The due date may have passed since
// the task was created.
func RestoreTask(id uint64, title, description string, priority Priority, status TaskStatus, dueDate time.Time, projectID, assigneeID uint64) (*Task, error) {
	task := &Task{
		id:          id,
		title:       title,
		description: description,
		priority:    priority,
		status:      status,
		dueDate:     dueDate,
		projectID:   projectID,
		assigneeID:  assigneeID,
	}
	if err := task.validate(); err != nil {
		return nil, err
	}
	if err := validateTaskStatus(status); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *Task) validate() error {
	if err := check(notBlank("title", t.title), notBlank("description", t.description)); err != nil {
		return err
	}
	return validatePriority(t.priority)
}

func validatePriority(priority Priority) error {
	return check(rule{
		field:   "priority",
		value:   int(priority),
		tag:     "oneof=1 2 3",
		code:    apperrors.ErrCodeOutOfRange,
		message: "priority must be 1, 2 or 3",
	})
}

func validateTaskStatus(status TaskStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "status",
			fmt.Sprintf("invalid task status %q, expected one of %v", status, TaskStatuses))
	}
	return nil
}

func (t *Task) ID() uint64 { return t.id }
func (t *Task) Title() string { return t.title }
func (t *Task) Description() string { return t.description }
func (t *Task) Priority() Priority { return t.priority }
func (t *Task) Status() TaskStatus { return t.status }
func (t *Task) DueDate() time.Time { return t.dueDate }
func (t *Task) ProjectID() uint64 { return t.projectID }
func (t *Task) AssigneeID() uint64 { return t.assigneeID }

// AssignID records the identifier handed out by the store
func (t *Task) AssignID(id uint64) {
	t.id = id
}

// UpdateStatus moves the task to status. It returns false, leaving the task
// untouched, for unknown statuses and for the current status.
func (t *Task) UpdateStatus(status TaskStatus) bool {
	if !status.Valid() || status == t.status {
		return false
	}
	t.status = status
	return true
}

// IsOverdue reports whether the due date has passed on an unfinished task
func (t *Task) IsOverdue() bool {
	return t.IsOverdueAt(time.Now())
}

// IsOverdueAt is IsOverdue evaluated at now
func (t *Task) IsOverdueAt(now time.Time) bool {
	if t.status == TaskStatusCompleted {
		return false
	}
	return t.dueDate.Before(now)
}

// TaskUpdate carries the task fields to change; nil fields are left alone
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *TaskStatus
	DueDate     *time.Time
	ProjectID   *uint64
	AssigneeID  *uint64
}

// IsEmpty reports whether no field is set
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil && u.Status == nil &&
		u.DueDate == nil && u.ProjectID == nil && u.AssigneeID == nil
}

// Validate checks the set fields in declaration order. Due dates in the past
// are accepted; references are left to the store.
func (u TaskUpdate) Validate() error {
	if u.Title != nil {
		if err := check(notBlank("title", *u.Title)); err != nil {
			return err
		}
	}
	if u.Description != nil {
		if err := check(notBlank("description", *u.Description)); err != nil {
			return err
		}
	}
	if u.Priority != nil {
		if err := validatePriority(*u.Priority); err != nil {
			return err
		}
	}
	if u.Status != nil {
		if err := validateTaskStatus(*u.Status); err != nil {
			return err
		}
	}
	return nil
}

// Columns returns the column values to write for the set fields
func (u TaskUpdate) Columns() map[string]interface{} {
	columns := make(map[string]interface{}, 7)
	if u.Title != nil {
		columns["title"] = *u.Title
	}
	if u.Description != nil {
		columns["description"] = *u.Description
	}
	if u.Priority != nil {
		columns["priority"] = int(*u.Priority)
	}
	if u.Status != nil {
		columns["status"] = string(*u.Status)
	}
	if u.DueDate != nil {
		columns["due_date"] = u.DueDate.UTC()
	}
	if u.ProjectID != nil {
		columns["project_id"] = *u.ProjectID
	}
	if u.AssigneeID != nil {
		columns["assignee_id"] = *u.AssigneeID
	}
	return columns
}

// Apply validates update and applies it. The task is left untouched on error.
func (t *Task) Apply(update TaskUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	if update.Title != nil {
		t.title = *update.Title
	}
	if update.Description != nil {
		t.description = *update.Description
	}
	if update.Priority != nil {
		t.priority = *update.Priority
	}
	if update.Status != nil {
		t.status = *update.Status
	}
	if update.DueDate != nil {
		t.dueDate = *update.DueDate
	}
	if update.ProjectID != nil {
		t.projectID = *update.ProjectID
	}
	if update.AssigneeID != nil {
		t.assigneeID = *update.AssigneeID
	}
	return nil
}

func (t *Task) String() string {
	overdue := ""
	if t.IsOverdue() {
		overdue = " (overdue)"
	}
	return fmt.Sprintf("Task #%d: %s%s [%s, %s priority] due %s, project %d, assignee %d",
		t.id, t.title, overdue, t.status, t.priority,
		t.dueDate.Format("2006-01-02 15:04"), t.projectID, t.assigneeID)
}

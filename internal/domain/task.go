package domain

import "time"

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// ParseStatus reports whether s names one of the three task states.
func ParseStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

// Task is a unit of work under a goal.
// CompletedAt is non-nil iff Status is StatusCompleted.
type Task struct {
	ID             int64
	GoalID         int64
	Title          string
	Description    string
	Status         TaskStatus
	DueDate        *time.Time
	CompletedAt    *time.Time
	Priority       Priority
	EstimatedHours *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetStatus moves the task to status. Every transition is legal:
// completed stamps CompletedAt with now (again, if already completed),
// the other states clear it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	if status == StatusCompleted {
		at := now
		t.CompletedAt = &at
		return
	}
	t.CompletedAt = nil
}

// IsOverdue reports whether the task was due before now and is not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}

// IsUpcoming reports whether the task is still open and due at or after now.
func (t Task) IsUpcoming(now time.Time) bool {
	return t.DueDate != nil && !t.DueDate.Before(now) && t.Status != StatusCompleted
}

package domain

import "time"

// Priority is shared by goals and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts low, medium or high. Empty input means medium.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case "":
		return PriorityMedium, true
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

// Goal is a learning objective owned by exactly one user.
// Task counts and progress are not part of the entity; see ComputeProgress.
type Goal struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Deadline    *time.Time
	Category    string
	Priority    Priority

	CreatedAt time.Time
	UpdatedAt time.Time
}

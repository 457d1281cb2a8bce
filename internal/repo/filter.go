package repo

import (
	"strconv"
	"strings"
	"time"

	dom "learntrack/internal/domain"
)

// TaskFilter narrows a user's tasks. Zero fields do not filter.
// A task without a due date never matches DueBefore or DueFrom.
type TaskFilter struct {
	Status    dom.TaskStatus
	NotStatus dom.TaskStatus
	DueBefore *time.Time // due_date < DueBefore
	DueFrom   *time.Time // due_date >= DueFrom
}

// Match reports whether t passes the filter.
func (f TaskFilter) Match(t dom.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.NotStatus != "" && t.Status == f.NotStatus {
		return false
	}
	if f.DueBefore != nil && (t.DueDate == nil || !t.DueDate.Before(*f.DueBefore)) {
		return false
	}
	if f.DueFrom != nil && (t.DueDate == nil || t.DueDate.Before(*f.DueFrom)) {
		return false
	}
	return true
}

// where renders the filter as SQL over tasks t JOIN goals g.
// Placeholders continue after the owner's $1.
func (f TaskFilter) where(userID int64) (string, []any) {
	conds := []string{"g.user_id = $1"}
	args := []any{userID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if f.Status != "" {
		add("t.status = ?", string(f.Status))
	}
	if f.NotStatus != "" {
		add("t.status <> ?", string(f.NotStatus))
	}
	if f.DueBefore != nil {
		add("t.due_date < ?", *f.DueBefore)
	}
	if f.DueFrom != nil {
		add("t.due_date >= ?", *f.DueFrom)
	}
	return strings.Join(conds, " AND "), args
}

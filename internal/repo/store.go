package repo

import (
	"context"
	"errors"
	"time"

	dom "learntrack/internal/domain"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

// Store hands out one transactional handle per unit of work.
// fn's error rolls the transaction back; nil commits it.
type Store interface {
	Read(ctx context.Context, fn func(Tx) error) error
	Write(ctx context.Context, fn func(Tx) error) error
	Close()
}

// Tx exposes the repositories bound to a single transaction.
type Tx interface {
	Users() UserRepo
	Goals() GoalRepo
	Tasks() TaskRepo
}

// UserRepo provides user persistence.
type UserRepo interface {
	GetByID(ctx context.Context, id int64) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
	// Delete removes the user together with its goals and their tasks.
	Delete(ctx context.Context, id int64) error
}

// GoalRepo provides goal persistence. Every read is scoped to one owner.
type GoalRepo interface {
	Create(ctx context.Context, g dom.Goal) (dom.Goal, error)
	GetForUser(ctx context.Context, userID, id int64) (dom.Goal, error)
	ListByUser(ctx context.Context, userID int64) ([]dom.Goal, error)
	// Recent returns goals newest first.
	Recent(ctx context.Context, userID int64, limit int) ([]dom.Goal, error)
	Update(ctx context.Context, g dom.Goal) (dom.Goal, error)
	// Delete removes the goal and its tasks.
	Delete(ctx context.Context, userID, id int64) error
	Count(ctx context.Context, userID int64) (int, error)
	// CountDeadlinesBetween counts goals with from <= deadline <= to.
	CountDeadlinesBetween(ctx context.Context, userID int64, from, to time.Time) (int, error)
}

// TaskRepo provides task persistence. Ownership is resolved through the parent goal.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetForUser(ctx context.Context, userID, id int64) (dom.Task, error)
	// ListForUser returns the user's tasks, restricted to goalID when it is non-zero.
	ListForUser(ctx context.Context, userID, goalID int64) ([]dom.Task, error)
	ListByGoals(ctx context.Context, goalIDs []int64) ([]dom.Task, error)
	Update(ctx context.Context, t dom.Task) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, userID int64, f TaskFilter) (int, error)
	// Find returns matching tasks ordered by due date; limit <= 0 means no limit.
	Find(ctx context.Context, userID int64, f TaskFilter, limit int) ([]dom.Task, error)
	Timeline(ctx context.Context, userID int64) ([]dom.TaskTimes, error)
}

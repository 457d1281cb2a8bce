package service

import (
	"context"
	"strings"
	"time"

	"learntrack/internal/cache"
	dom "learntrack/internal/domain"
	"learntrack/internal/repo"
)

// TaskInput carries the fields of a new task. GoalID is ignored by
// GoalService.CreateWithTasks, which assigns the new goal.
type TaskInput struct {
	GoalID         int64
	Title          string
	Description    string
	DueDate        *time.Time
	Priority       string
	EstimatedHours *float64
}

// TaskPatch is a partial update: nil fields are left unchanged.
// A non-nil Status applies the same rules as SetStatus.
type TaskPatch struct {
	Title          *string
	Description    *string
	Status         *string
	DueDate        *time.Time
	Priority       *string
	EstimatedHours *float64
}

type TaskService struct {
	cacheInvalidator
	store repo.Store
	now   func() time.Time
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(store repo.Store, c *cache.DashboardCache) *TaskService {
	return &TaskService{cacheInvalidator: cacheInvalidator{c}, store: store, now: utcNow}
}

func (in TaskInput) toTask(now time.Time) (dom.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return dom.Task{}, invalidf("title", "is required")
	}
	priority, ok := dom.ParsePriority(in.Priority)
	if !ok {
		return dom.Task{}, invalidf("priority", "must be low, medium or high")
	}
	if err := checkHours(in.EstimatedHours); err != nil {
		return dom.Task{}, err
	}
	return dom.Task{
		GoalID:         in.GoalID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Status:         dom.StatusNotStarted,
		DueDate:        in.DueDate,
		Priority:       priority,
		EstimatedHours: in.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func checkHours(h *float64) error {
	if h != nil && *h < 0 {
		return invalidf("estimated_hours", "must not be negative")
	}
	return nil
}

func parseStatus(s string) (dom.TaskStatus, error) {
	status, ok := dom.ParseStatus(s)
	if !ok {
		return "", invalidf("status", "must be not_started, in_progress or completed")
	}
	return status, nil
}

// Create adds a task under a goal the user owns.
func (s *TaskService) Create(ctx context.Context, userID int64, in TaskInput) (dom.Task, error) {
	t, err := in.toTask(s.now())
	if err != nil {
		return dom.Task{}, err
	}
	err = s.store.Write(ctx, func(tx repo.Tx) error {
		if _, err := ResolveGoal(ctx, tx, userID, in.GoalID); err != nil {
			return err
		}
		t, err = tx.Tasks().Create(ctx, t)
		return err
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns the user's tasks, only those of goalID when it is non-zero.
func (s *TaskService) List(ctx context.Context, userID, goalID int64) ([]dom.Task, error) {
	var list []dom.Task
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		var err error
		list, err = tx.Tasks().ListForUser(ctx, userID, goalID)
		return err
	})
	return list, err
}

func (s *TaskService) Get(ctx context.Context, userID, id int64) (dom.Task, error) {
	var t dom.Task
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		var err error
		t, err = ResolveTask(ctx, tx, userID, id)
		return err
	})
	return t, err
}

// Update merges the provided fields into the task.
func (s *TaskService) Update(ctx context.Context, userID, id int64, p TaskPatch) (dom.Task, error) {
	var status dom.TaskStatus
	if p.Status != nil {
		var err error
		if status, err = parseStatus(*p.Status); err != nil {
			return dom.Task{}, err
		}
	}
	if err := checkHours(p.EstimatedHours); err != nil {
		return dom.Task{}, err
	}
	return s.modify(ctx, userID, id, func(t *dom.Task, now time.Time) error {
		if p.Title != nil {
			title := strings.TrimSpace(*p.Title)
			if title == "" {
				return invalidf("title", "must not be empty")
			}
			t.Title = title
		}
		if p.Description != nil {
			t.Description = strings.TrimSpace(*p.Description)
		}
		if p.DueDate != nil {
			t.DueDate = p.DueDate
		}
		if p.Priority != nil {
			priority, ok := dom.ParsePriority(*p.Priority)
			if !ok {
				return invalidf("priority", "must be low, medium or high")
			}
			t.Priority = priority
		}
		if p.EstimatedHours != nil {
			t.EstimatedHours = p.EstimatedHours
		}
		if status != "" {
			t.SetStatus(status, now)
		}
		return nil
	})
}

// SetStatus moves the task to status; see domain.Task.SetStatus.
func (s *TaskService) SetStatus(ctx context.Context, userID, id int64, status string) (dom.Task, error) {
	st, err := parseStatus(status)
	if err != nil {
		return dom.Task{}, err
	}
	return s.modify(ctx, userID, id, func(t *dom.Task, now time.Time) error {
		t.SetStatus(st, now)
		return nil
	})
}

// modify runs read-authorize-modify-commit for one task in a single transaction.
func (s *TaskService) modify(ctx context.Context, userID, id int64, apply func(*dom.Task, time.Time) error) (dom.Task, error) {
	var out dom.Task
	err := s.store.Write(ctx, func(tx repo.Tx) error {
		t, err := ResolveTask(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		now := s.now()
		if err := apply(&t, now); err != nil {
			return err
		}
		t.UpdatedAt = now
		out, err = tx.Tasks().Update(ctx, t)
		return err
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return out, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.Write(ctx, func(tx repo.Tx) error {
		if _, err := ResolveTask(ctx, tx, userID, id); err != nil {
			return err
		}
		return tx.Tasks().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

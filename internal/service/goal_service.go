package service

import (
	"context"
	"strings"
	"time"

	"learntrack/internal/cache"
	dom "learntrack/internal/domain"
	"learntrack/internal/repo"
)

// GoalInput carries the fields of a new goal.
type GoalInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	Category    string
	Priority    string
}

// GoalPatch is a partial update: nil fields are left unchanged.
type GoalPatch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Category    *string
	Priority    *string
}

type GoalService struct {
	cacheInvalidator
	store repo.Store
	now   func() time.Time
}

// NewGoalService creates a GoalService. If c is nil, caching is disabled.
func NewGoalService(store repo.Store, c *cache.DashboardCache) *GoalService {
	return &GoalService{cacheInvalidator: cacheInvalidator{c}, store: store, now: utcNow}
}

func (in GoalInput) toGoal(userID int64, now time.Time) (dom.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return dom.Goal{}, invalidf("title", "is required")
	}
	priority, ok := dom.ParsePriority(in.Priority)
	if !ok {
		return dom.Goal{}, invalidf("priority", "must be low, medium or high")
	}
	return dom.Goal{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Deadline:    in.Deadline,
		Category:    strings.TrimSpace(in.Category),
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *GoalService) Create(ctx context.Context, userID int64, in GoalInput) (dom.GoalProgress, error) {
	return s.CreateWithTasks(ctx, userID, in, nil)
}

// CreateWithTasks creates a goal and its initial tasks in one transaction.
func (s *GoalService) CreateWithTasks(ctx context.Context, userID int64, in GoalInput, tasks []TaskInput) (dom.GoalProgress, error) {
	now := s.now()
	goal, err := in.toGoal(userID, now)
	if err != nil {
		return dom.GoalProgress{}, err
	}
	drafts := make([]dom.Task, len(tasks))
	for i, ti := range tasks {
		if drafts[i], err = ti.toTask(now); err != nil {
			return dom.GoalProgress{}, err
		}
	}

	var out dom.GoalProgress
	err = s.store.Write(ctx, func(tx repo.Tx) error {
		g, err := tx.Goals().Create(ctx, goal)
		if err != nil {
			return err
		}
		created := make([]dom.Task, 0, len(drafts))
		for _, t := range drafts {
			t.GoalID = g.ID
			t, err = tx.Tasks().Create(ctx, t)
			if err != nil {
				return err
			}
			created = append(created, t)
		}
		out = dom.NewGoalProgress(g, created)
		return nil
	})
	if err != nil {
		return dom.GoalProgress{}, err
	}
	s.invalidateCache(ctx, userID)
	return out, nil
}

// List returns the user's goals, each with progress derived from its current tasks.
func (s *GoalService) List(ctx context.Context, userID int64) ([]dom.GoalProgress, error) {
	var out []dom.GoalProgress
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		goals, err := tx.Goals().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		out, err = withProgress(ctx, tx, goals)
		return err
	})
	return out, err
}

func (s *GoalService) Get(ctx context.Context, userID, id int64) (dom.GoalProgress, error) {
	var out dom.GoalProgress
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		g, err := ResolveGoal(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		list, err := withProgress(ctx, tx, []dom.Goal{g})
		if err != nil {
			return err
		}
		out = list[0]
		return nil
	})
	return out, err
}

// Update merges the provided fields into the goal.
func (s *GoalService) Update(ctx context.Context, userID, id int64, p GoalPatch) (dom.GoalProgress, error) {
	var out dom.GoalProgress
	err := s.store.Write(ctx, func(tx repo.Tx) error {
		g, err := ResolveGoal(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			title := strings.TrimSpace(*p.Title)
			if title == "" {
				return invalidf("title", "must not be empty")
			}
			g.Title = title
		}
		if p.Description != nil {
			g.Description = strings.TrimSpace(*p.Description)
		}
		if p.Deadline != nil {
			g.Deadline = p.Deadline
		}
		if p.Category != nil {
			g.Category = strings.TrimSpace(*p.Category)
		}
		if p.Priority != nil {
			priority, ok := dom.ParsePriority(*p.Priority)
			if !ok {
				return invalidf("priority", "must be low, medium or high")
			}
			g.Priority = priority
		}
		g.UpdatedAt = s.now()
		if g, err = tx.Goals().Update(ctx, g); err != nil {
			return err
		}
		list, err := withProgress(ctx, tx, []dom.Goal{g})
		if err != nil {
			return err
		}
		out = list[0]
		return nil
	})
	if err != nil {
		return dom.GoalProgress{}, err
	}
	s.invalidateCache(ctx, userID)
	return out, nil
}

// Delete removes the goal and all of its tasks.
func (s *GoalService) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.Write(ctx, func(tx repo.Tx) error {
		if _, err := ResolveGoal(ctx, tx, userID, id); err != nil {
			return err
		}
		return tx.Goals().Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

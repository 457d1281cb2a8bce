package service

import (
	"context"
	"errors"

	dom "learntrack/internal/domain"
	"learntrack/internal/repo"
)

// ResolveGoal returns the goal only when userID owns it. A missing goal and a
// goal owned by someone else both yield ErrNotFound.
func ResolveGoal(ctx context.Context, tx repo.Tx, userID, goalID int64) (dom.Goal, error) {
	g, err := tx.Goals().GetForUser(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Goal{}, ErrNotFound
		}
		return dom.Goal{}, err
	}
	return g, nil
}

// ResolveTask returns the task only when its goal is owned by userID.
func ResolveTask(ctx context.Context, tx repo.Tx, userID, taskID int64) (dom.Task, error) {
	t, err := tx.Tasks().GetForUser(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// withProgress loads the current tasks of goals and derives their progress.
func withProgress(ctx context.Context, tx repo.Tx, goals []dom.Goal) ([]dom.GoalProgress, error) {
	if len(goals) == 0 {
		return []dom.GoalProgress{}, nil
	}
	ids := make([]int64, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	tasks, err := tx.Tasks().ListByGoals(ctx, ids)
	if err != nil {
		return nil, err
	}
	byGoal := make(map[int64][]dom.Task, len(goals))
	for _, t := range tasks {
		byGoal[t.GoalID] = append(byGoal[t.GoalID], t)
	}
	out := make([]dom.GoalProgress, len(goals))
	for i, g := range goals {
		out[i] = dom.NewGoalProgress(g, byGoal[g.ID])
	}
	return out, nil
}

package repo

import (
	"context"
	"time"

	dom "learntrack/internal/domain"
)

const goalColumns = `id, user_id, title, description, deadline, category, priority, created_at, updated_at`

type PGGoalRepo struct {
	db DBTX
}

func NewPGGoalRepo(db DBTX) *PGGoalRepo {
	return &PGGoalRepo{db: db}
}

func scanGoal(row rowScanner) (dom.Goal, error) {
	var g dom.Goal
	var priority string
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Deadline, &g.Category,
		&priority, &g.CreatedAt, &g.UpdatedAt)
	g.Priority = dom.Priority(priority)
	return g, notFound(err)
}

func (r *PGGoalRepo) queryGoals(ctx context.Context, query string, args ...any) ([]dom.Goal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *PGGoalRepo) Create(ctx context.Context, g dom.Goal) (dom.Goal, error) {
	query := `
		INSERT INTO goals (user_id, title, description, deadline, category, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + goalColumns
	return scanGoal(r.db.QueryRow(ctx, query,
		g.UserID, g.Title, g.Description, g.Deadline, g.Category, string(g.Priority), g.CreatedAt, g.UpdatedAt))
}

func (r *PGGoalRepo) GetForUser(ctx context.Context, userID, id int64) (dom.Goal, error) {
	return scanGoal(r.db.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *PGGoalRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Goal, error) {
	return r.queryGoals(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY id ASC`, userID)
}

func (r *PGGoalRepo) Recent(ctx context.Context, userID int64, limit int) ([]dom.Goal, error) {
	return r.queryGoals(ctx, `
		SELECT `+goalColumns+` FROM goals WHERE user_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`, userID, limit)
}

func (r *PGGoalRepo) Update(ctx context.Context, g dom.Goal) (dom.Goal, error) {
	query := `
		UPDATE goals SET title = $3, description = $4, deadline = $5, category = $6, priority = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
		RETURNING ` + goalColumns
	return scanGoal(r.db.QueryRow(ctx, query,
		g.ID, g.UserID, g.Title, g.Description, g.Deadline, g.Category, string(g.Priority), g.UpdatedAt))
}

// Delete removes the goal's tasks, then the goal.
func (r *PGGoalRepo) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM tasks WHERE goal_id = (SELECT id FROM goals WHERE id = $1 AND user_id = $2)`,
		id, userID); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGGoalRepo) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM goals WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PGGoalRepo) CountDeadlinesBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM goals
		WHERE user_id = $1 AND deadline >= $2 AND deadline <= $3`, userID, from, to).Scan(&n)
	return n, err
}

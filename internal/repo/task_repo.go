package repo

import (
	"context"
	"strconv"

	dom "learntrack/internal/domain"
)

const taskColumns = `t.id, t.goal_id, t.title, t.description, t.status, t.due_date, t.completed_at,
	t.priority, t.estimated_hours, t.created_at, t.updated_at`

const taskFrom = ` FROM tasks t JOIN goals g ON g.id = t.goal_id`

type PGTaskRepo struct {
	db DBTX
}

func NewPGTaskRepo(db DBTX) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func scanTask(row rowScanner) (dom.Task, error) {
	var t dom.Task
	var status, priority string
	err := row.Scan(&t.ID, &t.GoalID, &t.Title, &t.Description, &status, &t.DueDate, &t.CompletedAt,
		&priority, &t.EstimatedHours, &t.CreatedAt, &t.UpdatedAt)
	t.Status = dom.TaskStatus(status)
	t.Priority = dom.Priority(priority)
	return t, notFound(err)
}

func (r *PGTaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]dom.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		WITH t AS (
			INSERT INTO tasks (goal_id, title, description, status, due_date, completed_at,
				priority, estimated_hours, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT ` + taskColumns + ` FROM t`
	return scanTask(r.db.QueryRow(ctx, query,
		t.GoalID, t.Title, t.Description, string(t.Status), t.DueDate, t.CompletedAt,
		string(t.Priority), t.EstimatedHours, t.CreatedAt, t.UpdatedAt))
}

func (r *PGTaskRepo) GetForUser(ctx context.Context, userID, id int64) (dom.Task, error) {
	return scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+taskFrom+` WHERE t.id = $1 AND g.user_id = $2`, id, userID))
}

func (r *PGTaskRepo) ListForUser(ctx context.Context, userID, goalID int64) ([]dom.Task, error) {
	if goalID != 0 {
		return r.queryTasks(ctx,
			`SELECT `+taskColumns+taskFrom+` WHERE g.user_id = $1 AND t.goal_id = $2 ORDER BY t.id ASC`,
			userID, goalID)
	}
	return r.queryTasks(ctx, `SELECT `+taskColumns+taskFrom+` WHERE g.user_id = $1 ORDER BY t.id ASC`, userID)
}

func (r *PGTaskRepo) ListByGoals(ctx context.Context, goalIDs []int64) ([]dom.Task, error) {
	if len(goalIDs) == 0 {
		return nil, nil
	}
	return r.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks t
		WHERE t.goal_id = ANY($1) ORDER BY t.id ASC`, goalIDs)
}

func (r *PGTaskRepo) Update(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		WITH t AS (
			UPDATE tasks SET title = $2, description = $3, status = $4, due_date = $5, completed_at = $6,
				priority = $7, estimated_hours = $8, updated_at = $9
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + taskColumns + ` FROM t`
	return scanTask(r.db.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, string(t.Status), t.DueDate, t.CompletedAt,
		string(t.Priority), t.EstimatedHours, t.UpdatedAt))
}

func (r *PGTaskRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGTaskRepo) Count(ctx context.Context, userID int64, f TaskFilter) (int, error) {
	where, args := f.where(userID)
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+taskFrom+` WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *PGTaskRepo) Find(ctx context.Context, userID int64, f TaskFilter, limit int) ([]dom.Task, error) {
	where, args := f.where(userID)
	query := `SELECT ` + taskColumns + taskFrom + ` WHERE ` + where + ` ORDER BY t.due_date ASC, t.id ASC`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	return r.queryTasks(ctx, query, args...)
}

func (r *PGTaskRepo) Timeline(ctx context.Context, userID int64) ([]dom.TaskTimes, error) {
	rows, err := r.db.Query(ctx, `SELECT t.created_at, t.completed_at`+taskFrom+` WHERE g.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dom.TaskTimes
	for rows.Next() {
		var tt dom.TaskTimes
		if err := rows.Scan(&tt.CreatedAt, &tt.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

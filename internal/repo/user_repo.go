package repo

import (
	"context"
	"strings"

	dom "learntrack/internal/domain"
	"learntrack/internal/utils"
)

const userColumns = `id, email, username, password_hash, first_name, last_name, is_active, created_at, updated_at`

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db DBTX
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db DBTX) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func scanUser(row rowScanner) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, notFound(err)
}

// GetByID returns the user by id.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByUsername returns the user by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (email, username, password_hash, first_name, last_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + userColumns
	out, err := scanUser(r.db.QueryRow(ctx, query,
		u.Email, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.IsActive, u.CreatedAt))
	if constraint, ok := utils.PGUniqueViolation(err); ok {
		if strings.Contains(constraint, "email") {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, ErrUsernameTaken
	}
	return out, err
}

// Delete removes the user, its goals and their tasks, children first.
func (r *PGUserRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE goal_id IN (SELECT id FROM goals WHERE user_id = $1)`, id); err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM goals WHERE user_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

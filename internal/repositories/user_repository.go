package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"guardian-chat/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, username, email, avatar, role, is_online, last_seen`

// UserRepository exposes identity lookups and presence flag updates.
type UserRepository interface {
	GetUser(ctx context.Context, userID int) (models.User, error)
	BulkUsers(ctx context.Context, ids []int) ([]models.User, error)
	SetOnline(ctx context.Context, userID int, online bool) error
}

// UserRepo is a sqlx-backed repository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser retrieves one user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// BulkUsers fetches multiple users in one query. Unknown ids are skipped.
func (r *UserRepo) BulkUsers(ctx context.Context, ids []int) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return users, err
}

// SetOnline records the presence flag; last_seen updates on every transition.
func (r *UserRepo) SetOnline(ctx context.Context, userID int, online bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_online=$2, last_seen=NOW() WHERE id=$1`, userID, online)
	return err
}

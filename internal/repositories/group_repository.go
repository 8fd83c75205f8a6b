package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"guardian-chat/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository exposes group membership checks.
type GroupRepository interface {
	GetGroup(ctx context.Context, groupID int) (models.Group, error)
	IsMember(ctx context.Context, groupID, userID int) (bool, error)
	ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error)
}

// GroupRepo is a sqlx-backed repository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// GetGroup retrieves one group by id.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT id, name, owner_id, created_at FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// IsMember reports whether the user belongs to the group.
func (r *GroupRepo) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	return count > 0, err
}

// ListGroupsForUser returns the groups the user belongs to.
func (r *GroupRepo) ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.SelectContext(ctx, &groups, `SELECT g.id, g.name, g.owner_id, g.created_at
        FROM groups g JOIN group_members m ON m.group_id = g.id
        WHERE m.user_id=$1 ORDER BY g.created_at ASC`, userID)
	return groups, err
}

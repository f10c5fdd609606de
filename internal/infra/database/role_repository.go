package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/xikelabs/lead-tracker/internal/entity"
)

type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) FindByUserID(ctx context.Context, userID string) (*entity.UserRoleData, error) {
	query := `
		SELECT id, user_id, email, role, created_at, updated_at
		FROM user_roles
		WHERE user_id = $1
	`

	var data entity.UserRoleData
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&data.ID,
		&data.UserID,
		&data.Email,
		&data.Role,
		&data.CreatedAt,
		&data.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// Insert relies on the unique index on user_id; a duplicate insert comes
// back as ErrRoleAlreadyExists so the caller can re-fetch instead of failing.
func (r *RoleRepository) Insert(ctx context.Context, data *entity.UserRoleData) error {
	query := `
		INSERT INTO user_roles (id, user_id, email, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.DB.ExecContext(ctx, query,
		data.ID,
		data.UserID,
		data.Email,
		string(data.Role),
		data.CreatedAt,
		data.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrRoleAlreadyExists
		}
		return err
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"zapisbot/internal/model"
	"zapisbot/internal/repository/base"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

// Upsert создаёт администратора или обновляет его имя
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (tg_user_id, first_name, last_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (tg_user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, user.TgUserID, user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// GetByTgID получает администратора по telegram ID
func (r *UserRepository) GetByTgID(ctx context.Context, tgUserID int64) (*model.User, error) {
	query := `
		SELECT id, tg_user_id, first_name, last_name, created_at, updated_at
		FROM users
		WHERE tg_user_id = $1
	`

	var user model.User
	err := r.QueryRow(ctx, query, tgUserID).Scan(
		&user.ID,
		&user.TgUserID,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by tg id: %w", err)
	}

	return &user, nil
}

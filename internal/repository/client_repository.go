package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"zapisbot/internal/model"
	"zapisbot/internal/repository/base"
)

type ClientRepository struct {
	*base.Repository
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{Repository: base.NewRepository(pool)}
}

// Upsert создаёт клиента или обновляет его имя
func (r *ClientRepository) Upsert(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (tg_user_id, first_name, last_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (tg_user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, client.TgUserID, client.FirstName, client.LastName).
		Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert client: %w", err)
	}

	return nil
}

// GetByID получает клиента по ID
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	query := `
		SELECT id, tg_user_id, first_name, last_name, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var client model.Client
	err := r.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.TgUserID,
		&client.FirstName,
		&client.LastName,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by id: %w", err)
	}

	return &client, nil
}

// GetByTgID получает клиента по telegram ID
func (r *ClientRepository) GetByTgID(ctx context.Context, tgUserID int64) (*model.Client, error) {
	query := `
		SELECT id, tg_user_id, first_name, last_name, created_at, updated_at
		FROM clients
		WHERE tg_user_id = $1
	`

	var client model.Client
	err := r.QueryRow(ctx, query, tgUserID).Scan(
		&client.ID,
		&client.TgUserID,
		&client.FirstName,
		&client.LastName,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by tg id: %w", err)
	}

	return &client, nil
}

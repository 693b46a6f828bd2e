package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapisbot/internal/model"
	"zapisbot/internal/repository/base"
)

// Ключ advisory lock, сериализующий вставки слотов
const slotsLockKey = 0x736c6f74 // "slot"

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

// CreateExclusive создаёт слот, проверив пересечения в одной транзакции.
// Проверка и вставка сериализованы advisory lock'ом, чтобы два
// конкурирующих администратора не создали пересекающиеся слоты.
// Возвращает ErrOverlap если найдено пересечение.
func (r *SlotRepository) CreateExclusive(ctx context.Context, slot *model.Slot) error {
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, slotsLockKey); err != nil {
			return fmt.Errorf("acquire slots lock: %w", err)
		}

		// Полуоткрытые интервалы: соприкасающиеся границы не считаются пересечением
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(
				SELECT 1 FROM slots
				WHERE start_time < $2 AND end_time > $1
			)`,
			slot.StartTime, slot.EndTime,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check slot overlap: %w", err)
		}

		if exists {
			return ErrOverlap
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO slots (start_time, end_time, duration_minutes)
			 VALUES ($1, $2, $3)
			 RETURNING id, created_at`,
			slot.StartTime, slot.EndTime, slot.DurationMinutes,
		).Scan(&slot.ID, &slot.CreatedAt)
		if err != nil {
			// Подстраховка на случай гонки мимо advisory lock'а:
			// exclusion constraint на tsrange тоже означает пересечение
			if base.IsExclusionViolation(err) {
				return ErrOverlap
			}
			return fmt.Errorf("insert slot: %w", err)
		}

		return nil
	})

	return err
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `
		SELECT id, start_time, end_time, duration_minutes, created_at, updated_at
		FROM slots
		WHERE id = $1
	`

	var slot model.Slot
	err := r.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.DurationMinutes,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return &slot, nil
}

// List получает все слоты, отсортированные по времени начала
func (r *SlotRepository) List(ctx context.Context) ([]*model.Slot, error) {
	query := `
		SELECT id, start_time, end_time, duration_minutes, created_at, updated_at
		FROM slots
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListBetween получает слоты, начинающиеся в диапазоне [from, to]
func (r *SlotRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*model.Slot, error) {
	query := `
		SELECT id, start_time, end_time, duration_minutes, created_at, updated_at
		FROM slots
		WHERE start_time BETWEEN $1 AND $2
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list slots between: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// DeleteByID удаляет слот, возвращает количество удалённых строк
func (r *SlotRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete slot: %w", err)
	}
	return affected, nil
}

// DeleteBetween удаляет слоты, целиком лежащие в диапазоне [from, to]
func (r *SlotRepository) DeleteBetween(ctx context.Context, from, to time.Time) (int64, error) {
	affected, err := r.ExecAffected(ctx,
		`DELETE FROM slots WHERE start_time >= $1 AND end_time <= $2`,
		from, to,
	)
	if err != nil {
		return 0, fmt.Errorf("delete slots between: %w", err)
	}
	return affected, nil
}

func scanSlots(rows pgx.Rows) ([]*model.Slot, error) {
	var slots []*model.Slot
	for rows.Next() {
		var slot model.Slot
		err := rows.Scan(
			&slot.ID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.DurationMinutes,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, nil
}

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

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новую запись.
// Частичный уникальный индекс по slot_id для живых статусов гарантирует,
// что на слот не будет двух живых записей; нарушение возвращается как ErrSlotTaken.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (client_id, user_id, slot_id, description, location, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		appointment.ClientID,
		appointment.UserID,
		appointment.SlotID,
		appointment.Description,
		appointment.Location,
		appointment.Status,
	).Scan(&appointment.ID, &appointment.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT id, client_id, user_id, slot_id, description, location, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`

	var appointment model.Appointment
	err := r.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.ClientID,
		&appointment.UserID,
		&appointment.SlotID,
		&appointment.Description,
		&appointment.Location,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return &appointment, nil
}

// GetLiveBySlotID получает живую запись (pending или confirmed) для слота
func (r *AppointmentRepository) GetLiveBySlotID(ctx context.Context, slotID int64) (*model.Appointment, error) {
	query := `
		SELECT id, client_id, user_id, slot_id, description, location, status, created_at, updated_at
		FROM appointments
		WHERE slot_id = $1 AND status IN ('pending', 'confirmed')
		LIMIT 1
	`

	var appointment model.Appointment
	err := r.QueryRow(ctx, query, slotID).Scan(
		&appointment.ID,
		&appointment.ClientID,
		&appointment.UserID,
		&appointment.SlotID,
		&appointment.Description,
		&appointment.Location,
		&appointment.Status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by slot: %w", err)
	}

	return &appointment, nil
}

// ListByClientID получает все записи клиента
func (r *AppointmentRepository) ListByClientID(ctx context.Context, clientID int64) ([]*model.Appointment, error) {
	query := `
		SELECT id, client_id, user_id, slot_id, description, location, status, created_at, updated_at
		FROM appointments
		WHERE client_id = $1
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by client: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListPending получает все записи, ожидающие подтверждения
func (r *AppointmentRepository) ListPending(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT id, client_id, user_id, slot_id, description, location, status, created_at, updated_at
		FROM appointments
		WHERE status = 'pending'
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending appointments: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListElapsedConfirmed получает подтверждённые записи, слот которых уже закончился
func (r *AppointmentRepository) ListElapsedConfirmed(ctx context.Context, now time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT a.id, a.client_id, a.user_id, a.slot_id, a.description, a.location, a.status, a.created_at, a.updated_at
		FROM appointments a
		JOIN slots s ON s.id = a.slot_id
		WHERE a.status = 'confirmed' AND s.end_time <= $1
		ORDER BY s.end_time
	`

	rows, err := r.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list elapsed confirmed appointments: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи, возвращает количество затронутых строк
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (int64, error) {
	affected, err := r.ExecAffected(ctx,
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return 0, fmt.Errorf("update appointment status: %w", err)
	}
	return affected, nil
}

// UpdateSlotID переносит запись на другой слот.
// Тот же частичный индекс защищает от переноса на занятый слот.
func (r *AppointmentRepository) UpdateSlotID(ctx context.Context, id, slotID int64) error {
	_, err := r.ExecAffected(ctx,
		`UPDATE appointments SET slot_id = $1, updated_at = NOW() WHERE id = $2`,
		slotID, id,
	)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("update appointment slot: %w", err)
	}
	return nil
}

func scanAppointments(rows pgx.Rows) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	for rows.Next() {
		var appointment model.Appointment
		err := rows.Scan(
			&appointment.ID,
			&appointment.ClientID,
			&appointment.UserID,
			&appointment.SlotID,
			&appointment.Description,
			&appointment.Location,
			&appointment.Status,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, &appointment)
	}

	return appointments, nil
}

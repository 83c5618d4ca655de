package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

// ReminderRepo defines the persistence operations for maintenance reminders.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the reminder engine to be unit-tested with a
// mock.
type ReminderRepo interface {
	// Create inserts a new reminder and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, r domain.Reminder) (domain.Reminder, error)

	// GetByID retrieves a single reminder by its UUID primary key.
	// Returns domain.ErrNotFound if no reminder with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Reminder, error)

	// List returns reminders ordered by creation time. When status is
	// non-nil only reminders with that persisted status are returned.
	List(ctx context.Context, status *domain.ReminderStatus) ([]domain.Reminder, error)

	// UpdateCompletion overwrites the baseline, due point, and status of an
	// existing reminder in a single statement and returns the updated
	// record. Returns domain.ErrNotFound if the reminder does not exist.
	UpdateCompletion(ctx context.Context, r domain.Reminder) (domain.Reminder, error)
}

// pgReminderRepo is the Postgres implementation of ReminderRepo.
type pgReminderRepo struct {
	db db
}

// NewReminderRepo constructs a ReminderRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewReminderRepo(db db) ReminderRepo {
	return &pgReminderRepo{db: db}
}

const reminderColumns = `id, axis, description, frequency, last_done_km, next_due_km,
	last_done_date, next_due_date, status, created_at, updated_at`

// Create inserts a new reminder row and returns the full persisted record.
func (r *pgReminderRepo) Create(ctx context.Context, rem domain.Reminder) (domain.Reminder, error) {
	q := `
		INSERT INTO maintenance_reminders
			(axis, description, frequency, last_done_km, next_due_km, last_done_date, next_due_date, status)
		VALUES (@axis, @description, @frequency, @last_done_km, @next_due_km, @last_done_date, @next_due_date, @status)
		RETURNING ` + reminderColumns

	args := pgx.NamedArgs{
		"axis":           string(rem.Axis),
		"description":    rem.Description,
		"frequency":      rem.Frequency,
		"last_done_km":   rem.LastDoneKm,
		"next_due_km":    rem.NextDueKm,
		"last_done_date": rem.LastDone,
		"next_due_date":  rem.NextDue,
		"status":         string(rem.Status),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanReminder(row)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("repo.ReminderRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a reminder by primary key.
func (r *pgReminderRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Reminder, error) {
	q := `SELECT ` + reminderColumns + ` FROM maintenance_reminders WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanReminder(row)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("repo.ReminderRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns reminders ordered by creation time, oldest first, optionally
// filtered by persisted status.
func (r *pgReminderRepo) List(ctx context.Context, status *domain.ReminderStatus) ([]domain.Reminder, error) {
	q := `SELECT ` + reminderColumns + ` FROM maintenance_reminders`
	args := pgx.NamedArgs{}
	if status != nil {
		q += ` WHERE status = @status`
		args["status"] = string(*status)
	}
	q += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ReminderRepo.List: %w", err)
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReminderRepo.List: scan: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReminderRepo.List: rows: %w", err)
	}

	return reminders, nil
}

// UpdateCompletion overwrites the completion bookkeeping of a reminder:
// baseline, due point, and status, all in one statement.
func (r *pgReminderRepo) UpdateCompletion(ctx context.Context, rem domain.Reminder) (domain.Reminder, error) {
	q := `
		UPDATE maintenance_reminders
		SET last_done_km   = @last_done_km,
		    next_due_km    = @next_due_km,
		    last_done_date = @last_done_date,
		    next_due_date  = @next_due_date,
		    status         = @status,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + reminderColumns

	args := pgx.NamedArgs{
		"id":             rem.ID,
		"last_done_km":   rem.LastDoneKm,
		"next_due_km":    rem.NextDueKm,
		"last_done_date": rem.LastDone,
		"next_due_date":  rem.NextDue,
		"status":         string(rem.Status),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanReminder(row)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("repo.ReminderRepo.UpdateCompletion: %w", err)
	}
	return result, nil
}

// scanReminder maps a single database row into a domain.Reminder.
// It handles the UUID and the four nullable baseline/due-point columns.
func scanReminder(s scanner) (domain.Reminder, error) {
	var (
		rem      domain.Reminder
		id       pgtype.UUID
		axis     string
		status   string
		lastKm   pgtype.Int4
		nextKm   pgtype.Int4
		lastDate pgtype.Date
		nextDate pgtype.Date
	)

	err := s.Scan(&id, &axis, &rem.Description, &rem.Frequency, &lastKm, &nextKm,
		&lastDate, &nextDate, &status, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reminder{}, domain.ErrNotFound
		}
		return domain.Reminder{}, err
	}

	rem.ID = uuid.UUID(id.Bytes)
	rem.Axis = domain.ReminderAxis(axis)
	rem.Status = domain.ReminderStatus(status)
	if lastKm.Valid {
		v := int(lastKm.Int32)
		rem.LastDoneKm = &v
	}
	if nextKm.Valid {
		v := int(nextKm.Int32)
		rem.NextDueKm = &v
	}
	if lastDate.Valid {
		d := lastDate.Time
		rem.LastDone = &d
	}
	if nextDate.Valid {
		d := nextDate.Time
		rem.NextDue = &d
	}

	return rem, nil
}

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

// MaintenanceRepo defines the persistence operations for maintenance expenses.
type MaintenanceRepo interface {
	// Add appends a new expense entry and returns the persisted record.
	Add(ctx context.Context, rec domain.MaintenanceRecord) (domain.MaintenanceRecord, error)

	// List returns the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]domain.MaintenanceRecord, error)

	// TotalCost sums the cost of all entries that have one.
	TotalCost(ctx context.Context) (float64, error)
}

type pgMaintenanceRepo struct {
	db db
}

// NewMaintenanceRepo constructs a MaintenanceRepo backed by the provided db connection.
func NewMaintenanceRepo(db db) MaintenanceRepo {
	return &pgMaintenanceRepo{db: db}
}

// Add appends a new maintenance expense.
func (r *pgMaintenanceRepo) Add(ctx context.Context, rec domain.MaintenanceRecord) (domain.MaintenanceRecord, error) {
	const q = `
		INSERT INTO maintenance_records (date, type, description, cost)
		VALUES (@date, @type, @description, @cost)
		RETURNING id, date, type, description, cost, created_at`

	args := pgx.NamedArgs{
		"date":        rec.Date,
		"type":        string(rec.Type),
		"description": rec.Description,
		"cost":        rec.Cost,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanMaintenanceRecord(row)
	if err != nil {
		return domain.MaintenanceRecord{}, fmt.Errorf("repo.MaintenanceRepo.Add: %w", err)
	}
	return result, nil
}

// List returns recent maintenance entries, newest first.
func (r *pgMaintenanceRepo) List(ctx context.Context, limit int) ([]domain.MaintenanceRecord, error) {
	const q = `
		SELECT id, date, type, description, cost, created_at
		FROM maintenance_records
		ORDER BY date DESC, created_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.MaintenanceRepo.List: %w", err)
	}
	defer rows.Close()

	var records []domain.MaintenanceRecord
	for rows.Next() {
		rec, err := scanMaintenanceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MaintenanceRepo.List: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MaintenanceRepo.List: rows: %w", err)
	}

	return records, nil
}

// TotalCost sums all recorded costs; entries without a cost count as zero.
func (r *pgMaintenanceRepo) TotalCost(ctx context.Context) (float64, error) {
	const q = `SELECT COALESCE(SUM(cost), 0) FROM maintenance_records WHERE cost IS NOT NULL`

	var total float64
	if err := r.db.QueryRow(ctx, q).Scan(&total); err != nil {
		return 0, fmt.Errorf("repo.MaintenanceRepo.TotalCost: %w", err)
	}
	return total, nil
}

func scanMaintenanceRecord(s scanner) (domain.MaintenanceRecord, error) {
	var (
		rec  domain.MaintenanceRecord
		id   pgtype.UUID
		date pgtype.Date
		cost pgtype.Float8
	)

	err := s.Scan(&id, &date, (*string)(&rec.Type), &rec.Description, &cost, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MaintenanceRecord{}, domain.ErrNotFound
		}
		return domain.MaintenanceRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.Date = date.Time
	if cost.Valid {
		v := cost.Float64
		rec.Cost = &v
	}

	return rec, nil
}

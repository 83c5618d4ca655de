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

// FuelRepo defines the persistence operations for fuel purchases.
type FuelRepo interface {
	// Add appends a new fuel purchase and returns the persisted record.
	Add(ctx context.Context, rec domain.FuelRecord) (domain.FuelRecord, error)

	// List returns the most recent purchases, newest first.
	List(ctx context.Context, limit int) ([]domain.FuelRecord, error)

	// TotalCost sums the amount spent across all purchases.
	TotalCost(ctx context.Context) (float64, error)
}

type pgFuelRepo struct {
	db db
}

// NewFuelRepo constructs a FuelRepo backed by the provided db connection.
func NewFuelRepo(db db) FuelRepo {
	return &pgFuelRepo{db: db}
}

// Add appends a new fuel purchase.
func (r *pgFuelRepo) Add(ctx context.Context, rec domain.FuelRecord) (domain.FuelRecord, error) {
	const q = `
		INSERT INTO fuel_records (date, amount, price_per_liter)
		VALUES (@date, @amount, @price_per_liter)
		RETURNING id, date, amount, price_per_liter, created_at`

	args := pgx.NamedArgs{
		"date":            rec.Date,
		"amount":          rec.Amount,
		"price_per_liter": rec.PricePerLiter,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanFuelRecord(row)
	if err != nil {
		return domain.FuelRecord{}, fmt.Errorf("repo.FuelRepo.Add: %w", err)
	}
	return result, nil
}

// List returns recent fuel purchases, newest first.
func (r *pgFuelRepo) List(ctx context.Context, limit int) ([]domain.FuelRecord, error) {
	const q = `
		SELECT id, date, amount, price_per_liter, created_at
		FROM fuel_records
		ORDER BY date DESC, created_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.FuelRepo.List: %w", err)
	}
	defer rows.Close()

	var records []domain.FuelRecord
	for rows.Next() {
		rec, err := scanFuelRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FuelRepo.List: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FuelRepo.List: rows: %w", err)
	}

	return records, nil
}

// TotalCost sums the amount column (amount already is the money spent).
func (r *pgFuelRepo) TotalCost(ctx context.Context) (float64, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM fuel_records`

	var total float64
	if err := r.db.QueryRow(ctx, q).Scan(&total); err != nil {
		return 0, fmt.Errorf("repo.FuelRepo.TotalCost: %w", err)
	}
	return total, nil
}

func scanFuelRecord(s scanner) (domain.FuelRecord, error) {
	var (
		rec  domain.FuelRecord
		id   pgtype.UUID
		date pgtype.Date
	)

	err := s.Scan(&id, &date, &rec.Amount, &rec.PricePerLiter, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FuelRecord{}, domain.ErrNotFound
		}
		return domain.FuelRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.Date = date.Time

	return rec, nil
}

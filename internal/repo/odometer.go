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

// OdometerRepo defines the persistence operations for odometer readings.
// Latest is the odometer oracle read: the reminder engine uses it as the
// "current" kilometre baseline for every distance computation.
type OdometerRepo interface {
	// Add appends a new reading and returns the persisted record.
	Add(ctx context.Context, rec domain.OdometerRecord) (domain.OdometerRecord, error)

	// Latest returns the most recent reading.
	// Returns domain.ErrNotFound when no reading has ever been recorded.
	Latest(ctx context.Context) (domain.OdometerRecord, error)

	// List returns the most recent readings, newest first, with each row's
	// KmDiff computed against the previous reading.
	List(ctx context.Context, limit int) ([]domain.OdometerRecord, error)

	// TotalKilometers returns the distance covered across all readings
	// (highest minus lowest reading; 0 with fewer than two readings).
	TotalKilometers(ctx context.Context) (int, error)
}

type pgOdometerRepo struct {
	db db
}

// NewOdometerRepo constructs an OdometerRepo backed by the provided db connection.
func NewOdometerRepo(db db) OdometerRepo {
	return &pgOdometerRepo{db: db}
}

// Add appends a new odometer reading.
func (r *pgOdometerRepo) Add(ctx context.Context, rec domain.OdometerRecord) (domain.OdometerRecord, error) {
	const q = `
		INSERT INTO odometer_records (date, kilometers, notes)
		VALUES (@date, @kilometers, @notes)
		RETURNING id, date, kilometers, notes, created_at`

	args := pgx.NamedArgs{
		"date":       rec.Date,
		"kilometers": rec.Kilometers,
		"notes":      rec.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanOdometerRecord(row)
	if err != nil {
		return domain.OdometerRecord{}, fmt.Errorf("repo.OdometerRepo.Add: %w", err)
	}
	return result, nil
}

// Latest returns the most recent reading by date, tie-broken by insertion time.
func (r *pgOdometerRepo) Latest(ctx context.Context) (domain.OdometerRecord, error) {
	const q = `
		SELECT id, date, kilometers, notes, created_at
		FROM odometer_records
		ORDER BY date DESC, created_at DESC
		LIMIT 1`

	row := r.db.QueryRow(ctx, q)
	result, err := scanOdometerRecord(row)
	if err != nil {
		return domain.OdometerRecord{}, fmt.Errorf("repo.OdometerRepo.Latest: %w", err)
	}
	return result, nil
}

// List returns recent readings, newest first, with the delta against the
// chronologically previous reading computed via a window function.
func (r *pgOdometerRepo) List(ctx context.Context, limit int) ([]domain.OdometerRecord, error) {
	const q = `
		SELECT id, date, kilometers, notes, created_at,
		       kilometers - COALESCE(
		           LAG(kilometers) OVER (ORDER BY date, created_at),
		           kilometers
		       ) AS km_diff
		FROM odometer_records
		ORDER BY date DESC, created_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.OdometerRepo.List: %w", err)
	}
	defer rows.Close()

	var records []domain.OdometerRecord
	for rows.Next() {
		rec, err := scanOdometerRecordWithDiff(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.OdometerRepo.List: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OdometerRepo.List: rows: %w", err)
	}

	return records, nil
}

// TotalKilometers returns max(kilometers) - min(kilometers), or 0 when
// fewer than two readings exist.
func (r *pgOdometerRepo) TotalKilometers(ctx context.Context) (int, error) {
	const q = `
		SELECT CASE
		           WHEN COUNT(*) > 1 THEN MAX(kilometers) - MIN(kilometers)
		           ELSE 0
		       END
		FROM odometer_records`

	var total int
	if err := r.db.QueryRow(ctx, q).Scan(&total); err != nil {
		return 0, fmt.Errorf("repo.OdometerRepo.TotalKilometers: %w", err)
	}
	return total, nil
}

func scanOdometerRecord(s scanner) (domain.OdometerRecord, error) {
	var (
		rec   domain.OdometerRecord
		id    pgtype.UUID
		date  pgtype.Date
		notes pgtype.Text
	)

	err := s.Scan(&id, &date, &rec.Kilometers, &notes, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.OdometerRecord{}, domain.ErrNotFound
		}
		return domain.OdometerRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.Date = date.Time
	if notes.Valid {
		v := notes.String
		rec.Notes = &v
	}

	return rec, nil
}

func scanOdometerRecordWithDiff(s scanner) (domain.OdometerRecord, error) {
	var (
		rec   domain.OdometerRecord
		id    pgtype.UUID
		date  pgtype.Date
		notes pgtype.Text
	)

	err := s.Scan(&id, &date, &rec.Kilometers, &notes, &rec.CreatedAt, &rec.KmDiff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.OdometerRecord{}, domain.ErrNotFound
		}
		return domain.OdometerRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.Date = date.Time
	if notes.Valid {
		v := notes.String
		rec.Notes = &v
	}

	return rec, nil
}

package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

// DailyRecordRepo defines the persistence operations for daily status records.
type DailyRecordRepo interface {
	// Upsert inserts the status for a date, replacing any existing record
	// for that date. The one-record-per-date invariant is enforced by the
	// UNIQUE constraint plus ON CONFLICT, never by read-then-write.
	Upsert(ctx context.Context, rec domain.DailyRecord) (domain.DailyRecord, error)

	// GetByDate retrieves the record for a single calendar date.
	// Returns domain.ErrNotFound when no status was recorded that day.
	GetByDate(ctx context.Context, date time.Time) (domain.DailyRecord, error)

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]domain.DailyRecord, error)

	// CountByStatus returns how many days were recorded with each status.
	CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error)
}

type pgDailyRecordRepo struct {
	db db
}

// NewDailyRecordRepo constructs a DailyRecordRepo backed by the provided db connection.
func NewDailyRecordRepo(db db) DailyRecordRepo {
	return &pgDailyRecordRepo{db: db}
}

const dailyColumns = `id, date, status, location_name, latitude, longitude, created_at`

// Upsert writes the status of the day, overwriting a previous one if present.
func (r *pgDailyRecordRepo) Upsert(ctx context.Context, rec domain.DailyRecord) (domain.DailyRecord, error) {
	q := `
		INSERT INTO daily_records (date, status, location_name, latitude, longitude)
		VALUES (@date, @status, @location_name, @latitude, @longitude)
		ON CONFLICT (date) DO UPDATE
		SET status        = EXCLUDED.status,
		    location_name = EXCLUDED.location_name,
		    latitude      = EXCLUDED.latitude,
		    longitude     = EXCLUDED.longitude
		RETURNING ` + dailyColumns

	args := pgx.NamedArgs{
		"date":          rec.Date,
		"status":        string(rec.Status),
		"location_name": rec.Location,
		"latitude":      rec.Latitude,
		"longitude":     rec.Longitude,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDailyRecord(row)
	if err != nil {
		return domain.DailyRecord{}, fmt.Errorf("repo.DailyRecordRepo.Upsert: %w", err)
	}
	return result, nil
}

// GetByDate retrieves the status recorded for one date.
func (r *pgDailyRecordRepo) GetByDate(ctx context.Context, date time.Time) (domain.DailyRecord, error) {
	q := `SELECT ` + dailyColumns + ` FROM daily_records WHERE date = @date`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"date": date})
	result, err := scanDailyRecord(row)
	if err != nil {
		return domain.DailyRecord{}, fmt.Errorf("repo.DailyRecordRepo.GetByDate: %w", err)
	}
	return result, nil
}

// List returns the most recent daily records, newest first.
func (r *pgDailyRecordRepo) List(ctx context.Context, limit int) ([]domain.DailyRecord, error) {
	q := `SELECT ` + dailyColumns + ` FROM daily_records ORDER BY date DESC LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.DailyRecordRepo.List: %w", err)
	}
	defer rows.Close()

	var records []domain.DailyRecord
	for rows.Next() {
		rec, err := scanDailyRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DailyRecordRepo.List: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DailyRecordRepo.List: rows: %w", err)
	}

	return records, nil
}

// CountByStatus aggregates recorded days per status.
func (r *pgDailyRecordRepo) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM daily_records GROUP BY status`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DailyRecordRepo.CountByStatus: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.VehicleStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("repo.DailyRecordRepo.CountByStatus: scan: %w", err)
		}
		counts[domain.VehicleStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DailyRecordRepo.CountByStatus: rows: %w", err)
	}

	return counts, nil
}

// scanDailyRecord maps a single database row into a domain.DailyRecord.
func scanDailyRecord(s scanner) (domain.DailyRecord, error) {
	var (
		rec  domain.DailyRecord
		id   pgtype.UUID
		date pgtype.Date
		loc  pgtype.Text
		lat  pgtype.Float8
		lon  pgtype.Float8
	)

	err := s.Scan(&id, &date, (*string)(&rec.Status), &loc, &lat, &lon, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DailyRecord{}, domain.ErrNotFound
		}
		return domain.DailyRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.Date = date.Time
	if loc.Valid {
		v := loc.String
		rec.Location = &v
	}
	if lat.Valid {
		v := lat.Float64
		rec.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		rec.Longitude = &v
	}

	return rec, nil
}

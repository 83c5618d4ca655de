package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmhodges/clock"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
	"github.com/pkordes/rv-logbook-bot/internal/repo"
)

// LogbookService implements the append-mostly ledgers: daily vehicle status,
// odometer readings, maintenance expenses, and fuel purchases, plus the
// running-total queries behind the statistics screens.
type LogbookService struct {
	daily       repo.DailyRecordRepo
	odometer    repo.OdometerRepo
	maintenance repo.MaintenanceRepo
	fuel        repo.FuelRepo
	clk         clock.Clock
	loc         *time.Location
}

// NewLogbookService constructs a LogbookService backed by the provided repos.
func NewLogbookService(daily repo.DailyRecordRepo, odometer repo.OdometerRepo, maintenance repo.MaintenanceRepo, fuel repo.FuelRepo, clk clock.Clock, loc *time.Location) *LogbookService {
	return &LogbookService{daily: daily, odometer: odometer, maintenance: maintenance, fuel: fuel, clk: clk, loc: loc}
}

// today returns the current date at midnight in the service's timezone.
func (s *LogbookService) today() time.Time {
	now := s.clk.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// RecordDailyStatus upserts today's vehicle status. A second status recorded
// on the same date replaces the first. Location is optional free text;
// coordinates are set when the status came from a GPS share.
func (s *LogbookService) RecordDailyStatus(ctx context.Context, status domain.VehicleStatus, location *string, lat, lon *float64) (domain.DailyRecord, error) {
	if !domain.ValidVehicleStatus(status) {
		return domain.DailyRecord{}, fmt.Errorf("%w: unknown vehicle status %q", domain.ErrValidation, status)
	}

	rec, err := s.daily.Upsert(ctx, domain.DailyRecord{
		Date:      s.today(),
		Status:    status,
		Location:  location,
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		return domain.DailyRecord{}, fmt.Errorf("service.LogbookService.RecordDailyStatus: %w", err)
	}
	return rec, nil
}

// TodayStatus returns the record for today, or domain.ErrNotFound when no
// status has been recorded yet. The daily notifier uses this to decide
// between the morning prompt and the "already recorded" message.
func (s *LogbookService) TodayStatus(ctx context.Context) (domain.DailyRecord, error) {
	rec, err := s.daily.GetByDate(ctx, s.today())
	if err != nil {
		return domain.DailyRecord{}, fmt.Errorf("service.LogbookService.TodayStatus: %w", err)
	}
	return rec, nil
}

// AddOdometer appends today's odometer reading. Negative readings are
// rejected; non-numeric input never reaches this far (the bot layer parses).
func (s *LogbookService) AddOdometer(ctx context.Context, kilometers int, notes *string) (domain.OdometerRecord, error) {
	if kilometers < 0 {
		return domain.OdometerRecord{}, fmt.Errorf("service.LogbookService.AddOdometer: %w", domain.ErrInvalidDistance)
	}

	rec, err := s.odometer.Add(ctx, domain.OdometerRecord{
		Date:       s.today(),
		Kilometers: kilometers,
		Notes:      notes,
	})
	if err != nil {
		return domain.OdometerRecord{}, fmt.Errorf("service.LogbookService.AddOdometer: %w", err)
	}
	return rec, nil
}

// AddMaintenance appends a maintenance expense dated today.
// A nil cost means "no cost recorded"; a negative cost is rejected.
func (s *LogbookService) AddMaintenance(ctx context.Context, typ domain.MaintenanceType, description string, cost *float64) (domain.MaintenanceRecord, error) {
	if !domain.ValidMaintenanceType(typ) {
		return domain.MaintenanceRecord{}, fmt.Errorf("%w: unknown maintenance type %q", domain.ErrValidation, typ)
	}
	if strings.TrimSpace(description) == "" {
		return domain.MaintenanceRecord{}, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if cost != nil && *cost < 0 {
		return domain.MaintenanceRecord{}, fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}

	rec, err := s.maintenance.Add(ctx, domain.MaintenanceRecord{
		Date:        s.today(),
		Type:        typ,
		Description: strings.TrimSpace(description),
		Cost:        cost,
	})
	if err != nil {
		return domain.MaintenanceRecord{}, fmt.Errorf("service.LogbookService.AddMaintenance: %w", err)
	}
	return rec, nil
}

// AddFuel appends a fuel purchase dated today. Amount is the total money
// spent, pricePerLiter the unit price; both must be positive.
func (s *LogbookService) AddFuel(ctx context.Context, amount, pricePerLiter float64) (domain.FuelRecord, error) {
	if amount <= 0 {
		return domain.FuelRecord{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if pricePerLiter <= 0 {
		return domain.FuelRecord{}, fmt.Errorf("%w: price per liter must be positive", domain.ErrValidation)
	}

	rec, err := s.fuel.Add(ctx, domain.FuelRecord{
		Date:          s.today(),
		Amount:        amount,
		PricePerLiter: pricePerLiter,
	})
	if err != nil {
		return domain.FuelRecord{}, fmt.Errorf("service.LogbookService.AddFuel: %w", err)
	}
	return rec, nil
}

// DailyHistory returns the most recent daily records, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LogbookService) DailyHistory(ctx context.Context, limit int) ([]domain.DailyRecord, error) {
	records, err := s.daily.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service.LogbookService.DailyHistory: %w", err)
	}
	if records == nil {
		return []domain.DailyRecord{}, nil
	}
	return records, nil
}

// StatusCounts returns how many days were recorded with each status.
func (s *LogbookService) StatusCounts(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	counts, err := s.daily.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LogbookService.StatusCounts: %w", err)
	}
	return counts, nil
}

// OdometerHistory returns recent readings with per-row deltas, plus the
// total distance covered across all readings.
func (s *LogbookService) OdometerHistory(ctx context.Context, limit int) ([]domain.OdometerRecord, int, error) {
	records, err := s.odometer.List(ctx, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LogbookService.OdometerHistory: %w", err)
	}
	total, err := s.odometer.TotalKilometers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LogbookService.OdometerHistory: %w", err)
	}
	if records == nil {
		records = []domain.OdometerRecord{}
	}
	return records, total, nil
}

// MaintenanceHistory returns recent maintenance entries plus the total cost.
func (s *LogbookService) MaintenanceHistory(ctx context.Context, limit int) ([]domain.MaintenanceRecord, float64, error) {
	records, err := s.maintenance.List(ctx, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LogbookService.MaintenanceHistory: %w", err)
	}
	total, err := s.maintenance.TotalCost(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LogbookService.MaintenanceHistory: %w", err)
	}
	if records == nil {
		records = []domain.MaintenanceRecord{}
	}
	return records, total, nil
}

// FuelHistory returns recent fuel purchases plus the total amount spent.
func (s *LogbookService) FuelHistory(ctx context.Context, limit int) ([]domain.FuelRecord, float64, error) {
	records, err := s.fuel.List(ctx, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LogbookService.FuelHistory: %w", err)
	}
	total, err := s.fuel.TotalCost(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LogbookService.FuelHistory: %w", err)
	}
	if records == nil {
		records = []domain.FuelRecord{}
	}
	return records, total, nil
}

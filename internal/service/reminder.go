// Package service contains the business logic for the RV Logbook bot.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations, and no Telegram types leak in from the bot layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
	"github.com/pkordes/rv-logbook-bot/internal/repo"
)

// OdometerOracle returns the current odometer reading. The reminder engine
// uses it as the kilometre baseline whenever a distance computation needs
// "what the odometer reads now".
type OdometerOracle interface {
	// CurrentKilometers returns the latest recorded reading, or 0 when no
	// reading has ever been recorded.
	CurrentKilometers(ctx context.Context) (int, error)
}

// odometerOracle adapts repo.OdometerRepo to the OdometerOracle interface,
// mapping "no readings yet" to a 0 baseline instead of an error.
type odometerOracle struct {
	readings repo.OdometerRepo
}

// NewOdometerOracle wraps an OdometerRepo as an OdometerOracle.
func NewOdometerOracle(readings repo.OdometerRepo) OdometerOracle {
	return &odometerOracle{readings: readings}
}

func (o *odometerOracle) CurrentKilometers(ctx context.Context) (int, error) {
	latest, err := o.readings.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("service.OdometerOracle: %w", err)
	}
	return latest.Kilometers, nil
}

// ReminderService implements the maintenance-reminder lifecycle: creation
// with baseline resolution, completion with next-cycle computation, and the
// overdue projection.
//
// The clock and timezone are injected so that "today" is well-defined and
// testable; all date baselines are stored at midnight in loc.
type ReminderService struct {
	reminders repo.ReminderRepo
	odometer  OdometerOracle
	clk       clock.Clock
	loc       *time.Location
}

// NewReminderService constructs a ReminderService backed by the provided
// repo, odometer oracle, clock, and timezone.
func NewReminderService(reminders repo.ReminderRepo, odometer OdometerOracle, clk clock.Clock, loc *time.Location) *ReminderService {
	return &ReminderService{reminders: reminders, odometer: odometer, clk: clk, loc: loc}
}

// today returns the current date at midnight in the service's timezone.
func (s *ReminderService) today() time.Time {
	now := s.clk.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// CreateDistance creates a kilometre-tracked reminder.
//
// When lastDoneKm is nil the baseline resolves to the current odometer
// reading (0 if there is no odometer history). The due point is always
// baseline + frequency.
func (s *ReminderService) CreateDistance(ctx context.Context, description string, frequencyKm int, lastDoneKm *int) (domain.Reminder, error) {
	if err := validateReminderInput(description, frequencyKm); err != nil {
		return domain.Reminder{}, err
	}

	baseline := 0
	if lastDoneKm != nil {
		if *lastDoneKm < 0 {
			return domain.Reminder{}, fmt.Errorf("service.ReminderService.CreateDistance: %w", domain.ErrInvalidDistance)
		}
		baseline = *lastDoneKm
	} else {
		current, err := s.odometer.CurrentKilometers(ctx)
		if err != nil {
			return domain.Reminder{}, fmt.Errorf("service.ReminderService.CreateDistance: %w", err)
		}
		baseline = current
	}

	nextDue := baseline + frequencyKm
	created, err := s.reminders.Create(ctx, domain.Reminder{
		Axis:        domain.AxisDistance,
		Description: strings.TrimSpace(description),
		Frequency:   frequencyKm,
		LastDoneKm:  &baseline,
		NextDueKm:   &nextDue,
		Status:      domain.StatusActive,
	})
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("service.ReminderService.CreateDistance: %w", err)
	}
	return created, nil
}

// CreateTime creates a month-tracked reminder.
//
// When lastDone is nil the baseline resolves to today. The due point is
// baseline + frequency calendar months, clamped to the end of the target
// month when the baseline day does not exist there.
func (s *ReminderService) CreateTime(ctx context.Context, description string, frequencyMonths int, lastDone *time.Time) (domain.Reminder, error) {
	if err := validateReminderInput(description, frequencyMonths); err != nil {
		return domain.Reminder{}, err
	}

	baseline := s.today()
	if lastDone != nil {
		baseline = *lastDone
	}

	nextDue := domain.AddMonths(baseline, frequencyMonths)
	created, err := s.reminders.Create(ctx, domain.Reminder{
		Axis:        domain.AxisTime,
		Description: strings.TrimSpace(description),
		Frequency:   frequencyMonths,
		LastDone:    &baseline,
		NextDue:     &nextDue,
		Status:      domain.StatusActive,
	})
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("service.ReminderService.CreateTime: %w", err)
	}
	return created, nil
}

// CreateDualAxis creates the two sibling reminders for a "both kilometres
// and months" request: one distance-tracked and one time-tracked row,
// sharing the description, each resolved independently.
//
// lastDoneRaw is the combined free-text baseline field. Tokens are separated
// by commas; a pure-digit token is the kilometre baseline, a DD-MM-YYYY
// token is the date baseline, anything else is ignored. A missing kilometre
// baseline defaults to the current odometer, a missing date to today.
//
// The two inserts are independent: if the second fails, the first stays and
// the error is reported to the caller.
func (s *ReminderService) CreateDualAxis(ctx context.Context, description string, frequencyKm, frequencyMonths int, lastDoneRaw string) (km domain.Reminder, tm domain.Reminder, err error) {
	if err := validateReminderInput(description, frequencyKm); err != nil {
		return domain.Reminder{}, domain.Reminder{}, err
	}
	if frequencyMonths <= 0 {
		return domain.Reminder{}, domain.Reminder{}, fmt.Errorf("service.ReminderService.CreateDualAxis: %w", domain.ErrInvalidFrequency)
	}

	baselineKm, baselineDate := parseDualBaseline(lastDoneRaw)

	km, err = s.CreateDistance(ctx, description, frequencyKm, baselineKm)
	if err != nil {
		return domain.Reminder{}, domain.Reminder{}, err
	}
	tm, err = s.CreateTime(ctx, description, frequencyMonths, baselineDate)
	if err != nil {
		return km, domain.Reminder{}, err
	}
	return km, tm, nil
}

// Complete records that a reminder's maintenance was carried out and starts
// the next cycle, in a single persisted update.
//
// Distance reminders always re-anchor to the current odometer reading,
// never to a user-supplied kilometre value. Time reminders anchor to the
// user-chosen completion date.
//
// The row stays active carrying the new baseline and due point, so the
// active list — and every subsequent overdue check — immediately operates
// against the next cycle.
func (s *ReminderService) Complete(ctx context.Context, id uuid.UUID, completionDate time.Time) (domain.Reminder, error) {
	rem, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("service.ReminderService.Complete: %w", err)
	}

	switch rem.Axis {
	case domain.AxisDistance:
		current, err := s.odometer.CurrentKilometers(ctx)
		if err != nil {
			return domain.Reminder{}, fmt.Errorf("service.ReminderService.Complete: %w", err)
		}
		nextDue := current + rem.Frequency
		rem.LastDoneKm = &current
		rem.NextDueKm = &nextDue
	case domain.AxisTime:
		baseline := completionDate
		nextDue := domain.AddMonths(baseline, rem.Frequency)
		rem.LastDone = &baseline
		rem.NextDue = &nextDue
	default:
		return domain.Reminder{}, fmt.Errorf("service.ReminderService.Complete: unknown axis %q", rem.Axis)
	}

	rem.Status = domain.StatusActive

	updated, err := s.reminders.UpdateCompletion(ctx, rem)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("service.ReminderService.Complete: %w", err)
	}
	return updated, nil
}

// Overview projects every active reminder against the current odometer
// reading and today's date. Remaining distance/days of exactly 0 counts as
// overdue. The projection is recomputed on every call and never cached:
// the odometer and the calendar move independently of reminder writes.
func (s *ReminderService) Overview(ctx context.Context) ([]domain.ReminderProjection, error) {
	active := domain.StatusActive
	reminders, err := s.reminders.List(ctx, &active)
	if err != nil {
		return nil, fmt.Errorf("service.ReminderService.Overview: %w", err)
	}

	current, err := s.odometer.CurrentKilometers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ReminderService.Overview: %w", err)
	}
	today := s.today()

	projections := make([]domain.ReminderProjection, 0, len(reminders))
	for _, rem := range reminders {
		p := domain.ReminderProjection{Reminder: rem}
		switch rem.Axis {
		case domain.AxisDistance:
			if rem.NextDueKm != nil {
				remaining := *rem.NextDueKm - current
				p.RemainingKm = &remaining
				p.Overdue = remaining <= 0
			}
		case domain.AxisTime:
			if rem.NextDue != nil {
				remaining := domain.DaysBetween(today, *rem.NextDue)
				p.RemainingDays = &remaining
				p.Overdue = remaining <= 0
			}
		}
		projections = append(projections, p)
	}

	return projections, nil
}

// ListAll returns every reminder with its persisted fields, for the
// "view all" screen.
func (s *ReminderService) ListAll(ctx context.Context) ([]domain.Reminder, error) {
	reminders, err := s.reminders.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("service.ReminderService.ListAll: %w", err)
	}
	if reminders == nil {
		return []domain.Reminder{}, nil
	}
	return reminders, nil
}

// validateReminderInput enforces the creation rules shared by all axes:
// a meaningful description and a strictly positive frequency.
func validateReminderInput(description string, frequency int) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if frequency <= 0 {
		return domain.ErrInvalidFrequency
	}
	return nil
}

// parseDualBaseline splits the combined "last done" free-text field of a
// dual-axis request into its kilometre and date parts. Unrecognized tokens
// are dropped; missing parts stay nil so the caller's defaults apply.
func parseDualBaseline(raw string) (km *int, date *time.Time) {
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		if isDigits(token) {
			v, err := strconv.Atoi(token)
			if err == nil {
				km = &v
			}
			continue
		}
		if d, err := domain.ParseUserDate(token); err == nil {
			date = &d
		}
	}
	return km, date
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

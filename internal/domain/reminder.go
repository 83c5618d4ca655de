// Package domain contains the core data types for the RV Logbook bot.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, notifier, bot).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReminderAxis is the recurrence axis a reminder is tracked on.
// A reminder tracks exactly one axis; a "both km and months" request is
// stored as two sibling reminders sharing a description.
type ReminderAxis string

const (
	// AxisDistance recurs every Frequency kilometres.
	AxisDistance ReminderAxis = "km"
	// AxisTime recurs every Frequency calendar months.
	AxisTime ReminderAxis = "time"
)

// ReminderStatus is the lifecycle state of a reminder.
//
// Only StatusActive and StatusCompleted are ever persisted. StatusOverdue is
// derived at read time by comparing the due point against the current
// odometer reading or date — it is display state, never written.
//
// Completing a reminder does not persist StatusCompleted: the row stays
// active and carries the new cycle's baseline and due point, so the active
// list immediately shows the next cycle.
type ReminderStatus string

const (
	StatusActive    ReminderStatus = "active"
	StatusCompleted ReminderStatus = "completed"
	StatusOverdue   ReminderStatus = "overdue"
)

// Reminder is a recurring maintenance obligation, tracked either by distance
// or by elapsed time.
//
// Frequency is kilometres for AxisDistance and months for AxisTime, and is
// always positive. The LastDone* baseline and NextDue* due point for the
// axis the reminder does not track are nil.
type Reminder struct {
	ID          uuid.UUID
	Axis        ReminderAxis
	Description string
	Frequency   int
	LastDoneKm  *int
	NextDueKm   *int
	LastDone    *time.Time
	NextDue     *time.Time
	Status      ReminderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReminderProjection is the display-ready overdue projection for one active
// reminder. It is a pure function of the reminder's due point and the
// current odometer/date, recomputed on every read.
type ReminderProjection struct {
	Reminder Reminder

	// RemainingKm is next due km minus current odometer for distance
	// reminders; nil for time reminders.
	RemainingKm *int

	// RemainingDays is the calendar-day difference between today and the
	// next due date for time reminders; nil for distance reminders.
	RemainingDays *int

	// Overdue is true when the due point has been reached or passed.
	// Remaining exactly 0 counts as overdue (due today / due now).
	Overdue bool
}

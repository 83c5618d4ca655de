package bot

import (
	"fmt"
	"strings"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

// Static prompts.
const (
	txtWelcome = "🚐 Welcome to the RV Logbook!\n\n" +
		"I keep track of where the motorhome is, its kilometers, maintenance, " +
		"fuel costs and service reminders.\n\n" +
		"Pick an option below or use /help to see the commands."

	txtHelp = "Commands:\n" +
		"/menu - main menu\n" +
		"/daily - record today's status\n" +
		"/km - record an odometer reading\n" +
		"/maintenance - record a maintenance expense\n" +
		"/fuel - record a fuel purchase\n" +
		"/stats - statistics\n" +
		"/reminders - maintenance reminders\n" +
		"/cancel - abort the current dialogue"

	txtDailyPrompt = "🌅 Good morning! Where is the motorhome today?"

	txtAskKilometers       = "🛣 Current odometer reading, in km?"
	txtAskTravelLocation   = "📍 Where are you? Send a place name or share your location."
	txtAskMaintenanceType  = "🔧 What kind of maintenance?"
	txtAskMaintenanceDesc  = "✏️ Describe the work done."
	txtAskMaintenanceCost  = "💶 How much did it cost, in euros? Send 0 if there was no cost."
	txtAskFuelAmount       = "⛽ Total amount paid, in euros?"
	txtAskFuelPrice        = "💶 Price per liter, in euros?"
	txtAskReminderTemplate = "⏰ Pick a common task or create a custom reminder."
	txtAskReminderDesc     = "✏️ What should I remind you about?"
	txtAskReminderKind     = "How is this task scheduled?"
	txtAskFrequencyKm      = "🛣 Every how many kilometers?"
	txtAskFrequencyMonths  = "📅 Every how many months?"
	txtAskLastDone         = "When was it last done? Send kilometers, a date (DD-MM-YYYY), " +
		"or both separated by a comma."
	txtAskCompletionPick = "✅ Which reminder did you complete?"
	txtAskCompletionDate = "📅 When did you complete it?"
	txtAskCompletionOther = "Send the completion date as DD-MM-YYYY."

	txtCancelled       = "Dialogue cancelled."
	txtNothingToCancel = "Nothing to cancel."
	txtUnexpectedText  = "I wasn't expecting text right now. Use /menu to start."

	txtErrInvalidNumber    = "That doesn't look like a number. Try again."
	txtErrInvalidFrequency = "The frequency must be a positive whole number. Try again."
	txtErrInvalidDate      = "That doesn't look like a date. Use DD-MM-YYYY."
	txtErrInvalidAmount    = "That doesn't look like a valid amount. Try again."
	txtErrEmptyDescription = "The description can't be empty. Try again."
	txtErrInternal         = "Something went wrong on my side. Please try again."

	txtNoActiveReminders = "No active reminders."
)

var statusLabels = map[domain.VehicleStatus]string{
	domain.StatusTravel:       "🚐 Traveling",
	domain.StatusParking:      "🅿️ In parking",
	domain.StatusVacationHome: "🏠 At vacation home",
}

var maintenanceLabels = map[domain.MaintenanceType]string{
	domain.MaintenanceRepair:      "Repair",
	domain.MaintenanceImprovement: "Improvement",
	domain.MaintenanceService:     "Maintenance",
}

func axisLabel(a domain.ReminderAxis) string {
	if a == domain.AxisDistance {
		return "km"
	}
	return "months"
}

func fmtStatusSaved(rec domain.DailyRecord) string {
	s := fmt.Sprintf("✅ Status for %s saved: %s",
		rec.Date.Format(domain.UserDateFormat), statusLabels[rec.Status])
	if rec.Location != nil {
		s += fmt.Sprintf("\n📍 %s", *rec.Location)
	}
	return s
}

func fmtStatusAlreadyRecorded(rec domain.DailyRecord) string {
	return fmt.Sprintf("👍 Today's status is already recorded: %s", statusLabels[rec.Status])
}

func fmtOdometerSaved(rec domain.OdometerRecord) string {
	return fmt.Sprintf("✅ Odometer reading saved: %d km", rec.Kilometers)
}

func fmtMaintenanceSaved(rec domain.MaintenanceRecord) string {
	s := fmt.Sprintf("✅ %s saved: %s", maintenanceLabels[rec.Type], rec.Description)
	if rec.Cost != nil {
		s += fmt.Sprintf(" (%.2f €)", *rec.Cost)
	}
	return s
}

func fmtFuelSaved(rec domain.FuelRecord) string {
	return fmt.Sprintf("✅ Fuel purchase saved: %.2f € at %.3f €/L (%.1f L)",
		rec.Amount, rec.PricePerLiter, rec.Liters())
}

// fmtReminderLine renders one reminder with its due point.
func fmtReminderLine(r domain.Reminder) string {
	switch r.Axis {
	case domain.AxisDistance:
		due := "?"
		if r.NextDueKm != nil {
			due = fmt.Sprintf("%d km", *r.NextDueKm)
		}
		return fmt.Sprintf("• %s: every %d km, next due at %s", r.Description, r.Frequency, due)
	default:
		due := "?"
		if r.NextDue != nil {
			due = r.NextDue.Format(domain.UserDateFormat)
		}
		return fmt.Sprintf("• %s: every %d months, next due on %s", r.Description, r.Frequency, due)
	}
}

// fmtProjectionLine renders one reminder with how far out (or overdue) it
// is right now.
func fmtProjectionLine(p domain.ReminderProjection) string {
	r := p.Reminder
	var state string
	switch {
	case p.RemainingKm != nil && p.Overdue:
		state = fmt.Sprintf("🔴 OVERDUE by %d km", -*p.RemainingKm)
	case p.RemainingKm != nil:
		state = fmt.Sprintf("%d km remaining", *p.RemainingKm)
	case p.RemainingDays != nil && p.Overdue:
		state = fmt.Sprintf("🔴 OVERDUE by %d days", -*p.RemainingDays)
	case p.RemainingDays != nil:
		state = fmt.Sprintf("%d days remaining", *p.RemainingDays)
	default:
		state = "no due point"
	}
	return fmt.Sprintf("• %s (every %d %s): %s", r.Description, r.Frequency, axisLabel(r.Axis), state)
}

func fmtReminderOverview(projections []domain.ReminderProjection) string {
	if len(projections) == 0 {
		return txtNoActiveReminders
	}
	var b strings.Builder
	b.WriteString("⏰ Active reminders:\n\n")
	for _, p := range projections {
		b.WriteString(fmtProjectionLine(p))
		b.WriteByte('\n')
	}
	return b.String()
}

// fmtDraftSummary renders the creation dialogue's confirmation message.
func fmtDraftSummary(d reminderDraft) string {
	var b strings.Builder
	b.WriteString("⏰ New reminder:\n\n")
	fmt.Fprintf(&b, "Task: %s\n", d.description)
	switch d.kind {
	case kindDistance:
		fmt.Fprintf(&b, "Every: %d km\n", d.frequencyKm)
	case kindTime:
		fmt.Fprintf(&b, "Every: %d months\n", d.frequencyMonths)
	case kindDual:
		fmt.Fprintf(&b, "Every: %d km and %d months\n", d.frequencyKm, d.frequencyMonths)
	}
	if d.lastDoneRaw != "" {
		fmt.Fprintf(&b, "Last done: %s\n", d.lastDoneRaw)
	} else {
		b.WriteString("Last done: starting from now\n")
	}
	b.WriteString("\nSave it?")
	return b.String()
}

func fmtReminderCreated(r domain.Reminder) string {
	return "✅ Reminder saved.\n" + fmtReminderLine(r)
}

func fmtReminderCompleted(r domain.Reminder) string {
	return "✅ Marked as done. Next cycle:\n" + fmtReminderLine(r)
}

func fmtDailyStats(records []domain.DailyRecord, counts map[domain.VehicleStatus]int) string {
	var b strings.Builder
	b.WriteString("📋 Daily status\n\n")
	fmt.Fprintf(&b, "Traveling: %d days\n", counts[domain.StatusTravel])
	fmt.Fprintf(&b, "In parking: %d days\n", counts[domain.StatusParking])
	fmt.Fprintf(&b, "At vacation home: %d days\n", counts[domain.StatusVacationHome])
	if len(records) > 0 {
		b.WriteString("\nRecent days:\n")
		for _, r := range records {
			fmt.Fprintf(&b, "• %s: %s\n", r.Date.Format(domain.UserDateFormat), statusLabels[r.Status])
		}
	}
	return b.String()
}

func fmtOdometerStats(records []domain.OdometerRecord, total int) string {
	var b strings.Builder
	b.WriteString("🛣 Kilometers\n\n")
	fmt.Fprintf(&b, "Total recorded: %d km\n", total)
	if len(records) > 0 {
		b.WriteString("\nRecent readings:\n")
		for _, r := range records {
			fmt.Fprintf(&b, "• %s: %d km", r.Date.Format(domain.UserDateFormat), r.Kilometers)
			if r.KmDiff > 0 {
				fmt.Fprintf(&b, " (+%d)", r.KmDiff)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func fmtMaintenanceStats(records []domain.MaintenanceRecord, total float64) string {
	var b strings.Builder
	b.WriteString("🔧 Maintenance\n\n")
	fmt.Fprintf(&b, "Total spent: %.2f €\n", total)
	if len(records) > 0 {
		b.WriteString("\nRecent entries:\n")
		for _, r := range records {
			fmt.Fprintf(&b, "• %s: %s - %s", r.Date.Format(domain.UserDateFormat),
				maintenanceLabels[r.Type], r.Description)
			if r.Cost != nil {
				fmt.Fprintf(&b, " (%.2f €)", *r.Cost)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func fmtFuelStats(records []domain.FuelRecord, total float64) string {
	var b strings.Builder
	b.WriteString("⛽ Fuel\n\n")
	fmt.Fprintf(&b, "Total spent: %.2f €\n", total)
	if len(records) > 0 {
		b.WriteString("\nRecent purchases:\n")
		for _, r := range records {
			fmt.Fprintf(&b, "• %s: %.2f € at %.3f €/L (%.1f L)\n",
				r.Date.Format(domain.UserDateFormat), r.Amount, r.PricePerLiter, r.Liters())
		}
	}
	return b.String()
}

package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/google/uuid"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

// Callback data identifiers. Telegram limits callback data to 64 bytes so
// these stay short; parameterized callbacks append their argument after
// the prefix.
const (
	cbMainMenu  = "main_menu"
	cbDailyMenu = "daily_menu"
	cbStatsMenu = "stats_menu"
	cbCancel    = "cancel"

	cbStatusTravel   = "status_travel"
	cbStatusParking  = "status_parking"
	cbStatusVacation = "status_vacation"

	cbAddKilometers  = "add_kilometers"
	cbAddMaintenance = "add_maintenance"
	cbAddFuel        = "add_fuel"

	cbMaintRepair      = "maint_repair"
	cbMaintImprovement = "maint_improvement"
	cbMaintMaintenance = "maint_maintenance"

	cbStatsDaily       = "stats_daily"
	cbStatsKilometers  = "stats_km"
	cbStatsMaintenance = "stats_maintenance"
	cbStatsFuel        = "stats_fuel"

	cbRemindersMenu    = "reminders_menu"
	cbReminderAdd      = "reminder_add"
	cbReminderList     = "reminder_list"
	cbReminderComplete = "reminder_complete"

	cbReminderKindKm   = "reminder_kind_km"
	cbReminderKindTime = "reminder_kind_time"
	cbReminderKindBoth = "reminder_kind_both"
	cbReminderCustom   = "reminder_custom"

	cbUseDefaultFreq  = "use_default_freq"
	cbNoLastDone      = "no_last_done"
	cbConfirmReminder = "confirm_reminder"

	cbCompletionToday = "completion_today"
	cbCompletionOther = "completion_other"

	// prefixes for parameterized callbacks
	cbTemplateKmPrefix   = "tpl_km_"
	cbTemplateTimePrefix = "tpl_time_"
	cbCompletePrefix     = "complete_"
)

// reminderTemplate is a common maintenance task offered as a one-tap
// choice in the creation dialogue, with its usual interval.
type reminderTemplate struct {
	description string
	frequency   int
}

// Stock service intervals for a motorhome. The indexes are wired into the
// template callback data, so order is append-only.
var (
	kmTemplates = []reminderTemplate{
		{"Oil and filter change", 10000},
		{"Air filter change", 15000},
		{"Fuel filter change", 20000},
		{"Tyre change", 50000},
	}
	timeTemplates = []reminderTemplate{
		{"ITV inspection", 12},
		{"Insurance renewal", 12},
		{"General service", 12},
	}
)

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("📋 Daily status", cbDailyMenu)),
		tgbotapi.NewInlineKeyboardRow(
			btn("🛣 Kilometers", cbAddKilometers),
			btn("🔧 Maintenance", cbAddMaintenance),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("⛽ Fuel", cbAddFuel),
			btn("📊 Statistics", cbStatsMenu),
		),
		tgbotapi.NewInlineKeyboardRow(btn("⏰ Reminders", cbRemindersMenu)),
	)
}

func dailyStatusKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("🚐 Traveling", cbStatusTravel)),
		tgbotapi.NewInlineKeyboardRow(btn("🅿️ In parking", cbStatusParking)),
		tgbotapi.NewInlineKeyboardRow(btn("🏠 At vacation home", cbStatusVacation)),
	)
}

func maintenanceTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("🔩 Repair", cbMaintRepair)),
		tgbotapi.NewInlineKeyboardRow(btn("✨ Improvement", cbMaintImprovement)),
		tgbotapi.NewInlineKeyboardRow(btn("🔧 Maintenance", cbMaintMaintenance)),
	)
}

func statsMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("📋 Daily", cbStatsDaily),
			btn("🛣 Kilometers", cbStatsKilometers),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("🔧 Maintenance", cbStatsMaintenance),
			btn("⛽ Fuel", cbStatsFuel),
		),
		tgbotapi.NewInlineKeyboardRow(btn("« Back", cbMainMenu)),
	)
}

func remindersMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("➕ New reminder", cbReminderAdd)),
		tgbotapi.NewInlineKeyboardRow(btn("📋 Active reminders", cbReminderList)),
		tgbotapi.NewInlineKeyboardRow(btn("✅ Mark as done", cbReminderComplete)),
		tgbotapi.NewInlineKeyboardRow(btn("« Back", cbMainMenu)),
	)
}

// reminderTemplateKeyboard offers the stock templates plus the custom
// entry point.
func reminderTemplateKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kmTemplates)+len(timeTemplates)+2)
	for i, t := range kmTemplates {
		label := fmt.Sprintf("%s (%d km)", t.description, t.frequency)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(label, fmt.Sprintf("%s%d", cbTemplateKmPrefix, i))))
	}
	for i, t := range timeTemplates {
		label := fmt.Sprintf("%s (%d months)", t.description, t.frequency)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(label, fmt.Sprintf("%s%d", cbTemplateTimePrefix, i))))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(btn("✏️ Custom reminder", cbReminderCustom)),
		tgbotapi.NewInlineKeyboardRow(btn("« Back", cbRemindersMenu)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func reminderKindKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("🛣 By kilometers", cbReminderKindKm)),
		tgbotapi.NewInlineKeyboardRow(btn("📅 By months", cbReminderKindTime)),
		tgbotapi.NewInlineKeyboardRow(btn("🛣📅 Both", cbReminderKindBoth)),
	)
}

func defaultFrequencyKeyboard(freq int, unit string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(fmt.Sprintf("Use %d %s", freq, unit), cbUseDefaultFreq)),
	)
}

func noLastDoneKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("🤷 Don't remember", cbNoLastDone)),
	)
}

func confirmReminderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("✅ Save", cbConfirmReminder),
			btn("❌ Cancel", cbCancel),
		),
	)
}

// completionPickKeyboard lists the active reminders as one button each.
func completionPickKeyboard(reminders []domain.Reminder) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reminders)+1)
	for _, r := range reminders {
		label := fmt.Sprintf("%s (%s)", r.Description, axisLabel(r.Axis))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(label, cbCompletePrefix+r.ID.String())))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn("« Back", cbRemindersMenu)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func completionDateKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("📅 Today", cbCompletionToday)),
		tgbotapi.NewInlineKeyboardRow(btn("✏️ Another date", cbCompletionOther)),
	)
}

func backToMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("« Menu", cbMainMenu)),
	)
}

// parseCompleteCallback extracts the reminder id from a completion pick.
func parseCompleteCallback(data string) (uuid.UUID, bool) {
	if len(data) <= len(cbCompletePrefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(data[len(cbCompletePrefix):])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

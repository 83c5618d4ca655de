package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

// handleCallback dispatches inline keyboard presses. Every press is
// acknowledged first so the Telegram client stops its spinner even when
// the handler fails.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Error("failed to answer callback", "error", err)
	}
	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	sess := b.sessions.get(chatID)

	switch data := cb.Data; {
	case data == cbMainMenu:
		b.sessions.reset(chatID)
		kb := mainMenuKeyboard()
		b.edit(chatID, messageID, "Main menu:", &kb)

	case data == cbCancel:
		b.sessions.reset(chatID)
		kb := backToMenuKeyboard()
		b.edit(chatID, messageID, txtCancelled, &kb)

	// ---- daily status ----

	case data == cbDailyMenu:
		kb := dailyStatusKeyboard()
		b.edit(chatID, messageID, txtDailyPrompt, &kb)

	case data == cbStatusTravel:
		sess.stage = stageAwaitTravelLocation
		b.edit(chatID, messageID, txtAskTravelLocation, nil)

	case data == cbStatusParking:
		b.recordDailyStatusEdit(ctx, chatID, messageID, domain.StatusParking)

	case data == cbStatusVacation:
		b.recordDailyStatusEdit(ctx, chatID, messageID, domain.StatusVacationHome)

	// ---- ledger entry ----

	case data == cbAddKilometers:
		sess.stage = stageAwaitKilometers
		b.edit(chatID, messageID, txtAskKilometers, nil)

	case data == cbAddMaintenance:
		kb := maintenanceTypeKeyboard()
		b.edit(chatID, messageID, txtAskMaintenanceType, &kb)

	case data == cbMaintRepair, data == cbMaintImprovement, data == cbMaintMaintenance:
		sess.maintenanceType = maintenanceTypeFor(data)
		sess.stage = stageAwaitMaintenanceDescription
		b.edit(chatID, messageID, txtAskMaintenanceDesc, nil)

	case data == cbAddFuel:
		sess.stage = stageAwaitFuelAmount
		b.edit(chatID, messageID, txtAskFuelAmount, nil)

	// ---- statistics ----

	case data == cbStatsMenu:
		kb := statsMenuKeyboard()
		b.edit(chatID, messageID, "📊 Statistics:", &kb)

	case data == cbStatsDaily:
		records, err := b.logbook.DailyHistory(ctx, 7)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		counts, err := b.logbook.StatusCounts(ctx)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		kb := statsMenuKeyboard()
		b.edit(chatID, messageID, fmtDailyStats(records, counts), &kb)

	case data == cbStatsKilometers:
		records, total, err := b.logbook.OdometerHistory(ctx, 10)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		kb := statsMenuKeyboard()
		b.edit(chatID, messageID, fmtOdometerStats(records, total), &kb)

	case data == cbStatsMaintenance:
		records, total, err := b.logbook.MaintenanceHistory(ctx, 10)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		kb := statsMenuKeyboard()
		b.edit(chatID, messageID, fmtMaintenanceStats(records, total), &kb)

	case data == cbStatsFuel:
		records, total, err := b.logbook.FuelHistory(ctx, 10)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		kb := statsMenuKeyboard()
		b.edit(chatID, messageID, fmtFuelStats(records, total), &kb)

	// ---- reminders ----

	case data == cbRemindersMenu:
		b.sessions.reset(chatID)
		kb := remindersMenuKeyboard()
		b.edit(chatID, messageID, "⏰ Reminders:", &kb)

	case data == cbReminderList:
		projections, err := b.reminders.Overview(ctx)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		kb := remindersMenuKeyboard()
		b.edit(chatID, messageID, fmtReminderOverview(projections), &kb)

	case data == cbReminderAdd:
		kb := reminderTemplateKeyboard()
		b.edit(chatID, messageID, txtAskReminderTemplate, &kb)

	case strings.HasPrefix(data, cbTemplateKmPrefix):
		idx, err := strconv.Atoi(data[len(cbTemplateKmPrefix):])
		if err != nil || idx < 0 || idx >= len(kmTemplates) {
			return
		}
		t := kmTemplates[idx]
		sess.draft = reminderDraft{kind: kindDistance, description: t.description, frequencyKm: t.frequency}
		sess.stage = stageAwaitReminderFrequencyKm
		kb := defaultFrequencyKeyboard(t.frequency, "km")
		b.edit(chatID, messageID, txtAskFrequencyKm, &kb)

	case strings.HasPrefix(data, cbTemplateTimePrefix):
		idx, err := strconv.Atoi(data[len(cbTemplateTimePrefix):])
		if err != nil || idx < 0 || idx >= len(timeTemplates) {
			return
		}
		t := timeTemplates[idx]
		sess.draft = reminderDraft{kind: kindTime, description: t.description, frequencyMonths: t.frequency}
		sess.stage = stageAwaitReminderFrequencyMonths
		kb := defaultFrequencyKeyboard(t.frequency, "months")
		b.edit(chatID, messageID, txtAskFrequencyMonths, &kb)

	case data == cbReminderCustom:
		sess.draft = reminderDraft{}
		sess.stage = stageAwaitReminderDescription
		b.edit(chatID, messageID, txtAskReminderDesc, nil)

	case data == cbReminderKindKm:
		sess.draft.kind = kindDistance
		sess.stage = stageAwaitReminderFrequencyKm
		b.edit(chatID, messageID, txtAskFrequencyKm, nil)

	case data == cbReminderKindTime:
		sess.draft.kind = kindTime
		sess.stage = stageAwaitReminderFrequencyMonths
		b.edit(chatID, messageID, txtAskFrequencyMonths, nil)

	case data == cbReminderKindBoth:
		sess.draft.kind = kindDual
		sess.stage = stageAwaitReminderFrequencyKm
		b.edit(chatID, messageID, txtAskFrequencyKm, nil)

	case data == cbUseDefaultFreq:
		// template defaults are already on the draft
		sess.stage = stageAwaitReminderLastDone
		kb := noLastDoneKeyboard()
		b.edit(chatID, messageID, txtAskLastDone, &kb)

	case data == cbNoLastDone:
		sess.draft.lastDoneRaw = ""
		sess.stage = stageIdle
		kb := confirmReminderKeyboard()
		b.edit(chatID, messageID, fmtDraftSummary(sess.draft), &kb)

	case data == cbConfirmReminder:
		b.createReminder(ctx, chatID, messageID, sess.draft)

	case data == cbReminderComplete:
		projections, err := b.reminders.Overview(ctx)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		if len(projections) == 0 {
			kb := remindersMenuKeyboard()
			b.edit(chatID, messageID, txtNoActiveReminders, &kb)
			return
		}
		reminders := make([]domain.Reminder, len(projections))
		for i, p := range projections {
			reminders[i] = p.Reminder
		}
		kb := completionPickKeyboard(reminders)
		b.edit(chatID, messageID, txtAskCompletionPick, &kb)

	case strings.HasPrefix(data, cbCompletePrefix):
		id, ok := parseCompleteCallback(data)
		if !ok {
			return
		}
		sess.completingID = id
		sess.stage = stageAwaitCompletionDate
		kb := completionDateKeyboard()
		b.edit(chatID, messageID, txtAskCompletionDate, &kb)

	case data == cbCompletionToday:
		b.completeReminder(ctx, chatID, b.today())

	case data == cbCompletionOther:
		sess.stage = stageAwaitCompletionDate
		b.edit(chatID, messageID, txtAskCompletionOther, nil)
	}
}

func (b *Bot) recordDailyStatusEdit(ctx context.Context, chatID int64, messageID int, status domain.VehicleStatus) {
	rec, err := b.logbook.RecordDailyStatus(ctx, status, nil, nil, nil)
	if err != nil {
		b.send(chatID, b.errorReply(err))
		return
	}
	b.sessions.reset(chatID)
	kb := backToMenuKeyboard()
	b.edit(chatID, messageID, fmtStatusSaved(rec), &kb)
}

// createReminder turns a confirmed draft into one or two persisted
// reminders, dispatching on the draft's axis tag.
func (b *Bot) createReminder(ctx context.Context, chatID int64, messageID int, d reminderDraft) {
	var text string

	switch d.kind {
	case kindDistance:
		var lastDoneKm *int
		if d.lastDoneRaw != "" {
			km, err := strconv.Atoi(d.lastDoneRaw)
			if err != nil {
				b.send(chatID, txtErrInvalidNumber)
				return
			}
			lastDoneKm = &km
		}
		rem, err := b.reminders.CreateDistance(ctx, d.description, d.frequencyKm, lastDoneKm)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		text = fmtReminderCreated(rem)

	case kindTime:
		var lastDone *time.Time
		if d.lastDoneRaw != "" {
			date, err := domain.ParseUserDate(d.lastDoneRaw)
			if err != nil {
				b.send(chatID, txtErrInvalidDate)
				return
			}
			lastDone = &date
		}
		rem, err := b.reminders.CreateTime(ctx, d.description, d.frequencyMonths, lastDone)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		text = fmtReminderCreated(rem)

	case kindDual:
		km, tm, err := b.reminders.CreateDualAxis(ctx, d.description, d.frequencyKm, d.frequencyMonths, d.lastDoneRaw)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		text = "✅ Reminder saved.\n" + fmtReminderLine(km) + "\n" + fmtReminderLine(tm)

	default:
		return
	}

	b.sessions.reset(chatID)
	kb := backToMenuKeyboard()
	b.edit(chatID, messageID, text, &kb)
}

func maintenanceTypeFor(data string) domain.MaintenanceType {
	switch data {
	case cbMaintRepair:
		return domain.MaintenanceRepair
	case cbMaintImprovement:
		return domain.MaintenanceImprovement
	default:
		return domain.MaintenanceService
	}
}

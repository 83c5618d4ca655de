package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.registrar.SetChatID(chatID)
		b.sessions.reset(chatID)
		b.sendWithKeyboard(chatID, txtWelcome, mainMenuKeyboard())
	case "menu":
		b.sessions.reset(chatID)
		b.sendWithKeyboard(chatID, "Main menu:", mainMenuKeyboard())
	case "help":
		b.send(chatID, txtHelp)
	case "daily":
		b.sessions.reset(chatID)
		b.sendWithKeyboard(chatID, txtDailyPrompt, dailyStatusKeyboard())
	case "km":
		b.sessions.reset(chatID)
		b.sessions.get(chatID).stage = stageAwaitKilometers
		b.send(chatID, txtAskKilometers)
	case "maintenance":
		b.sessions.reset(chatID)
		b.sendWithKeyboard(chatID, txtAskMaintenanceType, maintenanceTypeKeyboard())
	case "fuel":
		b.sessions.reset(chatID)
		b.sessions.get(chatID).stage = stageAwaitFuelAmount
		b.send(chatID, txtAskFuelAmount)
	case "stats":
		b.sendWithKeyboard(chatID, "📊 Statistics:", statsMenuKeyboard())
	case "reminders":
		b.sessions.reset(chatID)
		b.sendWithKeyboard(chatID, "⏰ Reminders:", remindersMenuKeyboard())
	case "cancel":
		if b.sessions.get(chatID).stage == stageIdle {
			b.send(chatID, txtNothingToCancel)
			return
		}
		b.sessions.reset(chatID)
		b.send(chatID, txtCancelled)
	default:
		b.send(chatID, txtHelp)
	}
}

// handleText dispatches free text on the chat's current stage. Invalid
// input never aborts the dialogue: the user is re-prompted and the stage
// stays put.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	sess := b.sessions.get(chatID)
	text := strings.TrimSpace(msg.Text)

	switch sess.stage {
	case stageAwaitTravelLocation:
		b.recordDailyStatus(ctx, chatID, domain.StatusTravel, &text, nil, nil)

	case stageAwaitKilometers:
		km, err := strconv.Atoi(text)
		if err != nil {
			b.send(chatID, txtErrInvalidNumber)
			return
		}
		rec, err := b.logbook.AddOdometer(ctx, km, nil)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		b.sessions.reset(chatID)
		b.sendWithKeyboard(chatID, fmtOdometerSaved(rec), backToMenuKeyboard())

	case stageAwaitMaintenanceDescription:
		if text == "" {
			b.send(chatID, txtErrEmptyDescription)
			return
		}
		sess.maintenanceDesc = text
		sess.stage = stageAwaitMaintenanceCost
		b.send(chatID, txtAskMaintenanceCost)

	case stageAwaitMaintenanceCost:
		cost, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil || cost < 0 {
			b.send(chatID, txtErrInvalidAmount)
			return
		}
		var costPtr *float64
		if cost > 0 {
			costPtr = &cost
		}
		rec, err := b.logbook.AddMaintenance(ctx, sess.maintenanceType, sess.maintenanceDesc, costPtr)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		b.sessions.reset(chatID)
		b.sendWithKeyboard(chatID, fmtMaintenanceSaved(rec), backToMenuKeyboard())

	case stageAwaitFuelAmount:
		amount, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil || amount <= 0 {
			b.send(chatID, txtErrInvalidAmount)
			return
		}
		sess.fuelAmount = amount
		sess.stage = stageAwaitFuelPrice
		b.send(chatID, txtAskFuelPrice)

	case stageAwaitFuelPrice:
		price, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil || price <= 0 {
			b.send(chatID, txtErrInvalidAmount)
			return
		}
		rec, err := b.logbook.AddFuel(ctx, sess.fuelAmount, price)
		if err != nil {
			b.send(chatID, b.errorReply(err))
			return
		}
		b.sessions.reset(chatID)
		b.sendWithKeyboard(chatID, fmtFuelSaved(rec), backToMenuKeyboard())

	case stageAwaitReminderDescription:
		if text == "" {
			b.send(chatID, txtErrEmptyDescription)
			return
		}
		sess.draft.description = text
		b.sendWithKeyboard(chatID, txtAskReminderKind, reminderKindKeyboard())
		sess.stage = stageIdle

	case stageAwaitReminderFrequencyKm:
		freq, err := strconv.Atoi(text)
		if err != nil || freq <= 0 {
			b.send(chatID, txtErrInvalidFrequency)
			return
		}
		sess.draft.frequencyKm = freq
		if sess.draft.kind == kindDual {
			sess.stage = stageAwaitReminderFrequencyMonths
			b.send(chatID, txtAskFrequencyMonths)
			return
		}
		sess.stage = stageAwaitReminderLastDone
		b.sendWithKeyboard(chatID, txtAskLastDone, noLastDoneKeyboard())

	case stageAwaitReminderFrequencyMonths:
		freq, err := strconv.Atoi(text)
		if err != nil || freq <= 0 {
			b.send(chatID, txtErrInvalidFrequency)
			return
		}
		sess.draft.frequencyMonths = freq
		sess.stage = stageAwaitReminderLastDone
		b.sendWithKeyboard(chatID, txtAskLastDone, noLastDoneKeyboard())

	case stageAwaitReminderLastDone:
		if reply, ok := b.validateLastDone(sess.draft.kind, text); !ok {
			b.send(chatID, reply)
			return
		}
		sess.draft.lastDoneRaw = text
		sess.stage = stageIdle
		b.sendWithKeyboard(chatID, fmtDraftSummary(sess.draft), confirmReminderKeyboard())

	case stageAwaitCompletionDate:
		date, err := domain.ParseUserDate(text)
		if err != nil {
			b.send(chatID, txtErrInvalidDate)
			return
		}
		b.completeReminder(ctx, chatID, date)

	default:
		b.send(chatID, txtUnexpectedText)
	}
}

// handleGPSLocation accepts a shared Telegram location as the answer to
// the "where are you" question. Outside that stage the share is ignored.
func (b *Bot) handleGPSLocation(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if b.sessions.get(chatID).stage != stageAwaitTravelLocation {
		return
	}
	lat := msg.Location.Latitude
	lon := msg.Location.Longitude
	name := fmt.Sprintf("%.5f,%.5f", lat, lon)
	b.recordDailyStatus(ctx, chatID, domain.StatusTravel, &name, &lat, &lon)
}

func (b *Bot) recordDailyStatus(ctx context.Context, chatID int64, status domain.VehicleStatus, location *string, lat, lon *float64) {
	rec, err := b.logbook.RecordDailyStatus(ctx, status, location, lat, lon)
	if err != nil {
		b.send(chatID, b.errorReply(err))
		return
	}
	b.sessions.reset(chatID)
	b.sendWithKeyboard(chatID, fmtStatusSaved(rec), backToMenuKeyboard())
}

func (b *Bot) completeReminder(ctx context.Context, chatID int64, date time.Time) {
	sess := b.sessions.get(chatID)
	rem, err := b.reminders.Complete(ctx, sess.completingID, date)
	if err != nil {
		b.send(chatID, b.errorReply(err))
		return
	}
	b.sessions.reset(chatID)
	b.sendWithKeyboard(chatID, fmtReminderCompleted(rem), backToMenuKeyboard())
}

// validateLastDone checks the free-text baseline answer against the axes
// the draft tracks, so bad input is caught before the confirmation step.
// Dual drafts accept any text; unrecognized tokens are simply ignored
// downstream.
func (b *Bot) validateLastDone(kind reminderKind, text string) (string, bool) {
	switch kind {
	case kindDistance:
		if km, err := strconv.Atoi(text); err != nil || km < 0 {
			return txtErrInvalidNumber, false
		}
	case kindTime:
		if _, err := domain.ParseUserDate(text); err != nil {
			return txtErrInvalidDate, false
		}
	}
	return "", true
}

// errorReply maps a service error to the corrective message shown to the
// user. Unknown errors are logged and answered generically.
func (b *Bot) errorReply(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidFrequency):
		return txtErrInvalidFrequency
	case errors.Is(err, domain.ErrInvalidDate):
		return txtErrInvalidDate
	case errors.Is(err, domain.ErrInvalidDistance):
		return txtErrInvalidNumber
	case errors.Is(err, domain.ErrValidation):
		return txtErrInvalidAmount
	case errors.Is(err, domain.ErrNotFound):
		return txtErrInternal
	default:
		b.log.Error("service call failed", "error", err)
		return txtErrInternal
	}
}

// Package bot implements the Telegram dialogue layer: commands, inline
// keyboard menus, and the multi-step conversations for recording data and
// managing maintenance reminders.
//
// The package holds no business logic. It parses user input, calls into the
// services, and renders their results; every core error is caught here and
// turned into a corrective re-prompt.
package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmhodges/clock"

	"github.com/pkordes/rv-logbook-bot/internal/domain"

	"github.com/google/uuid"
)

// ReminderServicer defines the reminder-engine operations the bot depends
// on. Defining the interface here (in the consumer package) lets bot tests
// inject a mock without touching the database or service layer.
type ReminderServicer interface {
	CreateDistance(ctx context.Context, description string, frequencyKm int, lastDoneKm *int) (domain.Reminder, error)
	CreateTime(ctx context.Context, description string, frequencyMonths int, lastDone *time.Time) (domain.Reminder, error)
	CreateDualAxis(ctx context.Context, description string, frequencyKm, frequencyMonths int, lastDoneRaw string) (domain.Reminder, domain.Reminder, error)
	Complete(ctx context.Context, id uuid.UUID, completionDate time.Time) (domain.Reminder, error)
	Overview(ctx context.Context) ([]domain.ReminderProjection, error)
	ListAll(ctx context.Context) ([]domain.Reminder, error)
}

// LogbookServicer defines the ledger operations the bot depends on.
type LogbookServicer interface {
	RecordDailyStatus(ctx context.Context, status domain.VehicleStatus, location *string, lat, lon *float64) (domain.DailyRecord, error)
	TodayStatus(ctx context.Context) (domain.DailyRecord, error)
	AddOdometer(ctx context.Context, kilometers int, notes *string) (domain.OdometerRecord, error)
	AddMaintenance(ctx context.Context, typ domain.MaintenanceType, description string, cost *float64) (domain.MaintenanceRecord, error)
	AddFuel(ctx context.Context, amount, pricePerLiter float64) (domain.FuelRecord, error)
	DailyHistory(ctx context.Context, limit int) ([]domain.DailyRecord, error)
	StatusCounts(ctx context.Context) (map[domain.VehicleStatus]int, error)
	OdometerHistory(ctx context.Context, limit int) ([]domain.OdometerRecord, int, error)
	MaintenanceHistory(ctx context.Context, limit int) ([]domain.MaintenanceRecord, float64, error)
	FuelHistory(ctx context.Context, limit int) ([]domain.FuelRecord, float64, error)
}

// ChatRegistrar learns the notification target chat from /start.
// Implemented by notifier.Notifier.
type ChatRegistrar interface {
	SetChatID(id int64)
}

// Bot wraps the Telegram API and the per-chat conversation state.
type Bot struct {
	api       *tgbotapi.BotAPI
	reminders ReminderServicer
	logbook   LogbookServicer
	registrar ChatRegistrar
	clk       clock.Clock
	loc       *time.Location
	log       *slog.Logger

	sessions *sessionStore
	stopCh   chan struct{}
}

// New authenticates against the Telegram API and constructs the Bot.
// The clock and timezone define what "today" means for button shortcuts,
// matching the services' notion of the current date.
func New(token string, reminders ReminderServicer, logbook LogbookServicer, registrar ChatRegistrar, clk clock.Clock, loc *time.Location, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = false

	log.Info("authorized on telegram", "username", api.Self.UserName)

	return &Bot{
		api:       api,
		reminders: reminders,
		logbook:   logbook,
		registrar: registrar,
		clk:       clk,
		loc:       loc,
		log:       log,
		sessions:  newSessionStore(),
		stopCh:    make(chan struct{}),
	}, nil
}

// today returns the current date at midnight in the bot's timezone.
func (b *Bot) today() time.Time {
	now := b.clk.Now().In(b.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.loc)
}

// Run long-polls for updates until Stop is called. Each update is handled
// as one independent unit of work; per-chat conversation state lives in
// the session store, nothing else is shared across requests.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-b.stopCh:
			return
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop terminates the update loop.
func (b *Bot) Stop() {
	close(b.stopCh)
	b.api.StopReceivingUpdates()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Location != nil:
		b.handleGPSLocation(ctx, update.Message)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleText(ctx, update.Message)
	}
}

// send delivers a plain text message, logging delivery failures.
func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// sendWithKeyboard delivers a text message with an inline keyboard.
func (b *Bot) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// edit replaces the text and keyboard of the message a callback came from.
func (b *Bot) edit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to edit message", "chat_id", chatID, "error", err)
	}
}

// SendDailyPrompt implements notifier.Sender: the morning "where is the
// motorhome?" question with the status quick replies.
func (b *Bot) SendDailyPrompt(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, txtDailyPrompt)
	msg.ReplyMarkup = dailyStatusKeyboard()
	_, err := b.api.Send(msg)
	return err
}

// SendStatusRecorded implements notifier.Sender: today's status is already
// on record, nothing to do.
func (b *Bot) SendStatusRecorded(chatID int64, rec domain.DailyRecord) error {
	msg := tgbotapi.NewMessage(chatID, fmtStatusAlreadyRecorded(rec))
	_, err := b.api.Send(msg)
	return err
}

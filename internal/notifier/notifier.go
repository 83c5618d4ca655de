// Package notifier implements the once-daily status reminder: a timer loop
// that checks whether today's vehicle status is recorded and, if not, asks
// the bot layer to prompt for it.
package notifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jmhodges/clock"

	"github.com/pkordes/rv-logbook-bot/internal/config"
	"github.com/pkordes/rv-logbook-bot/internal/domain"
)

// StatusReader looks up today's daily status record.
// Implemented by service.LogbookService.
type StatusReader interface {
	TodayStatus(ctx context.Context) (domain.DailyRecord, error)
}

// Sender delivers the two possible daily messages to a chat.
// Implemented by the bot layer.
type Sender interface {
	// SendDailyPrompt asks "where is the motorhome today?" with the status
	// quick-reply keyboard.
	SendDailyPrompt(chatID int64) error

	// SendStatusRecorded informs that today's status is already recorded.
	SendStatusRecorded(chatID int64, rec domain.DailyRecord) error
}

// Notifier fires once per day at the configured local time.
//
// Delivery failures are logged and swallowed: a missed prompt is not
// retried until the next scheduled firing, and no failure ever stops the
// loop. The target chat is either preconfigured or learned from the first
// /start; with no target the firing is silently skipped.
type Notifier struct {
	statuses StatusReader
	sender   Sender
	clk      clock.Clock
	loc      *time.Location
	at       config.DayTime
	log      *slog.Logger

	mu     sync.Mutex
	chatID int64

	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Notifier. chatID 0 means "not yet known".
func New(statuses StatusReader, sender Sender, clk clock.Clock, loc *time.Location, at config.DayTime, chatID int64, log *slog.Logger) *Notifier {
	return &Notifier{
		statuses: statuses,
		sender:   sender,
		clk:      clk,
		loc:      loc,
		at:       at,
		log:      log,
		chatID:   chatID,
		stop:     make(chan struct{}),
	}
}

// SetSender plugs in the message sender. The bot and the notifier refer to
// each other (the bot registers the chat, the notifier sends through the
// bot), so main constructs the notifier first and injects the bot here.
// Must be called before Run.
func (n *Notifier) SetSender(s Sender) {
	n.sender = s
}

// SetChatID records the notification target. The bot calls this on /start
// when no chat was preconfigured; later calls overwrite earlier ones.
func (n *Notifier) SetChatID(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.chatID != id {
		n.log.Info("notification chat configured", "chat_id", id)
	}
	n.chatID = id
}

func (n *Notifier) targetChat() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chatID
}

// Run blocks, firing once per day at the configured time, until Stop is
// called. Start it in its own goroutine.
func (n *Notifier) Run(ctx context.Context) {
	n.log.Info("daily notifier started", "at", n.at.String(), "tz", n.loc.String())
	for {
		wait := n.untilNextFiring()
		select {
		case <-n.clk.After(wait):
			n.Fire(ctx)
		case <-n.stop:
			n.log.Info("daily notifier stopped")
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop terminates the Run loop. Safe to call more than once.
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() { close(n.stop) })
}

// untilNextFiring computes how long to sleep until the next occurrence of
// the configured wall-clock time. A firing time earlier than or equal to
// now belongs to tomorrow.
func (n *Notifier) untilNextFiring() time.Duration {
	now := n.clk.Now().In(n.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), n.at.Hour, n.at.Minute, 0, 0, n.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// Fire performs one notification check: skip without a target chat, report
// an already-recorded status, or send the morning prompt. All errors are
// logged and swallowed so a single failure never cancels future firings.
func (n *Notifier) Fire(ctx context.Context) {
	chatID := n.targetChat()
	if chatID == 0 {
		n.log.Warn("no chat configured for daily reminder, skipping")
		return
	}

	rec, err := n.statuses.TodayStatus(ctx)
	switch {
	case err == nil:
		if err := n.sender.SendStatusRecorded(chatID, rec); err != nil {
			n.log.Error("failed to send recorded-status message", "error", err)
		}
	case errors.Is(err, domain.ErrNotFound):
		if err := n.sender.SendDailyPrompt(chatID); err != nil {
			n.log.Error("failed to send daily prompt", "error", err)
		}
	default:
		n.log.Error("failed to look up today's status", "error", err)
	}
}

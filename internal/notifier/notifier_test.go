package notifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-logbook-bot/internal/config"
	"github.com/pkordes/rv-logbook-bot/internal/domain"
	"github.com/pkordes/rv-logbook-bot/internal/notifier"
)

// mockStatuses is a hand-written double for notifier.StatusReader.
type mockStatuses struct {
	todayStatus func(ctx context.Context) (domain.DailyRecord, error)
}

func (m *mockStatuses) TodayStatus(ctx context.Context) (domain.DailyRecord, error) {
	return m.todayStatus(ctx)
}

var _ notifier.StatusReader = (*mockStatuses)(nil)

// mockSender records what was sent. The channels let Run-loop tests wait
// for a delivery without sleeping.
type mockSender struct {
	prompts  chan int64
	recorded chan domain.DailyRecord
	sendErr  error
}

func newMockSender() *mockSender {
	return &mockSender{
		prompts:  make(chan int64, 8),
		recorded: make(chan domain.DailyRecord, 8),
	}
}

func (m *mockSender) SendDailyPrompt(chatID int64) error {
	m.prompts <- chatID
	return m.sendErr
}

func (m *mockSender) SendStatusRecorded(chatID int64, rec domain.DailyRecord) error {
	m.recorded <- rec
	return m.sendErr
}

var _ notifier.Sender = (*mockSender)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noStatusYet() *mockStatuses {
	return &mockStatuses{
		todayStatus: func(context.Context) (domain.DailyRecord, error) {
			return domain.DailyRecord{}, domain.ErrNotFound
		},
	}
}

func at(hour, minute int) config.DayTime {
	return config.DayTime{Hour: hour, Minute: minute}
}

// ---- Fire ------------------------------------------------------------------

func TestNotifier_Fire_SendsPromptWhenNoStatus(t *testing.T) {
	sender := newMockSender()
	clk := clock.NewFake()
	n := notifier.New(noStatusYet(), sender, clk, time.UTC, at(9, 0), 42, discardLogger())

	n.Fire(context.Background())

	select {
	case chatID := <-sender.prompts:
		assert.Equal(t, int64(42), chatID)
	default:
		t.Fatal("expected a daily prompt")
	}
}

func TestNotifier_Fire_ReportsRecordedStatus(t *testing.T) {
	rec := domain.DailyRecord{Status: domain.StatusParking}
	statuses := &mockStatuses{
		todayStatus: func(context.Context) (domain.DailyRecord, error) { return rec, nil },
	}
	sender := newMockSender()
	n := notifier.New(statuses, sender, clock.NewFake(), time.UTC, at(9, 0), 42, discardLogger())

	n.Fire(context.Background())

	select {
	case got := <-sender.recorded:
		assert.Equal(t, domain.StatusParking, got.Status)
	default:
		t.Fatal("expected a recorded-status message")
	}
	assert.Empty(t, sender.prompts)
}

func TestNotifier_Fire_SkipsWithoutChat(t *testing.T) {
	sender := newMockSender()
	n := notifier.New(noStatusYet(), sender, clock.NewFake(), time.UTC, at(9, 0), 0, discardLogger())

	n.Fire(context.Background())

	assert.Empty(t, sender.prompts)
	assert.Empty(t, sender.recorded)
}

func TestNotifier_Fire_ChatLearnedFromStart(t *testing.T) {
	sender := newMockSender()
	n := notifier.New(noStatusYet(), sender, clock.NewFake(), time.UTC, at(9, 0), 0, discardLogger())

	n.SetChatID(99)
	n.Fire(context.Background())

	select {
	case chatID := <-sender.prompts:
		assert.Equal(t, int64(99), chatID)
	default:
		t.Fatal("expected a daily prompt after the chat was registered")
	}
}

func TestNotifier_Fire_SwallowsSendFailure(t *testing.T) {
	sender := newMockSender()
	sender.sendErr = errors.New("telegram unreachable")
	n := notifier.New(noStatusYet(), sender, clock.NewFake(), time.UTC, at(9, 0), 42, discardLogger())

	// must not panic and must leave the notifier usable
	n.Fire(context.Background())
	n.Fire(context.Background())

	assert.Len(t, sender.prompts, 2)
}

func TestNotifier_Fire_SwallowsStatusLookupFailure(t *testing.T) {
	statuses := &mockStatuses{
		todayStatus: func(context.Context) (domain.DailyRecord, error) {
			return domain.DailyRecord{}, errors.New("db down")
		},
	}
	sender := newMockSender()
	n := notifier.New(statuses, sender, clock.NewFake(), time.UTC, at(9, 0), 42, discardLogger())

	n.Fire(context.Background())

	assert.Empty(t, sender.prompts)
	assert.Empty(t, sender.recorded)
}

// ---- Run loop --------------------------------------------------------------

func TestNotifier_Run_FiresAtConfiguredTime(t *testing.T) {
	sender := newMockSender()
	clk := clock.NewFake()
	clk.Set(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	n := notifier.New(noStatusYet(), sender, clk, time.UTC, at(9, 0), 42, discardLogger())

	go n.Run(context.Background())
	defer n.Stop()

	// nothing before 09:00
	clk.Add(30 * time.Minute)
	select {
	case <-sender.prompts:
		t.Fatal("fired before the configured time")
	case <-time.After(50 * time.Millisecond):
	}

	clk.Add(time.Hour)
	select {
	case chatID := <-sender.prompts:
		assert.Equal(t, int64(42), chatID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a firing at 09:00")
	}
}

func TestNotifier_Run_ReArmsForNextDay(t *testing.T) {
	sender := newMockSender()
	clk := clock.NewFake()
	clk.Set(time.Date(2024, 6, 1, 8, 59, 0, 0, time.UTC))
	n := notifier.New(noStatusYet(), sender, clk, time.UTC, at(9, 0), 42, discardLogger())

	go n.Run(context.Background())
	defer n.Stop()

	// give the loop a moment to arm its timer before advancing the clock
	time.Sleep(50 * time.Millisecond)

	clk.Add(time.Minute)
	select {
	case <-sender.prompts:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the first firing")
	}

	// give the loop a moment to re-arm before advancing the clock
	time.Sleep(50 * time.Millisecond)

	// the next firing is a full day later, not immediate
	clk.Add(24 * time.Hour)
	select {
	case <-sender.prompts:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the second firing a day later")
	}
}

func TestNotifier_Run_StopTerminates(t *testing.T) {
	n := notifier.New(noStatusYet(), newMockSender(), clock.NewFake(), time.UTC, at(9, 0), 42, discardLogger())

	done := make(chan struct{})
	go func() {
		n.Run(context.Background())
		close(done)
	}()

	n.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	require.NotPanics(t, func() { n.Stop() })
}

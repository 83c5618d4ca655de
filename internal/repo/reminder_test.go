package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
	"github.com/pkordes/rv-logbook-bot/internal/repo"
	"github.com/pkordes/rv-logbook-bot/testutil"
)

// newTestReminderRepo returns a ReminderRepo backed by a transaction that is
// rolled back when the test finishes, so tests never see each other's rows.
func newTestReminderRepo(t *testing.T) repo.ReminderRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewReminderRepo(tx)
}

func distanceReminderFixture() domain.Reminder {
	last := 45000
	due := 55000
	return domain.Reminder{
		Axis:        domain.AxisDistance,
		Description: "Oil and filter change",
		Frequency:   10000,
		LastDoneKm:  &last,
		NextDueKm:   &due,
		Status:      domain.StatusActive,
	}
}

func timeReminderFixture() domain.Reminder {
	last := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	return domain.Reminder{
		Axis:        domain.AxisTime,
		Description: "ITV inspection",
		Frequency:   12,
		LastDone:    &last,
		NextDue:     &due,
		Status:      domain.StatusActive,
	}
}

func TestReminderRepo_Create_Distance(t *testing.T) {
	r := newTestReminderRepo(t)
	ctx := context.Background()

	got, err := r.Create(ctx, distanceReminderFixture())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, domain.AxisDistance, got.Axis)
	assert.Equal(t, 45000, *got.LastDoneKm)
	assert.Equal(t, 55000, *got.NextDueKm)
	assert.Nil(t, got.LastDone, "date columns stay NULL on a distance reminder")
	assert.Nil(t, got.NextDue)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestReminderRepo_Create_Time(t *testing.T) {
	r := newTestReminderRepo(t)
	ctx := context.Background()

	input := timeReminderFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, domain.AxisTime, got.Axis)
	require.NotNil(t, got.LastDone)
	assert.True(t, got.LastDone.Equal(*input.LastDone), "LastDone mismatch")
	require.NotNil(t, got.NextDue)
	assert.True(t, got.NextDue.Equal(*input.NextDue), "NextDue mismatch")
	assert.Nil(t, got.LastDoneKm, "km columns stay NULL on a time reminder")
	assert.Nil(t, got.NextDueKm)
}

func TestReminderRepo_GetByID(t *testing.T) {
	r := newTestReminderRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, distanceReminderFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Description, got.Description)
}

func TestReminderRepo_GetByID_NotFound(t *testing.T) {
	r := newTestReminderRepo(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReminderRepo_List_FilterByStatus(t *testing.T) {
	r := newTestReminderRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, distanceReminderFixture())
	require.NoError(t, err)

	completed := timeReminderFixture()
	completed.Status = domain.StatusCompleted
	_, err = r.Create(ctx, completed)
	require.NoError(t, err)

	active := domain.StatusActive
	got, err := r.List(ctx, &active)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusActive, got[0].Status)

	all, err := r.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReminderRepo_UpdateCompletion(t *testing.T) {
	r := newTestReminderRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, distanceReminderFixture())
	require.NoError(t, err)

	newLast := 56200
	newDue := 66200
	created.LastDoneKm = &newLast
	created.NextDueKm = &newDue

	got, err := r.UpdateCompletion(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, 56200, *got.LastDoneKm)
	assert.Equal(t, 66200, *got.NextDueKm)
	assert.Equal(t, domain.StatusActive, got.Status)

	// the change is persisted, not just echoed
	reread, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 56200, *reread.LastDoneKm)
}

func TestReminderRepo_UpdateCompletion_NotFound(t *testing.T) {
	r := newTestReminderRepo(t)

	missing := distanceReminderFixture()
	missing.ID = uuid.New()

	_, err := r.UpdateCompletion(context.Background(), missing)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

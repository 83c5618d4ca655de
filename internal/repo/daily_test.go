package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-logbook-bot/internal/domain"
	"github.com/pkordes/rv-logbook-bot/internal/repo"
	"github.com/pkordes/rv-logbook-bot/testutil"
)

func newTestDailyRepo(t *testing.T) repo.DailyRecordRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewDailyRecordRepo(tx)
}

func TestDailyRecordRepo_Upsert_Insert(t *testing.T) {
	r := newTestDailyRepo(t)
	ctx := context.Background()
	loc := "Picos de Europa"

	got, err := r.Upsert(ctx, domain.DailyRecord{
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:   domain.StatusTravel,
		Location: &loc,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusTravel, got.Status)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Picos de Europa", *got.Location)
}

func TestDailyRecordRepo_Upsert_ReplacesSameDate(t *testing.T) {
	// One record per date: a second status for the same day replaces the
	// first instead of adding a row.
	r := newTestDailyRepo(t)
	ctx := context.Background()
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := r.Upsert(ctx, domain.DailyRecord{Date: day, Status: domain.StatusTravel})
	require.NoError(t, err)

	replaced, err := r.Upsert(ctx, domain.DailyRecord{Date: day, Status: domain.StatusParking})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusParking, replaced.Status)

	got, err := r.GetByDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusParking, got.Status)

	records, err := r.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestDailyRecordRepo_GetByDate_NotFound(t *testing.T) {
	r := newTestDailyRepo(t)

	_, err := r.GetByDate(context.Background(), time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDailyRecordRepo_CountByStatus(t *testing.T) {
	r := newTestDailyRepo(t)
	ctx := context.Background()

	days := []struct {
		date   time.Time
		status domain.VehicleStatus
	}{
		{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), domain.StatusTravel},
		{time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), domain.StatusTravel},
		{time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), domain.StatusParking},
	}
	for _, d := range days {
		_, err := r.Upsert(ctx, domain.DailyRecord{Date: d.date, Status: d.status})
		require.NoError(t, err)
	}

	counts, err := r.CountByStatus(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.StatusTravel])
	assert.Equal(t, 1, counts[domain.StatusParking])
	assert.Equal(t, 0, counts[domain.StatusVacationHome])
}

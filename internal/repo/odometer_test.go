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

func newTestOdometerRepo(t *testing.T) repo.OdometerRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewOdometerRepo(tx)
}

// addReadings inserts one reading per day starting 2024-06-01.
func addReadings(t *testing.T, r repo.OdometerRepo, kms ...int) {
	t.Helper()
	for i, km := range kms {
		_, err := r.Add(context.Background(), domain.OdometerRecord{
			Date:       time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC),
			Kilometers: km,
		})
		require.NoError(t, err, "add reading %d", km)
	}
}

func TestOdometerRepo_Latest(t *testing.T) {
	r := newTestOdometerRepo(t)

	addReadings(t, r, 45000, 45400, 46200)

	got, err := r.Latest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 46200, got.Kilometers)
}

func TestOdometerRepo_Latest_Empty(t *testing.T) {
	r := newTestOdometerRepo(t)

	_, err := r.Latest(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOdometerRepo_List_ComputesDiffs(t *testing.T) {
	r := newTestOdometerRepo(t)

	addReadings(t, r, 45000, 45400, 46200)

	got, err := r.List(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, got, 3)
	// newest first, each row carrying the delta to its predecessor
	assert.Equal(t, 46200, got[0].Kilometers)
	assert.Equal(t, 800, got[0].KmDiff)
	assert.Equal(t, 400, got[1].KmDiff)
	assert.Equal(t, 0, got[2].KmDiff, "the oldest reading has no predecessor")
}

func TestOdometerRepo_TotalKilometers(t *testing.T) {
	r := newTestOdometerRepo(t)
	ctx := context.Background()

	total, err := r.TotalKilometers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, total, "no readings yet")

	addReadings(t, r, 45000)
	total, err = r.TotalKilometers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, total, "a single reading covers no distance")

	addReadings(t, r, 46200)
	total, err = r.TotalKilometers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1200, total)
}

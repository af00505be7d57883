package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiawrai2609/commant-center/signal"
)

func testSignals() []signal.Signal {
	return []signal.Signal{
		{
			ID:           "a",
			Tier:         signal.TierCritical,
			Title:        "Major layoff",
			Summary:      "12,000 roles cut.",
			RPIType:      signal.RPIDirect,
			Angle:        signal.AngleJobLoss,
			RPIRelevance: 9,
			Source:       signal.SourceDailyScan,
			ScannedAt:    time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:      "b",
			Tier:    signal.TierMonitor,
			Title:   "Commentary piece",
			RPIType: signal.RPIIndirect,
			Angle:   signal.AngleAugmentation,
			Source:  signal.SourceTopicScan,
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	want := testSignals()

	require.NoError(t, s.SaveDay(ctx, "day:2026-08-31", want))

	got, err := s.LoadDay(ctx, "day:2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreOverwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.SaveDay(ctx, "day:2026-08-31", testSignals()))
	require.NoError(t, s.SaveDay(ctx, "day:2026-08-31", testSignals()[:1]))

	got, err := s.LoadDay(ctx, "day:2026-08-31")
	require.NoError(t, err)
	assert.Len(t, got, 1, "save overwrites the whole bucket, last write wins")
}

func TestFileStoreLoadMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.LoadDay(context.Background(), "day:2099-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDays(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.SaveDay(ctx, "day:2026-08-29", nil))
	require.NoError(t, s.SaveDay(ctx, "day:2026-08-31", nil))
	require.NoError(t, s.SaveDay(ctx, "day:2026-08-30", nil))

	days, err := s.Days(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"day:2026-08-31", "day:2026-08-30", "day:2026-08-29"}, days)
}

func TestFileStoreDeleteDay(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.SaveDay(ctx, "day:2026-08-31", testSignals()))
	require.NoError(t, s.DeleteDay(ctx, "day:2026-08-31"))

	_, err = s.LoadDay(ctx, "day:2026-08-31")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing day is not an error.
	assert.NoError(t, s.DeleteDay(ctx, "day:2026-08-31"))
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiawrai2609/commant-center/signal"
)

// failingStore simulates an unreachable backend.
type failingStore struct{}

func (failingStore) SaveDay(context.Context, string, []signal.Signal) error {
	return errors.New("connection refused")
}

func (failingStore) LoadDay(context.Context, string) ([]signal.Signal, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Days(context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) DeleteDay(context.Context, string) error {
	return errors.New("connection refused")
}

func TestResilientSwallowsFailures(t *testing.T) {
	r := NewResilient(failingStore{}, nil)
	ctx := context.Background()

	assert.NoError(t, r.SaveDay(ctx, "day:2026-08-31", testSignals()),
		"loss of durability must not abort the ingestion flow")

	got, err := r.LoadDay(ctx, "day:2026-08-31")
	assert.NoError(t, err)
	assert.Nil(t, got)

	days, err := r.Days(ctx)
	assert.NoError(t, err)
	assert.Empty(t, days)

	assert.NoError(t, r.DeleteDay(ctx, "day:2026-08-31"))
}

func TestResilientPassesThrough(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	r := NewResilient(fs, nil)
	ctx := context.Background()
	want := testSignals()

	require.NoError(t, r.SaveDay(ctx, "day:2026-08-31", want))

	got, err := r.LoadDay(ctx, "day:2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Missing days come back empty, not as an error.
	got, err = r.LoadDay(ctx, "day:2000-01-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

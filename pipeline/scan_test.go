package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiawrai2609/commant-center/signal"
	"github.com/mohiawrai2609/commant-center/store"
)

const scanResponse = `[{"tier":1,"title":"Major layoff","category":"Tech","geo":"US","rpiType":"Direct","summary":"12,000 cut.","rpiRelevance":9,"replaceabilityAngle":"JOB_LOSS"}]`

func newTestScanner(t *testing.T, relay Relay) *Scanner {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return NewScanner(relay, fs, WithScannerClock(func() time.Time { return fixed }))
}

func TestScannerDailyScan(t *testing.T) {
	relay := newFakeRelay()
	relay.responses["scanning"] = scanResponse

	s := newTestScanner(t, relay)
	batch, err := s.DailyScan(context.Background(), &Session{})
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "Major layoff", batch[0].Title)
	assert.Equal(t, signal.SourceDailyScan, batch[0].Source)

	// The scan request asked for freshness.
	calls := relay.recorded()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Search)
	assert.Contains(t, calls[0].Prompt, "Daily scan Monday 31 August 2026")

	// The batch was persisted to today's bucket.
	today, err := s.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "Major layoff", today[0].Title)
}

func TestScannerTopicScanPrepends(t *testing.T) {
	relay := newFakeRelay()
	relay.responses["scanning"] = scanResponse

	s := newTestScanner(t, relay)
	ctx := context.Background()

	_, err := s.DailyScan(ctx, &Session{})
	require.NoError(t, err)

	relay.responses["scanning"] = `[{"tier":2,"title":"Focused finding","category":"Retail","geo":"UK","rpiType":"Indirect","summary":"x.","replaceabilityAngle":"AUGMENTATION"}]`
	_, err = s.TopicScan(ctx, &Session{}, "retail automation")
	require.NoError(t, err)

	today, err := s.Today(ctx)
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, "Focused finding", today[0].Title, "newest batch goes to the front")
	assert.Equal(t, "Major layoff", today[1].Title)
}

func TestScannerIngestPaste(t *testing.T) {
	relay := newFakeRelay()
	relay.responses["scanning"] = scanResponse

	s := newTestScanner(t, relay)
	batch, err := s.IngestPaste(context.Background(), &Session{}, "Some pasted research notes.")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, signal.SourcePasted, batch[0].Source)

	calls := relay.recorded()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Search, "paste extraction needs no freshness")
	assert.Contains(t, calls[0].Prompt, "Some pasted research notes.")
}

func TestScannerParseFailureAborts(t *testing.T) {
	relay := newFakeRelay()
	relay.responses["scanning"] = "no structured output today"

	s := newTestScanner(t, relay)
	_, err := s.DailyScan(context.Background(), &Session{})
	require.Error(t, err, "unusable scan output is a critical failure")

	today, err := s.Today(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, today)
}

// brokenStore simulates an unreachable persistence backend.
type brokenStore struct{}

func (brokenStore) SaveDay(context.Context, string, []signal.Signal) error {
	return errors.New("connection refused")
}
func (brokenStore) LoadDay(context.Context, string) ([]signal.Signal, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) Days(context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) DeleteDay(context.Context, string) error {
	return errors.New("connection refused")
}

func TestScannerStoreFailureDoesNotAbort(t *testing.T) {
	relay := newFakeRelay()
	relay.responses["scanning"] = scanResponse

	s := NewScanner(relay, brokenStore{})
	batch, err := s.DailyScan(context.Background(), &Session{})
	require.NoError(t, err, "loss of durability must not abort ingestion")
	require.Len(t, batch, 1)
}

func TestScannerIngestURL(t *testing.T) {
	relay := newFakeRelay()
	relay.responses["scanning"] = scanResponse

	fetcher := fetcherFunc(func(_ context.Context, url string) (string, error) {
		assert.Equal(t, "https://example.com/story", url)
		return "Readable article body.", nil
	})

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	s := NewScanner(relay, fs, WithFetcher(fetcher))

	batch, err := s.IngestURL(context.Background(), &Session{}, "https://example.com/story")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, signal.SourceURL, batch[0].Source)

	calls := relay.recorded()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "Readable article body.")
}

type fetcherFunc func(ctx context.Context, url string) (string, error)

func (f fetcherFunc) FetchText(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

func TestScannerInputValidation(t *testing.T) {
	s := newTestScanner(t, newFakeRelay())
	ctx := context.Background()

	_, err := s.TopicScan(ctx, &Session{}, "")
	assert.Error(t, err)

	_, err = s.IngestPaste(ctx, &Session{}, "")
	assert.Error(t, err)

	_, err = s.IngestURL(ctx, &Session{}, "https://example.com")
	assert.Error(t, err, "no fetcher configured")
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mohiawrai2609/commant-center/model"
	"github.com/mohiawrai2609/commant-center/signal"
	"github.com/mohiawrai2609/commant-center/store"
)

// pasteLimit caps the pasted research text sent to the extraction prompt.
const pasteLimit = 8000

// Fetcher turns a URL into readable article text. Implemented by the source
// package; injected so scan logic stays network-free in tests.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Scanner runs the three ingestion paths. Every path parses a signal batch
// from model output, validates it, prepends it to today's list, and saves
// the day bucket. Parse failures abort the flow; save failures never do.
type Scanner struct {
	relay   Relay
	store   store.Store
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithScannerLogger sets the logger.
func WithScannerLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithScannerClock sets the time source used for day keys and timestamps.
func WithScannerClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) {
		s.now = now
	}
}

// WithFetcher sets the URL fetcher used by IngestURL.
func WithFetcher(f Fetcher) ScannerOption {
	return func(s *Scanner) {
		s.fetcher = f
	}
}

// NewScanner creates a Scanner over the given relay and day-bucket store.
func NewScanner(relay Relay, st store.Store, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		relay:  relay,
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DailyScan runs the eight standing queries and ingests the top signals of
// the past 48 hours.
func (s *Scanner) DailyScan(ctx context.Context, sess *Session) ([]signal.Signal, error) {
	prompt := fmt.Sprintf("Daily scan %s. All 8 queries. Top 5-7 signals past 48h. JSON array.",
		s.now().Format("Monday 2 January 2006"))
	return s.ingest(ctx, sess, newsSystemPrompt, prompt, true, signal.SourceDailyScan)
}

// TopicScan runs a focused scan on the caller's topic.
func (s *Scanner) TopicScan(ctx context.Context, sess *Session, topic string) ([]signal.Signal, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	prompt := fmt.Sprintf("Focus on: %s. 3-5 signals. %s.",
		topic, s.now().Format("Monday 2 January 2006"))
	return s.ingest(ctx, sess, newsSystemPrompt, prompt, true, signal.SourceTopicScan)
}

// IngestPaste extracts signals from pasted research text. No search flag;
// the material is already in hand.
func (s *Scanner) IngestPaste(ctx context.Context, sess *Session, text string) ([]signal.Signal, error) {
	if text == "" {
		return nil, fmt.Errorf("paste text is required")
	}
	prompt := "Extract:\n\n" + truncate(text, pasteLimit)
	return s.ingest(ctx, sess, pasteSystemPrompt, prompt, false, signal.SourcePasted)
}

// IngestURL fetches a page, extracts its readable text, and runs the paste
// extraction over it.
func (s *Scanner) IngestURL(ctx context.Context, sess *Session, url string) ([]signal.Signal, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}
	text, err := s.fetcher.FetchText(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	prompt := "Extract:\n\n" + truncate(text, pasteLimit)
	return s.ingest(ctx, sess, pasteSystemPrompt, prompt, false, signal.SourceURL)
}

func (s *Scanner) ingest(ctx context.Context, sess *Session, system, prompt string, search bool, src signal.Source) ([]signal.Signal, error) {
	ctx, cancel := context.WithTimeout(ctx, PhaseTimeout)
	defer cancel()

	text, err := s.relay.Ask(ctx, string(model.CapabilityScanning), system, prompt, search, sess.Credential)
	if err != nil {
		return nil, fmt.Errorf("scan relay call: %w", err)
	}

	now := s.now()
	batch, err := signal.Parse(text, src, now)
	if err != nil {
		// Ingestion is a critical flow: unusable model output surfaces to
		// the caller with a retry action, unlike store failures below.
		return nil, fmt.Errorf("parse scan output: %w", err)
	}

	s.persist(ctx, batch, now)

	s.logger.Info("Ingested signal batch",
		"source", src,
		"count", len(batch))
	return batch, nil
}

// persist appends the batch to today's bucket, most recent first. The store
// is resilient: a failed save logs and moves on.
func (s *Scanner) persist(ctx context.Context, batch []signal.Signal, now time.Time) {
	key := signal.DayKey(now)
	existing, err := s.store.LoadDay(ctx, key)
	if err != nil {
		s.logger.Warn("Could not load existing day bucket before save", "day", key, "error", err)
	}
	if err := s.store.SaveDay(ctx, key, signal.Prepend(existing, batch)); err != nil {
		s.logger.Warn("Could not save day bucket", "day", key, "error", err)
	}
}

// Today returns the current day's signal list.
func (s *Scanner) Today(ctx context.Context) ([]signal.Signal, error) {
	return s.store.LoadDay(ctx, signal.DayKey(s.now()))
}

// Archive lists all persisted day keys, most recent first.
func (s *Scanner) Archive(ctx context.Context) ([]string, error) {
	return s.store.Days(ctx)
}

// Day returns the signal list for a specific archived day key.
func (s *Scanner) Day(ctx context.Context, dayKey string) ([]signal.Signal, error) {
	return s.store.LoadDay(ctx, dayKey)
}

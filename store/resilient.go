package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mohiawrai2609/commant-center/signal"
)

// Resilient wraps a Store so that persistence failures degrade instead of
// aborting the caller's flow. Loss of durability is preferable to loss of
// in-session functionality: saves swallow errors, loads fall back to empty.
type Resilient struct {
	inner  Store
	logger *slog.Logger
}

// NewResilient wraps the given store.
func NewResilient(inner Store, logger *slog.Logger) *Resilient {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resilient{inner: inner, logger: logger}
}

// SaveDay attempts the save and swallows any failure.
func (r *Resilient) SaveDay(ctx context.Context, dayKey string, signals []signal.Signal) error {
	if err := r.inner.SaveDay(ctx, dayKey, signals); err != nil {
		r.logger.Warn("Day bucket save failed, continuing without durability",
			"day", dayKey,
			"signals", len(signals),
			"error", err)
	}
	return nil
}

// LoadDay returns the stored list, or nil when the bucket is missing or the
// store is unreachable.
func (r *Resilient) LoadDay(ctx context.Context, dayKey string) ([]signal.Signal, error) {
	signals, err := r.inner.LoadDay(ctx, dayKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("Day bucket load failed, treating as empty",
				"day", dayKey,
				"error", err)
		}
		return nil, nil
	}
	return signals, nil
}

// Days returns the listed keys, or an empty list when the store is
// unreachable.
func (r *Resilient) Days(ctx context.Context) ([]string, error) {
	days, err := r.inner.Days(ctx)
	if err != nil {
		r.logger.Warn("Day listing failed, treating as empty", "error", err)
		return nil, nil
	}
	return days, nil
}

// DeleteDay attempts the delete and swallows any failure.
func (r *Resilient) DeleteDay(ctx context.Context, dayKey string) error {
	if err := r.inner.DeleteDay(ctx, dayKey); err != nil {
		r.logger.Warn("Day bucket delete failed", "day", dayKey, "error", err)
	}
	return nil
}

// Package store persists day buckets: ordered signal lists keyed by calendar
// date. Two implementations exist, a durable NATS JetStream KV store and a
// local file store, selected once at startup.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/mohiawrai2609/commant-center/signal"
)

// Common store errors.
var (
	// ErrNotFound is returned when no bucket exists for the requested day.
	ErrNotFound = errors.New("day bucket not found")

	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the day-bucket persistence capability. Saves overwrite the whole
// day's list; callers append in memory before saving, last write wins.
type Store interface {
	// SaveDay overwrites the signal list for the given day key.
	SaveDay(ctx context.Context, dayKey string, signals []signal.Signal) error

	// LoadDay returns the signal list for the given day key.
	// Returns ErrNotFound if the day has never been saved.
	LoadDay(ctx context.Context, dayKey string) ([]signal.Signal, error)

	// Days lists all persisted day keys, most recent first.
	Days(ctx context.Context) ([]string, error)

	// DeleteDay removes the bucket for the given day key.
	DeleteDay(ctx context.Context, dayKey string) error
}

// dayKeyPrefix namespaces bucket keys. Backends strip it for their native
// key format and restore it when listing.
const dayKeyPrefix = "day:"

func stripDayPrefix(key string) string {
	return strings.TrimPrefix(key, dayKeyPrefix)
}

func addDayPrefix(date string) string {
	if strings.HasPrefix(date, dayKeyPrefix) {
		return date
	}
	return dayKeyPrefix + date
}

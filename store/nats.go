package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mohiawrai2609/commant-center/signal"
)

// BucketSignals is the KV bucket holding day buckets.
const BucketSignals = "COMMANT_SIGNALS"

// NATSStore is the durable day-bucket store backed by a JetStream KV bucket.
type NATSStore struct {
	nc *nats.Conn
	kv jetstream.KeyValue
}

// NewNATSStore connects to the given NATS URL and opens the signals bucket,
// creating it if needed.
func NewNATSStore(ctx context.Context, url string) (*NATSStore, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	kv, err := getOrCreateBucket(ctx, js, BucketSignals)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open signals bucket: %w", err)
	}

	return &NATSStore{nc: nc, kv: kv}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Day buckets of classified workforce signals",
		History:     5, // Keep last 5 revisions
	})
}

// SaveDay overwrites the day's signal list.
func (s *NATSStore) SaveDay(ctx context.Context, dayKey string, signals []signal.Signal) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return fmt.Errorf("marshal day bucket: %w", err)
	}

	if _, err := s.kv.Put(ctx, stripDayPrefix(dayKey), data); err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrUnavailable, dayKey, err)
	}
	return nil
}

// LoadDay returns the day's signal list.
func (s *NATSStore) LoadDay(ctx context.Context, dayKey string) ([]signal.Signal, error) {
	entry, err := s.kv.Get(ctx, stripDayPrefix(dayKey))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get %s: %v", ErrUnavailable, dayKey, err)
	}

	var signals []signal.Signal
	if err := json.Unmarshal(entry.Value(), &signals); err != nil {
		return nil, fmt.Errorf("unmarshal day bucket %s: %w", dayKey, err)
	}
	return signals, nil
}

// Days lists all persisted day keys, most recent first.
func (s *NATSStore) Days(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list keys: %v", ErrUnavailable, err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	days := make([]string, len(keys))
	for i, k := range keys {
		days[i] = addDayPrefix(k)
	}
	return days, nil
}

// DeleteDay removes the day's bucket.
func (s *NATSStore) DeleteDay(ctx context.Context, dayKey string) error {
	if err := s.kv.Delete(ctx, stripDayPrefix(dayKey)); err != nil && !isNotFound(err) {
		return fmt.Errorf("%w: delete %s: %v", ErrUnavailable, dayKey, err)
	}
	return nil
}

// Close drains the NATS connection.
func (s *NATSStore) Close() {
	s.nc.Close()
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) ||
		errors.Is(err, jetstream.ErrNoKeysFound)
}

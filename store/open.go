package store

import (
	"context"
	"log/slog"
)

// Open selects the day-bucket backend once at startup. A configured NATS URL
// gets the durable KV store; otherwise, or when the connection fails, the
// local file store takes over. Either way the result is wrapped so store
// failures never abort an ingestion flow.
func Open(ctx context.Context, natsURL, dataDir string, logger *slog.Logger) (Store, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	if natsURL != "" {
		ns, err := NewNATSStore(ctx, natsURL)
		if err == nil {
			logger.Info("Using NATS day-bucket store", "url", natsURL, "bucket", BucketSignals)
			return NewResilient(ns, logger), ns.Close, nil
		}
		logger.Warn("NATS store unavailable, falling back to local files",
			"url", natsURL,
			"error", err)
	}

	fs, err := NewFileStore(dataDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using local day-bucket store", "dir", dataDir)
	return NewResilient(fs, logger), func() {}, nil
}

package signal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mohiawrai2609/commant-center/llm"
)

// Parse extracts a signal batch from raw model output. The model is asked
// for a bare JSON array but routinely wraps it in prose or fences; the
// depth-aware extractor handles that. Every parsed signal is normalized and
// stamped before return, so callers only ever see valid records.
func Parse(text string, source Source, now time.Time) ([]Signal, error) {
	raw, err := llm.ExtractJSONArray(text)
	if err != nil {
		return nil, fmt.Errorf("extract signal array: %w", err)
	}

	var signals []Signal
	if err := json.Unmarshal(raw, &signals); err != nil {
		return nil, fmt.Errorf("decode signal array: %w", err)
	}

	for i := range signals {
		signals[i].Normalize()
		signals[i].Stamp(source, now)
	}
	return signals, nil
}

// Prepend adds a freshly ingested batch to the front of an existing day list,
// most recent first.
func Prepend(existing, batch []Signal) []Signal {
	merged := make([]Signal, 0, len(existing)+len(batch))
	merged = append(merged, batch...)
	merged = append(merged, existing...)
	return merged
}

package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Signal
		want Signal
	}{
		{
			name: "valid signal untouched",
			in:   Signal{Tier: 2, RPIRelevance: 7, RPIType: RPIDirect, Angle: AngleAugmentation},
			want: Signal{Tier: 2, RPIRelevance: 7, RPIType: RPIDirect, Angle: AngleAugmentation},
		},
		{
			name: "tier below range clamped to critical",
			in:   Signal{Tier: 0, RPIType: RPIDirect, Angle: AngleJobLoss},
			want: Signal{Tier: 1, RPIType: RPIDirect, Angle: AngleJobLoss},
		},
		{
			name: "tier above range clamped to monitor",
			in:   Signal{Tier: 9, RPIType: RPIDirect, Angle: AngleJobLoss},
			want: Signal{Tier: 3, RPIType: RPIDirect, Angle: AngleJobLoss},
		},
		{
			name: "relevance clamped into band",
			in:   Signal{Tier: 1, RPIRelevance: 42, RPIType: RPIDirect, Angle: AngleJobLoss},
			want: Signal{Tier: 1, RPIRelevance: 10, RPIType: RPIDirect, Angle: AngleJobLoss},
		},
		{
			name: "zero relevance stays unset",
			in:   Signal{Tier: 1, RPIRelevance: 0, RPIType: RPIDirect, Angle: AngleJobLoss},
			want: Signal{Tier: 1, RPIRelevance: 0, RPIType: RPIDirect, Angle: AngleJobLoss},
		},
		{
			name: "unknown enums default",
			in:   Signal{Tier: 1, RPIType: "sideways", Angle: "PIVOT"},
			want: Signal{Tier: 1, RPIType: RPIIndirect, Angle: AngleJobLoss},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Normalize()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTierLabelsAndColors(t *testing.T) {
	assert.Equal(t, "Critical", TierCritical.Label())
	assert.Equal(t, "Significant", TierSignificant.Label())
	assert.Equal(t, "Monitor", TierMonitor.Label())
	assert.Equal(t, "Signal", Tier(7).Label())

	assert.Equal(t, "#c41e3a", TierCritical.Color())
	assert.Equal(t, "#0d9488", TierMonitor.Color())
}

func TestParse(t *testing.T) {
	text := "Here are today's findings:\n```json\n[" +
		`{"tier":1,"title":"Major layoff","category":"Tech","geo":"US","rpiType":"Direct","summary":"12,000 roles cut.","rpiRelevance":9,"replaceabilityAngle":"JOB_LOSS"},` +
		`{"tier":8,"title":"Commentary piece","category":"Opinion","geo":"UK","rpiType":"unknown","summary":"A take.","rpiRelevance":0,"replaceabilityAngle":"MYSTERY"}` +
		"]\n```"

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	signals, err := Parse(text, SourceDailyScan, now)
	require.NoError(t, err)
	require.Len(t, signals, 2)

	assert.Equal(t, TierCritical, signals[0].Tier)
	assert.Equal(t, "Major layoff", signals[0].Title)
	assert.Equal(t, SourceDailyScan, signals[0].Source)
	assert.Equal(t, now, signals[0].ScannedAt)
	assert.NotEmpty(t, signals[0].ID)

	// Second record came in malformed and was coerced.
	assert.Equal(t, TierMonitor, signals[1].Tier)
	assert.Equal(t, RPIIndirect, signals[1].RPIType)
	assert.Equal(t, AngleJobLoss, signals[1].Angle)
	assert.NotEqual(t, signals[0].ID, signals[1].ID)
}

func TestSourceSerializedValues(t *testing.T) {
	// The provenance value lands in durable day buckets; the archive format
	// depends on these exact strings.
	assert.Equal(t, "daily-scan", string(SourceDailyScan))
	assert.Equal(t, "topic-scan", string(SourceTopicScan))
	assert.Equal(t, "pasted", string(SourcePasted))
	assert.Equal(t, "url-ingest", string(SourceURL))

	signals, err := Parse(`[{"tier":2,"title":"Pasted brief","category":"Tech","geo":"US","rpiType":"Direct","summary":"s","rpiRelevance":5,"replaceabilityAngle":"JOB_LOSS"}]`,
		SourcePasted, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, signals, 1)

	data, err := json.Marshal(signals[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source":"pasted"`)
}

func TestParseNoArray(t *testing.T) {
	_, err := Parse("no structured output produced", SourceTopicScan, time.Now())
	require.Error(t, err)
}

func TestPrepend(t *testing.T) {
	existing := []Signal{{Title: "old"}}
	batch := []Signal{{Title: "new-a"}, {Title: "new-b"}}

	merged := Prepend(existing, batch)
	require.Len(t, merged, 3)
	assert.Equal(t, "new-a", merged[0].Title)
	assert.Equal(t, "new-b", merged[1].Title)
	assert.Equal(t, "old", merged[2].Title)
}

func TestDayKey(t *testing.T) {
	ts := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "day:2026-08-31", DayKey(ts))
}

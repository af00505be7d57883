// Package signal defines the classified workforce-automation event record
// and the validation applied to every ingestion path.
package signal

import (
	"time"

	"github.com/google/uuid"
)

// Tier classifies signal severity.
type Tier int

const (
	// TierCritical covers major layoffs over 1000 jobs, Fortune 500 workforce
	// decisions, government policy, or executive statements with numbers.
	TierCritical Tier = 1
	// TierSignificant covers 100-1000 job impacts and industry trends with data.
	TierSignificant Tier = 2
	// TierMonitor covers under 100 jobs, commentary, and unsourced predictions.
	TierMonitor Tier = 3
)

// Label returns the display name for the tier.
func (t Tier) Label() string {
	switch t {
	case TierCritical:
		return "Critical"
	case TierSignificant:
		return "Significant"
	case TierMonitor:
		return "Monitor"
	default:
		return "Signal"
	}
}

// Color returns the display hex color for the tier.
func (t Tier) Color() string {
	switch t {
	case TierCritical:
		return "#c41e3a"
	case TierSignificant:
		return "#d4940a"
	case TierMonitor:
		return "#0d9488"
	default:
		return "#6b6b6b"
	}
}

// IsValid reports whether the tier is one of the three defined levels.
func (t Tier) IsValid() bool {
	return t >= TierCritical && t <= TierMonitor
}

// RPIType distinguishes direct workforce displacement from indirect effects.
type RPIType string

const (
	RPIDirect   RPIType = "Direct"
	RPIIndirect RPIType = "Indirect"
)

// Angle categorizes how the event bears on replaceability.
type Angle string

const (
	AngleJobLoss      Angle = "JOB_LOSS"
	AngleAugmentation Angle = "AUGMENTATION"
	AngleNewRoles     Angle = "NEW_ROLES"
	AngleHiringFreeze Angle = "HIRING_FREEZE"
)

// Source identifies the ingestion path that produced a signal.
type Source string

const (
	SourceDailyScan Source = "daily-scan"
	SourceTopicScan Source = "topic-scan"
	SourcePasted    Source = "pasted"
	SourceURL       Source = "url-ingest"
)

// Signal is one classified workforce-automation news event. The JSON field
// names match the wire contract the classification prompt demands.
type Signal struct {
	ID            string   `json:"id,omitempty"`
	Tier          Tier     `json:"tier"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Geo           string   `json:"geo"`
	RPIType       RPIType  `json:"rpiType"`
	Summary       string   `json:"summary"`
	AffectedRoles []string `json:"affectedRoles,omitempty"`
	Companies     []string `json:"companies,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Angle         Angle    `json:"replaceabilityAngle"`
	RPIRelevance  int      `json:"rpiRelevance"`
	ReportFlag    bool     `json:"reportRecommend"`
	Quote         string   `json:"quote,omitempty"`
	QuoteAttr     string   `json:"quoteAttr,omitempty"`
	TargetProfile string   `json:"targetProfile,omitempty"`

	Source    Source    `json:"source,omitempty"`
	ScannedAt time.Time `json:"scannedAt,omitempty"`
}

// Normalize validates and coerces model-produced fields in place. Upstream
// model output is external data and is never trusted verbatim: the tier is
// clamped into the defined range, the relevance score into [1,10], and
// unknown enum values fall back to their defaults.
func (s *Signal) Normalize() {
	if s.Tier < TierCritical {
		s.Tier = TierCritical
	} else if s.Tier > TierMonitor {
		s.Tier = TierMonitor
	}

	// Zero means the model omitted the score; that stays distinguishable
	// from a real rating.
	if s.RPIRelevance != 0 {
		if s.RPIRelevance < 1 {
			s.RPIRelevance = 1
		} else if s.RPIRelevance > 10 {
			s.RPIRelevance = 10
		}
	}

	switch s.RPIType {
	case RPIDirect, RPIIndirect:
	default:
		s.RPIType = RPIIndirect
	}

	switch s.Angle {
	case AngleJobLoss, AngleAugmentation, AngleNewRoles, AngleHiringFreeze:
	default:
		s.Angle = AngleJobLoss
	}
}

// Stamp assigns ingestion metadata to a freshly parsed signal.
func (s *Signal) Stamp(source Source, now time.Time) {
	s.ID = uuid.New().String()
	s.Source = source
	s.ScannedAt = now.UTC()
}

// DayKey formats the bucket key for the given time.
func DayKey(t time.Time) string {
	return "day:" + t.UTC().Format("2006-01-02")
}

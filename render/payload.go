// Package render turns a signal plus generated editorial content into the
// published article document. Rendering is deterministic: the same inputs
// and report date always produce the same bytes.
package render

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mohiawrai2609/commant-center/llm"
)

// Metric is one headline statistic shown in the hero band.
type Metric struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TaskExposure is one task-level exposure bar inside a role card.
type TaskExposure struct {
	Name     string  `json:"name"`
	Exposure FlexInt `json:"exposure"`
}

// RoleImpact is one role-by-role analysis card in the paid section.
type RoleImpact struct {
	Role   string         `json:"role"`
	Score  FlexInt        `json:"score"`
	Impact string         `json:"impact"`
	Action string         `json:"action,omitempty"`
	Tasks  []TaskExposure `json:"tasks,omitempty"`
}

// SectorImpact is one row of the sector exposure map.
type SectorImpact struct {
	Name     string `json:"name"`
	Exposure string `json:"exposure"`
}

// PaidPayload is the subscriber-intelligence section: either structured
// records or, when structure extraction failed, the raw model text.
type PaidPayload struct {
	Roles   []RoleImpact   `json:"roles,omitempty"`
	Sectors []SectorImpact `json:"sectors,omitempty"`
	Actions []string       `json:"actions,omitempty"`
	Raw     string         `json:"-"`
}

// IsStructured reports whether any structured records are present.
func (p PaidPayload) IsStructured() bool {
	return len(p.Roles) > 0 || len(p.Sectors) > 0 || len(p.Actions) > 0
}

// FlexInt is an integer that models sometimes emit as a quoted string or a
// float. Unparseable values decode to zero rather than failing the payload.
type FlexInt int

// UnmarshalJSON accepts numbers, numeric strings, and junk (as zero).
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(fl))
		return nil
	}
	*f = 0
	return nil
}

// ParsePaid extracts the structured paid payload from model output. The paid
// phase is non-critical: when no structure parses, the raw text is carried
// instead so the article still renders.
func ParsePaid(text string) PaidPayload {
	var p PaidPayload
	if err := llm.ExtractInto(text, &p); err == nil && p.IsStructured() {
		return p
	}
	return PaidPayload{Raw: text}
}

// ParseMetrics extracts the hero metric list from model output, capped at
// four entries. Metrics are non-critical: any failure yields an empty list.
func ParseMetrics(text string) []Metric {
	raw, err := llm.ExtractJSONArray(text)
	if err != nil {
		return nil
	}
	var metrics []Metric
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil
	}
	if len(metrics) > 4 {
		metrics = metrics[:4]
	}
	return metrics
}

// Package model provides capability-based model selection for pipeline phases.
// Instead of hardcoding model names, callers specify capabilities (scanning,
// research, writing) and the registry resolves them to candidate models with
// fallback chains.
package model

// Capability represents a semantic capability for model selection.
// Instead of specifying "claude-sonnet", callers specify "writing" or "scanning".
type Capability string

const (
	// CapabilityScanning is for news scanning and tiered signal classification.
	CapabilityScanning Capability = "scanning"

	// CapabilityResearch is for freshness-anchored research briefs.
	CapabilityResearch Capability = "research"

	// CapabilityWriting is for editorial prose, social posts, outreach messages.
	CapabilityWriting Capability = "writing"

	// CapabilityIntelligence is for structured role/sector impact payloads.
	CapabilityIntelligence Capability = "intelligence"

	// CapabilityFast is for quick cosmetic tasks such as key-metric extraction.
	CapabilityFast Capability = "fast"
)

// PhaseCapabilities maps article pipeline phases to their default capability.
var PhaseCapabilities = map[string]Capability{
	"metrics":  CapabilityFast,
	"research": CapabilityResearch,
	"free":     CapabilityWriting,
	"paid":     CapabilityIntelligence,
}

// CapabilityForPhase returns the default capability for a pipeline phase.
// Returns CapabilityWriting as fallback for unknown phases.
func CapabilityForPhase(phase string) Capability {
	if c, ok := PhaseCapabilities[phase]; ok {
		return c
	}
	return CapabilityWriting
}

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityScanning, CapabilityResearch, CapabilityWriting, CapabilityIntelligence, CapabilityFast:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for invalid values.
func ParseCapability(s string) Capability {
	c := Capability(s)
	if c.IsValid() {
		return c
	}
	return ""
}

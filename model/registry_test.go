package model

import (
	"testing"
	"time"
)

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	caps := r.ListCapabilities()
	if len(caps) != 5 {
		t.Errorf("expected 5 capabilities, got %d", len(caps))
	}

	endpoints := r.ListEndpoints()
	if len(endpoints) < 5 {
		t.Errorf("expected at least 5 endpoints, got %d", len(endpoints))
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		capability Capability
		expected   string
	}{
		{CapabilityScanning, "llama-8b-free"},
		{CapabilityResearch, "claude-sonnet"},
		{CapabilityWriting, "claude-sonnet"},
		{CapabilityIntelligence, "claude-sonnet"},
		{CapabilityFast, "llama-8b-free"},
		{Capability("unknown"), "llama-8b-free"}, // Falls back to default
	}

	for _, tt := range tests {
		t.Run(string(tt.capability), func(t *testing.T) {
			got := r.Resolve(tt.capability)
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.capability, got, tt.expected)
			}
		})
	}
}

func TestRegistryGetFallbackChain(t *testing.T) {
	r := NewDefaultRegistry()

	chain := r.GetFallbackChain(CapabilityWriting)

	if len(chain) != 5 {
		t.Fatalf("expected 5 models in chain, got %d", len(chain))
	}
	if chain[0] != "claude-sonnet" {
		t.Errorf("expected claude-sonnet first, got %q", chain[0])
	}
	if chain[1] != "llama-8b-free" {
		t.Errorf("expected llama-8b-free second, got %q", chain[1])
	}
}

func TestRegistryGetFallbackChainUnknownCapability(t *testing.T) {
	r := NewDefaultRegistry()

	chain := r.GetFallbackChain(Capability("nonsense"))
	if len(chain) != 1 || chain[0] != "llama-8b-free" {
		t.Errorf("expected default-only chain, got %v", chain)
	}
}

func TestRegistryGetEndpoint(t *testing.T) {
	r := NewDefaultRegistry()

	ep := r.GetEndpoint("claude-sonnet")
	if ep == nil {
		t.Fatal("expected endpoint for claude-sonnet")
	}
	if ep.Provider != "anthropic" {
		t.Errorf("expected provider anthropic, got %q", ep.Provider)
	}

	if r.GetEndpoint("missing") != nil {
		t.Error("expected nil for unknown endpoint")
	}
}

func TestCircuitBreaker(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  50 * time.Millisecond,
	})

	name := "llama-8b-free"

	if !r.IsEndpointAvailable(name) {
		t.Fatal("endpoint should start available")
	}

	r.MarkEndpointFailure(name)
	if !r.IsEndpointAvailable(name) {
		t.Error("one failure should not open the circuit")
	}

	r.MarkEndpointFailure(name)
	if r.IsEndpointAvailable(name) {
		t.Error("circuit should be open after threshold failures")
	}

	// After the recovery timeout a probe is allowed (half-open).
	time.Sleep(60 * time.Millisecond)
	if !r.IsEndpointAvailable(name) {
		t.Error("endpoint should allow a probe after recovery timeout")
	}

	r.MarkEndpointSuccess(name)
	health := r.GetEndpointHealth(name)
	if health == nil || health.CircuitOpen || health.FailureCount != 0 {
		t.Errorf("success should reset health, got %+v", health)
	}
}

func TestGetAvailableFallbackChainFiltersOpenCircuits(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
	})

	r.MarkEndpointFailure("llama-8b-free")

	chain := r.GetAvailableFallbackChain(CapabilityScanning)
	for _, name := range chain {
		if name == "llama-8b-free" {
			t.Error("open-circuit endpoint should be filtered from the chain")
		}
	}
	if len(chain) != 3 {
		t.Errorf("expected 3 available endpoints, got %d", len(chain))
	}
}

func TestGetAvailableFallbackChainAllDownReturnsFullChain(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
	})

	for _, name := range r.GetFallbackChain(CapabilityScanning) {
		r.MarkEndpointFailure(name)
	}

	chain := r.GetAvailableFallbackChain(CapabilityScanning)
	if len(chain) != 4 {
		t.Errorf("expected full chain when everything is down, got %d", len(chain))
	}
}

func TestRegistryConfigRoundTrip(t *testing.T) {
	r := NewDefaultRegistry()

	cfg := r.ToConfig()
	restored := RegistryFromConfig(cfg)

	if restored.Resolve(CapabilityWriting) != r.Resolve(CapabilityWriting) {
		t.Error("round-tripped registry resolves differently")
	}
	if len(restored.ListEndpoints()) != len(r.ListEndpoints()) {
		t.Error("round-tripped registry lost endpoints")
	}
}

func TestParseCapability(t *testing.T) {
	if ParseCapability("scanning") != CapabilityScanning {
		t.Error("expected scanning to parse")
	}
	if ParseCapability("bogus") != "" {
		t.Error("expected empty for unknown capability")
	}
}

func TestCapabilityForPhase(t *testing.T) {
	if CapabilityForPhase("research") != CapabilityResearch {
		t.Error("research phase should map to research capability")
	}
	if CapabilityForPhase("unknown") != CapabilityWriting {
		t.Error("unknown phase should default to writing")
	}
}

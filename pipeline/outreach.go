package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mohiawrai2609/commant-center/llm"
	"github.com/mohiawrai2609/commant-center/model"
	"github.com/mohiawrai2609/commant-center/signal"
)

// pseudoContactTextLimit caps the raw text carried by the fallback contact.
const pseudoContactTextLimit = 500

// Discoverer is the tool-assisted search surface the outreach pipeline
// depends on.
type Discoverer interface {
	Discover(ctx context.Context, system, prompt, callerKey string) (*llm.DiscoveryResult, error)
}

// Outreach runs the two-step targeting flow: contact discovery, then
// per-contact message drafting. It shares the relay with the article
// pipeline but is otherwise independent of it.
type Outreach struct {
	discovery Discoverer
	relay     Relay
	logger    *slog.Logger
}

// NewOutreach creates the outreach pipeline.
func NewOutreach(discovery Discoverer, relay Relay, logger *slog.Logger) *Outreach {
	if logger == nil {
		logger = slog.Default()
	}
	return &Outreach{discovery: discovery, relay: relay, logger: logger}
}

// FindContacts discovers outreach targets for a signal. After a successful
// call that yields no structured contacts, the free text comes back as a
// single synthetic "AI Response" pseudo-contact so the caller never sees a
// hard empty state.
func (o *Outreach) FindContacts(ctx context.Context, sess *Session, sig signal.Signal) ([]llm.Contact, error) {
	profile := sig.TargetProfile
	if profile == "" {
		profile = "CHROs and workforce planning leaders at affected companies"
	}
	prompt := fmt.Sprintf("Find 5-10 senior contacts for targeting based on this signal: %q. Target profile: %s. Search the most relevant companies mentioned.",
		sig.Title, profile)

	result, err := o.discovery.Discover(ctx, DiscoverySystemPrompt, prompt, sess.Credential)
	if err != nil {
		return nil, err
	}

	if len(result.Contacts) > 0 {
		return result.Contacts, nil
	}

	o.logger.Info("Discovery returned no structured contacts, degrading to text",
		"signal", sig.Title)
	return []llm.Contact{{
		Name:    "AI Response",
		Title:   truncate(strings.Join(result.Texts, "\n"), pseudoContactTextLimit),
		Company: "See details",
	}}, nil
}

// DraftMessage writes one outreach message for a contact. Independent and
// idempotent: re-running replaces the prior draft for that contact.
func (o *Outreach) DraftMessage(ctx context.Context, sess *Session, contact llm.Contact, sig signal.Signal) (string, error) {
	prompt := fmt.Sprintf("Signal: %q\nSummary: %s\nContact: %s, %s at %s",
		sig.Title, sig.Summary, contact.Name, contact.Title, contact.Company)

	ctx, cancel := context.WithTimeout(ctx, PhaseTimeout)
	defer cancel()
	return o.relay.Ask(ctx, string(model.CapabilityIntelligence), outreachSystemPrompt, prompt, false, sess.Credential)
}

// DraftPost writes the founder-voice LinkedIn post for a signal.
func (o *Outreach) DraftPost(ctx context.Context, sess *Session, sig signal.Signal) (string, error) {
	quote := sig.Quote
	if quote == "" {
		quote = "none"
	}
	prompt := fmt.Sprintf("Signal: %s\nSummary: %s\nQuote: %s", sig.Title, sig.Summary, quote)

	ctx, cancel := context.WithTimeout(ctx, PhaseTimeout)
	defer cancel()
	return o.relay.Ask(ctx, string(model.CapabilityWriting), linkedinSystemPrompt, prompt, false, sess.Credential)
}

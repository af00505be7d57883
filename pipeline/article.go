// Package pipeline sequences the relay calls that turn signals into
// articles, social posts, and outreach lists. Each pipeline instance runs
// its phases strictly in order; the prompt for every phase depends on the
// previous phase's output.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mohiawrai2609/commant-center/llm"
	"github.com/mohiawrai2609/commant-center/model"
	"github.com/mohiawrai2609/commant-center/render"
	"github.com/mohiawrai2609/commant-center/signal"
)

// Phase identifies where an article generation run currently is.
type Phase string

const (
	PhaseMetrics  Phase = "metrics"
	PhaseResearch Phase = "research"
	PhaseFree     Phase = "free"
	PhasePaid     Phase = "paid"
	PhaseDone     Phase = "done"
	PhaseError    Phase = "error"
)

// PhaseTimeout bounds each phase's relay call.
const PhaseTimeout = 120 * time.Second

// Status is one progress report emitted while a run is in flight.
type Status struct {
	Phase   Phase
	Elapsed time.Duration
}

// Session carries the per-invocation caller state. Pipelines read nothing
// from ambient scope; everything request-specific arrives here.
type Session struct {
	// Credential is an optional caller-supplied API key, overridden by
	// server-held credentials during resolution.
	Credential string
}

// Relay is the completion surface pipelines depend on.
type Relay interface {
	Ask(ctx context.Context, capability, system, prompt string, search bool, credential string) (string, error)
}

// Article is the finished output of one generation run.
type Article struct {
	Signal signal.Signal
	// Research is the raw phase-1 brief. It never renders but is kept so a
	// run can be audited or replayed from its intermediates.
	Research    string
	Free        string
	Paid        render.PaidPayload
	Metrics     []render.Metric
	HTML        string
	GeneratedAt time.Time
	Duration    time.Duration
}

// Generator runs the four-phase article pipeline:
// metrics -> research -> free editorial -> paid intelligence.
type Generator struct {
	relay    Relay
	logger   *slog.Logger
	now      func() time.Time
	onStatus func(Status)
	tick     time.Duration
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithStatusFunc registers a progress callback. It is invoked on every phase
// transition and once a second while a phase is in flight.
func WithStatusFunc(fn func(Status)) GeneratorOption {
	return func(g *Generator) {
		g.onStatus = fn
	}
}

// WithGeneratorClock sets the time source.
func WithGeneratorClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates an article generator on top of the given relay.
func NewGenerator(relay Relay, opts ...GeneratorOption) *Generator {
	g := &Generator{
		relay:  relay,
		logger: slog.Default(),
		now:    time.Now,
		tick:   time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes one full generation. The metrics phase is non-critical and
// degrades to an empty list; research and free failures abort the run; a
// paid phase whose output will not parse degrades to raw text.
func (g *Generator) Run(ctx context.Context, sess *Session, sig signal.Signal) (*Article, error) {
	start := g.now()

	var mu sync.Mutex
	current := PhaseMetrics
	setPhase := func(p Phase) {
		mu.Lock()
		current = p
		mu.Unlock()
		g.emit(Status{Phase: p, Elapsed: time.Since(start)})
	}

	stop := make(chan struct{})
	defer close(stop)
	if g.onStatus != nil {
		go func() {
			ticker := time.NewTicker(g.tick)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					mu.Lock()
					p := current
					mu.Unlock()
					g.emit(Status{Phase: p, Elapsed: time.Since(start)})
				}
			}
		}()
	}

	// Phase 0: hero metrics. Best effort.
	setPhase(PhaseMetrics)
	metrics := g.runMetrics(ctx, sess, sig)

	// Phase 1: research brief, with freshness anchoring.
	setPhase(PhaseResearch)
	research, err := g.phaseCall(ctx, sess, model.CapabilityResearch, researchSystemPrompt,
		fmt.Sprintf("Research this signal deeply:\n\nTitle: %s\nSummary: %s\nCompanies: %s\nCategory: %s\nGeo: %s",
			sig.Title, sig.Summary, strings.Join(sig.Companies, ", "), sig.Category, sig.Geo),
		true)
	if err != nil {
		setPhase(PhaseError)
		return nil, fmt.Errorf("research phase: %w", err)
	}

	// Phase 2: free editorial, grounded on the research brief.
	setPhase(PhaseFree)
	free, err := g.phaseCall(ctx, sess, model.CapabilityWriting, freeSystemPrompt,
		fmt.Sprintf("RESEARCH BRIEF:\n%s\n\nSIGNAL: %s\nTier: %d, Category: %s, Geo: %s\nRoles: %s\nCompanies: %s",
			research, sig.Title, sig.Tier, sig.Category, sig.Geo,
			strings.Join(sig.AffectedRoles, ", "), strings.Join(sig.Companies, ", ")),
		false)
	if err != nil {
		setPhase(PhaseError)
		return nil, fmt.Errorf("free phase: %w", err)
	}

	// Phase 3: paid intelligence. Parse failure degrades to raw text.
	setPhase(PhasePaid)
	paidText, err := g.phaseCall(ctx, sess, model.CapabilityIntelligence, paidSystemPrompt,
		fmt.Sprintf("Signal: %s\nTier: %d\nResearch: %s\nRoles: %s\nCompanies: %s\nCategory: %s",
			sig.Title, sig.Tier, truncate(research, 3000),
			strings.Join(sig.AffectedRoles, ", "), strings.Join(sig.Companies, ", "), sig.Category),
		false)
	if err != nil {
		setPhase(PhaseError)
		return nil, fmt.Errorf("paid phase: %w", err)
	}
	paid := render.ParsePaid(paidText)
	if !paid.IsStructured() {
		g.logger.Warn("Paid payload did not parse as structured data, using raw text",
			"signal", sig.Title)
	}

	setPhase(PhaseDone)
	generatedAt := g.now()
	return &Article{
		Signal:      sig,
		Research:    research,
		Free:        free,
		Paid:        paid,
		Metrics:     metrics,
		HTML:        render.BuildHTML(sig, free, paid, metrics, generatedAt),
		GeneratedAt: generatedAt,
		Duration:    generatedAt.Sub(start),
	}, nil
}

// runMetrics fetches the hero metrics. Any failure, relay or parse, yields
// an empty list.
func (g *Generator) runMetrics(ctx context.Context, sess *Session, sig signal.Signal) []render.Metric {
	text, err := g.phaseCall(ctx, sess, model.CapabilityFast, metricsSystemPrompt,
		fmt.Sprintf("Signal: %s\nSummary: %s", sig.Title, sig.Summary), false)
	if err != nil {
		g.logger.Warn("Metrics phase failed, continuing without hero stats", "error", err)
		return nil
	}
	return render.ParseMetrics(text)
}

func (g *Generator) phaseCall(ctx context.Context, sess *Session, capability model.Capability, system, prompt string, search bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, PhaseTimeout)
	defer cancel()
	return g.relay.Ask(ctx, string(capability), system, prompt, search, sess.Credential)
}

func (g *Generator) emit(s Status) {
	if g.onStatus != nil {
		g.onStatus(s)
	}
}

// truncate caps s at n bytes, backing up so a multi-byte rune is never
// split mid-sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Rebuild re-renders the document after the caller edits the free text or
// paid payload, using the article's original report date so edits never
// shift the date line.
func (a *Article) Rebuild() {
	a.HTML = render.BuildHTML(a.Signal, a.Free, a.Paid, a.Metrics, a.GeneratedAt)
}

// Filename derives the download name for the rendered document.
func (a *Article) Filename() string {
	slug := strings.ToLower(a.Signal.Title)
	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	name := strings.Trim(b.String(), "-")
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "article"
	}
	return "replaceable-ai-" + name + ".html"
}

// Ensure the concrete relay satisfies the pipeline interface.
var _ Relay = (*llm.Client)(nil)

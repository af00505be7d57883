package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mohiawrai2609/commant-center/signal"
)

// Exposure color bands. Scores are banded for display only; out-of-range
// values still render.
const (
	colorHigh     = "#ef4444"
	colorModerate = "#f59e0b"
	colorLow      = "#22c55e"
)

// gaugeRadius is the SVG gauge circle radius.
const gaugeRadius = 36

func bandColor(score int) string {
	switch {
	case score >= 70:
		return colorHigh
	case score >= 40:
		return colorModerate
	default:
		return colorLow
	}
}

func bandLabel(score int) string {
	switch {
	case score >= 70:
		return "High Exposure"
	case score >= 40:
		return "Moderate Exposure"
	default:
		return "Low Exposure"
	}
}

// reportDate formats the explicit report date shown in the masthead, hero,
// and footer. The date is an input, never read from the clock, so rendering
// the same article twice yields identical bytes.
func reportDate(t time.Time) string {
	return t.Format("Monday 2 January 2006")
}

// BuildHTML renders the complete article document: masthead, hero with
// metrics, free editorial, paywall break, subscriber intelligence, and
// boilerplate sections. freeText is markdown-like: blank-line-separated
// paragraphs, "##" headings, ">" block quotes with em-dash attribution.
func BuildHTML(sig signal.Signal, freeText string, paid PaidPayload, metrics []Metric, date time.Time) string {
	tc := sig.Tier.Color()
	tl := sig.Tier.Label()
	today := reportDate(date)

	var mCards strings.Builder
	for _, m := range metrics {
		fmt.Fprintf(&mCards, `<div class="metric"><div class="mv">%s</div><div class="ml">%s</div></div>`,
			html.EscapeString(m.Value), html.EscapeString(m.Label))
	}

	tags := sig.Tags
	if len(tags) == 0 {
		tags = []string{sig.Category}
	}
	summary := sig.Summary
	if len(summary) > 160 {
		cut := 160
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}

	var b strings.Builder
	b.Grow(16 * 1024)

	fmt.Fprintf(&b, `<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>%s | Replaceable.ai</title>
<meta name="description" content="%s">
<link href="https://fonts.googleapis.com/css2?family=Playfair+Display:ital,wght@0,400;0,600;0,700;1,400&family=Crimson+Text:ital,wght@0,400;0,600;1,400&family=Inter:wght@300;400;500;600;700&display=swap" rel="stylesheet">
<style>%s</style></head><body>
`, html.EscapeString(sig.Title), html.EscapeString(summary), articleCSS(tc))

	fmt.Fprintf(&b, `
<div class="masthead">
<div class="logo">Replace<span>able</span>.ai</div>
<div class="masthead-right"><span class="tier-badge">Tier %d · %s</span><span class="report-date">%s</span></div>
</div>
`, sig.Tier, tl, today)

	fmt.Fprintf(&b, `
<div class="hero">
<div class="hero-inner">
<div class="hero-eyebrow">Tier %d · %s · %s</div>
<h1>%s</h1>
<div class="hero-meta">
<span>📍 %s</span><span>📊 RPI %s</span>
<span>🏷 %s</span><span>📅 %s</span>
</div>
<div class="hero-summary">%s</div>
<div class="hero-stats">%s</div>
</div>
</div>
`, sig.Tier, tl, html.EscapeString(sig.Category),
		html.EscapeString(sig.Title),
		html.EscapeString(sig.Geo), html.EscapeString(string(sig.RPIType)),
		html.EscapeString(strings.Join(tags, " · ")), today,
		html.EscapeString(sig.Summary), mCards.String())

	fmt.Fprintf(&b, "\n<div class=\"content\">%s</div>\n", renderEditorial(freeText))

	b.WriteString(`
<div class="section-break"><div class="section-break-inner"><span class="section-break-label">Intelligence Layer</span></div></div>

<div class="paywall"><div class="paywall-box">
<h3>Continue with Replaceable.ai</h3>
<p>The intelligence below includes role-by-role RPI scoring with task-level exposure analysis, sector impact mapping, and specific action recommendations for workforce strategists.</p>
<a class="paywall-btn" href="#">Subscribe for Full Access →</a>
<div class="paywall-sub">Enterprise access available · <a href="#">Request a demo →</a></div>
</div></div>
`)

	b.WriteString("\n<div class=\"paid\">\n<div class=\"paid-badge\">Subscriber Intelligence</div>\n")
	if len(paid.Roles) > 0 {
		b.WriteString("<h2>RPI Role Impact Analysis</h2>")
		for _, r := range paid.Roles {
			b.WriteString(renderRoleCard(r))
		}
	}
	if len(paid.Sectors) > 0 {
		b.WriteString(`<h2>Sector Exposure Map</h2><div class="sector-grid">`)
		for _, s := range paid.Sectors {
			fmt.Fprintf(&b, `<div class="sector-row"><div class="sector-name">%s</div><div class="sector-exp">%s</div></div>`,
				html.EscapeString(s.Name), html.EscapeString(s.Exposure))
		}
		b.WriteString("</div>")
	}
	if len(paid.Actions) > 0 {
		b.WriteString("<h2>CHRO Action Brief — This Week</h2>")
		for i, a := range paid.Actions {
			fmt.Fprintf(&b, `<div class="action-item"><div class="action-num">%d</div><div class="action-text">%s</div></div>`,
				i+1, html.EscapeString(a))
		}
	}
	if !paid.IsStructured() && paid.Raw != "" {
		b.WriteString(renderPaidRaw(paid.Raw))
	}
	b.WriteString("\n</div>\n")

	fmt.Fprintf(&b, `
<div class="enterprise"><div class="enterprise-box">
<h4>Enterprise Intelligence</h4>
<p>Enterprise subscribers access bespoke RPI scoring against your organisation's specific role taxonomy, custom sector analysis, comparative benchmarking against peers, and quarterly advisory briefings with our research team. <a href="#">Request enterprise access →</a></p>
</div></div>

<div class="methodology"><div class="methodology-box">
<p><strong>Methodology note:</strong> This report combines sourced facts (company announcements, regulatory filings, and reported figures) with analytical estimates (RPI scores, task exposure percentages, and implementation projections). RPI scores are calculated using Replaceable.ai's proprietary methodology combining Automation Probability Score, Human Resilience Factor, and Industry Adoption Factor. This is not legal or financial advice. Scores represent analytical assessments, not predictions of specific workforce actions by named companies unless officially announced.</p>
</div></div>

<div class="cta">
<h3>Check Your Role's RPI Score</h3>
<p>Personalised automation exposure analysis tailored to your industry and experience level.</p>
<a href="#">Analyse My Role →</a>
</div>

<div class="footer">
<div class="footer-logo">Replace<span>able</span>.ai</div>
<div class="footer-sub">Workforce Automation Intelligence · %s</div>
<div class="footer-links"><a href="#">Subscribe</a><a href="#">Enterprise</a><a href="#">Methodology</a><a href="#">Contact</a></div>
</div>
</body></html>`, today)

	return b.String()
}

// renderEditorial converts the markdown-like free text into HTML. Paragraphs
// split on blank lines; "##" opens a heading; ">" opens a block quote whose
// trailing em-dash line becomes the attribution.
func renderEditorial(freeText string) string {
	paragraphs := strings.Split(freeText, "\n\n")
	parts := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		switch {
		case strings.HasPrefix(p, ">"):
			quote := strings.TrimSpace(strings.TrimPrefix(p, ">"))
			body, attr := splitAttribution(quote)
			if attr != "" {
				parts = append(parts, fmt.Sprintf("<blockquote>%s<cite>— %s</cite></blockquote>",
					html.EscapeString(body), html.EscapeString(attr)))
			} else {
				parts = append(parts, fmt.Sprintf("<blockquote>%s</blockquote>", html.EscapeString(body)))
			}
		case strings.HasPrefix(p, "##"):
			heading := strings.TrimSpace(strings.TrimPrefix(p, "##"))
			parts = append(parts, fmt.Sprintf("<h2>%s</h2>", html.EscapeString(heading)))
		default:
			parts = append(parts, fmt.Sprintf("<p>%s</p>", html.EscapeString(p)))
		}
	}
	return strings.Join(parts, "\n")
}

// splitAttribution separates a quote from its trailing attribution line,
// which starts with an em-dash.
func splitAttribution(quote string) (body, attr string) {
	idx := strings.LastIndex(quote, "\n—")
	if idx < 0 {
		return quote, ""
	}
	return quote[:idx], strings.TrimSpace(quote[idx+len("\n—"):])
}

// renderPaidRaw formats the degraded raw-text paid payload: blank-line
// paragraphs with "##" headings, no quote handling.
func renderPaidRaw(text string) string {
	paragraphs := strings.Split(text, "\n\n")
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if strings.HasPrefix(p, "##") {
			parts = append(parts, fmt.Sprintf("<h2>%s</h2>", html.EscapeString(strings.TrimSpace(strings.TrimPrefix(p, "##")))))
			continue
		}
		parts = append(parts, fmt.Sprintf(`<p style="font-size:15px;line-height:1.8;color:#333;margin-bottom:14px">%s</p>`,
			html.EscapeString(p)))
	}
	return strings.Join(parts, "\n")
}

// renderRoleCard draws one role analysis card with its SVG circular gauge.
// A missing or zero score defaults to 50 so the gauge always draws.
func renderRoleCard(r RoleImpact) string {
	score := int(r.Score)
	if score == 0 {
		score = 50
	}
	circ := 2 * math.Pi * gaugeRadius
	dash := float64(score) / 100 * circ
	color := bandColor(score)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="role-card">
<div class="role-top">
<div class="role-gauge"><svg viewBox="0 0 80 80" width="72" height="72"><circle cx="40" cy="40" r="36" fill="none" stroke="rgba(0,0,0,.06)" stroke-width="6"/><circle cx="40" cy="40" r="36" fill="none" stroke="%s" stroke-width="6" stroke-linecap="round" stroke-dasharray="%s %s" transform="rotate(-90 40 40)" style="transition:stroke-dasharray 1.5s ease"/></svg><div class="role-gauge-val">%d</div></div>
<div class="role-info"><div class="role-title">%s</div><div class="role-risk" style="color:%s">%s</div></div>
</div>
<div class="role-impact">%s</div>`,
		color, formatFloat(dash), formatFloat(circ), score,
		html.EscapeString(r.Role), color, bandLabel(score),
		html.EscapeString(r.Impact))

	if len(r.Tasks) > 0 {
		b.WriteString(`
<div class="task-section"><div class="task-header">Task-Level Exposure</div>`)
		for _, t := range r.Tasks {
			exp := int(t.Exposure)
			fmt.Fprintf(&b, `<div class="task-row"><div class="task-name">%s</div><div class="task-bar-wrap"><div class="task-bar" style="width:%d%%;background:%s"></div></div><div class="task-pct">%d%%</div></div>`,
				html.EscapeString(t.Name), exp, bandColor(exp), exp)
		}
		b.WriteString("</div>")
	}

	if r.Action != "" {
		fmt.Fprintf(&b, `
<div class="role-action"><strong>Strategic Response:</strong> %s</div>`, html.EscapeString(r.Action))
	}

	b.WriteString("\n</div>")
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

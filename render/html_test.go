package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiawrai2609/commant-center/signal"
)

var testDate = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func testSignal() signal.Signal {
	return signal.Signal{
		Tier:     signal.TierCritical,
		Title:    "Major layoff announced",
		Category: "Tech",
		Geo:      "US",
		RPIType:  signal.RPIDirect,
		Summary:  "12,000 roles cut across three divisions.",
		Tags:     []string{"layoffs", "automation"},
	}
}

func TestBuildHTMLDeterministic(t *testing.T) {
	sig := testSignal()
	free := "## The Shift\n\nOpening paragraph.\n\n> We had no choice.\n— A. Executive, CEO"
	paid := PaidPayload{
		Roles:   []RoleImpact{{Role: "Data Analyst", Score: 82, Impact: "Heavy exposure."}},
		Sectors: []SectorImpact{{Name: "Finance", Exposure: "High"}},
		Actions: []string{"Audit role taxonomy."},
	}
	metrics := []Metric{{Value: "12,000", Label: "Roles Cut"}}

	a := BuildHTML(sig, free, paid, metrics, testDate)
	b := BuildHTML(sig, free, paid, metrics, testDate)
	assert.Equal(t, a, b, "same inputs and report date must produce identical bytes")
}

func TestBuildHTMLStructure(t *testing.T) {
	sig := testSignal()
	free := "## The Shift\n\nOpening paragraph.\n\n> We had no choice.\n— A. Executive, CEO"
	paid := PaidPayload{
		Roles: []RoleImpact{
			{Role: "Data Analyst", Score: 82, Impact: "Heavy exposure.", Action: "Retrain now.",
				Tasks: []TaskExposure{{Name: "Report building", Exposure: 90}}},
			{Role: "Facilities Manager", Score: 25, Impact: "Light exposure."},
		},
		Sectors: []SectorImpact{{Name: "Finance", Exposure: "High near-term exposure"}},
		Actions: []string{"Audit role taxonomy.", "Brief the board."},
	}
	metrics := []Metric{{Value: "12,000", Label: "Roles Cut"}, {Value: "3", Label: "Divisions"}}

	out := BuildHTML(sig, free, paid, metrics, testDate)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Major layoff announced | Replaceable.ai</title>")
	assert.Contains(t, out, "Tier 1 · Critical")
	assert.Contains(t, out, "Monday 31 August 2026")
	assert.Contains(t, out, "--tier:#c41e3a")

	// Editorial structure
	assert.Contains(t, out, "<h2>The Shift</h2>")
	assert.Contains(t, out, "<p>Opening paragraph.</p>")
	assert.Contains(t, out, "<blockquote>We had no choice.<cite>— A. Executive, CEO</cite></blockquote>")

	// Metrics
	assert.Contains(t, out, `<div class="mv">12,000</div>`)
	assert.Contains(t, out, `<div class="ml">Roles Cut</div>`)

	// Paid structure
	assert.Contains(t, out, "<h2>RPI Role Impact Analysis</h2>")
	assert.Contains(t, out, "<h2>Sector Exposure Map</h2>")
	assert.Contains(t, out, "<h2>CHRO Action Brief — This Week</h2>")
	assert.Contains(t, out, `<div class="action-num">1</div>`)
	assert.Contains(t, out, `<div class="action-num">2</div>`)

	// High score band
	assert.Contains(t, out, "High Exposure")
	assert.Contains(t, out, "#ef4444")
	// Low score band
	assert.Contains(t, out, "Low Exposure")
	assert.Contains(t, out, "#22c55e")
	// Task bar
	assert.Contains(t, out, "width:90%")
}

func TestBuildHTMLRawPaidFallback(t *testing.T) {
	out := BuildHTML(testSignal(), "Just one paragraph.", PaidPayload{Raw: "## Analysis\n\nRaw fallback text."}, nil, testDate)

	assert.Contains(t, out, "<h2>Analysis</h2>")
	assert.Contains(t, out, "Raw fallback text.")
	assert.NotContains(t, out, "RPI Role Impact Analysis")
}

func TestBuildHTMLEscapesContent(t *testing.T) {
	sig := testSignal()
	sig.Title = `CEO says "<script>alert(1)</script>"`

	out := BuildHTML(sig, "", PaidPayload{}, nil, testDate)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestBuildHTMLMultibyteSummary(t *testing.T) {
	sig := testSignal()
	// One ASCII byte then two-byte runes puts the 160-byte mark mid-rune: a
	// byte-indexed cut would split one.
	sig.Summary = "S" + strings.Repeat("é", 100)

	out := BuildHTML(sig, "", PaidPayload{}, nil, testDate)
	assert.True(t, utf8.ValidString(out))
	assert.NotContains(t, out, "�")
}

func TestBandColors(t *testing.T) {
	assert.Equal(t, colorHigh, bandColor(70))
	assert.Equal(t, colorHigh, bandColor(100))
	assert.Equal(t, colorModerate, bandColor(40))
	assert.Equal(t, colorModerate, bandColor(69))
	assert.Equal(t, colorLow, bandColor(39))
	assert.Equal(t, colorLow, bandColor(0))
}

func TestRenderRoleCardOutOfRangeScore(t *testing.T) {
	// Out-of-range scores are banded for color but never clamped away.
	out := renderRoleCard(RoleImpact{Role: "Analyst", Score: 140, Impact: "x"})
	assert.Contains(t, out, ">140</div>")
	assert.Contains(t, out, colorHigh)

	// Zero means unscored and defaults to the midpoint.
	out = renderRoleCard(RoleImpact{Role: "Analyst", Impact: "x"})
	assert.Contains(t, out, ">50</div>")
	assert.Contains(t, out, colorModerate)
}

func TestParsePaid(t *testing.T) {
	structured := `Here you go:
{"roles":[{"role":"Analyst","score":"75","impact":"High."}],"sectors":[],"actions":["Act now."]}`

	p := ParsePaid(structured)
	require.True(t, p.IsStructured())
	require.Len(t, p.Roles, 1)
	assert.Equal(t, 75, int(p.Roles[0].Score), "quoted numeric scores are accepted")
	assert.Equal(t, []string{"Act now."}, p.Actions)
	assert.Empty(t, p.Raw)

	degraded := ParsePaid("The model wrote prose instead of JSON.")
	assert.False(t, degraded.IsStructured())
	assert.Equal(t, "The model wrote prose instead of JSON.", degraded.Raw)
}

func TestParseMetrics(t *testing.T) {
	metrics := ParseMetrics(`[{"value":"12,000","label":"Roles"},{"value":"3","label":"Divisions"},{"value":"a","label":"b"},{"value":"c","label":"d"},{"value":"e","label":"f"}]`)
	require.Len(t, metrics, 4, "metrics cap at four")
	assert.Equal(t, "12,000", metrics[0].Value)

	assert.Nil(t, ParseMetrics("no structure at all"))
}

func TestFlexInt(t *testing.T) {
	var v struct {
		A FlexInt `json:"a"`
		B FlexInt `json:"b"`
		C FlexInt `json:"c"`
		D FlexInt `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":7,"b":"42","c":"junk","d":63.9}`), &v))
	assert.Equal(t, 7, int(v.A))
	assert.Equal(t, 42, int(v.B))
	assert.Equal(t, 0, int(v.C))
	assert.Equal(t, 63, int(v.D))
}

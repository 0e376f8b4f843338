package agent

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/verilens/verilens/internal/model"
)

// Transient UI labels. These must stay in sync with the noise patterns in
// the extract package or the agent will re-read its own tooltips as content.
const (
	labelButton  = "Analyze"
	labelWaiting = "Analyzing…"
	labelPending = "Pending analysis…"

	msgNoContent = "No text or image found."
	msgTransport = "Backend messaging failed."
)

// scoreClass buckets a score into the three visual tiers
func scoreClass(score *int) string {
	switch {
	case score == nil:
		return "score-none"
	case *score >= 80:
		return "score-green"
	case *score >= 50:
		return "score-yellow"
	default:
		return "score-red"
	}
}

// PrettyExplanation re-indents explanation text that parses as JSON and
// returns anything else untouched
func PrettyExplanation(s string) string {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s
	}
	return string(out)
}

// RenderResult formats a completed result as tooltip body HTML. All
// payload-derived strings are escaped.
func RenderResult(r model.Result) string {
	if r.Failed() {
		return "Error: " + html.EscapeString(r.Error)
	}
	a := r.Analysis

	scoreVal := "—"
	if a.Score != nil {
		scoreVal = strconv.Itoa(*a.Score)
	}

	var b strings.Builder
	b.WriteString(`<div class="vl-head">`)
	fmt.Fprintf(&b, `<div class="vl-type"><b>Type:</b> %s</div>`, html.EscapeString(string(a.Type)))
	fmt.Fprintf(&b,
		`<div class="vl-score %s"><span class="vl-score-label">Credibility:</span> <span class="vl-score-val">%s/100</span></div>`,
		scoreClass(a.Score), scoreVal)
	b.WriteString(`</div>`)

	if a.Reason != "" {
		fmt.Fprintf(&b, `<div class="vl-reason">%s</div>`, html.EscapeString(a.Reason))
	}
	if a.Type == model.VerdictClaim && a.Explanation != "" {
		fmt.Fprintf(&b, `<div class="vl-expl-panel"><pre class="vl-expl">%s</pre></div>`,
			html.EscapeString(PrettyExplanation(a.Explanation)))
	}
	return b.String()
}

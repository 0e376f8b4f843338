package model

// VerdictType categorizes what the backend decided a post is
type VerdictType string

const (
	VerdictClaim    VerdictType = "claim"        // Factual assertion, carries a credibility score
	VerdictQuestion VerdictType = "question"     // Question, no score
	VerdictMeme     VerdictType = "meme/sarcasm" // Humor/sarcasm, no score
	VerdictUnknown  VerdictType = "unknown"      // Backend could not classify
)

// Analysis is the successful payload returned by the analysis backend
type Analysis struct {
	Type        VerdictType `json:"type"`                  // Verdict category
	Score       *int        `json:"score,omitempty"`       // Credibility 0-100, only for claims
	Reason      string      `json:"reason,omitempty"`      // Short classification rationale
	Explanation string      `json:"explanation,omitempty"` // Free text, possibly JSON-encoded detail
}

// Result is the validated outcome of one analysis request: either a
// completed Analysis or a failure message, never both.
type Result struct {
	Analysis *Analysis `json:"analysis,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Success wraps a completed analysis
func Success(a Analysis) Result {
	if a.Type == "" {
		a.Type = VerdictUnknown
	}
	return Result{Analysis: &a}
}

// Failure wraps an error message
func Failure(msg string) Result {
	return Result{Error: msg}
}

// Failed reports whether the result carries an error instead of an analysis
func (r Result) Failed() bool {
	return r.Error != "" || r.Analysis == nil
}

// ScoreValue returns the credibility score and whether one is present
func (r Result) ScoreValue() (int, bool) {
	if r.Analysis == nil || r.Analysis.Score == nil {
		return 0, false
	}
	return *r.Analysis.Score, true
}

// IntPtr is a convenience for building optional scores
func IntPtr(v int) *int {
	return &v
}

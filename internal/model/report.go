package model

import "time"

// PageReport is the rendered outcome of scanning one page
type PageReport struct {
	URL       string        `json:"url"`        // Final URL after redirects
	FetchedAt time.Time     `json:"fetched_at"` // When the scan occurred
	FetchMeta FetchMeta     `json:"fetch_meta"` // HTTP metadata
	Posts     []PostVerdict `json:"posts"`      // One entry per discovered post
}

// FetchMeta contains HTTP metadata from fetching the page
type FetchMeta struct {
	StatusCode   int    `json:"status_code"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	ETag         string `json:"etag,omitempty"`
}

// PostVerdict is one post's final state after an analyze-all pass
type PostVerdict struct {
	Handle  uint64 `json:"handle"`            // Stable scanner handle
	State   string `json:"state"`             // Terminal state name
	Key     string `json:"key,omitempty"`     // Fingerprint used for dedup
	Excerpt string `json:"excerpt,omitempty"` // Candidate text, truncated
	Image   string `json:"image,omitempty"`   // Fallback image URL, if used
	Result  Result `json:"result"`
}

// Snapshot is the flat "last result" record persisted for the popup/summary
// collaborator. Field names match what the popup reads.
type Snapshot struct {
	Type        VerdictType `json:"type"`
	Score       *int        `json:"score,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	URL         string      `json:"url"`
	TS          time.Time   `json:"ts"`
}

// SnapshotFrom flattens a resolved result into a popup snapshot
func SnapshotFrom(r Result, pageURL string, at time.Time) (Snapshot, bool) {
	if r.Failed() {
		return Snapshot{}, false
	}
	a := r.Analysis
	return Snapshot{
		Type:        a.Type,
		Score:       a.Score,
		Reason:      a.Reason,
		Explanation: a.Explanation,
		URL:         pageURL,
		TS:          at,
	}, true
}

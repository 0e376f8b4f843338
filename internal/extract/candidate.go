// Package extract derives a single best-candidate claim text (or fallback
// image reference) from a post subtree, tolerating the inconsistent markup
// of unrelated site layouts.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/verilens/verilens/internal/dom"
	"github.com/verilens/verilens/internal/extract/sites"
)

// MinCandidateLen is the floor below which a text block cannot plausibly be
// a claim or caption. Shorter blocks are UI chrome and labels.
const MinCandidateLen = 20

// strippedSelector removes agent-injected nodes and non-visible metadata
// before any text is read
const strippedSelector = "[" + dom.InjectedAttr + "], script, style, noscript"

// Extractor selects the best candidate text from a post subtree
type Extractor struct {
	registry *sites.Registry
}

// NewExtractor creates an extractor with the built-in site adapters
func NewExtractor() *Extractor {
	return &Extractor{registry: sites.NewRegistry()}
}

// NewExtractorWithRegistry creates an extractor with a custom adapter set
func NewExtractorWithRegistry(r *sites.Registry) *Extractor {
	return &Extractor{registry: r}
}

// Text returns the best candidate claim/caption text for a post, possibly
// empty. The live subtree is never modified: all stripping happens on a
// deep copy.
func (e *Extractor) Text(post *goquery.Selection) string {
	clone := post.Clone()
	clone.Find(strippedSelector).Remove()

	best := ""
	bestLen := 0
	seen := make(map[string]bool)

	// Longest surviving block wins; ties keep the first encountered, so
	// selection is stable by adapter order then document order.
	push := func(raw string) {
		s := Normalize(raw)
		n := utf8.RuneCountInString(s)
		if n < MinCandidateLen {
			return
		}
		if IsNoise(s) {
			return
		}
		if seen[s] {
			return
		}
		seen[s] = true
		if n > bestLen {
			best = s
			bestLen = n
		}
	}

	for _, adapter := range e.registry.Adapters() {
		group := strings.Join(adapter.CaptionSelectors(), ", ")
		clone.Find(group).Each(func(_ int, el *goquery.Selection) {
			push(el.Text())
		})
	}

	if best == "" {
		push(clone.Text())
	}

	return strings.TrimSpace(best)
}

// FirstImage returns the first rendered image source in the post subtree,
// or "" when there is none. The displayed source (srcset) is preferred over
// the declared src attribute.
func (e *Extractor) FirstImage(post *goquery.Selection) string {
	img := post.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	if srcset, ok := img.Attr("srcset"); ok {
		if u := firstSrcsetURL(srcset); u != "" {
			return u
		}
	}
	if src, ok := img.Attr("src"); ok && src != "" {
		return src
	}
	if src, ok := img.Attr("data-src"); ok && src != "" {
		return src
	}
	return ""
}

// firstSrcsetURL extracts the first URL from a srcset attribute value
func firstSrcsetURL(srcset string) string {
	first := strings.TrimSpace(strings.Split(srcset, ",")[0])
	if first == "" {
		return ""
	}
	return strings.Fields(first)[0]
}

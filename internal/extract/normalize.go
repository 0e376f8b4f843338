package extract

import (
	"regexp"
	"strings"
)

// noisePatterns match the agent's own transient UI labels. Without this
// filter a re-extraction after injection would pick up the button or tooltip
// text as post content.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^analy[sz]e(\s|$)`),
	regexp.MustCompile(`(?i)^analy[sz]ing`),
	regexp.MustCompile(`(?i)^pending analysis`),
}

// Normalize collapses whitespace runs to single spaces and trims the ends
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsNoise reports whether normalized text is one of the agent's own UI labels
func IsNoise(s string) bool {
	for _, p := range noisePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

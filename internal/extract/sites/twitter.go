package sites

// TwitterAdapter targets Twitter/X post markup
type TwitterAdapter struct{}

// NewTwitterAdapter creates a Twitter/X adapter
func NewTwitterAdapter() *TwitterAdapter {
	return &TwitterAdapter{}
}

// Name returns the adapter name
func (a *TwitterAdapter) Name() string {
	return "twitter"
}

// CaptionSelectors returns likely caption containers
func (a *TwitterAdapter) CaptionSelectors() []string {
	return []string{
		"div[data-testid='tweetText']",
		"[data-testid='tweet'] div[lang]",
	}
}

package sites

// FacebookAdapter targets Facebook post markup
type FacebookAdapter struct{}

// NewFacebookAdapter creates a Facebook adapter
func NewFacebookAdapter() *FacebookAdapter {
	return &FacebookAdapter{}
}

// Name returns the adapter name
func (a *FacebookAdapter) Name() string {
	return "facebook"
}

// CaptionSelectors returns likely caption containers
func (a *FacebookAdapter) CaptionSelectors() []string {
	return []string{
		"div[role='article'] [data-ad-preview='message']",
		"div[role='article'] div[dir='auto'] span",
	}
}

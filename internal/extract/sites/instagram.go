package sites

// InstagramAdapter targets Instagram post markup. The layout varies a lot
// between rollouts, so several alternate caption paths are tried.
type InstagramAdapter struct{}

// NewInstagramAdapter creates an Instagram adapter
func NewInstagramAdapter() *InstagramAdapter {
	return &InstagramAdapter{}
}

// Name returns the adapter name
func (a *InstagramAdapter) Name() string {
	return "instagram"
}

// CaptionSelectors returns likely caption containers
func (a *InstagramAdapter) CaptionSelectors() []string {
	return []string{
		"header ~ div span",
		"ul li div div span",
		"[data-testid='post-caption']",
		"[data-testid='post-comment-root'] span",
	}
}

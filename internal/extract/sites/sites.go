// Package sites holds the per-layout caption selector groups. Each adapter
// targets one known social-media markup family; the registry keeps them in a
// fixed order so candidate selection stays deterministic across scans.
package sites

// Adapter describes one site layout's likely caption containers
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CaptionSelectors returns CSS selectors for likely caption/body
	// containers, in preference order
	CaptionSelectors() []string
}

// Registry manages site adapters in evaluation order
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewInstagramAdapter())
	r.Register(NewTwitterAdapter())
	r.Register(NewFacebookAdapter())
	return r
}

// Register appends an adapter. Order of registration is evaluation order.
func (r *Registry) Register(a Adapter) {
	r.adapters = append(r.adapters, a)
}

// Adapters returns the adapters in evaluation order
func (r *Registry) Adapters() []Adapter {
	return r.adapters
}

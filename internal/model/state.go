package model

// PostState tracks one post's position in the analysis lifecycle
type PostState int

const (
	StateIdle     PostState = iota // Discovered, button attached, never triggered
	StatePending                   // Analysis in flight, tooltip shows waiting indicator
	StateResolved                  // Verdict rendered
	StateError                     // Failure rendered; re-trigger is the only recovery
)

func (s PostState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateError:
		return "error"
	default:
		return "invalid"
	}
}

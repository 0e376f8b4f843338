// Package backend is the boundary to the external analysis collaborator.
// Responses are validated here into the tagged result type before anything
// downstream sees them.
package backend

import (
	"context"

	"github.com/verilens/verilens/internal/model"
)

// Provider is the analysis collaborator contract. A returned error means
// the request itself failed (transport, timeout); a Result carrying an
// Error field means the backend answered with a failure.
type Provider interface {
	// Name returns the provider name
	Name() string

	// AnalyzeText scores a claim/caption string
	AnalyzeText(ctx context.Context, text string) (model.Result, error)

	// AnalyzeImage scores a post from its image reference
	AnalyzeImage(ctx context.Context, imageURL string) (model.Result, error)

	// ExtractText runs OCR-only extraction on an image reference
	ExtractText(ctx context.Context, imageURL string) (string, error)
}

// wireResponse is the untrusted shape of an analyze response
type wireResponse struct {
	Type        string   `json:"type"`
	Score       *float64 `json:"score"`
	Reason      string   `json:"reason"`
	Explanation string   `json:"explanation"`
	Error       string   `json:"error"`
}

// validate converts an untrusted wire response into the tagged result. An
// error field wins over any success fields; scores are clamped to 0-100.
func validate(w wireResponse) model.Result {
	if w.Error != "" {
		return model.Failure(w.Error)
	}

	a := model.Analysis{
		Type:        model.VerdictType(w.Type),
		Reason:      w.Reason,
		Explanation: w.Explanation,
	}
	if a.Type == "" {
		a.Type = model.VerdictUnknown
	}
	if w.Score != nil {
		s := int(*w.Score)
		if s < 0 {
			s = 0
		}
		if s > 100 {
			s = 100
		}
		a.Score = &s
	}
	return model.Success(a)
}

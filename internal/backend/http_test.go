package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verilens/verilens/internal/model"
)

func newHTTPProvider(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewHTTPProvider(model.BackendConfig{
		AnalyzeURL: srv.URL + "/api/analyze/",
		ExtractURL: srv.URL + "/api/extract_text/",
	})
	if err != nil {
		t.Fatalf("NewHTTPProvider: %v", err)
	}
	return p
}

func TestHTTPProvider_AnalyzeText(t *testing.T) {
	var gotStatement string
	p := newHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotStatement = r.PostForm.Get("statement")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":        "claim",
			"score":       92,
			"explanation": `{"basis":"physics"}`,
		})
	})

	res, err := p.AnalyzeText(context.Background(), "Scientists confirm water boils at 100°C at sea level")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if gotStatement != "Scientists confirm water boils at 100°C at sea level" {
		t.Errorf("statement field = %q", gotStatement)
	}
	if res.Failed() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if res.Analysis.Type != model.VerdictClaim {
		t.Errorf("type = %q", res.Analysis.Type)
	}
	if score, ok := res.ScoreValue(); !ok || score != 92 {
		t.Errorf("score = %d ok=%v", score, ok)
	}
}

func TestHTTPProvider_AnalyzeImage(t *testing.T) {
	p := newHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if got := r.PostForm.Get("image_url"); got != "https://x/img.png" {
			t.Errorf("image_url = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":   "meme/sarcasm",
			"reason": "image macro",
		})
	})

	res, err := p.AnalyzeImage(context.Background(), "https://x/img.png")
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}
	if res.Analysis == nil || res.Analysis.Type != model.VerdictMeme {
		t.Errorf("unexpected result: %+v", res)
	}
	if _, ok := res.ScoreValue(); ok {
		t.Error("non-claim should carry no score")
	}
}

func TestHTTPProvider_BackendError(t *testing.T) {
	p := newHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "model unavailable"})
	})

	res, err := p.AnalyzeText(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("backend errors are results, not transport errors: %v", err)
	}
	if !res.Failed() || res.Error != "model unavailable" {
		t.Errorf("expected failure result, got %+v", res)
	}
}

func TestHTTPProvider_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	p, err := NewHTTPProvider(model.BackendConfig{AnalyzeURL: srv.URL})
	if err != nil {
		t.Fatalf("NewHTTPProvider: %v", err)
	}
	if _, err := p.AnalyzeText(context.Background(), "anything"); err == nil {
		t.Error("expected transport error")
	}
}

func TestHTTPProvider_ExtractText(t *testing.T) {
	p := newHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "BREAKING: water is wet"})
	})

	text, err := p.ExtractText(context.Background(), "https://x/img.png")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "BREAKING: water is wet" {
		t.Errorf("text = %q", text)
	}
}

func TestValidate_ScoreClamping(t *testing.T) {
	high := 150.0
	res := validate(wireResponse{Type: "claim", Score: &high})
	if s, ok := res.ScoreValue(); !ok || s != 100 {
		t.Errorf("expected clamp to 100, got %d", s)
	}

	low := -3.0
	res = validate(wireResponse{Type: "claim", Score: &low})
	if s, ok := res.ScoreValue(); !ok || s != 0 {
		t.Errorf("expected clamp to 0, got %d", s)
	}
}

func TestValidate_ErrorWinsOverSuccessFields(t *testing.T) {
	score := 90.0
	res := validate(wireResponse{Type: "claim", Score: &score, Error: "boom"})
	if !res.Failed() || res.Error != "boom" {
		t.Errorf("expected failure, got %+v", res)
	}
	if res.Analysis != nil {
		t.Error("failure result must not carry an analysis")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	if _, err := NewProvider(model.BackendConfig{Provider: "http", AnalyzeURL: "http://localhost:8000"}); err != nil {
		t.Errorf("http provider: %v", err)
	}
	if _, err := NewProvider(model.BackendConfig{Provider: "openai", APIKey: "sk-test"}); err != nil {
		t.Errorf("openai provider: %v", err)
	}
	if _, err := NewProvider(model.BackendConfig{Provider: "openai"}); err == nil {
		t.Error("openai without key should fail")
	}
	if _, err := NewProvider(model.BackendConfig{Provider: "gemini"}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tt := range tests {
		if got := cleanJSON(tt.in); got != tt.want {
			t.Errorf("cleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/verilens/verilens/internal/model"
)

// OpenAIProvider scores posts directly against the OpenAI API instead of
// the HTTP scoring service. Classification and fact-checking are two
// separate completions; only claims get the second, scoring call.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

const classifyPrompt = `Classify this social media post into one of the categories:
- claim
- question
- meme/sarcasm

Post: %q

Return strictly in JSON:
{"type": "<claim|question|meme/sarcasm>", "reason": "<short explanation>"}`

const factCheckPrompt = `Evaluate the truthfulness of this statement:
%q

Return strictly in JSON:
{"score": <0-100>, "explanation": "<short reasoning>"}`

const ocrPrompt = `Transcribe all legible text in this image. Return only the text, nothing else.`

// NewOpenAIProvider creates an OpenAI provider
func NewOpenAIProvider(cfg model.BackendConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	return &OpenAIProvider{
		client: openai.NewClient(cfg.APIKey),
		model:  mdl,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// AnalyzeText classifies the text and, for claims, scores it
func (p *OpenAIProvider) AnalyzeText(ctx context.Context, text string) (model.Result, error) {
	raw, err := p.complete(ctx, fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		return model.Result{}, err
	}

	var cls struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &cls); err != nil {
		// Model ignored the JSON instruction: degrade, never fail hard.
		return model.Success(model.Analysis{
			Type:   model.VerdictUnknown,
			Reason: fmt.Sprintf("classification parse error: %v", err),
		}), nil
	}

	analysis := model.Analysis{
		Type:   model.VerdictType(cls.Type),
		Reason: cls.Reason,
	}
	if analysis.Type != model.VerdictClaim {
		return model.Success(analysis), nil
	}

	raw, err = p.complete(ctx, fmt.Sprintf(factCheckPrompt, text))
	if err != nil {
		return model.Result{}, err
	}

	var fc struct {
		Score       *float64 `json:"score"`
		Explanation string   `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &fc); err != nil {
		analysis.Explanation = fmt.Sprintf("fact-check parse error: %v", err)
		return model.Success(analysis), nil
	}

	analysis.Explanation = fc.Explanation
	if fc.Score != nil {
		s := int(*fc.Score)
		if s < 0 {
			s = 0
		}
		if s > 100 {
			s = 100
		}
		analysis.Score = &s
	}
	return model.Success(analysis), nil
}

// AnalyzeImage transcribes the image, then scores the transcription
func (p *OpenAIProvider) AnalyzeImage(ctx context.Context, imageURL string) (model.Result, error) {
	text, err := p.ExtractText(ctx, imageURL)
	if err != nil {
		return model.Result{}, err
	}
	if strings.TrimSpace(text) == "" {
		return model.Failure("no legible text in image"), nil
	}
	return p.AnalyzeText(ctx, text)
}

// ExtractText transcribes an image with a vision completion
func (p *OpenAIProvider) ExtractText(ctx context.Context, imageURL string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: ocrPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai vision request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// cleanJSON strips markdown code fences some models wrap around JSON
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.Trim(s, "`")
		if strings.HasPrefix(strings.ToLower(s), "json") {
			s = s[4:]
		}
	}
	return strings.TrimSpace(s)
}

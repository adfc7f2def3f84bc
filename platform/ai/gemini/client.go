// Package gemini wraps the Google generative-AI SDK: a thin client for
// one-shot JSON generation and an ADK model.LLM adapter for agents.
// This is part of the platform layer and contains no business logic.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jobboard_backend/platform/apperr"

	"google.golang.org/genai"
)

// Usage reports token consumption for one call.
type Usage struct {
	PromptTokens int32 `json:"promptTokens"`
	OutputTokens int32 `json:"outputTokens"`
	TotalTokens  int32 `json:"totalTokens"`
}

// Result is the text output of a model call with its token usage.
type Result struct {
	Text  string
	Usage *Usage
}

// Client calls Gemini through the genai SDK.
type Client struct {
	client *genai.Client
}

// NewClient creates a Gemini API client. An empty key yields (nil, nil) so
// callers can treat AI features as disabled.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: c}, nil
}

// GenerateJSON sends the parts as one user turn and asks for a JSON reply.
func (c *Client) GenerateJSON(ctx context.Context, model, systemInstruction string, parts []*genai.Part) (Result, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if systemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return Result{}, ClassifyError(err)
	}

	return Result{Text: resp.Text(), Usage: usageFrom(resp.UsageMetadata)}, nil
}

// ClassifyError maps SDK failures to domain errors with operator-facing
// messages. Errors that already carry a kind pass through.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if apperr.GetKind(err) != apperr.KindUnknown {
		return err
	}

	var apiErr genai.APIError
	code := 0
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}
	msg := err.Error()

	switch {
	case code == http.StatusTooManyRequests || strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "quota"):
		return apperr.Wrap(apperr.KindRateLimited, "レート制限に達しました。少し待ってから再度お試しください。", err)
	case strings.Contains(msg, "API_KEY") || code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apperr.Wrap(apperr.KindUpstream, "APIキーが無効です。", err)
	default:
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return apperr.Wrap(apperr.KindInternal, "AIエラー: "+msg, err)
	}
}

func usageFrom(meta *genai.GenerateContentResponseUsageMetadata) *Usage {
	if meta == nil {
		return nil
	}
	return &Usage{
		PromptTokens: meta.PromptTokenCount,
		OutputTokens: meta.CandidatesTokenCount,
		TotalTokens:  meta.TotalTokenCount,
	}
}

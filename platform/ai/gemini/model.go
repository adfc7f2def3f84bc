package gemini

import (
	"context"
	"iter"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// Model adapts the genai client to the ADK model.LLM interface so it can
// back an llmagent.
type Model struct {
	client *Client
	name   string
}

// NewModel binds the client to a model name.
func NewModel(client *Client, name string) *Model {
	return &Model{client: client, name: name}
}

func (m *Model) Name() string {
	return m.name
}

// GenerateContent forwards the ADK request to Gemini. Streaming is not used
// by any agent here, so one response is yielded either way.
func (m *Model) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		yield(m.generate(ctx, req))
	}
}

func (m *Model) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	cfg := req.Config
	if cfg == nil {
		cfg = &genai.GenerateContentConfig{}
	}

	resp, err := m.client.client.Models.GenerateContent(ctx, m.name, req.Contents, cfg)
	if err != nil {
		return nil, ClassifyError(err)
	}

	out := &model.LLMResponse{UsageMetadata: resp.UsageMetadata}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		out.Content = resp.Candidates[0].Content
	} else {
		out.Content = genai.NewContentFromText(resp.Text(), genai.RoleModel)
	}
	return out, nil
}

var _ model.LLM = (*Model)(nil)

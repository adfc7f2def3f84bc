// Package agent hosts the ADK agent that edits job drafts on instruction.
package agent

import (
	"context"
	"fmt"
	"strings"

	"jobboard_backend/platform/ai/gemini"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const appName = "job-draft-refiner"

// Refiner runs one agent turn per request in a throwaway session.
type Refiner struct {
	runner         *runner.Runner
	sessionService session.Service
}

// NewRefiner builds the agent on llm with the given standing instruction.
func NewRefiner(llm model.LLM, instruction string) (*Refiner, error) {
	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "JobDraftRefiner",
		Model:       llm,
		Description: "Edits job posting drafts according to admin instructions.",
		Instruction: instruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create refine agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create refine runner: %w", err)
	}

	return &Refiner{runner: r, sessionService: sessionService}, nil
}

// Refine sends prompt as the user turn and returns the collected reply text.
func (r *Refiner) Refine(ctx context.Context, prompt string) (gemini.Result, error) {
	sessionID := uuid.New().String()
	userID := "refine-" + sessionID

	_, err := r.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return gemini.Result{}, fmt.Errorf("refine: create session: %w", err)
	}
	defer func() {
		_ = r.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := genai.NewContentFromText(prompt, genai.RoleUser)
	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var (
		out   strings.Builder
		usage *gemini.Usage
	)
	for event, err := range r.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return gemini.Result{}, gemini.ClassifyError(err)
		}
		if meta := event.UsageMetadata; meta != nil {
			usage = &gemini.Usage{
				PromptTokens: meta.PromptTokenCount,
				OutputTokens: meta.CandidatesTokenCount,
				TotalTokens:  meta.TotalTokenCount,
			}
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			out.WriteString(part.Text)
		}
	}

	return gemini.Result{Text: strings.TrimSpace(out.String()), Usage: usage}, nil
}

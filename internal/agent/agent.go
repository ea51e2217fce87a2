package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/llm"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// cloudFallback is satisfied by the hybrid router; when the routed
// (local) client errors, the loop retries once on the cloud client.
type cloudFallback interface {
	GetCloud() llm.Client
}

// Agent owns the per-turn dispatch cycle: user text to the model,
// requested operations through the registry, serialized results back
// to the model, final text out.
type Agent struct {
	router       llm.Router
	registry     *Registry
	logger       zerolog.Logger
	maxTurns     int
	systemPrompt string
}

func New(router llm.Router, registry *Registry, logger zerolog.Logger, maxTurns int) *Agent {
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &Agent{
		router:       router,
		registry:     registry,
		logger:       logger,
		maxTurns:     maxTurns,
		systemPrompt: SystemPrompt(time.Now()),
	}
}

// Chat resolves one user turn, chaining tool calls until the model
// emits plain text or the turn bound is hit. Tool failures feed back
// to the model as values; only model-connection errors abort the turn.
func (a *Agent) Chat(ctx context.Context, userMessage string, history []Message) (string, []Message, error) {
	client := a.router.Route(userMessage)
	if client == nil {
		return "", nil, fmt.Errorf("no LLM client available - set ANTHROPIC_API_KEY or ensure Ollama is running")
	}

	a.logger.Info().Str("client", client.Name()).Str("query", truncate(userMessage, 50)).Msg("routing query")

	messages := a.buildMessages(history, userMessage)
	tools := a.registry.Definitions()
	var finalResponse string
	turn := 0

	for turn < a.maxTurns {
		turn++
		a.logger.Debug().Int("turn", turn).Str("client", client.Name()).Msg("agent turn")

		resp, err := client.Chat(ctx, messages, tools, a.systemPrompt)
		if err != nil {
			if fb, ok := a.router.(cloudFallback); ok {
				if cloud := fb.GetCloud(); cloud != nil && cloud != client {
					a.logger.Warn().Err(err).Msg("local model failed, falling back to cloud")
					client = cloud
					continue
				}
			}
			return "", nil, fmt.Errorf("LLM error: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			finalResponse = resp.Content
			history = append(history, Message{Role: "user", Content: userMessage})
			history = append(history, Message{Role: "assistant", Content: resp.Content})
			return finalResponse, history, nil
		}

		assistantContent := resp.Content
		toolCallsJSON, _ := json.Marshal(resp.ToolCalls)
		assistantContent += "\n[Tool calls: " + string(toolCallsJSON) + "]"
		messages = append(messages, llm.Message{Role: "assistant", Content: assistantContent})

		var toolResultsContent string
		for _, tc := range resp.ToolCalls {
			a.logger.Info().Str("tool", tc.Name).Msg("executing tool")

			result := a.registry.Execute(ctx, tc.Name, tc.Input)
			if result.IsFailure() {
				a.logger.Warn().Str("tool", tc.Name).Str("kind", string(result.Kind)).Str("message", result.Message).Msg("tool returned failure")
			}

			serialized, err := json.Marshal(result)
			if err != nil {
				serialized = []byte(fmt.Sprintf(`{"status":"error","kind":"unexpected_error","message":"failed to serialize result: %v"}`, err))
			}

			toolResultsContent += fmt.Sprintf("\n[Tool result for %s (id=%s)]: %s\n", tc.Name, tc.ID, serialized)
		}

		messages = append(messages, llm.Message{Role: "user", Content: toolResultsContent})
	}

	return "", nil, fmt.Errorf("max tool turns (%d) exceeded for this request", a.maxTurns)
}

func (a *Agent) buildMessages(history []Message, currentMessage string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)

	for _, msg := range history {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    "user",
		Content: currentMessage,
	})

	return messages
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

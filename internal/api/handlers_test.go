package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarbagwe/darwinbox-ai-agent/config"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/agent"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/llm"
)

func llmToolDef(name, description string, required []string) llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        name,
		Description: description,
		Parameters:  map[string]any{},
		Required:    required,
	}
}

// stubAgent echoes a canned response and records the history it saw.
type stubAgent struct {
	response    string
	err         error
	lastMessage string
	lastHistory []agent.Message
	calls       int
}

func (s *stubAgent) Chat(ctx context.Context, message string, history []agent.Message) (string, []agent.Message, error) {
	s.calls++
	s.lastMessage = message
	s.lastHistory = history
	if s.err != nil {
		return "", nil, s.err
	}
	newHistory := append(append([]agent.Message{}, history...),
		agent.Message{Role: "user", Content: message},
		agent.Message{Role: "assistant", Content: s.response},
	)
	return s.response, newHistory, nil
}

func newTestServer(ag agent.ChatAgent, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = &config.Config{}
	}
	registry := agent.NewRegistry()
	return NewServer(ag, registry, 0, zerolog.Nop(), cfg)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&stubAgent{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestChatEndpoint(t *testing.T) {
	ag := &stubAgent{response: "Sonali Garg is a Senior Engineer."}
	server := newTestServer(ag, nil)

	body := `{"message":"who is Sonali Garg?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Sonali Garg is a Senior Engineer.", resp.Response)
	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, "who is Sonali Garg?", ag.lastMessage)
}

func TestChatEndpointContinuesConversation(t *testing.T) {
	ag := &stubAgent{response: "ok"}
	server := newTestServer(ag, nil)
	routes := server.Routes()

	first := httptest.NewRecorder()
	routes.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"message":"who is Sonali Garg?"}`)))
	require.Equal(t, http.StatusOK, first.Code)

	var firstResp ChatResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))

	second := httptest.NewRecorder()
	routes.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"conversation_id":"`+firstResp.ConversationID+`","message":"what is her ID?"}`)))
	require.Equal(t, http.StatusOK, second.Code)

	// The second turn sees the stored history from the first.
	require.Len(t, ag.lastHistory, 2)
	assert.Equal(t, "who is Sonali Garg?", ag.lastHistory[0].Content)
}

func TestChatEndpointValidation(t *testing.T) {
	server := newTestServer(&stubAgent{}, nil)
	routes := server.Routes()

	cases := []struct {
		name string
		body string
	}{
		{"empty message", `{"message":""}`},
		{"not json", `hello`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(tc.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestChatEndpointAgentError(t *testing.T) {
	ag := &stubAgent{err: errors.New("LLM error: connection refused")}
	server := newTestServer(ag, nil)

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"message":"hi"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestToolsEndpoint(t *testing.T) {
	server := newTestServer(&stubAgent{}, nil)
	server.registry.Register(agent.Tool{
		Definition: llmToolDef("get_leave_report", "Retrieves leave records", []string{"employee_id"}),
	})

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tools []ToolInfo `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tools, 1)
	assert.Equal(t, "get_leave_report", resp.Tools[0].Name)
	assert.Equal(t, []string{"employee_id"}, resp.Tools[0].Required)
}

func TestAPIKeyMiddleware(t *testing.T) {
	cfg := &config.Config{APIKeyRequired: true, APIKeys: "secret-key"}
	server := newTestServer(&stubAgent{response: "ok"}, cfg)
	routes := server.Routes()

	t.Run("missing key rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat",
			strings.NewReader(`{"message":"hi"}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid key accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set("X-API-Key", "secret-key")
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health stays open", func(t *testing.T) {
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

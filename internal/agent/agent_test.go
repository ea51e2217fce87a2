package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarbagwe/darwinbox-ai-agent/internal/llm"
	"github.com/sagarbagwe/darwinbox-ai-agent/pkg/models"
)

// scriptedClient plays back a fixed sequence of model responses.
type scriptedClient struct {
	name      string
	responses []*llm.Response
	errs      []error
	calls     int
	messages  [][]llm.Message
}

func (s *scriptedClient) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition, systemPrompt string) (*llm.Response, error) {
	idx := s.calls
	s.calls++
	s.messages = append(s.messages, messages)

	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return &llm.Response{Content: "done"}, nil
}

func (s *scriptedClient) Name() string { return s.name }

type fixedRouter struct {
	client llm.Client
	cloud  llm.Client
}

func (r *fixedRouter) Route(query string) llm.Client { return r.client }

func (r *fixedRouter) GetCloud() llm.Client { return r.cloud }

func toolCallResponse(name, id, input string) *llm.Response {
	return &llm.Response{
		ToolCalls: []llm.ToolCall{
			{ID: id, Name: name, Input: json.RawMessage(input)},
		},
		StopReason: "tool_use",
	}
}

func TestChatPlainTextTurn(t *testing.T) {
	client := &scriptedClient{
		name:      "test",
		responses: []*llm.Response{{Content: "Hello! How can I help?"}},
	}
	ag := New(&fixedRouter{client: client}, NewRegistry(), zerolog.Nop(), 5)

	response, history, err := ag.Chat(context.Background(), "hi", nil)

	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", response)
	require.Len(t, history, 2)
	assert.Equal(t, Message{Role: "user", Content: "hi"}, history[0])
	assert.Equal(t, Message{Role: "assistant", Content: "Hello! How can I help?"}, history[1])
}

func TestChatExecutesToolAndRelaysResult(t *testing.T) {
	backend := &stubBackend{}
	registry := NewToolRegistry(backend, zerolog.Nop())

	client := &scriptedClient{
		name: "test",
		responses: []*llm.Response{
			toolCallResponse("get_leave_report", "call_1",
				`{"employee_id":"MMT6765","start_date":"2024-01-01","end_date":"2024-01-31"}`),
			{Content: "MMT6765 took no leaves in January."},
		},
	}
	ag := New(&fixedRouter{client: client}, registry, zerolog.Nop(), 5)

	response, _, err := ag.Chat(context.Background(), "leaves for MMT6765 in Jan 2024", nil)

	require.NoError(t, err)
	assert.Equal(t, "MMT6765 took no leaves in January.", response)
	assert.Equal(t, 1, backend.leaveCalls)
	assert.Equal(t, [3]string{"MMT6765", "2024-01-01", "2024-01-31"}, backend.lastLeaveArgs)

	// Second model call carries the serialized tool result back.
	require.Equal(t, 2, client.calls)
	secondTurn := client.messages[1]
	last := secondTurn[len(secondTurn)-1]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "[Tool result for get_leave_report (id=call_1)]")
	assert.Contains(t, last.Content, `"status":"success"`)
}

func TestChatToolFailureFedBackAsValue(t *testing.T) {
	backend := &stubBackend{
		leaveResult: models.Failure(models.FailureValidation, `invalid employee ID: "x"`),
	}
	registry := NewToolRegistry(backend, zerolog.Nop())

	client := &scriptedClient{
		name: "test",
		responses: []*llm.Response{
			toolCallResponse("get_leave_report", "call_1", `{"employee_id":"x","start_date":"bad","end_date":"bad"}`),
			{Content: "That employee ID looks invalid."},
		},
	}
	// Tool-level failures never abort the turn; the model paraphrases.
	ag := New(&fixedRouter{client: client}, registry, zerolog.Nop(), 5)

	response, _, err := ag.Chat(context.Background(), "leaves for x", nil)

	require.NoError(t, err)
	assert.Equal(t, "That employee ID looks invalid.", response)
	assert.Contains(t, client.messages[1][len(client.messages[1])-1].Content, "validation_error")
}

func TestChatUnknownToolFedBack(t *testing.T) {
	registry := NewToolRegistry(&stubBackend{}, zerolog.Nop())

	client := &scriptedClient{
		name: "test",
		responses: []*llm.Response{
			toolCallResponse("fire_employee", "call_1", `{}`),
			{Content: "I can't do that."},
		},
	}
	ag := New(&fixedRouter{client: client}, registry, zerolog.Nop(), 5)

	response, _, err := ag.Chat(context.Background(), "fire someone", nil)

	require.NoError(t, err)
	assert.Equal(t, "I can't do that.", response)
	assert.Contains(t, client.messages[1][len(client.messages[1])-1].Content, "unknown_operation_error")
}

func TestChatMaxTurnsExceeded(t *testing.T) {
	registry := NewToolRegistry(&stubBackend{}, zerolog.Nop())

	// The model keeps asking for tools and never settles on text.
	loop := toolCallResponse("get_all_employees", "call_n", `{}`)
	client := &scriptedClient{
		name:      "test",
		responses: []*llm.Response{loop, loop, loop, loop, loop},
	}
	ag := New(&fixedRouter{client: client}, registry, zerolog.Nop(), 3)

	_, _, err := ag.Chat(context.Background(), "loop forever", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max tool turns (3) exceeded")
	assert.Equal(t, 3, client.calls)
}

func TestChatCloudFallbackOnLocalFailure(t *testing.T) {
	local := &scriptedClient{
		name: "local",
		errs: []error{errors.New("connection refused")},
	}
	cloud := &scriptedClient{
		name:      "cloud",
		responses: []*llm.Response{{Content: "answered by cloud"}},
	}
	router := &fixedRouter{client: local, cloud: cloud}
	ag := New(router, NewRegistry(), zerolog.Nop(), 5)

	response, _, err := ag.Chat(context.Background(), "hi", nil)

	require.NoError(t, err)
	assert.Equal(t, "answered by cloud", response)
	assert.Equal(t, 1, local.calls)
	assert.Equal(t, 1, cloud.calls)
}

func TestChatNoFallbackAvailable(t *testing.T) {
	client := &scriptedClient{
		name: "local",
		errs: []error{errors.New("connection refused")},
	}
	ag := New(&fixedRouter{client: client}, NewRegistry(), zerolog.Nop(), 5)

	_, _, err := ag.Chat(context.Background(), "hi", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM error")
}

func TestChatNoClientAvailable(t *testing.T) {
	ag := New(&fixedRouter{}, NewRegistry(), zerolog.Nop(), 5)

	_, _, err := ag.Chat(context.Background(), "hi", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM client available")
}

func TestChatHistoryCarriedIntoModelCall(t *testing.T) {
	client := &scriptedClient{
		name:      "test",
		responses: []*llm.Response{{Content: "her ID is MMT6765"}},
	}
	ag := New(&fixedRouter{client: client}, NewRegistry(), zerolog.Nop(), 5)

	history := []Message{
		{Role: "user", Content: "who is Sonali Garg?"},
		{Role: "assistant", Content: "Sonali Garg is a Senior Engineer."},
	}

	_, newHistory, err := ag.Chat(context.Background(), "what is her employee ID?", history)

	require.NoError(t, err)
	require.Len(t, client.messages[0], 3)
	assert.Equal(t, "who is Sonali Garg?", client.messages[0][0].Content)
	assert.Equal(t, "what is her employee ID?", client.messages[0][2].Content)
	assert.Len(t, newHistory, 4)
}

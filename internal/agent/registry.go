package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sagarbagwe/darwinbox-ai-agent/internal/llm"
	"github.com/sagarbagwe/darwinbox-ai-agent/pkg/models"
)

// Handler executes one catalog operation. Handlers are total: every
// outcome, including bad input, comes back as a ToolResult.
type Handler func(ctx context.Context, input json.RawMessage) *models.ToolResult

type Tool struct {
	Definition llm.ToolDefinition
	Handler    Handler
}

// Registry is the fixed catalog of operations the model may request.
// Surfaces that only want part of the catalog take a Subset.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	name := t.Definition.Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Definitions returns the schemas in registration order, for handing
// to the model at session start.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Subset returns a registry exposing only the named operations.
// Unknown names are skipped rather than invented.
func (r *Registry) Subset(names ...string) *Registry {
	sub := NewRegistry()
	for _, name := range names {
		if t, ok := r.tools[name]; ok {
			sub.Register(t)
		}
	}
	return sub
}

// Execute runs one operation by name. A name outside the catalog is a
// failure value, and a panicking handler is caught rather than letting
// the dispatch loop die mid-turn.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (result *models.ToolResult) {
	tool, ok := r.tools[name]
	if !ok {
		return models.Failure(models.FailureUnknownTool, fmt.Sprintf("unknown operation: %s", name))
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = models.Failure(models.FailureUnexpected, fmt.Sprintf("operation %s failed unexpectedly: %v", name, rec))
		}
	}()

	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	return tool.Handler(ctx, input)
}

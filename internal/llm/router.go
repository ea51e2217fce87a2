package llm

import (
	"context"
	"strings"
)

// HybridRouter picks between a local Ollama model and the Claude API
// per query: analytical HR questions go to the cloud model, simple
// lookups can stay local.
type HybridRouter struct {
	localClient *OllamaClient
	cloudClient *ClaudeClient
	preferLocal bool
	localAvail  bool
}

func NewHybridRouter(ollamaURL, ollamaModel, claudeAPIKey, claudeModel string, preferLocal bool) *HybridRouter {
	router := &HybridRouter{
		preferLocal: preferLocal,
	}

	if ollamaURL != "" || preferLocal {
		router.localClient = NewOllamaClient(ollamaURL, ollamaModel)
		router.localAvail = router.localClient.IsAvailable(context.Background())
	}

	if claudeAPIKey != "" {
		router.cloudClient = NewClaudeClient(claudeAPIKey, claudeModel)
	}

	return router
}

func (r *HybridRouter) Route(query string) Client {
	if r.isComplexQuery(query) && r.cloudClient != nil {
		return r.cloudClient
	}

	if r.preferLocal && r.localAvail && r.localClient != nil {
		return r.localClient
	}

	if r.cloudClient != nil {
		return r.cloudClient
	}

	if r.localClient != nil {
		return r.localClient
	}

	return nil
}

func (r *HybridRouter) GetLocal() Client {
	if r.localClient != nil && r.localAvail {
		return r.localClient
	}
	return nil
}

func (r *HybridRouter) GetCloud() Client {
	if r.cloudClient == nil {
		return nil
	}
	return r.cloudClient
}

func (r *HybridRouter) LocalAvailable() bool {
	return r.localAvail
}

func (r *HybridRouter) isComplexQuery(query string) bool {
	query = strings.ToLower(query)

	complexIndicators := []string{
		"analyze",
		"compare",
		"summarize",
		"why",
		"explain",
		"trend",
		"pattern",
		"across the team",
		"across all",
		"last quarter",
		"breakdown",
		"correlate",
		"recommend",
	}

	for _, indicator := range complexIndicators {
		if strings.Contains(query, indicator) {
			return true
		}
	}

	simpleIndicators := []string{
		"list",
		"show",
		"get",
		"who is",
		"what is",
		"how many",
		"email of",
		"manager of",
	}

	for _, indicator := range simpleIndicators {
		if strings.HasPrefix(query, indicator) || strings.Contains(query, indicator) {
			return false
		}
	}

	return len(query) > 100
}

// ForcedClient is a Router that always answers with one client,
// used by the --local and --cloud CLI flags.
type ForcedClient struct {
	client Client
}

func ForceClient(c Client) *ForcedClient {
	return &ForcedClient{client: c}
}

func (f *ForcedClient) Route(query string) Client {
	return f.client
}

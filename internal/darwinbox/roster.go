package darwinbox

import (
	"context"
	"sync"
	"time"

	"github.com/sagarbagwe/darwinbox-ai-agent/pkg/models"
)

// rosterCache holds the last successful all-employees payload. A
// single guarded value with last-writer-wins refresh is enough: the
// fetch is idempotent, so two concurrent refreshes just do redundant
// work.
type rosterCache struct {
	mu        sync.RWMutex
	data      any
	fetchedAt time.Time
	ttl       time.Duration
}

func (rc *rosterCache) get(now time.Time) (any, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	if rc.data == nil || now.Sub(rc.fetchedAt) > rc.ttl {
		return nil, false
	}
	return rc.data, true
}

func (rc *rosterCache) set(data any, now time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.data = data
	rc.fetchedAt = now
}

// RosterEntries fetches the roster (through the cache) and flattens it
// into raw per-employee records. The master API nests the list under a
// "data" key, but a bare top-level array is tolerated too.
func (c *Client) RosterEntries(ctx context.Context) ([]map[string]any, *models.ToolResult) {
	result := c.AllEmployees(ctx)
	if result.IsFailure() {
		return nil, result
	}

	var list []any
	switch v := result.Data.(type) {
	case map[string]any:
		list, _ = v["data"].([]any)
	case []any:
		list = v
	}

	if list == nil {
		return nil, models.Failure(models.FailureNotFound, "no employee data in roster response")
	}

	entries := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if raw, ok := item.(map[string]any); ok {
			entries = append(entries, raw)
		}
	}
	return entries, nil
}

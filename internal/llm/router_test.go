package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func cloudOnlyRouter() *HybridRouter {
	return &HybridRouter{
		cloudClient: NewClaudeClient("test-key", ""),
	}
}

func hybridRouter() *HybridRouter {
	return &HybridRouter{
		localClient: NewOllamaClient("http://localhost:11434", "qwen2.5:7b"),
		cloudClient: NewClaudeClient("test-key", ""),
		preferLocal: true,
		localAvail:  true,
	}
}

func TestRouteComplexQueriesGoToCloud(t *testing.T) {
	router := hybridRouter()

	complex := []string{
		"analyze leave patterns across the team",
		"compare attendance between January and February",
		"why did absences spike last quarter?",
	}
	for _, q := range complex {
		assert.True(t, strings.HasPrefix(router.Route(q).Name(), "claude/"), q)
	}
}

func TestRouteSimpleQueriesStayLocal(t *testing.T) {
	router := hybridRouter()

	simple := []string{
		"who is Sonali Garg?",
		"get leave report for MMT6765",
		"how many employees do we have?",
	}
	for _, q := range simple {
		assert.True(t, strings.HasPrefix(router.Route(q).Name(), "ollama/"), q)
	}
}

func TestRouteFallsBackToCloudWithoutLocal(t *testing.T) {
	router := cloudOnlyRouter()
	assert.True(t, strings.HasPrefix(router.Route("who is Sonali Garg?").Name(), "claude/"))
}

func TestRouteNothingConfigured(t *testing.T) {
	router := &HybridRouter{}
	assert.Nil(t, router.Route("hello"))
}

func TestGetCloudNilWhenUnconfigured(t *testing.T) {
	router := &HybridRouter{}
	assert.Nil(t, router.GetCloud())

	assert.NotNil(t, cloudOnlyRouter().GetCloud())
}

func TestGetLocalRequiresAvailability(t *testing.T) {
	router := &HybridRouter{
		localClient: NewOllamaClient("http://localhost:11434", "qwen2.5:7b"),
		localAvail:  false,
	}
	assert.Nil(t, router.GetLocal())
}

func TestForceClient(t *testing.T) {
	cloud := NewClaudeClient("test-key", "")
	forced := ForceClient(cloud)

	assert.True(t, strings.HasPrefix(forced.Route("analyze everything").Name(), "claude/"))
	assert.True(t, strings.HasPrefix(forced.Route("who is Sonali?").Name(), "claude/"))
}

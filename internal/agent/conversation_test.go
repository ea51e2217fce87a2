package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationStoreLifecycle(t *testing.T) {
	store := NewConversationStore()

	conv := store.Create("conv-1")
	require.NotNil(t, conv)
	assert.Empty(t, conv.Messages)

	store.Update("conv-1", []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})

	got := store.Get("conv-1")
	require.NotNil(t, got)
	assert.Len(t, got.Messages, 2)

	assert.Nil(t, store.Get("conv-missing"))

	store.Delete("conv-1")
	assert.Nil(t, store.Get("conv-1"))
}

func TestConversationStoreUpdateUnknownIDIsNoop(t *testing.T) {
	store := NewConversationStore()
	store.Update("never-created", []Message{{Role: "user", Content: "hi"}})
	assert.Nil(t, store.Get("never-created"))
}

func TestConversationStoreCleanup(t *testing.T) {
	store := NewConversationStore()

	stale := store.Create("stale")
	stale.UpdatedAt = time.Now().Add(-2 * time.Hour)
	store.Create("fresh")

	store.Cleanup(time.Hour)

	assert.Nil(t, store.Get("stale"))
	assert.NotNil(t, store.Get("fresh"))
}

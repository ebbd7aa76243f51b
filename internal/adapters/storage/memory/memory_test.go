package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/mul/internal/adapters/storage/memory"
	"github.com/PabloGalante/mul/internal/domain"
)

func TestMessageStoreSealsStreamingMessage(t *testing.T) {
	s := memory.NewMessageStore()

	require.NoError(t, s.AppendMessage(&domain.ChatMessage{ID: "u1", Sender: domain.SenderUser, Text: "hi"}))
	require.NoError(t, s.AppendMessage(&domain.ChatMessage{ID: "a1", Sender: domain.SenderAssistant, Streaming: true}))

	require.NoError(t, s.UpdateMessage("a1", "Hel", true))
	require.NoError(t, s.UpdateMessage("a1", "Hello", false))
	assert.Error(t, s.UpdateMessage("a1", "changed", false), "final messages are immutable")
	assert.Error(t, s.UpdateMessage("u1", "edit", false))
	assert.Error(t, s.UpdateMessage("missing", "x", false))
	assert.Error(t, s.AppendMessage(&domain.ChatMessage{ID: "u1"}))

	msgs, err := s.ListMessages(0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello", msgs[1].Text)
	assert.False(t, msgs[1].Streaming)

	last, err := s.ListMessages(1)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageID("a1"), last[0].ID)
}

func TestTodoStoreOrderToggleDelete(t *testing.T) {
	s := memory.NewTodoStore()

	require.NoError(t, s.PrependTodos([]*domain.TodoItem{{Text: "old"}}))
	require.NoError(t, s.PrependTodos([]*domain.TodoItem{{Text: "new 1"}, {Text: "new 2"}}))

	items, err := s.ListTodos()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"new 1", "new 2", "old"}, []string{items[0].Text, items[1].Text, items[2].Text})
	assert.NotEmpty(t, items[0].ID)

	it, err := s.ToggleTodo(items[2].ID)
	require.NoError(t, err)
	assert.True(t, it.Completed)
	it, err = s.ToggleTodo(items[2].ID)
	require.NoError(t, err)
	assert.False(t, it.Completed)

	require.NoError(t, s.DeleteTodo(items[1].ID))
	assert.ErrorIs(t, s.DeleteTodo(items[1].ID), domain.ErrTodoNotFound)
	_, err = s.ToggleTodo("nope")
	assert.ErrorIs(t, err, domain.ErrTodoNotFound)

	items, _ = s.ListTodos()
	assert.Len(t, items, 2)
}

func TestJournalStoreNewestFirst(t *testing.T) {
	s := memory.NewJournalStore()

	require.NoError(t, s.PrependJournalEntry(&domain.JournalEntry{Text: "first"}))
	require.NoError(t, s.PrependJournalEntry(&domain.JournalEntry{Text: "second"}))

	all, err := s.ListJournalEntries(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Text)
	assert.NotEmpty(t, all[0].ID)

	one, err := s.ListJournalEntries(1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

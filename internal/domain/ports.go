package domain

import (
	"context"
	"iter"
)

// LLMClient defines how the core application talks to the hosted model.
type LLMClient interface {
	StartChat(ctx context.Context, cfg ChatConfig) (ChatSession, error)
	GenerateStructured(ctx context.Context, req StructuredRequest) (string, error)
}

// ChatSession is one ongoing conversation with the model. Implementations
// need not be safe for concurrent sends.
type ChatSession interface {
	// SendStream yields reply text deltas in order. A non-nil error ends the stream.
	SendStream(ctx context.Context, text string) iter.Seq2[string, error]
}

// ChatConfig tunes sampling. The persona itself belongs to the adapter.
type ChatConfig struct {
	Temperature    float32
	CandidateCount int32
}

// ResponseShape names the JSON document a structured request must return.
type ResponseShape string

const (
	ShapeIntervention ResponseShape = "intervention"
	ShapeTaskList     ResponseShape = "task_list"
)

// StructuredRequest asks for a JSON document of Shape about the user's Input.
type StructuredRequest struct {
	Shape ResponseShape
	Input string
}

// MessageStore holds the chat log in display order.
type MessageStore interface {
	AppendMessage(msg *ChatMessage) error
	UpdateMessage(id MessageID, text string, streaming bool) error
	ListMessages(limit int) ([]ChatMessage, error)
}

// TodoStore holds todos newest first.
type TodoStore interface {
	PrependTodos(items []*TodoItem) error
	ToggleTodo(id TodoID) (*TodoItem, error)
	DeleteTodo(id TodoID) error
	ListTodos() ([]TodoItem, error)
}

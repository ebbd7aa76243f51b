package llm

import (
	"context"
	"encoding/json"
	"iter"
	"strings"

	"github.com/PabloGalante/mul/internal/domain"
)

// MockLLM is an offline stand-in for local development. It never calls out
// and keeps Mul's voice with a few canned replies.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) StartChat(ctx context.Context, cfg domain.ChatConfig) (domain.ChatSession, error) {
	return &mockChat{}, nil
}

func (m *MockLLM) GenerateStructured(ctx context.Context, req domain.StructuredRequest) (string, error) {
	var v any
	switch req.Shape {
	case domain.ShapeIntervention:
		v = mockAnalysis(req.Input)
	case domain.ShapeTaskList:
		v = []string{"Drink a glass of water", "Stretch for 1 min", "Look at the sky"}
	default:
		v = map[string]any{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func mockAnalysis(text string) domain.InterventionSuggestion {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "anxious") || strings.Contains(lower, "panic"):
		return domain.InterventionSuggestion{Mood: domain.MoodCalm, Reasoning: "Anxiety detected", RecommendedMode: domain.ModeBreathing}
	case strings.Contains(lower, "busy") || strings.Contains(lower, "tasks"):
		return domain.InterventionSuggestion{Mood: domain.MoodThinking, Reasoning: "Too many tasks", RecommendedMode: domain.ModeTodo}
	case strings.Contains(lower, "sad") || strings.Contains(lower, "tired"):
		return domain.InterventionSuggestion{Mood: domain.MoodSad, Reasoning: "Detected low mood", RecommendedMode: domain.ModeJournal}
	default:
		return domain.InterventionSuggestion{Mood: domain.MoodHappy, Reasoning: "Gentle chat", RecommendedMode: domain.ModeChat}
	}
}

type mockChat struct{}

func (c *mockChat) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	reply := "I hear you… like a ripple reaching the shore. I'm right here, flowing with you."
	return func(yield func(string, error) bool) {
		for _, word := range strings.SplitAfter(reply, " ") {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(word, nil) {
				return
			}
		}
	}
}

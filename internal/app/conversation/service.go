package conversation

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
	"github.com/PabloGalante/mul/internal/observability"
)

// Fallback replies, spoken in Mul's voice so a failure still reads like a
// normal message.
const (
	ConnectFallback = "I'm having a little trouble connecting to the stream..."
	ErrorFallback   = "Oh no... the water is a bit murky right now. Can we try again?"
)

// Service is the single gateway to the model: one chat session plus the
// two structured side requests.
type Service struct {
	llm domain.LLMClient

	// mu guards chat and serializes sends on it.
	mu   sync.Mutex
	chat domain.ChatSession
}

// NewService wraps llm. A nil llm means no credentials were configured; the
// service then answers every call with its fallbacks.
func NewService(llm domain.LLMClient) *Service {
	return &Service{llm: llm}
}

// InitializeSession opens the chat session once. Later calls are no-ops
// after a success.
func (s *Service) InitializeSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

func (s *Service) initLocked(ctx context.Context) error {
	if s.chat != nil {
		return nil
	}

	log := observability.LoggerFromContext(ctx).With("component", "conversation")
	if s.llm == nil {
		log.Warn("model credentials missing, replies will use fallbacks")
		return domain.ErrMissingCredentials
	}

	chat, err := s.llm.StartChat(ctx, domain.ChatConfig{
		Temperature:    config.ChatTemperature,
		CandidateCount: config.ChatCandidateCount,
	})
	if err != nil {
		log.Error("failed to start chat session", "error", err)
		return err
	}

	s.chat = chat
	log.Info("chat session ready")
	return nil
}

// SendMessageStream sends message and calls onChunk with the reply so far
// each time more text arrives. It returns the final reply. Failures are
// reported as a single fallback sentence through onChunk and returned.
func (s *Service) SendMessageStream(ctx context.Context, message string, onChunk func(string)) string {
	if onChunk == nil {
		onChunk = func(string) {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("component", "conversation")

	if s.chat == nil {
		_ = s.initLocked(ctx)
	}
	if s.chat == nil {
		onChunk(ConnectFallback)
		return ConnectFallback
	}

	var reply strings.Builder
	for delta, err := range s.chat.SendStream(ctx, message) {
		if err != nil {
			log.Error("reply stream failed", "error", err, "received_chars", reply.Len())
			onChunk(ErrorFallback)
			return ErrorFallback
		}
		reply.WriteString(delta)
		onChunk(reply.String())
	}

	if reply.Len() == 0 {
		log.Warn("reply stream ended empty")
		onChunk(ErrorFallback)
		return ErrorFallback
	}
	return reply.String()
}

// AnalyzeMoodAndIntervention asks the model how the user seems and which
// mode would help. Any failure, including a response that does not
// validate, returns nil.
func (s *Service) AnalyzeMoodAndIntervention(ctx context.Context, message string) *domain.InterventionSuggestion {
	log := observability.LoggerFromContext(ctx).With("component", "conversation", "request", "analysis")

	doc, ok := s.structured(ctx, domain.ShapeIntervention, message)
	if !ok {
		return nil
	}

	var out domain.InterventionSuggestion
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		log.Warn("analysis is not an object", "error", err)
		return nil
	}
	out.Mood = domain.Mood(strings.ToLower(strings.TrimSpace(string(out.Mood))))
	out.RecommendedMode = domain.AppMode(strings.ToUpper(strings.TrimSpace(string(out.RecommendedMode))))
	out.Reasoning = strings.TrimSpace(out.Reasoning)

	if err := validate.Struct(out); err != nil {
		log.Warn("analysis failed validation", "error", err)
		return nil
	}
	return &out
}

// GenerateGentleTodos asks for three to five small tasks fitting the
// message's mood. Any failure returns an empty slice.
func (s *Service) GenerateGentleTodos(ctx context.Context, message string) []string {
	log := observability.LoggerFromContext(ctx).With("component", "conversation", "request", "todos")

	doc, ok := s.structured(ctx, domain.ShapeTaskList, message)
	if !ok {
		return []string{}
	}

	var list taskList
	if err := json.Unmarshal([]byte(doc), &list.Tasks); err != nil {
		log.Warn("todos are not a string array", "error", err)
		return []string{}
	}
	for i, task := range list.Tasks {
		list.Tasks[i] = strings.TrimSpace(task)
	}

	if err := validate.Struct(list); err != nil {
		log.Warn("todos failed validation", "error", err, "count", len(list.Tasks))
		return []string{}
	}
	return list.Tasks
}

func (s *Service) structured(ctx context.Context, shape domain.ResponseShape, message string) (string, bool) {
	if s.llm == nil {
		return "", false
	}

	log := observability.LoggerFromContext(ctx).With("component", "conversation", "shape", shape)

	raw, err := s.llm.GenerateStructured(ctx, domain.StructuredRequest{Shape: shape, Input: message})
	if err != nil {
		log.Warn("structured request failed", "error", err)
		return "", false
	}

	doc, ok := ExtractJSON(raw)
	if !ok {
		log.Warn("no JSON in structured response", "chars", len(raw))
		return "", false
	}
	return doc, true
}

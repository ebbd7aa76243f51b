package companion

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
	"github.com/PabloGalante/mul/internal/observability"
)

// ReasoningPlaceholder shows while the model reads a turn.
const ReasoningPlaceholder = "✨ Sensing your ripples..."

var (
	sadWords     = regexp.MustCompile(`(?i)\b(sad|cry|lonely|hurt|pain|grief|bad|awful|sorrow|drained|tired|exhausted)\b`)
	calmWords    = regexp.MustCompile(`(?i)\b(calm|breathe|relax|peace|quiet|still|zen|slow)\b`)
	curiousWords = regexp.MustCompile(`(?i)\b(why|what|how|where|who)\b|\?`)
)

// HeuristicMood is the instant local guess made before the model answers.
func HeuristicMood(text string) domain.Mood {
	switch {
	case sadWords.MatchString(text):
		return domain.MoodSad
	case calmWords.MatchString(text):
		return domain.MoodCalm
	case curiousWords.MatchString(text):
		return domain.MoodCurious
	default:
		return domain.MoodHappy
	}
}

var moodChimes = map[domain.Mood]float64{
	domain.MoodSad:     300,
	domain.MoodCalm:    440,
	domain.MoodCurious: 600,
	domain.MoodHappy:   600,
}

// SendText runs one chat turn. The reply streams into a placeholder message
// while the model's analysis of the same text runs alongside it. onChunk
// receives the reply so far and may be nil. The final reply is returned.
func (s *Session) SendText(ctx context.Context, text string, onChunk func(string)) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyMessage
	}
	if onChunk == nil {
		onChunk = func(string) {}
	}

	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	if s.typing {
		s.mu.Unlock()
		return "", domain.ErrTurnInProgress
	}

	now := s.clock.Now()
	if err := s.messages.AppendMessage(&domain.ChatMessage{
		ID:        domain.MessageID(uuid.NewString()),
		Sender:    domain.SenderUser,
		Text:      text,
		CreatedAt: now,
	}); err != nil {
		s.mu.Unlock()
		return "", err
	}
	replyID := domain.MessageID(uuid.NewString())
	if err := s.messages.AppendMessage(&domain.ChatMessage{
		ID:        replyID,
		Sender:    domain.SenderAssistant,
		Streaming: true,
		CreatedAt: now,
	}); err != nil {
		s.mu.Unlock()
		return "", err
	}

	s.typing = true
	s.showTodoLink = false
	s.suggestion = ""
	s.timers.cancel(slotReset)
	s.reasoning = ReasoningPlaceholder

	initial := HeuristicMood(text)
	if initial == domain.MoodHappy {
		s.mood = domain.MoodThinking
	} else {
		s.mood = initial
	}
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("component", "companion", "reply_id", replyID)
	log.Info("turn started", "heuristic_mood", initial)

	ctx, cancel := context.WithTimeout(ctx, config.TurnTimeout)
	defer cancel()

	// applied is guarded by s.mu.
	var (
		reply   string
		applied bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reply = s.conv.SendMessageStream(gctx, text, func(chunk string) {
			s.mu.Lock()
			if !s.closed {
				if err := s.messages.UpdateMessage(replyID, chunk, true); err != nil {
					log.Warn("failed to update streaming reply", "error", err)
				}
				if !initial.Settled() && !applied {
					s.mood = domain.MoodListening
				}
			}
			s.mu.Unlock()
			onChunk(chunk)
		})
		return nil
	})
	g.Go(func() error {
		s.analyze(gctx, text, &applied)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return reply, domain.ErrSessionClosed
	}
	if err := s.messages.UpdateMessage(replyID, reply, false); err != nil {
		log.Warn("failed to finalize reply", "error", err)
	}
	s.typing = false
	s.after(slotReset, config.SuggestionDisplay, s.clearSuggestion)

	log.Info("turn finished", "reply_chars", len(reply), "mood", s.mood, "suggestion", s.suggestion)
	return reply, nil
}

// analyze applies the model's read of text. When it recommends a plan, the
// gentle todos are generated here too, after the read is applied.
func (s *Session) analyze(ctx context.Context, text string, applied *bool) {
	result := s.conv.AnalyzeMoodAndIntervention(ctx, text)
	if result == nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	*applied = true
	s.mood = result.Mood
	s.reasoning = "🌊 " + result.Reasoning
	if pitch, ok := moodChimes[result.Mood]; ok {
		s.sound.PlayChime(pitch)
	}
	if result.RecommendedMode != domain.ModeChat {
		s.suggestion = result.RecommendedMode
	}
	s.mu.Unlock()

	if result.RecommendedMode != domain.ModeTodo {
		return
	}

	tasks := s.conv.GenerateGentleTodos(ctx, text)
	if len(tasks) == 0 {
		return
	}

	items := make([]*domain.TodoItem, len(tasks))
	for i, t := range tasks {
		items[i] = &domain.TodoItem{
			ID:          domain.TodoID(uuid.NewString()),
			Text:        t,
			MoodContext: result.Mood,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if err := s.todos.PrependTodos(items); err != nil {
		observability.LoggerFromContext(ctx).Warn("failed to store gentle todos", "error", err)
		return
	}
	s.showTodoLink = true
}

// clearSuggestion ends the display window of a turn's analysis. A settled
// mood stays.
func (s *Session) clearSuggestion() {
	s.reasoning = ""
	s.suggestion = ""
	if !s.mood.Settled() {
		s.mood = domain.MoodHappy
	}
}

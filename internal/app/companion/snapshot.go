package companion

import (
	"github.com/PabloGalante/mul/internal/app/exercise"
	"github.com/PabloGalante/mul/internal/audio"
	"github.com/PabloGalante/mul/internal/domain"
)

type Suggestion struct {
	Mode  domain.AppMode `json:"mode"`
	Label string         `json:"label"`
}

// Snapshot is a copy of everything on screen. It shares nothing with the
// session.
type Snapshot struct {
	Started    bool           `json:"started"`
	View       string         `json:"view"`
	Mode       domain.AppMode `json:"mode"`
	Night      bool           `json:"night"`
	Muted      bool           `json:"muted"`
	DayAmbient audio.Kind     `json:"day_ambient"`

	Mood         domain.Mood `json:"mood"`
	Reasoning    string      `json:"reasoning,omitempty"`
	Suggestion   *Suggestion `json:"suggestion,omitempty"`
	ShowTodoLink bool        `json:"show_todo_link"`
	Typing       bool        `json:"typing"`

	Messages    []domain.ChatMessage `json:"messages"`
	Todos       []domain.TodoItem    `json:"todos"`
	Hydration   domain.Hydration     `json:"hydration"`
	FillPercent int                  `json:"fill_percent"`

	Breathing     *exercise.BreathingState `json:"breathing,omitempty"`
	Grounding     *exercise.GroundingState `json:"grounding,omitempty"`
	JournalPrompt string                   `json:"journal_prompt"`
}

func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return Snapshot{}, err
	}

	msgs, err := s.messages.ListMessages(0)
	if err != nil {
		return Snapshot{}, err
	}
	todos, err := s.todos.ListTodos()
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Started:       s.started,
		View:          s.view.Displayed(),
		Mode:          s.view.Mode(),
		Night:         s.view.IsNight(),
		Muted:         s.muted,
		DayAmbient:    s.dayAmbient,
		Mood:          s.mood,
		Reasoning:     s.reasoning,
		ShowTodoLink:  s.showTodoLink,
		Typing:        s.typing,
		Messages:      msgs,
		Todos:         todos,
		Hydration:     s.hydration,
		FillPercent:   s.hydration.FillPercent(),
		JournalPrompt: s.journal.CurrentPrompt(),
	}

	if s.view.IsNight() {
		snap.Mood = domain.MoodSleeping
	}
	if s.suggestion != "" {
		snap.Suggestion = &Suggestion{Mode: s.suggestion, Label: suggestionLabels[s.suggestion]}
	}
	if showing(s.view, domain.ModeBreathing) {
		st := s.breathing.State()
		snap.Breathing = &st
	}
	if showing(s.view, domain.ModeGrounding) {
		st := s.grounding.State()
		snap.Grounding = &st
	}
	return snap, nil
}

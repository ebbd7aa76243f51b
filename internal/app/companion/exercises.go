package companion

import (
	"context"
	"strings"

	"github.com/PabloGalante/mul/internal/app/exercise"
	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
)

// Breathing

func (s *Session) startBreathing() {
	s.breathing.Reset()
	s.sound.PlayChime(s.breathing.Chime())
	s.scheduleBreath()
}

func (s *Session) scheduleBreath() {
	s.after(slotBreathing, config.BreathingTick, func() {
		if s.breathing.Tick() {
			s.sound.PlayChime(s.breathing.Chime())
		}
		s.scheduleBreath()
	})
}

// ExitBreathing returns from the breathing screen to chat.
func (s *Session) ExitBreathing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if !showing(s.view, domain.ModeBreathing) {
		return domain.ErrWrongScreen
	}
	s.navigate(domain.ModeChat)
	return nil
}

// Grounding

// AdvanceGrounding records one tap on the grounding screen. The tap that
// finishes the last step returns to chat.
func (s *Session) AdvanceGrounding() (exercise.GroundingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return exercise.GroundingState{}, err
	}
	if !showing(s.view, domain.ModeGrounding) {
		return s.grounding.State(), domain.ErrWrongScreen
	}

	s.sound.PlayChime(s.grounding.Chime())
	if s.grounding.Advance() {
		state := s.grounding.State()
		s.log.Info("grounding completed")
		s.navigate(domain.ModeChat)
		return state, nil
	}
	return s.grounding.State(), nil
}

// Todos

// ToggleTodo flips a todo. Completing one plays a bright chime.
func (s *Session) ToggleTodo(id domain.TodoID) (*domain.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return nil, err
	}
	item, err := s.todos.ToggleTodo(id)
	if err != nil {
		return nil, err
	}
	if item.Completed {
		s.sound.PlayChime(600 + s.rng.Float64()*200)
	}
	return item, nil
}

func (s *Session) DeleteTodo(id domain.TodoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	return s.todos.DeleteTodo(id)
}

// Journal

// SaveJournal writes an entry under the current prompt. A fresh prompt is
// offered shortly after.
func (s *Session) SaveJournal(ctx context.Context, text string) (*domain.JournalEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyJournalText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return nil, err
	}
	entry, err := s.journal.Save(ctx, text)
	if err != nil {
		return nil, err
	}
	s.sound.PlayChime(523.25)
	s.after(slotJournal, config.JournalPromptDelay, func() {
		s.journal.RotatePrompt()
	})
	return entry, nil
}

// Journal returns saved entries grouped by day, newest first.
func (s *Session) Journal(ctx context.Context, limit int) ([]domain.JournalDay, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.journal.GetJournal(ctx, limit)
}

// Night

// NightSummary gathers the day's reflection: water drunk, completed todos
// and any gratitude already saved.
func (s *Session) NightSummary() (domain.NightSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return domain.NightSummary{}, err
	}
	todos, err := s.todos.ListTodos()
	if err != nil {
		return domain.NightSummary{}, err
	}

	done := []*domain.TodoItem{}
	for i := range todos {
		if todos[i].Completed {
			done = append(done, &todos[i])
		}
	}
	return domain.NightSummary{
		WaterLevel:     s.hydration.Level,
		CompletedTodos: done,
		Gratitude:      s.gratitude,
		Saved:          s.gratitudeSaved,
	}, nil
}

// SaveGratitude keeps three things the user is grateful for. Blank lines
// are allowed.
func (s *Session) SaveGratitude(items [3]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	s.gratitude = items
	s.gratitudeSaved = true
	return nil
}

func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guard()
}

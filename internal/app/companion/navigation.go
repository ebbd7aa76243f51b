package companion

import (
	"fmt"

	"github.com/PabloGalante/mul/internal/audio"
	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
)

var suggestionLabels = map[domain.AppMode]string{
	domain.ModeBreathing: "Take a slow breath?",
	domain.ModeGrounding: "Try a grounding moment?",
	domain.ModeJournal:   "Write this feeling down?",
	domain.ModeTodo:      "Make a gentle plan?",
}

// SwitchMode navigates to a day mode. Journal and grounding end the night
// first; any other mode picked at night only changes where night resumes.
func (s *Session) SwitchMode(mode domain.AppMode) error {
	if _, err := domain.ParseAppMode(string(mode)); err != nil {
		return fmt.Errorf("switch to %q: %w", mode, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.navigate(mode)
	return nil
}

// AcceptSuggestion follows the current turn's recommendation.
func (s *Session) AcceptSuggestion() (domain.AppMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return "", err
	}
	if s.suggestion == "" {
		return "", domain.ErrNoSuggestion
	}
	mode := s.suggestion
	s.navigate(mode)
	return mode, nil
}

func (s *Session) navigate(mode domain.AppMode) {
	prev := s.view
	switch {
	case !prev.IsNight():
		s.view = domain.DayView(mode)
	case mode == domain.ModeJournal || mode == domain.ModeGrounding:
		s.view = domain.DayView(mode)
		s.syncAmbient()
	default:
		s.view = domain.NightView(mode)
	}
	s.suggestion = ""
	s.viewChanged(prev)
	s.log.Info("mode switched", "from", prev.Displayed(), "to", s.view.Displayed())
}

// ToggleNight swaps between the day screen and the night summary.
func (s *Session) ToggleNight() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return false, err
	}
	prev := s.view
	s.view = prev.Toggled()
	s.syncAmbient()
	s.viewChanged(prev)
	return s.view.IsNight(), nil
}

// ToggleMute silences or resumes the ambient. The view is untouched.
func (s *Session) ToggleMute() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return false, err
	}
	s.muted = !s.muted
	s.syncAmbient()
	return s.muted, nil
}

// SetDayAmbient picks the daytime texture, swapping it live when it is
// the one playing.
func (s *Session) SetDayAmbient(kind audio.Kind) error {
	if kind != audio.KindWater && kind != audio.KindRain {
		return fmt.Errorf("%q is not a day ambient", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if s.dayAmbient == kind {
		return nil
	}
	s.dayAmbient = kind
	if !s.view.IsNight() {
		s.syncAmbient()
	}
	return nil
}

// showing reports whether mode's screen is displayed in v.
func showing(v domain.View, mode domain.AppMode) bool {
	return !v.IsNight() && v.Mode() == mode
}

// viewChanged starts or stops exercises whose screen appeared or went away.
func (s *Session) viewChanged(prev domain.View) {
	was, is := showing(prev, domain.ModeBreathing), showing(s.view, domain.ModeBreathing)
	switch {
	case was && !is:
		s.timers.cancel(slotBreathing)
	case !was && is:
		s.startBreathing()
	}

	if !showing(prev, domain.ModeGrounding) && showing(s.view, domain.ModeGrounding) {
		s.grounding.Reset()
	}
}

// Boop pokes the avatar. Pokes inside the cooldown are ignored and report
// false.
func (s *Session) Boop() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return false, err
	}
	if s.booped {
		return false, nil
	}
	s.booped = true
	s.sound.PlayBoop()
	s.after(slotBoop, config.BoopCooldown, func() { s.booped = false })
	return true, nil
}

func (s *Session) Hover() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.sound.PlayHover()
	return nil
}

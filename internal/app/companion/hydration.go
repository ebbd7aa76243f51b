package companion

import (
	"github.com/google/uuid"

	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
)

// HydrationReminder is appended when the user has gone a while without water.
const HydrationReminder = "Gentle ripple... I noticed it's been a little while. Maybe a sip of cool water would feel nice for your body? 💧"

// Drink counts one glass. The eighth glass makes Mul celebrate for a moment;
// after that drinking is a no-op until the session ends.
func (s *Session) Drink() (domain.Hydration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return s.hydration, err
	}
	if s.hydration.Full() {
		return s.hydration, nil
	}

	s.hydration.Level++
	s.hydration.LastDrink = s.clock.Now()
	s.sound.PlayWaterPour()

	if s.hydration.Level == domain.MaxWaterLevel {
		s.mood = domain.MoodCelebrating
		s.after(slotCelebration, config.CelebrationDuration, func() {
			s.mood = domain.MoodHappy
		})
	}

	s.log.Info("water drunk", "level", s.hydration.Level)
	return s.hydration, nil
}

// CheckHydration posts a gentle reminder when the last glass was at least
// the configured interval ago and the day is not full yet. The reminder
// restarts the interval. It runs on the cron schedule.
func (s *Session) CheckHydration() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.hydration.Full() {
		return
	}

	now := s.clock.Now()
	if now.Sub(s.hydration.LastDrink) < s.hydrationInterval {
		return
	}
	s.hydration.LastDrink = now

	err := s.messages.AppendMessage(&domain.ChatMessage{
		ID:        domain.MessageID(uuid.NewString()),
		Sender:    domain.SenderAssistant,
		Text:      HydrationReminder,
		CreatedAt: now,
	})
	if err != nil {
		s.log.Warn("failed to append hydration reminder", "error", err)
		return
	}
	s.sound.PlayChime(440)
	s.log.Info("hydration reminder sent", "level", s.hydration.Level)
}

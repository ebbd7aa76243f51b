// Package companion is the interaction controller. A Session owns every
// piece of state the companion shows and reacts to user actions on it.
package companion

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/PabloGalante/mul/internal/app/exercise"
	"github.com/PabloGalante/mul/internal/app/journal"
	"github.com/PabloGalante/mul/internal/audio"
	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
	"github.com/PabloGalante/mul/internal/observability"
)

// Greeting is Mul's first message once the session starts.
const Greeting = "Hello friend... I’m Mul. I’m happy to flow with you today. How is your heart feeling?"

// Conversation is what the session needs from the model gateway.
type Conversation interface {
	SendMessageStream(ctx context.Context, message string, onChunk func(string)) string
	AnalyzeMoodAndIntervention(ctx context.Context, message string) *domain.InterventionSuggestion
	GenerateGentleTodos(ctx context.Context, message string) []string
}

// SoundPlayer is implemented by *audio.Engine.
type SoundPlayer interface {
	PlayAmbient(kind audio.Kind)
	Stop()
	PlayChime(pitch float64)
	PlayBoop()
	PlayHover()
	PlayWaterPour()
}

// Deps are the collaborators of a Session. Clock, Cron, Rand and Logger
// are optional.
type Deps struct {
	Conversation Conversation
	Sound        SoundPlayer
	Messages     domain.MessageStore
	Todos        domain.TodoStore
	Journal      *journal.Service

	Clock  Clock
	Cron   *cron.Cron
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Session is the single companion session. A single mutex serializes
// every mutation, including timer callbacks.
type Session struct {
	conv     Conversation
	sound    SoundPlayer
	messages domain.MessageStore
	todos    domain.TodoStore
	journal  *journal.Service
	clock    Clock
	cron     *cron.Cron
	log      *slog.Logger

	hydrationInterval time.Duration

	mu     sync.Mutex
	timers *timers
	rng    *rand.Rand
	closed bool

	started bool
	entryID cron.EntryID

	view       domain.View
	muted      bool
	dayAmbient audio.Kind

	mood         domain.Mood
	reasoning    string
	suggestion   domain.AppMode
	showTodoLink bool
	typing       bool

	hydration domain.Hydration
	booped    bool

	breathing *exercise.Breathing
	grounding *exercise.Grounding

	gratitude      [3]string
	gratitudeSaved bool
}

// NewSession builds a session in the intro state. When deps.Cron is set the
// hydration check is registered on it with cfg.HydrationCheck; the caller
// owns starting and stopping the scheduler.
func NewSession(cfg *config.Config, deps Deps) (*Session, error) {
	if deps.Conversation == nil || deps.Sound == nil {
		return nil, fmt.Errorf("companion: conversation and sound are required")
	}
	if deps.Messages == nil || deps.Todos == nil || deps.Journal == nil {
		return nil, fmt.Errorf("companion: stores are required")
	}
	if deps.Clock == nil {
		deps.Clock = RealClock()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Logger == nil {
		deps.Logger = observability.Logger()
	}

	s := &Session{
		conv:              deps.Conversation,
		sound:             deps.Sound,
		messages:          deps.Messages,
		todos:             deps.Todos,
		journal:           deps.Journal,
		clock:             deps.Clock,
		cron:              deps.Cron,
		log:               deps.Logger.With("component", "companion"),
		hydrationInterval: cfg.HydrationInterval,
		timers:            newTimers(deps.Clock),
		rng:               deps.Rand,
		view:              domain.DayView(domain.ModeChat),
		dayAmbient:        audio.KindWater,
		mood:              domain.MoodHappy,
		hydration: domain.Hydration{
			Level:     min(max(cfg.InitialWaterLevel, 0), domain.MaxWaterLevel),
			LastDrink: deps.Clock.Now(),
		},
		breathing: exercise.NewBreathing(),
		grounding: exercise.NewGrounding(),
	}

	if s.cron != nil {
		id, err := s.cron.AddFunc(cfg.HydrationCheck, s.CheckHydration)
		if err != nil {
			return nil, fmt.Errorf("schedule hydration check %q: %w", cfg.HydrationCheck, err)
		}
		s.entryID = id
	}

	return s, nil
}

// Start leaves the intro screen: the day ambient begins and Mul greets the
// user. Calling it again does nothing.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.started {
		return nil
	}
	s.started = true

	err := s.messages.AppendMessage(&domain.ChatMessage{
		ID:        domain.MessageID(uuid.NewString()),
		Sender:    domain.SenderAssistant,
		Text:      Greeting,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("append greeting: %w", err)
	}

	s.syncAmbient()
	s.log.Info("session started", "water_level", s.hydration.Level)
	return nil
}

// Close cancels every pending timer, leaves the hydration schedule and
// stops sound. Later callbacks and actions are no-ops or fail with
// domain.ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.timers.cancelAll()
	if s.cron != nil {
		s.cron.Remove(s.entryID)
	}
	s.sound.Stop()
	s.log.Info("session closed")
}

// after arms slot to run f with the session locked. f is dropped if the
// session closed or the slot was re-armed or cancelled in the meantime.
func (s *Session) after(slot string, d time.Duration, f func()) {
	s.timers.arm(slot, d, func(slot string, seq uint64) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || !s.timers.claim(slot, seq) {
			return
		}
		f()
	})
}

// syncAmbient makes the running ambient match the view. Nothing plays while
// muted or before Start.
func (s *Session) syncAmbient() {
	if s.muted || !s.started {
		s.sound.Stop()
		return
	}
	if s.view.IsNight() {
		s.sound.PlayAmbient(audio.KindNight)
		return
	}
	s.sound.PlayAmbient(s.dayAmbient)
}

func (s *Session) guard() error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	return nil
}

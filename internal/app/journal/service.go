package journal

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/mul/internal/domain"
	"github.com/PabloGalante/mul/internal/observability"
)

// GentlePrompts is the pool a new writing prompt is drawn from.
var GentlePrompts = []string{
	"What’s one small thing on your mind?",
	"What felt heavy today?",
	"What felt soft or peaceful recently?",
	"What is a color that describes your day?",
	"If your heart could speak gently, what would it say?",
	"What is one tiny win you had?",
}

// Service holds the logic of writing and reading journal entries
type Service struct {
	store domain.JournalStore
	now   func() time.Time

	mu     sync.Mutex
	rng    *rand.Rand
	prompt string
}

// NewService creates a journal service from a JournalStore. now and rng may
// be nil to use the wall clock and a random seed.
func NewService(store domain.JournalStore, now func() time.Time, rng *rand.Rand) *Service {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Service{
		store: store,
		now:   now,
		rng:   rng,
	}
	s.prompt = s.draw()
	return s
}

func (s *Service) draw() string {
	return GentlePrompts[s.rng.IntN(len(GentlePrompts))]
}

// CurrentPrompt is the question shown above the writing area.
func (s *Service) CurrentPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// RotatePrompt draws a new prompt at random. It may repeat the current one.
func (s *Service) RotatePrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompt = s.draw()
	return s.prompt
}

// Save stores text under the current prompt. Blank text is rejected.
func (s *Service) Save(ctx context.Context, text string) (*domain.JournalEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyJournalText
	}

	now := s.now()
	entry := &domain.JournalEntry{
		ID:        domain.JournalEntryID(uuid.NewString()),
		Timestamp: now,
		DateLabel: now.Format(domain.DateLabelLayout),
		Prompt:    s.CurrentPrompt(),
		Text:      text,
	}

	if err := s.store.PrependJournalEntry(entry); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to save journal entry", "error", err)
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("journal entry saved", "entry_id", entry.ID, "date", entry.DateLabel)
	return entry, nil
}

// GetJournal returns the newest `limit` entries grouped by day, newest day
// first. If limit <= 0, a reasonable default value is used.
func (s *Service) GetJournal(ctx context.Context, limit int) ([]domain.JournalDay, error) {
	if limit <= 0 {
		limit = 50
	}

	entries, err := s.store.ListJournalEntries(limit)
	if err != nil {
		return nil, err
	}
	return GroupByDay(entries), nil
}

// GroupByDay groups entries by DateLabel, keeping their order.
func GroupByDay(entries []*domain.JournalEntry) []domain.JournalDay {
	days := []domain.JournalDay{}
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.DateLabel]
		if !ok {
			i = len(days)
			index[e.DateLabel] = i
			days = append(days, domain.JournalDay{DateLabel: e.DateLabel})
		}
		days[i].Entries = append(days[i].Entries, e)
	}
	return days
}

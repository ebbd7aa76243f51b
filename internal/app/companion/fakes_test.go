package companion_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/mul/internal/adapters/storage/memory"
	"github.com/PabloGalante/mul/internal/app/companion"
	"github.com/PabloGalante/mul/internal/app/journal"
	"github.com/PabloGalante/mul/internal/audio"
	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
)

// manualClock fires timers only from Advance, on the calling goroutine.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) companion.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d, firing due timers in order. Timers armed
// by a callback fire too if they fall inside the window.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*manualTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.timers = slices.DeleteFunc(c.timers, func(t *manualTimer) bool { return t.stopped || t.fired })
			c.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// recordingSound remembers every call.
type recordingSound struct {
	mu     sync.Mutex
	calls  []string
	chimes []float64
}

func (r *recordingSound) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingSound) PlayAmbient(kind audio.Kind) { r.add("ambient:" + string(kind)) }
func (r *recordingSound) Stop()                       { r.add("stop") }
func (r *recordingSound) PlayBoop()                   { r.add("boop") }
func (r *recordingSound) PlayHover()                  { r.add("hover") }
func (r *recordingSound) PlayWaterPour()              { r.add("pour") }

func (r *recordingSound) PlayChime(pitch float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf("chime:%g", pitch))
	r.chimes = append(r.chimes, pitch)
}

func (r *recordingSound) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *recordingSound) Chimes() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.chimes)
}

func (r *recordingSound) Count(call string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recordingSound) Last() string {
	calls := r.Calls()
	if len(calls) == 0 {
		return ""
	}
	return calls[len(calls)-1]
}

// scriptedConversation replays a fixed turn. The hooks run before the
// stream and the analysis start.
type scriptedConversation struct {
	chunks   []string
	analysis *domain.InterventionSuggestion
	todos    []string

	beforeStream   func()
	beforeAnalysis func()
}

func (c *scriptedConversation) SendMessageStream(ctx context.Context, message string, onChunk func(string)) string {
	if c.beforeStream != nil {
		c.beforeStream()
	}
	reply := ""
	for _, chunk := range c.chunks {
		reply += chunk
		onChunk(reply)
	}
	return reply
}

func (c *scriptedConversation) AnalyzeMoodAndIntervention(ctx context.Context, message string) *domain.InterventionSuggestion {
	if c.beforeAnalysis != nil {
		c.beforeAnalysis()
	}
	if c.analysis == nil {
		return nil
	}
	cp := *c.analysis
	return &cp
}

func (c *scriptedConversation) GenerateGentleTodos(ctx context.Context, message string) []string {
	return slices.Clone(c.todos)
}

type harness struct {
	session *companion.Session
	clock   *manualClock
	sound   *recordingSound
	conv    *scriptedConversation
	todos   *memory.TodoStore
	cron    *cron.Cron
}

func testConfig() *config.Config {
	return &config.Config{
		HydrationInterval: 2 * time.Hour,
		HydrationCheck:    "@every 1m",
		InitialWaterLevel: 3,
	}
}

func newHarness(t *testing.T, conv companion.Conversation) *harness {
	t.Helper()

	h := &harness{
		clock: newManualClock(),
		sound: &recordingSound{},
		todos: memory.NewTodoStore(),
		cron:  cron.New(),
	}
	if conv == nil {
		h.conv = &scriptedConversation{chunks: []string{"I'm ", "here."}}
		conv = h.conv
	}

	s, err := companion.NewSession(testConfig(), h.deps(conv))
	require.NoError(t, err)
	h.session = s
	t.Cleanup(s.Close)
	return h
}

func (h *harness) deps(conv companion.Conversation) companion.Deps {
	return companion.Deps{
		Conversation: conv,
		Sound:        h.sound,
		Messages:     memory.NewMessageStore(),
		Todos:        h.todos,
		Journal:      journal.NewService(memory.NewJournalStore(), h.clock.Now, rand.New(rand.NewPCG(1, 2))),
		Clock:        h.clock,
		Cron:         h.cron,
		Rand:         rand.New(rand.NewPCG(3, 4)),
	}
}

func (h *harness) snapshot(t *testing.T) companion.Snapshot {
	t.Helper()
	snap, err := h.session.Snapshot()
	require.NoError(t, err)
	return snap
}

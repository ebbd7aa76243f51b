package companion_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/PabloGalante/mul/internal/app/companion"
	"github.com/PabloGalante/mul/internal/app/conversation"
	"github.com/PabloGalante/mul/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStartGreetsOnce(t *testing.T) {
	h := newHarness(t, nil)

	snap := h.snapshot(t)
	assert.False(t, snap.Started)
	assert.Empty(t, snap.Messages)

	require.NoError(t, h.session.Start())
	require.NoError(t, h.session.Start())

	snap = h.snapshot(t)
	assert.True(t, snap.Started)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, companion.Greeting, snap.Messages[0].Text)
	assert.Equal(t, domain.SenderAssistant, snap.Messages[0].Sender)
	assert.Equal(t, 1, h.sound.Count("ambient:water"))
	assert.Equal(t, 3, snap.Hydration.Level)
	assert.Equal(t, 37, snap.FillPercent)
}

func TestHeuristicMood(t *testing.T) {
	tests := []struct {
		text string
		want domain.Mood
	}{
		{"I feel so tired today", domain.MoodSad},
		{"SAD and calm", domain.MoodSad},
		{"help me relax", domain.MoodCalm},
		{"why is the sky blue", domain.MoodCurious},
		{"really?", domain.MoodCurious},
		{"pancakes for breakfast", domain.MoodHappy},
		{"my badge arrived", domain.MoodHappy},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, companion.HeuristicMood(tt.text))
		})
	}
}

func TestSendTextRejectsBlank(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.session.SendText(context.Background(), "  \n ", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Empty(t, h.snapshot(t).Messages)
}

func TestSendTextRejectsWhileTurnInFlight(t *testing.T) {
	h := newHarness(t, nil)

	release := make(chan struct{})
	entered := make(chan struct{})
	h.conv.beforeStream = func() {
		close(entered)
		<-release
	}

	done := make(chan error, 1)
	go func() {
		_, err := h.session.SendText(context.Background(), "hello", nil)
		done <- err
	}()
	<-entered

	assert.True(t, h.snapshot(t).Typing)
	_, err := h.session.SendText(context.Background(), "again", nil)
	assert.ErrorIs(t, err, domain.ErrTurnInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, h.snapshot(t).Typing)
	assert.Len(t, h.snapshot(t).Messages, 2)
}

func TestTurnStreamsReplyAndAppliesAnalysis(t *testing.T) {
	h := newHarness(t, nil)
	h.conv.analysis = &domain.InterventionSuggestion{
		Mood:            domain.MoodCalm,
		Reasoning:       "Rest softly now",
		RecommendedMode: domain.ModeBreathing,
	}

	var chunks []string
	reply, err := h.session.SendText(context.Background(), "a long day", func(c string) {
		chunks = append(chunks, c)
	})
	require.NoError(t, err)
	assert.Equal(t, "I'm here.", reply)
	assert.Equal(t, []string{"I'm ", "I'm here."}, chunks)

	snap := h.snapshot(t)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, domain.SenderUser, snap.Messages[0].Sender)
	assert.Equal(t, "a long day", snap.Messages[0].Text)
	assert.Equal(t, "I'm here.", snap.Messages[1].Text)
	assert.False(t, snap.Messages[1].Streaming)

	assert.Equal(t, domain.MoodCalm, snap.Mood)
	assert.Equal(t, "🌊 Rest softly now", snap.Reasoning)
	require.NotNil(t, snap.Suggestion)
	assert.Equal(t, domain.ModeBreathing, snap.Suggestion.Mode)
	assert.Equal(t, "Take a slow breath?", snap.Suggestion.Label)
	assert.Equal(t, []float64{440}, h.sound.Chimes())
}

func TestResetAfterDisplayWindow(t *testing.T) {
	t.Run("settled mood stays", func(t *testing.T) {
		h := newHarness(t, nil)
		h.conv.analysis = &domain.InterventionSuggestion{Mood: domain.MoodSad, Reasoning: "Heavy heart", RecommendedMode: domain.ModeJournal}

		_, err := h.session.SendText(context.Background(), "hi", nil)
		require.NoError(t, err)

		h.clock.Advance(4 * time.Second)
		assert.NotNil(t, h.snapshot(t).Suggestion)

		h.clock.Advance(time.Second)
		snap := h.snapshot(t)
		assert.Empty(t, snap.Reasoning)
		assert.Nil(t, snap.Suggestion)
		assert.Equal(t, domain.MoodSad, snap.Mood)
	})

	t.Run("other moods return to happy", func(t *testing.T) {
		h := newHarness(t, nil)
		h.conv.analysis = &domain.InterventionSuggestion{Mood: domain.MoodCurious, Reasoning: "Wondering", RecommendedMode: domain.ModeChat}

		_, err := h.session.SendText(context.Background(), "hi", nil)
		require.NoError(t, err)
		snap := h.snapshot(t)
		assert.Equal(t, domain.MoodCurious, snap.Mood)
		assert.Nil(t, snap.Suggestion, "CHAT is never suggested")
		assert.Equal(t, []float64{600}, h.sound.Chimes())

		h.clock.Advance(5 * time.Second)
		assert.Equal(t, domain.MoodHappy, h.snapshot(t).Mood)
	})
}

func TestChunksShowListeningUntilAnalysisApplies(t *testing.T) {
	moodsDuringStream := func(t *testing.T, h *harness, text string) []domain.Mood {
		var moods []domain.Mood
		_, err := h.session.SendText(context.Background(), text, func(string) {
			moods = append(moods, h.snapshot(t).Mood)
		})
		require.NoError(t, err)
		return moods
	}

	t.Run("no analysis", func(t *testing.T) {
		h := newHarness(t, nil)
		assert.Equal(t, []domain.Mood{domain.MoodListening, domain.MoodListening}, moodsDuringStream(t, h, "hello"))
	})

	t.Run("settled heuristic", func(t *testing.T) {
		h := newHarness(t, nil)
		assert.Equal(t, []domain.Mood{domain.MoodSad, domain.MoodSad}, moodsDuringStream(t, h, "I am so sad"))
	})

	t.Run("analysis first", func(t *testing.T) {
		h := newHarness(t, nil)
		h.conv.analysis = &domain.InterventionSuggestion{Mood: domain.MoodHappy, Reasoning: "Bright day", RecommendedMode: domain.ModeChat}
		h.conv.beforeStream = func() {
			require.Eventually(t, func() bool {
				return h.snapshot(t).Reasoning == "🌊 Bright day"
			}, 2*time.Second, time.Millisecond)
		}
		assert.Equal(t, []domain.Mood{domain.MoodHappy, domain.MoodHappy}, moodsDuringStream(t, h, "hello"))
	})
}

func TestHeuristicMoodShowsBeforeReply(t *testing.T) {
	h := newHarness(t, nil)

	var seen companion.Snapshot
	h.conv.beforeStream = func() { seen = h.snapshot(t) }

	_, err := h.session.SendText(context.Background(), "lovely weather", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.MoodThinking, seen.Mood)
	assert.True(t, seen.Typing)
	require.Len(t, seen.Messages, 2)
	assert.True(t, seen.Messages[1].Streaming)
}

func TestTodoRecommendationAddsGentleTodos(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.todos.PrependTodos([]*domain.TodoItem{{Text: "older"}}))
	h.conv.analysis = &domain.InterventionSuggestion{Mood: domain.MoodThinking, Reasoning: "Lots to hold", RecommendedMode: domain.ModeTodo}
	h.conv.todos = []string{"Drink water", "Stretch", "Open one email"}

	_, err := h.session.SendText(context.Background(), "so many tasks", nil)
	require.NoError(t, err)

	snap := h.snapshot(t)
	assert.True(t, snap.ShowTodoLink)
	require.Len(t, snap.Todos, 4)
	assert.Equal(t, "Drink water", snap.Todos[0].Text)
	assert.Equal(t, domain.MoodThinking, snap.Todos[0].MoodContext)
	assert.Equal(t, "older", snap.Todos[3].Text)
	assert.Empty(t, h.sound.Chimes(), "thinking has no chime")

	// The next turn hides the link again.
	h.conv.analysis = nil
	_, err = h.session.SendText(context.Background(), "thanks", nil)
	require.NoError(t, err)
	assert.False(t, h.snapshot(t).ShowTodoLink)
}

func TestTurnWithoutCredentialsFallsBack(t *testing.T) {
	h := newHarness(t, conversation.NewService(nil))

	reply, err := h.session.SendText(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, conversation.ConnectFallback, reply)

	snap := h.snapshot(t)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, conversation.ConnectFallback, snap.Messages[1].Text)
	assert.Equal(t, companion.ReasoningPlaceholder, snap.Reasoning)
	assert.Empty(t, snap.Todos)
}

func TestCloseCancelsEverything(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.session.Start())
	require.Len(t, h.cron.Entries(), 1)

	_, err := h.session.SendText(context.Background(), "hi", nil)
	require.NoError(t, err)
	require.NoError(t, h.session.SwitchMode(domain.ModeBreathing))
	chimes := len(h.sound.Chimes())

	h.session.Close()
	h.session.Close()

	assert.Empty(t, h.cron.Entries())
	assert.Equal(t, "stop", h.sound.Last())

	h.clock.Advance(time.Minute)
	assert.Len(t, h.sound.Chimes(), chimes, "no callback runs after close")

	_, err = h.session.Snapshot()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	_, err = h.session.SendText(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	_, err = h.session.Drink()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	h.session.CheckHydration()
}

func TestNewSessionRejectsBadSchedule(t *testing.T) {
	h := newHarness(t, nil)
	cfg := testConfig()
	cfg.HydrationCheck = "every so often"

	_, err := companion.NewSession(cfg, h.deps(h.conv))
	assert.ErrorContains(t, err, "schedule hydration check")
	assert.Len(t, h.cron.Entries(), 1, "only the harness session is registered")
}

package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/mul/internal/adapters/http"
	"github.com/PabloGalante/mul/internal/adapters/llm"
	"github.com/PabloGalante/mul/internal/adapters/storage/memory"
	"github.com/PabloGalante/mul/internal/app/companion"
	"github.com/PabloGalante/mul/internal/app/conversation"
	journalapp "github.com/PabloGalante/mul/internal/app/journal"
	"github.com/PabloGalante/mul/internal/audio"
	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	handler http.Handler
	session *companion.Session
	todos   *memory.TodoStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	engine := audio.NewEngine(audio.WithSampleRate(8000))
	todos := memory.NewTodoStore()
	session, err := companion.NewSession(&config.Config{
		HydrationInterval: 2 * time.Hour,
		InitialWaterLevel: 3,
	}, companion.Deps{
		Conversation: conversation.NewService(llm.NewMockLLM()),
		Sound:        engine,
		Messages:     memory.NewMessageStore(),
		Todos:        todos,
		Journal:      journalapp.NewService(memory.NewJournalStore(), nil, nil),
	})
	require.NoError(t, err)
	t.Cleanup(session.Close)

	return &testServer{
		handler: httpadapter.NewServer(session, engine, []string{"*"}),
		session: session,
		todos:   todos,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body=%s", w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestStartAndState(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/start", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	snap := decode[companion.Snapshot](t, w)
	assert.True(t, snap.Started)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, companion.Greeting, snap.Messages[0].Text)
	assert.Equal(t, "CHAT", snap.View)
	assert.Equal(t, 37, snap.FillPercent)
}

func TestSendMessageStreamsSSE(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/messages", `{"text":"I feel anxious about tomorrow"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	assert.Contains(t, body, "event:chunk")
	assert.Contains(t, body, "event:done")
	assert.Less(t, strings.Index(body, "event:chunk"), strings.Index(body, "event:done"))
	assert.Contains(t, body, "flowing with you.")

	state, err := srv.session.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, domain.MoodCalm, state.Mood)
	require.NotNil(t, state.Suggestion)
	assert.Equal(t, domain.ModeBreathing, state.Suggestion.Mode)
	assert.False(t, state.Messages[1].Streaming)
}

func TestSendMessageValidation(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/messages", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/messages", `{"text":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/messages", `not json`).Code)
}

func TestModeAndSuggestion(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/suggestion/accept", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = srv.do(t, http.MethodPost, "/mode", `{"mode":"DANCE"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/mode", `{"mode":"BREATHING"}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[companion.Snapshot](t, w)
	require.NotNil(t, snap.Breathing)
	assert.Equal(t, "inhale", string(snap.Breathing.Phase))

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/breathing/exit", "").Code)
	assert.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, "/breathing/exit", "").Code)

	srv.do(t, http.MethodPost, "/messages", `{"text":"so many tasks today"}`)
	w = srv.do(t, http.MethodPost, "/suggestion/accept", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mode":"TODO"}`, w.Body.String())

	state, err := srv.session.Snapshot()
	require.NoError(t, err)
	assert.Len(t, state.Todos, 3)
	assert.True(t, state.ShowTodoLink)
}

func TestNightMuteAndAmbient(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/start", "")

	w := srv.do(t, http.MethodPost, "/night/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"night":true}`, w.Body.String())

	w = srv.do(t, http.MethodPost, "/mute/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"muted":true}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodPost, "/ambient", `{"kind":"rain"}`).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/ambient", `{"kind":"night"}`).Code)

	w = srv.do(t, http.MethodGet, "/state", "")
	snap := decode[companion.Snapshot](t, w)
	assert.Equal(t, "NIGHT", snap.View)
	assert.Equal(t, domain.MoodSleeping, snap.Mood)
	assert.Equal(t, audio.KindRain, snap.DayAmbient)
}

func TestDrinkAndGrounding(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/hydration/drink", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Hydration   domain.Hydration `json:"hydration"`
		FillPercent int              `json:"fill_percent"`
	}](t, w)
	assert.Equal(t, 4, out.Hydration.Level)
	assert.Equal(t, 50, out.FillPercent)

	assert.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, "/grounding/advance", "").Code)

	srv.do(t, http.MethodPost, "/mode", `{"mode":"GROUNDING"}`)
	w = srv.do(t, http.MethodPost, "/grounding/advance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step_index":1`)
}

func TestTodoEndpoints(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.todos.PrependTodos([]*domain.TodoItem{{ID: "t1", Text: "Stretch"}}))

	w := srv.do(t, http.MethodPost, "/todos/t1/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.TodoItem](t, w).Completed)

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodPost, "/todos/nope/toggle", "").Code)
	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, "/todos/t1", "").Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, "/todos/t1", "").Code)
}

func TestJournalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/journal", `{"text":"  "}`).Code)

	w := srv.do(t, http.MethodPost, "/journal", `{"text":"A quiet walk."}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[domain.JournalEntry](t, w)
	assert.Equal(t, "A quiet walk.", entry.Text)

	w = srv.do(t, http.MethodGet, "/journal?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Days []domain.JournalDay `json:"days"`
	}](t, w)
	require.Len(t, out.Days, 1)
	assert.Len(t, out.Days[0].Entries, 1)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/journal?limit=x", "").Code)
}

func TestNightSummaryAndGratitude(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/night/gratitude", `{"gratitude":["sun","tea","rest"]}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, "/night/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[domain.NightSummary](t, w)
	assert.True(t, sum.Saved)
	assert.Equal(t, 3, sum.WaterLevel)
	assert.Equal(t, [3]string{"sun", "tea", "rest"}, sum.Gratitude)
	assert.Empty(t, sum.CompletedTodos)
}

func TestAvatarEndpoints(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/avatar/boop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"booped":true}`, w.Body.String())

	w = srv.do(t, http.MethodPost, "/avatar/boop", "")
	assert.JSONEq(t, `{"booped":false}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodPost, "/avatar/hover", "").Code)
}

func TestClosedSessionIsUnavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.session.Close()

	assert.Equal(t, http.StatusServiceUnavailable, srv.do(t, http.MethodGet, "/state", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, srv.do(t, http.MethodPost, "/hydration/drink", "").Code)
}

func TestAudioStreamWritesWAVHeader(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/audio/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/wav", w.Header().Get("Content-Type"))
	require.GreaterOrEqual(t, w.Body.Len(), 44)
	assert.Equal(t, "RIFF", w.Body.String()[:4])
	assert.Equal(t, "WAVE", w.Body.String()[8:12])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/messages", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

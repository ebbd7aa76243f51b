package httpadapter

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/PabloGalante/mul/internal/app/companion"
	"github.com/PabloGalante/mul/internal/audio"
	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
	"github.com/PabloGalante/mul/internal/observability"
)

type Server struct {
	session *companion.Session
	engine  *audio.Engine
}

// NewServer exposes the session over JSON, SSE and a live WAV stream. A nil
// engine turns /audio/stream off.
func NewServer(session *companion.Session, engine *audio.Engine, allowedOrigins []string) http.Handler {
	s := &Server{session: session, engine: engine}

	r := gin.New()
	r.Use(gin.Recovery(), withRequestID(), withAccessLog())
	r.Use(cors.New(corsConfig(allowedOrigins)))

	r.GET("/healthz", s.handleHealthz)
	r.GET("/state", s.handleState)
	r.POST("/start", s.handleStart)

	// Chat
	r.POST("/messages", s.handleSendMessage)
	r.POST("/mode", s.handleSwitchMode)
	r.POST("/suggestion/accept", s.handleAcceptSuggestion)

	// Atmosphere
	r.POST("/night/toggle", s.handleToggleNight)
	r.POST("/mute/toggle", s.handleToggleMute)
	r.POST("/ambient", s.handleSetAmbient)
	r.GET("/audio/stream", s.handleAudioStream)

	// Wellness
	r.POST("/hydration/drink", s.handleDrink)
	r.POST("/breathing/exit", s.handleExitBreathing)
	r.POST("/grounding/advance", s.handleAdvanceGrounding)
	r.POST("/todos/:id/toggle", s.handleToggleTodo)
	r.DELETE("/todos/:id", s.handleDeleteTodo)
	r.POST("/journal", s.handleSaveJournal)
	r.GET("/journal", s.handleGetJournal)
	r.GET("/night/summary", s.handleNightSummary)
	r.POST("/night/gratitude", s.handleSaveGratitude)

	// Avatar
	r.POST("/avatar/boop", s.handleBoop)
	r.POST("/avatar/hover", s.handleHover)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type switchModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=CHAT BREATHING TODO JOURNAL GROUNDING"`
}

type ambientRequest struct {
	Kind string `json:"kind" binding:"required,oneof=water rain"`
}

type journalRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

type gratitudeRequest struct {
	Gratitude [3]string `json:"gratitude" binding:"dive,max=280"`
}

type chunkEvent struct {
	Text string `json:"text"`
}

type doneEvent struct {
	Reply string `json:"reply"`
}

type modeResponse struct {
	Mode domain.AppMode `json:"mode"`
}

type toggleResponse struct {
	Night *bool `json:"night,omitempty"`
	Muted *bool `json:"muted,omitempty"`
}

type boopResponse struct {
	Booped bool `json:"booped"`
}

// ─────────────────────────────────────────────
// Session
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleState(c *gin.Context) {
	s.respondState(c)
}

func (s *Server) handleStart(c *gin.Context) {
	if err := s.session.Start(); err != nil {
		writeError(c, err)
		return
	}
	s.respondState(c)
}

func (s *Server) respondState(c *gin.Context) {
	snap, err := s.session.Snapshot()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ─────────────────────────────────────────────
// Chat
// ─────────────────────────────────────────────

// handleSendMessage streams the reply as SSE: one "chunk" event per update
// carrying the reply so far, then "done". Errors raised before the first
// chunk are plain JSON responses.
func (s *Server) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	streaming := false
	reply, err := s.session.SendText(c.Request.Context(), req.Text, func(text string) {
		if !streaming {
			streaming = true
			c.Header("Cache-Control", "no-cache")
			c.Header("X-Accel-Buffering", "no")
		}
		c.SSEvent("chunk", chunkEvent{Text: text})
		c.Writer.Flush()
	})

	switch {
	case err != nil && !streaming:
		writeError(c, err)
	case err != nil:
		c.SSEvent("error", gin.H{"error": err.Error()})
		c.Writer.Flush()
	default:
		c.SSEvent("done", doneEvent{Reply: reply})
		c.Writer.Flush()
	}
}

func (s *Server) handleSwitchMode(c *gin.Context) {
	var req switchModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SwitchMode(domain.AppMode(req.Mode)); err != nil {
		writeError(c, err)
		return
	}
	s.respondState(c)
}

func (s *Server) handleAcceptSuggestion(c *gin.Context) {
	mode, err := s.session.AcceptSuggestion()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, modeResponse{Mode: mode})
}

// ─────────────────────────────────────────────
// Atmosphere
// ─────────────────────────────────────────────

func (s *Server) handleToggleNight(c *gin.Context) {
	night, err := s.session.ToggleNight()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toggleResponse{Night: &night})
}

func (s *Server) handleToggleMute(c *gin.Context) {
	muted, err := s.session.ToggleMute()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toggleResponse{Muted: &muted})
}

func (s *Server) handleSetAmbient(c *gin.Context) {
	var req ambientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SetDayAmbient(audio.Kind(req.Kind)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleAudioStream plays the engine mix as an endless 16-bit WAV until
// the client goes away. The engine clock follows this stream, so only one
// listener is expected.
func (s *Server) handleAudioStream(c *gin.Context) {
	if s.engine == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audio is disabled"})
		return
	}

	c.Header("Content-Type", "audio/wav")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	if err := audio.StreamWAV(ctx, c.Writer, s.engine, config.AudioBlock); err != nil {
		observability.LoggerFromContext(ctx).Info("audio stream ended", "error", err)
	}
}

// ─────────────────────────────────────────────
// Wellness
// ─────────────────────────────────────────────

func (s *Server) handleDrink(c *gin.Context) {
	hyd, err := s.session.Drink()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hydration": hyd, "fill_percent": hyd.FillPercent()})
}

func (s *Server) handleExitBreathing(c *gin.Context) {
	if err := s.session.ExitBreathing(); err != nil {
		writeError(c, err)
		return
	}
	s.respondState(c)
}

func (s *Server) handleAdvanceGrounding(c *gin.Context) {
	st, err := s.session.AdvanceGrounding()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleToggleTodo(c *gin.Context) {
	item, err := s.session.ToggleTodo(domain.TodoID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleDeleteTodo(c *gin.Context) {
	if err := s.session.DeleteTodo(domain.TodoID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSaveJournal(c *gin.Context) {
	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := s.session.SaveJournal(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleGetJournal(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	days, err := s.session.Journal(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (s *Server) handleNightSummary(c *gin.Context) {
	sum, err := s.session.NightSummary()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) handleSaveGratitude(c *gin.Context) {
	var req gratitudeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.SaveGratitude(req.Gratitude); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Avatar
// ─────────────────────────────────────────────

func (s *Server) handleBoop(c *gin.Context) {
	ok, err := s.session.Boop()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, boopResponse{Booped: ok})
}

func (s *Server) handleHover(c *gin.Context) {
	if err := s.session.Hover(); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrEmptyJournalText),
		errors.Is(err, domain.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTurnInProgress),
		errors.Is(err, domain.ErrNoSuggestion),
		errors.Is(err, domain.ErrWrongScreen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(c.Request.Context()).Error("request failed", "error", err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// Package audio synthesizes Mul's ambient loops and feedback chimes. Nothing
// is sampled or stored: every sound is built from oscillators, noise and
// filters when it is asked for, and mixed when the engine is rendered.
package audio

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/PabloGalante/mul/internal/observability"
)

const DefaultSampleRate = 44100

// maxVoices bounds one-shots waiting to be rendered. Beyond it the oldest
// voice is dropped.
const maxVoices = 32

// Device is the audio output the engine renders for. It can refuse to open
// or be suspended, in which case the engine goes quiet instead of failing.
type Device interface {
	SampleRate() int
	Suspended() bool
	Resume() error
}

// ErrDeviceSuspended is returned by a device that cannot be resumed right now.
var ErrDeviceSuspended = errors.New("audio device suspended")

type softwareDevice struct {
	rate int
}

func (d softwareDevice) SampleRate() int { return d.rate }
func (d softwareDevice) Suspended() bool { return false }
func (d softwareDevice) Resume() error   { return nil }

// Stats counts graph and source lifecycle events since the engine was built.
type Stats struct {
	GraphsBuilt    int
	GraphsTornDown int
	ActiveGraphs   int
	SourcesStarted int
	SourcesStopped int
	LiveVoices     int
}

type Option func(*Engine)

// WithSampleRate sets the rate of the default software device.
func WithSampleRate(rate int) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.sampleRate = rate
		}
	}
}

// WithDevice replaces how the output device is opened.
func WithDevice(open func() (Device, error)) Option {
	return func(e *Engine) {
		e.open = open
	}
}

// WithRand makes noise buffers and pour chirps reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// Engine owns the one active ambient graph and the live one-shot voices.
// All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	sampleRate int
	open       func() (Device, error)
	device     Device
	disabled   bool

	rate    float64
	now     int64
	rng     *rand.Rand
	ambient *graph
	voices  []*voice
	stats   Stats

	log *slog.Logger
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		sampleRate: DefaultSampleRate,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:        observability.WithFields("component", "audio"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.open == nil {
		rate := e.sampleRate
		e.open = func() (Device, error) { return softwareDevice{rate: rate}, nil }
	}
	return e
}

// ready opens the device on first use and resumes it if suspended.
// Callers hold e.mu.
func (e *Engine) ready() bool {
	if e.disabled {
		return false
	}
	if e.device == nil {
		d, err := e.open()
		if err != nil {
			e.disabled = true
			e.log.Warn("audio device unavailable, sound disabled", "error", err)
			return false
		}
		e.device = d
		e.rate = float64(d.SampleRate())
	}
	if e.device.Suspended() {
		if err := e.device.Resume(); err != nil {
			e.log.Debug("audio device suspended, skipping", "error", err)
			return false
		}
	}
	return true
}

// SampleRate is the rate Render produces, once the device is open.
func (e *Engine) SampleRate() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.device == nil && !e.ready() {
		return e.sampleRate
	}
	return int(e.rate)
}

// PlayAmbient replaces the current loop with kind. The old graph is fully
// torn down before the new one starts.
func (e *Engine) PlayAmbient(kind Kind) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	if !e.ready() {
		return
	}

	g := buildAmbient(kind, e.rate, e.rng, e.now)
	e.ambient = g
	e.stats.GraphsBuilt++
	e.stats.SourcesStarted += len(g.sources)
	e.log.Debug("ambient started", "kind", kind)
}

// Stop tears down the active loop. Calling it with nothing playing is fine.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.ambient == nil {
		return
	}
	kind := e.ambient.kind
	e.stats.SourcesStopped += e.ambient.teardown()
	e.stats.GraphsTornDown++
	e.ambient = nil
	e.log.Debug("ambient stopped", "kind", kind)
}

// Current returns the playing ambient kind, or "" when silent.
func (e *Engine) Current() Kind {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ambient == nil {
		return ""
	}
	return e.ambient.kind
}

// PlayChime rings a soft sine bell. A pitch of zero uses DefaultChimePitch.
func (e *Engine) PlayChime(pitch float64) {
	if pitch <= 0 {
		pitch = DefaultChimePitch
	}
	e.schedule(func(t float64) []envelope {
		return []envelope{chimeEnvelope(pitch, t)}
	})
}

func (e *Engine) PlayBoop() {
	e.schedule(func(t float64) []envelope {
		return []envelope{boopEnvelope(t)}
	})
}

func (e *Engine) PlayHover() {
	e.schedule(func(t float64) []envelope {
		return []envelope{hoverEnvelope(t)}
	})
}

// PlayWaterPour plays five rising drops a tenth of a second apart.
func (e *Engine) PlayWaterPour() {
	e.schedule(func(t float64) []envelope {
		envs := make([]envelope, pourChirps)
		for i := range envs {
			envs[i] = pourEnvelope(i, 300+e.rng.Float64()*500, t)
		}
		return envs
	})
}

func (e *Engine) schedule(build func(t float64) []envelope) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready() {
		return
	}
	for _, env := range build(float64(e.now) / e.rate) {
		e.voices = append(e.voices, newVoice(env, e.now, e.rate))
		e.stats.SourcesStarted++
	}
	for len(e.voices) > maxVoices {
		if e.voices[0].release() {
			e.stats.SourcesStopped++
		}
		e.voices = e.voices[1:]
	}
}

// Render mixes the next len(out) samples and advances the engine clock.
// A disabled engine renders silence.
func (e *Engine) Render(out []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready() {
		clear(out)
		return
	}

	for i := range out {
		var s float64
		if e.ambient != nil {
			s += e.ambient.out.next(e.now)
		}
		for _, v := range e.voices {
			s += v.out.next(e.now)
		}
		out[i] = float32(min(1, max(-1, s)))
		e.now++
	}
	e.reap()
}

// reap releases voices whose oscillator has passed its stop time.
func (e *Engine) reap() {
	live := e.voices[:0]
	for _, v := range e.voices {
		if e.now >= v.endAt {
			if v.release() {
				e.stats.SourcesStopped++
			}
			continue
		}
		live = append(live, v)
	}
	clear(e.voices[len(live):])
	e.voices = live
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.stats
	s.LiveVoices = len(e.voices)
	if e.ambient != nil {
		s.ActiveGraphs = 1
	}
	return s
}

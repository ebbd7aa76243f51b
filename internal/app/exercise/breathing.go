// Package exercise holds the guided wellness exercises as plain state
// machines. Timing and sound are driven by the caller.
package exercise

type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseHold   Phase = "hold"
	PhaseExhale Phase = "exhale"
)

type phaseSpec struct {
	seconds int
	chime   float64
	text    string
}

var phases = map[Phase]phaseSpec{
	PhaseInhale: {seconds: 4, chime: 349.23, text: "Breathe in gently..."},
	PhaseHold:   {seconds: 4, chime: 440, text: "Hold softly like a cloud..."},
	PhaseExhale: {seconds: 6, chime: 523.25, text: "Let it go like water flowing..."},
}

var nextPhase = map[Phase]Phase{
	PhaseInhale: PhaseHold,
	PhaseHold:   PhaseExhale,
	PhaseExhale: PhaseInhale,
}

// BreathingState is what the breathing screen shows.
type BreathingState struct {
	Phase     Phase  `json:"phase"`
	Remaining int    `json:"remaining"`
	Text      string `json:"text"`
}

// Breathing cycles inhale 4s, hold 4s, exhale 6s forever. It has no end
// state; the user leaves when they feel calm.
type Breathing struct {
	phase     Phase
	remaining int
}

func NewBreathing() *Breathing {
	b := &Breathing{}
	b.Reset()
	return b
}

// Reset starts over at the beginning of an inhale.
func (b *Breathing) Reset() {
	b.phase = PhaseInhale
	b.remaining = phases[PhaseInhale].seconds
}

// Tick advances the countdown by one second. When the current phase is
// used up it moves to the next one and reports true.
func (b *Breathing) Tick() bool {
	if b.remaining > 1 {
		b.remaining--
		return false
	}
	b.phase = nextPhase[b.phase]
	b.remaining = phases[b.phase].seconds
	return true
}

func (b *Breathing) State() BreathingState {
	return BreathingState{
		Phase:     b.phase,
		Remaining: b.remaining,
		Text:      phases[b.phase].text,
	}
}

// Chime is the pitch that marks entering the current phase.
func (b *Breathing) Chime() float64 {
	return phases[b.phase].chime
}

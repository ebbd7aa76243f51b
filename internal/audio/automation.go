package audio

import "math"

type rampKind int

const (
	setValue rampKind = iota
	linearRamp
	exponentialRamp
)

type automationEvent struct {
	kind  rampKind
	value float64
	at    float64 // seconds on the engine clock
}

// automation is a time-ordered list of value changes, evaluated the way a
// browser AudioParam evaluates setValueAtTime and the two ramp calls.
type automation struct {
	initial float64
	events  []automationEvent
}

func newAutomation(initial float64) *automation {
	return &automation{initial: initial}
}

func (a *automation) setValueAt(v, at float64) *automation {
	a.events = append(a.events, automationEvent{kind: setValue, value: v, at: at})
	return a
}

func (a *automation) linearRampTo(v, at float64) *automation {
	a.events = append(a.events, automationEvent{kind: linearRamp, value: v, at: at})
	return a
}

func (a *automation) exponentialRampTo(v, at float64) *automation {
	a.events = append(a.events, automationEvent{kind: exponentialRamp, value: v, at: at})
	return a
}

// valueAt returns the parameter value at time t.
func (a *automation) valueAt(t float64) float64 {
	prevV, prevT := a.initial, 0.0
	for _, e := range a.events {
		if t < e.at {
			switch e.kind {
			case linearRamp:
				if e.at <= prevT {
					return prevV
				}
				return prevV + (e.value-prevV)*(t-prevT)/(e.at-prevT)
			case exponentialRamp:
				// A ramp from zero or across zero holds the previous value.
				if e.at <= prevT || prevV == 0 || prevV*e.value < 0 {
					return prevV
				}
				return prevV * math.Pow(e.value/prevV, (t-prevT)/(e.at-prevT))
			default:
				return prevV
			}
		}
		prevV, prevT = e.value, e.at
	}
	return prevV
}

package audio

// DefaultChimePitch is C5.
const DefaultChimePitch = 523.25

// voice is a single scheduled oscillator with its own gain envelope.
type voice struct {
	osc   *oscillator
	out   *gainNode
	endAt int64
}

func (v *voice) release() bool {
	stopped := v.osc.stop()
	v.osc.disconnect()
	v.out.disconnect()
	return stopped
}

type envelope struct {
	freq  *automation
	gain  *automation
	start float64 // seconds after now
	stop  float64 // seconds after now
}

func newVoice(env envelope, now int64, rate float64) *voice {
	osc := newOscillator(waveSine, automatedParam(env.freq, rate), rate)
	osc.start(now + int64(env.start*rate))
	osc.stopAt = now + int64(env.stop*rate)

	return &voice{
		osc:   osc,
		out:   newGain(automatedParam(env.gain, rate), osc),
		endAt: osc.stopAt,
	}
}

// Envelopes below take t, the current engine time in seconds, and lay out
// their automation from there.

func chimeEnvelope(pitch, t float64) envelope {
	return envelope{
		freq: newAutomation(pitch).setValueAt(pitch, t),
		gain: newAutomation(0).
			setValueAt(0, t).
			linearRampTo(0.1, t+0.05).
			exponentialRampTo(0.001, t+4),
		stop: 4,
	}
}

func boopEnvelope(t float64) envelope {
	return envelope{
		freq: newAutomation(800).
			setValueAt(800, t).
			exponentialRampTo(400, t+0.15),
		gain: newAutomation(0).
			setValueAt(0, t).
			linearRampTo(0.15, t+0.02).
			exponentialRampTo(0.001, t+0.2),
		stop: 0.25,
	}
}

func hoverEnvelope(t float64) envelope {
	return envelope{
		freq: newAutomation(600).
			setValueAt(600, t).
			linearRampTo(800, t+0.1),
		gain: newAutomation(0).
			setValueAt(0, t).
			linearRampTo(0.05, t+0.05).
			exponentialRampTo(0.001, t+0.15),
		stop: 0.2,
	}
}

// pourChirps is the number of staggered drops in one pour.
const pourChirps = 5

func pourEnvelope(i int, freq, t float64) envelope {
	offset := float64(i) * 0.1
	at := t + offset
	return envelope{
		freq: newAutomation(freq).
			setValueAt(freq, at).
			linearRampTo(freq+200, at+0.1),
		gain: newAutomation(0).
			setValueAt(0, at).
			linearRampTo(0.3, at+0.05).
			exponentialRampTo(0.001, at+0.2),
		start: offset,
		stop:  offset + 0.25,
	}
}

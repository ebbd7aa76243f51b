package audio

import (
	"fmt"
	"math/rand/v2"
)

type Kind string

const (
	KindWater Kind = "water"
	KindRain  Kind = "rain"
	KindNight Kind = "night"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindWater, KindRain, KindNight:
		return k, nil
	default:
		return "", fmt.Errorf("unknown ambient kind %q", s)
	}
}

// graph is one ambient loop: every node it owns plus the output node.
type graph struct {
	kind    Kind
	out     node
	nodes   []node
	sources []source
}

// teardown stops every source once and disconnects every node. It returns
// how many sources it actually stopped.
func (g *graph) teardown() int {
	stopped := 0
	for _, s := range g.sources {
		if s.stop() {
			stopped++
		}
	}
	for _, n := range g.nodes {
		n.disconnect()
	}
	g.nodes, g.sources, g.out = nil, nil, nil
	return stopped
}

func buildAmbient(kind Kind, rate float64, rng *rand.Rand, at int64) *graph {
	var g *graph
	switch kind {
	case KindRain:
		g = buildRain(rate, rng)
	case KindNight:
		g = buildNight(rate)
	default:
		g = buildWater(rate, rng)
	}
	for _, s := range g.sources {
		s.start(at)
	}
	return g
}

// buildWater is brown-ish noise through a lowpass whose cutoff drifts slowly,
// like a stream.
func buildWater(rate float64, rng *rand.Rand) *graph {
	data := make([]float64, int(rate)*2)
	var last float64
	for i := range data {
		white := rng.Float64()*2 - 1
		data[i] = (last + 0.02*white) / 1.02
		last = data[i]
		data[i] *= 3.5
	}

	noise := &bufferSource{data: data, loop: true}

	lfo := newOscillator(waveSine, constParam(0.1), rate)
	lfoGain := newGain(constParam(150), lfo)

	cutoff := constParam(400)
	cutoff.connect(lfoGain)
	filter := newBiquad(lowpass, noise, cutoff, rate)

	master := newGain(constParam(0.08), filter)

	return &graph{
		kind:    KindWater,
		out:     master,
		nodes:   []node{noise, filter, master, lfo, lfoGain},
		sources: []source{noise, lfo},
	}
}

// buildRain is pink noise band-limited to 200..8000 Hz.
func buildRain(rate float64, rng *rand.Rand) *graph {
	data := make([]float64, int(rate)*2)
	var b0, b1, b2, b3, b4, b5, b6 float64
	for i := range data {
		white := rng.Float64()*2 - 1
		b0 = 0.99886*b0 + white*0.0555179
		b1 = 0.99332*b1 + white*0.0750759
		b2 = 0.96900*b2 + white*0.1538520
		b3 = 0.86650*b3 + white*0.3104856
		b4 = 0.55000*b4 + white*0.5329522
		b5 = -0.7616*b5 - white*0.0168980
		data[i] = (b0 + b1 + b2 + b3 + b4 + b5 + b6 + white*0.5362) * 0.11
		b6 = white * 0.115926
	}

	noise := &bufferSource{data: data, loop: true}
	hp := newBiquad(highpass, noise, constParam(200), rate)
	lp := newBiquad(lowpass, hp, constParam(8000), rate)
	gain := newGain(constParam(0.15), lp)

	return &graph{
		kind:    KindRain,
		out:     gain,
		nodes:   []node{noise, hp, lp, gain},
		sources: []source{noise},
	}
}

// buildNight is a low drone. 60 and 62 Hz beat at 2 Hz, and a very slow LFO
// swells the volume like breathing.
func buildNight(rate float64) *graph {
	osc1 := newOscillator(waveSine, constParam(60), rate)
	osc2 := newOscillator(waveTriangle, constParam(110), rate)
	osc3 := newOscillator(waveSine, constParam(62), rate)

	lfo := newOscillator(waveSine, constParam(0.05), rate)
	lfoGain := newGain(constParam(0.02), lfo)

	level := constParam(0.05)
	level.connect(lfoGain)
	gain := newGain(level, osc1, osc2, osc3)

	return &graph{
		kind:    KindNight,
		out:     gain,
		nodes:   []node{osc1, osc2, osc3, gain, lfo, lfoGain},
		sources: []source{osc1, osc2, osc3, lfo},
	}
}

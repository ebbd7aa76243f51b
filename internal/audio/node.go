package audio

import "math"

// node produces one sample per call. n is the absolute sample index on the
// engine clock. Each node has exactly one consumer, so next is called once
// per sample.
type node interface {
	next(n int64) float64
	disconnect()
}

// source is a node that must be started and stopped.
type source interface {
	node
	start(at int64)
	// stop reports false when the source was already stopped.
	stop() bool
}

// param is a node input that can be automated and modulated by other nodes,
// like filter.frequency or gain.gain.
type param struct {
	base float64
	auto *automation
	mods []node
	rate float64
}

func constParam(v float64) *param {
	return &param{base: v}
}

func automatedParam(a *automation, rate float64) *param {
	return &param{auto: a, rate: rate}
}

func (p *param) connect(mod node) {
	p.mods = append(p.mods, mod)
}

func (p *param) value(n int64) float64 {
	v := p.base
	if p.auto != nil {
		v = p.auto.valueAt(float64(n) / p.rate)
	}
	for _, m := range p.mods {
		v += m.next(n)
	}
	return v
}

func (p *param) disconnect() {
	p.mods = nil
}

type waveform int

const (
	waveSine waveform = iota
	waveTriangle
)

func (w waveform) at(phase float64) float64 {
	switch w {
	case waveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

type oscillator struct {
	wave    waveform
	freq    *param
	rate    float64
	phase   float64
	startAt int64
	stopAt  int64 // -1 runs until stop
	started bool
	stopped bool
	cut     bool
}

func newOscillator(wave waveform, freq *param, rate float64) *oscillator {
	return &oscillator{wave: wave, freq: freq, rate: rate, stopAt: -1}
}

func (o *oscillator) start(at int64) {
	o.started, o.startAt = true, at
}

func (o *oscillator) stop() bool {
	if o.stopped {
		return false
	}
	o.stopped = true
	return true
}

func (o *oscillator) next(n int64) float64 {
	if o.cut || o.stopped || !o.started || n < o.startAt || (o.stopAt >= 0 && n >= o.stopAt) {
		return 0
	}
	v := o.wave.at(o.phase)
	o.phase += o.freq.value(n) / o.rate
	o.phase -= math.Floor(o.phase)
	return v
}

func (o *oscillator) disconnect() {
	o.cut = true
	o.freq.disconnect()
}

// bufferSource plays a precomputed buffer, optionally looped.
type bufferSource struct {
	data    []float64
	loop    bool
	pos     int
	startAt int64
	started bool
	stopped bool
	cut     bool
}

func (b *bufferSource) start(at int64) {
	b.started, b.startAt = true, at
}

func (b *bufferSource) stop() bool {
	if b.stopped {
		return false
	}
	b.stopped = true
	return true
}

func (b *bufferSource) next(n int64) float64 {
	if b.cut || b.stopped || !b.started || n < b.startAt || len(b.data) == 0 {
		return 0
	}
	if b.pos >= len(b.data) {
		if !b.loop {
			return 0
		}
		b.pos = 0
	}
	v := b.data[b.pos]
	b.pos++
	return v
}

func (b *bufferSource) disconnect() {
	b.cut = true
}

// gainNode sums its inputs and scales them.
type gainNode struct {
	inputs []node
	gain   *param
}

func newGain(g *param, inputs ...node) *gainNode {
	return &gainNode{inputs: inputs, gain: g}
}

func (g *gainNode) next(n int64) float64 {
	if len(g.inputs) == 0 {
		// Still pull modulators so their phase keeps moving.
		g.gain.value(n)
		return 0
	}
	var sum float64
	for _, in := range g.inputs {
		sum += in.next(n)
	}
	return sum * g.gain.value(n)
}

func (g *gainNode) disconnect() {
	g.inputs = nil
	g.gain.disconnect()
}

type filterKind int

const (
	lowpass filterKind = iota
	highpass
)

// defaultQ matches a browser biquad's default Q of 1 dB.
var defaultQ = math.Pow(10, 1.0/20)

// biquad is an RBJ cookbook lowpass/highpass in direct form I.
type biquad struct {
	kind  filterKind
	input node
	freq  *param
	q     float64
	rate  float64

	lastF              float64
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newBiquad(kind filterKind, input node, freq *param, rate float64) *biquad {
	return &biquad{kind: kind, input: input, freq: freq, q: defaultQ, rate: rate, lastF: -1}
}

func (f *biquad) coefficients(cutoff float64) {
	nyquist := f.rate / 2
	cutoff = min(max(cutoff, 1), nyquist*0.999)

	w0 := 2 * math.Pi * cutoff / f.rate
	cos, sin := math.Cos(w0), math.Sin(w0)
	alpha := sin / (2 * f.q)
	a0 := 1 + alpha

	switch f.kind {
	case highpass:
		f.b0 = (1 + cos) / 2 / a0
		f.b1 = -(1 + cos) / a0
		f.b2 = (1 + cos) / 2 / a0
	default:
		f.b0 = (1 - cos) / 2 / a0
		f.b1 = (1 - cos) / a0
		f.b2 = (1 - cos) / 2 / a0
	}
	f.a1 = -2 * cos / a0
	f.a2 = (1 - alpha) / a0
	f.lastF = cutoff
}

func (f *biquad) next(n int64) float64 {
	if f.input == nil {
		return 0
	}
	x := f.input.next(n)
	if cutoff := f.freq.value(n); cutoff != f.lastF {
		f.coefficients(cutoff)
	}
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

func (f *biquad) disconnect() {
	f.input = nil
	f.freq.disconnect()
}

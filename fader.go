package arco

import "math"

// FaderMode selects a Fader's transition shape.
type FaderMode int

const (
	FaderLinear FaderMode = iota
	FaderExponential
	FaderLowpass
	FaderSmooth
)

type faderState struct {
	current, goal, step, delta, factor, phase float32
}

// Fader fuses a one-segment envelope with a multiply against an audio
// input, giving a smooth per-channel gain control. Each mode/duration
// combination installs a distinct stored run-channel closure (spec.md
// §9's "stored function pointer... swapped whenever... state is reset"),
// mirroring the teacher's ProcFunc dispatch pattern. Grounded on
// fader.h/fader.cpp.
type Fader struct {
	Base
	input       Ugen
	inputStride int
	states      []faderState
	mode        FaderMode
	durSamps    int
	count       int
	faded       bool
	runChannel  func(st *faderState, in, out []float32)
}

// NewFader wires input through a new Fader with nchans channels, all
// starting at the given current gain, in the given mode.
func NewFader(input Ugen, nchans int, current float32, mode FaderMode) *Fader {
	f := &Fader{
		Base:     NewBase(-1, "Fader", RateAudio, nchans),
		states:   make([]faderState, nchans),
		durSamps: 1,
	}
	f.inputStride = InitParam(input)
	f.input = AdaptRate(nil, input, RateAudio)
	f.SetMode(mode)
	f.SetDur(0.1)
	for i := range f.states {
		f.setCurrent(i, current)
	}
	f.RealRunFn = f.realRun
	return f
}

func (f *Fader) Run(block int64) []Sample { return f.run(block, f.RealRunFn) }

func (f *Fader) releaseInputs() []Ugen { in := f.input; f.input = nil; return []Ugen{in} }

// ReplInput replaces the faded source, releasing the old one and
// re-adapting to audio rate if needed.
func (f *Fader) ReplInput(input Ugen) {
	f.input.unref()
	f.inputStride = InitParam(input)
	f.input = AdaptRate(nil, input, RateAudio)
}

func (f *Fader) setCurrent(chanIdx int, current float32) {
	st := &f.states[chanIdx]
	st.current = current
	st.goal = current
	st.delta = 0
	st.factor = 1
}

// SetMode selects the transition shape for subsequent SetGoal calls.
func (f *Fader) SetMode(mode FaderMode) {
	f.mode = mode
	switch mode {
	case FaderExponential:
		f.runChannel = f.chanExponential
	case FaderLowpass:
		f.runChannel = f.chanRelaxation
	case FaderSmooth:
		f.runChannel = f.chanSmoothBr
	default:
		f.runChannel = f.chanLinear
	}
	f.count = 0
}

// SetDur sets the fade duration in seconds.
func (f *Fader) SetDur(d float32) {
	n := int(d*BR + 0.5)
	if n < 1 {
		n = 1
	}
	f.durSamps = n
}

// SetGoal retargets channel chanIdx. Setting the goal on the last
// channel activates the fade across all channels simultaneously.
func (f *Fader) SetGoal(chanIdx int, goal float32) {
	f.states[chanIdx].goal = goal
	if chanIdx != len(f.states)-1 {
		return
	}
	f.SetMode(f.mode)
	f.count = f.durSamps
	f.faded = false
	for i := range f.states {
		st := &f.states[i]
		switch f.mode {
		case FaderExponential:
			st.factor = float32(math.Pow(float64(st.goal+0.01)/float64(st.current+0.01), 1.0/float64(f.durSamps)))
		case FaderLowpass:
			st.factor = float32(math.Pow(0.01, 1.0/float64(f.durSamps)))
			st.delta = (st.goal - st.current) * 1.01
		case FaderSmooth:
			st.delta = float32(-CosTableSize) / float32(f.durSamps)
			st.factor = st.goal - st.current
			st.phase = 2 + CosTableSize
			if float32(f.durSamps) > 0.01*BR {
				f.runChannel = f.chanSmoothBr
			} else {
				f.runChannel = f.chanSmoothAr
				st.delta *= BlRecip
			}
		default:
			st.step = (st.goal - st.current) / float32(f.durSamps)
		}
	}
}

func (f *Fader) chanLinear(st *faderState, in, out []float32) {
	prev := st.current
	st.current += st.step
	incr := (st.current - prev) * BlRecip
	for i := 0; i < BL; i++ {
		prev += incr
		out[i] = in[i] * prev
	}
}

func (f *Fader) chanExponential(st *faderState, in, out []float32) {
	prev := st.current
	st.current = (st.current+0.01)*st.factor - 0.01
	incr := (st.current - prev) * BlRecip
	for i := 0; i < BL; i++ {
		prev += incr
		out[i] = in[i] * prev
	}
}

func (f *Fader) chanRelaxation(st *faderState, in, out []float32) {
	prev := st.current
	st.delta *= st.factor
	st.current = st.goal - st.delta
	incr := (st.current - prev) * BlRecip
	for i := 0; i < BL; i++ {
		prev += incr
		out[i] = in[i] * prev
	}
}

func (f *Fader) chanSmoothBr(st *faderState, in, out []float32) {
	prev := st.current
	st.phase += st.delta
	rc := rawRaisedCosine(st.phase)
	st.current = st.goal - st.factor*rc
	incr := (st.current - prev) * BlRecip
	for i := 0; i < BL; i++ {
		prev += incr
		out[i] = in[i] * prev
	}
}

func (f *Fader) chanSmoothAr(st *faderState, in, out []float32) {
	cur := st.current
	goal := st.goal
	factor := st.factor
	phase := st.phase
	for i := 0; i < BL; i++ {
		phase += st.delta
		rc := rawRaisedCosine(phase)
		cur = goal - factor*rc
		out[i] = in[i] * cur
	}
	st.current = cur
	st.phase = phase
}

func (f *Fader) chanStatic(st *faderState, in, out []float32) {
	gain := st.current
	for i := 0; i < BL; i++ {
		out[i] = in[i] * gain
	}
}

func (f *Fader) realRun() {
	inSamps := f.input.Run(f.curBlock)
	if f.count == 0 && !f.faded {
		f.faded = true
		f.runChannel = f.chanStatic
		if f.flags&CanTerminate != 0 {
			allZero := true
			for i := range f.states {
				if f.states[i].goal != 0 {
					allZero = false
					break
				}
			}
			if allZero {
				f.Terminate()
			}
		}
	}
	f.count--
	for ch := 0; ch < f.chans; ch++ {
		inSeg := inSamps[ch*f.inputStride : ch*f.inputStride+BL]
		outSeg := f.outSamps[ch*BL : ch*BL+BL]
		f.runChannel(&f.states[ch], inSeg, outSeg)
	}
}

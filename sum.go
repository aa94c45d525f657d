package arco

import "math"

// minGainRampSeconds is the minimum time a full-scale (0 to 1) gain
// change may take; faster requested changes are rate-limited to this,
// per spec.md §4.3.
const minGainRampSeconds = 0.050

// Sum is the audio-rate summation ugen: an ordered list of audio-rate
// inputs combined with a rate-limited gain ramp. Grounded on sum.h/sum.cpp.
type Sum struct {
	Base
	reg    *Registry
	inputs []Ugen
	Gain   float32
	prevGain float32
	Wrap   bool
}

// NewSum creates a Sum with the given channel count. wrap controls
// whether input channels beyond chans are folded back (summed modulo
// chans) rather than dropped.
func NewSum(reg *Registry, id ID, chans int, wrap bool) *Sum {
	s := &Sum{
		Base:     NewBase(id, "Sum", RateAudio, chans),
		reg:      reg,
		Gain:     1,
		prevGain: 1,
		Wrap:     wrap,
	}
	s.RealRunFn = s.realRun
	return s
}

func (s *Sum) Run(block int64) []Sample { return s.run(block, s.RealRunFn) }

// Ins appends input to the sum, ref'ing it. Idempotent on exact
// duplicates (ins(u) twice results in one membership).
func (s *Sum) Ins(input Ugen) error {
	if input.Chans() <= 0 {
		return ErrRateMismatch
	}
	if input.Rate() != RateAudio {
		return ErrRateMismatch
	}
	if s.find(input) >= 0 {
		return nil
	}
	s.inputs = append(s.inputs, input)
	input.ref()
	return nil
}

// Rem removes input from the sum, unref'ing it.
func (s *Sum) Rem(input Ugen) {
	i := s.find(input)
	if i < 0 {
		return
	}
	input.unref()
	s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
}

// Swap atomically replaces old with replacement at old's list position,
// preserving ordering for glitch-free fade substitution.
func (s *Sum) Swap(old, replacement Ugen) {
	i := s.find(old)
	if i < 0 {
		return
	}
	old.unref()
	s.inputs[i] = replacement
	replacement.ref()
}

func (s *Sum) find(u Ugen) int {
	for i, in := range s.inputs {
		if in == u {
			return i
		}
	}
	return -1
}

// releaseInputs implements inputReleaser for iterative teardown.
func (s *Sum) releaseInputs() []Ugen {
	ins := s.inputs
	s.inputs = nil
	return ins
}

func (s *Sum) realRun() {
	startingSize := len(s.inputs)
	out := s.outSamps
	chans := s.chans
	copyFirst := true
	i := 0
	for i < len(s.inputs) {
		input := s.inputs[i]
		inPtr := input.Run(s.curBlock)
		if input.Flags()&Terminated != 0 {
			input.unref()
			s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
			continue
		}
		i++
		ch := input.Chans()
		if copyFirst {
			n := minInt(ch, chans)
			blockCopyN(out, inPtr, n)
			if ch < chans {
				blockZeroN(out[BL*ch:], chans-ch)
			}
			copyFirst = false
		} else {
			blockAddN(out, inPtr, minInt(ch, chans))
		}
		if ch > chans && s.Wrap {
			for c := chans; c < ch; c += chans {
				blockAddN(out, inPtr[c*BL:], minInt(ch-c, chans))
			}
		}
	}
	if copyFirst {
		blockZeroN(out, chans)
		if startingSize > 0 && s.flags&CanTerminate != 0 {
			s.Terminate()
		}
	}
	s.applyGain()
}

// applyGain implements spec.md §4.3's rate-limited gain ramp: changes
// faster than AP/0.050 per sample are clamped to that rate; changes
// under 1e-6 per sample are treated as constant.
func (s *Sum) applyGain() {
	out := s.outSamps
	chans := s.chans
	gincr := (s.Gain - s.prevGain) * BlRecip
	absIncr := float32(math.Abs(float64(gincr)))
	maxIncr := AP / minGainRampSeconds
	if absIncr < 1e-6 {
		if s.Gain != 1 {
			for i := range out[:chans*BL] {
				out[i] *= s.Gain
			}
			s.prevGain = s.Gain
		}
		return
	}
	if absIncr > maxIncr {
		if gincr < 0 {
			gincr = -maxIncr
		} else {
			gincr = maxIncr
		}
	}
	var g float32
	for ch := 0; ch < chans; ch++ {
		g = s.prevGain
		base := ch * BL
		for i := 0; i < BL; i++ {
			g += gincr
			out[base+i] *= g
		}
	}
	if absIncr > maxIncr {
		s.prevGain = g
	} else {
		s.prevGain = s.Gain
	}
}

// NewAdd creates the "legacy" Add ugen: a Sum with gain pinned to unity
// and ramping disabled, grounded on add.h/add.cpp (Sum with the gain path
// compiled out).
func NewAdd(reg *Registry, id ID, chans int, wrap bool) *Sum {
	a := NewSum(reg, id, chans, wrap)
	a.Gain = 1
	a.prevGain = 1
	a.RealRunFn = func() {
		a.realRunNoGain()
	}
	return a
}

func (s *Sum) realRunNoGain() {
	startingSize := len(s.inputs)
	out := s.outSamps
	chans := s.chans
	copyFirst := true
	i := 0
	for i < len(s.inputs) {
		input := s.inputs[i]
		inPtr := input.Run(s.curBlock)
		if input.Flags()&Terminated != 0 {
			input.unref()
			s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
			continue
		}
		i++
		ch := input.Chans()
		if copyFirst {
			n := minInt(ch, chans)
			blockCopyN(out, inPtr, n)
			if ch < chans {
				blockZeroN(out[BL*ch:], chans-ch)
			}
			copyFirst = false
		} else {
			blockAddN(out, inPtr, minInt(ch, chans))
		}
		if ch > chans && s.Wrap {
			for c := chans; c < ch; c += chans {
				blockAddN(out, inPtr[c*BL:], minInt(ch-c, chans))
			}
		}
	}
	if copyFirst {
		blockZeroN(out, chans)
		if startingSize > 0 && s.flags&CanTerminate != 0 {
			s.Terminate()
		}
	}
}

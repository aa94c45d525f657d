package arco

// Stdistr is the spatial stereo distributor: a fixed-size indexed slot
// array of mono audio inputs, each given an equal-power pan position
// derived from width, summed into a stereo output. Grounded on
// stdistr.h; shares the raised-cosine table with Fader's SMOOTH mode.
type Stdistr struct {
	Base
	reg    *Registry
	inputs []Ugen // indexed slots; nil entry = empty slot

	Gain, prevGain   float32
	Width, prevWidth float32
	changing         bool
	zeroIncrements   bool

	// gains is interleaved (leftGain, leftIncr, rightGain, rightIncr) per slot.
	gains []float32
}

// NewStdistr creates a Stdistr with n input slots (minimum 2) and
// initial stereo width.
func NewStdistr(reg *Registry, id ID, n int, width float32) *Stdistr {
	if n < 2 {
		n = 2
	}
	s := &Stdistr{
		Base:      NewBase(id, "Stdistr", RateAudio, 2),
		reg:       reg,
		inputs:    make([]Ugen, n),
		gains:     make([]float32, 4*n),
		Width:     width,
		prevWidth: width,
		Gain:      1,
		prevGain:  1,
		changing:  true,
	}
	s.RealRunFn = s.realRun
	return s
}

// SetGain sets the final output gain; the change is rate-limited.
func (s *Stdistr) SetGain(g float32) { s.Gain = g; s.changing = true }

// SetWidth sets the stereo spread in [0,1]; the change is rate-limited.
func (s *Stdistr) SetWidth(w float32) { s.Width = w; s.changing = true }

// Ins wires an audio-rate mono input into slot i.
func (s *Stdistr) Ins(i int, input Ugen) error {
	if input.Chans() <= 0 {
		return ErrRateMismatch
	}
	if input.Rate() != RateAudio {
		return ErrRateMismatch
	}
	if i < 0 || i >= len(s.inputs) {
		return ErrRateMismatch
	}
	if s.inputs[i] != nil {
		s.inputs[i].unref()
	}
	s.inputs[i] = input
	input.ref()
	return nil
}

// Rem clears slot i.
func (s *Stdistr) Rem(i int) {
	if i < 0 || i >= len(s.inputs) {
		return
	}
	if s.inputs[i] != nil {
		s.inputs[i].unref()
		s.inputs[i] = nil
	}
}

func (s *Stdistr) releaseInputs() []Ugen {
	ins := make([]Ugen, 0, len(s.inputs))
	for _, in := range s.inputs {
		if in != nil {
			ins = append(ins, in)
		}
	}
	s.inputs = nil
	return ins
}

func (s *Stdistr) realRun() {
	slewIncr := BP / 0.050
	n := len(s.inputs)

	if s.changing {
		if s.Gain > s.prevGain+slewIncr {
			s.prevGain += slewIncr
		} else if s.Gain < s.prevGain-slewIncr {
			s.prevGain -= slewIncr
		} else {
			// within one slew step of the target: land on it exactly
			// rather than stalling short of it forever.
			s.prevGain = s.Gain
		}
		if s.Width > s.prevWidth+slewIncr {
			s.prevWidth += slewIncr
		} else if s.Width < s.prevWidth-slewIncr {
			s.prevWidth -= slewIncr
		} else {
			s.prevWidth = s.Width
		}
		for i := 0; i < n; i++ {
			pan := (float32(i) / float32(n-1)) * s.prevWidth + (0.5 - s.prevWidth/2)

			angle := float32(CosTableSize) - pan*(float32(CosTableSize)/2.0)
			left := rawRaisedCosine(angle)
			left = 2*left - 1
			left *= s.prevGain
			s.gains[i*4+1] = (left - s.gains[i*4]) * BlRecip

			angle = float32(CosTableSize)*1.5 - angle
			right := rawRaisedCosine(angle)
			right = 2*right - 1
			right *= s.prevGain
			s.gains[i*4+3] = (right - s.gains[i*4+2]) * BlRecip
		}
		s.changing = s.prevGain != s.Gain || s.prevWidth != s.Width
		if !s.changing {
			s.zeroIncrements = true
		}
	} else if s.zeroIncrements {
		for i := 0; i < n; i++ {
			s.gains[i*4+1] = 0
			s.gains[i*4+3] = 0
		}
		s.zeroIncrements = false
	}

	blockZeroN(s.outSamps, 2)
	for i := 0; i < n; i++ {
		input := s.inputs[i]
		if input == nil {
			continue
		}
		inPtr := input.Run(s.curBlock)
		if input.Flags()&Terminated != 0 {
			input.unref()
			s.inputs[i] = nil
			continue
		}
		leftGain := s.gains[i*4]
		rightGain := s.gains[i*4+2]
		leftIncr := s.gains[i*4+1]
		rightIncr := s.gains[i*4+3]
		for j := 0; j < BL; j++ {
			leftGain += leftIncr
			rightGain += rightIncr
			s.outSamps[j] += leftGain * inPtr[j]
			s.outSamps[j+BL] += rightGain * inPtr[j]
		}
		s.gains[i*4] = leftGain
		s.gains[i*4+2] = rightGain
	}
}

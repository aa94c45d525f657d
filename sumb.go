package arco

// Sumb is the block-rate summation ugen: like Sum it sums its inputs per
// channel, folding channels beyond chans back modulo chans when Wrap is
// set, but with one sample per channel per block. Gain is applied to each
// block as it stands, without Sum's rate-limited ramp. A REM reply is
// emitted before an input is released on termination. Grounded on
// sumb.h/sumb.cpp.
type Sumb struct {
	Base
	reg      *Registry
	inputs   []Ugen
	Gain     float32
	prevGain float32
	Wrap     bool
	replies  *ReplyAdapter
}

// NewSumb creates a Sumb with the given channel count.
func NewSumb(reg *Registry, id ID, chans int, wrap bool, replies *ReplyAdapter) *Sumb {
	s := &Sumb{
		Base:     NewBase(id, "Sumb", RateBlock, chans),
		reg:      reg,
		Gain:     1,
		prevGain: 1,
		Wrap:     wrap,
		replies:  replies,
	}
	s.RealRunFn = s.realRun
	return s
}

func (s *Sumb) Run(block int64) []Sample { return s.run(block, s.RealRunFn) }

// Ins appends input, idempotent on exact duplicates.
func (s *Sumb) Ins(input Ugen) error {
	if input.Chans() <= 0 {
		return ErrRateMismatch
	}
	if s.find(input) >= 0 {
		return nil
	}
	s.inputs = append(s.inputs, input)
	input.ref()
	return nil
}

// Rem removes input, unref'ing it.
func (s *Sumb) Rem(input Ugen) {
	i := s.find(input)
	if i < 0 {
		return
	}
	input.unref()
	s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
}

func (s *Sumb) find(u Ugen) int {
	for i, in := range s.inputs {
		if in == u {
			return i
		}
	}
	return -1
}

func (s *Sumb) releaseInputs() []Ugen {
	ins := s.inputs
	s.inputs = nil
	return ins
}

func (s *Sumb) realRun() {
	startingSize := len(s.inputs)
	chans := s.chans
	for i := range s.outSamps[:chans] {
		s.outSamps[i] = 0
	}
	i := 0
	anyInput := false
	for i < len(s.inputs) {
		input := s.inputs[i]
		inPtr := input.Run(s.curBlock)
		if input.Flags()&Terminated != 0 {
			if s.replies != nil && s.ActionID() != 0 {
				s.replies.Post(Reply{Addr: ReplyActionEnd, Args: []any{int32(s.ActionID()), "REM", int32(input.ID())}})
			}
			input.unref()
			s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
			continue
		}
		anyInput = true
		i++
		n := minInt(input.Chans(), chans)
		for c := 0; c < n; c++ {
			s.outSamps[c] += inPtr[c]
		}
		if s.Wrap && chans > 0 {
			for c := chans; c < input.Chans(); c++ {
				s.outSamps[c%chans] += inPtr[c]
			}
		}
	}
	if !anyInput && startingSize > 0 && s.flags&CanTerminate != 0 {
		s.Terminate()
	}
	if s.Gain != 1 {
		for c := 0; c < chans; c++ {
			s.outSamps[c] *= s.Gain
		}
	}
}

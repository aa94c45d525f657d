package arco

// Upsample converts a block-rate (or constant-rate) source to audio
// rate: each channel ramps linearly from its previous block's value to
// the current one across BL samples. Grounded on upsample.h. AdaptRate
// inserts this when a non-audio source is wired into a consumer that
// asks it for audio rate (Fader's input).
type Upsample struct {
	Base
	input       Ugen
	inputStride int
	prev        []float32
}

// NewUpsample wires input (a block- or constant-rate ugen) through a new
// Upsample with one output channel per input channel.
func NewUpsample(input Ugen) *Upsample {
	u := &Upsample{
		Base:  NewBase(-1, "Upsample", RateAudio, input.Chans()),
		input: input,
		prev:  make([]float32, input.Chans()),
	}
	u.inputStride = InitParam(input)
	u.RealRunFn = u.realRun
	return u
}

func (u *Upsample) Run(block int64) []Sample { return u.run(block, u.RealRunFn) }

func (u *Upsample) releaseInputs() []Ugen { in := u.input; u.input = nil; return []Ugen{in} }

// ReplInput replaces the upsampled source, releasing the old one.
func (u *Upsample) ReplInput(input Ugen) {
	u.input.unref()
	u.input = input
	u.inputStride = InitParam(input)
}

func (u *Upsample) realRun() {
	inSamps := u.input.Run(u.curBlock)
	for i := 0; i < u.chans; i++ {
		cur := inSamps[i*u.inputStride]
		incr := (cur - u.prev[i]) * BlRecip
		base := i * BL
		v := u.prev[i]
		for j := 0; j < BL; j++ {
			v += incr
			u.outSamps[base+j] = v
		}
		u.prev[i] = v
	}
}

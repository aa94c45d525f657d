package arco

// Feedback is the sole mechanism by which the pull-traversal graph may
// contain a cycle: it reads its "from" input *after* producing its own
// output, copying the result into a private one-block-delay buffer for
// next time, per spec.md §4.6/§9. input and from are always audio-rate;
// gain may be audio or block rate, and a distinct stored run-channel
// closure is installed for each (spec.md §9's rate-variant inner loop
// guidance, directly mirroring chan_aa_a/chan_ab_a in the original).
// Grounded on feedback.h/feedback.cpp.
type Feedback struct {
	Base
	input, from, gain       Ugen
	inputStride, gainStride int
	feedback                []float32 // previous block's "from" samples
	gainPrev                []float32
	gainIsAudio             bool
	runChannel              func(ch int, inSeg, fromSeg, gainSeg, out []float32)
}

// NewFeedback wires input (pass-through), from (the feedback tap) and
// gain (audio or block rate) into a new Feedback with nchans channels.
func NewFeedback(input, from, gain Ugen, nchans int) *Feedback {
	f := &Feedback{
		Base:     NewBase(-1, "Feedback", RateAudio, nchans),
		feedback: make([]float32, nchans*BL),
		gainPrev: make([]float32, nchans),
	}
	f.inputStride = InitParam(input)
	f.input = input
	InitParam(from)
	f.from = from
	f.gainStride = InitParam(gain)
	f.gain = gain
	f.updateRunChannel()
	f.RealRunFn = f.realRun
	return f
}

func (f *Feedback) Run(block int64) []Sample { return f.run(block, f.RealRunFn) }

func (f *Feedback) releaseInputs() []Ugen {
	ins := []Ugen{f.input, f.from, f.gain}
	f.input, f.from, f.gain = nil, nil, nil
	return ins
}

// ReplInput replaces the pass-through input, releasing the old one.
func (f *Feedback) ReplInput(input Ugen) {
	f.input.unref()
	f.inputStride = InitParam(input)
	f.input = input
}

// ReplFrom replaces the feedback tap, releasing the old one and
// resizing the private delay buffer to the new tap's channel count.
func (f *Feedback) ReplFrom(from Ugen) {
	f.from.unref()
	InitParam(from)
	f.from = from
	f.feedback = make([]float32, from.Chans()*BL)
}

// ReplGain replaces the gain source, possibly switching run-channel mode.
func (f *Feedback) ReplGain(gain Ugen) {
	f.gain.unref()
	f.gainStride = InitParam(gain)
	f.gain = gain
	f.updateRunChannel()
}

func (f *Feedback) updateRunChannel() {
	isAudio := f.gain.Rate() == RateAudio
	if f.runChannel != nil && isAudio == f.gainIsAudio {
		return
	}
	f.gainIsAudio = isAudio
	for i := range f.gainPrev {
		f.gainPrev[i] = 0
	}
	if isAudio {
		f.runChannel = f.chanAaA
	} else {
		f.runChannel = f.chanAbA
	}
}

func (f *Feedback) chanAaA(ch int, inSeg, fromSeg, gainSeg, out []float32) {
	for i := 0; i < BL; i++ {
		out[i] = inSeg[i] + fromSeg[i]*gainSeg[i]
	}
}

func (f *Feedback) chanAbA(ch int, inSeg, fromSeg, gainSeg, out []float32) {
	gainIncr := (gainSeg[0] - f.gainPrev[ch]) * BlRecip
	gainFast := f.gainPrev[ch]
	f.gainPrev[ch] = gainSeg[0]
	for i := 0; i < BL; i++ {
		gainFast += gainIncr
		out[i] = inSeg[i] + fromSeg[i]*gainFast
	}
}

func (f *Feedback) realRun() {
	inSamps := f.input.Run(f.curBlock)
	gainSamps := f.gain.Run(f.curBlock)
	for ch := 0; ch < f.chans; ch++ {
		inSeg := inSamps[ch*f.inputStride : ch*f.inputStride+BL]
		fromSeg := f.feedback[ch*BL : ch*BL+BL]
		var gainSeg []float32
		if f.gainStride == BL {
			gainSeg = gainSamps[ch*BL : ch*BL+BL]
		} else {
			gainSeg = gainSamps[ch : ch+1]
		}
		out := f.outSamps[ch*BL : ch*BL+BL]
		f.runChannel(ch, inSeg, fromSeg, gainSeg, out)
	}
	// Pull "from" only now, after producing our own output: pulling it
	// earlier would re-enter the graph recursively through whatever
	// downstream path loops back to this Feedback node. Its samples
	// become next block's feedback tap.
	fromSamps := f.from.Run(f.curBlock)
	blockCopyN(f.feedback, fromSamps, f.from.Chans())
}

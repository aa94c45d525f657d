package arco

import "math"

// smoothCoeffs converts a cutoff frequency to the one-pole filter
// coefficients used by Smooth and Smoothb (Dnsampleb's lowpass modes
// compute the same formula inline): k = 1 - cos(2*pi*hz*period), alpha = -k + sqrt(k^2+2k). period is AP
// for audio rate, BP for block rate.
func smoothCoeffs(hz, period float32) (alpha, oneMinusAlpha float32) {
	k := 1 - float32(math.Cos(float64(2*math.Pi*hz*period)))
	alpha = -k + float32(math.Sqrt(float64((2+k)*k)))
	oneMinusAlpha = 1 - alpha
	return
}

// Smooth holds a per-channel target value and emits a one-pole-smoothed
// audio-rate chase toward it. Grounded on smooth.h.
type Smooth struct {
	Base
	target         []float32
	prev           []float32
	cutoff         float32
	alpha, oneMa   float32
}

// NewSmooth creates a Smooth with nchans channels and the given cutoff
// (Hz, default 10 in the original).
func NewSmooth(id ID, nchans int, cutoff float32) *Smooth {
	s := &Smooth{
		Base:   NewBase(id, "Smooth", RateAudio, nchans),
		target: make([]float32, nchans),
		prev:   make([]float32, nchans),
	}
	s.SetCutoff(cutoff)
	s.RealRunFn = s.realRun
	return s
}

func (s *Smooth) Run(block int64) []Sample { return s.run(block, s.RealRunFn) }

// SetCutoff reconfigures the chase rate.
func (s *Smooth) SetCutoff(hz float32) {
	s.cutoff = hz
	s.alpha, s.oneMa = smoothCoeffs(hz, AP)
}

// SetValue retargets channel chan; output continues chasing exponentially.
func (s *Smooth) SetValue(chanIdx int, value float32) error {
	if chanIdx < 0 || chanIdx >= s.chans {
		return ErrRateMismatch
	}
	s.target[chanIdx] = value
	return nil
}

func (s *Smooth) realRun() {
	for ch := 0; ch < s.chans; ch++ {
		base := ch * BL
		prev := s.prev[ch]
		target := s.target[ch]
		for i := 0; i < BL; i++ {
			prev = s.alpha*target + s.oneMa*prev
			s.outSamps[base+i] = prev
		}
		s.prev[ch] = prev
	}
}

// Smoothb is Smooth's block-rate counterpart: one sample per channel per
// block, cutoff expressed relative to the block rate. Grounded on
// smoothb.h.
type Smoothb struct {
	Base
	target       []float32
	prev         []float32
	cutoff       float32
	alpha, oneMa float32
}

// NewSmoothb creates a Smoothb with nchans channels and the given cutoff.
func NewSmoothb(id ID, nchans int, cutoff float32) *Smoothb {
	s := &Smoothb{
		Base:   NewBase(id, "Smoothb", RateBlock, nchans),
		target: make([]float32, nchans),
		prev:   make([]float32, nchans),
	}
	s.SetCutoff(cutoff)
	s.RealRunFn = s.realRun
	return s
}

func (s *Smoothb) Run(block int64) []Sample { return s.run(block, s.RealRunFn) }

// SetCutoff reconfigures the chase rate.
func (s *Smoothb) SetCutoff(hz float32) {
	s.cutoff = hz
	s.alpha, s.oneMa = smoothCoeffs(hz, BP)
}

// SetValue retargets channel chan.
func (s *Smoothb) SetValue(chanIdx int, value float32) error {
	if chanIdx < 0 || chanIdx >= s.chans {
		return ErrRateMismatch
	}
	s.target[chanIdx] = value
	return nil
}

func (s *Smoothb) realRun() {
	for ch := 0; ch < s.chans; ch++ {
		s.prev[ch] = s.alpha*s.target[ch] + s.oneMa*s.prev[ch]
		s.outSamps[ch] = s.prev[ch]
	}
}

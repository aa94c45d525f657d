package arco

import "math"

// dualslewBias shifts the clamped input so multiplicative (exponential)
// slewing never multiplies by zero. Grounded on dualslewb.h's BIAS=0.01.
const dualslewBias float32 = 0.01

// Dualslewb is a block-rate portamento slew with independent attack and
// release rates, each independently linear or exponential. Input is
// clamped to >= 0 and bias-shifted internally; rising input slews
// "current" up using the attack rate, falling input slews it down using
// the release rate. Grounded on dualslewb.h/dualslewb.cpp. Audio-rate
// input is refused (spec.md §7 policy (b): silently adapting an
// audio-rate signal into a slow control-rate slew would be surprising):
// both NewDualslewb and ReplInput return ErrRateMismatch for it.
type Dualslewb struct {
	Base
	input       Ugen
	inputStride int
	current     []float32

	attack, release               float32
	attackLinear, releaseLinear   bool
	attIncr, relDecr               float32
}

// NewDualslewb creates a Dualslewb with nchans channels. input must not
// be audio-rate.
func NewDualslewb(input Ugen, nchans int, attack, release float32, current float32, attackLinear, releaseLinear bool) (*Dualslewb, error) {
	if input.Rate() == RateAudio {
		return nil, ErrRateMismatch
	}
	d := &Dualslewb{
		Base:    NewBase(-1, "Dualslewb", RateBlock, nchans),
		current: make([]float32, nchans),
	}
	d.SetAttack(attack, attackLinear)
	d.SetRelease(release, releaseLinear)
	for i := range d.current {
		d.SetCurrent(i, current)
	}
	d.inputStride = InitParam(input)
	d.input = input
	d.RealRunFn = d.realRun
	return d, nil
}

func (d *Dualslewb) Run(block int64) []Sample { return d.run(block, d.RealRunFn) }

func (d *Dualslewb) releaseInputs() []Ugen { in := d.input; d.input = nil; return []Ugen{in} }

// ReplInput replaces the slewed source; audio-rate replacement is refused.
func (d *Dualslewb) ReplInput(input Ugen) error {
	if input.Rate() == RateAudio {
		return ErrRateMismatch
	}
	d.input.unref()
	d.inputStride = InitParam(input)
	d.input = input
	return nil
}

// SetCurrent forces channel chanIdx's slewed value.
func (d *Dualslewb) SetCurrent(chanIdx int, x float32) {
	if x < 0 {
		x = 0
	}
	d.current[chanIdx] = x + dualslewBias
}

// SetAttack configures the attack rate (seconds, floored to one block
// period) and whether it slews linearly or exponentially.
func (d *Dualslewb) SetAttack(attack float32, linear bool) {
	if attack < BP {
		attack = BP
	}
	d.attack = attack
	d.attackLinear = linear
	if linear {
		d.attIncr = 1.0 / (attack * BR)
	} else {
		d.attIncr = float32(math.Exp(math.Log(1.0/float64(dualslewBias)) / float64(attack*BR)))
	}
}

// SetRelease configures the release rate and linear/exponential choice.
func (d *Dualslewb) SetRelease(release float32, linear bool) {
	if release < BP {
		release = BP
	}
	d.release = release
	d.releaseLinear = linear
	if linear {
		// negative slope: linear release must decrease current toward
		// the (lower) input, mirroring attIncr's positive rise slope.
		d.relDecr = -1.0 / (release * BR)
	} else {
		d.relDecr = float32(math.Exp(math.Log(float64(dualslewBias)) / float64(release*BR)))
	}
}

func (d *Dualslewb) realRun() {
	inSamps := d.input.Run(d.curBlock)
	for ch := 0; ch < d.chans; ch++ {
		in := inSamps[ch*d.inputStride]
		if in < 0 {
			in = 0
		}
		in += dualslewBias
		cur := d.current[ch]
		if in > cur {
			if d.attackLinear {
				cur += d.attIncr
			} else {
				cur *= d.attIncr
			}
			if cur > in {
				cur = in
			}
		} else {
			if d.releaseLinear {
				cur += d.relDecr
			} else {
				cur *= d.relDecr
			}
			if cur < in {
				cur = in
			}
		}
		d.current[ch] = cur
		d.outSamps[ch] = cur - dualslewBias
	}
}

package arco

import "math"

// DnsampleMode selects a Dnsampleb's per-block reduction.
type DnsampleMode int

const (
	DnsampleBasic DnsampleMode = iota
	DnsampleAvg
	DnsamplePeak
	DnsampleRMS
	DnsamplePower
	DnsampleLowpass500
	DnsampleLowpass100
)

// Dnsampleb converts an audio-rate source to block rate, with modes
// BASIC (sample 0 of the block — spec.md §9 calls out this definition
// explicitly since the original's naming is ambiguous), AVG, PEAK, RMS,
// POWER, and two one-pole LOWPASS cutoffs. Grounded on
// dnsampleb.h/dnsampleb.cpp.
type Dnsampleb struct {
	Base
	input       Ugen
	inputStride int
	mode        DnsampleMode

	alpha, oneMinusAlpha float32
	prev                 []float32

	tailBlocks   int
	tailCounting bool
	tailLeft     int
}

// NewDnsampleb wires input through a new Dnsampleb in the given mode.
func NewDnsampleb(input Ugen, mode DnsampleMode) *Dnsampleb {
	d := &Dnsampleb{
		Base:  NewBase(-1, "Dnsampleb", RateBlock, input.Chans()),
		input: input,
		prev:  make([]float32, input.Chans()),
	}
	d.inputStride = InitParam(input)
	d.SetMode(mode)
	d.RealRunFn = d.realRun
	return d
}

func (d *Dnsampleb) Run(block int64) []Sample { return d.run(block, d.RealRunFn) }

func (d *Dnsampleb) releaseInputs() []Ugen { in := d.input; d.input = nil; return []Ugen{in} }

// ReplInput replaces the downsampled source, releasing the old one.
func (d *Dnsampleb) ReplInput(input Ugen) {
	d.input.unref()
	d.input = input
	d.inputStride = InitParam(input)
}

// SetCutoff configures a LOWPASS mode's -3dB cutoff and recomputes the
// termination tail length per spec.md §4.4's formula.
func (d *Dnsampleb) SetCutoff(hz float32) {
	k := 1 - float32(math.Cos(float64(2*math.Pi*hz*AP)))
	d.alpha = -k + float32(math.Sqrt(float64((2+k)*k)))
	d.oneMinusAlpha = 1 - d.alpha
	d.tailBlocks = int(math.Ceil(math.Log(1e-7) / (float64(BL) * math.Log(float64(d.oneMinusAlpha)))))
}

// SetMode selects the reduction and, for LOWPASS modes, the matching
// default cutoff (500 Hz / 100 Hz).
func (d *Dnsampleb) SetMode(mode DnsampleMode) {
	d.mode = mode
	d.tailBlocks = 0
	switch mode {
	case DnsampleLowpass500:
		d.SetCutoff(500.0)
	case DnsampleLowpass100:
		d.SetCutoff(100.0)
	}
}

func (d *Dnsampleb) isLowpass() bool {
	return d.mode == DnsampleLowpass500 || d.mode == DnsampleLowpass100
}

func (d *Dnsampleb) realRun() {
	inSamps := d.input.Run(d.curBlock)
	terminated := d.input.Flags()&Terminated != 0

	for i := 0; i < d.chans; i++ {
		seg := inSamps[i*d.inputStride : i*d.inputStride+BL]
		d.outSamps[i] = d.reduce(i, seg)
	}

	if terminated {
		if d.isLowpass() {
			if !d.tailCounting {
				d.tailCounting = true
				d.tailLeft = d.tailBlocks
			}
			if d.tailLeft <= 0 {
				d.Terminate()
			} else {
				d.tailLeft--
			}
		} else {
			d.Terminate()
		}
	}
}

func (d *Dnsampleb) reduce(ch int, seg []Sample) Sample {
	switch d.mode {
	case DnsampleBasic:
		return seg[0]
	case DnsampleAvg:
		var s float32
		for _, v := range seg {
			s += v
		}
		return s * BlRecip
	case DnsamplePeak:
		m := absf32(seg[0])
		for _, v := range seg[1:] {
			if a := absf32(v); a > m {
				m = a
			}
		}
		return m
	case DnsamplePower:
		return d.power(seg)
	case DnsampleRMS:
		return Sample(math.Sqrt(float64(d.power(seg))))
	case DnsampleLowpass500, DnsampleLowpass100:
		prev := d.prev[ch]
		for _, v := range seg {
			prev = d.alpha*v + d.oneMinusAlpha*prev
		}
		d.prev[ch] = prev
		return prev
	default:
		return seg[0]
	}
}

func (d *Dnsampleb) power(seg []Sample) float32 {
	var sum float32
	for _, v := range seg {
		sum += v * v
	}
	return sum * BlRecip
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

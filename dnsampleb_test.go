package arco

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// rampUgen is an audio-rate source whose block holds samples 0, 1,
// 2, ..., BL-1 (scaled), for exercising Dnsampleb's reduction modes
// against known, distinguishable per-sample values.
type rampUgen struct {
	Base
	scale Sample
}

func newRampUgen(id ID, scale Sample) *rampUgen {
	r := &rampUgen{Base: NewBase(id, "Ramp", RateAudio, 1), scale: scale}
	r.RealRunFn = func() {
		for i := 0; i < BL; i++ {
			r.outSamps[i] = r.scale * Sample(i)
		}
	}
	return r
}

func (r *rampUgen) Run(block int64) []Sample { return r.run(block, r.RealRunFn) }

func TestDnsamplebBasicTakesFirstSample(t *testing.T) {
	src := newRampUgen(1, 1)
	d := NewDnsampleb(src, DnsampleBasic)
	out := d.Run(0)
	assert.Equal(t, Sample(0), out[0])
}

func TestDnsamplebAvgAveragesBlock(t *testing.T) {
	src := newRampUgen(1, 1)
	d := NewDnsampleb(src, DnsampleAvg)
	out := d.Run(0)
	want := float64(BL-1) / 2.0
	assert.InDelta(t, want, float64(out[0]), 1e-3)
}

func TestDnsamplebPeakTakesMaxAbs(t *testing.T) {
	src := newRampUgen(1, 1)
	d := NewDnsampleb(src, DnsamplePeak)
	out := d.Run(0)
	assert.InDelta(t, float64(BL-1), float64(out[0]), 1e-6)
}

func TestDnsamplebRMSMatchesPower(t *testing.T) {
	src := newRampUgen(1, 1)
	d := NewDnsampleb(src, DnsampleRMS)
	out := d.Run(0)

	var sumSq float64
	for i := 0; i < BL; i++ {
		sumSq += float64(i) * float64(i)
	}
	want := math.Sqrt(sumSq / float64(BL))
	assert.InDelta(t, want, float64(out[0]), 1e-2)
}

func TestDnsamplebLowpassSmoothsAndSetsTail(t *testing.T) {
	src := newRampUgen(1, 0) // constant zero
	d := NewDnsampleb(src, DnsampleLowpass500)
	assert.Greater(t, d.tailBlocks, 0, "a lowpass mode must have a non-zero termination tail")
	out := d.Run(0)
	assert.Equal(t, Sample(0), out[0])
}

// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package arco

import (
	"math"

	"zikichombo.org/sound/freq"
)

// Sample is the numeric type of one audio sample as seen by a ugen's
// internal DSP loops. Device-facing I/O (DeviceBlock and friends) still
// traffics in float64, as required by zikichombo.org/sound; Sample is
// narrower because the unit generator graph is the hot real-time path and
// favors compact, SIMD-friendly storage over the device tier's precision.
type Sample = float32

// BL is the fixed number of audio-rate samples computed per block. It must
// be a small power of two. BlRecip, AR, AP, BR and BP are derived from BL
// and the configured sample rate by Init and are immutable thereafter.
var (
	BL      int
	BlRecip float32
	AR      float32 // sample rate, Hz
	AP      float32 // 1 / AR
	BR      float32 // block rate, Hz
	BP      float32 // 1 / BR
)

// CosTableSize is the number of steps across one half cycle of the stored
// raised-cosine table used for equal-power pans and smooth fades.
const CosTableSize = 256

// raisedCosine holds values of (1+cos(x))/2 for x in [pi, 2pi], i.e. it
// sweeps from 0 up to 1, plus two extra guard samples so callers that
// linearly interpolate between raisedCosine[i] and raisedCosine[i+1] never
// read out of bounds at the top of the table.
var raisedCosine [CosTableSize + 3]float32

func init() {
	// a sane default so packages that only exercise block arithmetic (not
	// sample-rate-dependent filters) work without calling Init first.
	Init(44100*freq.Hertz, 32)
}

// Init (re)configures the engine-wide block length and sample rate. It must
// be called before constructing any ugen that depends on AR (Smooth,
// Dnsampleb's lowpass modes, Dualslewb, Stdistr, Fader, ...). Calling it
// after ugens exist invalidates their cached filter coefficients; it is
// meant for start-of-process configuration, not live resampling.
func Init(sr freq.T, blockLen int) {
	BL = blockLen
	BlRecip = float32(1.0 / float64(blockLen))
	AR = float32(sr.Float64())
	AP = 1.0 / AR
	BR = AR / float32(blockLen)
	BP = 1.0 / BR
	buildRaisedCosine()
}

func buildRaisedCosine() {
	for i := range raisedCosine {
		x := math.Pi + math.Pi*float64(i)/float64(CosTableSize)
		raisedCosine[i] = float32((1 + math.Cos(x)) / 2)
	}
}

// rawRaisedCosine linearly interpolates the stored raised-cosine table at
// fractional index angle, clamping to the table's bounds. Fader's SMOOTH
// mode uses the raised-cosine (0..1) value as is; Stdistr rescales it to
// 2·rc−1 itself for its pan gains.
func rawRaisedCosine(angle float32) float32 {
	i := int(angle)
	if i < 0 {
		i = 0
	}
	if i > CosTableSize+1 {
		i = CosTableSize + 1
	}
	frac := angle - float32(i)
	return raisedCosine[i] + frac*(raisedCosine[i+1]-raisedCosine[i])
}

// cosineAt returns 2*rc-1, recovering an ordinary cosine value from the
// stored raised-cosine table at fractional index x in [0, CosTableSize].
func cosineAt(x float32) float32 {
	i := int(x)
	if i < 0 {
		i = 0
	}
	if i >= CosTableSize+2 {
		i = CosTableSize + 1
	}
	frac := x - float32(i)
	rc := raisedCosine[i] + frac*(raisedCosine[i+1]-raisedCosine[i])
	return 2*rc - 1
}

// blockZeroN zeroes the first n*BL samples of a channel-major buffer.
func blockZeroN(dst []Sample, n int) {
	for i := range dst[:n*BL] {
		dst[i] = 0
	}
}

// blockCopyN copies the first n*BL samples of src into dst.
func blockCopyN(dst, src []Sample, n int) {
	copy(dst[:n*BL], src[:n*BL])
}

// blockCopy copies one BL-sample channel.
func blockCopy(dst, src []Sample) {
	copy(dst[:BL], src[:BL])
}

// blockAddN adds the first n*BL samples of src into dst.
func blockAddN(dst, src []Sample, n int) {
	for i := 0; i < n*BL; i++ {
		dst[i] += src[i]
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampf32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// lerp linearly interpolates count samples from a toward b (exclusive of a,
// inclusive of b) into dst. Upsample and the smoothing ugens run their own
// loops and do not call it.
func lerp(dst []Sample, a, b Sample, count int) {
	if count <= 0 {
		return
	}
	incr := (b - a) / Sample(count)
	v := a
	for i := 0; i < count; i++ {
		v += incr
		dst[i] = v
	}
}

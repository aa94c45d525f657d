package arco

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sineUgen emits a continuous sine tone at freqHz across blocks, keeping
// phase continuity via a running sample counter.
type sineUgen struct {
	Base
	freqHz Sample
	n      int64
}

func newSineUgen(id ID, freqHz Sample) *sineUgen {
	u := &sineUgen{Base: NewBase(id, "Sine", RateAudio, 1), freqHz: freqHz}
	u.RealRunFn = func() {
		for i := 0; i < BL; i++ {
			t := float64(u.n) / float64(AR)
			u.outSamps[i] = Sample(math.Sin(2 * math.Pi * float64(u.freqHz) * t))
			u.n++
		}
	}
	return u
}

func (u *sineUgen) Run(block int64) []Sample { return u.run(block, u.RealRunFn) }

func TestYinEstimatesKnownToneWithinATone(t *testing.T) {
	const minStep, maxStep = 48, 84 // ~123 Hz .. ~698 Hz
	targetStep := float32(60)       // middle C, ~261.6 Hz
	targetHz := stepToHz(targetStep)

	src := newSineUgen(1, targetHz)
	replies := NewReplyAdapter(8)
	y := NewYin(2, src, 1, minStep, maxStep, BL, replies)

	// Run enough blocks to guarantee at least one full window (windowSize
	// = 2*middle samples) has been accumulated and processed.
	windowBlocks := (y.middle*2)/BL + 2
	var got []Reply
	for b := int64(0); b < int64(windowBlocks); b++ {
		y.Run(b)
		got = append(got, replies.Drain()...)
	}

	if assert.NotEmpty(t, got, "Yin must post at least one pitch estimate once a window completes") {
		last := got[len(got)-1]
		assert.Equal(t, ReplyPitch, last.Addr)
		pitch := last.Args[0].(float32)
		assert.InDelta(t, float64(targetStep), float64(pitch), 1.0, "estimated pitch must land within one semitone of the tone's true pitch")
	}
}

func TestStepHzRoundTrip(t *testing.T) {
	for _, step := range []float32{48, 60, 69, 72} {
		hz := stepToHz(step)
		back := hzToStep(hz)
		assert.InDelta(t, float64(step), float64(back), 1e-3)
	}
}

func TestParabolicInterpFindsKnownVertex(t *testing.T) {
	// y = (x-2)^2 sampled at x=1,2,3 has its vertex exactly at x=2, y=0.
	pos, min := parabolicInterp(1, 2, 3, 1, 0, 1)
	assert.InDelta(t, 2.0, float64(pos), 1e-5)
	assert.InDelta(t, 0.0, float64(min), 1e-5)
}

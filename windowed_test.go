package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// sampleCountingUgen emits an incrementing counter value across blocks,
// BL new distinct samples per block, for checking exactly which samples
// WindowedInput hands to ProcessWindow.
type sampleCountingUgen struct {
	Base
	next Sample
}

func newSampleCountingUgen(id ID) *sampleCountingUgen {
	u := &sampleCountingUgen{Base: NewBase(id, "Counter", RateAudio, 1)}
	u.RealRunFn = func() {
		for i := 0; i < BL; i++ {
			u.outSamps[i] = u.next
			u.next++
		}
	}
	return u
}

func (u *sampleCountingUgen) Run(block int64) []Sample { return u.run(block, u.RealRunFn) }

func TestWindowedInputFiresOnceWindowIsFull(t *testing.T) {
	src := newSampleCountingUgen(1)
	var w WindowedInput
	w.Init(src, 1, BL*2, BL*2)

	var seen [][]float32
	w.ProcessWindow = func(ch int, window []float32) {
		cp := append([]float32(nil), window...)
		seen = append(seen, cp)
	}

	w.Advance(0)
	assert.Empty(t, seen, "a window of 2 blocks must not fire after only one block")

	w.Advance(1)
	assert.Len(t, seen, 1)
	assert.Len(t, seen[0], BL*2)
	assert.Equal(t, float32(0), seen[0][0])
	assert.Equal(t, float32(BL*2-1), seen[0][BL*2-1])
}

func TestWindowedInputHopAdvancesTail(t *testing.T) {
	src := newSampleCountingUgen(1)
	var w WindowedInput
	w.Init(src, 1, BL, BL/2)

	count := 0
	w.ProcessWindow = func(ch int, window []float32) { count++ }

	for b := int64(0); b < 6; b++ {
		w.Advance(b)
	}
	// windowSize=BL, hop=BL/2: after the first full window at block 1,
	// one more window becomes ready every extra half-block's worth of
	// samples pulled.
	assert.GreaterOrEqual(t, count, 6)
}

package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// blockUgen is a minimal block-rate ugen whose value can be changed
// between blocks, for exercising Upsample's ramp.
type blockUgen struct {
	Base
	value Sample
}

func newBlockUgen(id ID, chans int, v Sample) *blockUgen {
	b := &blockUgen{Base: NewBase(id, "Block", RateBlock, chans), value: v}
	b.RealRunFn = func() {
		for i := range b.outSamps {
			b.outSamps[i] = b.value
		}
	}
	return b
}

func (b *blockUgen) Run(block int64) []Sample { return b.run(block, b.RealRunFn) }

func TestUpsampleRampsLinearlyToNewValue(t *testing.T) {
	src := newBlockUgen(1, 1, 0)
	u := NewUpsample(src)

	out := u.Run(0)
	assert.Equal(t, Sample(0), out[BL-1], "starting from zero, first block should stay at zero")

	src.value = 1
	out = u.Run(1)
	assert.InDelta(t, 1.0, float64(out[BL-1]), 1e-5, "ramp must reach the new value by the end of the block")
	for i := 1; i < BL; i++ {
		assert.GreaterOrEqual(t, out[i], out[i-1], "ramp must be monotonically non-decreasing toward a rising goal")
	}
}

func TestUpsampleMultiChannelIndependence(t *testing.T) {
	src := newBlockUgen(1, 2, 0)
	src.outSamps[0] = 0
	src.outSamps[1] = 0
	u := NewUpsample(src)
	u.Run(0)

	src.value = 2
	out := u.Run(1)
	assert.InDelta(t, 2.0, float64(out[BL-1]), 1e-5)
	assert.InDelta(t, 2.0, float64(out[2*BL-1]), 1e-5)
}

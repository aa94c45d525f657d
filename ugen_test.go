package arco

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constUgen is a minimal audio-rate ugen for exercising Base/Registry
// behavior without pulling in a concrete DSP ugen.
type constUgen struct {
	Base
	value Sample
	runs  int
}

func newConstUgen(id ID, chans int, v Sample) *constUgen {
	c := &constUgen{Base: NewBase(id, "Const", RateAudio, chans), value: v}
	c.RealRunFn = c.realRun
	return c
}

func (c *constUgen) Run(block int64) []Sample { return c.run(block, c.RealRunFn) }

func (c *constUgen) realRun() {
	c.runs++
	for i := range c.outSamps {
		c.outSamps[i] = c.value
	}
}

func TestBaseRunCachesPerBlock(t *testing.T) {
	c := newConstUgen(5, 1, 1)
	out1 := c.Run(0)
	out2 := c.Run(0)
	assert.Equal(t, 1, c.runs, "second Run at same block should hit cache")
	assert.Same(t, &out1[0], &out2[0])

	c.Run(1)
	assert.Equal(t, 2, c.runs, "new block must recompute")
}

func TestRegistryInstallLookup(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	c := newConstUgen(10, 1, 0.5)
	require.NoError(t, reg.Install(c))

	got, err := reg.Lookup(10)
	require.NoError(t, err)
	assert.Same(t, Ugen(c), got)

	require.Error(t, reg.Install(c))
	assert.ErrorIs(t, reg.Install(c), ErrIDInUse)

	_, err = reg.Lookup(999)
	assert.ErrorIs(t, err, ErrUnknownID)
}

// depUgen holds a strong reference to one input, exercising
// inputReleaser-driven cascading teardown.
type depUgen struct {
	Base
	input Ugen
}

func newDepUgen(id ID, input Ugen) *depUgen {
	InitParam(input)
	d := &depUgen{Base: NewBase(id, "Dep", RateAudio, 1), input: input}
	d.RealRunFn = func() {}
	return d
}

func (d *depUgen) Run(block int64) []Sample { return d.run(block, d.RealRunFn) }
func (d *depUgen) releaseInputs() []Ugen    { in := d.input; d.input = nil; return []Ugen{in} }

func TestRegistryUnrefCascades(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	leaf := newConstUgen(20, 1, 1)
	require.NoError(t, reg.Install(leaf))
	dep := newDepUgen(21, leaf)
	require.NoError(t, reg.Install(dep))

	assert.EqualValues(t, 2, leaf.refcount(), "leaf held by both the registry's own ref and dep's InitParam ref")

	reg.Unref(21)
	_, err := reg.Lookup(21)
	assert.ErrorIs(t, err, ErrUnknownID)

	_, err = reg.Lookup(20)
	require.NoError(t, err, "leaf still referenced once, must survive")
	assert.EqualValues(t, 1, leaf.refcount())

	reg.Unref(20)
	_, err = reg.Lookup(20)
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestAdaptRateWrapsAsNeeded(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	blockSrc := newConstUgen(30, 1, 1)
	blockSrc.rate = RateBlock
	blockSrc.outSamps = make([]Sample, 1)

	adapted := AdaptRate(reg, blockSrc, RateAudio)
	_, isUpsample := adapted.(*Upsample)
	assert.True(t, isUpsample)

	audioSrc := newConstUgen(31, 1, 1)
	adapted2 := AdaptRate(reg, audioSrc, RateBlock)
	_, isDnsampleb := adapted2.(*Dnsampleb)
	assert.True(t, isDnsampleb)

	same := AdaptRate(reg, audioSrc, RateAudio)
	assert.Same(t, Ugen(audioSrc), same)
}

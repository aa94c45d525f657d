package arco

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumCombinesInputs(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(1, 2, 0.25)
	b := newConstUgen(2, 2, 0.5)
	require.NoError(t, reg.Install(a))
	require.NoError(t, reg.Install(b))

	s := NewSum(reg, 3, 2, false)
	require.NoError(t, s.Ins(a))
	require.NoError(t, s.Ins(b))
	require.NoError(t, reg.Install(s))

	out := s.Run(0)
	for ch := 0; ch < 2; ch++ {
		for i := 0; i < BL; i++ {
			assert.InDelta(t, 0.75, out[ch*BL+i], 1e-6)
		}
	}
}

func TestSumInsIsIdempotent(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(1, 1, 1)
	require.NoError(t, reg.Install(a))
	s := NewSum(reg, 2, 1, false)
	require.NoError(t, s.Ins(a))
	require.NoError(t, s.Ins(a))
	assert.Len(t, s.inputs, 1)
}

func TestSumRemUnrefs(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(1, 1, 1)
	require.NoError(t, reg.Install(a))
	s := NewSum(reg, 2, 1, false)
	require.NoError(t, s.Ins(a))
	assert.EqualValues(t, 2, a.refcount())

	s.Rem(a)
	assert.EqualValues(t, 1, a.refcount())
	assert.Len(t, s.inputs, 0)
}

func TestSumRejectsNonAudioInput(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	blockRate := newConstUgen(1, 1, 1)
	blockRate.rate = RateBlock
	s := NewSum(reg, 2, 1, false)
	assert.ErrorIs(t, s.Ins(blockRate), ErrRateMismatch)
}

func TestSumGainRampIsRateLimited(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(1, 1, 1)
	require.NoError(t, reg.Install(a))
	s := NewSum(reg, 2, 1, false)
	require.NoError(t, s.Ins(a))
	s.Gain = 0

	out := s.Run(0)
	first := out[0]
	assert.Greater(t, first, Sample(0), "a single block cannot reach the new gain instantly")

	out = s.Run(1)
	second := out[0]
	assert.Less(t, second, first, "gain must keep decreasing toward its goal")
}

package arco

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdistrInsRefcounts(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(2, 1, 1)
	require.NoError(t, reg.Install(a))
	s := NewStdistr(reg, 3, 2, 0.5)
	require.NoError(t, s.Ins(0, a))
	assert.EqualValues(t, 2, a.refcount())

	s.Rem(0)
	assert.EqualValues(t, 1, a.refcount())
}

func TestStdistrInsRejectsBadSlot(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(2, 1, 1)
	require.NoError(t, reg.Install(a))
	s := NewStdistr(reg, 3, 2, 0.5)
	assert.ErrorIs(t, s.Ins(5, a), ErrRateMismatch)
}

func TestStdistrMinimumTwoSlots(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	s := NewStdistr(reg, 3, 0, 0.5)
	assert.Len(t, s.inputs, 2)
}

func TestStdistrSettlesToBalancedOutput(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(2, 1, 1)
	require.NoError(t, reg.Install(a))
	s := NewStdistr(reg, 3, 2, 0)
	require.NoError(t, s.Ins(0, a))
	require.NoError(t, s.Ins(1, a))

	var out []Sample
	for b := int64(0); b < 200; b++ {
		out = s.Run(b)
	}
	left, right := out[0], out[BL]
	assert.InDelta(t, float64(left), float64(right), 1e-3, "width 0 must pan both slots to the same center position")
}

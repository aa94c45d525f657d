package arco

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteDefaultsToZero(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	r := NewRoute(reg, 1, 2)
	out := r.Run(0)
	for _, v := range out {
		assert.Equal(t, Sample(0), v)
	}
}

func TestRouteInsReplacesZeroSource(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(2, 2, 0.3)
	require.NoError(t, reg.Install(a))
	r := NewRoute(reg, 3, 1)
	require.NoError(t, r.Ins(a, 1, 0))

	out := r.Run(0)
	for _, v := range out {
		assert.InDelta(t, 0.3, v, 1e-6)
	}
	assert.Len(t, r.routes[0], 1, "the implicit zero source must be replaced, not appended to")
}

func TestRouteInsAccumulatesMultipleSources(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(2, 1, 0.25)
	b := newConstUgen(3, 1, 0.5)
	require.NoError(t, reg.Install(a))
	require.NoError(t, reg.Install(b))
	r := NewRoute(reg, 4, 1)
	require.NoError(t, r.Ins(a, 0, 0))
	require.NoError(t, r.Ins(b, 0, 0))

	out := r.Run(0)
	assert.InDelta(t, 0.75, out[0], 1e-6)
}

func TestRouteRemRevertsToZero(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(2, 1, 1)
	require.NoError(t, reg.Install(a))
	r := NewRoute(reg, 3, 1)
	require.NoError(t, r.Ins(a, 0, 0))
	assert.EqualValues(t, 2, a.refcount())

	require.NoError(t, r.Rem(a, 0, 0))
	assert.EqualValues(t, 1, a.refcount())
	assert.Equal(t, ZeroID, r.routes[0][0].ugen.ID())
}

func TestRouteRemAllFrom(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(2, 2, 1)
	require.NoError(t, reg.Install(a))
	r := NewRoute(reg, 3, 2)
	require.NoError(t, r.Ins(a, 0, 0))
	require.NoError(t, r.Ins(a, 1, 1))

	require.NoError(t, r.RemAllFrom(a))
	assert.Equal(t, ZeroID, r.routes[0][0].ugen.ID())
	assert.Equal(t, ZeroID, r.routes[1][0].ugen.ID())
	assert.Equal(t, -1, r.findInput(a))
}

func TestRouteInsRejectsOutOfRangeChannel(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	a := newConstUgen(2, 1, 1)
	require.NoError(t, reg.Install(a))
	r := NewRoute(reg, 3, 1)
	assert.ErrorIs(t, r.Ins(a, 5, 0), ErrRateMismatch)
	assert.ErrorIs(t, r.Ins(a, 0, 5), ErrRateMismatch)
}

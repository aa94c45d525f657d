package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumbCombinesBlockRateInputs(t *testing.T) {
	a := newBlockUgen(1, 1, 2)
	b := newBlockUgen(2, 1, 3)
	s := NewSumb(nil, 3, 1, false, nil)
	require.NoError(t, s.Ins(a))
	require.NoError(t, s.Ins(b))

	out := s.Run(0)
	assert.InDelta(t, 5.0, float64(out[0]), 1e-6)
}

func TestSumbRemDropsInput(t *testing.T) {
	a := newBlockUgen(1, 1, 2)
	b := newBlockUgen(2, 1, 3)
	s := NewSumb(nil, 3, 1, false, nil)
	require.NoError(t, s.Ins(a))
	require.NoError(t, s.Ins(b))

	s.Rem(a)
	out := s.Run(0)
	assert.InDelta(t, 3.0, float64(out[0]), 1e-6)
}

func TestSumbRejectsZeroChannelInput(t *testing.T) {
	s := NewSumb(nil, 1, 1, false, nil)
	zero := newBlockUgen(2, 0, 0)
	assert.ErrorIs(t, s.Ins(zero), ErrRateMismatch)
}

func TestSumbTerminatedInputPostsReplyAndIsDropped(t *testing.T) {
	replies := NewReplyAdapter(4)
	s := NewSumb(nil, 1, 1, false, replies)
	s.SetActionID(9)

	dying := newBlockUgen(2, 1, 7)
	dying.Terminate()
	require.NoError(t, s.Ins(dying))

	out := s.Run(0)
	assert.Equal(t, Sample(0), out[0], "a terminated input must contribute nothing on the block it is dropped")

	got := replies.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, ReplyActionEnd, got[0].Addr)
	assert.Equal(t, []any{int32(9), "REM", int32(2)}, got[0].Args)

	out = s.Run(1)
	assert.Equal(t, Sample(0), out[0])
}

func TestSumbTerminatesWhenCanTerminateAndAllInputsGone(t *testing.T) {
	s := NewSumb(nil, 1, 1, false, nil)
	s.SetCanTerminate(true)

	dying := newBlockUgen(2, 1, 7)
	dying.Terminate()
	require.NoError(t, s.Ins(dying))

	out := s.Run(0)
	assert.Equal(t, Sample(0), out[0])
	assert.NotZero(t, s.Flags()&Terminated, "Sumb must terminate once its only input is gone and CanTerminate is set")
}

func TestSumbCreatedEmptyWithCanTerminateDoesNotSelfTerminate(t *testing.T) {
	s := NewSumb(nil, 1, 1, false, nil)
	s.SetCanTerminate(true)

	out := s.Run(0)
	assert.Equal(t, Sample(0), out[0])
	assert.Zero(t, s.Flags()&Terminated, "a Sumb with no inputs ever added must not terminate itself")
}

func TestSumbAppliesGain(t *testing.T) {
	a := newBlockUgen(1, 1, 2)
	s := NewSumb(nil, 2, 1, false, nil)
	require.NoError(t, s.Ins(a))
	s.Gain = 0.5

	out := s.Run(0)
	assert.InDelta(t, 1.0, float64(out[0]), 1e-6)
}

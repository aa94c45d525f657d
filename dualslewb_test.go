package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDualslewbRejectsAudioRateInput(t *testing.T) {
	src := newConstUgen(1, 1, 0)
	_, err := NewDualslewb(src, 1, 0.1, 0.1, 0, true, true)
	assert.ErrorIs(t, err, ErrRateMismatch)
}

func TestDualslewbLinearAttackReachesTargetAtMinRate(t *testing.T) {
	src := newBlockUgen(1, 1, 1)
	d, err := NewDualslewb(src, 1, BP, 0.1, 0, true, true)
	require.NoError(t, err)

	out := d.Run(0)
	assert.InDelta(t, 1.0, float64(out[0]), 1e-4, "at the minimum attack rate a single block must reach the target")
}

func TestDualslewbLinearReleaseReachesTargetAtMinRate(t *testing.T) {
	src := newBlockUgen(1, 1, 1)
	d, err := NewDualslewb(src, 1, 0.1, BP, 0, true, true)
	require.NoError(t, err)
	d.Run(0)

	src.value = 0
	out := d.Run(1)
	assert.InDelta(t, 0.0, float64(out[0]), 1e-4, "at the minimum release rate a single block must fall back to the target")
}

func TestDualslewbReplInputRejectsAudioRate(t *testing.T) {
	block := newBlockUgen(1, 1, 0)
	d, err := NewDualslewb(block, 1, 0.1, 0.1, 0, true, true)
	require.NoError(t, err)

	audio := newConstUgen(2, 1, 0)
	assert.ErrorIs(t, d.ReplInput(audio), ErrRateMismatch)
}

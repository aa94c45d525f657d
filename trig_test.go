package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigFiresOnceRmsCrossesThresholdAfterArming(t *testing.T) {
	src := newConstUgen(1, 1, 0)
	replies := NewReplyAdapter(8)
	tr := NewTrig(2, src, BL*2, 0.5, 0, replies)

	// Block 1: the constructor's huge initial sum0 still contaminates
	// this window, so it neither arms nor fires.
	tr.Run(0)
	assert.Empty(t, replies.Drain())

	// Block 2: a silent window arms the trigger (sum0 < threshold).
	tr.Run(1)
	assert.Empty(t, replies.Drain())
	assert.True(t, tr.enabled)

	// Block 3: a loud window crosses the threshold and fires.
	src.value = 1
	tr.Run(2)
	got := replies.Drain()
	if assert.Len(t, got, 1) {
		assert.Equal(t, ReplyTrig, got[0].Addr)
	}
	assert.False(t, tr.enabled, "firing must disarm until the next silent window")
}

func TestTrigPauseSuppressesRetrigger(t *testing.T) {
	src := newConstUgen(1, 1, 0)
	replies := NewReplyAdapter(8)
	tr := NewTrig(2, src, BL*2, 0.5, 10, replies) // pause = 10 seconds, many blocks

	tr.Run(0)
	tr.Run(1)
	src.value = 1
	tr.Run(2)
	assert.Len(t, replies.Drain(), 1)

	// Even though the window stays loud, the pause must suppress an
	// immediate re-trigger.
	tr.Run(3)
	assert.Empty(t, replies.Drain())
}

func TestTrigSetWindowRoundsUpToBlockMultiple(t *testing.T) {
	tr := NewTrig(1, newConstUgen(2, 1, 0), BL+1, 0.5, 0, nil)
	assert.Equal(t, BL*2, tr.windowSize)
}

func TestTrigOnoffReportsTransitionAfterRunlen(t *testing.T) {
	src := newConstUgen(1, 1, 0)
	replies := NewReplyAdapter(8)
	tr := NewTrig(2, src, BL*2, 10.0, 0, replies) // threshold unreachable, isolate onoff

	// Warm up once with onoff still disabled: the constructor's huge
	// initial sum0 contaminates only this first call's rms, and it must
	// not leak a spurious onoff transition.
	tr.Run(0)
	assert.Empty(t, replies.Drain())

	tr.Onoff("/on", 0.5, 0)
	tr.onoffRunlen = 1

	src.value = 1
	tr.Run(1)
	got := replies.Drain()
	if assert.Len(t, got, 1) {
		assert.Equal(t, ReplyTrig, got[0].Addr)
		assert.Equal(t, int32(1), got[0].Args[1])
	}
}

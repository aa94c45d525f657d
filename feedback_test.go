package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackDelaysFromByOneBlock(t *testing.T) {
	input := newConstUgen(1, 1, 0)
	from := newConstUgen(2, 1, 1) // constant "from" tap
	gain := newConstUgen(3, 1, 0.5)
	gain.rate = RateBlock
	gain.outSamps = make([]Sample, 1)
	gain.outSamps[0] = 0.5

	f := NewFeedback(input, from, gain, 1)

	out := f.Run(0)
	// On the very first block the buffered "feedback" tap is still zero
	// (nothing has been pulled from "from" yet), so output must equal
	// input alone.
	assert.Equal(t, Sample(0), out[0])

	out = f.Run(1)
	// By the second block, the previous block's "from" output (1) has
	// been buffered and is now applied: input + from*gain = 0 + 1*0.5.
	assert.InDelta(t, 0.5, float64(out[0]), 1e-6)
}

func TestFeedbackAudioRateGainUsesPerSampleValue(t *testing.T) {
	input := newConstUgen(1, 1, 0)
	from := newConstUgen(2, 1, 2)
	gain := newConstUgen(3, 1, 0.25) // audio-rate gain

	f := NewFeedback(input, from, gain, 1)
	f.Run(0)
	out := f.Run(1)
	assert.InDelta(t, 0.5, float64(out[0]), 1e-6, "audio-rate gain multiplies every sample directly, no ramp")
}

func TestFeedbackReplFromResizesBuffer(t *testing.T) {
	input := newConstUgen(1, 1, 0)
	from := newConstUgen(2, 1, 1)
	gain := newConstUgen(3, 1, 1)
	f := NewFeedback(input, from, gain, 1)
	f.Run(0)

	wideFrom := newConstUgen(4, 2, 3)
	f.ReplFrom(wideFrom)
	assert.Len(t, f.feedback, 2*BL)
}

func TestFeedbackUpdateRunChannelSwapsOnGainRateChange(t *testing.T) {
	input := newConstUgen(1, 1, 0)
	from := newConstUgen(2, 1, 1)
	blockGain := newBlockUgen(3, 1, 0.5)
	f := NewFeedback(input, from, blockGain, 1)
	assert.False(t, f.gainIsAudio)

	audioGain := newConstUgen(4, 1, 0.5)
	f.ReplGain(audioGain)
	assert.True(t, f.gainIsAudio)
}

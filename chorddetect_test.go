package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	calls   int
	ready   bool
	root    string
	quality string
	mask    int32
}

func (c *stubClassifier) Classify(frame []float64) (bool, string, string, int32) {
	c.calls++
	return c.ready, c.root, c.quality, c.mask
}

func TestChorddetectFiresOnceFrameFills(t *testing.T) {
	src := newConstUgen(1, 1, 0.5)
	classifier := &stubClassifier{ready: true, root: "C", quality: "maj", mask: 0x91}
	replies := NewReplyAdapter(4)
	c := NewChorddetect(2, src, BL*3, classifier, replies)

	c.Run(0)
	c.Run(1)
	assert.Equal(t, 0, classifier.calls, "classifier must not be invoked before the frame fills")
	assert.Empty(t, replies.Drain())

	c.Run(2)
	assert.Equal(t, 1, classifier.calls)
	got := replies.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, ReplyChord, got[0].Addr)
	assert.Equal(t, []any{"C", "maj", int32(0x91)}, got[0].Args)
}

func TestChorddetectSuppressesReplyWhenClassifierNotReady(t *testing.T) {
	src := newConstUgen(1, 1, 0.5)
	classifier := &stubClassifier{ready: false}
	replies := NewReplyAdapter(4)
	c := NewChorddetect(2, src, BL, classifier, replies)

	c.Run(0)
	assert.Equal(t, 1, classifier.calls)
	assert.Empty(t, replies.Drain())
}

func TestChorddetectFrameResetsAfterEachClassification(t *testing.T) {
	src := newConstUgen(1, 1, 0.5)
	classifier := &stubClassifier{ready: true, root: "A", quality: "min", mask: 1}
	c := NewChorddetect(2, src, BL, classifier, nil)

	c.Run(0)
	c.Run(1)
	assert.Equal(t, 2, classifier.calls, "a new frame must start accumulating immediately after the previous one completes")
}

func TestChorddetectReplInputRejectsBlockRate(t *testing.T) {
	src := newConstUgen(1, 1, 0)
	classifier := &stubClassifier{}
	c := NewChorddetect(2, src, BL, classifier, nil)

	block := newBlockUgen(3, 1, 0)
	assert.ErrorIs(t, c.ReplInput(block), ErrRateMismatch)
}

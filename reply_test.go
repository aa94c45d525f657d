package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyAdapterDrainReturnsAllPendingInOrder(t *testing.T) {
	a := NewReplyAdapter(4)
	a.Post(Reply{Addr: ReplyTrig, ID: 1})
	a.Post(Reply{Addr: ReplyPitch, ID: 2})

	got := a.Drain()
	assert.Equal(t, []Reply{{Addr: ReplyTrig, ID: 1}, {Addr: ReplyPitch, ID: 2}}, got)
	assert.Empty(t, a.Drain(), "a second drain with nothing new posted must return nothing")
}

func TestReplyAdapterPostDropsWhenFull(t *testing.T) {
	a := NewReplyAdapter(1)
	a.Post(Reply{Addr: ReplyTrig, ID: 1})
	a.Post(Reply{Addr: ReplyTrig, ID: 2}) // dropped, never panics or blocks

	got := a.Drain()
	assert.Equal(t, []Reply{{Addr: ReplyTrig, ID: 1}}, got)
}

func TestReplyAdapterNilReceiverIsSafe(t *testing.T) {
	var a *ReplyAdapter
	assert.NotPanics(t, func() { a.Post(Reply{Addr: ReplyTrig}) })
	assert.Nil(t, a.Drain())
}

// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package arco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"zikichombo.org/sound"
)

func TestPacketPutCopiesAllChannelsDirectly(t *testing.T) {
	pkt := packet{}
	v := sound.StereoCd()
	pkt.init(v)
	N := 8
	pkt.samples = make([]float64, N*v.Channels())
	for i := range pkt.samples {
		pkt.samples[i] = float64(i)
	}
	pkt.n = N

	blk := &DeviceBlock{SampleRate: v.SampleRate(), Frames: N, Channels: v.Channels()}
	blk.Samples = make([]float64, N*blk.Channels)

	frms := pkt.put(blk)
	assert.Equal(t, N, frms)
	assert.Equal(t, pkt.samples, blk.Samples)
}

func TestPacketGetCopiesAllChannelsDirectly(t *testing.T) {
	pkt := packet{}
	v := sound.StereoCd()
	pkt.init(v)
	N := 8

	blk := &DeviceBlock{SampleRate: v.SampleRate(), Frames: N, Channels: v.Channels()}
	blk.Samples = make([]float64, N*blk.Channels)
	for i := range blk.Samples {
		blk.Samples[i] = float64(i)
	}

	pkt.get(blk)
	assert.Equal(t, N, pkt.n)
	assert.Equal(t, blk.Samples, pkt.samples)
}

// Copyright 2018 The ZikiChomgo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package arco

import (
	"zikichombo.org/sound"
)

// packet carries one block's worth of samples between a node's central
// process() loop and the async conn goroutine driving src.Receive or
// snk.Send. Every DeviceIO node is full-channel (no per-channel
// subsetting), so a packet always covers all of its form's channels.
type packet struct {
	err     error
	n       int
	samples []float64
	nC      int
	src     sound.Source
	snk     sound.Sink
}

func (p *packet) init(v sound.Form) {
	p.err = nil
	p.n = 0
	p.samples = p.samples[:0]
	p.nC = v.Channels()
}

// put copies the packet's samples, received from p.src, into dst.
func (p *packet) put(dst *DeviceBlock) int {
	frms := p.n
	nC := p.nC
	n := nC * frms
	copy(dst.Samples[:n], p.samples[:n])
	return frms
}

// get copies src's samples into the packet for sending to p.snk.
func (p *packet) get(src *DeviceBlock) {
	nC := p.nC
	frms := src.Frames
	sl := buffer(p.samples, nC, frms)
	copy(sl, src.Samples[:nC*frms])
	p.samples = sl
	p.n = frms
}

func buffer(d []float64, c, f int) []float64 {
	N := c * f
	if cap(d) < N {
		tmp := make([]float64, (5*N)/3)
		copy(tmp, d)
		d = tmp
	}
	return d[:N]
}

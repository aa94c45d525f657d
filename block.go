// Copyright 2018 The ZikiChomgo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package arco

import "zikichombo.org/sound/freq"

// DeviceBlock represents one block of data.
type DeviceBlock struct {
	Samples    []float64
	Frames     int    // setable by processor
	Channels   int    // read only, static w.r.t. DeviceIO lifecycle
	SampleRate freq.T // read only, static w.r.t. DeviceIO lifecycle
}

// writeEngineTick copies n device frames of one Engine.Tick's worth of
// audio-rate output (srcChans channels, BL samples per channel, float32)
// starting at sample index at into b.Samples, converting to the device
// tier's deinterleaved float64 layout. Device channels beyond srcChans
// are filled from the last available engine channel; out == nil (no
// output ugen installed) writes silence.
func (b *DeviceBlock) writeEngineTick(out []Sample, srcChans, at, n int) {
	for c := 0; c < b.Channels; c++ {
		srcCh := c
		if srcCh >= srcChans {
			srcCh = srcChans - 1
		}
		base := c*b.Frames + at
		for i := 0; i < n; i++ {
			var v Sample
			if out != nil && srcCh >= 0 {
				v = out[srcCh*BL+i]
			}
			b.Samples[base+i] = float64(v)
		}
	}
}

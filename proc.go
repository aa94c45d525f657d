// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package arco

// DeviceProcessor couples a processing function with its frame-size
// policy. The engine's device-I/O bridge only ever needs full-channel
// processing (one Process call per block, covering every channel), so
// unlike the teacher's original plug package this carries no separate
// per-channel mode.
//
// The mapping of input frames to output frames is dynamic, determined
// by NextFrames(), called before every call to Process.
type DeviceProcessor interface {
	// NextFrames returns the desired number of source and destination
	// frames, respectively, for the next processing block.
	NextFrames() (int, int)

	// Process processes samples from src to dst. Process is called once
	// per block with all channels of input and output in channel
	// deinterleaved format.
	//
	// Assuming the last call to NextFrames returned N, M, Process may
	// assume that
	//
	//  1. 1 <= src.Frames <= N
	//  2. dst.Frames == M
	//  3. len(src.Samples) = N * src.Channels
	//  4. len(dst.Samples) = M * dst.Channels
	//  5. src.Samples and dst.Samples are in channel deinterleaved format.
	//
	// Denoting the value of dst.Frames before the call as M and after as
	// M', Process should guarantee that
	//
	// 1. M' is the real number of frames written
	// 2. 0 <= M' <= M
	// 3. dst.Samples[:dst.Channels*M'] is in channel deinterleaved format.
	Process(dst, src *DeviceBlock) error
}

// ProcFunc gives the type of a processing function. Its semantics are
// exactly those of Process() in the DeviceProcessor interface.
type ProcFunc func(dst, src *DeviceBlock) error

type proc struct {
	inFrames  int
	outFrames int
	procFunc  ProcFunc
}

// NewProcessor creates a new processor, sizing its blocks at the
// engine's current block length (BL frames). It must only be called
// once Init has set BL — package-level use at var-init time would read
// BL before the engine has configured it.
func NewProcessor(fn ProcFunc) DeviceProcessor {
	return NewProcessorFrames(fn, BL, BL)
}

// NewProcessorFrames is like NewProcessor but allows specifying the
// input and output frames explicitly.
func NewProcessorFrames(fn ProcFunc, ifrms, ofrms int) DeviceProcessor {
	return &proc{
		inFrames:  ifrms,
		outFrames: ofrms,
		procFunc:  fn,
	}
}

func (p *proc) Process(dst, src *DeviceBlock) error {
	return p.procFunc(dst, src)
}

func (p *proc) NextFrames() (int, int) {
	return p.inFrames, p.outFrames
}

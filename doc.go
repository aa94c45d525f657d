// Copyright 2018 The ZikiChomgo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package arco provides a real-time, block-synchronous engine for building
// and running directed graphs of unit generators ("ugens").
//
// The engine is implemented in two tiers.  There is a ugen tier, which
// manages the graph of audio and control-rate generators, their lifetimes
// and wiring, and a device I/O tier which manages the input/output between
// that graph and the outside world (audio hardware, files, test harnesses).
//
// Ugen Tier
//
// The ugen tier is pull-based: each ugen's Run method is invoked by its
// consumers once per block and caches its result against a block counter,
// so a ugen feeding several outputs computes exactly once per block
// regardless of fan-out. Ugens that produce a signal run at audio rate
// (one value per sample, BL samples per block) or block rate (one value
// per block); analyzers such as Trig produce no signal. AdaptRate splices
// in a rate converter (Upsample or Dnsampleb) where a ugen calls it, as
// Fader does for its input. Other ugens either refuse a source of the
// wrong rate with ErrRateMismatch (Sum, Stdistr, Dualslewb) or handle
// both rates themselves (Feedback's gain).
//
// Ugens are reference counted. A ugen's output may feed any number of
// other ugens; when the last reference is dropped the ugen is recycled by
// the Registry, iteratively (not recursively, to keep stack depth bounded
// independent of graph size) releasing its own inputs in turn.
//
// The graph is mutated from a non-audio thread (the control/host side) by
// sending messages through a lock-free, allocation-free single-producer
// single-consumer queue; the audio thread drains the queue once per block
// boundary and applies the requested wiring, parameter, or lifecycle
// changes before running the graph. This keeps the audio thread's
// behavior bounded and free of locks, matching the constraints real-time
// audio callbacks run under.
//
// Device I/O Tier
//
// The device I/O tier implements audio I/O based on multi-channel, fixed
// sample rate inputs and outputs, adapted from zikichombo.org/plug's
// design.  The number of channels and sample rate may vary between input
// and output, but the sample rate is fixed across all inputs and likewise
// all outputs.
//
// The main interface for the device I/O tier is DeviceIO. I/O endpoints,
// such as audio capture sources, audio file sources, or playback speakers,
// are expected to take the form of sound.Source or sound.Sink and may be
// attached to a device-facing processor using SetInput and AddOutput. The
// bridge between the two tiers is a DeviceProcessor that, each time it is
// asked for a block, drains the ugen graph's root output and reformats it
// into the device tier's float64 DeviceBlock buffers.
package arco

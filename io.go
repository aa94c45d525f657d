// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package arco

import (
	"fmt"
	"io"
	"sync"

	"zikichombo.org/sound"
)

// DeviceIO bridges one DeviceProcessor (an Engine, via Engine.Processor)
// to the outside world: a single full-channel input source and one or
// more full-channel output sinks. Implementations must be safe for use
// in multiple goroutines, but may assume that Run() is called at most
// once.
type DeviceIO interface {

	// InForm returns the sample rate and number of channels of the
	// input.
	InForm() sound.Form

	// OutForm returns the sample rate and number of channels of the
	// output of the node.
	OutForm() sound.Form

	// SetInput sets the input to s. s must have the same sample rate
	// and channel count as InForm().
	//
	// SetInput returns a non-nil error if the rates or channel counts
	// are incompatible, or if an input has already been set.
	SetInput(s sound.Source) error

	// AddOutput causes the node to direct a copy of its output to d. d
	// must have the same sample rate and channel count as OutForm().
	//
	// AddOutput returns a non-nil error if the rates or channel counts
	// are incompatible.
	AddOutput(d sound.Sink) error

	// Output returns the output of the node as a sound.Source with the
	// same form as OutForm(). Every call generates a distinct new
	// sound.Source which can be used independently in different
	// goroutines.
	Output() sound.Source

	// Run runs the DeviceIO node. Run blocks until it returns. It
	// returns a non-nil error if something other than io.EOF ended its
	// input. Upon return, all Sources going in and Sinks going out have
	// been Close()d.
	Run() error
}

type node struct {
	mu             sync.Mutex
	iForm, oForm   sound.Form
	iBlock, oBlock *DeviceBlock

	hasIn bool
	in    *conn
	iPkt  packet

	outs  []*conn
	oPkts []packet

	inC   chan *packet
	prC   chan *packet
	oC    chan *packet
	odC   chan *packet
	doneC chan struct{}
	proc  DeviceProcessor
}

// NewDeviceIO creates a new DeviceIO node mapping input of form iForm to
// output of form oForm, using proc to do the actual sample processing.
func NewDeviceIO(iForm, oForm sound.Form, proc DeviceProcessor) DeviceIO {
	res := &node{
		outs:   make([]*conn, 0, 2),
		oPkts:  make([]packet, 0, 2),
		oC:     make(chan *packet),
		odC:    make(chan *packet),
		inC:    make(chan *packet),
		prC:    make(chan *packet),
		doneC:  make(chan struct{}),
		iForm:  iForm,
		oForm:  oForm,
		iBlock: &DeviceBlock{SampleRate: iForm.SampleRate(), Channels: iForm.Channels()},
		oBlock: &DeviceBlock{SampleRate: oForm.SampleRate(), Channels: oForm.Channels()},
		proc:   proc,
	}
	return res
}

// InForm implements DeviceIO.
func (n *node) InForm() sound.Form {
	return n.iForm
}

// OutForm implements DeviceIO.
func (n *node) OutForm() sound.Form {
	return n.oForm
}

// Output implements DeviceIO.
func (n *node) Output() sound.Source {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := newConn(n.oC, n.odC, n.doneC)
	m := len(n.outs)
	n.outs = append(n.outs, c)
	n.oPkts = append(n.oPkts, packet{})
	pkt := &n.oPkts[m]
	pkt.init(n.oForm)
	pkt.src, pkt.snk = sound.Pipe(n.oForm)
	return pkt.src
}

// AddOutput implements DeviceIO.
func (n *node) AddOutput(d sound.Sink) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if d.SampleRate() != n.oForm.SampleRate() {
		return fmt.Errorf("frequency mismatch: got %s not %s", d.SampleRate(), n.oForm.SampleRate())
	}
	if d.Channels() != n.oForm.Channels() {
		return fmt.Errorf("channel mismatch: got %d not %d", d.Channels(), n.oForm.Channels())
	}
	c := newConn(n.oC, n.odC, n.doneC)
	m := len(n.outs)
	n.outs = append(n.outs, c)
	n.oPkts = append(n.oPkts, packet{})
	pkt := &n.oPkts[m]
	pkt.init(n.oForm)
	pkt.snk = d
	pkt.src = nil
	return nil
}

// SetInput implements DeviceIO.
func (n *node) SetInput(src sound.Source) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if src.SampleRate() != n.iForm.SampleRate() {
		return fmt.Errorf("frequency mismatch: got %s not %s", src.SampleRate(), n.iForm.SampleRate())
	}
	if src.Channels() != n.iForm.Channels() {
		return fmt.Errorf("channel mismatch: got %d not %d", src.Channels(), n.iForm.Channels())
	}
	if n.hasIn {
		return fmt.Errorf("input already connected")
	}
	n.in = newConn(n.inC, n.prC, n.doneC)
	n.iPkt.init(n.iForm)
	n.iPkt.src = src
	n.hasIn = true
	return nil
}

// Run implements DeviceIO, running the node until its input closes.
func (n *node) Run() error {
	defer func() {
		close(n.doneC)
		for i := range n.oPkts {
			n.oPkts[i].snk.Close()
		}
		if n.hasIn {
			n.iPkt.src.Close()
		}
	}()
	if err := n.checkConns(); err != nil {
		return err
	}
	n.serve()
	var err error
	for {
		err = n.process()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (n *node) process() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	proc := n.proc
	iC := n.iForm.Channels()
	oC := n.oForm.Channels()
	iFrms, oFrms := proc.NextFrames()
	iBlock, oBlock := n.iBlock, n.oBlock

	// ensure buffers are allocated as per request from proc.
	iBlock.Samples = buffer(iBlock.Samples, iC, iFrms)
	iBlock.Frames = iFrms
	oBlock.Samples = buffer(oBlock.Samples, oC, oFrms)
	oBlock.Frames = oFrms

	nFrms := iFrms
	if n.hasIn {
		pkt := &n.iPkt
		pkt.err = nil
		pkt.n = iFrms
		pkt.samples = buffer(pkt.samples, pkt.nC, pkt.n)
		n.inC <- pkt
		pkt = <-n.prC
		if pkt.err != nil {
			return pkt.err
		}
		nFrms = pkt.put(iBlock)
	}
	iBlock.Frames = nFrms

	if err := proc.Process(oBlock, iBlock); err != nil {
		return err
	}

	// send out the outputs
	for i := range n.oPkts {
		pkt := &n.oPkts[i]
		pkt.get(oBlock)
		n.oC <- pkt
	}
	// and make sure they are done, reporting any errors.
	for range n.oPkts {
		pkt := <-n.odC
		if pkt.err != nil {
			return pkt.err
		}
	}
	return nil
}

func (n *node) serve() {
	if n.hasIn {
		go n.in.serve()
	}
	for _, oConn := range n.outs {
		go oConn.serve()
	}
}

func (n *node) checkConns() error {
	if n.iForm.Channels() > 0 && !n.hasIn {
		return dce(true)
	}
	if n.oForm.Channels() > 0 && len(n.outs) == 0 {
		return dce(false)
	}
	return nil
}

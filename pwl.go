package arco

import "math"

const segTogoInfinite = math.MaxInt32

// Pwl is the audio-rate piecewise-linear envelope: a flat breakpoint
// sequence [d0,y0,d1,y1,...] walked one segment at a time, BL samples
// computed per block regardless of segment boundaries falling
// mid-block. Grounded on pwl.h/pwl.cpp.
type Pwl struct {
	Base
	current        float32
	segTogo        int
	segIncr        float32
	finalValue     float32
	nextPointIndex int
	points         []float32
	replies        *ReplyAdapter
}

// NewPwl creates an empty Pwl (constant zero output until Env+Start).
func NewPwl(id ID, replies *ReplyAdapter) *Pwl {
	p := &Pwl{
		Base:    NewBase(id, "Pwl", RateAudio, 1),
		segTogo: segTogoInfinite,
		replies: replies,
	}
	p.RealRunFn = p.realRun
	return p
}

func (p *Pwl) Run(block int64) []Sample { return p.run(block, p.RealRunFn) }

// Env replaces the breakpoint sequence. Segment lengths are floored to
// at least 1 sample per spec.md §9's envelope-representation note.
func (p *Pwl) Env(points []float32) {
	p.points = p.points[:0]
	for i := 0; i < len(points); i += 2 {
		d := points[i]
		if d < 1 {
			d = 1
		}
		p.points = append(p.points, d)
		if i+1 < len(points) {
			p.points = append(p.points, points[i+1])
		}
	}
}

// Start restarts the envelope from the current value.
func (p *Pwl) Start() {
	p.nextPointIndex = 0
	p.segTogo = 0
	p.finalValue = p.current
}

// Decay overrides the remaining envelope with a single linear segment to
// zero in d samples.
func (p *Pwl) Decay(d float32) {
	n := int(d)
	if n < 1 {
		n = 1
	}
	p.segTogo = n
	p.segIncr = -p.current / float32(n)
	p.nextPointIndex = len(p.points)
	p.finalValue = 0
}

// Set forces the current value (used for glitch-free re-triggering).
func (p *Pwl) Set(y float32) { p.current = y }

func (p *Pwl) stop() {
	p.nextPointIndex = 0
	p.segTogo = segTogoInfinite
	p.segIncr = 0
}

func (p *Pwl) realRun() {
	togo := BL
	out := p.outSamps
	oi := 0
	for {
		n := p.segTogo
		if n > togo {
			n = togo
		}
		if n == 0 {
			p.current = p.finalValue
			if p.nextPointIndex >= len(p.points) {
				p.stop()
				if p.ActionID() != 0 && p.replies != nil {
					p.replies.Post(Reply{Addr: ReplyActionEnd, ID: p.id, Args: []any{int32(p.ActionID())}})
				}
				if p.current == 0 && p.flags&CanTerminate != 0 {
					p.Terminate()
				}
			} else {
				p.segTogo = int(p.points[p.nextPointIndex])
				p.nextPointIndex++
				p.finalValue = p.points[p.nextPointIndex]
				p.nextPointIndex++
				p.segIncr = (p.finalValue - p.current) / float32(p.segTogo)
			}
			continue
		}
		for i := 0; i < n; i++ {
			out[oi] = p.current
			oi++
			p.current += p.segIncr
		}
		togo -= n
		p.segTogo -= n
		if togo <= 0 {
			break
		}
	}
}

// Pwlb is Pwl's block-rate counterpart: one breakpoint tick consumed per
// engine block rather than per sample. Grounded on pwlb.h/pwlb.cpp.
type Pwlb struct {
	Base
	current        float32
	segTogo        int
	segIncr        float32
	finalValue     float32
	nextPointIndex int
	points         []float32
	replies        *ReplyAdapter
}

// NewPwlb creates an empty Pwlb.
func NewPwlb(id ID, replies *ReplyAdapter) *Pwlb {
	p := &Pwlb{
		Base:    NewBase(id, "Pwlb", RateBlock, 1),
		segTogo: segTogoInfinite,
		replies: replies,
	}
	p.RealRunFn = p.realRun
	return p
}

func (p *Pwlb) Run(block int64) []Sample { return p.run(block, p.RealRunFn) }

// Env replaces the breakpoint sequence (block counts, floored to >= 1).
func (p *Pwlb) Env(points []float32) {
	p.points = p.points[:0]
	for i := 0; i < len(points); i += 2 {
		d := points[i]
		if d < 1 {
			d = 1
		}
		p.points = append(p.points, d)
		if i+1 < len(points) {
			p.points = append(p.points, points[i+1])
		}
	}
}

// Start restarts the envelope from the current value.
func (p *Pwlb) Start() {
	p.nextPointIndex = 0
	p.segTogo = 0
	p.finalValue = p.current
}

// Decay overrides the remaining envelope with a linear decay to zero in
// d blocks.
func (p *Pwlb) Decay(d float32) {
	n := int(d)
	if n < 1 {
		n = 1
	}
	p.segTogo = n
	p.segIncr = -p.current / float32(n)
	p.nextPointIndex = len(p.points)
	p.finalValue = 0
}

// Set forces the current value.
func (p *Pwlb) Set(y float32) { p.current = y }

func (p *Pwlb) realRun() {
	if p.segTogo == 0 {
		p.current = p.finalValue
		if p.nextPointIndex >= len(p.points) {
			p.segTogo = segTogoInfinite
			p.segIncr = 0
			if p.ActionID() != 0 && p.replies != nil {
				p.replies.Post(Reply{Addr: ReplyActionEnd, ID: p.id, Args: []any{int32(p.ActionID())}})
			}
		} else {
			p.segTogo = int(p.points[p.nextPointIndex])
			p.nextPointIndex++
			p.finalValue = p.points[p.nextPointIndex]
			p.nextPointIndex++
			p.segIncr = (p.finalValue - p.current) / float32(p.segTogo)
		}
	}
	p.outSamps[0] = p.current
	p.current += p.segIncr
	p.segTogo--
}

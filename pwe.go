package arco

import "math"

// envelopeBias biases every breakpoint value by this amount so
// exponential recipes never compute log(0); it is subtracted back out
// of every emitted sample. Grounded on pwe.h's BIAS=0.01 trick.
const envelopeBias float32 = 0.01

// Pwe is the audio-rate piecewise-exponential envelope. Breakpoint
// values are internally shifted by envelopeBias and segments are
// computed as per-sample multiplicative factors in log-space; an
// optional linear attack keeps the first segment linear in bias-shifted
// space (sounds better than an exponential ramp up from near-zero).
// Grounded on pwe.h/pwe.cpp.
type Pwe struct {
	Base
	current        float32 // includes bias
	segTogo        int
	segFactor      float32
	finalValue     float32 // includes bias
	nextPointIndex int
	points         []float32
	linearAttack   bool
	linearMode     bool
	replies        *ReplyAdapter
}

// NewPwe creates an empty Pwe.
func NewPwe(id ID, replies *ReplyAdapter) *Pwe {
	p := &Pwe{
		Base:       NewBase(id, "Pwe", RateAudio, 1),
		current:    envelopeBias,
		segTogo:    segTogoInfinite,
		segFactor:  1.0,
		finalValue: envelopeBias,
		replies:    replies,
	}
	p.RealRunFn = p.realRun
	return p
}

func (p *Pwe) Run(block int64) []Sample { return p.run(block, p.RealRunFn) }

// Env replaces the breakpoint sequence (raw, unbiased values; d floored
// to >= 1 sample).
func (p *Pwe) Env(points []float32) {
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

// LinAtk enables or disables the linear first segment.
func (p *Pwe) LinAtk(linear bool) { p.linearAttack = linear }

// Start restarts the envelope from the current value.
func (p *Pwe) Start() {
	p.nextPointIndex = 0
	p.linearMode = p.linearAttack
	p.segTogo = 0
	p.finalValue = p.current
}

func (p *Pwe) stop() {
	p.segTogo = segTogoInfinite
	if p.linearMode {
		p.segFactor = 0
	} else {
		p.segFactor = 1
	}
}

// Decay starts an immediate exponential decay to (bias-shifted) zero
// over d samples, discarding remaining breakpoints.
func (p *Pwe) Decay(d float32) {
	n := int(d)
	if n < 1 {
		n = 1
	}
	p.segTogo = n
	p.finalValue = envelopeBias
	p.linearMode = false
	p.segFactor = float32(math.Exp(math.Log(float64(p.finalValue/p.current)) / float64(n)))
	p.nextPointIndex = len(p.points)
}

// Set forces the current (unbiased) value.
func (p *Pwe) Set(y float32) { p.current = y + envelopeBias }

func (p *Pwe) realRun() {
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
				if p.current == envelopeBias && p.flags&CanTerminate != 0 {
					p.Terminate()
				}
			} else {
				p.linearMode = p.linearMode && p.nextPointIndex == 0
				p.segTogo = int(p.points[p.nextPointIndex])
				p.nextPointIndex++
				p.finalValue = p.points[p.nextPointIndex] + envelopeBias
				p.nextPointIndex++
				if p.linearMode {
					p.segFactor = (p.finalValue - p.current) / float32(p.segTogo)
				} else {
					p.segFactor = float32(math.Exp(math.Log(float64(p.finalValue/p.current)) / float64(p.segTogo)))
				}
			}
			continue
		}
		if p.linearMode {
			for i := 0; i < n; i++ {
				p.current += p.segFactor
				out[oi] = p.current - envelopeBias
				oi++
			}
		} else {
			for i := 0; i < n; i++ {
				p.current *= p.segFactor
				out[oi] = p.current - envelopeBias
				oi++
			}
		}
		togo -= n
		p.segTogo -= n
		if togo <= 0 {
			break
		}
	}
}

// Pweb is Pwe's block-rate counterpart. Grounded on pweb.h.
type Pweb struct {
	Base
	current        float32
	segTogo        int
	segFactor      float32
	finalValue     float32
	nextPointIndex int
	points         []float32
	linearAttack   bool
	linearMode     bool
	replies        *ReplyAdapter
}

// NewPweb creates an empty Pweb.
func NewPweb(id ID, replies *ReplyAdapter) *Pweb {
	p := &Pweb{
		Base:       NewBase(id, "Pweb", RateBlock, 1),
		current:    envelopeBias,
		segTogo:    segTogoInfinite,
		segFactor:  1.0,
		finalValue: envelopeBias,
		replies:    replies,
	}
	p.RealRunFn = p.realRun
	return p
}

func (p *Pweb) Run(block int64) []Sample { return p.run(block, p.RealRunFn) }

// Env replaces the breakpoint sequence.
func (p *Pweb) Env(points []float32) {
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

// LinAtk enables or disables the linear first segment.
func (p *Pweb) LinAtk(linear bool) { p.linearAttack = linear }

// Start restarts the envelope from the current value.
func (p *Pweb) Start() {
	p.nextPointIndex = 0
	p.linearMode = p.linearAttack
	p.segTogo = 0
	p.finalValue = p.current
}

func (p *Pweb) stop() {
	p.segTogo = segTogoInfinite
	if p.linearMode {
		p.segFactor = 0
	} else {
		p.segFactor = 1
	}
}

// Decay starts an immediate exponential decay to zero over d blocks.
func (p *Pweb) Decay(d float32) {
	n := int(d)
	if n < 1 {
		n = 1
	}
	p.segTogo = n
	p.finalValue = envelopeBias
	p.linearMode = false
	p.segFactor = float32(math.Exp(math.Log(float64(p.finalValue/p.current)) / float64(n)))
	p.nextPointIndex = len(p.points)
}

// Set forces the current (unbiased) value.
func (p *Pweb) Set(y float32) { p.current = y + envelopeBias }

func (p *Pweb) realRun() {
	if p.segTogo == 0 {
		p.current = p.finalValue
		if p.nextPointIndex >= len(p.points) {
			p.stop()
			if p.ActionID() != 0 && p.replies != nil {
				p.replies.Post(Reply{Addr: ReplyActionEnd, ID: p.id, Args: []any{int32(p.ActionID())}})
			}
			if p.current == envelopeBias && p.flags&CanTerminate != 0 {
				p.Terminate()
			}
		} else {
			p.linearMode = p.linearMode && p.nextPointIndex == 0
			p.segTogo = int(p.points[p.nextPointIndex])
			p.nextPointIndex++
			p.finalValue = p.points[p.nextPointIndex] + envelopeBias
			p.nextPointIndex++
			if p.linearMode {
				p.segFactor = (p.finalValue - p.current) / float32(p.segTogo)
			} else {
				p.segFactor = float32(math.Exp(math.Log(float64(p.finalValue/p.current)) / float64(p.segTogo)))
			}
		}
	}
	if p.linearMode {
		p.current += p.segFactor
	} else {
		p.current *= p.segFactor
	}
	p.outSamps[0] = p.current - envelopeBias
	p.segTogo--
}

package arco

// routeSource names one audio channel of one input ugen: the unit of
// addressing a Route's sample-pointer sources use in spec.md §3's
// "Routing table". Stored as (ugen, channel) rather than a raw buffer
// pointer, since Go buffers aren't safely addressed by arithmetic and a
// ugen's Out() slice is stable across its lifetime anyway.
type routeSource struct {
	ugen Ugen
	chan_ int
}

type routeInput struct {
	ugen     Ugen
	refcount int
}

// Route implements spec.md §4.3's per-output-channel routing table: each
// output channel holds an ordered list of source pointers (here,
// routeSource values); input ugens are refcounted by the number of
// channels mapped from them. Grounded on route.h/route.cpp.
type Route struct {
	Base
	reg    *Registry
	inputs []routeInput
	routes [][]routeSource // one slice per output channel
}

// NewRoute creates a Route with chans output channels, all initially
// routed to ZERO.
func NewRoute(reg *Registry, id ID, chans int) *Route {
	r := &Route{
		Base:   NewBase(id, "Route", RateAudio, chans),
		reg:    reg,
		routes: make([][]routeSource, chans),
	}
	zeroUgen, _ := reg.Lookup(ZeroID)
	for i := range r.routes {
		r.routes[i] = []routeSource{{ugen: zeroUgen, chan_: 0}}
	}
	r.RealRunFn = r.realRun
	return r
}

func (r *Route) Run(block int64) []Sample { return r.run(block, r.RealRunFn) }

func (r *Route) findInput(u Ugen) int {
	for i, ri := range r.inputs {
		if ri.ugen == u {
			return i
		}
	}
	return -1
}

func isZeroSource(routeVec []routeSource, reg *Registry) bool {
	if len(routeVec) != 1 {
		return false
	}
	return routeVec[0].ugen.ID() == ZeroID
}

// Ins wires input's channel inchan to this route's output channel
// outchan. Idempotent on exact (input, inchan, outchan) duplicates.
func (r *Route) Ins(input Ugen, inchan, outchan int) error {
	if outchan < 0 || outchan >= r.chans {
		return ErrRateMismatch
	}
	if inchan < 0 || inchan >= input.Chans() {
		return ErrRateMismatch
	}
	routeVec := r.routes[outchan]
	for _, src := range routeVec {
		if src.ugen == input && src.chan_ == inchan {
			return nil
		}
	}
	i := r.findInput(input)
	if i == -1 {
		r.inputs = append(r.inputs, routeInput{ugen: input, refcount: 1})
		input.ref()
	} else {
		r.inputs[i].refcount++
	}
	if isZeroSource(routeVec, r.reg) {
		r.routes[outchan] = []routeSource{{ugen: input, chan_: inchan}}
	} else {
		r.routes[outchan] = append(routeVec, routeSource{ugen: input, chan_: inchan})
	}
	return nil
}

// Rem removes the (input, inchan) -> outchan route. When the last route
// to outchan is removed, the channel reverts to the zero source.
func (r *Route) Rem(input Ugen, inchan, outchan int) error {
	if outchan < 0 || outchan >= r.chans {
		return ErrRateMismatch
	}
	if inchan < 0 || inchan >= input.Chans() {
		return ErrRateMismatch
	}
	ii := r.findInput(input)
	if ii == -1 {
		return ErrUnknownID
	}
	routeVec := r.routes[outchan]
	found := -1
	for i, src := range routeVec {
		if src.ugen == input && src.chan_ == inchan {
			found = i
			break
		}
	}
	if found == -1 {
		return ErrUnknownID
	}
	routeVec = append(routeVec[:found], routeVec[found+1:]...)
	if len(routeVec) == 0 {
		zeroUgen, _ := r.reg.Lookup(ZeroID)
		routeVec = []routeSource{{ugen: zeroUgen, chan_: 0}}
	}
	r.routes[outchan] = routeVec

	r.inputs[ii].refcount--
	if r.inputs[ii].refcount == 0 {
		r.inputs = append(r.inputs[:ii], r.inputs[ii+1:]...)
		input.unref()
	}
	return nil
}

// RemAllFrom removes every route originating from input, across all
// output channels, and drops input entirely.
func (r *Route) RemAllFrom(input Ugen) error {
	ii := r.findInput(input)
	if ii == -1 {
		return ErrUnknownID
	}
	zeroUgen, _ := r.reg.Lookup(ZeroID)
	for c := range r.routes {
		kept := r.routes[c][:0]
		for _, src := range r.routes[c] {
			if src.ugen != input {
				kept = append(kept, src)
			}
		}
		if len(kept) == 0 {
			kept = []routeSource{{ugen: zeroUgen, chan_: 0}}
		}
		r.routes[c] = kept
	}
	r.inputs = append(r.inputs[:ii], r.inputs[ii+1:]...)
	input.unref()
	return nil
}

func (r *Route) releaseInputs() []Ugen {
	ins := make([]Ugen, len(r.inputs))
	for i, ri := range r.inputs {
		ins[i] = ri.ugen
	}
	r.inputs = nil
	return ins
}

func (r *Route) realRun() {
	terminated := true
	for _, ri := range r.inputs {
		ri.ugen.Run(r.curBlock)
		terminated = terminated && ri.ugen.Flags()&Terminated != 0
	}
	if terminated && len(r.inputs) > 0 && r.flags&CanTerminate != 0 {
		r.Terminate()
	}
	for c := 0; c < r.chans; c++ {
		routeVec := r.routes[c]
		dst := r.outSamps[c*BL : c*BL+BL]
		first := routeVec[0]
		blockCopy(dst, first.ugen.Out()[first.chan_*BL:first.chan_*BL+BL])
		for _, src := range routeVec[1:] {
			srcBuf := src.ugen.Out()[src.chan_*BL : src.chan_*BL+BL]
			for j := 0; j < BL; j++ {
				dst[j] += srcBuf[j]
			}
		}
	}
}

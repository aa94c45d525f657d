package arco

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Rate classifies how often a ugen produces output.
type Rate int

const (
	// RateAudio ugens produce BL samples per channel per block.
	RateAudio Rate = iota
	// RateBlock ugens produce one sample per channel per block.
	RateBlock
	// RateConst ugens produce one sample per channel, rarely recomputed.
	RateConst
	// RateNone ugens are sinks or analyzers with no output buffer.
	RateNone
)

func (r Rate) String() string {
	switch r {
	case RateAudio:
		return "audio"
	case RateBlock:
		return "block"
	case RateConst:
		return "const"
	case RateNone:
		return "none"
	default:
		return "unknown"
	}
}

// Flag is a bitset of sticky ugen state.
type Flag uint32

const (
	// CanTerminate opts a ugen into upstream-driven termination.
	CanTerminate Flag = 1 << iota
	// Terminated is sticky: once set it is never cleared.
	Terminated
)

// ID is a small non-negative integer key into the engine's ugen table.
type ID int32

// Reserved ids for the permanent all-zero ugens.
const (
	ZeroID  ID = 0
	ZerobID ID = 1
)

// Ugen is the uniform interface every unit generator implements: pull
// self, declare rate/channels, accept control mutations via the kind
// specific methods each concrete ugen exposes. Implementations are
// expected to embed Base and only override RealRun and, where relevant,
// Terminate/ActionID plumbing.
type Ugen interface {
	ID() ID
	Rate() Rate
	Chans() int
	Flags() Flag
	CurrentBlock() int64
	Out() []Sample

	// Run is the pull protocol: if the ugen has already computed block b
	// it returns its cached output; otherwise it calls RealRun, stamps
	// CurrentBlock and returns the freshly computed output.
	Run(block int64) []Sample

	// RealRun performs this ugen's actual per-block computation. Callers
	// never invoke RealRun directly; only Run does, after the cache
	// check.
	RealRun()

	ref()
	unref() int32
	refcount() int32

	classname() string
}

// Base implements the bookkeeping shared by every ugen: identity, rate,
// channel count, output buffer, flags, block cache and ref-count. Concrete
// ugens embed Base and set RealRunFn to their own per-block routine (the
// "stored function pointer" dispatch spec.md's design notes call for,
// used here uniformly rather than only for rate-variant inner loops).
type Base struct {
	id       ID
	rate     Rate
	chans    int
	outSamps []Sample
	flags    Flag
	curBlock int64
	refs     int32
	actionID int32
	kind     string

	// RealRunFn is invoked by Run on a cache miss. It is set by the
	// concrete ugen's constructor and may be swapped at runtime when an
	// input's rate changes (e.g. Feedback's gain path, Fader's mode).
	RealRunFn func()
}

// NewBase allocates the output buffer appropriate to rate and wires
// identity. chans must be >= 0; RateNone ugens get no output buffer
// (Trig and Chorddetect pass RateNone with chans == 0, while Yin is
// created at RateAudio with its analyzed channel count).
func NewBase(id ID, kind string, rate Rate, chans int) Base {
	b := Base{id: id, kind: kind, rate: rate, chans: chans, refs: 1, curBlock: -1}
	switch rate {
	case RateAudio:
		b.outSamps = make([]Sample, chans*BL)
	case RateBlock, RateConst:
		b.outSamps = make([]Sample, chans)
	case RateNone:
		b.outSamps = nil
	}
	return b
}

func (b *Base) ID() ID               { return b.id }
func (b *Base) Rate() Rate           { return b.rate }
func (b *Base) Chans() int           { return b.chans }
func (b *Base) Flags() Flag          { return b.flags }
func (b *Base) CurrentBlock() int64  { return b.curBlock }
func (b *Base) Out() []Sample        { return b.outSamps }
func (b *Base) classname() string    { return b.kind }
func (b *Base) refcount() int32      { return b.refs }
func (b *Base) SetActionID(a int32)  { b.actionID = a }
func (b *Base) ActionID() int32      { return b.actionID }

// SetCanTerminate opts this ugen into upstream-driven termination.
func (b *Base) SetCanTerminate(v bool) {
	if v {
		b.flags |= CanTerminate
	} else {
		b.flags &^= CanTerminate
	}
}

// Terminate sets the sticky Terminated flag. Implementations call this
// from RealRunFn once their own termination condition holds; it never
// clears.
func (b *Base) Terminate() {
	b.flags |= Terminated
}

func (b *Base) ref() { b.refs++ }

func (b *Base) unref() int32 {
	b.refs--
	return b.refs
}

// run implements the shared half of the pull protocol; concrete ugens
// embed Base and promote this via a thin Run wrapper (Go interfaces
// cannot dispatch to an embedded method that needs the outer type's
// RealRun, so each concrete ugen's Run just calls b.run(block, realRun)).
func (b *Base) run(block int64, realRun func()) []Sample {
	if b.curBlock == block {
		return b.outSamps
	}
	// Set curBlock before computing so that RealRun's own pulls of its
	// inputs (which read b.curBlock to pull at the current block) see the
	// new block number, and so a ugen that is asked to run again for the
	// same block mid-computation (which should never happen outside
	// Feedback's deliberate one-block delay) is not re-entered.
	b.curBlock = block
	realRun()
	return b.outSamps
}

// Run implements Ugen via the stored RealRunFn, suitable for promotion
// by simple ugens (ZERO/ZEROB, and any ugen that has no extra per-Run
// behavior beyond RealRunFn).
func (b *Base) Run(block int64) []Sample {
	return b.run(block, b.RealRunFn)
}

func (b *Base) RealRun() {
	if b.RealRunFn != nil {
		b.RealRunFn()
	}
}

// Registry is the process-wide, single-threaded (audio-thread-owned)
// table mapping ID to Ugen. Per spec.md's design notes, it is an
// open-addressed table keyed by integer id rather than a pointer graph;
// external code (the control plane) addresses ugens exclusively by id.
type Registry struct {
	table map[ID]Ugen
	log   zerolog.Logger
}

// NewRegistry returns a Registry pre-populated with the permanent ZERO
// and ZEROB ugens, which are never freed.
func NewRegistry(log zerolog.Logger) *Registry {
	r := &Registry{table: make(map[ID]Ugen), log: log}
	r.table[ZeroID] = newZero()
	r.table[ZerobID] = newZerob()
	return r
}

// Install adds a newly-constructed ugen to the table. It refuses (logs
// and drops, per spec.md §4.1) if the id is already live.
func (r *Registry) Install(u Ugen) error {
	if _, exists := r.table[u.ID()]; exists {
		r.log.Warn().Int("id", int(u.ID())).Msg("new: id already in use, dropped")
		return fmt.Errorf("%w: id %d", ErrIDInUse, u.ID())
	}
	r.table[u.ID()] = u
	return nil
}

// Lookup returns the ugen for id, or an error if absent. Callers that
// expect a particular concrete kind should type-assert and treat a
// failed assertion as ErrWrongKind.
func (r *Registry) Lookup(id ID) (Ugen, error) {
	u, ok := r.table[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownID, id)
	}
	return u, nil
}

// Ref increments the refcount of the ugen denoted by id.
func (r *Registry) Ref(id ID) error {
	u, err := r.Lookup(id)
	if err != nil {
		return err
	}
	u.ref()
	return nil
}

// Unref decrements the refcount of the ugen denoted by id; at zero it is
// removed from the table and iteratively destroyed, releasing its own
// input references in turn via a work list rather than recursion, so
// teardown depth is bounded independent of graph depth.
func (r *Registry) Unref(id ID) {
	u, ok := r.table[id]
	if !ok {
		return
	}
	if u.unref() > 0 {
		return
	}
	delete(r.table, id)
	work := []Ugen{u}
	for len(work) > 0 {
		n := len(work) - 1
		cur := work[n]
		work = work[:n]
		releaser, ok := cur.(inputReleaser)
		if !ok {
			continue
		}
		for _, dep := range releaser.releaseInputs() {
			if dep == nil {
				continue
			}
			if dep.unref() > 0 {
				continue
			}
			delete(r.table, dep.ID())
			work = append(work, dep)
		}
	}
}

// inputReleaser is implemented by ugens that hold strong references to
// other ugens, letting the Registry's iterative teardown enumerate and
// drop them without each ugen type needing its own recursive destructor.
type inputReleaser interface {
	releaseInputs() []Ugen
}

// InitParam wires src as an input: it increments src's refcount and
// reports the channel stride init_param would compute in spec.md §4.1 —
// chans*1 stride semantics are represented directly by callers reading
// src.Rate(); Stride is kept as a convenience for ugens that need the
// numeric per-channel distance (audio rate: BL, block/const: 1).
func InitParam(src Ugen) (stride int) {
	src.ref()
	if src.Rate() == RateAudio {
		return BL
	}
	return 1
}

// AdaptRate wires src into a consumer that requires rate want. Per
// spec.md §4.1's rate adaptation rule, a non-audio source feeding an
// audio-rate parameter is transparently wrapped in Upsample; an
// audio-rate source feeding a non-audio parameter is wrapped in
// Dnsampleb with a default anti-aliasing mode. Returns src unchanged if
// rates already match.
func AdaptRate(r *Registry, src Ugen, want Rate) Ugen {
	if src.Rate() == want {
		return src
	}
	switch want {
	case RateAudio:
		return NewUpsample(src)
	default:
		return NewDnsampleb(src, DnsampleLowpass500)
	}
}

package arco

import (
	"github.com/rs/zerolog"
	"zikichombo.org/sound/freq"
)

// Engine is the block-rate audio thread of spec.md §4.8: each Tick
// drains the inbound control queue, advances the block clock, pulls the
// designated output ugen, and leaves the reply queue for the host to
// drain separately. It is the sole owner of the Registry and is never
// touched concurrently — the DeviceProcessor bridge below is the only
// other thing that calls it, and that happens on the same audio
// callback thread the host's device-I/O tier already serializes.
// Grounded on spec.md §4.8 and the teacher's proc.go dispatch pattern.
type Engine struct {
	Reg     *Registry
	Disp    *Dispatcher
	Replies *ReplyAdapter
	Inbound *RingQueue[Msg]

	block int64
	out   Ugen
	log   zerolog.Logger
}

// NewEngine creates an Engine at the given sample rate and block
// length, with room for inboundCap pending control messages and
// replyCap pending outbound replies.
func NewEngine(sr freq.T, blockLen, inboundCap, replyCap int, log zerolog.Logger) *Engine {
	Init(sr, blockLen)
	reg := NewRegistry(log)
	e := &Engine{
		Reg:     reg,
		Disp:    NewDispatcher(log),
		Replies: NewReplyAdapter(replyCap),
		Inbound: NewRingQueue[Msg](inboundCap),
		block:   -1,
		log:     log,
	}
	RegisterCoreHandlers(e.Disp, reg)
	return e
}

// SetOutput designates the ugen whose output is pulled each Tick — the
// engine's mixer sink.
func (e *Engine) SetOutput(u Ugen) { e.out = u }

// SendControl enqueues a control message for the next Tick to drain.
// Never blocks: a full queue drops the message (spec.md §5).
func (e *Engine) SendControl(m Msg) error { return e.Inbound.TryPush(m) }

// Tick performs one full engine-loop iteration (spec.md §4.8, steps
// 1-3): drain inbound messages, advance the block clock, and pull the
// output ugen. It does not flush replies — callers drain e.Replies on
// their own schedule, which may be less often than every block.
func (e *Engine) Tick() []Sample {
	for {
		m, ok := e.Inbound.TryPop()
		if !ok {
			break
		}
		if err := e.Disp.Dispatch(e.Reg, e.Replies, m); err != nil {
			e.log.Warn().Str("addr", m.Addr).Err(err).Msg("dropped control message")
		}
	}
	e.block++
	if e.out == nil {
		return nil
	}
	return e.out.Run(e.block)
}

// Block returns the current block number.
func (e *Engine) Block() int64 { return e.block }

// Processor returns a DeviceProcessor that repeatedly Ticks the engine
// to fill dst, converting the audio-rate sink's float32 output into the
// device tier's deinterleaved float64 samples. Adapted from the
// teacher's proc.go ProcFunc pattern (NewProcessor).
func (e *Engine) Processor() DeviceProcessor {
	return NewProcessor(func(dst, src *DeviceBlock) error {
		written := 0
		for written < dst.Frames {
			out := e.Tick()
			n := BL
			if written+n > dst.Frames {
				n = dst.Frames - written
			}
			srcChans := 0
			if e.out != nil {
				srcChans = e.out.Chans()
			}
			dst.writeEngineTick(out, srcChans, written, n)
			written += n
		}
		dst.Frames = written
		return nil
	})
}

package arco

// ReplyAddr names the well-known reply message kinds a ugen can emit on
// a state transition (spec.md §4.7). Concrete ugens also carry their own
// host-chosen reply address (a string, set via the control plane); Addr
// here picks the payload shape, not the destination.
type ReplyAddr string

const (
	// ReplyActionEnd fires on envelope completion (ACTION_END) or on a
	// sum-like container's input termination (ACTION_REM, reusing the
	// same envelope so callers needn't branch on shape).
	ReplyActionEnd ReplyAddr = "/arco/action/end"
	// ReplyActionTerm fires when a ugen itself terminates (ACTION_TERM).
	ReplyActionTerm ReplyAddr = "/arco/action/term"
	// ReplyTrig fires from Trig on a threshold crossing.
	ReplyTrig ReplyAddr = "/host/trig"
	// ReplyPitch fires from Yin with (pitch, harmonicity, rms) per channel.
	ReplyPitch ReplyAddr = "/host/pitch"
	// ReplyChord fires from Chorddetect with (root, quality, mask).
	ReplyChord ReplyAddr = "/host/chord"
)

// Reply is one outbound message destined for the host. Args are typed
// the same way inbound control messages are (int32, float32, string).
type Reply struct {
	Addr ReplyAddr
	ID   ID
	Args []any
}

// ReplyAdapter is the asynchronous reply adapter of spec.md §4.7/component
// G: ugens enqueue Reply values to it from the audio thread without
// blocking or allocating unboundedly; the host drains it between blocks
// (or from another goroutine, via Drain/Chan). It is backed by the same
// lock-free SPSC ring used for inbound control messages (queue.go), kept
// to a bounded capacity so a host that stops draining cannot grow the
// audio thread's memory footprint.
type ReplyAdapter struct {
	q *RingQueue[Reply]
}

// NewReplyAdapter creates a reply adapter with the given fixed capacity.
func NewReplyAdapter(capacity int) *ReplyAdapter {
	return &ReplyAdapter{q: NewRingQueue[Reply](capacity)}
}

// Post enqueues a reply. If the queue is full the reply is dropped; this
// mirrors spec.md §5's requirement that the audio thread never blocks —
// a host too slow to drain replies loses the newest ones rather than
// stalling synthesis.
func (a *ReplyAdapter) Post(r Reply) {
	if a == nil {
		return
	}
	_ = a.q.TryPush(r)
}

// Drain removes and returns all replies currently queued, for the host
// to process between blocks.
func (a *ReplyAdapter) Drain() []Reply {
	if a == nil {
		return nil
	}
	var out []Reply
	for {
		r, ok := a.q.TryPop()
		if !ok {
			break
		}
		out = append(out, r)
	}
	return out
}

package arco

import "math"

// Trig watches an audio-rate input's RMS over a sliding window made of
// two half-window accumulators (sum0 for the window ending now, sum1
// for the one after), posting a ReplyTrig message when RMS exceeds a
// threshold (then pausing for a configurable number of blocks so one
// loud passage doesn't retrigger continuously), and optionally posting
// a separate onoff transition with hysteresis and a minimum run length
// to debounce noise near the threshold. Grounded on trig.h/trig.cpp.
type Trig struct {
	Base
	input       Ugen
	inputStride int

	windowSize   int // samples, rounded up to a multiple of BL
	threshold    float32
	pause        int // blocks
	sum0, sum1   float32
	count        int
	enabled      bool
	pauseFor     int

	onoffEnabled bool
	onoffThresh  float32
	onoffRunlen  int
	onoffState   bool
	onoffCount   int
	reportedState bool

	replies *ReplyAdapter
}

// NewTrig creates a Trig watching input, with the given window size
// (samples), RMS threshold, and post-trigger pause (seconds).
func NewTrig(id ID, input Ugen, windowSize int, threshold, pause float32, replies *ReplyAdapter) *Trig {
	t := &Trig{
		Base:      NewBase(id, "Trig", RateNone, 0),
		threshold: threshold,
		sum0:      1.0e10,
		onoffRunlen: 2,
		replies:   replies,
	}
	t.SetWindow(windowSize)
	t.SetPause(pause)
	t.inputStride = InitParam(input)
	t.input = input
	t.RealRunFn = t.realRun
	return t
}

func (t *Trig) Run(block int64) []Sample { return t.run(block, t.RealRunFn) }

func (t *Trig) releaseInputs() []Ugen { in := t.input; t.input = nil; return []Ugen{in} }

// ReplInput replaces the monitored source.
func (t *Trig) ReplInput(input Ugen) {
	t.input.unref()
	t.inputStride = InitParam(input)
	t.input = input
}

// SetWindow rounds size up to a multiple of BL.
func (t *Trig) SetWindow(size int) { t.windowSize = (size + BL - 1) &^ (BL - 1) }

// SetThreshold sets the RMS trigger threshold.
func (t *Trig) SetThreshold(thresh float32) { t.threshold = thresh }

// SetPause sets the post-trigger pause, in seconds.
func (t *Trig) SetPause(pause float32) { t.pause = int(math.Ceil(float64(pause * BR))) }

// Onoff enables (addr non-empty) or disables onoff-transition reporting.
func (t *Trig) Onoff(addr string, threshold, runlen float32) {
	if addr == "" {
		t.onoffEnabled = false
		return
	}
	t.onoffEnabled = true
	t.onoffThresh = threshold
	t.onoffRunlen = int(math.Ceil(float64(runlen * BR)))
}

func (t *Trig) realRun() {
	inSamps := t.input.Run(t.curBlock)
	inputChans := t.input.Chans()
	var sum float32
	n := inputChans * BL
	for i := 0; i < n; i++ {
		s := inSamps[i]
		sum += s * s
	}
	t.sum0 += sum
	t.sum1 += sum
	t.count += BL

	if t.count >= t.windowSize>>1 {
		rms := float32(math.Sqrt(float64(t.sum0) / float64(t.windowSize*inputChans)))
		if t.enabled && rms > t.threshold && t.pauseFor <= 0 {
			if t.replies != nil {
				t.replies.Post(Reply{Addr: ReplyTrig, ID: t.id, Args: []any{int32(t.id), rms}})
			}
			t.pauseFor = t.pause
			// Carry sum0 (above threshold) forward into sum1 so the next
			// half-window's RMS also reads high and cannot re-enable the
			// trigger until a full fresh window has elapsed.
			t.sum1 = t.sum0
			t.enabled = false
		} else if t.sum0 < t.threshold {
			t.enabled = true
		}

		if t.onoffEnabled {
			if rms > t.onoffThresh {
				t.onoffState = true
			} else if rms < t.onoffThresh*0.9 {
				t.onoffState = false
			}
			t.onoffCount++
			if t.onoffState == t.reportedState {
				t.onoffCount = 0
			} else if t.onoffCount >= t.onoffRunlen {
				t.reportedState = t.onoffState
				if t.replies != nil {
					onVal := int32(0)
					if t.onoffState {
						onVal = 1
					}
					t.replies.Post(Reply{Addr: ReplyTrig, ID: t.id, Args: []any{int32(t.id), onVal}})
				}
			}
		}

		t.count = 0
		t.sum0 = t.sum1
		t.sum1 = 0
	}
	t.pauseFor--
}

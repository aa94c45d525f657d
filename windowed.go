package arco

// WindowedInput is an embeddable helper that accumulates a ugen's
// audio-rate input into overlapping fixed-size windows, invoking
// ProcessWindow each time a full window becomes available and then
// advancing by hopSize. Samples are kept in a growable per-channel
// slice that is shifted left (not a ring buffer) so ProcessWindow
// always sees a contiguous window, per spec.md §4.7's analyzer note.
// Grounded on windowedinput.h.
type WindowedInput struct {
	input       Ugen
	inputStride int
	buf         [][]float32 // per-channel accumulated samples
	tail        int         // index of the start of the next window
	windowSize  int
	hopSize     int

	// ProcessWindow is invoked once per channel each time a full window
	// is available, with window aliasing buf[ch][tail:tail+windowSize].
	// The embedding ugen must set this before the first Run.
	ProcessWindow func(ch int, window []float32)
}

// Init wires inp (which must be audio-rate) and configures the window
// and hop sizes, in samples.
func (w *WindowedInput) Init(inp Ugen, nchans, windowSize, hopSize int) {
	w.inputStride = InitParam(inp)
	w.input = inp
	w.windowSize = windowSize
	w.hopSize = hopSize
	w.buf = make([][]float32, nchans)
	bufCap := windowSize + BL*2
	for i := range w.buf {
		w.buf[i] = make([]float32, 0, bufCap)
	}
}

func (w *WindowedInput) releaseInput() Ugen {
	in := w.input
	w.input = nil
	return in
}

// ReplInput replaces the windowed source, releasing the old one.
func (w *WindowedInput) ReplInput(inp Ugen) {
	w.input.unref()
	w.inputStride = InitParam(inp)
	w.input = inp
}

// Advance pulls one block of input, appends it to each channel's
// buffer, shifting out already-consumed samples when the buffer would
// overflow, and fires ProcessWindow for every full window that becomes
// available. curBlock is the caller's current block number.
func (w *WindowedInput) Advance(curBlock int64) {
	inSamps := w.input.Run(curBlock)
	nchans := len(w.buf)

	if cap(w.buf[0])-len(w.buf[0]) < BL {
		erase := w.tail
		if erase > len(w.buf[0]) {
			erase = len(w.buf[0])
		}
		for ch := 0; ch < nchans; ch++ {
			w.buf[ch] = append(w.buf[ch][:0], w.buf[ch][erase:]...)
		}
		w.tail -= erase
	}

	for ch := 0; ch < nchans; ch++ {
		seg := inSamps[ch*w.inputStride : ch*w.inputStride+BL]
		w.buf[ch] = append(w.buf[ch], seg...)
	}

	for len(w.buf[0]) >= w.tail+w.windowSize {
		for ch := 0; ch < nchans; ch++ {
			w.ProcessWindow(ch, w.buf[ch][w.tail:w.tail+w.windowSize])
		}
		w.tail += w.hopSize
	}
}

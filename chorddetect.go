package arco

// ChordClassifier turns an accumulated audio frame into a chord guess.
// The actual chroma-extraction and template-matching algorithm (the
// original's Chromagram/ChordDetector pair) is intentionally out of
// scope here (spec.md's classifier Non-goal): Chorddetect only owns
// frame accumulation and reply posting, and defers classification to
// whatever ChordClassifier the host injects.
type ChordClassifier interface {
	// Classify is called once per full frame of audio (frameSize
	// samples at the configured sample rate). It returns ready=false
	// if the classifier needs more history before it can commit to an
	// answer (mirroring the original's chromagram.isReady() gate).
	Classify(frame []float64) (ready bool, rootName, qualityName string, intervals int32)
}

// Chorddetect accumulates an audio-rate input into fixed-size frames
// and, once a frame is complete, hands it to a ChordClassifier and
// posts a ReplyChord with the result. Grounded on
// chorddetect.h/chorddetect.cpp; only the first channel of a
// multi-channel input is analyzed, matching the original's real_run
// (which reads BL contiguous samples with no per-channel stride).
type Chorddetect struct {
	Base
	input       Ugen
	inputStride int
	frame       []float64
	frameSize   int
	classifier  ChordClassifier
	replies     *ReplyAdapter
}

// NewChorddetect creates a Chorddetect analyzing input in frames of
// frameSize samples, reporting results through classifier.
func NewChorddetect(id ID, input Ugen, frameSize int, classifier ChordClassifier, replies *ReplyAdapter) *Chorddetect {
	c := &Chorddetect{
		Base:       NewBase(id, "Chorddetect", RateNone, 0),
		frame:      make([]float64, 0, frameSize),
		frameSize:  frameSize,
		classifier: classifier,
		replies:    replies,
	}
	c.inputStride = InitParam(input)
	c.input = input
	c.RealRunFn = c.realRun
	return c
}

func (c *Chorddetect) Run(block int64) []Sample { return c.run(block, c.RealRunFn) }

func (c *Chorddetect) releaseInputs() []Ugen { in := c.input; c.input = nil; return []Ugen{in} }

// ReplInput replaces the analyzed source; the new input must be
// audio-rate, matching the original's assertion in repl_input.
func (c *Chorddetect) ReplInput(input Ugen) error {
	if input.Rate() != RateAudio {
		return ErrRateMismatch
	}
	c.input.unref()
	c.inputStride = InitParam(input)
	c.input = input
	return nil
}

func (c *Chorddetect) realRun() {
	inSamps := c.input.Run(c.curBlock)
	for i := 0; i < BL; i++ {
		c.frame = append(c.frame, float64(inSamps[i]))
	}
	if len(c.frame) < c.frameSize {
		return
	}
	ready, root, quality, intervals := c.classifier.Classify(c.frame[:c.frameSize])
	c.frame = c.frame[:0]
	if ready && c.replies != nil {
		c.replies.Post(Reply{Addr: ReplyChord, ID: c.id, Args: []any{root, quality, intervals}})
	}
}

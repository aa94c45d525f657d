package arco

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// stepToHz converts a MIDI-style step number (69 = A440) to frequency.
func stepToHz(step float32) float32 {
	return 440.0 * float32(math.Pow(2, float64(step-69)/12.0))
}

// hzToStep is stepToHz's inverse.
func hzToStep(hz float32) float32 {
	return 69.0 + 12.0*float32(math.Log2(float64(hz)/440.0))
}

// parabolicInterp estimates the location (and value) of a local
// extremum from three equally-spaced samples via parabolic fit,
// grounded on yin.h's parabolic_interp.
func parabolicInterp(x1, x2, x3, y1, y2, y3 float32) (pos, min float32) {
	a := ((y1-y2)/(x1-x2) - (y2-y3)/(x2-x3)) / (x1 - x3)
	b := (y1-y2)/(x1-x2) - a*(x1+x2)
	c := y1 - a*x1*x1 - b*x1
	pos = -b / (a + a)
	min = (a*pos+b)*pos + c
	return
}

type yinState struct {
	harmonicity, pitch, rms float32
}

// Yin is an audio-rate pitch estimator using the Yin algorithm's
// cumulative-mean-normalized difference function with a threshold walk
// and parabolic interpolation, posting one ReplyPitch message carrying
// (pitch, harmonicity, rms) for every channel after each block in which a
// window completes. Grounded on yin.h/yin.cpp; its
// difference-function inner products use gonum/floats (spec.md §9's
// domain-stack guidance to prefer gonum for the analyzer family's
// numeric kernels over a hand-rolled loop).
type Yin struct {
	Base
	WindowedInput
	states    []yinState
	newEst    bool
	m         int // shortest period, in samples
	middle    int // window half-length
	results   []float32
	replies   *ReplyAdapter
}

// NewYin creates a Yin detector. minStep/maxStep bound the searched
// pitch range in MIDI-style step units; hopSize is in samples.
func NewYin(id ID, inp Ugen, nchans int, minStep, maxStep float32, hopSize int, replies *ReplyAdapter) *Yin {
	middle := int(math.Ceil(float64(AR / stepToHz(minStep))))
	windowSize := middle * 2
	m := int(AR / stepToHz(maxStep))
	y := &Yin{
		Base:    NewBase(id, "Yin", RateAudio, nchans),
		states:  make([]yinState, nchans),
		m:       m,
		middle:  middle,
		results: make([]float32, middle-m+1),
		replies: replies,
	}
	y.WindowedInput.Init(inp, nchans, windowSize, hopSize)
	y.WindowedInput.ProcessWindow = y.processWindow
	y.RealRunFn = y.realRun
	return y
}

func (y *Yin) Run(block int64) []Sample { return y.run(block, y.RealRunFn) }

func (y *Yin) releaseInputs() []Ugen { return []Ugen{y.WindowedInput.releaseInput()} }

// ReplInput replaces the analyzed source.
func (y *Yin) ReplInput(inp Ugen) { y.WindowedInput.ReplInput(inp) }

func (y *Yin) processWindow(channel int, window []float32) {
	const threshold = 0.1
	m, middle := y.m, y.middle

	var leftEnergy, rightEnergy float32
	for i := 0; i < m-1; i++ {
		left := window[middle-1-i]
		leftEnergy += left * left
		right := window[middle+i]
		rightEnergy += right * right
	}

	w64 := make([]float64, len(window))
	for k, v := range window {
		w64[k] = float64(v)
	}
	for i := m; i <= middle; i++ {
		left := window[middle-i]
		leftEnergy += left * left
		right := window[middle-1+i]
		rightEnergy += right * right
		autoCorr := floats.Dot(w64[middle-i:middle], w64[middle:middle+i])
		nonPeriodic := leftEnergy + rightEnergy - 2*float32(autoCorr)
		y.results[i-m] = nonPeriodic
	}

	cumSum := float32(0.000001)
	for i := m; i <= middle; i++ {
		cumSum += y.results[i-m]
		y.results[i-m] = y.results[i-m] / (cumSum / float32(i-m+1))
	}

	minI := m
	for i := m; i <= middle; i++ {
		if y.results[i-m] < threshold {
			minI = i
			// Continue past the threshold crossing to the actual
			// local minimum; the crossing alone underestimates period.
			for minI < middle && y.results[minI+1-m] < y.results[minI-m] {
				minI++
			}
			break
		}
		if y.results[i-m] < y.results[minI-m] {
			minI = i
		}
	}

	var period float32
	st := &y.states[channel]
	if minI > m && minI < middle {
		pos, min := parabolicInterp(
			float32(minI-1), float32(minI), float32(minI+1),
			y.results[minI-1-m], y.results[minI-m], y.results[minI+1-m])
		period = pos
		st.harmonicity = min
	} else {
		period = float32(minI)
		st.harmonicity = y.results[minI-m]
	}
	st.pitch = hzToStep(AR / period)
	st.rms = float32(math.Sqrt(float64(rightEnergy+leftEnergy) / float64(2*middle)))
	y.newEst = true
}

func (y *Yin) realRun() {
	y.WindowedInput.Advance(y.curBlock)
	if y.newEst && y.replies != nil {
		args := make([]any, 0, y.chans*3)
		for ch := 0; ch < y.chans; ch++ {
			st := &y.states[ch]
			args = append(args, st.pitch, st.harmonicity, st.rms)
		}
		y.replies.Post(Reply{Addr: ReplyPitch, ID: y.id, Args: args})
		y.newEst = false
	}
}

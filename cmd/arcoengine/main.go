// Command arcoengine demos the arco graph engine end to end: it wires a
// small ugen graph (a noise source shaped by an envelope, panned by a
// stereo distributor) into the device-I/O tier, drives it with a
// synthetic in-process source/sink pair (sound.Pipe), and exercises the
// control plane by sending one live control message while it runs.
// There is no real hardware audio backend here — device-I/O itself is
// out of this repository's scope per spec.md's non-goals; this is only
// a proof that the engine, the control plane, and the device-I/O
// bridge fit together.
package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"zikichombo.org/arco"
	"zikichombo.org/sound"
	"zikichombo.org/sound/freq"
)

// noiseGen is a minimal audio-rate white-noise source used only to give
// the demo graph something to shape; real oscillators/filters are
// external collaborators per spec.md's scope note and are not part of
// this engine.
type noiseGen struct {
	arco.Base
	rng *rand.Rand
}

func newNoiseGen(id arco.ID, chans int, seed int64) *noiseGen {
	n := &noiseGen{
		Base: arco.NewBase(id, "Noise", arco.RateAudio, chans),
		rng:  rand.New(rand.NewSource(seed)),
	}
	n.RealRunFn = n.realRun
	return n
}

func (n *noiseGen) realRun() {
	out := n.Out()
	for i := range out {
		out[i] = arco.Sample(n.rng.Float32()*2 - 1)
	}
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	const sampleRate = 44100 * freq.Hertz
	const blockLen = 64

	eng := arco.NewEngine(sampleRate, blockLen, 256, 256, log)

	noise := newNoiseGen(10, 1, 42)
	if err := eng.Reg.Install(noise); err != nil {
		log.Fatal().Err(err).Msg("install noise")
	}

	env := arco.NewPwl(11, eng.Replies)
	env.Env([]float32{samplesF(blockLen * 200), 0, samplesF(blockLen * 400), 1, samplesF(blockLen * 800), 0})
	env.Start()
	if err := eng.Reg.Install(env); err != nil {
		log.Fatal().Err(err).Msg("install env")
	}

	fader := arco.NewFader(noise, 1, 0, arco.FaderSmooth)
	fader.SetDur(0.5)
	fader.SetGoal(0, 1)

	dist := arco.NewStdistr(eng.Reg, 12, 2, 0.8)
	if err := dist.Ins(0, fader); err != nil {
		log.Fatal().Err(err).Msg("wire fader into distributor")
	}
	if err := eng.Reg.Install(dist); err != nil {
		log.Fatal().Err(err).Msg("install distributor")
	}
	eng.SetOutput(dist)

	// This engine is purely generative, so the device-I/O node's input
	// side carries zero channels; only its output side is wired, to an
	// in-process sink via sound.Pipe.
	inForm := sound.NewForm(sampleRate, 0)
	outForm := sound.NewForm(sampleRate, 2)
	var graph arco.DeviceGraph
	devIO := graph.New(inForm, outForm, eng.Processor())

	src, snk := sound.Pipe(outForm)
	if err := devIO.AddOutput(snk); err != nil {
		log.Fatal().Err(err).Msg("wire device output")
	}

	errc := graph.Run()
	done := make(chan error, 1)
	go func() {
		for err := range errc {
			done <- err
			return
		}
		done <- nil
	}()

	block := make([]float64, outForm.Channels()*blockLen)
	deadline := time.Now().Add(2 * time.Second)
	sentControl := false
	for time.Now().Before(deadline) {
		if _, err := src.Receive(block); err != nil {
			break
		}
		if !sentControl {
			eng.SendControl(arco.Msg{
				Addr: "/arco/stdistr/set_width",
				Args: []any{int32(dist.ID()), float32(0.2)},
			})
			sentControl = true
		}
	}
	src.Close()

	if err := <-done; err != nil {
		log.Error().Err(err).Msg("device run ended")
	}

	for _, r := range eng.Replies.Drain() {
		log.Info().Str("addr", string(r.Addr)).Interface("args", r.Args).Msg("reply")
	}
}

func samplesF(n int) float32 { return float32(n) }

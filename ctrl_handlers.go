package arco

import "fmt"

// lookupAs fetches id from reg and asserts it to type T, wrapping a
// failed assertion as ErrWrongKind rather than panicking — a control
// message can name any live id, including one of the wrong kind.
func lookupAs[T Ugen](reg *Registry, id ID) (T, error) {
	var zero T
	u, err := reg.Lookup(id)
	if err != nil {
		return zero, err
	}
	t, ok := u.(T)
	if !ok {
		return zero, fmt.Errorf("%w: id %d is %T", ErrWrongKind, id, u)
	}
	return t, nil
}

func i32(a any) int32   { return a.(int32) }
func f32(a any) float32 { return a.(float32) }
func str(a any) string  { return a.(string) }

// RegisterCoreHandlers installs control handlers for Sum, Sumb, Route,
// Stdistr, the Pwl/Pwlb/Pwe/Pweb envelopes, Fader, Dualslewb, Feedback,
// Trig, Yin and Chorddetect. Only Sum has a /new address, and Smooth,
// Smoothb, Upsample and Dnsampleb have no handlers here. Hosts may
// Register additional kind-specific addresses alongside these.
func RegisterCoreHandlers(d *Dispatcher, reg *Registry) {
	registerSumHandlers(d, reg)
	registerSumbHandlers(d, reg)
	registerRouteHandlers(d, reg)
	registerStdistrHandlers(d, reg)
	registerEnvelopeHandlers(d, reg)
	registerFaderHandlers(d, reg)
	registerDualslewbHandlers(d, reg)
	registerFeedbackHandlers(d, reg)
	registerAnalyzerHandlers(d, reg)
}

func registerSumHandlers(d *Dispatcher, reg *Registry) {
	d.Register("/arco/sum/new", "iii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		id, chans, wrap := ID(i32(args[0])), int(i32(args[1])), i32(args[2]) != 0
		return reg.Install(NewSum(reg, id, chans, wrap))
	})
	d.Register("/arco/sum/ins", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Sum](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		return s.Ins(input)
	})
	d.Register("/arco/sum/rem", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Sum](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		s.Rem(input)
		return nil
	})
	d.Register("/arco/sum/swap", "iii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Sum](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		oldIn, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		newIn, err := reg.Lookup(ID(i32(args[2])))
		if err != nil {
			return err
		}
		s.Swap(oldIn, newIn)
		return nil
	})
	d.Register("/arco/sum/set_gain", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Sum](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		s.Gain = f32(args[1])
		return nil
	})
}

func registerSumbHandlers(d *Dispatcher, reg *Registry) {
	d.Register("/arco/sumb/ins", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Sumb](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		return s.Ins(input)
	})
	d.Register("/arco/sumb/rem", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Sumb](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		s.Rem(input)
		return nil
	})
	d.Register("/arco/sumb/set_gain", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Sumb](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		s.Gain = f32(args[1])
		return nil
	})
}

func registerRouteHandlers(d *Dispatcher, reg *Registry) {
	d.Register("/arco/route/ins", "iii*", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		r, err := lookupAs[*Route](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		for i := 1; i+2 < len(args); i += 3 {
			input, err := reg.Lookup(ID(i32(args[i])))
			if err != nil {
				return err
			}
			if err := r.Ins(input, int(i32(args[i+1])), int(i32(args[i+2]))); err != nil {
				return err
			}
		}
		return nil
	})
	d.Register("/arco/route/rem", "iiii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		r, err := lookupAs[*Route](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		return r.Rem(input, int(i32(args[2])), int(i32(args[3])))
	})
}

func registerStdistrHandlers(d *Dispatcher, reg *Registry) {
	d.Register("/arco/stdistr/ins", "iii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Stdistr](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[2])))
		if err != nil {
			return err
		}
		return s.Ins(int(i32(args[1])), input)
	})
	d.Register("/arco/stdistr/rem", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Stdistr](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		s.Rem(int(i32(args[1])))
		return nil
	})
	d.Register("/arco/stdistr/set_gain", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Stdistr](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		s.SetGain(f32(args[1]))
		return nil
	})
	d.Register("/arco/stdistr/set_width", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Stdistr](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		s.SetWidth(f32(args[1]))
		return nil
	})
}

// registerEnvelopeHandlers covers Pwl/Pwlb/Pwe/Pweb's shared address
// shapes (env/start/decay/set/act), matching spec.md §6's "<env>" rows.
func registerEnvelopeHandlers(d *Dispatcher, reg *Registry) {
	type envelope interface {
		Ugen
		Env([]float32)
		Start()
		Decay(float32)
		Set(float32)
		SetActionID(int32)
	}
	lookupEnv := func(reg *Registry, id ID) (envelope, error) {
		u, err := reg.Lookup(id)
		if err != nil {
			return nil, err
		}
		e, ok := u.(envelope)
		if !ok {
			return nil, fmt.Errorf("%w: id %d is %T", ErrWrongKind, id, u)
		}
		return e, nil
	}
	d.Register("/arco/env/env", "if*", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		e, err := lookupEnv(reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		pts := make([]float32, 0, len(args)-1)
		for _, a := range args[1:] {
			pts = append(pts, f32(a))
		}
		e.Env(pts)
		return nil
	})
	d.Register("/arco/env/start", "i", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		e, err := lookupEnv(reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		e.Start()
		return nil
	})
	d.Register("/arco/env/decay", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		e, err := lookupEnv(reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		e.Decay(f32(args[1]))
		return nil
	})
	d.Register("/arco/env/set", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		e, err := lookupEnv(reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		e.Set(f32(args[1]))
		return nil
	})
	d.Register("/arco/env/act", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		e, err := lookupEnv(reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		e.SetActionID(i32(args[1]))
		return nil
	})
}

func registerFaderHandlers(d *Dispatcher, reg *Registry) {
	d.Register("/arco/fader/set_mode", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		f, err := lookupAs[*Fader](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		f.SetMode(FaderMode(i32(args[1])))
		return nil
	})
	d.Register("/arco/fader/set_dur", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		f, err := lookupAs[*Fader](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		f.SetDur(f32(args[1]))
		return nil
	})
	d.Register("/arco/fader/set_goal", "iif", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		f, err := lookupAs[*Fader](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		f.SetGoal(int(i32(args[1])), f32(args[2]))
		return nil
	})
	d.Register("/arco/fader/repl_input", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		f, err := lookupAs[*Fader](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		f.ReplInput(input)
		return nil
	})
}

func registerDualslewbHandlers(d *Dispatcher, reg *Registry) {
	d.Register("/arco/dualslewb/set_attack", "ifi", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Dualslewb](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		s.SetAttack(f32(args[1]), i32(args[2]) != 0)
		return nil
	})
	d.Register("/arco/dualslewb/set_release", "ifi", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Dualslewb](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		s.SetRelease(f32(args[1]), i32(args[2]) != 0)
		return nil
	})
	d.Register("/arco/dualslewb/set_current", "iif", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Dualslewb](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		s.SetCurrent(int(i32(args[1])), f32(args[2]))
		return nil
	})
	d.Register("/arco/dualslewb/repl_input", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		s, err := lookupAs[*Dualslewb](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		return s.ReplInput(input)
	})
}

func registerFeedbackHandlers(d *Dispatcher, reg *Registry) {
	d.Register("/arco/feedback/repl_input", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		fb, err := lookupAs[*Feedback](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		fb.ReplInput(input)
		return nil
	})
	d.Register("/arco/feedback/repl_from", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		fb, err := lookupAs[*Feedback](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		from, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		fb.ReplFrom(from)
		return nil
	})
	d.Register("/arco/feedback/repl_gain", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		fb, err := lookupAs[*Feedback](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		gain, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		fb.ReplGain(gain)
		return nil
	})
}

func registerAnalyzerHandlers(d *Dispatcher, reg *Registry) {
	d.Register("/arco/trig/onoff", "isff", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		t, err := lookupAs[*Trig](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		t.Onoff(str(args[1]), f32(args[2]), f32(args[3]))
		return nil
	})
	d.Register("/arco/trig/set_threshold", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		t, err := lookupAs[*Trig](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		t.SetThreshold(f32(args[1]))
		return nil
	})
	d.Register("/arco/trig/set_pause", "if", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		t, err := lookupAs[*Trig](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		t.SetPause(f32(args[1]))
		return nil
	})
	d.Register("/arco/yin/repl_input", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		y, err := lookupAs[*Yin](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		y.ReplInput(input)
		return nil
	})
	d.Register("/arco/chorddetect/repl_input", "ii", func(reg *Registry, replies *ReplyAdapter, args []any) error {
		c, err := lookupAs[*Chorddetect](reg, ID(i32(args[0])))
		if err != nil {
			return err
		}
		input, err := reg.Lookup(ID(i32(args[1])))
		if err != nil {
			return err
		}
		return c.ReplInput(input)
	})
}

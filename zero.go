package arco

// zero is the permanent all-zero ugen, reserved at ZeroID/ZerobID. It is
// installed once by NewRegistry and never freed: Registry.Unref is never
// called on it because nothing should ever drop the last reference to a
// reserved id (callers that wire a disconnected input point it at Zero
// without calling ref/unref bookkeeping beyond the normal input wiring,
// and Zero's own refcount simply accumulates).
type zero struct {
	Base
}

func newZero() *zero {
	z := &zero{Base: NewBase(ZeroID, "Zero", RateAudio, 1)}
	z.RealRunFn = func() {}
	return z
}

func (z *zero) Run(block int64) []Sample { return z.run(block, z.RealRunFn) }

type zerob struct {
	Base
}

func newZerob() *zerob {
	z := &zerob{Base: NewBase(ZerobID, "Zerob", RateBlock, 1)}
	z.RealRunFn = func() {}
	return z
}

func (z *zerob) Run(block int64) []Sample { return z.run(block, z.RealRunFn) }

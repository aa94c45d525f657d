package arco

import "errors"

// Error taxonomy for the control plane, matching spec.md §7's policy:
// message decode/id/rate errors are never fatal, are logged with
// context, and leave the engine running. Handlers wrap these sentinels
// with fmt.Errorf("%w: ...", ...) so callers can errors.Is against them.
var (
	// ErrUnknownID is returned by Registry.Lookup for an id with no live ugen.
	ErrUnknownID = errors.New("arco: unknown ugen id")

	// ErrIDInUse is returned when /arco/<kind>/new targets an id already live.
	ErrIDInUse = errors.New("arco: id already in use")

	// ErrWrongKind is returned when a lookup expected one concrete ugen
	// type but found another.
	ErrWrongKind = errors.New("arco: ugen is not the expected kind")

	// ErrRateMismatch is returned when wiring would require adaptation
	// policy (b) of spec.md §7: refused rather than silently corrected,
	// because the adaptation would be surprising (e.g. audio-rate input
	// to Dualslewb).
	ErrRateMismatch = errors.New("arco: rate mismatch refused")

	// ErrBadSignature is returned by the dispatcher when a message's
	// argument types don't match a handler's declared signature.
	ErrBadSignature = errors.New("arco: argument type mismatch")

	// ErrEnvelopeOverflow names an envelope point overflow. The envelope
	// ugens in this package grow their breakpoint storage as needed and
	// never return it.
	ErrEnvelopeOverflow = errors.New("arco: envelope point overflow")

	// ErrUnknownAddress is returned by the dispatcher for an address with
	// no registered handler.
	ErrUnknownAddress = errors.New("arco: unknown control address")

	// ErrQueueFull is returned by the SPSC queues when the producer would
	// overrun the consumer; the audio thread must never block, so a full
	// queue drops the newest message rather than waiting.
	ErrQueueFull = errors.New("arco: message queue full")
)

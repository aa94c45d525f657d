package arco

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Msg is one inbound control-plane message: a hierarchical address plus
// its positional arguments, typed exactly as spec.md §6's signature
// column describes (int32, float32, string). Grounded on spec.md §4.7.
type Msg struct {
	Addr string
	Args []any
}

// HandlerFunc performs one control-plane mutation against the registry
// (and, for ugens owning a reply address, the shared reply adapter).
type HandlerFunc func(reg *Registry, replies *ReplyAdapter, args []any) error

type handlerEntry struct {
	sig string
	fn  HandlerFunc
}

// Dispatcher is the address-indexed control-plane router of spec.md
// §4.7/component D. It decodes a Msg, validates its arguments against
// the handler's declared signature, and invokes the handler
// synchronously on the audio thread (per spec.md §5's engine-loop step
// 1 — this never happens concurrently with a block pull).
type Dispatcher struct {
	handlers map[string]handlerEntry
	log      zerolog.Logger
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{handlers: make(map[string]handlerEntry), log: log}
}

// Register installs fn as the handler for addr, with the given
// signature string. Each character is one of 'i' (int32), 'f'
// (float32), or 's' (string); a trailing '*' makes the preceding
// character repeat zero or more times, for variable-arity handlers
// (envelope uploads, batch route ins).
func (d *Dispatcher) Register(addr, sig string, fn HandlerFunc) {
	d.handlers[addr] = handlerEntry{sig: sig, fn: fn}
}

// Dispatch decodes m against its registered handler and invokes it.
// Errors are never fatal to the engine (spec.md §7): the caller is
// expected to log and continue draining the inbound queue.
func (d *Dispatcher) Dispatch(reg *Registry, replies *ReplyAdapter, m Msg) error {
	entry, ok := d.handlers[m.Addr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAddress, m.Addr)
	}
	if err := validateSignature(entry.sig, m.Args); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrBadSignature, m.Addr, err)
	}
	if err := entry.fn(reg, replies, m.Args); err != nil {
		d.log.Warn().Str("addr", m.Addr).Err(err).Msg("control handler failed")
		return err
	}
	return nil
}

func validateSignature(sig string, args []any) error {
	variadic := len(sig) > 0 && sig[len(sig)-1] == '*'
	fixed := sig
	var repeatTag byte
	if variadic {
		fixed = sig[:len(sig)-2]
		repeatTag = sig[len(sig)-2]
	}
	if !variadic && len(args) != len(fixed) {
		return fmt.Errorf("want %d args, got %d", len(fixed), len(args))
	}
	if variadic && len(args) < len(fixed) {
		return fmt.Errorf("want at least %d args, got %d", len(fixed), len(args))
	}
	for i := 0; i < len(fixed); i++ {
		if err := checkArg(fixed[i], args[i]); err != nil {
			return fmt.Errorf("arg %d: %w", i, err)
		}
	}
	if variadic {
		for i := len(fixed); i < len(args); i++ {
			if err := checkArg(repeatTag, args[i]); err != nil {
				return fmt.Errorf("arg %d: %w", i, err)
			}
		}
	}
	return nil
}

func checkArg(tag byte, arg any) error {
	switch tag {
	case 'i':
		if _, ok := arg.(int32); !ok {
			return fmt.Errorf("want int32, got %T", arg)
		}
	case 'f':
		if _, ok := arg.(float32); !ok {
			return fmt.Errorf("want float32, got %T", arg)
		}
	case 's':
		if _, ok := arg.(string); !ok {
			return fmt.Errorf("want string, got %T", arg)
		}
	default:
		return fmt.Errorf("unknown signature tag %q", tag)
	}
	return nil
}

package callback

import (
	"context"

	"go.uber.org/zap"

	ffibridge "github.com/wippyai/ffi-bridge"
	"github.com/wippyai/ffi-bridge/buffer"
	"github.com/wippyai/ffi-bridge/decoder"
	"github.com/wippyai/ffi-bridge/errors"
	"github.com/wippyai/ffi-bridge/hostthread"
	"github.com/wippyai/ffi-bridge/resource"
	"github.com/wippyai/ffi-bridge/value"
)

// Options configures an Invoker.
type Options struct {
	// Handles registers opaque pointers. Share one table across invokers
	// so handles stay valid between callbacks.
	Handles decoder.HostRuntime
	Buffers decoder.BufferPolicy
	Structs decoder.StructMaterializer
	// Owner is the host thread. Nil means every invocation is treated as
	// foreign and byte data is always copied.
	Owner *hostthread.Owner
	// Abort is called with every decode error. The default logs the error
	// at fatal level, which exits the process.
	Abort func(error)
}

// DefaultOptions returns default invoker configuration.
func DefaultOptions() Options {
	return Options{
		Handles: resource.NewTable(),
		Buffers: buffer.Default,
		Structs: decoder.NewLayoutMaterializer(),
	}
}

// Invoker decodes raw callback arguments and calls registered callbacks.
type Invoker struct {
	reg  *Registry
	opts Options
}

// NewInvoker creates an invoker for the callbacks in reg.
func NewInvoker(reg *Registry, opts Options) *Invoker {
	defaults := DefaultOptions()
	if opts.Handles == nil {
		opts.Handles = defaults.Handles
	}
	if opts.Buffers == nil {
		opts.Buffers = defaults.Buffers
	}
	if opts.Structs == nil {
		opts.Structs = defaults.Structs
	}
	if opts.Abort == nil {
		opts.Abort = func(err error) {
			Logger().Fatal("callback argument decode failed", zap.Error(err))
		}
	}
	return &Invoker{reg: reg, opts: opts}
}

// Handles returns the host runtime external arguments are registered with.
func (inv *Invoker) Handles() decoder.HostRuntime {
	return inv.opts.Handles
}

// Decode converts raws to values for the named callback without calling
// it. Decode errors are returned, not aborted on.
func (inv *Invoker) Decode(name string, mem ffibridge.Memory, raws []uint64) ([]value.Value, error) {
	cb, ok := inv.reg.Lookup(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseInvoke, "callback", name)
	}
	if len(raws) != len(cb.Params) {
		return nil, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
			Value(len(raws)).
			Detail("callback %q takes %d arguments, got %d", name, len(cb.Params), len(raws)).
			Build()
	}

	d := decoder.New(mem, decoder.Options{
		Structs: inv.opts.Structs,
		Handles: inv.opts.Handles,
		Buffers: inv.opts.Buffers,
	})
	threadSafe := inv.opts.Owner.NeedsCopy()

	args := make([]value.Value, len(raws))
	for i, p := range cb.Params {
		v, err := d.Decode(p.Shape, raws[i], threadSafe)
		if err != nil {
			return nil, decoder.WithPath(err, paramLabel(i, p.Name))
		}
		args[i] = v
	}
	return args, nil
}

// Invoke decodes raws against the parameters of the named callback and
// calls it. A decode error is passed to the abort function and then
// returned; with the default abort it does not return.
func (inv *Invoker) Invoke(ctx context.Context, name string, mem ffibridge.Memory, raws []uint64) error {
	cb, ok := inv.reg.Lookup(name)
	if !ok {
		return errors.NotFound(errors.PhaseInvoke, "callback", name)
	}

	args, err := inv.Decode(name, mem, raws)
	if err != nil {
		Logger().Error("callback argument decode failed",
			zap.String("callback", name),
			zap.Int("args", len(raws)),
			zap.Error(err))
		inv.opts.Abort(err)
		return err
	}

	Logger().Debug("invoking callback",
		zap.String("callback", name),
		zap.Int("args", len(args)))
	cb.Fn(ctx, args)
	return nil
}

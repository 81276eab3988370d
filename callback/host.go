package callback

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-bridge/errors"
	"github.com/wippyai/ffi-bridge/memory"
	"github.com/wippyai/ffi-bridge/shape"
)

// ValueTypes returns the wasm parameter types a guest uses to pass params:
// i64 for 64-bit integers, i32 for everything else including pointers.
func ValueTypes(params []shape.Shape) []api.ValueType {
	types := make([]api.ValueType, len(params))
	for i, p := range params {
		types[i] = api.ValueTypeI32
		if sc, ok := p.(shape.Scalar); ok && (sc.Tag == shape.TagI64 || sc.Tag == shape.TagU64) {
			types[i] = api.ValueTypeI64
		}
	}
	return types
}

// HostModule instantiates a host module named moduleName exporting every
// callback in reg. Guests import them by name; pointer arguments are offsets
// into the calling module's memory. A decode error traps the guest after
// the abort function returns.
func HostModule(ctx context.Context, rt wazero.Runtime, moduleName string, reg *Registry, opts Options) (api.Module, error) {
	inv := NewInvoker(reg, opts)
	builder := rt.NewHostModuleBuilder(moduleName)

	for _, name := range reg.Names() {
		cb, _ := reg.Lookup(name)
		params := ValueTypes(cb.Shapes())
		builder.NewFunctionBuilder().
			WithGoModuleFunction(hostHandler(inv, name, len(params)), params, nil).
			WithParameterNames(paramNames(cb)...).
			Export(name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Load("instantiate callback host module "+moduleName, err)
	}
	Logger().Debug("callback host module ready",
		zap.String("module", moduleName),
		zap.Strings("callbacks", reg.Names()))
	return mod, nil
}

func hostHandler(inv *Invoker, name string, n int) api.GoModuleFunc {
	return func(ctx context.Context, caller api.Module, stack []uint64) {
		mem := memory.WrapLinear(caller.Memory())
		if mem == nil {
			panic(errors.InvalidInput(errors.PhaseInvoke, "calling module exports no memory"))
		}
		raws := make([]uint64, n)
		copy(raws, stack[:n])
		if err := inv.Invoke(ctx, name, mem, raws); err != nil {
			panic(err)
		}
	}
}

func paramNames(cb *Callback) []string {
	names := make([]string, len(cb.Params))
	for i, p := range cb.Params {
		names[i] = p.Name
	}
	return names
}

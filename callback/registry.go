package callback

import (
	"context"
	"strconv"
	"sync"

	"github.com/wippyai/ffi-bridge/errors"
	"github.com/wippyai/ffi-bridge/shape"
	"github.com/wippyai/ffi-bridge/value"
)

// Func is the host side of a callback. args holds one decoded value per
// declared parameter, in order.
type Func func(ctx context.Context, args []value.Value)

// Callback is a registered callback.
type Callback struct {
	Fn     Func
	Name   string
	Params []shape.Param
}

// Shapes returns the parameter shapes in order.
func (c *Callback) Shapes() []shape.Shape {
	out := make([]shape.Shape, len(c.Params))
	for i, p := range c.Params {
		out[i] = p.Shape
	}
	return out
}

// Registry holds callbacks by name. Shapes are validated once at
// registration and never change afterwards. Thread-safe.
type Registry struct {
	callbacks map[string]*Callback
	order     []string
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[string]*Callback)}
}

// Register adds a callback whose parameters are declared by params.
// Parameters are named arg0, arg1, ...
func (r *Registry) Register(name string, params []shape.Shape, fn Func) error {
	named := make([]shape.Param, len(params))
	for i, s := range params {
		named[i] = shape.Param{Name: "arg" + strconv.Itoa(i), Shape: s}
	}
	return r.add(name, named, fn)
}

// RegisterSignature adds a callback declared by a parsed signature.
func (r *Registry) RegisterSignature(sig shape.Signature, fn Func) error {
	return r.add(sig.Name, append([]shape.Param(nil), sig.Params...), fn)
}

func (r *Registry) add(name string, params []shape.Param, fn Func) error {
	if name == "" {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRegister, "empty callback name"))
	}
	if fn == nil {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRegister, "nil callback function"))
	}
	for i, p := range params {
		if err := shape.ValidateParam(p.Shape); err != nil {
			if e, ok := err.(*errors.Error); ok {
				err = e.WithPath(paramLabel(i, p.Name))
			}
			return errors.Registration(name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[name]; exists {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRegister, "callback already registered"))
	}
	r.callbacks[name] = &Callback{Name: name, Params: params, Fn: fn}
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the callback registered under name.
func (r *Registry) Lookup(name string) (*Callback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.callbacks[name]
	return cb, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered callbacks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func paramLabel(i int, name string) string {
	label := "arg[" + strconv.Itoa(i) + "]"
	if name != "" && name != "arg"+strconv.Itoa(i) {
		label += "(" + name + ")"
	}
	return label
}

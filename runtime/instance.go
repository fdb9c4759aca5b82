package runtime

import (
	"context"
	"strconv"
	"sync"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-memory/engine"
	"github.com/wippyai/wasm-memory/errors"
)

type Instance struct {
	module         *Module
	wazeroInstance *engine.WazeroInstance
	memories       map[string]*Memory
	mu             sync.Mutex
}

// Call invokes an exported function. Arguments are converted using the WIT
// signature when the module was loaded with one, otherwise using the core
// parameter types. No results yields nil, one result yields the value, and
// several yield []any.
func (i *Instance) Call(ctx context.Context, name string, args ...any) (any, error) {
	if i.module == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "module")
	}

	fn := i.wazeroInstance.GetExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "function", name)
	}
	def := fn.Definition()
	paramTypes, resultTypes := def.ParamTypes(), def.ResultTypes()

	if len(args) != len(paramTypes) {
		return nil, errors.InvalidInput(errors.PhaseRuntime,
			name+": expected "+strconv.Itoa(len(paramTypes))+" arguments, got "+strconv.Itoa(len(args)))
	}

	witParams, witResults, err := i.module.GetFunctionTypes(name)
	if err != nil && errors.KindOf(err) != errors.KindNotFound {
		return nil, err
	}
	if witParams != nil && len(witParams) != len(paramTypes) {
		return nil, errors.InvalidInput(errors.PhaseRuntime, name+": WIT signature does not match the core function")
	}

	raw := make([]uint64, len(args))
	for idx, arg := range args {
		raw[idx], err = lowerValue(name+"."+strconv.Itoa(idx), paramTypes[idx], witAt(witParams, idx), arg)
		if err != nil {
			return nil, err
		}
	}

	results, err := i.wazeroInstance.Call(ctx, name, raw...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "call "+name)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return liftValue(resultTypes[0], witAt(witResults, 0), results[0]), nil
	}
	out := make([]any, len(results))
	for idx, r := range results {
		out[idx] = liftValue(resultTypes[idx], witAt(witResults, idx), r)
	}
	return out, nil
}

// CallRaw invokes an exported function with core values encoded as uint64.
func (i *Instance) CallRaw(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	if i.wazeroInstance.GetExportedFunction(name) == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "function", name)
	}
	results, err := i.wazeroInstance.Call(ctx, name, args...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "call "+name)
	}
	return results, nil
}

// Memory returns the exported memory called name. An empty name selects the
// instance's default memory. Repeated calls return the same *Memory.
func (i *Instance) Memory(name string) (*Memory, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if m, ok := i.memories[name]; ok {
		return m, nil
	}

	mem, err := i.wazeroInstance.Memory(name)
	if err != nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindNotFound).
			Path(name).
			Cause(err).
			Detail("memory export").
			Build()
	}

	m := NewMemory(mem)
	i.memories[name] = m
	return m, nil
}

func (i *Instance) Close(ctx context.Context) error {
	i.mu.Lock()
	i.memories = make(map[string]*Memory)
	i.mu.Unlock()
	return i.wazeroInstance.Close(ctx)
}

func witAt(types []wit.Type, idx int) wit.Type {
	if idx < len(types) {
		return types[idx]
	}
	return nil
}

package runtime

import (
	"context"
	"sync"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-memory/engine"
	"github.com/wippyai/wasm-memory/errors"
)

type Module struct {
	sigErr       error
	runtime      *Runtime
	wazeroModule *engine.WazeroModule
	sigs         map[string]signature
	witText      string
	sigOnce      sync.Once
}

// Instantiate creates an anonymous instance with its own memory.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	return m.InstantiateNamed(ctx, "")
}

// InstantiateNamed creates an instance registered under name, so other
// modules in the same runtime could import from it. Names must be unique
// within a runtime; "" means anonymous.
func (m *Module) InstantiateNamed(ctx context.Context, name string) (*Instance, error) {
	wi, err := m.wazeroModule.InstantiateWithConfig(ctx, &engine.InstanceConfig{Name: name})
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return &Instance{
		module:         m,
		wazeroInstance: wi,
		memories:       make(map[string]*Memory),
	}, nil
}

// Close releases the compiled module. Instances already created keep running.
func (m *Module) Close(ctx context.Context) error {
	return m.wazeroModule.Close(ctx)
}

type Export struct {
	Name string
}

// Exports returns the exported functions in name order.
func (m *Module) Exports() []Export {
	names := m.wazeroModule.ExportNames()
	if len(names) == 0 {
		return nil
	}
	exports := make([]Export, len(names))
	for i, name := range names {
		exports[i] = Export{Name: name}
	}
	return exports
}

// Memories returns the exported memories with their declared limits.
func (m *Module) Memories() []engine.MemoryExport {
	return m.wazeroModule.MemoryExports()
}

// GetFunctionTypes returns the WIT param and result types declared for name.
// The WIT text given to LoadWASM is parsed on first use; without one every
// name is NotFound.
func (m *Module) GetFunctionTypes(name string) ([]wit.Type, []wit.Type, error) {
	m.sigOnce.Do(func() {
		if m.witText != "" {
			m.sigs, m.sigErr = parseSignatures(m.witText)
		}
	})
	if m.sigErr != nil {
		return nil, nil, m.sigErr
	}

	sig, ok := m.sigs[name]
	if !ok {
		return nil, nil, errors.NotFound(errors.PhaseRuntime, "function", name)
	}
	return sig.params, sig.results, nil
}

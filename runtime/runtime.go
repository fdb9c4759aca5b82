package runtime

import (
	"context"

	"github.com/wippyai/wasm-memory/engine"
	"github.com/wippyai/wasm-memory/errors"
)

type Runtime struct {
	engine *engine.WazeroEngine
}

func New(ctx context.Context) (*Runtime, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a runtime whose instances are limited by cfg.
func NewWithConfig(ctx context.Context, cfg *engine.Config) (*Runtime, error) {
	eng, err := engine.NewWazeroEngineWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "create engine")
	}

	return &Runtime{engine: eng}, nil
}

// Close releases all runtime resources.
// All instances must be closed before calling this.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}

// Engine returns the underlying engine.
func (r *Runtime) Engine() *engine.WazeroEngine {
	return r.engine
}

// LoadWASM loads a core WebAssembly module.
// witText optionally provides function signatures so Call can range-check
// arguments and return precisely typed results; core modules carry only
// i32/i64/f32/f64 in their own type section.
func (r *Runtime) LoadWASM(ctx context.Context, wasm []byte, witText string) (*Module, error) {
	if len(wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "empty module binary")
	}

	wazeroModule, err := r.engine.LoadModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("load module", err)
	}

	return &Module{
		runtime:      r,
		wazeroModule: wazeroModule,
		witText:      witText,
	}, nil
}

package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmmemory "github.com/wippyai/wasm-memory"
	"github.com/wippyai/wasm-memory/memory"
)

// WazeroEngine compiles and instantiates core WASM modules on a shared
// wazero runtime.
type WazeroEngine struct {
	runtime wazero.Runtime
	cfg     Config
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages caps every instance memory in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32
}

// NewWazeroEngine creates a new wazero-based engine
func NewWazeroEngine(ctx context.Context) (*WazeroEngine, error) {
	return NewWazeroEngineWithConfig(ctx, nil)
}

// NewWazeroEngineWithConfig creates a new engine with custom configuration
func NewWazeroEngineWithConfig(ctx context.Context, cfg *Config) (*WazeroEngine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.MemoryLimitPages > wasmmemory.MaxPages {
		return nil, fmt.Errorf("memory limit %d exceeds %d pages", c.MemoryLimitPages, wasmmemory.MaxPages)
	}
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return &WazeroEngine{runtime: runtime, cfg: c}, nil
}

// Config returns the configuration the engine was created with.
func (e *WazeroEngine) Config() Config {
	return e.cfg
}

// InstanceConfig holds configuration for module instantiation
type InstanceConfig struct {
	Name string
}

// LoadModule compiles wasmBytes. The module is validated here, so a later
// Instantiate only fails on link or start errors.
func (e *WazeroEngine) LoadModule(ctx context.Context, wasmBytes []byte) (*WazeroModule, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}

	Logger().Debug("module compiled",
		zap.Int("size", len(wasmBytes)),
		zap.Int("functions", len(compiled.ExportedFunctions())),
		zap.Int("memories", len(compiled.ExportedMemories())))

	return &WazeroModule{
		engine:    e,
		runtime:   e.runtime,
		compiled:  compiled,
		hasMemory: len(compiled.ExportedMemories()) > 0 || len(compiled.ImportedMemories()) > 0,
	}, nil
}

func (e *WazeroEngine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// WazeroModule is a compiled WASM module
type WazeroModule struct {
	engine    *WazeroEngine
	runtime   wazero.Runtime
	compiled  wazero.CompiledModule
	hasMemory bool
}

// ExportNames returns the exported function names in sorted order.
func (m *WazeroModule) ExportNames() []string {
	fns := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MemoryExport describes an exported memory as declared by the module.
type MemoryExport struct {
	Name     string
	MinPages uint32
	MaxPages uint32
	HasMax   bool
}

// MemoryExports returns the exported memories in name order.
func (m *WazeroModule) MemoryExports() []MemoryExport {
	mems := m.compiled.ExportedMemories()
	out := make([]MemoryExport, 0, len(mems))
	for name, def := range mems {
		maxPages, hasMax := def.Max()
		out = append(out, MemoryExport{
			Name:     name,
			MinPages: def.Min(),
			MaxPages: maxPages,
			HasMax:   hasMax,
		})
	}
	slices.SortFunc(out, func(a, b MemoryExport) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out
}

func (m *WazeroModule) Instantiate(ctx context.Context) (*WazeroInstance, error) {
	return m.InstantiateWithConfig(ctx, nil)
}

// InstantiateWithConfig creates an instance with custom configuration
func (m *WazeroModule) InstantiateWithConfig(ctx context.Context, cfg *InstanceConfig) (*WazeroInstance, error) {
	modConfig := wazero.NewModuleConfig()
	if cfg != nil && cfg.Name != "" {
		modConfig = modConfig.WithName(cfg.Name)
	} else {
		modConfig = modConfig.WithName("") // anonymous for parallel instantiation
	}

	instance, err := m.runtime.InstantiateModule(ctx, m.compiled, modConfig)
	if err != nil {
		return nil, fmt.Errorf("instantiate failed: %w", err)
	}

	inst := &WazeroInstance{
		module:    m,
		instance:  instance,
		funcCache: make(map[string]api.Function),
		memCache:  make(map[string]wasmmemory.LinearMemory),
	}

	if mem := inst.defaultMemory(); mem != nil {
		Logger().Debug("module instantiated",
			zap.Uint32("memory_pages", memory.Wrap(mem).Pages()))
	}

	return inst, nil
}

// Close releases the compiled code. Live instances are not affected.
func (m *WazeroModule) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// WazeroInstance is an instantiated module. It is not safe for concurrent
// calls, matching the wazero module it wraps.
type WazeroInstance struct {
	instance  api.Module
	module    *WazeroModule
	funcCache map[string]api.Function
	memCache  map[string]wasmmemory.LinearMemory
	cacheMu   sync.RWMutex
}

// defaultMemory returns the instance's memory, or nil if the module neither
// exports nor imports one. For a memoryless module api.Module.Memory returns
// a non-nil interface holding a nil pointer, so its result is not nil-checked.
func (i *WazeroInstance) defaultMemory() api.Memory {
	if !i.module.hasMemory {
		return nil
	}
	return i.instance.Memory()
}

func (i *WazeroInstance) getExportedFunction(name string) api.Function {
	i.cacheMu.RLock()
	fn, ok := i.funcCache[name]
	i.cacheMu.RUnlock()
	if ok {
		return fn
	}

	fn = i.instance.ExportedFunction(name)
	if fn == nil {
		return nil
	}

	i.cacheMu.Lock()
	i.funcCache[name] = fn
	i.cacheMu.Unlock()
	return fn
}

// GetExportedFunction returns the raw wazero function, or nil if not found.
func (i *WazeroInstance) GetExportedFunction(name string) api.Function {
	if i.instance == nil {
		return nil
	}
	return i.getExportedFunction(name)
}

// Call invokes an exported function with core values encoded as uint64,
// as wazero does. i32 results are zero-extended.
func (i *WazeroInstance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	if i.instance == nil {
		return nil, fmt.Errorf("instance closed")
	}
	fn := i.getExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("function %q not found", name)
	}
	if want := len(fn.Definition().ParamTypes()); want != len(params) {
		return nil, fmt.Errorf("function %q expects %d params, got %d", name, want, len(params))
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		Logger().Debug("call failed", zap.String("function", name), zap.Error(err))
		return nil, fmt.Errorf("call %s: %w", name, err)
	}
	return results, nil
}

// Memory returns the exported memory called name as a LinearMemory. An empty
// name selects the instance's default memory. The returned value is cached,
// so repeated calls share one wrapper and views built on it stay coherent.
func (i *WazeroInstance) Memory(name string) (wasmmemory.LinearMemory, error) {
	if i.instance == nil {
		return nil, fmt.Errorf("instance closed")
	}

	i.cacheMu.RLock()
	mem, ok := i.memCache[name]
	i.cacheMu.RUnlock()
	if ok {
		return mem, nil
	}

	var raw api.Memory
	if name == "" {
		raw = i.defaultMemory()
	} else {
		raw = i.instance.ExportedMemory(name)
	}
	if raw == nil {
		if name == "" {
			return nil, fmt.Errorf("module has no memory")
		}
		return nil, fmt.Errorf("memory %q not found", name)
	}

	mem = memory.Wrap(raw)
	i.cacheMu.Lock()
	i.memCache[name] = mem
	i.cacheMu.Unlock()
	return mem, nil
}

// MemorySize returns the current default memory size in bytes, or 0 if the
// module has no memory.
func (i *WazeroInstance) MemorySize() uint64 {
	if i.instance == nil {
		return 0
	}
	mem := i.defaultMemory()
	if mem == nil {
		return 0
	}
	return memory.Wrap(mem).Size()
}

func (i *WazeroInstance) Close(ctx context.Context) error {
	var err error
	if i.instance != nil {
		err = i.instance.Close(ctx)
		i.instance = nil
	}
	i.funcCache = nil
	i.memCache = nil
	return err
}

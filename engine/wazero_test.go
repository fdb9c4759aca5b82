package engine

import (
	"context"
	"strings"
	"testing"

	wasmmemory "github.com/wippyai/wasm-memory"
	"github.com/wippyai/wasm-memory/errors"
	"github.com/wippyai/wasm-memory/internal/testmod"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	if cfg.MemoryLimitPages != 0 {
		t.Errorf("expected default MemoryLimitPages 0, got %d", cfg.MemoryLimitPages)
	}
}

func TestNewWazeroEngineWithConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		cfg  *Config
		name string
	}{
		{nil, "nil config"},
		{&Config{}, "default config"},
		{&Config{MemoryLimitPages: 256}, "16MB limit"},
		{&Config{MemoryLimitPages: 1024}, "64MB limit"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine, err := NewWazeroEngineWithConfig(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("NewWazeroEngineWithConfig failed: %v", err)
			}
			defer engine.Close(ctx)

			if engine.runtime == nil {
				t.Error("engine runtime should not be nil")
			}
		})
	}
}

func TestNewWazeroEngineWithConfig_LimitTooLarge(t *testing.T) {
	_, err := NewWazeroEngineWithConfig(context.Background(), &Config{MemoryLimitPages: wasmmemory.MaxPages + 1})
	if err == nil {
		t.Fatal("expected error for limit above the 32-bit address space")
	}
}

func newModule(t *testing.T, cfg *Config, wasm []byte) (*WazeroEngine, *WazeroModule) {
	t.Helper()
	ctx := context.Background()

	engine, err := NewWazeroEngineWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("NewWazeroEngineWithConfig failed: %v", err)
	}
	t.Cleanup(func() { engine.Close(ctx) })

	mod, err := engine.LoadModule(ctx, wasm)
	if err != nil {
		t.Fatalf("LoadModule failed: %v", err)
	}
	return engine, mod
}

func newInstance(t *testing.T, cfg *Config) *WazeroInstance {
	t.Helper()
	_, mod := newModule(t, cfg, testmod.Memory)

	inst, err := mod.Instantiate(context.Background())
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	t.Cleanup(func() { inst.Close(context.Background()) })
	return inst
}

func TestLoadModule_Invalid(t *testing.T) {
	ctx := context.Background()
	engine, err := NewWazeroEngine(ctx)
	if err != nil {
		t.Fatalf("NewWazeroEngine failed: %v", err)
	}
	defer engine.Close(ctx)

	_, err = engine.LoadModule(ctx, []byte("not wasm"))
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !strings.Contains(err.Error(), "compile failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWazeroModule_Exports(t *testing.T) {
	_, mod := newModule(t, nil, testmod.Memory)

	names := mod.ExportNames()
	want := []string{"add_one", "grow", "size", "store32"}
	if len(names) != len(want) {
		t.Fatalf("ExportNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ExportNames[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	mems := mod.MemoryExports()
	if len(mems) != 1 {
		t.Fatalf("expected 1 memory export, got %d", len(mems))
	}
	if mems[0].Name != "memory" || mems[0].MinPages != 1 || !mems[0].HasMax || mems[0].MaxPages != testmod.MemoryMaxPages {
		t.Errorf("unexpected memory export: %+v", mems[0])
	}
}

func TestWazeroInstance_Call(t *testing.T) {
	inst := newInstance(t, nil)
	ctx := context.Background()

	results, err := inst.Call(ctx, "add_one", 41)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if len(results) != 1 || results[0] != 42 {
		t.Errorf("add_one(41) = %v, want [42]", results)
	}

	if _, err := inst.Call(ctx, "missing"); err == nil {
		t.Error("expected error for missing function")
	}
	if _, err := inst.Call(ctx, "add_one"); err == nil {
		t.Error("expected error for wrong param count")
	}
}

func TestWazeroInstance_Memory(t *testing.T) {
	inst := newInstance(t, nil)

	mem, err := inst.Memory("memory")
	if err != nil {
		t.Fatalf("Memory failed: %v", err)
	}
	if mem.Pages() != 1 {
		t.Errorf("expected 1 page, got %d", mem.Pages())
	}
	if mem.Size() != wasmmemory.PageSize {
		t.Errorf("expected %d bytes, got %d", wasmmemory.PageSize, mem.Size())
	}
	if maxPages, ok := mem.MaxPages(); !ok || maxPages != testmod.MemoryMaxPages {
		t.Errorf("MaxPages = %d, %v", maxPages, ok)
	}

	again, err := inst.Memory("memory")
	if err != nil {
		t.Fatalf("Memory failed: %v", err)
	}
	if again != mem {
		t.Error("expected cached memory wrapper")
	}

	def, err := inst.Memory("")
	if err != nil {
		t.Fatalf("default Memory failed: %v", err)
	}
	if def.Size() != mem.Size() {
		t.Error("default memory differs from exported memory")
	}

	if _, err := inst.Memory("other"); err == nil {
		t.Error("expected error for unknown memory")
	}
}

func TestWazeroInstance_NoMemory(t *testing.T) {
	_, mod := newModule(t, nil, testmod.NoMemory)
	inst, err := mod.Instantiate(context.Background())
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	defer inst.Close(context.Background())

	results, err := inst.Call(context.Background(), "add_one", 41)
	if err != nil {
		t.Fatalf("add_one failed: %v", err)
	}
	if results[0] != 42 {
		t.Errorf("add_one(41) = %d, want 42", results[0])
	}

	_, err = inst.Memory("")
	if err == nil || !strings.Contains(err.Error(), "module has no memory") {
		t.Errorf("Memory(\"\") error = %v, want module has no memory", err)
	}
	if _, err := inst.Memory("memory"); err == nil {
		t.Error("expected error for missing named memory")
	}
	if inst.MemorySize() != 0 {
		t.Errorf("expected MemorySize 0, got %d", inst.MemorySize())
	}
}

func TestWazeroInstance_GuestGrowthVisible(t *testing.T) {
	inst := newInstance(t, nil)
	ctx := context.Background()

	mem, err := inst.Memory("memory")
	if err != nil {
		t.Fatalf("Memory failed: %v", err)
	}

	results, err := inst.Call(ctx, "grow", 2)
	if err != nil {
		t.Fatalf("grow failed: %v", err)
	}
	if results[0] != 1 {
		t.Errorf("guest grow returned %d, want 1", results[0])
	}
	if mem.Pages() != 3 {
		t.Errorf("host sees %d pages, want 3", mem.Pages())
	}

	// store at the start of the newly grown region
	addr := uint64(2 * wasmmemory.PageSize)
	if _, err := inst.Call(ctx, "store32", addr, 0xdeadbeef); err != nil {
		t.Fatalf("store32 failed: %v", err)
	}
	v, err := mem.ReadU32(uint32(addr))
	if err != nil {
		t.Fatalf("ReadU32 failed: %v", err)
	}
	if v != 0xdeadbeef {
		t.Errorf("ReadU32 = %#x, want 0xdeadbeef", v)
	}
}

func TestWazeroInstance_HostGrowthVisibleToGuest(t *testing.T) {
	inst := newInstance(t, nil)
	ctx := context.Background()

	mem, err := inst.Memory("memory")
	if err != nil {
		t.Fatalf("Memory failed: %v", err)
	}

	prev, err := mem.Grow(3)
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if prev != 1 {
		t.Errorf("Grow returned %d, want 1", prev)
	}

	results, err := inst.Call(ctx, "size")
	if err != nil {
		t.Fatalf("size failed: %v", err)
	}
	if results[0] != 4 {
		t.Errorf("guest sees %d pages, want 4", results[0])
	}

	_, err = mem.Grow(1)
	if !errors.Is(err, errors.ErrGrowFailed) {
		t.Errorf("expected grow failure past maximum, got %v", err)
	}

	results, err = inst.Call(ctx, "grow", 1)
	if err != nil {
		t.Fatalf("grow failed: %v", err)
	}
	if uint32(results[0]) != 0xffffffff {
		t.Errorf("guest grow past maximum returned %d, want -1", int32(results[0]))
	}
}

func TestWazeroEngine_MemoryLimit(t *testing.T) {
	_, mod := newModule(t, &Config{MemoryLimitPages: 2}, testmod.Unbounded)
	ctx := context.Background()

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	defer inst.Close(ctx)

	mem, err := inst.Memory("memory")
	if err != nil {
		t.Fatalf("Memory failed: %v", err)
	}
	if _, hasMax := mem.MaxPages(); hasMax {
		t.Error("memory without declared maximum reports one")
	}

	if _, err := mem.Grow(1); err != nil {
		t.Fatalf("Grow within limit failed: %v", err)
	}
	if _, err := mem.Grow(1); err == nil {
		t.Error("expected grow past engine limit to fail")
	}
	if mem.Pages() != 2 {
		t.Errorf("expected 2 pages after failed grow, got %d", mem.Pages())
	}
}

func TestWazeroEngine_DeclaredMaxOverLimit(t *testing.T) {
	ctx := context.Background()
	engine, err := NewWazeroEngineWithConfig(ctx, &Config{MemoryLimitPages: 2})
	if err != nil {
		t.Fatalf("NewWazeroEngineWithConfig failed: %v", err)
	}
	defer engine.Close(ctx)

	if _, err := engine.LoadModule(ctx, testmod.Memory); err == nil {
		t.Error("expected module declaring more pages than the limit to be rejected")
	}
}

func TestWazeroInstance_Close(t *testing.T) {
	_, mod := newModule(t, nil, testmod.Memory)
	ctx := context.Background()

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	if err := inst.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := inst.Call(ctx, "add_one", 1); err == nil {
		t.Error("expected error calling closed instance")
	}
	if _, err := inst.Memory("memory"); err == nil {
		t.Error("expected error reading memory of closed instance")
	}
	if err := inst.Close(ctx); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestWazeroModule_MultipleInstances(t *testing.T) {
	_, mod := newModule(t, nil, testmod.Memory)
	ctx := context.Background()

	a, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	defer a.Close(ctx)
	b, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	defer b.Close(ctx)

	if _, err := a.Call(ctx, "grow", 1); err != nil {
		t.Fatalf("grow failed: %v", err)
	}

	memA, _ := a.Memory("memory")
	memB, _ := b.Memory("memory")
	if memA.Pages() != 2 || memB.Pages() != 1 {
		t.Errorf("instances share memory: a=%d b=%d", memA.Pages(), memB.Pages())
	}
}

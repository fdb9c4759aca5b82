// Package wasmmemory exposes WebAssembly linear memory to Go hosts through
// typed, bounds-checked views that stay valid while the memory grows.
//
// # Architecture Overview
//
//	wasmmemory/          Root package with Memory and LinearMemory interfaces
//	├── memory/          Owned growable buffers, wazero adapters, snapshots
//	├── view/            Generic typed views and the view factory
//	├── engine/          Low-level wazero integration
//	├── runtime/         High-level API: load, instantiate, call, memory access
//	├── errors/          Structured error types
//	└── cmd/memview/     Command line inspector
//
// # Quick Start
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadWASM(ctx, wasmBytes, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	mem, err := inst.Memory("memory")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	words := mem.Uint32View(0)
//	_ = words.Set(0, 0x01020304)
//	b, _ := mem.Uint8View(0).Get(0) // 0x04
//
// # Memory Model
//
// WASM linear memory can only grow, never shrink. Views never cache the
// memory length: every access re-reads the current size, so growth by the
// guest or the host is visible to all existing views immediately.
//
// Views of different element widths may overlap the same bytes. This is
// intended; writes through one view are observed by every other view.
package wasmmemory

// Package runtime provides the high-level API for running core WebAssembly
// modules and reading their linear memory through typed views.
//
// # Quick Start
//
//	ctx := context.Background()
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
//	result, err := inst.Call(ctx, "add_one", 1)
//	fmt.Println(result) // int32(2)
//
// # Memory Views
//
//	mem, err := inst.Memory("memory")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	words := mem.Uint32View(0)
//	bytes := mem.Uint8View(0)
//	_ = words.Set(0, 0x01020304)
//	b, _ := bytes.Get(0) // 0x04, views alias the same bytes
//
//	// Growth, by the host or by the guest, is visible to existing views.
//	before := words.Len()
//	_, _ = mem.Grow(1)
//	fmt.Println(words.Len() > before) // true
//
// # Typed Calls
//
// Core modules only declare i32, i64, f32 and f64. Passing WIT text to
// LoadWASM refines argument range checks and result types:
//
//	mod, err := rt.LoadWASM(ctx, wasmBytes, "export peek: func(addr: u32) -> u8;")
//
// Without WIT, i32 results come back as int32 and i64 results as int64.
//
// # Errors
//
// All errors are *errors.Error values. Growth failures match
// errors.ErrGrowFailed, out-of-range indices match errors.ErrOutOfBounds.
package runtime

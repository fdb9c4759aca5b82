// Package engine runs core WebAssembly modules on wazero and exposes their
// linear memories through wasmmemory.LinearMemory.
//
// # Architecture
//
// The engine package provides three main types:
//
//	WazeroEngine   - Owns the wazero runtime and its memory limit
//	WazeroModule   - A compiled module, can create instances
//	WazeroInstance - A running instance with exports and memories
//
// # Instantiation Flow
//
//  1. WazeroEngine.LoadModule() compiles and validates the binary
//  2. WazeroModule.Instantiate() creates an anonymous WazeroInstance
//  3. WazeroInstance.Call() invokes exports with raw uint64 values
//  4. WazeroInstance.Memory() returns the exported memory for views
//
// # Memory Growth
//
// Memory returned by WazeroInstance.Memory is the engine-owned memory.
// Growth performed by the guest (memory.grow) and growth requested by the
// host through LinearMemory.Grow are both visible to every view built on
// it. Config.MemoryLimitPages caps growth for every instance of the engine.
//
// # Thread Safety
//
// A WazeroEngine may be shared. A WazeroInstance and its memory must be used
// by one goroutine at a time.
package engine

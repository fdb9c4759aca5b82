// Package memory provides growable WebAssembly linear memories.
//
// Two implementations of wasmmemory.LinearMemory are provided:
//
//	Linear   - an owned, zero-filled Go buffer with page accounting
//	Wrapper  - an adapter over a wazero api.Memory owned by an instance
//
// # Owned Memory
//
//	mem, err := memory.New(1, memory.WithMaxPages(4))
//	prev, err := mem.Grow(1) // prev == 1, mem.Pages() == 2
//
// Growth either succeeds completely or leaves the memory untouched. A failed
// Grow returns an error of kind errors.KindGrowFailed and never panics.
//
// # Instance Memory
//
//	mem := memory.Wrap(mod.ExportedMemory("memory"))
//
// Guest memory.grow instructions and host Grow calls both land in the same
// wazero memory, so every view over the wrapper observes both.
//
// # Snapshots
//
// TakeSnapshot captures pages, limits and contents; the snapshot encodes to
// CBOR and Restore rebuilds an owned Linear from it.
//
// # Thread Safety
//
// Linear guards its buffer with a RWMutex, so growth never races with an
// access. Wrapper inherits wazero's model and must be used by one goroutine.
package memory

package runtime

import (
	wasmmemory "github.com/wippyai/wasm-memory"
	"github.com/wippyai/wasm-memory/errors"
	"github.com/wippyai/wasm-memory/memory"
	"github.com/wippyai/wasm-memory/view"
)

// Memory is the host-facing handle to a linear memory. It hands out views
// and grows the memory; every view it creates observes growth immediately.
type Memory struct {
	mem wasmmemory.LinearMemory
}

// NewMemory wraps any LinearMemory, including a host-owned memory.Linear.
func NewMemory(mem wasmmemory.LinearMemory) *Memory {
	return &Memory{mem: mem}
}

// Linear returns the underlying memory.
func (m *Memory) Linear() wasmmemory.LinearMemory {
	return m.mem
}

func (m *Memory) Uint8View(byteOffset uint32) *view.View[uint8] {
	return view.Uint8View(m.mem, byteOffset)
}

func (m *Memory) Int8View(byteOffset uint32) *view.View[int8] {
	return view.Int8View(m.mem, byteOffset)
}

func (m *Memory) Uint16View(byteOffset uint32) *view.View[uint16] {
	return view.Uint16View(m.mem, byteOffset)
}

func (m *Memory) Int16View(byteOffset uint32) *view.View[int16] {
	return view.Int16View(m.mem, byteOffset)
}

func (m *Memory) Uint32View(byteOffset uint32) *view.View[uint32] {
	return view.Uint32View(m.mem, byteOffset)
}

func (m *Memory) Int32View(byteOffset uint32) *view.View[int32] {
	return view.Int32View(m.mem, byteOffset)
}

// View creates a view from a runtime width and signedness.
func (m *Memory) View(width int, signed bool, byteOffset uint32) (view.Accessor, error) {
	return view.Create(m.mem, width, signed, byteOffset)
}

// ViewOf creates a view of the given kind.
func (m *Memory) ViewOf(kind view.Kind, byteOffset uint32) (view.Accessor, error) {
	if !kind.Valid() {
		return nil, errors.InvalidInput(errors.PhaseView, "invalid view kind "+kind.String())
	}
	return view.Of(m.mem, kind, byteOffset), nil
}

// Grow adds pages and returns the previous page count. On failure the
// memory is unchanged and the error matches errors.ErrGrowFailed.
func (m *Memory) Grow(pages uint32) (uint32, error) {
	prev, err := m.mem.Grow(pages)
	if err != nil {
		return 0, errors.New(errors.PhaseGrow, errors.KindGrowFailed).
			Value(pages).
			Cause(err).
			Detail("failed to grow the memory").
			Build()
	}
	return prev, nil
}

// Size returns the current size in bytes.
func (m *Memory) Size() uint64 {
	return m.mem.Size()
}

// Pages returns the current size in pages.
func (m *Memory) Pages() uint32 {
	return m.mem.Pages()
}

// MaxPages returns the declared maximum, if any.
func (m *Memory) MaxPages() (uint32, bool) {
	return m.mem.MaxPages()
}

// Snapshot copies the current contents.
func (m *Memory) Snapshot() (*memory.Snapshot, error) {
	return memory.TakeSnapshot(m.mem)
}

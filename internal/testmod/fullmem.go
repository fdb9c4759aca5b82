package testmod

import (
	"github.com/tetratelabs/wazero/api"

	wasmmemory "github.com/wippyai/wasm-memory"
)

// FullMemory is an api.Memory that claims Pages pages without allocating
// them, so the 4 GiB boundary can be tested. Size wraps to 0 at MaxPages
// exactly like wazero's. Only byte reads and writes are backed; every byte
// holds the last value written. Methods not overridden panic.
type FullMemory struct {
	api.Memory
	Pages uint32
	Last  byte
}

func (m *FullMemory) Definition() api.MemoryDefinition {
	return fullDefinition{}
}

func (m *FullMemory) Size() uint32 {
	return m.Pages * wasmmemory.PageSize
}

func (m *FullMemory) Grow(delta uint32) (uint32, bool) {
	prev := m.Pages
	if uint64(prev)+uint64(delta) > wasmmemory.MaxPages {
		return 0, false
	}
	m.Pages += delta
	return prev, true
}

func (m *FullMemory) inBounds(offset uint32) bool {
	return uint64(offset) < wasmmemory.PagesToBytes(m.Pages)
}

func (m *FullMemory) ReadByte(offset uint32) (byte, bool) {
	if !m.inBounds(offset) {
		return 0, false
	}
	return m.Last, true
}

func (m *FullMemory) WriteByte(offset uint32, v byte) bool {
	if !m.inBounds(offset) {
		return false
	}
	m.Last = v
	return true
}

type fullDefinition struct {
	api.MemoryDefinition
}

func (fullDefinition) Max() (uint32, bool) {
	return wasmmemory.MaxPages, true
}

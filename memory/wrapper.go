package memory

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmmemory "github.com/wippyai/wasm-memory"
	"github.com/wippyai/wasm-memory/errors"
)

// Wrap adapts a wazero api.Memory to wasmmemory.LinearMemory.
func Wrap(mem api.Memory) wasmmemory.LinearMemory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to the LinearMemory interface.
// The memory stays owned by its module instance; byte accessors report
// out-of-range offsets as errors.KindOutOfBounds.
type Wrapper struct {
	Mem api.Memory
}

// Size returns the current length in bytes. It is derived from Pages because
// api.Memory.Size is a uint32 and reads 0 at the full 4 GiB.
func (m *Wrapper) Size() uint64 {
	return wasmmemory.PagesToBytes(m.Pages())
}

// Pages returns the current length in pages. Growing by zero pages is a
// read-only query in wazero.
func (m *Wrapper) Pages() uint32 {
	pages, _ := m.Mem.Grow(0)
	return pages
}

// MaxPages returns the maximum declared by the module, if any.
func (m *Wrapper) MaxPages() (uint32, bool) {
	return m.Mem.Definition().Max()
}

// Grow grows the instance memory the same way a guest memory.grow would.
func (m *Wrapper) Grow(deltaPages uint32) (uint32, error) {
	pages := m.Pages()
	prev, ok := m.Mem.Grow(deltaPages)
	if !ok {
		reason := "rejected by engine"
		if limit, hasMax := m.MaxPages(); hasMax && uint64(pages)+uint64(deltaPages) > uint64(limit) {
			reason = fmt.Sprintf("exceeds maximum of %d pages", limit)
		}
		Logger().Debug("instance memory grow rejected",
			zap.Uint32("previous_pages", pages),
			zap.Uint32("delta", deltaPages),
			zap.String("reason", reason))
		return 0, errors.GrowFailed(pages, deltaPages, reason)
	}
	return prev, nil
}

func (m *Wrapper) outOfBounds(offset uint32, n uint64) error {
	return errors.MemoryOutOfBounds(offset, n, m.Size())
}

// Read returns a view of length bytes at offset, aliasing the instance memory.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	if data, ok := m.Mem.Read(offset, length); ok {
		return data, nil
	}
	return nil, m.outOfBounds(offset, uint64(length))
}

// Write copies data into memory at offset.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if m.Mem.Write(offset, data) {
		return nil
	}
	return m.outOfBounds(offset, uint64(len(data)))
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Wrapper) ReadU8(offset uint32) (uint8, error) {
	if v, ok := m.Mem.ReadByte(offset); ok {
		return v, nil
	}
	return 0, m.outOfBounds(offset, 1)
}

// ReadU16 reads an unsigned 16-bit little-endian value.
func (m *Wrapper) ReadU16(offset uint32) (uint16, error) {
	if v, ok := m.Mem.ReadUint16Le(offset); ok {
		return v, nil
	}
	return 0, m.outOfBounds(offset, 2)
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	if v, ok := m.Mem.ReadUint32Le(offset); ok {
		return v, nil
	}
	return 0, m.outOfBounds(offset, 4)
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Wrapper) ReadU64(offset uint32) (uint64, error) {
	if v, ok := m.Mem.ReadUint64Le(offset); ok {
		return v, nil
	}
	return 0, m.outOfBounds(offset, 8)
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Wrapper) WriteU8(offset uint32, value uint8) error {
	if m.Mem.WriteByte(offset, value) {
		return nil
	}
	return m.outOfBounds(offset, 1)
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *Wrapper) WriteU16(offset uint32, value uint16) error {
	if m.Mem.WriteUint16Le(offset, value) {
		return nil
	}
	return m.outOfBounds(offset, 2)
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	if m.Mem.WriteUint32Le(offset, value) {
		return nil
	}
	return m.outOfBounds(offset, 4)
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Wrapper) WriteU64(offset uint32, value uint64) error {
	if m.Mem.WriteUint64Le(offset, value) {
		return nil
	}
	return m.outOfBounds(offset, 8)
}

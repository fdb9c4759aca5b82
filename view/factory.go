package view

import (
	"fmt"

	wasmmemory "github.com/wippyai/wasm-memory"
)

// Create builds a view from a runtime width (1, 2 or 4 bytes) and
// signedness. It does not touch memory and does not compare byteOffset with
// the memory size. The only error is an unsupported width.
func Create(mem wasmmemory.LinearMemory, width int, signed bool, byteOffset uint32) (Accessor, error) {
	kind, err := KindFor(width, signed)
	if err != nil {
		return nil, err
	}
	return Of(mem, kind, byteOffset), nil
}

// Of builds the view matching kind. It panics if kind is not one of the
// declared kinds.
func Of(mem wasmmemory.LinearMemory, kind Kind, byteOffset uint32) Accessor {
	switch kind {
	case Uint8:
		return New[uint8](mem, byteOffset)
	case Int8:
		return New[int8](mem, byteOffset)
	case Uint16:
		return New[uint16](mem, byteOffset)
	case Int16:
		return New[int16](mem, byteOffset)
	case Uint32:
		return New[uint32](mem, byteOffset)
	case Int32:
		return New[int32](mem, byteOffset)
	}
	panic(fmt.Sprintf("view: invalid kind %v", kind))
}

// Uint8View returns a view of unsigned 8-bit elements starting at byteOffset.
func Uint8View(mem wasmmemory.LinearMemory, byteOffset uint32) *View[uint8] {
	return New[uint8](mem, byteOffset)
}

// Int8View returns a view of signed 8-bit elements starting at byteOffset.
func Int8View(mem wasmmemory.LinearMemory, byteOffset uint32) *View[int8] {
	return New[int8](mem, byteOffset)
}

// Uint16View returns a view of unsigned 16-bit elements starting at byteOffset.
func Uint16View(mem wasmmemory.LinearMemory, byteOffset uint32) *View[uint16] {
	return New[uint16](mem, byteOffset)
}

// Int16View returns a view of signed 16-bit elements starting at byteOffset.
func Int16View(mem wasmmemory.LinearMemory, byteOffset uint32) *View[int16] {
	return New[int16](mem, byteOffset)
}

// Uint32View returns a view of unsigned 32-bit elements starting at byteOffset.
func Uint32View(mem wasmmemory.LinearMemory, byteOffset uint32) *View[uint32] {
	return New[uint32](mem, byteOffset)
}

// Int32View returns a view of signed 32-bit elements starting at byteOffset.
func Int32View(mem wasmmemory.LinearMemory, byteOffset uint32) *View[int32] {
	return New[int32](mem, byteOffset)
}

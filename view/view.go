package view

import (
	"fmt"
	"iter"
	"strconv"

	wasmmemory "github.com/wippyai/wasm-memory"
	"github.com/wippyai/wasm-memory/errors"
)

// Accessor is the width-agnostic surface of a view, used by host bindings
// that pick the element kind at runtime.
type Accessor interface {
	Kind() Kind
	ByteOffset() uint32
	Memory() wasmmemory.LinearMemory
	Len() int
	GetInt(index int) (int64, error)
	SetInt(index int, value int64) error
	SetValue(index int, value any) error
}

// View is a typed window over linear memory starting at a byte offset.
//
// A View stores no memory contents and no length. Every call re-reads the
// memory size, so growth is visible immediately and an index that was out of
// range may become valid later. Element i lives at ByteOffset()+i*width and
// is encoded little-endian.
type View[T Element] struct {
	mem        wasmmemory.LinearMemory
	byteOffset uint32
	kind       Kind
}

var (
	_ Accessor = (*View[uint8])(nil)
	_ Accessor = (*View[int8])(nil)
	_ Accessor = (*View[uint16])(nil)
	_ Accessor = (*View[int16])(nil)
	_ Accessor = (*View[uint32])(nil)
	_ Accessor = (*View[int32])(nil)
)

// New creates a view of T elements over mem starting at byteOffset.
// It never fails and never touches memory; the offset may lie beyond the
// current end of memory.
func New[T Element](mem wasmmemory.LinearMemory, byteOffset uint32) *View[T] {
	return &View[T]{
		mem:        mem,
		byteOffset: byteOffset,
		kind:       kindOf[T](),
	}
}

// Kind returns the element encoding of the view.
func (v *View[T]) Kind() Kind {
	return v.kind
}

// ByteOffset returns the first byte the view covers.
func (v *View[T]) ByteOffset() uint32 {
	return v.byteOffset
}

// Memory returns the shared memory the view reads through.
func (v *View[T]) Memory() wasmmemory.LinearMemory {
	return v.mem
}

// Len returns the number of whole elements between the offset and the
// current end of memory. Trailing bytes that do not fill an element are not
// addressable.
func (v *View[T]) Len() int {
	size := v.mem.Size()
	off := uint64(v.byteOffset)
	if off >= size {
		return 0
	}
	return int((size - off) / uint64(v.kind.Width()))
}

// Get reads element index.
func (v *View[T]) Get(index int) (T, error) {
	addr, err := v.addr(index)
	if err != nil {
		return 0, err
	}
	return v.load(addr)
}

// Set writes element index. The write is visible through every view that
// overlaps the same bytes.
func (v *View[T]) Set(index int, value T) error {
	addr, err := v.addr(index)
	if err != nil {
		return err
	}
	return v.store(addr, value)
}

// GetInt reads element index widened to int64.
func (v *View[T]) GetInt(index int) (int64, error) {
	x, err := v.Get(index)
	if err != nil {
		return 0, err
	}
	return int64(x), nil
}

// SetInt writes value at index. Values outside the kind's range are rejected
// with errors.KindValueOutOfRange; nothing is truncated.
func (v *View[T]) SetInt(index int, value int64) error {
	addr, err := v.addr(index)
	if err != nil {
		return err
	}
	if !v.kind.Fits(value) {
		return errors.ValueOutOfRange(errors.PhaseView, v.path(index), value, v.kind.String())
	}
	return v.store(addr, T(value))
}

// SetValue writes an arbitrary Go number at index. Integers of any width and
// integral floats are accepted; anything else is a type mismatch.
func (v *View[T]) SetValue(index int, value any) error {
	addr, err := v.addr(index)
	if err != nil {
		return err
	}
	n, res := coerceInt64(value)
	switch res {
	case notInteger:
		return errors.New(errors.PhaseView, errors.KindTypeMismatch).
			Path(v.path(index)...).
			GoType(fmt.Sprintf("%T", value)).
			WitType(v.kind.String()).
			Value(value).
			Detail("expected an integer").
			Build()
	case overflowed:
		return errors.ValueOutOfRange(errors.PhaseView, v.path(index), value, v.kind.String())
	}
	if !v.kind.Fits(n) {
		return errors.ValueOutOfRange(errors.PhaseView, v.path(index), value, v.kind.String())
	}
	return v.store(addr, T(n))
}

// All iterates over the elements. The length is re-evaluated on every step,
// so memory grown during iteration is included.
func (v *View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.Len(); i++ {
			x, err := v.Get(i)
			if err != nil {
				return
			}
			if !yield(i, x) {
				return
			}
		}
	}
}

// CopyTo copies elements starting at start into dst and returns how many
// were copied, like the builtin copy. start may equal Len().
func (v *View[T]) CopyTo(dst []T, start int) (int, error) {
	n := v.Len()
	if start < 0 || start > n {
		return 0, errors.OutOfBounds(errors.PhaseView, v.path(start), start, n)
	}
	count := min(len(dst), n-start)
	for i := 0; i < count; i++ {
		x, err := v.Get(start + i)
		if err != nil {
			return i, err
		}
		dst[i] = x
	}
	return count, nil
}

// CopyFrom writes all of src starting at start. Either every element fits
// and is written, or nothing is written.
func (v *View[T]) CopyFrom(src []T, start int) error {
	n := v.Len()
	if start < 0 || start > n || len(src) > n-start {
		return errors.OutOfBounds(errors.PhaseView, v.path(start), start+len(src)-1, n)
	}
	for i, x := range src {
		if err := v.Set(start+i, x); err != nil {
			return err
		}
	}
	return nil
}

// String describes the view, e.g. "u16[offset=8 len=32764]".
func (v *View[T]) String() string {
	return fmt.Sprintf("%s[offset=%d len=%d]", v.kind, v.byteOffset, v.Len())
}

func (v *View[T]) path(index int) []string {
	return []string{v.kind.String(), strconv.Itoa(index)}
}

// addr validates index against the live length and returns its byte address.
// Memory never shrinks, so an address validated here stays valid.
func (v *View[T]) addr(index int) (uint32, error) {
	n := v.Len()
	if index < 0 || index >= n {
		return 0, errors.OutOfBounds(errors.PhaseView, v.path(index), index, n)
	}
	return v.byteOffset + uint32(index)*uint32(v.kind.Width()), nil
}

func (v *View[T]) load(addr uint32) (T, error) {
	switch v.kind.Width() {
	case 1:
		b, err := v.mem.ReadU8(addr)
		return T(b), err
	case 2:
		h, err := v.mem.ReadU16(addr)
		return T(h), err
	default:
		w, err := v.mem.ReadU32(addr)
		return T(w), err
	}
}

func (v *View[T]) store(addr uint32, value T) error {
	switch v.kind.Width() {
	case 1:
		return v.mem.WriteU8(addr, uint8(value))
	case 2:
		return v.mem.WriteU16(addr, uint16(value))
	default:
		return v.mem.WriteU32(addr, uint32(value))
	}
}

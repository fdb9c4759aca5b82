// Package view provides typed, bounds-checked windows over linear memory.
//
// A single generic type, View[T], covers all six element encodings:
//
//	Kind     Go type   Width   Signed
//	──────────────────────────────────
//	u8       uint8     1       no
//	s8       int8      1       yes
//	u16      uint16    2       no
//	s16      int16     2       yes
//	u32      uint32    4       no
//	s32      int32     4       yes
//
// Views hold the shared memory and a byte offset, nothing else. Length is
// derived on every call from the current memory size:
//
//	len = max(0, size - offset) / width
//
// so a view created before the memory grows sees the new pages without being
// recreated.
//
// # Creating Views
//
//	words := view.New[uint32](mem, 0)
//	bytes := view.Uint8View(mem, 0)
//	acc, err := view.Create(mem, 2, true, 64) // s16 view at byte 64
//
// # Aliasing
//
// Views of different kinds may overlap. Writing 0x01020304 through a u32 view
// at offset 0 reads back as 04 03 02 01 through a u8 view at offset 0.
//
// # Out-of-range Values
//
// Typed Set takes a T and cannot overflow. The dynamic SetInt and SetValue
// reject values the kind cannot represent with errors.KindValueOutOfRange
// instead of truncating them.
package view

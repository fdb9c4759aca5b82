package view

import (
	"fmt"
	"math"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-memory/errors"
)

// Element is the set of Go types a View can expose.
type Element interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32
}

// Kind identifies an element encoding: width in bytes plus signedness.
type Kind uint8

const (
	KindInvalid Kind = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	Uint8:       "u8",
	Int8:        "s8",
	Uint16:      "u16",
	Int16:       "s16",
	Uint32:      "u32",
	Int32:       "s32",
}

// Kinds lists every valid Kind in width order.
var Kinds = []Kind{Uint8, Int8, Uint16, Int16, Uint32, Int32}

// KindFor returns the Kind for an element width (1, 2 or 4) and signedness.
func KindFor(width int, signed bool) (Kind, error) {
	var k Kind
	switch width {
	case 1:
		k = Uint8
	case 2:
		k = Uint16
	case 4:
		k = Uint32
	default:
		return KindInvalid, errors.InvalidInput(errors.PhaseView,
			fmt.Sprintf("element width %d not supported (want 1, 2 or 4)", width))
	}
	if signed {
		k++
	}
	return k, nil
}

// ParseKind accepts WIT names (u8, s16), Go names (uint8, int16) and
// typed-array names (Uint8Array, Int16Array), case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "array")
	switch name {
	case "u8", "uint8":
		return Uint8, nil
	case "s8", "i8", "int8":
		return Int8, nil
	case "u16", "uint16":
		return Uint16, nil
	case "s16", "i16", "int16":
		return Int16, nil
	case "u32", "uint32":
		return Uint32, nil
	case "s32", "i32", "int32":
		return Int32, nil
	}
	return KindInvalid, errors.InvalidInput(errors.PhaseView, fmt.Sprintf("unknown element kind %q", s))
}

func kindOf[T Element]() Kind {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Uint8
	case int8:
		return Int8
	case uint16:
		return Uint16
	case int16:
		return Int16
	case uint32:
		return Uint32
	case int32:
		return Int32
	}
	return KindInvalid
}

// Valid reports whether k names a real element kind.
func (k Kind) Valid() bool {
	return k >= Uint8 && k <= Int32
}

// Width returns the element size in bytes.
func (k Kind) Width() int {
	switch k {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32:
		return 4
	}
	return 0
}

// Signed reports whether elements decode as two's-complement.
func (k Kind) Signed() bool {
	return k == Int8 || k == Int16 || k == Int32
}

// Min returns the smallest representable value.
func (k Kind) Min() int64 {
	switch k {
	case Int8:
		return math.MinInt8
	case Int16:
		return math.MinInt16
	case Int32:
		return math.MinInt32
	}
	return 0
}

// Max returns the largest representable value.
func (k Kind) Max() int64 {
	switch k {
	case Uint8:
		return math.MaxUint8
	case Int8:
		return math.MaxInt8
	case Uint16:
		return math.MaxUint16
	case Int16:
		return math.MaxInt16
	case Uint32:
		return math.MaxUint32
	case Int32:
		return math.MaxInt32
	}
	return 0
}

// Fits reports whether v is representable without truncation.
func (k Kind) Fits(v int64) bool {
	return k.Valid() && v >= k.Min() && v <= k.Max()
}

// String returns the WIT name of the kind (u8, s16, ...).
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// WitType returns the WIT primitive type matching the kind.
func (k Kind) WitType() wit.Type {
	switch k {
	case Uint8:
		return wit.U8{}
	case Int8:
		return wit.S8{}
	case Uint16:
		return wit.U16{}
	case Int16:
		return wit.S16{}
	case Uint32:
		return wit.U32{}
	case Int32:
		return wit.S32{}
	}
	return nil
}

// KindOfWit maps a WIT primitive to its kind. Types wider than 32 bits and
// non-integer types report false.
func KindOfWit(t wit.Type) (Kind, bool) {
	switch t.(type) {
	case wit.U8, *wit.U8:
		return Uint8, true
	case wit.S8, *wit.S8:
		return Int8, true
	case wit.U16, *wit.U16:
		return Uint16, true
	case wit.S16, *wit.S16:
		return Int16, true
	case wit.U32, *wit.U32:
		return Uint32, true
	case wit.S32, *wit.S32:
		return Int32, true
	}
	return KindInvalid, false
}

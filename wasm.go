package wasmmemory

const (
	// PageSize is the unit of linear memory growth (64 KiB).
	PageSize = 65536

	// MaxPages is the largest page count addressable by a 32-bit memory.
	MaxPages = 65536
)

// Memory represents WASM linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU16(offset uint32) (uint16, error)
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU8(offset uint32, value uint8) error
	WriteU16(offset uint32, value uint16) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// LinearMemory is a growable Memory measured in pages.
//
// Size is reported in bytes and is always Pages()*PageSize. Grow extends the
// memory by deltaPages zero-filled pages and returns the page count before
// growth; on failure the memory is left unchanged.
type LinearMemory interface {
	Memory
	Size() uint64
	Pages() uint32
	MaxPages() (uint32, bool)
	Grow(deltaPages uint32) (previousPages uint32, err error)
}

// PagesToBytes converts a page count into a byte length.
func PagesToBytes(pages uint32) uint64 {
	return uint64(pages) * PageSize
}

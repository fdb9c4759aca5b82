// Package testmod holds small hand-assembled WASM binaries used by tests
// across the module.
package testmod

// Memory is a core module with one exported memory (min 1, max 4 pages)
// and four exported functions:
//
//	grow    (i32) -> i32     memory.grow, returns previous pages or -1
//	size    () -> i32        memory.size in pages
//	store32 (i32, i32) -> () i32.store value at address
//	add_one (i32) -> i32     returns its argument plus one
var Memory = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,

	// type section: (i32)->i32, ()->i32, (i32,i32)->()
	0x01, 0x0f, 0x03,
	0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x60, 0x00, 0x01, 0x7f,
	0x60, 0x02, 0x7f, 0x7f, 0x00,

	// function section
	0x03, 0x05, 0x04, 0x00, 0x01, 0x02, 0x00,

	// memory section: min 1, max 4
	0x05, 0x04, 0x01, 0x01, 0x01, 0x04,

	// export section
	0x07, 0x2c, 0x05,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x04, 'g', 'r', 'o', 'w', 0x00, 0x00,
	0x04, 's', 'i', 'z', 'e', 0x00, 0x01,
	0x07, 's', 't', 'o', 'r', 'e', '3', '2', 0x00, 0x02,
	0x07, 'a', 'd', 'd', '_', 'o', 'n', 'e', 0x00, 0x03,

	// code section
	0x0a, 0x1f, 0x04,
	0x06, 0x00, 0x20, 0x00, 0x40, 0x00, 0x0b,
	0x04, 0x00, 0x3f, 0x00, 0x0b,
	0x09, 0x00, 0x20, 0x00, 0x20, 0x01, 0x36, 0x02, 0x00, 0x0b,
	0x07, 0x00, 0x20, 0x00, 0x41, 0x01, 0x6a, 0x0b,
}

// MemoryMaxPages is the declared maximum of Memory's exported memory.
const MemoryMaxPages = 4

// NoMemory exports a single function (add_one) and no memory.
var NoMemory = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x06, 0x01, 0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0b, 0x01, 0x07, 'a', 'd', 'd', '_', 'o', 'n', 'e', 0x00, 0x00,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x41, 0x01, 0x6a, 0x0b,
}

// Unbounded exports a one page memory with no declared maximum and no
// functions.
var Unbounded = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

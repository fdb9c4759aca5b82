package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	wasmmemory "github.com/wippyai/wasm-memory"
	"github.com/wippyai/wasm-memory/errors"
	"github.com/wippyai/wasm-memory/internal/testmod"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

// boundedMemoryWASM exports "memory" with 1 page and a maximum of 2 pages
var boundedMemoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x04, 0x01, 0x01, 0x01, 0x02, // memory section: min 1, max 2
	0x07, 0x0a, 0x01, // export section
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // "memory"
	0x02, 0x00, // kind: memory, index 0
}

func instantiateMemory(t *testing.T, wasm []byte) api.Memory {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	compiled, err := rt.CompileModule(ctx, wasm)
	require.NoError(t, err)

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	require.NoError(t, err)

	mem := mod.ExportedMemory("memory")
	require.NotNil(t, mem, "module does not export memory")
	return mem
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil))
}

func TestWrapper_ReadWrite(t *testing.T) {
	mem := Wrap(instantiateMemory(t, memoryWASM))

	data := []byte{1, 2, 3, 4}
	require.NoError(t, mem.Write(0, data))

	read, err := mem.Read(0, 4)
	require.NoError(t, err)
	assert.Equal(t, data, read)
}

func TestWrapper_OutOfBounds(t *testing.T) {
	mem := Wrap(instantiateMemory(t, memoryWASM))

	_, err := mem.Read(65536, 1)
	assert.ErrorIs(t, err, errors.ErrOutOfBounds, "Read at boundary")
	assert.ErrorIs(t, mem.Write(65536, []byte{1}), errors.ErrOutOfBounds, "Write at boundary")
	_, err = mem.ReadU32(65533)
	assert.ErrorIs(t, err, errors.ErrOutOfBounds, "ReadU32 straddling end")
	assert.ErrorIs(t, mem.WriteU16(65535, 1), errors.ErrOutOfBounds, "WriteU16 straddling end")
}

func TestWrapper_IntegerReadWrite(t *testing.T) {
	mem := Wrap(instantiateMemory(t, memoryWASM))

	require.NoError(t, mem.WriteU8(0, 42))
	v8, err := mem.ReadU8(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(42), v8)

	require.NoError(t, mem.WriteU16(0, 0x1234))
	v16, err := mem.ReadU16(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v16)

	require.NoError(t, mem.WriteU32(0, 0x12345678))
	v32, err := mem.ReadU32(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v32)

	require.NoError(t, mem.WriteU64(0, 0x123456789ABCDEF0))
	v64, err := mem.ReadU64(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x123456789ABCDEF0), v64)
}

func TestWrapper_Grow(t *testing.T) {
	mem := Wrap(instantiateMemory(t, boundedMemoryWASM))

	maxPages, ok := mem.MaxPages()
	require.True(t, ok)
	require.Equal(t, uint32(2), maxPages)
	require.Equal(t, uint32(1), mem.Pages())
	require.Equal(t, uint64(wasmmemory.PageSize), mem.Size())

	prev, err := mem.Grow(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), prev)
	assert.Equal(t, uint64(2*wasmmemory.PageSize), mem.Size())

	v, err := mem.ReadU32(wasmmemory.PageSize)
	require.NoError(t, err)
	assert.Zero(t, v, "grown memory is zeroed")

	_, err = mem.Grow(1)
	require.ErrorIs(t, err, errors.ErrGrowFailed)
	assert.Equal(t, uint32(2), mem.Pages(), "failed grow leaves memory unchanged")

	prev, err = mem.Grow(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), prev)
}

func TestWrapper_FullAddressSpace(t *testing.T) {
	raw := &testmod.FullMemory{Pages: wasmmemory.MaxPages - 1}
	mem := Wrap(raw)

	prev, err := mem.Grow(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(wasmmemory.MaxPages-1), prev)
	require.Zero(t, raw.Size(), "uint32 size wraps at 4 GiB")

	assert.Equal(t, uint32(wasmmemory.MaxPages), mem.Pages())
	assert.Equal(t, uint64(1)<<32, mem.Size())

	require.NoError(t, mem.WriteU8(0xffffffff, 0x5a))
	b, err := mem.ReadU8(0xffffffff)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x5a), b)

	_, err = mem.Grow(1)
	require.ErrorIs(t, err, errors.ErrGrowFailed)
	assert.Equal(t, uint32(wasmmemory.MaxPages), mem.Pages())
}

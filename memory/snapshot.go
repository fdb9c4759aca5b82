package memory

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	wasmmemory "github.com/wippyai/wasm-memory"
	"github.com/wippyai/wasm-memory/errors"
)

const snapshotVersion = 1

// Snapshot is a point-in-time copy of a linear memory.
// It is serialized as a CBOR array.
type Snapshot struct {
	_        struct{} `cbor:",toarray"`
	Version  uint8
	Pages    uint32
	MaxPages uint32
	HasMax   bool
	Data     []byte
}

// TakeSnapshot copies the current contents and limits of mem.
func TakeSnapshot(mem wasmmemory.LinearMemory) (*Snapshot, error) {
	if mem == nil {
		return nil, errors.NotInitialized(errors.PhaseSnapshot, "memory")
	}

	size := mem.Size()
	if size > math.MaxUint32 {
		return nil, errors.InvalidInput(errors.PhaseSnapshot,
			fmt.Sprintf("memory of %d bytes is too large to snapshot", size))
	}
	data, err := mem.Read(0, uint32(size))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSnapshot, errors.KindInvalidData, err, "read memory")
	}

	maxPages, hasMax := mem.MaxPages()
	return &Snapshot{
		Version:  snapshotVersion,
		Pages:    mem.Pages(),
		MaxPages: maxPages,
		HasMax:   hasMax,
		Data:     bytes.Clone(data),
	}, nil
}

// Encode serializes the snapshot to CBOR.
func (s *Snapshot) Encode() ([]byte, error) {
	b, err := cbor.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSnapshot, errors.KindInvalidData, err, "encode snapshot")
	}
	return b, nil
}

// DecodeSnapshot parses and validates a CBOR-encoded snapshot.
func DecodeSnapshot(b []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrap(errors.PhaseSnapshot, errors.KindInvalidData, err, "decode snapshot")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Snapshot) validate() error {
	if s.Version != snapshotVersion {
		return errors.InvalidData(errors.PhaseSnapshot, nil,
			fmt.Sprintf("unsupported snapshot version %d", s.Version))
	}
	if uint64(len(s.Data)) != wasmmemory.PagesToBytes(s.Pages) {
		return errors.InvalidData(errors.PhaseSnapshot, nil,
			fmt.Sprintf("data length %d does not match %d pages", len(s.Data), s.Pages))
	}
	if s.HasMax && s.Pages > s.MaxPages {
		return errors.InvalidData(errors.PhaseSnapshot, nil,
			fmt.Sprintf("pages %d exceed max pages %d", s.Pages, s.MaxPages))
	}
	return nil
}

// Restore builds an owned Linear memory holding the snapshot contents.
// The snapshot's maximum is applied unless opts override it.
func Restore(s *Snapshot, opts ...Option) (*Linear, error) {
	if s == nil {
		return nil, errors.NotInitialized(errors.PhaseSnapshot, "snapshot")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	if s.HasMax {
		opts = append([]Option{WithMaxPages(s.MaxPages)}, opts...)
	}
	mem, err := New(s.Pages, opts...)
	if err != nil {
		return nil, err
	}
	if err := mem.Write(0, s.Data); err != nil {
		return nil, err
	}
	return mem, nil
}

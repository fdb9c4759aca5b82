package memory

import (
	"encoding/binary"
	"fmt"
	"sync"

	"go.uber.org/zap"

	wasmmemory "github.com/wippyai/wasm-memory"
	"github.com/wippyai/wasm-memory/errors"
)

// Linear is an owned, growable linear memory.
//
// The buffer length is always Pages()*PageSize. Views and other holders keep
// a *Linear, never the slice itself, so reallocation during Grow is invisible
// to them.
type Linear struct {
	log        *zap.Logger
	buf        []byte
	maxPages   uint32
	limitPages uint32
	hasMax     bool
	mu         sync.RWMutex
}

var _ wasmmemory.LinearMemory = (*Linear)(nil)

type config struct {
	log        *zap.Logger
	maxPages   uint32
	limitPages uint32
	hasMax     bool
}

// Option configures a Linear memory.
type Option func(*config)

// WithMaxPages sets the declared maximum page count. Growth past it fails.
func WithMaxPages(pages uint32) Option {
	return func(c *config) {
		c.maxPages = pages
		c.hasMax = true
	}
}

// WithLimitPages caps how many pages the host is willing to allocate,
// independent of the declared maximum. 0 means MaxPages.
func WithLimitPages(pages uint32) Option {
	return func(c *config) {
		c.limitPages = pages
	}
}

// WithLogger overrides the package logger for this memory.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// New creates a zero-filled memory of minPages pages.
func New(minPages uint32, opts ...Option) (*Linear, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.limitPages == 0 || cfg.limitPages > wasmmemory.MaxPages {
		cfg.limitPages = wasmmemory.MaxPages
	}
	if cfg.hasMax && cfg.maxPages > wasmmemory.MaxPages {
		return nil, errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("max pages %d exceeds %d", cfg.maxPages, wasmmemory.MaxPages))
	}
	if cfg.hasMax && minPages > cfg.maxPages {
		return nil, errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("min pages %d exceeds max pages %d", minPages, cfg.maxPages))
	}
	if minPages > cfg.limitPages {
		return nil, errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("min pages %d exceeds limit of %d pages", minPages, cfg.limitPages))
	}
	return &Linear{
		log:        cfg.log,
		buf:        make([]byte, wasmmemory.PagesToBytes(minPages)),
		maxPages:   cfg.maxPages,
		hasMax:     cfg.hasMax,
		limitPages: cfg.limitPages,
	}, nil
}

func (m *Linear) logger() *zap.Logger {
	if m.log != nil {
		return m.log
	}
	return Logger()
}

// Size returns the current length in bytes.
func (m *Linear) Size() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.buf))
}

// Pages returns the current length in pages.
func (m *Linear) Pages() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pages()
}

func (m *Linear) pages() uint32 {
	return uint32(uint64(len(m.buf)) / wasmmemory.PageSize)
}

// MaxPages returns the declared maximum, if any.
func (m *Linear) MaxPages() (uint32, bool) {
	return m.maxPages, m.hasMax
}

// Grow extends the memory by deltaPages zero-filled pages and returns the
// page count before growth. Growing by zero pages returns the current count.
func (m *Linear) Grow(deltaPages uint32) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pages := m.pages()
	if deltaPages == 0 {
		return pages, nil
	}

	target := uint64(pages) + uint64(deltaPages)
	var reason string
	switch {
	case m.hasMax && target > uint64(m.maxPages):
		reason = fmt.Sprintf("exceeds maximum of %d pages", m.maxPages)
	case target > uint64(m.limitPages):
		reason = fmt.Sprintf("exceeds limit of %d pages", m.limitPages)
	}
	if reason != "" {
		m.logger().Debug("memory grow rejected",
			zap.Uint32("previous_pages", pages),
			zap.Uint32("delta", deltaPages),
			zap.String("reason", reason))
		return 0, errors.GrowFailed(pages, deltaPages, reason)
	}

	m.buf = append(m.buf, make([]byte, wasmmemory.PagesToBytes(deltaPages))...)

	m.logger().Debug("memory grown",
		zap.Uint32("previous_pages", pages),
		zap.Uint32("delta", deltaPages),
		zap.Uint64("size", uint64(len(m.buf))))
	return pages, nil
}

// Bytes returns the live backing slice. It is invalidated by the next Grow.
func (m *Linear) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.buf
}

// check reports whether [offset, offset+n) lies inside the buffer.
// Callers must hold m.mu.
func (m *Linear) check(offset uint32, n uint64) error {
	size := uint64(len(m.buf))
	if uint64(offset)+n > size {
		return errors.MemoryOutOfBounds(offset, n, size)
	}
	return nil
}

// Read returns length bytes at offset. The slice aliases memory and is
// invalidated by the next Grow.
func (m *Linear) Read(offset uint32, length uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(offset, uint64(length)); err != nil {
		return nil, err
	}
	end := uint64(offset) + uint64(length)
	return m.buf[offset:end:end], nil
}

// Write copies data into memory at offset.
func (m *Linear) Write(offset uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(offset, uint64(len(data))); err != nil {
		return err
	}
	copy(m.buf[offset:], data)
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Linear) ReadU8(offset uint32) (uint8, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.buf[offset], nil
}

// ReadU16 reads an unsigned 16-bit little-endian value.
func (m *Linear) ReadU16(offset uint32) (uint16, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.buf[offset:]), nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Linear) ReadU32(offset uint32) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.buf[offset:]), nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Linear) ReadU64(offset uint32) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.buf[offset:]), nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Linear) WriteU8(offset uint32, value uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.buf[offset] = value
	return nil
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *Linear) WriteU16(offset uint32, value uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.buf[offset:], value)
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Linear) WriteU32(offset uint32, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.buf[offset:], value)
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Linear) WriteU64(offset uint32, value uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.buf[offset:], value)
	return nil
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-memory/memory"
	"github.com/wippyai/wasm-memory/runtime"
)

var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// session is an opened memory source: either an instantiated module or a
// restored snapshot. Snapshots have no instance and cannot call functions.
type session struct {
	rt   *runtime.Runtime
	mod  *runtime.Module
	inst *runtime.Instance
	mem  *runtime.Memory
	file string
}

func openSession(ctx context.Context, config *baseConfiguration, file string) (*session, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if !bytes.HasPrefix(data, wasmMagic) {
		return openSnapshot(config, file, data)
	}

	witText, err := config.witText()
	if err != nil {
		return nil, err
	}

	rt, err := runtime.NewWithConfig(ctx, config.engineConfig())
	if err != nil {
		return nil, fmt.Errorf("create runtime: %w", err)
	}

	mod, err := rt.LoadWASM(ctx, data, witText)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("load module: %w", err)
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate: %w", err)
	}

	mem, err := inst.Memory(config.Memory)
	if err != nil {
		inst.Close(ctx)
		rt.Close(ctx)
		return nil, fmt.Errorf("open memory: %w", err)
	}

	config.logger().Debug("module opened",
		zap.String("file", file),
		zap.Int("exports", len(mod.Exports())),
		zap.Uint32("pages", mem.Pages()))

	return &session{rt: rt, mod: mod, inst: inst, mem: mem, file: file}, nil
}

func openSnapshot(config *baseConfiguration, file string, data []byte) (*session, error) {
	snap, err := memory.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s is neither a wasm module nor a memory snapshot: %w", file, err)
	}

	opts := []memory.Option{memory.WithLogger(config.logger().Named("memory"))}
	if config.MemoryLimit > 0 {
		opts = append(opts, memory.WithLimitPages(config.MemoryLimit))
	}
	lin, err := memory.Restore(snap, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}

	config.logger().Debug("snapshot restored",
		zap.String("file", file),
		zap.Uint32("pages", snap.Pages))

	return &session{mem: runtime.NewMemory(lin), file: file}, nil
}

func (s *session) call(ctx context.Context, name string, args []string) (any, error) {
	if s.inst == nil {
		return nil, fmt.Errorf("%s is a snapshot, functions cannot be called", s.file)
	}
	values := make([]any, len(args))
	for i, a := range args {
		values[i] = a
	}
	return s.inst.Call(ctx, name, values...)
}

func (s *session) Close(ctx context.Context) error {
	var err error
	if s.inst != nil {
		err = s.inst.Close(ctx)
	}
	if s.rt != nil {
		if cerr := s.rt.Close(ctx); err == nil {
			err = cerr
		}
	}
	return err
}

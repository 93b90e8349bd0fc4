package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"
)

// WazeroEngine compiles modules with wazero to check them beyond what the
// export decoder looks at.
type WazeroEngine struct {
	runtime wazero.Runtime
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages caps declared memories in pages (64KB each).
	// 0 means wazero's default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// EnableThreads enables the WebAssembly threads proposal (experimental),
	// which is needed for modules that declare shared memory.
	EnableThreads bool
}

// NewWazeroEngine creates a new wazero-based engine
func NewWazeroEngine(ctx context.Context) (*WazeroEngine, error) {
	return NewWazeroEngineWithConfig(ctx, nil)
}

// NewWazeroEngineWithConfig creates a new engine with custom configuration
func NewWazeroEngineWithConfig(ctx context.Context, cfg *Config) (*WazeroEngine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.EnableThreads {
			runtimeCfg = runtimeCfg.WithCoreFeatures(api.CoreFeaturesV2 | experimental.CoreFeaturesThreads)
		}
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return &WazeroEngine{runtime: runtime}, nil
}

// ExportedFunc is a function export as wazero sees it.
type ExportedFunc struct {
	Name    string
	Params  []string
	Results []string
}

// ExportedMemory is a memory export as wazero sees it.
type ExportedMemory struct {
	Max  *uint32
	Name string
	Min  uint32
}

// Summary lists the function and memory exports of a compiled module,
// sorted by name.
type Summary struct {
	Functions []ExportedFunc
	Memories  []ExportedMemory
}

// Compile compiles the module and summarizes its exports. The compiled
// module is released before returning.
func (e *WazeroEngine) Compile(ctx context.Context, wasmBytes []byte) (*Summary, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}
	defer func() {
		if closeErr := compiled.Close(ctx); closeErr != nil {
			Logger().Warn("failed to close compiled module", zap.Error(closeErr))
		}
	}()

	summary := &Summary{}
	for name, def := range compiled.ExportedFunctions() {
		fn := ExportedFunc{Name: name}
		for _, t := range def.ParamTypes() {
			fn.Params = append(fn.Params, api.ValueTypeName(t))
		}
		for _, t := range def.ResultTypes() {
			fn.Results = append(fn.Results, api.ValueTypeName(t))
		}
		summary.Functions = append(summary.Functions, fn)
	}
	for name, def := range compiled.ExportedMemories() {
		mem := ExportedMemory{Name: name, Min: def.Min()}
		if maxPages, ok := def.Max(); ok {
			mem.Max = &maxPages
		}
		summary.Memories = append(summary.Memories, mem)
	}
	sort.Slice(summary.Functions, func(i, j int) bool { return summary.Functions[i].Name < summary.Functions[j].Name })
	sort.Slice(summary.Memories, func(i, j int) bool { return summary.Memories[i].Name < summary.Memories[j].Name })

	Logger().Debug("compiled module",
		zap.Int("functions", len(summary.Functions)),
		zap.Int("memories", len(summary.Memories)))

	return summary, nil
}

func (e *WazeroEngine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Compile compiles wasmBytes on a fresh engine and closes it afterwards.
func Compile(ctx context.Context, wasmBytes []byte, cfg *Config) (*Summary, error) {
	e, err := NewWazeroEngineWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := e.Close(ctx); closeErr != nil {
			Logger().Warn("failed to close wazero runtime", zap.Error(closeErr))
		}
	}()
	return e.Compile(ctx, wasmBytes)
}

package inspect

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-exports/engine"
	"github.com/wippyai/wasm-exports/errors"
	"github.com/wippyai/wasm-exports/signature"
	"github.com/wippyai/wasm-exports/wasm"
)

// Config controls how much checking Load does. A nil Config decodes and
// validates structurally without compiling.
type Config struct {
	// MemoryLimitPages is passed to the compile check. 0 keeps wazero's default.
	MemoryLimitPages uint32

	// Compile also compiles the module with wazero, which validates
	// function bodies and every section the decoder skips.
	Compile bool

	// EnableThreads lets shared memories through the compile check.
	EnableThreads bool
}

// Load decodes data and resolves its exports.
func Load(ctx context.Context, data []byte, cfg *Config) ([]signature.Export, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	m, err := wasm.ParseModuleValidate(data)
	if err != nil {
		return nil, errors.Decode(err)
	}
	Logger().Debug("decoded module",
		zap.Int("size", len(data)),
		zap.Int("types", len(m.Types)),
		zap.Int("imports", len(m.Imports)),
		zap.Int("exports", len(m.Exports)))

	exports, err := FromModule(m)
	if err != nil {
		return nil, err
	}

	if cfg.Compile {
		summary, err := engine.Compile(ctx, data, &engine.Config{
			MemoryLimitPages: cfg.MemoryLimitPages,
			EnableThreads:    cfg.EnableThreads,
		})
		if err != nil {
			return nil, errors.Compile(err)
		}
		if err := crossCheck(exports, summary); err != nil {
			return nil, err
		}
		Logger().Debug("compile check passed",
			zap.Int("functions", len(summary.Functions)),
			zap.Int("memories", len(summary.Memories)))
	}

	return exports, nil
}

// LoadFile reads path and calls Load on its contents.
func LoadFile(ctx context.Context, path string, cfg *Config) ([]signature.Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Read(path, err)
	}
	Logger().Debug("read module", zap.String("path", path), zap.Int("size", len(data)))
	return Load(ctx, data, cfg)
}

// crossCheck compares what wazero compiled against the decoded exports.
func crossCheck(exports []signature.Export, summary *engine.Summary) error {
	byName := make(map[string]signature.ExternType, len(exports))
	for _, exp := range exports {
		byName[exp.Name] = exp.Type
	}

	for _, fn := range summary.Functions {
		et, ok := byName[fn.Name]
		if !ok || et.Kind != signature.KindFunc || et.Func == nil {
			return mismatch(fn.Name, "compiled function export not found in decoded exports")
		}
		if len(et.Func.Params) != len(fn.Params) || len(et.Func.Results) != len(fn.Results) {
			return mismatch(fn.Name, "arity %d -> %d, compiled as %d -> %d",
				len(et.Func.Params), len(et.Func.Results), len(fn.Params), len(fn.Results))
		}
	}

	for _, mem := range summary.Memories {
		et, ok := byName[mem.Name]
		if !ok || et.Kind != signature.KindMemory || et.Memory == nil {
			return mismatch(mem.Name, "compiled memory export not found in decoded exports")
		}
		if et.Memory.Min != uint64(mem.Min) {
			return mismatch(mem.Name, "min pages %d, compiled as %d", et.Memory.Min, mem.Min)
		}
	}
	return nil
}

func mismatch(name, msg string, args ...any) error {
	return errors.New(errors.PhaseValidate, errors.KindInvalidData).
		Path("exports", name).
		Detail(msg, args...).
		Build()
}

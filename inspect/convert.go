package inspect

import (
	"strconv"

	"github.com/wippyai/wasm-exports/errors"
	"github.com/wippyai/wasm-exports/signature"
	"github.com/wippyai/wasm-exports/wasm"
)

// FromModule resolves every export of m to its type, in export section order.
func FromModule(m *wasm.Module) ([]signature.Export, error) {
	exports := make([]signature.Export, 0, len(m.Exports))
	for _, exp := range m.Exports {
		et, err := resolveExport(m, exp)
		if err != nil {
			return nil, err
		}
		exports = append(exports, signature.Export{Name: exp.Name, Type: et})
	}
	return exports, nil
}

func resolveExport(m *wasm.Module, exp wasm.Export) (signature.ExternType, error) {
	path := []string{"exports", exp.Name}

	switch exp.Kind {
	case wasm.KindFunc:
		ft, ok := m.LookupFunc(exp.Idx)
		if !ok {
			return signature.ExternType{}, errors.OutOfBounds(path, "function", int(exp.Idx), m.NumImported(wasm.KindFunc)+len(m.Funcs))
		}
		params, err := convertValTypes(path, ft.Params)
		if err != nil {
			return signature.ExternType{}, err
		}
		results, err := convertValTypes(path, ft.Results)
		if err != nil {
			return signature.ExternType{}, err
		}
		return signature.Func(params, results), nil

	case wasm.KindTable:
		tt, ok := m.LookupTable(exp.Idx)
		if !ok {
			return signature.ExternType{}, errors.OutOfBounds(path, "table", int(exp.Idx), m.NumImported(wasm.KindTable)+len(m.Tables))
		}
		elem, err := convertValType(path, tt.Elem)
		if err != nil {
			return signature.ExternType{}, err
		}
		return signature.Table(signature.TableType{
			Element: elem,
			Min:     tt.Limits.Min,
			Max:     copyMax(tt.Limits.Max),
		}), nil

	case wasm.KindMemory:
		mt, ok := m.LookupMemory(exp.Idx)
		if !ok {
			return signature.ExternType{}, errors.OutOfBounds(path, "memory", int(exp.Idx), m.NumImported(wasm.KindMemory)+len(m.Memories))
		}
		return signature.Memory(signature.MemoryType{
			Min:      mt.Limits.Min,
			Max:      copyMax(mt.Limits.Max),
			Shared:   mt.Limits.Shared,
			Memory64: mt.Limits.Memory64,
		}), nil

	case wasm.KindGlobal:
		gt, ok := m.LookupGlobal(exp.Idx)
		if !ok {
			return signature.ExternType{}, errors.OutOfBounds(path, "global", int(exp.Idx), m.NumImported(wasm.KindGlobal)+len(m.Globals))
		}
		vt, err := convertValType(path, gt.Type)
		if err != nil {
			return signature.ExternType{}, err
		}
		mut := signature.Const
		if gt.Mutable {
			mut = signature.Var
		}
		return signature.Global(mut, vt), nil

	case wasm.KindTag:
		return signature.ExternType{}, errors.Unsupported(path, "tag exports")

	default:
		return signature.ExternType{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).
			Value(exp.Kind).
			Detail("unknown export kind 0x%02x", exp.Kind).
			Build()
	}
}

func convertValTypes(path []string, types []wasm.ExtValType) ([]signature.ValueType, error) {
	if len(types) == 0 {
		return nil, nil
	}
	out := make([]signature.ValueType, len(types))
	for i, t := range types {
		vt, err := convertValType(path, t)
		if err != nil {
			return nil, err
		}
		out[i] = vt
	}
	return out, nil
}

func convertValType(path []string, t wasm.ExtValType) (signature.ValueType, error) {
	switch t.ValType {
	case wasm.ValI32:
		return signature.I32, nil
	case wasm.ValI64:
		return signature.I64, nil
	case wasm.ValF32:
		return signature.F32, nil
	case wasm.ValF64:
		return signature.F64, nil
	case wasm.ValV128:
		return signature.V128, nil
	case wasm.ValFuncRef:
		return signature.FuncRef, nil
	case wasm.ValExtern:
		return signature.ExternRef, nil
	case wasm.ValRefNull:
		// (ref null func) and (ref null extern) are the long forms of funcref and externref
		if t.RefType != nil {
			switch t.RefType.HeapType {
			case wasm.HeapTypeFunc:
				return signature.FuncRef, nil
			case wasm.HeapTypeExtern:
				return signature.ExternRef, nil
			}
		}
	}
	return 0, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Path(path...).
		Value(t.ValType).
		Detail("value type %s", describeValType(t)).
		Build()
}

func describeValType(t wasm.ExtValType) string {
	s := t.ValType.String()
	if t.RefType != nil {
		return s + " " + heapTypeName(t.RefType.HeapType)
	}
	return s
}

func heapTypeName(ht int64) string {
	switch ht {
	case wasm.HeapTypeFunc:
		return "func"
	case wasm.HeapTypeExtern:
		return "extern"
	}
	if ht >= 0 {
		return "$" + strconv.FormatInt(ht, 10)
	}
	return "heap(" + strconv.FormatInt(ht, 10) + ")"
}

func copyMax(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	return signature.Max(*p)
}

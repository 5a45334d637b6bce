package evaluator

import (
	"context"
	"reflect"

	"github.com/sandrolain/tagexpr/pkg/ast"
	"github.com/sandrolain/tagexpr/pkg/registry"
	"github.com/sandrolain/tagexpr/pkg/xerrors"
)

// evalIndexing evaluates the target, tries the `[i]` overload, and falls
// back to native host indexing.
func (ev *Evaluator) evalIndexing(ctx context.Context, node *ast.Node, depth int) (interface{}, error) {
	target, err := ev.evalNode(ctx, node.Target, depth+1)
	if err != nil {
		return nil, err
	}
	index, err := ev.evalNode(ctx, node.Index, depth+1)
	if err != nil {
		return nil, err
	}

	if fn, ok := ev.engine.Resolve(ast.OpIndex, target); ok {
		return fn(target, index)
	}
	return nativeIndex(target, index)
}

// evalSlicing evaluates the target and every dimension's sub-expressions
// eagerly, tries the `[:]` overload, and otherwise degenerates to a single
// index/property access when there is exactly one dimension with only
// `start` defined.
func (ev *Evaluator) evalSlicing(ctx context.Context, node *ast.Node, depth int) (interface{}, error) {
	target, err := ev.evalNode(ctx, node.Target, depth+1)
	if err != nil {
		return nil, err
	}

	dims := make([]registry.SliceDim, len(node.Dimensions))
	for i, d := range node.Dimensions {
		var sd registry.SliceDim
		if d.Start != nil {
			sd.Start, err = ev.evalNode(ctx, d.Start, depth+1)
			if err != nil {
				return nil, err
			}
			sd.HasStart = true
		}
		if d.End != nil {
			sd.End, err = ev.evalNode(ctx, d.End, depth+1)
			if err != nil {
				return nil, err
			}
			sd.HasEnd = true
		}
		if d.Step != nil {
			sd.Step, err = ev.evalNode(ctx, d.Step, depth+1)
			if err != nil {
				return nil, err
			}
			sd.HasStep = true
		}
		dims[i] = sd
	}

	if fn, ok := ev.engine.Resolve(ast.OpSlice, target); ok {
		return fn(target, dims)
	}

	if len(dims) == 1 && dims[0].HasStart && !dims[0].HasEnd && !dims[0].HasStep {
		return nativeIndex(target, dims[0].Start)
	}
	return nil, xerrors.NewEvalError(xerrors.ErrNoSlicing, "target does not support slicing", node.Position)
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// nativeIndex performs host indexing on a slice, array, string, or map,
// with negative-wrap on sequence-like kinds.
func nativeIndex(target, index interface{}) (interface{}, error) {
	rv := reflect.ValueOf(target)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := toInt(index)
		if !ok {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "index must be numeric", -1)
		}
		length := rv.Len()
		if i < 0 {
			i += length
		}
		if i < 0 || i >= length {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "index out of range", -1)
		}
		return rv.Index(i).Interface(), nil

	case reflect.String:
		runes := []rune(rv.String())
		i, ok := toInt(index)
		if !ok {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "index must be numeric", -1)
		}
		length := len(runes)
		if i < 0 {
			i += length
		}
		if i < 0 || i >= length {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "index out of range", -1)
		}
		return string(runes[i]), nil

	case reflect.Map:
		keyType := rv.Type().Key()
		keyVal := reflect.ValueOf(index)
		if !keyVal.Type().AssignableTo(keyType) {
			if !keyVal.Type().ConvertibleTo(keyType) {
				return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "index type does not match map key type", -1)
			}
			keyVal = keyVal.Convert(keyType)
		}
		v := rv.MapIndex(keyVal)
		if !v.IsValid() {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "no such key", -1)
		}
		return v.Interface(), nil

	default:
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "target does not support indexing", -1)
	}
}

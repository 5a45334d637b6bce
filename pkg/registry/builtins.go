package registry

import (
	"reflect"
	"strings"

	"github.com/sandrolain/tagexpr/pkg/ast"
	"github.com/sandrolain/tagexpr/pkg/xerrors"
)

var (
	sequenceType = reflect.TypeOf([]interface{}(nil))
	textType     = reflect.TypeOf("")
	setType      = reflect.TypeOf(Set(nil))
)

// installBuiltinOverloads wires the built-in overload defaults:
// sequence `+`/`[i]`/`[:]`, text `*`, set `+`/`-`.
func installBuiltinOverloads(e *Engine) {
	e.registerOverload(sequenceType, ast.OpAdd, sequenceConcat)
	e.registerOverload(sequenceType, ast.OpIndex, sequenceIndex)
	e.registerOverload(sequenceType, ast.OpSlice, sequenceSlice)

	e.registerOverload(textType, ast.OpMul, textRepeat)

	e.registerOverload(setType, ast.OpAdd, setUnion)
	e.registerOverload(setType, ast.OpSub, setDifference)
}

func sequenceConcat(self interface{}, args ...interface{}) (interface{}, error) {
	left := self.([]interface{})
	right, ok := args[0].([]interface{})
	if !ok {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "sequence + requires another sequence", -1)
	}
	out := make([]interface{}, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out, nil
}

func wrapIndex(i, length int) int {
	if i < 0 {
		return i + length
	}
	return i
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func sequenceIndex(self interface{}, args ...interface{}) (interface{}, error) {
	seq := self.([]interface{})
	idx, ok := asInt(args[0])
	if !ok {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "sequence index must be numeric", -1)
	}
	idx = wrapIndex(idx, len(seq))
	if idx < 0 || idx >= len(seq) {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "sequence index out of range", -1)
	}
	return seq[idx], nil
}

// sequenceSlice implements the single-dimension Python-style slice.
// Multi-dimensional slices are rejected; a custom overload may accept them.
func sequenceSlice(self interface{}, args ...interface{}) (interface{}, error) {
	seq := self.([]interface{})
	dims, ok := args[0].([]SliceDim)
	if !ok || len(dims) == 0 {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "sequence slice requires at least one dimension", -1)
	}
	if len(dims) > 1 {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "sequence does not support multi-dimensional slicing", -1)
	}
	d := dims[0]
	length := len(seq)

	step := 1
	if d.HasStep {
		s, ok := asInt(d.Step)
		if !ok {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "slice step must be numeric", -1)
		}
		step = s
	}
	if step == 0 {
		return nil, xerrors.NewEvalError(xerrors.ErrStepZero, "slice step must not be zero", -1)
	}

	var start, end int
	if step > 0 {
		start, end = 0, length
		if d.HasStart {
			s, _ := asInt(d.Start)
			start = wrapIndex(s, length)
		}
		if d.HasEnd {
			s, _ := asInt(d.End)
			end = wrapIndex(s, length)
		}
		out := make([]interface{}, 0)
		for i := start; i < end; i += step {
			if i >= 0 && i < length {
				out = append(out, seq[i])
			}
		}
		return out, nil
	}

	start, end = length-1, -1
	if d.HasStart {
		s, _ := asInt(d.Start)
		start = wrapIndex(s, length)
	}
	if d.HasEnd {
		s, _ := asInt(d.End)
		end = wrapIndex(s, length)
	}
	out := make([]interface{}, 0)
	for i := start; i > end; i += step {
		if i >= 0 && i < length {
			out = append(out, seq[i])
		}
	}
	return out, nil
}

func textRepeat(self interface{}, args ...interface{}) (interface{}, error) {
	text := self.(string)
	n, ok := asInt(args[0])
	if !ok || n < 0 {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "text * requires a non-negative count", -1)
	}
	return strings.Repeat(text, n), nil
}

func setUnion(self interface{}, args ...interface{}) (interface{}, error) {
	left := self.(Set)
	right, ok := args[0].(Set)
	if !ok {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "set + requires another set", -1)
	}
	out := make(Set, len(left)+len(right))
	for v := range left {
		out[v] = struct{}{}
	}
	for v := range right {
		out[v] = struct{}{}
	}
	return out, nil
}

func setDifference(self interface{}, args ...interface{}) (interface{}, error) {
	left := self.(Set)
	right, ok := args[0].(Set)
	if !ok {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "set - requires another set", -1)
	}
	out := make(Set, len(left))
	for v := range left {
		if !right.Has(v) {
			out[v] = struct{}{}
		}
	}
	return out, nil
}

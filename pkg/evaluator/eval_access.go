package evaluator

import (
	"context"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/tagexpr/pkg/ast"
	"github.com/sandrolain/tagexpr/pkg/xerrors"
)

// exportedName upper-cases the first rune of name, the Go convention for
// exported identifiers.
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// NativeFunc is the call shape a host value must satisfy to be invoked
// without going through reflect.Value.Call — the fast path used by
// pkg/defaults' bound functions (e.g. the Math namespace).
type NativeFunc func(args ...interface{}) (interface{}, error)

// evalAccessProperty evaluates the object and returns its named property
// using host property access.
func (ev *Evaluator) evalAccessProperty(ctx context.Context, node *ast.Node, depth int) (interface{}, error) {
	object, err := ev.evalNode(ctx, node.Object, depth+1)
	if err != nil {
		return nil, err
	}
	return nativeProperty(object, node.Property)
}

func nativeProperty(obj interface{}, name string) (interface{}, error) {
	if obj == nil {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "cannot access property of nil", -1)
	}

	// Host methods are only reflectable when exported, so a lowerCamelCase
	// expression property (e.g. `Math.max`) is also tried capitalized
	// against the underlying Go method set.
	for _, candidate := range []string{name, exportedName(name)} {
		if m := reflect.ValueOf(obj).MethodByName(candidate); m.IsValid() {
			return m.Interface(), nil
		}
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "cannot access property of nil", -1)
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if v.IsValid() {
			return v.Interface(), nil
		}
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "unknown property: "+name, -1)

	case reflect.Struct:
		for _, candidate := range []string{name, exportedName(name)} {
			f := rv.FieldByName(candidate)
			if f.IsValid() && f.CanInterface() {
				return f.Interface(), nil
			}
		}
	}

	return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "unknown property: "+name, -1)
}

// evalInvoke evaluates the callee then every argument in order
// (left-to-right), fails if the callee is not callable, and invokes it.
func (ev *Evaluator) evalInvoke(ctx context.Context, node *ast.Node, depth int) (interface{}, error) {
	callee, err := ev.evalNode(ctx, node.Callee, depth+1)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, len(node.Arguments))
	for i, a := range node.Arguments {
		args[i], err = ev.evalNode(ctx, a, depth+1)
		if err != nil {
			return nil, err
		}
	}

	if fn, ok := callee.(NativeFunc); ok {
		return fn(args...)
	}
	if fn, ok := callee.(func(args ...interface{}) (interface{}, error)); ok {
		return fn(args...)
	}

	rv := reflect.ValueOf(callee)
	if rv.Kind() != reflect.Func {
		return nil, xerrors.NewEvalError(xerrors.ErrNotCallable, "value is not callable", node.Position)
	}
	return callReflect(rv, args)
}

func callReflect(fn reflect.Value, args []interface{}) (interface{}, error) {
	ft := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			var paramType reflect.Type
			if i < ft.NumIn() {
				paramType = ft.In(i)
			} else {
				paramType = reflect.TypeOf((*interface{})(nil)).Elem()
			}
			in[i] = reflect.Zero(paramType)
			continue
		}
		av := reflect.ValueOf(a)
		if i < ft.NumIn() {
			paramType := ft.In(i)
			if !ft.IsVariadic() || i < ft.NumIn()-1 {
				if av.Type().ConvertibleTo(paramType) && !av.Type().AssignableTo(paramType) {
					av = av.Convert(paramType)
				}
			}
		}
		in[i] = av
	}

	out := fn.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if err, ok := out[0].Interface().(error); ok {
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1].Interface()
		if err, ok := last.(error); ok {
			if err != nil {
				return nil, err
			}
			if len(out) == 2 {
				return out[0].Interface(), nil
			}
		}
		return out[0].Interface(), nil
	}
}

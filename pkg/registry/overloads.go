package registry

import (
	"fmt"
	"reflect"

	"github.com/sandrolain/tagexpr/pkg/ast"
)

// RegisterOverload records fn under (class, operation), resolving
// operation's name to its stable OpTag first.
func (e *Engine) RegisterOverload(class reflect.Type, operation string, fn OverloadFunc) error {
	tag, ok := operationTag(operation)
	if !ok {
		return fmt.Errorf("registry: unknown operation name %q", operation)
	}
	e.registerOverload(class, tag, fn)
	return nil
}

// RegisterOverloads bulk-registers a mapping of operation name → function
// for a single class in one call.
func (e *Engine) RegisterOverloads(class reflect.Type, operations map[string]OverloadFunc) error {
	for name, fn := range operations {
		if err := e.RegisterOverload(class, name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) registerOverload(class reflect.Type, tag ast.OpTag, fn OverloadFunc) {
	e.overloadMu.Lock()
	defer e.overloadMu.Unlock()
	byTag, ok := e.overloads[class]
	if !ok {
		byTag = make(map[ast.OpTag]OverloadFunc)
		e.overloads[class] = byTag
	}
	byTag[tag] = fn
	e.resolveCache.invalidateType(class)
}

// RegisterParent declares that child inherits overloads from parent when
// child has none of its own for a given tag — the explicit parent-chain
// substitute for a runtime prototype chain.
func (e *Engine) RegisterParent(child, parent reflect.Type) {
	e.overloadMu.Lock()
	defer e.overloadMu.Unlock()
	e.parents[child] = parent
	e.resolveCache.invalidateType(child)
}

func operationTag(name string) (ast.OpTag, bool) {
	if op, ok := ast.LookupUnary(name); ok {
		return op.Tag, true
	}
	if op, ok := ast.LookupBinary(name); ok {
		return op.Tag, true
	}
	switch name {
	case "[i]":
		return ast.OpIndex, true
	case "[:]":
		return ast.OpSlice, true
	}
	return ast.OpNone, false
}

// Resolve finds the overload for operation tag on v by walking the
// explicit parent chain starting at v's concrete
// type; at each class, first consult the engine's overload table, then the
// class's own Overloadable declaration, before moving to its parent. The
// walk's result, hit or miss, is memoized per concrete type in the resolve
// cache.
func (e *Engine) Resolve(tag ast.OpTag, v interface{}) (OverloadFunc, bool) {
	if v == nil {
		return nil, false
	}
	typ := reflect.TypeOf(v)

	if fn, hit := e.resolveCache.get(typ, tag); hit {
		return fn, fn != nil
	}

	fn, ok := e.resolveWalk(tag, typ, v)
	if ok {
		e.resolveCache.set(typ, tag, fn)
	} else {
		e.resolveCache.set(typ, tag, nil)
	}
	return fn, ok
}

// resolveWalk walks the parent chain starting at typ, consulting the
// engine's overload table at every ancestor. The Overloadable self-check is
// only meaningful at v's own type: an ancestor reflect.Type has no distinct
// value to ask, unlike a JS prototype object, so it is tried once before the
// first step up the chain.
func (e *Engine) resolveWalk(tag ast.OpTag, typ reflect.Type, v interface{}) (OverloadFunc, bool) {
	own, isOverloadable := v.(Overloadable)
	atSelf := true

	for typ != nil {
		e.overloadMu.RLock()
		byTag, ok := e.overloads[typ]
		var fn OverloadFunc
		if ok {
			fn, ok = byTag[tag]
		}
		parent := e.parents[typ]
		e.overloadMu.RUnlock()

		if ok {
			return fn, true
		}
		if atSelf && isOverloadable {
			if fn, ok := own.Overload(tag); ok {
				return fn, true
			}
		}
		atSelf = false
		typ = parent
	}
	return nil, false
}

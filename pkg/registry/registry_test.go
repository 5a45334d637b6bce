package registry_test

import (
	"reflect"
	"testing"

	"github.com/sandrolain/tagexpr/pkg/ast"
	"github.com/sandrolain/tagexpr/pkg/registry"
)

func TestBindLookupUnbind(t *testing.T) {
	e := registry.New()
	e.Bind("x", 42)
	v, err := e.Lookup("x")
	if err != nil {
		t.Fatal(err)
	}
	if v.(int) != 42 {
		t.Fatalf("got %v, want 42", v)
	}
	e.Unbind("x")
	if _, err := e.Lookup("x"); err == nil {
		t.Fatal("expected error after Unbind")
	}
}

func TestBindAllUnbindAll(t *testing.T) {
	e := registry.New()
	e.BindAll(map[string]interface{}{"a": 1, "b": 2})
	if _, err := e.Lookup("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Lookup("b"); err != nil {
		t.Fatal(err)
	}
	e.UnbindAll([]string{"a", "b"})
	if _, err := e.Lookup("a"); err == nil {
		t.Fatal("expected error after UnbindAll")
	}
}

func TestLookupUnknownIdentifier(t *testing.T) {
	e := registry.New()
	if _, err := e.Lookup("nope"); err == nil {
		t.Fatal("expected ErrUnknownIdentifier")
	}
}

type point struct{ X, Y int }

func TestRegisterOverloadAndResolve(t *testing.T) {
	e := registry.New()
	typ := reflect.TypeOf(point{})
	called := false
	err := e.RegisterOverload(typ, "+", func(self interface{}, args ...interface{}) (interface{}, error) {
		called = true
		return self.(point).X + args[0].(point).X, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	fn, ok := e.Resolve(ast.OpAdd, point{X: 1})
	if !ok {
		t.Fatal("expected overload to resolve")
	}
	if _, err := fn(point{X: 1}, point{X: 2}); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("expected overload function to be invoked")
	}
}

func TestRegisterOverloadUnknownOperation(t *testing.T) {
	e := registry.New()
	typ := reflect.TypeOf(point{})
	if err := e.RegisterOverload(typ, "nonsense", nil); err == nil {
		t.Fatal("expected error for unknown operation name")
	}
}

type child struct{ point }

func TestRegisterParentChain(t *testing.T) {
	e := registry.New()
	parentType := reflect.TypeOf(point{})
	childType := reflect.TypeOf(child{})

	if err := e.RegisterOverload(parentType, "+", func(self interface{}, args ...interface{}) (interface{}, error) {
		return "parent", nil
	}); err != nil {
		t.Fatal(err)
	}
	e.RegisterParent(childType, parentType)

	fn, ok := e.Resolve(ast.OpAdd, child{})
	if !ok {
		t.Fatal("expected child to inherit parent's overload")
	}
	got, err := fn(child{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "parent" {
		t.Fatalf("got %v, want parent", got)
	}
}

func TestResolveMissCachedAndInvalidated(t *testing.T) {
	e := registry.New()
	typ := reflect.TypeOf(point{})

	if _, ok := e.Resolve(ast.OpAdd, point{}); ok {
		t.Fatal("expected no overload before registration")
	}
	if err := e.RegisterOverload(typ, "+", func(self interface{}, args ...interface{}) (interface{}, error) {
		return "now registered", nil
	}); err != nil {
		t.Fatal(err)
	}
	fn, ok := e.Resolve(ast.OpAdd, point{})
	if !ok {
		t.Fatal("expected overload to resolve after registration invalidates the cached miss")
	}
	got, _ := fn(point{}, nil)
	if got != "now registered" {
		t.Fatalf("got %v, want 'now registered'", got)
	}
}

type selfOverload struct{}

func (selfOverload) Overload(tag ast.OpTag) (registry.OverloadFunc, bool) {
	if tag == ast.OpNeg {
		return func(self interface{}, args ...interface{}) (interface{}, error) {
			return "self-declared", nil
		}, true
	}
	return nil, false
}

func TestOverloadableSelfDeclaration(t *testing.T) {
	e := registry.New()
	fn, ok := e.Resolve(ast.OpNeg, selfOverload{})
	if !ok {
		t.Fatal("expected self-declared overload to resolve")
	}
	got, err := fn(selfOverload{})
	if err != nil {
		t.Fatal(err)
	}
	if got != "self-declared" {
		t.Fatalf("got %v, want self-declared", got)
	}
}

func TestResolveNilValue(t *testing.T) {
	e := registry.New()
	if _, ok := e.Resolve(ast.OpAdd, nil); ok {
		t.Fatal("expected Resolve(nil) to miss")
	}
}

func TestBuiltinSequenceAdd(t *testing.T) {
	e := registry.New()
	left := []interface{}{1, 2}
	fn, ok := e.Resolve(ast.OpAdd, left)
	if !ok {
		t.Fatal("expected built-in sequence + overload")
	}
	got, err := fn(left, []interface{}{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	seq := got.([]interface{})
	if len(seq) != 4 || seq[3] != 4 {
		t.Fatalf("got %v", seq)
	}
}

func TestBuiltinTextRepeat(t *testing.T) {
	e := registry.New()
	fn, ok := e.Resolve(ast.OpMul, "ha")
	if !ok {
		t.Fatal("expected built-in text * overload")
	}
	got, err := fn("ha", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.(string) != "hahaha" {
		t.Fatalf("got %q, want hahaha", got)
	}
}

func TestBuiltinSetUnionAndDifference(t *testing.T) {
	e := registry.New()
	a := registry.NewSet(1, 2)
	b := registry.NewSet(2, 3)

	addFn, ok := e.Resolve(ast.OpAdd, a)
	if !ok {
		t.Fatal("expected built-in set + overload")
	}
	union, err := addFn(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(union.(registry.Set)) != 3 {
		t.Fatalf("got %d members, want 3", len(union.(registry.Set)))
	}

	subFn, ok := e.Resolve(ast.OpSub, a)
	if !ok {
		t.Fatal("expected built-in set - overload")
	}
	diff, err := subFn(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ds := diff.(registry.Set)
	if len(ds) != 1 || !ds.Has(1) {
		t.Fatalf("got %v, want {1}", ds.Slice())
	}
}

func TestWithoutBuiltinOverloads(t *testing.T) {
	e := registry.New(registry.WithoutBuiltinOverloads())
	if _, ok := e.Resolve(ast.OpAdd, []interface{}{1}); ok {
		t.Fatal("expected no built-in sequence overload when disabled")
	}
}

func TestDefaultSingletonResetChangesGeneration(t *testing.T) {
	before := registry.Default().Generation()
	registry.ResetDefault()
	after := registry.Default().Generation()
	if before == after {
		t.Fatal("expected ResetDefault to change the singleton's generation")
	}
}

package tagexpr_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/sandrolain/tagexpr"
)

func TestEvalArithmeticPrecedence(t *testing.T) {
	got, err := tagexpr.New().Eval(context.Background(), "2+3*4")
	if err != nil {
		t.Fatal(err)
	}
	if got.(float64) != 14 {
		t.Fatalf("got %v, want 14", got)
	}
}

func TestEvalPowRightAssociative(t *testing.T) {
	got, err := tagexpr.New().Eval(context.Background(), "2**3**2")
	if err != nil {
		t.Fatal(err)
	}
	if got.(float64) != 512 {
		t.Fatalf("got %v, want 512", got)
	}
}

func TestEvalParenthesizedOverridesPrecedence(t *testing.T) {
	got, err := tagexpr.New().Eval(context.Background(), "(2**3)**2")
	if err != nil {
		t.Fatal(err)
	}
	if got.(float64) != 64 {
		t.Fatalf("got %v, want 64", got)
	}
}

func TestEvalSequenceConcatenation(t *testing.T) {
	eng := tagexpr.New()
	eng.Bind("a", []interface{}{1, 2})
	eng.Bind("b", []interface{}{3})
	got, err := eng.Eval(context.Background(), "a + b")
	if err != nil {
		t.Fatal(err)
	}
	seq := got.([]interface{})
	if len(seq) != 3 {
		t.Fatalf("got %v, want length 3", seq)
	}
}

func TestEvalStringRepeat(t *testing.T) {
	got, err := tagexpr.New().Eval(context.Background(), `'ha' * 3`)
	if err != nil {
		t.Fatal(err)
	}
	if got.(string) != "hahaha" {
		t.Fatalf("got %q, want hahaha", got)
	}
}

func TestEvalSliceNegativeStep(t *testing.T) {
	eng := tagexpr.New()
	eng.Bind("arr", []interface{}{1, 2, 3, 4, 5})
	got, err := eng.Eval(context.Background(), "arr[::-1]")
	if err != nil {
		t.Fatal(err)
	}
	seq := got.([]interface{})
	want := []interface{}{5, 4, 3, 2, 1}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("got %v, want %v", seq, want)
		}
	}
}

func TestEvalSliceStepped(t *testing.T) {
	eng := tagexpr.New()
	eng.Bind("arr", []interface{}{0, 1, 2, 3, 4, 5, 6, 7})
	got, err := eng.Eval(context.Background(), "arr[1:-2:2]")
	if err != nil {
		t.Fatal(err)
	}
	seq := got.([]interface{})
	want := []interface{}{1, 3, 5}
	if len(seq) != len(want) {
		t.Fatalf("got %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("got %v, want %v", seq, want)
		}
	}
}

func TestEvalMathMax(t *testing.T) {
	got, err := tagexpr.New().Eval(context.Background(), "Math.max(3, 4)")
	if err != nil {
		t.Fatal(err)
	}
	if got.(float64) != 4 {
		t.Fatalf("got %v, want 4", got)
	}
}

func TestEvalRightOperandOverload(t *testing.T) {
	got, err := tagexpr.New().Eval(context.Background(), `3*'hey'`)
	if err != nil {
		t.Fatal(err)
	}
	if got.(string) != "heyheyhey" {
		t.Fatalf("got %q, want heyheyhey", got)
	}
}

func TestTagFragmentsAndValues(t *testing.T) {
	eng := tagexpr.New()
	got, err := eng.Tag(context.Background(), []string{"", " + ", ""}, []interface{}{10.0, 32.0})
	if err != nil {
		t.Fatal(err)
	}
	if got.(float64) != 42 {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestEvalSlotInterpolation(t *testing.T) {
	eng := tagexpr.New()
	got, err := eng.Eval(context.Background(), string(tagexpr.Slot)+" * 2", 21.0)
	if err != nil {
		t.Fatal(err)
	}
	if got.(float64) != 42 {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestEngineIndependence(t *testing.T) {
	a := tagexpr.New()
	b := tagexpr.New()
	a.Bind("x", 1)
	if _, err := b.Eval(context.Background(), "x"); err == nil {
		t.Fatal("expected binding on one engine to stay invisible to another")
	}
}

type vector struct{ X, Y float64 }

func TestRegisterOverloadViaFacade(t *testing.T) {
	eng := tagexpr.New()
	typ := reflect.TypeOf(vector{})
	err := eng.RegisterOverload(typ, "+", func(self interface{}, args ...interface{}) (interface{}, error) {
		a := self.(vector)
		b := args[0].(vector)
		return vector{a.X + b.X, a.Y + b.Y}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	eng.Bind("v1", vector{1, 2})
	eng.Bind("v2", vector{3, 4})
	got, err := eng.Eval(context.Background(), "v1 + v2")
	if err != nil {
		t.Fatal(err)
	}
	want := vector{4, 6}
	if got.(vector) != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPackageLevelEvalUsesDefaultSingleton(t *testing.T) {
	tagexpr.ResetDefault()
	got, err := tagexpr.Eval("1 + 1")
	if err != nil {
		t.Fatal(err)
	}
	if got.(float64) != 2 {
		t.Fatalf("got %v, want 2", got)
	}
}

func TestResetDefaultClearsBindings(t *testing.T) {
	tagexpr.Default().Bind("leaked", 1)
	tagexpr.ResetDefault()
	if _, err := tagexpr.Default().Eval(context.Background(), "leaked"); err == nil {
		t.Fatal("expected ResetDefault to clear prior bindings")
	}
}

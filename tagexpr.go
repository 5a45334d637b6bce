// Package tagexpr is the public façade over the tokenizer → parser →
// evaluator pipeline: it exposes the tagged-template entry point, plus the
// Binding/Overload API.
//
//	eng := tagexpr.New()
//	eng.Bind("x", 10)
//	result, err := eng.Tag(context.Background(), []string{"x + ", ""}, []interface{}{32})
//
//	// Or the plain-string form, using Slot to mark an interpolation point:
//	result, err = eng.Eval(context.Background(), string(tagexpr.Slot)+" * 2", 21)
package tagexpr

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sandrolain/tagexpr/pkg/defaults"
	"github.com/sandrolain/tagexpr/pkg/evaluator"
	"github.com/sandrolain/tagexpr/pkg/lexer"
	"github.com/sandrolain/tagexpr/pkg/parser"
	"github.com/sandrolain/tagexpr/pkg/registry"
)

// Slot marks an interpolation point inside a plain-string expression passed
// to Eval. It is a Unicode Private Use Area code point, chosen so it never
// collides with an identifier or operator a caller would write by hand.
const Slot = ''

// Engine owns a Binding Table, Overload Table, and the evaluator configured
// to use them.
type Engine struct {
	reg *registry.Engine
	ev  *evaluator.Evaluator
}

// New constructs a fresh Engine with the default-bindings bootstrap applied
// (PI, E, Infinity, NaN, Math).
func New(opts ...registry.Option) *Engine {
	reg := registry.New(opts...)
	defaults.Bootstrap(reg)
	return &Engine{reg: reg, ev: evaluator.New(reg)}
}

// Bind upserts a single (name, value) binding.
func (e *Engine) Bind(name string, value interface{}) { e.reg.Bind(name, value) }

// BindAll upserts every (name, value) pair in values.
func (e *Engine) BindAll(values map[string]interface{}) { e.reg.BindAll(values) }

// Unbind removes a single binding by name.
func (e *Engine) Unbind(name string) { e.reg.Unbind(name) }

// UnbindAll removes every binding named in names.
func (e *Engine) UnbindAll(names []string) { e.reg.UnbindAll(names) }

// RegisterOverload records fn as class's implementation of operation.
func (e *Engine) RegisterOverload(class reflect.Type, operation string, fn registry.OverloadFunc) error {
	return e.reg.RegisterOverload(class, operation, fn)
}

// RegisterOverloads bulk-registers a mapping of operation name → function
// for a single class.
func (e *Engine) RegisterOverloads(class reflect.Type, operations map[string]registry.OverloadFunc) error {
	return e.reg.RegisterOverloads(class, operations)
}

// RegisterParent declares that child inherits overloads from parent.
func (e *Engine) RegisterParent(child, parent reflect.Type) {
	e.reg.RegisterParent(child, parent)
}

// Registry returns the underlying Overload Registry / Binding Table, for
// callers that need direct access (e.g. to call Resolve for diagnostics).
func (e *Engine) Registry() *registry.Engine { return e.reg }

// Tag is the primary entry point: it tokenizes, parses, and evaluates
// the tagged-template fragments+values form, where len(fragments) ==
// len(values)+1.
func (e *Engine) Tag(ctx context.Context, fragments []string, values []interface{}) (interface{}, error) {
	tokens, err := lexer.Tokenize(fragments, values, lexer.Options{})
	if err != nil {
		return nil, err
	}
	node, _, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return e.ev.Eval(ctx, node)
}

// Eval is the plain-string equivalent of Tag, for programmatic use. Each
// occurrence of Slot in source marks where the next value in args is
// interpolated; args must contain exactly as many values as there are Slot
// occurrences.
func (e *Engine) Eval(ctx context.Context, source string, args ...interface{}) (interface{}, error) {
	fragments := splitSlots(source, len(args))
	return e.Tag(ctx, fragments, args)
}

// splitSlots breaks source into n+1 fragments at each Slot occurrence.
func splitSlots(source string, n int) []string {
	if n == 0 {
		return []string{source}
	}
	fragments := make([]string, 0, n+1)
	rest := source
	for i := 0; i < n; i++ {
		idx := strings.IndexRune(rest, Slot)
		if idx < 0 {
			fragments = append(fragments, rest)
			for len(fragments) <= n {
				fragments = append(fragments, "")
			}
			return fragments
		}
		fragments = append(fragments, rest[:idx])
		rest = rest[idx+utf8.RuneLen(Slot):]
	}
	fragments = append(fragments, rest)
	return fragments
}

var (
	defaultMu     sync.Mutex
	defaultEngine *Engine
)

// Default returns the process-wide singleton Engine, bootstrapping
// default bindings on first use and again after ResetDefault.
func Default() *Engine {
	reg := registry.Default()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine == nil || defaultEngine.reg.Generation() != reg.Generation() {
		defaults.Bootstrap(reg)
		defaultEngine = &Engine{reg: reg, ev: evaluator.New(reg)}
	}
	return defaultEngine
}

// ResetDefault discards every binding and overload added to the process-wide
// singleton. It never affects user-created Engines.
func ResetDefault() {
	registry.ResetDefault()
}

// Eval evaluates source against the process-wide singleton Engine, the
// convenience path for one-off expressions.
func Eval(source string, args ...interface{}) (interface{}, error) {
	return Default().Eval(context.Background(), source, args...)
}

// Package registry implements the Overload Registry, Binding Table, and
// Engine instance: a per-engine map from identifier name to host
// value, plus a two-level overload table (class representative → operation
// tag → function) resolved by walking an explicit parent-class chain.
//
// Go has no universal runtime prototype chain, so "class" is modeled as
// reflect.Type and the prototype chain as an explicit
// parent-chain registered with RegisterParent. A class may also declare an
// operator on itself by implementing Overloadable, mirroring a JS-style
// "own callable property" resolution step.
package registry

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/sandrolain/tagexpr/pkg/ast"
)

// OverloadFunc is the uniform call shape every registered overload is
// adapted to: the dispatch receiver bound as self, followed by the
// operation's remaining operands.
type OverloadFunc func(self interface{}, args ...interface{}) (interface{}, error)

// Overloadable lets a class declare an operator on itself without touching
// any Engine instance. Overload is consulted only after the engine's own
// overload table has no entry for (type, tag).
type Overloadable interface {
	Overload(tag ast.OpTag) (OverloadFunc, bool)
}

// Engine owns a Binding Table and an Overload Table. The zero value is not
// usable; construct with New.
type Engine struct {
	logger *slog.Logger

	bindMu   sync.RWMutex
	bindings map[string]interface{}

	overloadMu sync.RWMutex
	overloads  map[reflect.Type]map[ast.OpTag]OverloadFunc
	parents    map[reflect.Type]reflect.Type

	resolveCache *resolveCache
	skipBuiltins bool

	generation uuid.UUID
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger overrides the engine's structured logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithResolveCacheSize overrides the capacity of the dispatch-resolution
// memo (default 256 entries).
func WithResolveCacheSize(n int) Option {
	return func(e *Engine) { e.resolveCache = newResolveCache(n) }
}

// WithoutBuiltinOverloads skips installing the built-in overload
// defaults (sequence/text/set) that New installs by default.
func WithoutBuiltinOverloads() Option {
	return func(e *Engine) { e.skipBuiltins = true }
}

// New constructs an empty Engine. Unless WithoutBuiltinOverloads is passed,
// it installs the built-in overload defaults (sequence `+`/`[i]`/
// `[:]`, text `*`, set `+`/`-`) — these are core operator semantics for
// common container classes, not singleton-only conveniences.
func New(opts ...Option) *Engine {
	e := &Engine{
		bindings:  make(map[string]interface{}),
		overloads: make(map[reflect.Type]map[ast.OpTag]OverloadFunc),
		parents:   make(map[reflect.Type]reflect.Type),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.resolveCache == nil {
		e.resolveCache = newResolveCache(256)
	}
	if !e.skipBuiltins {
		installBuiltinOverloads(e)
	}
	e.generation = uuid.New()
	return e
}

// Generation returns a stable identifier for this engine's current set of
// bindings/overloads. Default()'s generation changes across ResetDefault
// calls so long-lived callers can detect "the singleton was reset under me".
func (e *Engine) Generation() uuid.UUID {
	return e.generation
}

func (e *Engine) logf(msg string, args ...interface{}) {
	e.logger.Debug(msg, args...)
}

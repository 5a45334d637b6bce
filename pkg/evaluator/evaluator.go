// Package evaluator implements the Evaluator: a tree-walking
// visitor over an expression tree that consults an Engine's Binding Table
// and Overload Registry to dispatch operators, property access, indexing,
// slicing, and invocation.
package evaluator

import (
	"context"
	"log/slog"
	"time"

	"github.com/sandrolain/tagexpr/pkg/ast"
	"github.com/sandrolain/tagexpr/pkg/registry"
	"github.com/sandrolain/tagexpr/pkg/xerrors"
)

// Evaluator walks an expression tree against an Engine instance.
type Evaluator struct {
	engine *registry.Engine
	logger *slog.Logger
	opts   EvalOptions
}

// EvalOptions configures an Evaluator via the functional-option pattern.
type EvalOptions struct {
	// MaxDepth bounds recursion to guard against runaway trees (an
	// expression tree is bounded by parser input size, but a pathological
	// `((((((...))))))`` nesting is still worth a ceiling).
	MaxDepth int
	// Timeout bounds a single Eval call; zero means no timeout.
	Timeout time.Duration
	// Debug enables Debug-level trace logging of each node visited.
	Debug bool
	// Logger receives trace output when Debug is set. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// EvalOption configures EvalOptions.
type EvalOption func(*EvalOptions)

// WithMaxDepth overrides the recursion ceiling (default 1000).
func WithMaxDepth(n int) EvalOption { return func(o *EvalOptions) { o.MaxDepth = n } }

// WithTimeout bounds a single Eval call.
func WithTimeout(d time.Duration) EvalOption { return func(o *EvalOptions) { o.Timeout = d } }

// WithDebug enables per-node trace logging.
func WithDebug(debug bool) EvalOption { return func(o *EvalOptions) { o.Debug = debug } }

// WithLogger overrides the evaluator's structured logger.
func WithLogger(l *slog.Logger) EvalOption { return func(o *EvalOptions) { o.Logger = l } }

// New builds an Evaluator bound to engine.
func New(engine *registry.Engine, opts ...EvalOption) *Evaluator {
	options := EvalOptions{MaxDepth: 1000}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Evaluator{engine: engine, logger: options.Logger, opts: options}
}

// Eval walks node to a host value. Suspension/cancellation has no
// natural place inside this purely synchronous pipeline, but ctx is
// still checked between node visits so WithTimeout/cancellation can abort a
// runaway evaluation (e.g. a slow user-supplied overload).
func (ev *Evaluator) Eval(ctx context.Context, node *ast.Node) (interface{}, error) {
	if ev.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ev.opts.Timeout)
		defer cancel()
	}
	return ev.evalNode(ctx, node, 0)
}

func (ev *Evaluator) evalNode(ctx context.Context, node *ast.Node, depth int) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth > ev.opts.MaxDepth {
		xerrors.Fail("evaluator: max recursion depth %d exceeded", ev.opts.MaxDepth)
	}
	if ev.opts.Debug {
		ev.logger.Debug("eval", "node", node.Type.String(), "depth", depth)
	}

	switch node.Type {
	case ast.Value:
		return node.Token.Value, nil

	case ast.Identifier:
		return ev.engine.Lookup(node.IdentifierName())

	case ast.Unary:
		return ev.evalUnary(ctx, node, depth)

	case ast.Binary:
		return ev.evalBinary(ctx, node, depth)

	case ast.AccessProperty:
		return ev.evalAccessProperty(ctx, node, depth)

	case ast.Indexing:
		return ev.evalIndexing(ctx, node, depth)

	case ast.Slicing:
		return ev.evalSlicing(ctx, node, depth)

	case ast.Invoke:
		return ev.evalInvoke(ctx, node, depth)

	default:
		xerrors.Fail("evaluator: unhandled node type %v", node.Type)
		return nil, nil // unreachable
	}
}

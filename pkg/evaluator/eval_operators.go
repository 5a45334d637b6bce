package evaluator

import (
	"context"

	"github.com/sandrolain/tagexpr/pkg/ast"
)

// evalUnary evaluates the operand, then attempts an overload on its class
// before falling back to the operation's native semantics.
func (ev *Evaluator) evalUnary(ctx context.Context, node *ast.Node, depth int) (interface{}, error) {
	operand, err := ev.evalNode(ctx, node.Operand, depth+1)
	if err != nil {
		return nil, err
	}

	if fn, ok := ev.engine.Resolve(node.Op, operand); ok {
		return fn(operand)
	}

	op := ast.Describe(node.Op)
	return op.Unary(operand)
}

// evalBinary evaluates left then right (strict left-to-right), then
// tries an overload on the left operand's class, then the right operand's
// class with swapped arguments, then the native fallback — exactly one of
// the three paths is taken.
func (ev *Evaluator) evalBinary(ctx context.Context, node *ast.Node, depth int) (interface{}, error) {
	left, err := ev.evalNode(ctx, node.Left, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := ev.evalNode(ctx, node.Right, depth+1)
	if err != nil {
		return nil, err
	}

	if fn, ok := ev.engine.Resolve(node.Op, left); ok {
		return fn(left, right)
	}
	if fn, ok := ev.engine.Resolve(node.Op, right); ok {
		return fn(right, left)
	}

	op := ast.Describe(node.Op)
	return op.Binary(left, right)
}

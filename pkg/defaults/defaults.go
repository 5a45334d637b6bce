// Package defaults implements the default-bindings bootstrap: the
// logical/numeric constants and the Math namespace a process-wide engine
// needs to be usable out of the box (e.g. `Math.max(3, 4)`).
package defaults

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/sandrolain/tagexpr/pkg/ast"
	"github.com/sandrolain/tagexpr/pkg/evaluator"
	"github.com/sandrolain/tagexpr/pkg/registry"
)

// Bootstrap binds PI, E, Infinity, NaN, and the Math namespace onto e. It
// is idempotent: calling it twice just re-upserts the same bindings.
func Bootstrap(e *registry.Engine) {
	e.Bind("PI", math.Pi)
	e.Bind("E", math.E)
	e.Bind("Infinity", math.Inf(1))
	e.Bind("NaN", math.NaN())
	e.Bind("Math", mathNamespace{})
}

// mathNamespace is bound under the "Math" identifier; its methods are
// resolved as properties by pkg/evaluator's AccessProperty handling and
// invoked as ordinary bound Go methods (Math.max(3, 4)).
type mathNamespace struct{}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return math.NaN()
	}
}

func (mathNamespace) Max(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return math.Inf(-1), nil
	}
	m := toFloat(args[0])
	for _, a := range args[1:] {
		if v := toFloat(a); v > m {
			m = v
		}
	}
	return m, nil
}

func (mathNamespace) Min(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return math.Inf(1), nil
	}
	m := toFloat(args[0])
	for _, a := range args[1:] {
		if v := toFloat(a); v < m {
			m = v
		}
	}
	return m, nil
}

func (mathNamespace) Abs(args ...interface{}) (interface{}, error) { return math.Abs(toFloat(args[0])), nil }

func (mathNamespace) Floor(args ...interface{}) (interface{}, error) {
	return math.Floor(toFloat(args[0])), nil
}

func (mathNamespace) Ceil(args ...interface{}) (interface{}, error) {
	return math.Ceil(toFloat(args[0])), nil
}

func (mathNamespace) Round(args ...interface{}) (interface{}, error) {
	return math.Round(toFloat(args[0])), nil
}

func (mathNamespace) Sqrt(args ...interface{}) (interface{}, error) {
	return math.Sqrt(toFloat(args[0])), nil
}

func (mathNamespace) Pow(args ...interface{}) (interface{}, error) {
	return math.Pow(toFloat(args[0]), toFloat(args[1])), nil
}

// EvalAll evaluates every tree in trees concurrently against ev and
// returns their results in input order, or the first error encountered.
// Evaluating many independent compiled templates concurrently is safe
// as long as callers do not mutate the shared engine mid-flight; a single
// expression's own
// argument/operand evaluation stays strictly sequential regardless of
// this helper.
func EvalAll(ctx context.Context, ev *evaluator.Evaluator, trees []*ast.Node) ([]interface{}, error) {
	results := make([]interface{}, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	for i, tree := range trees {
		i, tree := i, tree
		g.Go(func() error {
			v, err := ev.Eval(gctx, tree)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

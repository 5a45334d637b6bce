package parser

import (
	"github.com/sandrolain/tagexpr/pkg/ast"
	"github.com/sandrolain/tagexpr/pkg/xerrors"
)

// parseIndexOrSlice parses the bracketed subscript following target and
// decides, by counting commas and colons, whether it is a single-value
// Indexing or an N-dimensional Slicing:
//
//   - `[]` alone is rejected (empty subscript).
//   - More than one comma-separated dimension, or any dimension containing
//     a `:`, produces a Slicing node.
//   - Exactly one dimension with no `:` and a single expression produces an
//     Indexing node.
func (p *Parser) parseIndexOrSlice(target *ast.Node) (*ast.Node, error) {
	open := p.advance() // consume '['

	if p.atPunct("]") {
		return nil, xerrors.NewSyntaxError(xerrors.ErrEmptySubscript, "empty subscript", open.Position, "[]")
	}

	var dims []ast.Dimension
	hasColon := false
	for {
		dim, dimHasColon, err := p.parseDimension()
		if err != nil {
			return nil, err
		}
		if dimHasColon {
			hasColon = true
		}
		dims = append(dims, dim)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}

	if hasColon || len(dims) > 1 {
		node := p.arena.Alloc(ast.Slicing, open.Position)
		node.Target = target
		node.Dimensions = dims
		return node, nil
	}

	d := dims[0]
	if d.Start == nil {
		return nil, xerrors.NewSyntaxError(xerrors.ErrEmptySubscript, "empty subscript", open.Position, "[]")
	}
	node := p.arena.Alloc(ast.Indexing, open.Position)
	node.Target = target
	node.Index = d.Start
	return node, nil
}

// parseDimension parses one comma-separated dimension: up to three
// colon-separated slots (start, end, step), any of which may be omitted.
func (p *Parser) parseDimension() (ast.Dimension, bool, error) {
	var dim ast.Dimension
	hasColon := false
	slot := 0

	for {
		if !p.atPunct(":") && !p.atPunct(",") && !p.atPunct("]") {
			expr, err := p.parseExpression(0)
			if err != nil {
				return dim, false, err
			}
			switch slot {
			case 0:
				dim.Start = expr
			case 1:
				dim.End = expr
			case 2:
				dim.Step = expr
			default:
				tok := p.peek()
				return dim, false, xerrors.NewSyntaxError(xerrors.ErrUnexpectedToken, "too many ':' in slice dimension", tok.Position, tok.Literal)
			}
		}

		if p.atPunct(":") {
			hasColon = true
			p.advance()
			slot++
			if slot > 2 {
				tok := p.peek()
				return dim, false, xerrors.NewSyntaxError(xerrors.ErrUnexpectedToken, "too many ':' in slice dimension", tok.Position, tok.Literal)
			}
			continue
		}
		break
	}

	return dim, hasColon, nil
}

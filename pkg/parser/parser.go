// Package parser implements a precedence-climbing recursive descent parser
// that turns a token stream into a single expression tree, with explicit
// handling of property access, invocation, indexing, and Python-style
// N-dimensional slicing.
//
// The algorithm is a classic Pratt parser (parseAtom / parseBinaryRHS over a
// precedence table) generalized to this engine's operator set and postfix
// grammar.
package parser

import (
	"github.com/sandrolain/tagexpr/pkg/ast"
	"github.com/sandrolain/tagexpr/pkg/token"
	"github.com/sandrolain/tagexpr/pkg/xerrors"
)

// Parse turns a token stream into a single expression tree. It fails if the
// stream is empty or has trailing tokens after the top-level expression.
func Parse(tokens []token.Token) (*ast.Node, *ast.Arena, error) {
	if len(tokens) == 0 {
		return nil, nil, xerrors.NewSyntaxError(xerrors.ErrEmptyExpression, "empty expression", 0, "")
	}

	p := &Parser{tokens: tokens, arena: ast.NewArena()}
	node, err := p.parseExpression(0)
	if err != nil {
		return nil, nil, err
	}
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		return nil, nil, xerrors.NewSyntaxError(xerrors.ErrTrailingTokens, "trailing tokens after expression", tok.Position, tok.Literal)
	}
	return node, p.arena, nil
}

// Parser holds the token cursor and the node arena backing the tree it
// produces.
type Parser struct {
	tokens []token.Token
	pos    int
	arena  *ast.Arena
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF, Position: p.endPosition()}
	}
	return p.tokens[p.pos]
}

func (p *Parser) endPosition() int {
	if len(p.tokens) == 0 {
		return 0
	}
	last := p.tokens[len(p.tokens)-1]
	return last.Position + len(last.Literal)
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) atPunct(lit string) bool {
	return p.peek().IsPunct(lit)
}

func (p *Parser) atOperator(lit string) bool {
	return p.peek().IsOperator(lit)
}

func (p *Parser) expectPunct(lit string) error {
	if !p.atPunct(lit) {
		tok := p.peek()
		return xerrors.NewSyntaxError(xerrors.ErrUnexpectedToken, "expected '"+lit+"'", tok.Position, tok.Literal)
	}
	p.advance()
	return nil
}

// parseExpression parses a (sub-)expression whose leading binary operator
// must bind at least as tightly as minPrec. It first parses a single atom
// via parseAtom (nud), then repeatedly consumes either a postfix
// construct — property access, invocation, or indexing/slicing, which
// always apply regardless of minPrec — or a binary operator whose
// precedence satisfies the climbing bound.
func (p *Parser) parseExpression(minPrec int) (*ast.Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.atPunct("."):
			left, err = p.parseAccessProperty(left)
		case p.atPunct("("):
			left, err = p.parseInvoke(left)
		case p.atPunct("["):
			left, err = p.parseIndexOrSlice(left)
		default:
			op, ok := p.peekBinaryOp()
			if !ok || op.Precedence < minPrec {
				return left, nil
			}
			left, err = p.parseBinaryRHS(left, op)
		}
		if err != nil {
			return nil, err
		}
	}
}

// peekBinaryOp returns the Operation descriptor for the current token if it
// is usable as a binary operator here.
func (p *Parser) peekBinaryOp() (*ast.Operation, bool) {
	tok := p.peek()
	if tok.Type != token.Operator {
		return nil, false
	}
	return ast.LookupBinary(tok.Literal)
}

func (p *Parser) parseBinaryRHS(left *ast.Node, op *ast.Operation) (*ast.Node, error) {
	tok := p.advance()
	nextMin := op.Precedence + 1
	if op.Assoc == ast.RightAssoc {
		nextMin = op.Precedence
	}
	right, err := p.parseExpression(nextMin)
	if err != nil {
		return nil, err
	}
	node := p.arena.Alloc(ast.Binary, tok.Position)
	node.Op = op.Tag
	node.Left = left
	node.Right = right
	return node, nil
}

// parseAtom parses a prefix ("nud") construct: a literal, identifier,
// prefix unary operator, or parenthesized sub-expression.
func (p *Parser) parseAtom() (*ast.Node, error) {
	tok := p.peek()

	switch tok.Type {
	case token.Constant, token.Embedded:
		p.advance()
		node := p.arena.Alloc(ast.Value, tok.Position)
		node.Token = tok
		return node, nil

	case token.Identifier:
		p.advance()
		node := p.arena.Alloc(ast.Identifier, tok.Position)
		node.Token = tok
		return node, nil

	case token.Operator:
		if tag, ok := prefixUnaryTag(tok.Literal); ok {
			p.advance()
			op := ast.Describe(tag)
			operand, err := p.parseExpression(op.Precedence)
			if err != nil {
				return nil, err
			}
			node := p.arena.Alloc(ast.Unary, tok.Position)
			node.Op = tag
			node.Operand = operand
			return node, nil
		}
		return nil, xerrors.NewSyntaxError(xerrors.ErrUnexpectedToken, "operator cannot start an expression", tok.Position, tok.Literal)

	case token.Punctuation:
		if tok.Literal == "(" {
			p.advance()
			inner, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
		return nil, xerrors.NewSyntaxError(xerrors.ErrUnexpectedToken, "unexpected punctuation", tok.Position, tok.Literal)

	case token.EOF:
		return nil, xerrors.NewSyntaxError(xerrors.ErrEmptyExpression, "unexpected end of expression", tok.Position, "")

	default:
		return nil, xerrors.NewSyntaxError(xerrors.ErrUnexpectedToken, "unexpected token", tok.Position, tok.Literal)
	}
}

// prefixUnaryTag maps a prefix operator literal to its unary operation tag.
// `-` and `+` are shared with the binary subtraction/addition literals; in
// prefix ("nud") position they are always the unary `-x`/`+x` forms.
func prefixUnaryTag(literal string) (ast.OpTag, bool) {
	switch literal {
	case "!":
		return ast.OpNot, true
	case "~":
		return ast.OpBitNot, true
	case "-":
		return ast.OpNeg, true
	case "+":
		return ast.OpPos, true
	default:
		return ast.OpNone, false
	}
}

func (p *Parser) parseAccessProperty(object *ast.Node) (*ast.Node, error) {
	dot := p.advance() // consume '.'
	tok := p.peek()
	if tok.Type != token.Identifier {
		return nil, xerrors.NewSyntaxError(xerrors.ErrExpectedIdentifier, "expected identifier after '.'", tok.Position, tok.Literal)
	}
	p.advance()
	node := p.arena.Alloc(ast.AccessProperty, dot.Position)
	node.Object = object
	node.Property = tok.Literal
	return node, nil
}

func (p *Parser) parseInvoke(callee *ast.Node) (*ast.Node, error) {
	open := p.advance() // consume '('
	args, err := p.parseArgList(")")
	if err != nil {
		return nil, err
	}
	node := p.arena.Alloc(ast.Invoke, open.Position)
	node.Callee = callee
	node.Arguments = args
	return node, nil
}

// parseArgList parses a comma-separated expression list up to (and
// consuming) the closing punctuation `end`. A trailing comma is tolerated
// and an empty list is allowed.
func (p *Parser) parseArgList(end string) ([]*ast.Node, error) {
	var args []*ast.Node
	if p.atPunct(end) {
		p.advance()
		return args, nil
	}
	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
		if p.atPunct(",") {
			p.advance()
			if p.atPunct(end) {
				break // trailing comma
			}
			continue
		}
		break
	}
	if err := p.expectPunct(end); err != nil {
		return nil, err
	}
	return args, nil
}

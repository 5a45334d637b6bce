// Package token defines the lexical token vocabulary produced by pkg/lexer
// and consumed by pkg/parser.
package token

// Type identifies the lexical category of a Token.
type Type uint8

const (
	// Embedded carries a host value that filled a `${}` slot in a tagged
	// template fragment. It has no literal text of its own.
	Embedded Type = iota
	// Constant is a decoded literal: integer, float, big-integer, or string.
	Constant
	// Identifier is a bound name: unicode ID_Start + ID_Continue, plus $ and _.
	Identifier
	// Operator is one of the recognized operator literals (see the operators list in pkg/lexer).
	Operator
	// Punctuation is one of ( ) [ ] { } , . :
	Punctuation
	// Whitespace is a run of space/tab/newline, normally filtered before parsing.
	Whitespace
	// EOF marks the end of the token stream.
	EOF
)

func (t Type) String() string {
	switch t {
	case Embedded:
		return "embedded"
	case Constant:
		return "constant"
	case Identifier:
		return "identifier"
	case Operator:
		return "operator"
	case Punctuation:
		return "punctuation"
	case Whitespace:
		return "whitespace"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// ConstKind distinguishes the decoded value carried by a Constant token.
type ConstKind uint8

const (
	// ConstInt is a value that fits an int64 without a fractional part or exponent.
	ConstInt ConstKind = iota
	// ConstFloat is a floating point value (contains '.' or an exponent).
	ConstFloat
	// ConstBigInt is an arbitrary-precision integer, marked with a trailing 'n'.
	ConstBigInt
	// ConstString is a single- or double-quoted string literal.
	ConstString
)

// Token is a single lexical unit produced by the tokenizer.
//
// Every token other than Embedded and EOF has a non-empty Literal, except a
// string Constant for an empty string, whose Literal is the (empty) text
// between its quotes. Embedded tokens carry the original host value unchanged by value identity in
// Value; Constant tokens carry their decoded value in Value and record
// which decoding rule applied in Kind.
type Token struct {
	Type     Type
	Literal  string // source text; empty for Embedded and EOF
	Value    interface{}
	Kind     ConstKind // meaningful only when Type == Constant
	Position int       // byte offset into the fragment that produced this token
	Fragment int       // index of the source fragment this token came from
}

// IsOperator reports whether the token's literal matches op.
func (t Token) IsOperator(op string) bool {
	return t.Type == Operator && t.Literal == op
}

// IsPunct reports whether the token's literal matches p.
func (t Token) IsPunct(p string) bool {
	return t.Type == Punctuation && t.Literal == p
}

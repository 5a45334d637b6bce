package ast

import "github.com/sandrolain/tagexpr/pkg/token"

// NodeType identifies the shape of an expression tree node.
type NodeType uint8

const (
	Value NodeType = iota
	Identifier
	Unary
	Binary
	AccessProperty
	Indexing
	Slicing
	Invoke
)

func (t NodeType) String() string {
	switch t {
	case Value:
		return "value"
	case Identifier:
		return "identifier"
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	case AccessProperty:
		return "access-property"
	case Indexing:
		return "indexing"
	case Slicing:
		return "slicing"
	case Invoke:
		return "invoke"
	default:
		return "unknown"
	}
}

// Dimension is one comma-separated slice-or-index specification inside a
// Slicing node's brackets. Each dimension carries up to three optional
// sub-expressions (Start, End, Step). A dimension with all three nil is the
// "empty" dimension produced by `[:]` / `[::]`.
type Dimension struct {
	Start *Node
	End   *Node
	Step  *Node
}

// Node is a single expression-tree node.
//
// Only the fields relevant to Type are populated; the rest stay at their
// zero value. This mirrors a tagged-union via a flat struct.
type Node struct {
	Type NodeType

	// Value / Identifier
	Token token.Token // originating Constant/Embedded token, or identifier name in Token.Literal

	// Unary
	Op      OpTag
	Operand *Node

	// Binary
	Left  *Node
	Right *Node

	// AccessProperty
	Object   *Node
	Property string

	// Indexing
	Target *Node
	Index  *Node

	// Slicing (reuses Target)
	Dimensions []Dimension

	// Invoke
	Callee    *Node
	Arguments []*Node

	Position int
}

// IdentifierName returns the bound name of an Identifier node.
func (n *Node) IdentifierName() string { return n.Token.Literal }

// arenaChunkSize nodes are pre-allocated per chunk; most expressions parsed
// from a single template fit in one chunk.
const arenaChunkSize = 64

// Arena is a bump-pointer allocator for Node values, avoiding one
// heap allocation per AST node during parsing.
//
// Arena is NOT thread-safe: each parser owns its own arena and it is never
// shared across goroutines mid-parse. Once parsing completes the resulting
// tree (and the arena backing it) is safe to read concurrently, same as any
// other immutable value.
type Arena struct {
	chunks [][]Node
	pos    int
}

// NewArena allocates an arena pre-warmed with one initial chunk.
func NewArena() *Arena {
	return &Arena{chunks: [][]Node{make([]Node, arenaChunkSize)}}
}

// Alloc returns a pointer to a zero-valued Node inside the arena with Type
// and Position set. All other fields must be filled in by the caller.
func (a *Arena) Alloc(t NodeType, position int) *Node {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]Node, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = t
	n.Position = position
	return n
}

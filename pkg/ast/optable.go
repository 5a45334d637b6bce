package ast

import (
	"math"
	"math/big"

	"github.com/sandrolain/tagexpr/pkg/xerrors"
)

// OpTag is a process-unique, stable identity for an operation. It is the
// key a host class may answer on itself (through registry.Overloadable) to
// declare an overload without touching any Engine instance — see
// pkg/registry.
type OpTag uint8

const (
	OpNone OpTag = iota

	// Unary
	OpNot    // !
	OpBitNot // ~
	OpNeg    // -x
	OpPos    // +x

	// Binary arithmetic
	OpAdd // +
	OpSub // -
	OpMul // *
	OpDiv // /
	OpMod // %
	OpPow // **

	// Binary bitwise shifts
	OpShl  // <<
	OpShr  // >>
	OpUShr // >>>

	// Binary bitwise
	OpBitAnd // &
	OpBitOr  // |
	OpBitXor // ^

	// Binary logical
	OpAnd // &&
	OpOr  // ||

	// Binary equality
	OpEq        // ==
	OpStrictEq  // ===
	OpNotEq     // !=
	OpStrictNEq // !==

	// Binary ordering
	OpLt // <
	OpGt // >
	OpLe // <=
	OpGe // >=

	// Subscripting
	OpIndex // [i]
	OpSlice // [:]
)

// Kind classifies an operation descriptor.
type Kind uint8

const (
	KindUnary Kind = iota
	KindBinary
	KindOther
)

// Assoc is the associativity of a binary operator.
type Assoc uint8

const (
	LeftAssoc Assoc = iota
	RightAssoc
)

// UnaryFunc is the native fallback implementing an operation's default
// semantics on a primitive operand.
type UnaryFunc func(operand interface{}) (interface{}, error)

// BinaryFunc is the native fallback for a binary operation on primitive
// operands, invoked when no overload applies.
type BinaryFunc func(left, right interface{}) (interface{}, error)

// Operation is the registry entry for one operation: its kind, display
// literal, precedence (higher binds tighter), associativity, stable tag,
// and native fallback. The parser never invents precedence or
// associativity — it always consults this table.
type Operation struct {
	Kind       Kind
	Literal    string
	Precedence int
	Assoc      Assoc
	Tag        OpTag
	Unary      UnaryFunc
	Binary     BinaryFunc
}

// operations is the single source of truth for operator metadata. Both the
// parser (precedence/associativity) and the evaluator (native fallbacks)
// read from it; a class's declared overload always takes priority over the
// Binary/Unary fallback stored here (see pkg/registry).
var operations = map[OpTag]*Operation{
	OpNot:    {Kind: KindUnary, Literal: "!", Precedence: 10, Tag: OpNot, Unary: nativeNot},
	OpBitNot: {Kind: KindUnary, Literal: "~", Precedence: 10, Tag: OpBitNot, Unary: nativeBitNot},
	OpNeg:    {Kind: KindUnary, Literal: "-x", Precedence: 10, Tag: OpNeg, Unary: nativeNeg},
	OpPos:    {Kind: KindUnary, Literal: "+x", Precedence: 10, Tag: OpPos, Unary: nativePos},

	OpPow: {Kind: KindBinary, Literal: "**", Precedence: 11, Assoc: RightAssoc, Tag: OpPow, Binary: nativePow},
	OpMul: {Kind: KindBinary, Literal: "*", Precedence: 10, Assoc: LeftAssoc, Tag: OpMul, Binary: nativeMul},
	OpDiv: {Kind: KindBinary, Literal: "/", Precedence: 10, Assoc: LeftAssoc, Tag: OpDiv, Binary: nativeDiv},
	OpMod: {Kind: KindBinary, Literal: "%", Precedence: 10, Assoc: LeftAssoc, Tag: OpMod, Binary: nativeMod},
	OpAdd: {Kind: KindBinary, Literal: "+", Precedence: 9, Assoc: LeftAssoc, Tag: OpAdd, Binary: nativeAdd},
	OpSub: {Kind: KindBinary, Literal: "-", Precedence: 9, Assoc: LeftAssoc, Tag: OpSub, Binary: nativeSub},

	OpShl:  {Kind: KindBinary, Literal: "<<", Precedence: 8, Assoc: LeftAssoc, Tag: OpShl, Binary: nativeShl},
	OpShr:  {Kind: KindBinary, Literal: ">>", Precedence: 8, Assoc: LeftAssoc, Tag: OpShr, Binary: nativeShr},
	OpUShr: {Kind: KindBinary, Literal: ">>>", Precedence: 8, Assoc: LeftAssoc, Tag: OpUShr, Binary: nativeUShr},

	OpLt: {Kind: KindBinary, Literal: "<", Precedence: 7, Assoc: LeftAssoc, Tag: OpLt, Binary: nativeLt},
	OpGt: {Kind: KindBinary, Literal: ">", Precedence: 7, Assoc: LeftAssoc, Tag: OpGt, Binary: nativeGt},
	OpLe: {Kind: KindBinary, Literal: "<=", Precedence: 7, Assoc: LeftAssoc, Tag: OpLe, Binary: nativeLe},
	OpGe: {Kind: KindBinary, Literal: ">=", Precedence: 7, Assoc: LeftAssoc, Tag: OpGe, Binary: nativeGe},

	OpEq:        {Kind: KindBinary, Literal: "==", Precedence: 6, Assoc: LeftAssoc, Tag: OpEq, Binary: nativeEq},
	OpStrictEq:  {Kind: KindBinary, Literal: "===", Precedence: 6, Assoc: LeftAssoc, Tag: OpStrictEq, Binary: nativeStrictEq},
	OpNotEq:     {Kind: KindBinary, Literal: "!=", Precedence: 6, Assoc: LeftAssoc, Tag: OpNotEq, Binary: nativeNotEq},
	OpStrictNEq: {Kind: KindBinary, Literal: "!==", Precedence: 6, Assoc: LeftAssoc, Tag: OpStrictNEq, Binary: nativeStrictNotEq},

	OpBitAnd: {Kind: KindBinary, Literal: "&", Precedence: 5, Assoc: LeftAssoc, Tag: OpBitAnd, Binary: nativeBitAnd},
	OpBitXor: {Kind: KindBinary, Literal: "^", Precedence: 4, Assoc: LeftAssoc, Tag: OpBitXor, Binary: nativeBitXor},
	OpBitOr:  {Kind: KindBinary, Literal: "|", Precedence: 3, Assoc: LeftAssoc, Tag: OpBitOr, Binary: nativeBitOr},

	OpAnd: {Kind: KindBinary, Literal: "&&", Precedence: 2, Assoc: LeftAssoc, Tag: OpAnd, Binary: nativeAnd},
	OpOr:  {Kind: KindBinary, Literal: "||", Precedence: 1, Assoc: LeftAssoc, Tag: OpOr, Binary: nativeOr},

	OpIndex: {Kind: KindOther, Literal: "[i]", Tag: OpIndex},
	OpSlice: {Kind: KindOther, Literal: "[:]", Tag: OpSlice},
}

// unaryByLiteral / binaryByLiteral let the parser resolve a token's literal
// to its operation without hard-coding the mapping in two places.
var unaryByLiteral = map[string]OpTag{"!": OpNot, "~": OpBitNot, "-x": OpNeg, "+x": OpPos}

var binaryByLiteral = map[string]OpTag{
	"**": OpPow, "*": OpMul, "/": OpDiv, "%": OpMod, "+": OpAdd, "-": OpSub,
	"<<": OpShl, ">>": OpShr, ">>>": OpUShr,
	"<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe,
	"==": OpEq, "===": OpStrictEq, "!=": OpNotEq, "!==": OpStrictNEq,
	"&": OpBitAnd, "^": OpBitXor, "|": OpBitOr,
	"&&": OpAnd, "||": OpOr,
}

// LookupUnary resolves an operator literal to its unary Operation descriptor.
func LookupUnary(literal string) (*Operation, bool) {
	tag, ok := unaryByLiteral[literal]
	if !ok {
		return nil, false
	}
	return operations[tag], true
}

// LookupBinary resolves an operator literal to its binary Operation descriptor.
func LookupBinary(literal string) (*Operation, bool) {
	tag, ok := binaryByLiteral[literal]
	if !ok {
		return nil, false
	}
	return operations[tag], true
}

// Describe returns the Operation descriptor for a tag. Panics (via
// xerrors.Fail) if the tag is unregistered — every tag in this package is
// registered at init time, so a miss means a caller fabricated a tag value.
func Describe(tag OpTag) *Operation {
	op, ok := operations[tag]
	if !ok {
		xerrors.Fail("ast: no operation registered for tag %d", tag)
	}
	return op
}

// Name returns the registration-key string for a tag — the same string an
// Engine's overload API accepts.
func (o *Operation) Name() string { return o.Literal }

// ---- native fallbacks -------------------------------------------------
//
// These implement the default unary/binary semantics on primitive
// operands (bool, string, and the numeric tower of int64/float64/*big.Int).
// They are invoked only when overload resolution (pkg/registry) finds no
// applicable class overload.

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case *big.Int:
		f := new(big.Float).SetInt(n)
		out, _ := f.Float64()
		return out, true
	}
	return 0, false
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case *big.Int:
		return n.Int64(), true
	}
	return 0, false
}

func bothBigInt(l, r interface{}) (*big.Int, *big.Int, bool) {
	lb, lok := l.(*big.Int)
	rb, rok := r.(*big.Int)
	if lok && rok {
		return lb, rb, true
	}
	if lok {
		if rf, ok := toInt64(r); ok {
			return lb, big.NewInt(rf), true
		}
	}
	if rok {
		if lf, ok := toInt64(l); ok {
			return big.NewInt(lf), rb, true
		}
	}
	return nil, nil, false
}

func badOperand(op string, v interface{}) error {
	return xerrors.NewEvalError(xerrors.ErrBadOperand, "operator "+op+" is not defined for this operand type", -1)
}

func nativeNot(v interface{}) (interface{}, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, badOperand("!", v)
	}
	return !b, nil
}

func nativeBitNot(v interface{}) (interface{}, error) {
	if bi, ok := v.(*big.Int); ok {
		return new(big.Int).Not(bi), nil
	}
	i, ok := toInt64(v)
	if !ok {
		return nil, badOperand("~", v)
	}
	return ^i, nil
}

func nativeNeg(v interface{}) (interface{}, error) {
	if bi, ok := v.(*big.Int); ok {
		return new(big.Int).Neg(bi), nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil, badOperand("-x", v)
	}
	return -f, nil
}

func nativePos(v interface{}) (interface{}, error) {
	if bi, ok := v.(*big.Int); ok {
		return new(big.Int).Set(bi), nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil, badOperand("+x", v)
	}
	return f, nil
}

func nativeAdd(l, r interface{}) (interface{}, error) {
	if lb, rb, ok := bothBigInt(l, r); ok {
		return new(big.Int).Add(lb, rb), nil
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		if ls, ok := l.(string); ok {
			if rs, ok := r.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, badOperand("+", l)
	}
	return lf + rf, nil
}

func nativeSub(l, r interface{}) (interface{}, error) {
	if lb, rb, ok := bothBigInt(l, r); ok {
		return new(big.Int).Sub(lb, rb), nil
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, badOperand("-", l)
	}
	return lf - rf, nil
}

func nativeMul(l, r interface{}) (interface{}, error) {
	if lb, rb, ok := bothBigInt(l, r); ok {
		return new(big.Int).Mul(lb, rb), nil
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, badOperand("*", l)
	}
	return lf * rf, nil
}

func nativeDiv(l, r interface{}) (interface{}, error) {
	if lb, rb, ok := bothBigInt(l, r); ok {
		if rb.Sign() == 0 {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "division by zero", -1)
		}
		return new(big.Int).Quo(lb, rb), nil
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, badOperand("/", l)
	}
	if rf == 0 {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "division by zero", -1)
	}
	return lf / rf, nil
}

func nativeMod(l, r interface{}) (interface{}, error) {
	if lb, rb, ok := bothBigInt(l, r); ok {
		if rb.Sign() == 0 {
			return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "modulo by zero", -1)
		}
		return new(big.Int).Rem(lb, rb), nil
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, badOperand("%", l)
	}
	if rf == 0 {
		return nil, xerrors.NewEvalError(xerrors.ErrBadOperand, "modulo by zero", -1)
	}
	return math.Mod(lf, rf), nil
}

func nativePow(l, r interface{}) (interface{}, error) {
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, badOperand("**", l)
	}
	return math.Pow(lf, rf), nil
}

func nativeShl(l, r interface{}) (interface{}, error) {
	li, lok := toInt64(l)
	ri, rok := toInt64(r)
	if !lok || !rok {
		return nil, badOperand("<<", l)
	}
	return li << uint(ri), nil
}

func nativeShr(l, r interface{}) (interface{}, error) {
	li, lok := toInt64(l)
	ri, rok := toInt64(r)
	if !lok || !rok {
		return nil, badOperand(">>", l)
	}
	return li >> uint(ri), nil
}

func nativeUShr(l, r interface{}) (interface{}, error) {
	li, lok := toInt64(l)
	ri, rok := toInt64(r)
	if !lok || !rok {
		return nil, badOperand(">>>", l)
	}
	return int64(uint64(li) >> uint(ri)), nil
}

func nativeBitAnd(l, r interface{}) (interface{}, error) {
	li, lok := toInt64(l)
	ri, rok := toInt64(r)
	if !lok || !rok {
		return nil, badOperand("&", l)
	}
	return li & ri, nil
}

func nativeBitOr(l, r interface{}) (interface{}, error) {
	li, lok := toInt64(l)
	ri, rok := toInt64(r)
	if !lok || !rok {
		return nil, badOperand("|", l)
	}
	return li | ri, nil
}

func nativeBitXor(l, r interface{}) (interface{}, error) {
	li, lok := toInt64(l)
	ri, rok := toInt64(r)
	if !lok || !rok {
		return nil, badOperand("^", l)
	}
	return li ^ ri, nil
}

func nativeAnd(l, r interface{}) (interface{}, error) {
	lb, lok := l.(bool)
	if !lok {
		return nil, badOperand("&&", l)
	}
	if !lb {
		return false, nil
	}
	rb, rok := r.(bool)
	if !rok {
		return nil, badOperand("&&", r)
	}
	return rb, nil
}

func nativeOr(l, r interface{}) (interface{}, error) {
	lb, lok := l.(bool)
	if !lok {
		return nil, badOperand("||", l)
	}
	if lb {
		return true, nil
	}
	rb, rok := r.(bool)
	if !rok {
		return nil, badOperand("||", r)
	}
	return rb, nil
}

func nativeEq(l, r interface{}) (interface{}, error) { return looseEqual(l, r), nil }

func nativeNotEq(l, r interface{}) (interface{}, error) {
	return !looseEqual(l, r), nil
}

func nativeStrictEq(l, r interface{}) (interface{}, error) {
	return strictEqual(l, r), nil
}

func nativeStrictNotEq(l, r interface{}) (interface{}, error) {
	return !strictEqual(l, r), nil
}

func looseEqual(l, r interface{}) bool {
	if lf, ok := toFloat(l); ok {
		if rf, ok := toFloat(r); ok {
			return lf == rf
		}
	}
	return strictEqual(l, r)
}

func strictEqual(l, r interface{}) bool {
	if lb, ok := l.(*big.Int); ok {
		if rb, ok := r.(*big.Int); ok {
			return lb.Cmp(rb) == 0
		}
		return false
	}
	return l == r
}

func compareNums(l, r interface{}) (int, bool) {
	if lb, rb, ok := bothBigInt(l, r); ok {
		return lb.Cmp(rb), true
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return 0, false
	}
	switch {
	case lf < rf:
		return -1, true
	case lf > rf:
		return 1, true
	default:
		return 0, true
	}
}

func nativeLt(l, r interface{}) (interface{}, error) {
	if c, ok := compareNums(l, r); ok {
		return c < 0, nil
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			return ls < rs, nil
		}
	}
	return nil, badOperand("<", l)
}

func nativeGt(l, r interface{}) (interface{}, error) {
	if c, ok := compareNums(l, r); ok {
		return c > 0, nil
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			return ls > rs, nil
		}
	}
	return nil, badOperand(">", l)
}

func nativeLe(l, r interface{}) (interface{}, error) {
	if c, ok := compareNums(l, r); ok {
		return c <= 0, nil
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			return ls <= rs, nil
		}
	}
	return nil, badOperand("<=", l)
}

func nativeGe(l, r interface{}) (interface{}, error) {
	if c, ok := compareNums(l, r); ok {
		return c >= 0, nil
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			return ls >= rs, nil
		}
	}
	return nil, badOperand(">=", l)
}

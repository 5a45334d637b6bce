package lexer

import (
	"math/big"
	"testing"

	"github.com/sandrolain/tagexpr/pkg/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := Tokenize([]string{src}, nil, Options{})
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return toks
}

func TestTokenizeArithmetic(t *testing.T) {
	toks := tokenize(t, "2 + 3 * 4")
	want := []string{"2", "+", "3", "*", "4"}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, lit := range want {
		if toks[i].Literal != lit {
			t.Fatalf("token %d: got %q, want %q", i, toks[i].Literal, lit)
		}
	}
}

func TestTokenizeWhitespaceInsensitive(t *testing.T) {
	a := tokenize(t, "2+3 * 4")
	b := tokenize(t, "  2  +  3*4  ")
	if len(a) != len(b) {
		t.Fatalf("whitespace variation changed token count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Literal != b[i].Literal || a[i].Type != b[i].Type {
			t.Fatalf("token %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestTokenizeLongestMatchOperators(t *testing.T) {
	toks := tokenize(t, "a === b !== c >>> d")
	ops := []string{}
	for _, tk := range toks {
		if tk.Type == token.Operator {
			ops = append(ops, tk.Literal)
		}
	}
	want := []string{"===", "!==", ">>>"}
	if len(ops) != len(want) {
		t.Fatalf("got operators %v, want %v", ops, want)
	}
	for i, op := range want {
		if ops[i] != op {
			t.Fatalf("operator %d: got %q, want %q", i, ops[i], op)
		}
	}
}

func TestTokenizeEmbeddedValue(t *testing.T) {
	toks, err := Tokenize([]string{"", " + ", ""}, []interface{}{1, 2}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %+v", len(toks), toks)
	}
	if toks[0].Type != token.Embedded || toks[0].Value != 1 {
		t.Fatalf("token 0: %+v", toks[0])
	}
	if toks[1].Literal != "+" {
		t.Fatalf("token 1: %+v", toks[1])
	}
	if toks[2].Type != token.Embedded || toks[2].Value != 2 {
		t.Fatalf("token 2: %+v", toks[2])
	}
}

func TestTokenizeNumberKinds(t *testing.T) {
	cases := []struct {
		src  string
		kind token.ConstKind
	}{
		{"42", token.ConstInt},
		{"3.14", token.ConstFloat},
		{"1e-4", token.ConstFloat},
		{"1E-4", token.ConstFloat},
		{"123n", token.ConstBigInt},
	}
	for _, c := range cases {
		toks := tokenize(t, c.src)
		if len(toks) != 1 {
			t.Fatalf("%q: got %d tokens, want 1", c.src, len(toks))
		}
		if toks[0].Kind != c.kind {
			t.Fatalf("%q: got kind %d, want %d", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestTokenizeScientificNotationEquivalence(t *testing.T) {
	a := tokenize(t, "1e-4")
	b := tokenize(t, "1E-4")
	if a[0].Value.(float64) != b[0].Value.(float64) {
		t.Fatalf("1e-4 != 1E-4: %v vs %v", a[0].Value, b[0].Value)
	}
}

func TestTokenizeBigIntValue(t *testing.T) {
	toks := tokenize(t, "123n")
	bi, ok := toks[0].Value.(*big.Int)
	if !ok {
		t.Fatalf("expected *big.Int, got %T", toks[0].Value)
	}
	if bi.String() != "123" {
		t.Fatalf("got %s, want 123", bi.String())
	}
}

func TestTokenizeNumberDotDisambiguation(t *testing.T) {
	toks := tokenize(t, "2.toFixed")
	want := []string{"2", ".", "toFixed"}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, lit := range want {
		if toks[i].Literal != lit {
			t.Fatalf("token %d: got %q, want %q", i, toks[i].Literal, lit)
		}
	}
}

func TestTokenizeLeadingDotNumber(t *testing.T) {
	toks := tokenize(t, ".5")
	if len(toks) != 1 || toks[0].Kind != token.ConstFloat {
		t.Fatalf("expected single float constant, got %+v", toks)
	}
	if toks[0].Value.(float64) != 0.5 {
		t.Fatalf("got %v, want 0.5", toks[0].Value)
	}
}

func TestTokenizeStrings(t *testing.T) {
	toks := tokenize(t, `"ha" + 'ha'`)
	if toks[0].Value != "ha" || toks[2].Value != "ha" {
		t.Fatalf("got %+v", toks)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\"b\\c\n"`)
	want := "a\"b\\c\n"
	if toks[0].Value != want {
		t.Fatalf("got %q, want %q", toks[0].Value, want)
	}
}

func TestTokenizeUnicodeIdentifiers(t *testing.T) {
	for _, name := range []string{"你好", "Привет", "مرحبا"} {
		toks := tokenize(t, name)
		if len(toks) != 1 || toks[0].Type != token.Identifier {
			t.Fatalf("%q: expected single identifier token, got %+v", name, toks)
		}
		if toks[0].Literal != name {
			t.Fatalf("%q: literal mismatch, got %q", name, toks[0].Literal)
		}
	}
}

func TestTokenizeUnicodeEscape(t *testing.T) {
	toks := tokenize(t, `\u{41}bc`)
	if len(toks) != 1 || toks[0].Literal != "Abc" {
		t.Fatalf("expected identifier Abc, got %+v", toks)
	}
}

func TestTokenizeUnknownCodePointFails(t *testing.T) {
	_, err := Tokenize([]string{"2 @ 3"}, nil, Options{})
	if err == nil {
		t.Fatal("expected TokenizingError for '@'")
	}
}

func TestTokenizeKeepWhitespace(t *testing.T) {
	toks, err := Tokenize([]string{"1 + 2"}, nil, Options{KeepWhitespace: true})
	if err != nil {
		t.Fatal(err)
	}
	hasWS := false
	for _, tk := range toks {
		if tk.Type == token.Whitespace {
			hasWS = true
		}
	}
	if !hasWS {
		t.Fatal("expected whitespace tokens retained")
	}
}

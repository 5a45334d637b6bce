// Package lexer scans tagged-template fragments interleaved with embedded
// host values into a token stream.
//
// The scanning style — a start/current/width cursor with accept/backup
// helpers — follows Rob Pike's "Lexical Scanning in Go" technique.
package lexer

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/sandrolain/tagexpr/pkg/token"
	"github.com/sandrolain/tagexpr/pkg/xerrors"
)

const eof = -1

// operators lists every recognized operator literal, longest first, so a
// left-to-right longest-match scan never mistakes `===` for `==` followed
// by `=`.
var operators = func() []string {
	ops := []string{
		"===", "!==", ">>>",
		"==", "!=", "**", ">>", "<<", "&&", "||", "<=", ">=",
		"+", "-", "*", "/", "%", "&", "|", "^", "<", ">", "!", "~",
	}
	sort.SliceStable(ops, func(i, j int) bool { return len(ops[i]) > len(ops[j]) })
	return ops
}()

const punctuation = "()[]{},:."

// Options configures tokenizer behavior.
type Options struct {
	// KeepWhitespace retains Whitespace tokens in the output instead of
	// filtering them, for diagnostic callers.
	KeepWhitespace bool
}

// Tokenize scans fragments interleaved with values into a token stream.
// len(fragments) must equal len(values)+1 (fragments f0..fn, values
// v0..vn-1). A plain-string call passes a single fragment and no values.
func Tokenize(fragments []string, values []interface{}, opts Options) ([]token.Token, error) {
	if len(fragments) == 0 {
		return nil, xerrors.NewSyntaxError(xerrors.ErrEmptyExpression, "no source fragments", 0, "")
	}
	if len(fragments) != len(values)+1 {
		xerrors.Fail("lexer: expected %d fragments for %d embedded values, got %d", len(values)+1, len(values), len(fragments))
	}

	var out []token.Token
	for i, frag := range fragments {
		toks, err := scanFragment(i, frag, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, toks...)
		if i < len(values) {
			out = append(out, token.Token{Type: token.Embedded, Value: values[i], Fragment: i})
		}
	}
	return out, nil
}

// scanFragment tokenizes a single source fragment, with unicode escapes
// pre-expanded.
func scanFragment(fragIdx int, raw string, opts Options) ([]token.Token, error) {
	src := expandUnicodeEscapes(raw)
	s := &scanner{input: src, length: len(src), fragment: fragIdx}

	var out []token.Token
	for {
		tok, err := s.next(opts)
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.Whitespace && !opts.KeepWhitespace {
			continue
		}
		out = append(out, tok)
	}
	return out, nil
}

// scanner tokenizes one fragment's source text.
type scanner struct {
	input    string
	length   int
	start    int
	current  int
	width    int
	fragment int
}

func (s *scanner) next(opts Options) (token.Token, error) {
	if ws := s.scanWhitespace(); ws != "" {
		return token.Token{Type: token.Whitespace, Literal: ws, Position: s.start - len(ws), Fragment: s.fragment}, nil
	}

	ch := s.peekRune()
	if ch == eof {
		return token.Token{Type: token.EOF, Position: s.current, Fragment: s.fragment}, nil
	}

	// A '.' is either the path-access punctuation, or the leading dot of a
	// fractional number like `.5` — the grammar disambiguates by lookahead.
	if ch == '.' {
		// '.' is always one byte (ASCII); peek one byte past it for the
		// lookahead digit that disambiguates a fractional number from the
		// path-access punctuation.
		if next := s.peekRuneAt(s.current + 1); isDigit(next) {
			return s.scanNumber(), nil
		}
	}

	if isDigit(ch) {
		return s.scanNumber(), nil
	}

	if ch == '"' || ch == '\'' {
		return s.scanString(ch)
	}

	if op := s.matchOperator(); op != "" {
		s.current = s.start + len(op)
		return s.newToken(token.Operator), nil
	}

	if strings.ContainsRune(punctuation, ch) {
		s.nextRune()
		return s.newToken(token.Punctuation), nil
	}

	if isIdentStart(ch) {
		return s.scanIdentifier(), nil
	}

	r, _ := utf8.DecodeRuneInString(s.input[s.current:])
	return token.Token{}, xerrors.NewTokenizingError(s.fragment, s.input, s.current, r)
}

func (s *scanner) scanWhitespace() string {
	start := s.current
	for {
		ch := s.peekRune()
		if ch == eof || !isSpace(ch) {
			break
		}
		s.nextRune()
	}
	ws := s.input[start:s.current]
	s.start = s.current
	return ws
}

// matchOperator returns the longest operator literal matching the input at
// the current position, or "" if none matches.
func (s *scanner) matchOperator() string {
	rest := s.input[s.current:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	return ""
}

func (s *scanner) scanNumber() token.Token {
	s.acceptAll(isDigit)

	// Only consume the '.' as part of the number when a digit follows it —
	// otherwise it belongs to a following AccessProperty, e.g. `2.toFixed`.
	hasDot := false
	hasTrailing := false
	if s.peekRune() == '.' && isDigit(s.peekRuneAt(s.current+1)) {
		s.nextRune()
		hasDot = true
		hasTrailing = s.acceptAll(isDigit)
	}

	hasExponent := false
	if s.acceptRunes('e', 'E') {
		s.acceptRunes('+', '-')
		s.acceptAll(isDigit)
		hasExponent = true
	}

	isBig := s.acceptRune('n')

	lit := s.input[s.start:s.current]
	t := s.newToken(token.Constant)
	t.Literal = lit

	switch {
	case isBig:
		numPart := strings.TrimSuffix(lit, "n")
		bi, ok := newBigInt(numPart)
		if !ok {
			bi, _ = newBigInt("0")
		}
		t.Kind = token.ConstBigInt
		t.Value = bi
	case hasDot && hasTrailing || hasExponent:
		f, _ := strconv.ParseFloat(lit, 64)
		t.Kind = token.ConstFloat
		t.Value = f
	default:
		i, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			f, _ := strconv.ParseFloat(lit, 64)
			t.Kind = token.ConstFloat
			t.Value = f
		} else {
			t.Kind = token.ConstInt
			t.Value = i
		}
	}
	return t
}

func (s *scanner) scanString(quote rune) (token.Token, error) {
	s.nextRune() // consume opening quote
	s.start = s.current

	var b strings.Builder
	for {
		ch := s.nextRune()
		switch {
		case ch == eof:
			return token.Token{}, xerrors.NewTokenizingError(s.fragment, s.input, s.current, eof)
		case ch == quote:
			lit := s.input[s.start : s.current-s.width]
			t := token.Token{Type: token.Constant, Kind: token.ConstString, Literal: lit, Value: b.String(), Position: s.start, Fragment: s.fragment}
			s.start = s.current
			return t, nil
		case ch == '\\':
			esc := s.nextRune()
			switch esc {
			case quote:
				b.WriteRune(quote)
			case '\\':
				b.WriteRune('\\')
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case eof:
				return token.Token{}, xerrors.NewTokenizingError(s.fragment, s.input, s.current, eof)
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(ch)
		}
	}
}

func (s *scanner) scanIdentifier() token.Token {
	s.nextRune()
	for {
		ch := s.peekRune()
		if ch == eof || !isIdentContinue(ch) {
			break
		}
		s.nextRune()
	}
	t := s.newToken(token.Identifier)
	t.Literal = norm.NFC.String(t.Literal)
	return t
}

func (s *scanner) newToken(tt token.Type) token.Token {
	t := token.Token{
		Type:     tt,
		Literal:  s.input[s.start:s.current],
		Position: s.start,
		Fragment: s.fragment,
	}
	s.width = 0
	s.start = s.current
	return t
}

func (s *scanner) nextRune() rune {
	if s.current >= s.length {
		s.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.input[s.current:])
	s.width = w
	s.current += w
	return r
}

func (s *scanner) peekRune() rune {
	if s.current >= s.length {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.current:])
	return r
}

func (s *scanner) peekRuneAt(pos int) rune {
	if pos >= s.length {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.input[pos:])
	return r
}

func (s *scanner) backup() {
	s.current -= s.width
}

func (s *scanner) acceptRune(r rune) bool {
	if s.peekRune() == r {
		s.nextRune()
		return true
	}
	return false
}

func (s *scanner) acceptRunes(a, b rune) bool {
	if ch := s.peekRune(); ch == a || ch == b {
		s.nextRune()
		return true
	}
	return false
}

func (s *scanner) acceptAll(isValid func(rune) bool) bool {
	matched := false
	for isValid(s.peekRune()) {
		s.nextRune()
		matched = true
	}
	return matched
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}

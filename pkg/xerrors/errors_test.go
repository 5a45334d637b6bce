package xerrors

import "testing"

func TestNewTokenizingErrorExcerpt(t *testing.T) {
	src := "2 @ 3"
	err := NewTokenizingError(0, src, 2, '@')
	if err.Code != ErrUnknownCodePoint {
		t.Fatalf("got code %s, want %s", err.Code, ErrUnknownCodePoint)
	}
	if err.Error() == "" {
		t.Fatal("expected non-empty rendered error")
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	err := NewSyntaxError(ErrUnexpectedToken, "unexpected token", 4, ")")
	want := `P0007 at position 4 near ")": unexpected token`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestSyntaxErrorMessageWithoutToken(t *testing.T) {
	err := NewSyntaxError(ErrEmptyExpression, "empty expression", 0, "")
	want := "P0001 at position 0: empty expression"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestEvalErrorMessageNegativePosition(t *testing.T) {
	err := NewEvalError(ErrBadOperand, "bad operand", -1)
	want := "E0005: bad operand"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestFailPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Fail to panic")
		}
		if _, ok := r.(*InternalError); !ok {
			t.Fatalf("expected *InternalError, got %T", r)
		}
	}()
	Fail("invariant broken: %d", 42)
}

package lexer

import "math/big"

// newBigInt parses the decimal digits of a big-integer literal (the part
// before the trailing 'n' marker). Grounded on mcgru-funxy's bignum builtins,
// which likewise back oversized integer literals with *big.Int.
func newBigInt(digits string) (*big.Int, bool) {
	bi, ok := new(big.Int).SetString(digits, 10)
	return bi, ok
}

// Package bigmath provides exact decimal arithmetic for monetary values.
//
// All functions operate on decimal strings and return decimal strings.
// Intermediate results are carried at a wide fixed scale (64 fractional
// digits) so that chained operations never accumulate platform-dependent
// rounding drift. Reduction to the wide scale truncates toward negative
// infinity; display-level rounding (Round) is half-up.
package bigmath

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by intermediate results.
const Scale = 64

// ErrDivisionByZero is returned by Div when the divisor is zero.
var ErrDivisionByZero = errors.New("bigmath: division by zero")

// one unit in the last place of the wide scale, used for floor adjustment.
var ulp = decimal.New(1, -Scale)

// Valid reports whether s parses as a decimal number.
func Valid(s string) bool {
	_, err := decimal.NewFromString(s)
	return err == nil
}

func mustParse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("bigmath: invalid decimal %q: %v", s, err))
	}
	return d
}

// Add returns a + b truncated to the wide scale.
func Add(a, b string) string {
	return mustParse(a).Add(mustParse(b)).RoundFloor(Scale).String()
}

// Sub returns a - b truncated to the wide scale.
func Sub(a, b string) string {
	return mustParse(a).Sub(mustParse(b)).RoundFloor(Scale).String()
}

// Mul returns a * b truncated to the wide scale.
func Mul(a, b string) string {
	return mustParse(a).Mul(mustParse(b)).RoundFloor(Scale).String()
}

// Div returns a / b truncated toward negative infinity at the wide scale.
// It fails with ErrDivisionByZero when b is zero.
func Div(a, b string) (string, error) {
	da, db := mustParse(a), mustParse(b)
	if db.IsZero() {
		return "", ErrDivisionByZero
	}

	// QuoRem truncates toward zero; when the exact quotient is negative and
	// a remainder is left, step down one ulp to get the floor.
	q, r := da.QuoRem(db, Scale)
	if !r.IsZero() && da.Sign()*db.Sign() < 0 {
		q = q.Sub(ulp)
	}
	return q.String(), nil
}

// MustDiv is like Div but panics on a zero divisor. It is intended for call
// sites where the divisor is a constant or already validated.
func MustDiv(a, b string) string {
	q, err := Div(a, b)
	if err != nil {
		panic(err)
	}
	return q
}

// Pow returns a raised to the integer exponent n, truncated to the wide scale.
func Pow(a string, n int) string {
	return mustParse(a).Pow(decimal.NewFromInt(int64(n))).RoundFloor(Scale).String()
}

// PowTen returns 10^n. Exact for any n.
func PowTen(n int) string {
	return decimal.New(1, int32(n)).String()
}

// Ceil rounds a up to the nearest integer.
func Ceil(a string) string {
	return mustParse(a).RoundCeil(0).String()
}

// Floor rounds a down to the nearest integer.
func Floor(a string) string {
	return mustParse(a).RoundFloor(0).String()
}

// Round rounds a to the given number of decimal places, half-up.
func Round(a string, precision int) string {
	return mustParse(a).Round(int32(precision)).String()
}

// Fixed rounds a half-up and renders it with exactly precision decimal
// places, so "527" at precision 2 becomes "527.00".
func Fixed(a string, precision int) string {
	return mustParse(a).StringFixed(int32(precision))
}

// Abs returns the absolute value of a.
func Abs(a string) string {
	return mustParse(a).Abs().String()
}

// Negate returns -a.
func Negate(a string) string {
	return mustParse(a).Neg().String()
}

// IsZero reports whether a is numerically zero.
func IsZero(a string) bool {
	return mustParse(a).IsZero()
}

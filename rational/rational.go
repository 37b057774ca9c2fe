// Package rational implements exact fractions of unsigned integers.
//
// Probabilities in the Shannon coder are fractions count/total. Keeping them as integer ratios
// makes codeword lengths and codeword digits independent of floating point rounding.
package rational

import (
	"math/bits"
	"strconv"
)

// A Fraction is the value Num/Den.
// The zero value is not a valid fraction; construct one with New.
type Fraction struct {
	Num uint64
	Den uint64
}

// New returns the fraction num/den. It panics if den is zero.
func New(num, den uint64) Fraction {
	if den == 0 {
		panic("rational: zero denominator")
	}
	return Fraction{Num: num, Den: den}
}

// String returns the fraction as "num/den".
func (f Fraction) String() string {
	return strconv.FormatUint(f.Num, 10) + "/" + strconv.FormatUint(f.Den, 10)
}

// Less reports whether f < g.
func (f Fraction) Less(g Fraction) bool {
	if f.Den == g.Den {
		return f.Num < g.Num
	}
	// f.Num*g.Den < g.Num*f.Den, compared as 128-bit products.
	fhi, flo := bits.Mul64(f.Num, g.Den)
	ghi, glo := bits.Mul64(g.Num, f.Den)
	return fhi < ghi || (fhi == ghi && flo < glo)
}

// Equal reports whether f and g denote the same value.
func (f Fraction) Equal(g Fraction) bool {
	return !f.Less(g) && !g.Less(f)
}

// IsOne reports whether f equals 1.
func (f Fraction) IsOne() bool {
	return f.Num == f.Den
}

// Add returns f+g. Both fractions must share a denominator.
func (f Fraction) Add(g Fraction) Fraction {
	if f.Den != g.Den {
		panic("rational: adding fractions with different denominators")
	}
	sum, carry := bits.Add64(f.Num, g.Num, 0)
	if carry != 0 {
		panic("rational: numerator overflow")
	}
	return Fraction{Num: sum, Den: f.Den}
}

// double returns 2n-d if 2n >= d, otherwise 2n, together with the binary digit produced.
// It requires n < d and is exact for all uint64 values.
func double(n, d uint64) (uint64, uint64) {
	carry := n >> 63
	n <<= 1
	if carry == 1 || n >= d {
		return n - d, 1
	}
	return n, 0
}

// Digits returns the first p digits of the binary expansion of f, most significant first.
// f must be less than 1 and p must not exceed 64.
func (f Fraction) Digits(p int) uint64 {
	if p < 0 || p > 64 {
		panic("rational: precision out of range")
	}
	var out uint64
	n := f.Num
	for i := 0; i < p; i++ {
		var digit uint64
		n, digit = double(n, f.Den)
		out = out<<1 | digit
	}
	return out
}

// CodeLength returns ceil(log2(Den/Num)), the number of doublings of Num needed to reach Den.
// It returns 0 when f >= 1. Num must not be zero.
func (f Fraction) CodeLength() int {
	if f.Num == 0 {
		panic("rational: code length of zero probability")
	}
	l := 0
	for n := f.Num; n < f.Den; n <<= 1 {
		l++
		if n>>63 == 1 {
			break
		}
	}
	return l
}

// Sum adds fractions that share a denominator.
func Sum(den uint64, fs ...Fraction) Fraction {
	s := New(0, den)
	for _, f := range fs {
		s = s.Add(f)
	}
	return s
}

package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// MaxCodewordLen is the longest codeword, in bits.
// Codeword lengths are at most ceil(log2(TotalBlocks)), and TotalBlocks fits in 64 bits.
const MaxCodewordLen = 64

// A Codeword is a sequence of Len bits held in the low bits of Bits, first bit most significant.
// Len distinguishes codewords such as "000" and "00" that share a numeric value.
type Codeword struct {
	Len  uint8
	Bits uint64
}

// String returns the bits of c as a string of '0' and '1'.
func (c Codeword) String() string {
	if c.Len == 0 {
		return ""
	}
	return fmt.Sprintf("%0*b", int(c.Len), c.Bits)
}

// Append returns c extended by one bit.
func (c Codeword) Append(bit uint64) Codeword {
	return Codeword{Len: c.Len + 1, Bits: c.Bits<<1 | bit&1}
}

// HasPrefix reports whether p is a prefix of c.
func (c Codeword) HasPrefix(p Codeword) bool {
	if p.Len > c.Len {
		return false
	}
	return c.Bits>>(c.Len-p.Len) == p.Bits
}

// A Pair binds a block value to its codeword.
type Pair struct {
	Value    uint32
	Codeword Codeword
}

// A Dictionary maps block values to codewords and back.
// Both directions are built together, so the mapping is always a bijection.
type Dictionary struct {
	pairs   []Pair
	forward map[uint32]Codeword
	inverse map[Codeword]uint32
	maxLen  int
}

// NewDictionary builds a Dictionary from pairs, keeping their order.
// It fails if a value or a codeword appears twice, or if a codeword is empty or longer than MaxCodewordLen.
func NewDictionary(pairs []Pair) (*Dictionary, error) {
	d := &Dictionary{
		pairs:   make([]Pair, 0, len(pairs)),
		forward: make(map[uint32]Codeword, len(pairs)),
		inverse: make(map[Codeword]uint32, len(pairs)),
	}
	for _, p := range pairs {
		if p.Codeword.Len == 0 || p.Codeword.Len > MaxCodewordLen {
			return nil, errors.Errorf("value %d: codeword length %d", p.Value, p.Codeword.Len)
		}
		if _, ok := d.forward[p.Value]; ok {
			return nil, errors.Errorf("value %d appears twice", p.Value)
		}
		if v, ok := d.inverse[p.Codeword]; ok {
			return nil, errors.Errorf("codeword %s shared by values %d and %d", p.Codeword, v, p.Value)
		}
		d.forward[p.Value] = p.Codeword
		d.inverse[p.Codeword] = p.Value
		d.pairs = append(d.pairs, p)
		if int(p.Codeword.Len) > d.maxLen {
			d.maxLen = int(p.Codeword.Len)
		}
	}
	return d, nil
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.pairs)
}

// Pairs returns the entries in insertion order.
func (d *Dictionary) Pairs() []Pair {
	ps := make([]Pair, len(d.pairs))
	copy(ps, d.pairs)
	return ps
}

// Codeword returns the codeword of a block value.
func (d *Dictionary) Codeword(value uint32) (Codeword, bool) {
	c, ok := d.forward[value]
	return c, ok
}

// Value returns the block value of a codeword.
func (d *Dictionary) Value(c Codeword) (uint32, bool) {
	v, ok := d.inverse[c]
	return v, ok
}

// MaxLen returns the length of the longest codeword.
func (d *Dictionary) MaxLen() int {
	return d.maxLen
}

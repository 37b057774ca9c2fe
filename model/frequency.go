// Package model builds the static probability model of a Shannon code:
// the frequency of every block value in the input, and the codeword assigned to each value.
package model

import (
	"github.com/fumin/shannon/bitstream"
	"github.com/fumin/shannon/fault"
	"github.com/fumin/shannon/rational"
)

const (
	// MinBlockLength is the narrowest block, in bits.
	MinBlockLength = 1

	// MaxBlockLength is the widest block, in bits.
	MaxBlockLength = 16
)

// CheckBlockLength returns an Argument error if blockLength is not in [MinBlockLength, MaxBlockLength].
func CheckBlockLength(blockLength int) error {
	if blockLength < MinBlockLength || blockLength > MaxBlockLength {
		return fault.New(fault.Argument, "block length %d not in [%d, %d]", blockLength, MinBlockLength, MaxBlockLength)
	}
	return nil
}

// ScanBlocks reads the first bitLength bits of r in blocks of blockLength bits and calls fn for each.
// The final block is narrower when bitLength is not a multiple of blockLength.
func ScanBlocks(r *bitstream.Reader, bitLength uint64, blockLength int, fn func(value uint32, width int) error) error {
	if err := CheckBlockLength(blockLength); err != nil {
		return err
	}
	if bitLength > r.Remaining() {
		return fault.New(fault.Argument, "bit length %d exceeds the %d bits of the source", bitLength, r.Remaining())
	}
	for rem := bitLength; rem > 0; {
		width := blockLength
		if rem < uint64(blockLength) {
			width = int(rem)
		}
		v, err := r.ReadBits(width)
		if err != nil {
			return fault.Wrap(fault.IO, err, "read block at bit %d", r.Position())
		}
		if err := fn(uint32(v), width); err != nil {
			return err
		}
		rem -= uint64(width)
	}
	return nil
}

// Frequencies is the number of occurrences of every block value in an input.
type Frequencies struct {
	BlockLength     int
	LastBlockLength int
	BitLength       uint64
	TotalBlocks     uint64

	// Values lists the distinct block values in the order they were first seen.
	Values []uint32
	Counts map[uint32]uint64
}

// Count scans the first bitLength bits of r and tallies its blocks.
// The input must hold more than one block's worth of bits.
func Count(r *bitstream.Reader, bitLength uint64, blockLength int) (*Frequencies, error) {
	if err := CheckBlockLength(blockLength); err != nil {
		return nil, err
	}
	if bitLength <= uint64(blockLength) {
		return nil, fault.New(fault.Argument, "input of %d bits is too short for %d-bit blocks", bitLength, blockLength)
	}

	freq := &Frequencies{
		BlockLength:     blockLength,
		LastBlockLength: blockLength,
		BitLength:       bitLength,
		Counts:          make(map[uint32]uint64),
	}
	err := ScanBlocks(r, bitLength, blockLength, func(v uint32, width int) error {
		if _, ok := freq.Counts[v]; !ok {
			freq.Values = append(freq.Values, v)
		}
		freq.Counts[v]++
		freq.TotalBlocks++
		freq.LastBlockLength = width
		return nil
	})
	if err != nil {
		return nil, err
	}
	return freq, nil
}

// Short reports whether the last block is narrower than the others.
func (f *Frequencies) Short() bool {
	return f.LastBlockLength < f.BlockLength
}

// Probabilities returns count/TotalBlocks for every value, in first-seen order.
func (f *Frequencies) Probabilities() []rational.Fraction {
	ps := make([]rational.Fraction, 0, len(f.Values))
	for _, v := range f.Values {
		ps = append(ps, rational.New(f.Counts[v], f.TotalBlocks))
	}
	return ps
}

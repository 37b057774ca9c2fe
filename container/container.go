// Package container reads and writes the self-describing layout of a Shannon coded file.
//
// A container is a bit stream, most significant bit first:
//
//	field                 bits
//	blockLength-1         4
//	lastBlockLength-1     4
//	dictionarySize-1      16
//	trailingZeros         8
//	dictionary entries    dictionarySize × (blockLength + 8 + codeword length)
//	payload               one codeword per input block
//	padding               trailingZeros zero bits
//
// Each dictionary entry is a block value, the length of its codeword, and the codeword itself.
// trailingZeros pads the whole container to a byte boundary, and decoders must stop
// that many bits before the end of the file.
package container

import (
	"github.com/fumin/shannon/bitstream"
	"github.com/fumin/shannon/fault"
	"github.com/fumin/shannon/model"
)

// Field widths, in bits.
const (
	blockLengthBits   = 4
	dictSizeBits      = 16
	trailingZerosBits = 8
	codewordLenBits   = 8

	// HeaderBits is the size of the fixed header.
	HeaderBits = 2*blockLengthBits + dictSizeBits + trailingZerosBits

	// MaxDictionarySize is the number of entries the header can describe.
	MaxDictionarySize = 1 << dictSizeBits
)

// A Header holds the fixed fields at the start of a container.
type Header struct {
	BlockLength     int
	LastBlockLength int
	DictionarySize  int
	TrailingZeros   int
}

// Validate checks that every field fits its width and that the fields agree with each other.
func (h Header) Validate() error {
	if err := model.CheckBlockLength(h.BlockLength); err != nil {
		return fault.New(fault.Format, "block length %d", h.BlockLength)
	}
	if h.LastBlockLength < 1 || h.LastBlockLength > h.BlockLength {
		return fault.New(fault.Format, "last block length %d with block length %d", h.LastBlockLength, h.BlockLength)
	}
	if h.DictionarySize < 1 || h.DictionarySize > MaxDictionarySize || h.DictionarySize > 1<<uint(h.BlockLength) {
		return fault.New(fault.Format, "dictionary size %d with block length %d", h.DictionarySize, h.BlockLength)
	}
	if h.TrailingZeros < 0 || h.TrailingZeros > 7 {
		return fault.New(fault.Format, "%d trailing zeros", h.TrailingZeros)
	}
	return nil
}

// Write writes the header fields to w.
// An invalid header is reported as an internal error.
func (h Header) Write(w *bitstream.Writer) error {
	if err := h.Validate(); err != nil {
		return fault.New(fault.Internal, "write header: %v", err)
	}
	fields := []struct {
		v uint64
		n int
	}{
		{uint64(h.BlockLength - 1), blockLengthBits},
		{uint64(h.LastBlockLength - 1), blockLengthBits},
		{uint64(h.DictionarySize - 1), dictSizeBits},
		{uint64(h.TrailingZeros), trailingZerosBits},
	}
	for _, f := range fields {
		if err := w.WriteBits(f.v, f.n); err != nil {
			return fault.Wrap(fault.IO, err, "write header")
		}
	}
	return nil
}

// ReadHeader reads and validates the header fields from r.
func ReadHeader(r *bitstream.Reader) (Header, error) {
	if r.Remaining() < HeaderBits {
		return Header{}, fault.New(fault.Format, "container of %d bits is shorter than its header", r.Remaining())
	}
	var v [4]uint64
	for i, n := range []int{blockLengthBits, blockLengthBits, dictSizeBits, trailingZerosBits} {
		x, err := r.ReadBits(n)
		if err != nil {
			return Header{}, fault.Wrap(fault.IO, err, "read header")
		}
		v[i] = x
	}
	h := Header{
		BlockLength:     int(v[0]) + 1,
		LastBlockLength: int(v[1]) + 1,
		DictionarySize:  int(v[2]) + 1,
		TrailingZeros:   int(v[3]),
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// DictionaryBits returns the size of the dictionary section for d.
func DictionaryBits(blockLength int, d *model.Dictionary) uint64 {
	var n uint64
	for _, p := range d.Pairs() {
		n += uint64(blockLength + codewordLenBits + int(p.Codeword.Len))
	}
	return n
}

// TrailingZeros returns the number of zero bits that pad totalBits to a byte boundary.
func TrailingZeros(totalBits uint64) int {
	return int((8 - totalBits%8) % 8)
}

// WriteDictionary writes the entries of d in order.
func WriteDictionary(w *bitstream.Writer, blockLength int, d *model.Dictionary) error {
	for _, p := range d.Pairs() {
		if err := w.WriteBits(uint64(p.Value), blockLength); err != nil {
			return fault.Wrap(fault.IO, err, "write value %d", p.Value)
		}
		if err := w.WriteBits(uint64(p.Codeword.Len), codewordLenBits); err != nil {
			return fault.Wrap(fault.IO, err, "write value %d", p.Value)
		}
		if err := w.WriteBits(p.Codeword.Bits, int(p.Codeword.Len)); err != nil {
			return fault.Wrap(fault.IO, err, "write value %d", p.Value)
		}
	}
	return nil
}

// ReadDictionary reads the h.DictionarySize entries following the header.
func ReadDictionary(r *bitstream.Reader, h Header) (*model.Dictionary, error) {
	pairs := make([]model.Pair, 0, h.DictionarySize)
	for i := 0; i < h.DictionarySize; i++ {
		if r.Remaining() < uint64(h.BlockLength+codewordLenBits) {
			return nil, fault.New(fault.Format, "dictionary entry %d of %d truncated", i, h.DictionarySize)
		}
		value, err := r.ReadBits(h.BlockLength)
		if err != nil {
			return nil, fault.Wrap(fault.IO, err, "read dictionary entry %d", i)
		}
		n, err := r.ReadBits(codewordLenBits)
		if err != nil {
			return nil, fault.Wrap(fault.IO, err, "read dictionary entry %d", i)
		}
		if n == 0 || n > model.MaxCodewordLen {
			return nil, fault.New(fault.Format, "dictionary entry %d: codeword length %d", i, n)
		}
		if r.Remaining() < n {
			return nil, fault.New(fault.Format, "dictionary entry %d: codeword truncated", i)
		}
		bits, err := r.ReadBits(int(n))
		if err != nil {
			return nil, fault.Wrap(fault.IO, err, "read dictionary entry %d", i)
		}
		pairs = append(pairs, model.Pair{Value: uint32(value), Codeword: model.Codeword{Len: uint8(n), Bits: bits}})
	}
	d, err := model.NewDictionary(pairs)
	if err != nil {
		return nil, fault.Wrap(fault.Format, err, "read dictionary")
	}
	return d, nil
}

// Package bitstream reads and writes unsigned integers of arbitrary bit width.
//
// Bits are ordered most significant first, both within a value and within a byte:
//
//	byte     0x8f      0x55
//	bits     1000 1111 0101 0101
//	fields   aaaa bbbc ccdd dddd
//
// ReadBits(4), ReadBits(3), ReadBits(3), ReadBits(6) on the bytes above return 0x8, 0x7, 0x5, 0x15,
// and writing those values with the same widths reproduces the two bytes.
package bitstream

import (
	"bufio"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// MaxBits is the largest width that can be read or written in a single call.
const MaxBits = 64

// ErrWidth is returned when a bit count is outside [1, MaxBits].
var ErrWidth = errors.New("bit count out of range")

// A Reader reads bits from a byte source of known length.
type Reader struct {
	br     *bitio.Reader
	length int64
	pos    uint64
}

// NewReader returns a Reader consuming length bytes from r.
func NewReader(r io.Reader, length int64) *Reader {
	return &Reader{br: bitio.NewReader(bufio.NewReader(r)), length: length}
}

// Length returns the number of bytes in the source.
func (r *Reader) Length() int64 {
	return r.length
}

// Position returns the number of bits consumed so far.
func (r *Reader) Position() uint64 {
	return r.pos
}

// Remaining returns the number of bits not yet consumed.
func (r *Reader) Remaining() uint64 {
	return uint64(r.length)*8 - r.pos
}

// ReadBits returns the next n bits as an unsigned integer.
// If fewer than n bits remain, only the remaining bits are returned, right aligned,
// and callers are expected to know how many were available.
// io.EOF is returned when no bits remain at all.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 1 || n > MaxBits {
		return 0, errors.Wrapf(ErrWidth, "read %d bits", n)
	}
	rem := r.Remaining()
	if rem == 0 {
		return 0, io.EOF
	}
	if uint64(n) > rem {
		n = int(rem)
	}
	v, err := r.br.ReadBits(uint8(n))
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, errors.Wrapf(err, "read %d bits at %d", n, r.pos)
	}
	r.pos += uint64(n)
	return v, nil
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (uint64, error) {
	return r.ReadBits(1)
}

// A Writer accumulates bits and writes them out as bytes.
type Writer struct {
	bw      *bufio.Writer
	w       *bitio.Writer
	written uint64
	flushed bool
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{bw: bw, w: bitio.NewWriter(bw)}
}

// Written returns the number of bits written so far, excluding padding.
func (w *Writer) Written() uint64 {
	return w.written
}

// WriteBits writes the low n bits of v.
func (w *Writer) WriteBits(v uint64, n int) error {
	if n < 1 || n > MaxBits {
		return errors.Wrapf(ErrWidth, "write %d bits", n)
	}
	if w.flushed {
		return errors.New("write after flush")
	}
	if n < MaxBits {
		v &= (uint64(1) << uint(n)) - 1
	}
	if err := w.w.WriteBits(v, uint8(n)); err != nil {
		return errors.Wrap(err, "")
	}
	w.written += uint64(n)
	return nil
}

// WriteBit writes the lowest bit of b.
func (w *Writer) WriteBit(b uint64) error {
	return w.WriteBits(b, 1)
}

// Flush pads the final partial byte with zeros, writes out all buffered bytes,
// and returns the number of padding bits.
// Only the first call has any effect.
func (w *Writer) Flush() (int, error) {
	if w.flushed {
		return 0, nil
	}
	w.flushed = true
	skipped, err := w.w.Align()
	if err != nil {
		return 0, errors.Wrap(err, "")
	}
	if err := w.bw.Flush(); err != nil {
		return 0, errors.Wrap(err, "")
	}
	return int(skipped), nil
}

// Close flushes the Writer if it has not been flushed yet.
func (w *Writer) Close() error {
	_, err := w.Flush()
	return err
}

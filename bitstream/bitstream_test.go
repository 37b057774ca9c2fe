package bitstream

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func TestReadFields(t *testing.T) {
	src := []byte{0x8f, 0x55}
	r := NewReader(bytes.NewReader(src), int64(len(src)))
	widths := []int{4, 3, 3, 6}
	want := []uint64{0x8, 0x7, 0x5, 0x15}
	for i, n := range widths {
		v, err := r.ReadBits(n)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if v != want[i] {
			t.Errorf("%d: %#x != %#x", i, v, want[i])
		}
	}
	if r.Remaining() != 0 || r.Position() != 16 {
		t.Errorf("remaining %d, position %d", r.Remaining(), r.Position())
	}
	if _, err := r.ReadBit(); err != io.EOF {
		t.Errorf("%v", err)
	}
}

func TestWriteFields(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	for _, f := range []struct {
		v uint64
		n int
	}{{0x8, 4}, {0x7, 3}, {0x5, 3}, {0x15, 6}} {
		if err := w.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	pad, err := w.Flush()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if pad != 0 {
		t.Errorf("padding %d", pad)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x8f, 0x55}) {
		t.Errorf("%x", buf.Bytes())
	}
}

func TestFlushPadding(t *testing.T) {
	for n := 1; n <= 16; n++ {
		buf := bytes.NewBuffer(nil)
		w := NewWriter(buf)
		if err := w.WriteBits(1<<uint(n)-1, n); err != nil {
			t.Fatalf("%+v", err)
		}
		pad, err := w.Flush()
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if want := (8 - n%8) % 8; pad != want {
			t.Errorf("%d bits: padding %d != %d", n, pad, want)
		}
		if buf.Len()*8 != n+pad {
			t.Errorf("%d bits: %d bytes written", n, buf.Len())
		}
		// The padding bits are zero.
		last := buf.Bytes()[buf.Len()-1]
		if last&(1<<uint(pad)-1) != 0 {
			t.Errorf("%d bits: last byte %08b", n, last)
		}
	}
}

func TestFlushOnce(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	if err := w.WriteBits(0x5, 3); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := w.Flush(); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("%+v", err)
	}
	if buf.Len() != 1 || buf.Bytes()[0] != 0xa0 {
		t.Errorf("%x", buf.Bytes())
	}
	if err := w.WriteBit(1); err == nil {
		t.Errorf("write after flush should fail")
	}
}

func TestWriteMasksHighBits(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	if err := w.WriteBits(0xff, 2); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := w.WriteBits(0, 6); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("%+v", err)
	}
	if buf.Bytes()[0] != 0xc0 {
		t.Errorf("%08b", buf.Bytes()[0])
	}
}

func TestShortRead(t *testing.T) {
	src := []byte{0xab}
	r := NewReader(bytes.NewReader(src), 1)
	if _, err := r.ReadBits(5); err != nil {
		t.Fatalf("%+v", err)
	}
	// Only 3 bits remain.
	v, err := r.ReadBits(8)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if v != 0x3 {
		t.Errorf("%b", v)
	}
}

func TestTruncatedSource(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}), 2)
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("%+v", err)
	}
	_, err := r.ReadBits(8)
	if errors.Cause(err) != io.ErrUnexpectedEOF {
		t.Errorf("%v", err)
	}
}

func TestWidthRange(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0}), 1)
	if _, err := r.ReadBits(0); errors.Cause(err) != ErrWidth {
		t.Errorf("%v", err)
	}
	w := NewWriter(io.Discard)
	if err := w.WriteBits(0, 65); errors.Cause(err) != ErrWidth {
		t.Errorf("%v", err)
	}
}

func TestRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	type field struct {
		v uint64
		n int
	}
	fields := make([]field, 2000)
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	for i := range fields {
		n := 1 + rng.Intn(MaxBits)
		v := rng.Uint64()
		if n < MaxBits {
			v &= 1<<uint(n) - 1
		}
		fields[i] = field{v: v, n: n}
		if err := w.WriteBits(v, n); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	written := w.Written()
	pad, err := w.Flush()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if uint64(buf.Len())*8 != written+uint64(pad) {
		t.Fatalf("%d bytes, %d bits, %d padding", buf.Len(), written, pad)
	}

	r := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	for i, f := range fields {
		v, err := r.ReadBits(f.n)
		if err != nil {
			t.Fatalf("%d: %+v", i, err)
		}
		if v != f.v {
			t.Fatalf("%d: %#x != %#x", i, v, f.v)
		}
	}
	if r.Remaining() != uint64(pad) {
		t.Errorf("%d != %d", r.Remaining(), pad)
	}
}

// Package shannon provides a lossless compressor based on Shannon coding.
//
// The input is cut into blocks of a fixed number of bits, the exact probability of every block value
// is measured in a first pass, and each value is given a prefix free codeword of ceil(-log2 p) bits.
// The resulting container holds the code dictionary followed by the codewords, so it decodes without
// any side information.
//
// Below is an example of compressing Lincoln's Gettysburg address in blocks of 8 bits:
//
//	go run encode/main.go testdata/gettysburg.txt gettys.shc 8
//	go run decode/main.go gettys.shc gettys.txt
//	diff testdata/gettysburg.txt gettys.txt
//
// Reference:
// C. E. Shannon, A Mathematical Theory of Communication, Bell System Technical Journal 27 (1948), section 9.
package shannon

import (
	"io"

	"github.com/fumin/shannon/bitstream"
	"github.com/fumin/shannon/container"
	"github.com/fumin/shannon/fault"
	"github.com/fumin/shannon/model"
)

// A Result summarizes one Encode or Decode call.
type Result struct {
	Header     container.Header
	Dictionary *model.Dictionary

	// Code is the full Shannon code, including probabilities. It is only set by Encode.
	Code *model.Code

	// InputBits is the size of the data consumed, and OutputBits the size of the data produced.
	// OutputBits excludes the zero padding of the final byte of a decoded output.
	InputBits   uint64
	PayloadBits uint64
	OutputBits  uint64
}

func size(s io.Seeker) (int64, error) {
	n, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fault.Wrap(fault.IO, err, "")
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return 0, fault.Wrap(fault.IO, err, "")
	}
	return n, nil
}

// Encode compresses src into dst using blocks of blockLength bits.
// src is read twice, once to build the model and once to emit codewords.
func Encode(dst io.Writer, src io.ReadSeeker, blockLength int) (*Result, error) {
	n, err := size(src)
	if err != nil {
		return nil, err
	}
	return EncodeBits(dst, src, uint64(n)*8, blockLength)
}

// EncodeBits is like Encode, but only compresses the first bitLength bits of src.
func EncodeBits(dst io.Writer, src io.ReadSeeker, bitLength uint64, blockLength int) (*Result, error) {
	if err := model.CheckBlockLength(blockLength); err != nil {
		return nil, err
	}
	n, err := size(src)
	if err != nil {
		return nil, err
	}
	freq, err := model.Count(bitstream.NewReader(src, n), bitLength, blockLength)
	if err != nil {
		return nil, err
	}
	code, err := model.Assign(freq)
	if err != nil {
		return nil, err
	}
	dict := code.Dictionary()

	// The padding length is a header field, so the container size is computed before anything is written.
	payloadBits := code.PayloadBits()
	total := container.HeaderBits + container.DictionaryBits(blockLength, dict) + payloadBits
	h := container.Header{
		BlockLength:     blockLength,
		LastBlockLength: freq.LastBlockLength,
		DictionarySize:  dict.Len(),
		TrailingZeros:   container.TrailingZeros(total),
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fault.Wrap(fault.IO, err, "")
	}
	w := bitstream.NewWriter(dst)
	defer w.Close()
	if err := h.Write(w); err != nil {
		return nil, err
	}
	if err := container.WriteDictionary(w, blockLength, dict); err != nil {
		return nil, err
	}
	err = model.ScanBlocks(bitstream.NewReader(src, n), bitLength, blockLength, func(v uint32, width int) error {
		cw, ok := dict.Codeword(v)
		if !ok {
			return fault.New(fault.Internal, "block value %d has no codeword", v)
		}
		if err := w.WriteBits(cw.Bits, int(cw.Len)); err != nil {
			return fault.Wrap(fault.IO, err, "write payload")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if w.Written() != total {
		return nil, fault.New(fault.Internal, "wrote %d bits, expected %d", w.Written(), total)
	}
	pad, err := w.Flush()
	if err != nil {
		return nil, fault.Wrap(fault.IO, err, "")
	}
	if pad != h.TrailingZeros {
		return nil, fault.New(fault.Internal, "%d padding bits, header declares %d", pad, h.TrailingZeros)
	}

	res := &Result{
		Header:      h,
		Dictionary:  dict,
		Code:        code,
		InputBits:   bitLength,
		PayloadBits: payloadBits,
		OutputBits:  total + uint64(pad),
	}
	return res, nil
}

// Decode decompresses the container src into dst.
// Every block is written at the header's block length, except the last which is written at the last
// block length. When the original input was not a whole number of bytes, the final byte of dst is
// padded with zeros.
func Decode(dst io.Writer, src io.ReadSeeker) (*Result, error) {
	n, err := size(src)
	if err != nil {
		return nil, err
	}
	r := bitstream.NewReader(src, n)
	h, err := container.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	dict, err := container.ReadDictionary(r, h)
	if err != nil {
		return nil, err
	}
	if r.Remaining() < uint64(h.TrailingZeros)+1 {
		return nil, fault.New(fault.Format, "no payload after dictionary of %d entries", h.DictionarySize)
	}
	payloadBits := r.Remaining() - uint64(h.TrailingZeros)

	w := bitstream.NewWriter(dst)
	defer w.Close()
	var cand model.Codeword
	for left := payloadBits; left > 0; {
		bit, err := r.ReadBit()
		if err != nil {
			return nil, fault.Wrap(fault.IO, err, "read payload")
		}
		left--
		cand = cand.Append(bit)
		if int(cand.Len) > dict.MaxLen() {
			return nil, fault.New(fault.Format, "no codeword matches %s at payload bit %d", cand, payloadBits-left)
		}
		v, ok := dict.Value(cand)
		if !ok {
			continue
		}
		width := h.BlockLength
		if left == 0 {
			width = h.LastBlockLength
		}
		if uint64(v)>>uint(width) != 0 {
			return nil, fault.New(fault.Format, "block value %d does not fit in %d bits", v, width)
		}
		if err := w.WriteBits(uint64(v), width); err != nil {
			return nil, fault.Wrap(fault.IO, err, "write block")
		}
		cand = model.Codeword{}
	}
	if cand.Len > 0 {
		return nil, fault.New(fault.Format, "payload ends inside codeword %s", cand)
	}
	if h.TrailingZeros > 0 {
		padding, err := r.ReadBits(h.TrailingZeros)
		if err != nil {
			return nil, fault.Wrap(fault.IO, err, "read padding")
		}
		if padding != 0 {
			return nil, fault.New(fault.Format, "padding bits %b are not zero", padding)
		}
	}

	outBits := w.Written()
	if _, err := w.Flush(); err != nil {
		return nil, fault.Wrap(fault.IO, err, "")
	}
	res := &Result{
		Header:      h,
		Dictionary:  dict,
		InputBits:   uint64(n) * 8,
		PayloadBits: payloadBits,
		OutputBits:  outBits,
	}
	return res, nil
}

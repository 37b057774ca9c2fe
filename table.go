package shannon

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fumin/shannon/fault"
	"github.com/fumin/shannon/model"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// WriteTable writes a line per codeword, in code order:
// block value, probability, codeword length, cumulative probability and codeword.
func WriteTable(w io.Writer, code *model.Code) error {
	bw := bufio.NewWriter(w)
	for _, e := range code.Entries {
		if _, err := fmt.Fprintf(bw, "%-10d %s %5d %15s %15s\n", e.Value, e.Probability, e.Codeword.Len, e.Cumulative, e.Codeword); err != nil {
			return fault.Wrap(fault.IO, err, "")
		}
	}
	if err := bw.Flush(); err != nil {
		return fault.Wrap(fault.IO, err, "")
	}
	return nil
}

// WriteTableJSON writes the header and code of an encoding result as a JSON object.
func WriteTableJSON(w io.Writer, res *Result) error {
	if res.Code == nil {
		return fault.New(fault.Argument, "result carries no code")
	}
	entries := make([]interface{}, 0, len(res.Code.Entries))
	for _, e := range res.Code.Entries {
		entries = append(entries, map[string]interface{}{
			"value":       e.Value,
			"count":       e.Count,
			"probability": e.Probability.String(),
			"cumulative":  e.Cumulative.String(),
			"length":      int(e.Codeword.Len),
			"codeword":    e.Codeword.String(),
		})
	}
	s, err := structpb.NewStruct(map[string]interface{}{
		"blockLength":     res.Header.BlockLength,
		"lastBlockLength": res.Header.LastBlockLength,
		"dictionarySize":  res.Header.DictionarySize,
		"trailingZeros":   res.Header.TrailingZeros,
		"totalBlocks":     res.Code.TotalBlocks,
		"inputBits":       res.InputBits,
		"outputBits":      res.OutputBits,
		"entries":         entries,
	})
	if err != nil {
		return fault.Wrap(fault.Internal, err, "")
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return fault.Wrap(fault.Internal, err, "")
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fault.Wrap(fault.IO, err, "")
	}
	return nil
}

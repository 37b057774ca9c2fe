package model

import (
	"sort"

	"github.com/fumin/shannon/fault"
	"github.com/fumin/shannon/rational"
)

// An Entry describes the codeword assigned to one block value.
type Entry struct {
	Value       uint32
	Count       uint64
	Probability rational.Fraction

	// Cumulative is the sum of the probabilities of all entries before this one.
	Cumulative rational.Fraction
	Codeword   Codeword
}

// A Code is a Shannon code for the blocks of one input.
type Code struct {
	BlockLength     int
	LastBlockLength int
	TotalBlocks     uint64

	// Entries are sorted by decreasing probability, ties in first-seen order.
	Entries []Entry

	dict *Dictionary
}

// Assign computes the Shannon code of freq.
//
// Entry i receives a codeword of ceil(-log2 p_i) bits, the leading binary digits of the cumulative
// probability p_0 + ... + p_{i-1}. Since the probabilities are sorted in decreasing order, consecutive
// cumulative sums differ by at least 2^-l_i, so no codeword is a prefix of another.
// An input made of a single repeated value has probability 1, and is given the codeword "0".
func Assign(freq *Frequencies) (*Code, error) {
	probs := freq.Probabilities()
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return probs[order[j]].Less(probs[order[i]])
	})

	code := &Code{
		BlockLength:     freq.BlockLength,
		LastBlockLength: freq.LastBlockLength,
		TotalBlocks:     freq.TotalBlocks,
		Entries:         make([]Entry, 0, len(order)),
	}
	pairs := make([]Pair, 0, len(order))
	cum := rational.New(0, freq.TotalBlocks)
	for _, i := range order {
		p := probs[i]
		l := p.CodeLength()
		if l == 0 {
			l = 1
		}
		cw := Codeword{Len: uint8(l), Bits: cum.Digits(l)}
		e := Entry{
			Value:       freq.Values[i],
			Count:       p.Num,
			Probability: p,
			Cumulative:  cum,
			Codeword:    cw,
		}
		code.Entries = append(code.Entries, e)
		pairs = append(pairs, Pair{Value: e.Value, Codeword: cw})
		cum = cum.Add(p)
	}

	dict, err := NewDictionary(pairs)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, err, "assign codewords")
	}
	code.dict = dict
	return code, nil
}

// Dictionary returns the value to codeword mapping of the code.
func (c *Code) Dictionary() *Dictionary {
	return c.dict
}

// PayloadBits returns the number of bits needed to encode every block of the input.
func (c *Code) PayloadBits() uint64 {
	var n uint64
	for _, e := range c.Entries {
		n += e.Count * uint64(e.Codeword.Len)
	}
	return n
}

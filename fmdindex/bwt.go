// Package fmdindex implements the FMD-index data structure and its
// bidirectional search primitives: the BWT, sampled
// suffix array, LCP array with PSV/NSV support, per-genome bitmask
// overlays, and the extend/retract/count/locate operations the mapping
// schemes in package mapping are built from.
package fmdindex

import (
	"github.com/exascience/fmdindex/utils/nibbles"
)

// occCheckpointInterval is how often a cumulative Occ checkpoint is
// stored. GetOcc scans at most this many symbols forward from the
// nearest checkpoint, the same fixed block/scan trade-off bitvector.BitVector
// uses for Rank.
const occCheckpointInterval = 128

// BWT is the Burrows-Wheeler transform of the concatenation of every
// indexed contig in both orientations, stored 4 bits per
// symbol (the alphabet has 5 members, well within a nibble's range).
// It answers the two backward-search primitives the FM-index formula
// needs: GetPC ("C[c]", the count of symbols strictly less than c) and
// GetOcc/GetFullOcc ("Occ(c, i)", the count of c in the BWT prefix of
// length i+1).
type BWT struct {
	symbols     nibbles.Nibbles
	length      uint64
	c           [AlphabetSize]uint64
	checkpoints [][AlphabetSize]uint64 // checkpoints[k] = counts over BWT[0 : k*occCheckpointInterval)
	total       [AlphabetSize]uint64
}

// NewBWT builds a BWT wrapper around a sequence of already-computed
// Symbol values (the BWT string itself, produced by an external
// suffix-sort tool -- index construction is out
// of scope for this package).
func NewBWT(symbols []Symbol) *BWT {
	b := &BWT{length: uint64(len(symbols))}
	packed := nibbles.Make(len(symbols))
	for i, s := range symbols {
		packed.Set(i, byte(s))
	}
	b.symbols = packed
	b.buildIndex()
	return b
}

func (b *BWT) buildIndex() {
	numCheckpoints := int(b.length/occCheckpointInterval) + 2
	b.checkpoints = make([][AlphabetSize]uint64, numCheckpoints)
	var running [AlphabetSize]uint64
	for i := uint64(0); i < b.length; i++ {
		if i%occCheckpointInterval == 0 {
			b.checkpoints[i/occCheckpointInterval] = running
		}
		running[b.symbols.Get(int(i))]++
	}
	// trailing checkpoint(s), so GetFullOcc can always find one at or
	// before any in-range index without a bounds check.
	for k := int(b.length/occCheckpointInterval) + 1; k < numCheckpoints; k++ {
		b.checkpoints[k] = running
	}
	b.total = running

	b.c[Dollar] = 0
	running = [AlphabetSize]uint64{}
	prev := Dollar
	for _, s := range []Symbol{A, C, G, T} {
		b.c[s] = b.c[prev] + b.total[prev]
		prev = s
	}
}

// Len returns the length of the BWT string.
func (b *BWT) Len() uint64 {
	return b.length
}

// At returns the symbol at BWT position i.
func (b *BWT) At(i uint64) Symbol {
	return Symbol(b.symbols.Get(int(i)))
}

// GetPC returns C[c]: the number of BWT symbols strictly less than c,
// across the whole BWT. This is the start offset of c's block in the
// conceptual F (first) column.
func (b *BWT) GetPC(c Symbol) uint64 {
	return b.c[c]
}

// GetFullOcc returns Occ(s, i) for every symbol s simultaneously: the
// count of each symbol in the BWT prefix of length i+1. A negative i
// (prefix of length 0) yields all zeros.
func (b *BWT) GetFullOcc(i int64) [AlphabetSize]uint64 {
	if i < 0 {
		return [AlphabetSize]uint64{}
	}
	idx := uint64(i)
	block := idx / occCheckpointInterval
	counts := b.checkpoints[block]
	for p := block * occCheckpointInterval; p <= idx; p++ {
		counts[b.symbols.Get(int(p))]++
	}
	return counts
}

// GetOcc returns Occ(c, i): the number of occurrences of c in the BWT
// prefix of length i+1. A negative i yields 0.
func (b *BWT) GetOcc(c Symbol, i int64) uint64 {
	return b.GetFullOcc(i)[c]
}

// GetLF computes the LF-mapping at BWT index i: the BWT position of
// the character that precedes BWT[i] in the original text.
func (b *BWT) GetLF(i uint64) uint64 {
	c := b.At(i)
	return b.GetPC(c) + b.GetOcc(c, int64(i)) - 1
}

// GetCharPosition returns the bi-interval matching the single-character
// pattern c: forward start is C[c], reverse start is
// C[complement(c)], and both sides have length Occ(c, len-1).
func (b *BWT) GetCharPosition(c Symbol) FMDPosition {
	length := b.GetOcc(c, int64(b.length)-1)
	if length == 0 {
		return FMDPosition{EndOffset: -1}
	}
	return FMDPosition{
		ForwardStart: b.GetPC(c),
		ReverseStart: b.GetPC(Complement(c)),
		EndOffset:    int64(length) - 1,
	}
}

// Package bitvector implements a succinct, immutable bit sequence
// supporting rank, select, and valueAfter queries over a fixed universe.
//
// A BitVector is built once from runs of set bits added in left-to-right
// order, then frozen by Finish. Once frozen, every operation is pure and
// safe to call concurrently from any number of goroutines without
// synchronisation, mirroring the read-only sharing model the rest of this
// module relies on.
package bitvector

import (
	"fmt"

	"github.com/exascience/pargo/parallel"
	"github.com/willf/bitset"
)

// rankBlockSize is the number of bit positions covered by one entry of
// the cumulative rank index. Smaller blocks make Rank faster and the
// index larger; this is a simple fixed trade-off, not tuned.
const rankBlockSize = 512

// selectSampleRate is how often a select sample is recorded: every
// selectSampleRate-th set bit gets an entry pointing at its position, so
// Select only has to scan forward at most selectSampleRate bits from a
// sample.
const selectSampleRate = 64

const parallelBuildGrainSize = 1 << 16

// OutOfRange is returned by Select for a negative rank argument.
type OutOfRange struct {
	Op  string
	Arg int64
}

func (e *OutOfRange) Error() string {
	return fmt.Sprintf("bitvector: %s: index %d out of range", e.Op, e.Arg)
}

// BitVector is an immutable, rank/select-indexed bit sequence over
// [0, universe).
type BitVector struct {
	bits      *bitset.BitSet
	universe  uint64
	blockRank []uint64 // blockRank[b] = count of set bits in [0, b*rankBlockSize)
	samples   []uint64 // samples[s] = position of the (s*selectSampleRate)-th set bit
	total     uint64
}

// Builder accumulates runs of set bits in left-to-right order before a
// BitVector is frozen with Finish.
type Builder struct {
	bits *bitset.BitSet
	last uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{bits: bitset.New(0)}
}

// AddRun marks the length positions starting at start as set. Runs must
// be added in non-decreasing, non-overlapping order of start; AddRun
// panics otherwise, since that signals a programmer error in the caller
// building the index, not a recoverable data condition.
func (b *Builder) AddRun(start, length uint64) *Builder {
	if length == 0 {
		return b
	}
	if start < b.last {
		panic(fmt.Sprintf("bitvector: run at %d overlaps previous run ending at %d", start, b.last))
	}
	for i := start; i < start+length; i++ {
		b.bits.Set(uint(i))
	}
	b.last = start + length
	return b
}

// Finish pads the accumulated runs with zeros up to universe and returns
// the frozen, queryable BitVector. universe must be at least as large as
// the end of the last added run.
func (b *Builder) Finish(universe uint64) *BitVector {
	if b.last > universe {
		panic(fmt.Sprintf("bitvector: runs extend to %d past universe size %d", b.last, universe))
	}
	v := &BitVector{bits: b.bits, universe: universe}
	v.buildIndex()
	return v
}

// Runs reports the set-bit runs of v in left-to-right order, the same
// shape Builder.AddRun consumes, so package fmdio can write v out to a
// .msk file and read it back with Builder/Finish without loss.
func (v *BitVector) Runs() (starts, lengths []uint64) {
	p, found := v.bits.NextSet(0)
	for found && uint64(p) < v.universe {
		start := uint64(p)
		end := start
		for found && uint64(p) < v.universe && uint64(p) == end {
			end++
			p, found = v.bits.NextSet(p + 1)
		}
		starts = append(starts, start)
		lengths = append(lengths, end-start)
	}
	return starts, lengths
}

// Len returns the universe size this BitVector was finished with.
func (v *BitVector) Len() uint64 {
	return v.universe
}

// Count returns the total number of set bits.
func (v *BitVector) Count() uint64 {
	return v.total
}

// IsSet reports whether position i is set. i must be within [0, universe).
func (v *BitVector) IsSet(i uint64) bool {
	return i < v.universe && v.bits.Test(uint(i))
}

// Rank returns the number of set bits at positions <= i (when atLeast is
// true, so a position that is itself set counts towards its own rank),
// or at positions < i (when atLeast is false, so a set bit at i itself
// does not count). Indices at or beyond the universe size saturate to
// the total count rather than erroring, matching the fixture behaviour
// this package is tested against (see bitvector_test.go).
func (v *BitVector) Rank(i uint64, atLeast bool) uint64 {
	bound := i
	if atLeast {
		bound = i + 1
	}
	if bound > v.universe {
		bound = v.universe
	}
	block := bound / rankBlockSize
	count := v.blockRank[block]
	for p := block * rankBlockSize; p < bound; p++ {
		if v.bits.Test(uint(p)) {
			count++
		}
	}
	return count
}

// Select returns the position of the k-th set bit (0-based). If k is
// negative, Select returns OutOfRange. If there is no k-th set bit (k is
// at or beyond Count()), Select returns the universe size as a
// past-the-end sentinel and a nil error, the same convention ValueAfter
// uses when no matching bit exists.
func (v *BitVector) Select(k int64) (uint64, error) {
	if k < 0 {
		return 0, &OutOfRange{Op: "select", Arg: k}
	}
	kk := uint64(k)
	if kk >= v.total {
		return v.universe, nil
	}
	sampleIdx := kk / selectSampleRate
	pos := uint64(0)
	if sampleIdx < uint64(len(v.samples)) {
		pos = v.samples[sampleIdx]
	}
	count := (kk / selectSampleRate) * selectSampleRate
	p, found := v.bits.NextSet(uint(pos))
	for found && count < kk {
		p, found = v.bits.NextSet(uint(p) + 1)
		count++
	}
	if !found {
		return v.universe, nil
	}
	return uint64(p), nil
}

// ValueAfter returns the smallest j >= i with a set bit, together with
// that bit's 0-based rank (the k such that Select(k) == j). If no such
// position exists within the universe, it returns (universe, Count()).
func (v *BitVector) ValueAfter(i uint64) (pos uint64, rank uint64) {
	if i >= v.universe {
		return v.universe, v.total
	}
	p, found := v.bits.NextSet(uint(i))
	if !found || uint64(p) >= v.universe {
		return v.universe, v.total
	}
	return uint64(p), v.Rank(uint64(p), true) - 1
}

func (v *BitVector) buildIndex() {
	numBlocks := int(v.universe/rankBlockSize) + 2
	blockCounts := make([]uint64, numBlocks)
	parallelCountBlocks(v.bits, blockCounts, 0, numBlocks, v.universe)

	v.blockRank = make([]uint64, numBlocks)
	var running uint64
	for b := 0; b < numBlocks; b++ {
		v.blockRank[b] = running
		running += blockCounts[b]
	}

	var samples []uint64
	var count uint64
	for p, found := v.bits.NextSet(0); found && uint64(p) < v.universe; p, found = v.bits.NextSet(p + 1) {
		if count%selectSampleRate == 0 {
			samples = append(samples, uint64(p))
		}
		count++
	}
	v.samples = samples
	v.total = count
}

// parallelCountBlocks fills blockCounts[lo:hi] with the number of set
// bits in each rank block, splitting the work recursively the same way
// intervals.ParallelFlatten splits interval-merging work.
func parallelCountBlocks(bits *bitset.BitSet, blockCounts []uint64, lo, hi int, universe uint64) {
	if hi-lo <= 1 || (hi-lo)*rankBlockSize < parallelBuildGrainSize {
		for b := lo; b < hi; b++ {
			start := uint64(b) * rankBlockSize
			end := start + rankBlockSize
			if end > universe {
				end = universe
			}
			var c uint64
			for p := start; p < end; p++ {
				if bits.Test(uint(p)) {
					c++
				}
			}
			blockCounts[b] = c
		}
		return
	}
	mid := lo + (hi-lo)/2
	parallel.Do(
		func() { parallelCountBlocks(bits, blockCounts, lo, mid, universe) },
		func() { parallelCountBlocks(bits, blockCounts, mid, hi, universe) },
	)
}

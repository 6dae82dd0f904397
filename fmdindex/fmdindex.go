package fmdindex

import "github.com/exascience/fmdindex/textposition"

// FMDIndex composes a BWT, a sampled suffix array, an LCP array, and
// contig/genome metadata into the single immutable, read-only-safe
// handle that every mapping scheme in package mapping is built on top
// of. Once constructed it is never mutated, so it
// may be shared by reference across any number of concurrently
// reading goroutines without synchronisation.
type FMDIndex struct {
	bwt     *BWT
	sa      *SampledSA
	lcp     *LCPArray
	contigs *ContigTable
}

// NewFMDIndex assembles a query-ready index from its already-loaded
// parts. Package fmdio is the usual caller, after reading the
// on-disk layout back in.
func NewFMDIndex(bwt *BWT, sa *SampledSA, lcp *LCPArray, contigs *ContigTable) *FMDIndex {
	return &FMDIndex{bwt: bwt, sa: sa, lcp: lcp, contigs: contigs}
}

// Len returns the total length of the BWT (the concatenation of every
// indexed contig in both orientations).
func (idx *FMDIndex) Len() uint64 {
	return idx.bwt.Len()
}

// Contigs returns the contig/genome metadata table.
func (idx *FMDIndex) Contigs() *ContigTable {
	return idx.contigs
}

// BWT, SA, and LCP expose the underlying parts assembled by
// NewFMDIndex, for package fmdio to serialize an already-built index
// back out to its on-disk layout.
func (idx *FMDIndex) BWT() *BWT     { return idx.bwt }
func (idx *FMDIndex) SA() *SampledSA { return idx.sa }
func (idx *FMDIndex) LCP() *LCPArray { return idx.lcp }

// FullRange returns the bi-interval matching the empty pattern: the
// entire BWT on both strands. Every mapping scheme's inchworm-style
// scan starts here.
func (idx *FMDIndex) FullRange() FMDPosition {
	return FullRange(idx.bwt.Len())
}

// GetCharPosition returns the bi-interval matching the single-character
// pattern c.
func (idx *FMDIndex) GetCharPosition(c Symbol) (FMDPosition, error) {
	if c == Dollar {
		return FMDPosition{EndOffset: -1}, &InvalidSymbol{Char: c.Byte()}
	}
	return idx.bwt.GetCharPosition(c), nil
}

// Extend performs one step of bidirectional backward search: given a bi-interval matching pattern P, it returns the
// bi-interval matching cP (when backward is true) or Pc (when
// backward is false, implemented as flip -> backward extend by
// Complement(c) -> flip).
func (idx *FMDIndex) Extend(pos FMDPosition, c Symbol, backward bool) (FMDPosition, error) {
	if pos.IsEmpty() {
		return FMDPosition{EndOffset: -1}, &EmptyIntervalMisuse{Op: "Extend"}
	}
	if c == Dollar {
		return FMDPosition{EndOffset: -1}, &InvalidSymbol{Char: c.Byte()}
	}
	if !backward {
		result, err := idx.extendBackward(pos.Flip(), Complement(c))
		if err != nil {
			return FMDPosition{EndOffset: -1}, err
		}
		return result.Flip(), nil
	}
	return idx.extendBackward(pos, c)
}

// extendBackward implements the per-child fan-out formula of
// bidirectional backward search and keeps only the slice for c.
func (idx *FMDIndex) extendBackward(pos FMDPosition, c Symbol) (FMDPosition, error) {
	fwdStart := pos.ForwardStart
	fwdEnd := pos.ForwardEnd()
	parentLen := pos.Length()

	var before [AlphabetSize]uint64
	if fwdStart > 0 {
		before = idx.bwt.GetFullOcc(int64(fwdStart) - 1)
	}
	through := idx.bwt.GetFullOcc(int64(fwdEnd))

	var newLen [AlphabetSize]uint64
	for _, b := range dnaSymbols {
		newLen[b] = through[b] - before[b]
	}
	dollarLen := parentLen - (newLen[A] + newLen[C] + newLen[G] + newLen[T])

	// The reverse interval is partitioned in ascending order of each
	// child's complement, not of the child symbol itself: prepending a
	// real base b to the pattern corresponds to appending
	// Complement(b) to the reverse-complement pattern, so the
	// reverse-strand child ranges must stay sorted by that complement.
	revOffset := pos.ReverseStart + dollarLen
	var newRevStart [AlphabetSize]uint64
	for _, b := range [4]Symbol{T, G, C, A} {
		newRevStart[b] = revOffset
		revOffset += newLen[b]
	}

	length := newLen[c]
	if length == 0 {
		return FMDPosition{EndOffset: -1}, nil
	}
	return FMDPosition{
		ForwardStart: idx.bwt.GetPC(c) + before[c],
		ReverseStart: newRevStart[c],
		EndOffset:    int64(length) - 1,
	}, nil
}

// ExtendLeftOnly extends pos backward by c, updating only the forward
// side of the bi-interval. It is the primitive the inchworm scans use,
// since they never need the reverse-strand side.
func (idx *FMDIndex) ExtendLeftOnly(pos FMDPosition, c Symbol) (FMDPosition, error) {
	if pos.IsEmpty() {
		return FMDPosition{EndOffset: -1}, &EmptyIntervalMisuse{Op: "ExtendLeftOnly"}
	}
	if c == Dollar {
		return FMDPosition{EndOffset: -1}, &InvalidSymbol{Char: c.Byte()}
	}
	var before uint64
	if pos.ForwardStart > 0 {
		before = idx.bwt.GetOcc(c, int64(pos.ForwardStart)-1)
	}
	length := idx.bwt.GetOcc(c, int64(pos.ForwardEnd())) - before
	if length == 0 {
		return FMDPosition{EndOffset: -1}, nil
	}
	return FMDPosition{ForwardStart: idx.bwt.GetPC(c) + before, EndOffset: int64(length) - 1}, nil
}

// ExtendFast is ExtendLeftOnly under the name used for the optimised
// forward-only extension primitive.
func (idx *FMDIndex) ExtendFast(pos FMDPosition, c Symbol) (FMDPosition, error) {
	return idx.ExtendLeftOnly(pos, c)
}

// ExtendAllLeftOnly extends pos backward by every real alphabet symbol
// at once, sharing a single pair of GetFullOcc calls. It is the primitive the
// mismatch-tolerant mapping scheme fans out with.
func (idx *FMDIndex) ExtendAllLeftOnly(pos FMDPosition) (map[Symbol]FMDPosition, error) {
	if pos.IsEmpty() {
		return nil, &EmptyIntervalMisuse{Op: "ExtendAllLeftOnly"}
	}
	var before [AlphabetSize]uint64
	if pos.ForwardStart > 0 {
		before = idx.bwt.GetFullOcc(int64(pos.ForwardStart) - 1)
	}
	through := idx.bwt.GetFullOcc(int64(pos.ForwardEnd()))
	result := make(map[Symbol]FMDPosition, 4)
	for _, b := range dnaSymbols {
		length := through[b] - before[b]
		if length == 0 {
			result[b] = FMDPosition{EndOffset: -1}
			continue
		}
		result[b] = FMDPosition{ForwardStart: idx.bwt.GetPC(b) + before[b], EndOffset: int64(length) - 1}
	}
	return result, nil
}

// RetractRightOnly climbs to the deepest suffix-tree ancestor of pos's
// forward interval with string depth <= targetLen.
func (idx *FMDIndex) RetractRightOnly(pos FMDPosition, targetLen uint64) FMDPosition {
	return idx.lcp.RetractRightOnly(pos, targetLen)
}

// RetractOneStep climbs exactly one suffix-tree step and also reports
// the resulting string depth.
func (idx *FMDIndex) RetractOneStep(pos FMDPosition) (FMDPosition, uint64) {
	return idx.lcp.RetractOneStep(pos)
}

// Count returns the bi-interval matching pattern, extending backward
// from its last character. A pattern that does not
// occur yields an empty bi-interval, not an error: "no results" is
// data, not failure.
func (idx *FMDIndex) Count(pattern string) (FMDPosition, error) {
	pos := idx.FullRange()
	for i := len(pattern) - 1; i >= 0; i-- {
		if pos.IsEmpty() {
			return pos, nil
		}
		sym, err := ParseSymbol(pattern[i])
		if err != nil {
			return FMDPosition{EndOffset: -1}, err
		}
		pos, err = idx.ExtendFast(pos, sym)
		if err != nil {
			return FMDPosition{EndOffset: -1}, err
		}
	}
	return pos, nil
}

// Locate maps a BWT index to the TextPosition it names.
func (idx *FMDIndex) Locate(i uint64) textposition.TextPosition {
	return idx.sa.Locate(i)
}

// GetLF computes the LF-mapping at BWT index i.
func (idx *FMDIndex) GetLF(i uint64) uint64 {
	return idx.bwt.GetLF(i)
}

// Display reconstructs a single character at (contig, offset) by
// starting from the contig's end index and stepping LF backwards.
func (idx *FMDIndex) Display(contig int, offset uint64) byte {
	length := idx.contigs.Contig(contig).Length
	i := idx.contigs.EndIndex(contig)
	for steps := length - 1 - offset; steps > 0; steps-- {
		i = idx.bwt.GetLF(i)
	}
	return idx.bwt.At(i).Byte()
}

// DisplayContig reconstructs an entire contig's forward-strand
// sequence.
func (idx *FMDIndex) DisplayContig(contig int) string {
	length := idx.contigs.Contig(contig).Length
	out := make([]byte, length)
	i := idx.contigs.EndIndex(contig)
	for k := int64(length) - 1; k >= 0; k-- {
		out[k] = idx.bwt.At(i).Byte()
		i = idx.bwt.GetLF(i)
	}
	return string(out)
}

package fmdindex

import (
	"github.com/exascience/fmdindex/bitvector"
	"github.com/exascience/fmdindex/intervals"
	"github.com/exascience/fmdindex/utils"
)

// Contig describes one indexed contig: its name, its
// start offset within its forward text's cumulative numbering, its
// length, and the id of the genome it belongs to.
type Contig struct {
	Name          utils.Symbol
	ScaffoldStart uint64
	Length        uint64
	GenomeID      int
}

// ContigTable holds contig names, starts, lengths, and genome
// assignments, a cumulative-length prefix-sum over contigs, the
// contiguous contig-id range owned by each genome, and a per-genome
// bitmask overlay over BWT positions. Contig names are
// interned (utils.Intern) so that repeated name lookups across
// concurrently-running mapping-scheme callers compare by pointer
// instead of contending on string equality.
type ContigTable struct {
	contigs      []Contig
	offsets      []intervals.Interval // offsets[c] = [sum of earlier contigs' lengths, that sum + Length) for contig c, forward strand
	genomeRanges []intervals.Interval // genomeRanges[g] = contiguous [firstContigID, lastContigID+1) owned by genome g
	masks        []*bitvector.BitVector
	endIndices   []uint64 // endIndices[c] = BWT index holding the last character of contig c's forward strand
	byName       map[utils.Symbol]int
}

// NewContigTable assembles a ContigTable from already-loaded per-contig
// metadata and per-genome masks (produced by the external index
// builder and read back by package fmdio), plus endIndices. endIndices
// is not itself stored in the on-disk .contigs file: under the
// canonical generalized-suffix-array tie-break (ties among the
// per-text terminator suffixes break by ascending text id), the
// terminator for contig c's forward text always lands at BWT rank 2c,
// so package fmdio derives endIndices[c] = 2c arithmetically rather
// than reading it. NewContigTable itself computes the cumulative-length
// prefix-sum and genome id ranges.
func NewContigTable(contigs []Contig, masks []*bitvector.BitVector, endIndices []uint64) *ContigTable {
	t := &ContigTable{
		contigs:    contigs,
		masks:      masks,
		endIndices: endIndices,
		byName:     make(map[utils.Symbol]int, len(contigs)),
	}
	t.offsets = make([]intervals.Interval, len(contigs))
	var running uint64
	maxGenome := -1
	for i, c := range contigs {
		t.offsets[i] = intervals.Interval{Start: int32(running), End: int32(running + c.Length)}
		running += c.Length
		t.byName[c.Name] = i
		if c.GenomeID > maxGenome {
			maxGenome = c.GenomeID
		}
	}
	t.genomeRanges = make([]intervals.Interval, maxGenome+1)
	for g := range t.genomeRanges {
		t.genomeRanges[g] = intervals.Interval{Start: -1, End: -1}
	}
	for i, c := range contigs {
		r := &t.genomeRanges[c.GenomeID]
		if r.Start == -1 {
			r.Start = int32(i)
		}
		r.End = int32(i + 1)
	}
	return t
}

// NumContigs returns the number of indexed contigs.
func (t *ContigTable) NumContigs() int {
	return len(t.contigs)
}

// NumGenomes returns the number of distinct genomes.
func (t *ContigTable) NumGenomes() int {
	return len(t.genomeRanges)
}

// Contig returns the metadata for contig id c.
func (t *ContigTable) Contig(c int) Contig {
	return t.contigs[c]
}

// ContigByName returns the contig id for the given name, and whether
// it was found.
func (t *ContigTable) ContigByName(name string) (int, bool) {
	id, ok := t.byName[utils.Intern(name)]
	return id, ok
}

// ContigForPosition returns the contig id whose forward-strand
// cumulative offset range contains textOffset, via binary search over
// the cumulative-length prefix-sum.
func (t *ContigTable) ContigForPosition(textOffset uint64) (int, bool) {
	return intervals.ContainingIndex(t.offsets, int32(textOffset))
}

// GenomeForContig returns the genome id that contig c belongs to.
func (t *ContigTable) GenomeForContig(c int) int {
	return t.contigs[c].GenomeID
}

// Mask returns the bitmask for genome g: bit i is set iff BWT position
// i belongs to genome g. The returned pointer is valid
// for the ContigTable's lifetime; it is never mutated after
// construction, so it is safe to share across concurrent readers.
func (t *ContigTable) Mask(g int) *bitvector.BitVector {
	return t.masks[g]
}

// EndIndex returns the BWT index holding the last character of contig
// c's forward strand, the starting point the LF-walk of
// FMDIndex.Display/DisplayContig uses to reconstruct a contig.
func (t *ContigTable) EndIndex(c int) uint64 {
	return t.endIndices[c]
}

// GenomeRange returns the contiguous [firstContigID, lastContigID+1)
// range of contig ids owned by genome g.
func (t *ContigTable) GenomeRange(g int) (first, lastExclusive int) {
	r := t.genomeRanges[g]
	return int(r.Start), int(r.End)
}

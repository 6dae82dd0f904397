// Package fmdtest builds small in-memory FMDIndex fixtures directly
// from contig sequences, by brute-force suffix sorting, for use by this
// module's own unit tests. It is not a substitute for a real index
// builder (FASTA ingestion plus an external RLCSA-style
// suffix-sort invocation, meant to scale to whole genomes): this
// package only exists to give package fmdindex and package mapping's
// tests a known-correct index to query, the same role
// namsyvo-IVC/fmi.go's qsufsort-based NewFMIndex plays for that
// package's own tests.
package fmdtest

import (
	"sort"

	"github.com/exascience/fmdindex/bitvector"
	"github.com/exascience/fmdindex/fmdindex"
	"github.com/exascience/fmdindex/textposition"
	"github.com/exascience/fmdindex/utils"
)

// Contig is one input sequence to Build.
type Contig struct {
	Name     string
	Seq      string // forward strand, upper-case A/C/G/T only
	GenomeID int
}

// code is the sentinel-inclusive symbol alphabet used while sorting:
// 0 is the unique per-text terminator, 1-4 are A, C, G, T.
type code = byte

func encode(seq string) []code {
	out := make([]code, len(seq)+1)
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A':
			out[i] = 1
		case 'C':
			out[i] = 2
		case 'G':
			out[i] = 3
		case 'T':
			out[i] = 4
		default:
			panic("fmdtest: unsupported base " + string(seq[i]))
		}
	}
	out[len(seq)] = 0 // terminator
	return out
}

func revcomp(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		var c byte
		switch seq[i] {
		case 'A':
			c = 'T'
		case 'C':
			c = 'G'
		case 'G':
			c = 'C'
		case 'T':
			c = 'A'
		default:
			panic("fmdtest: unsupported base " + string(seq[i]))
		}
		out[len(seq)-1-i] = c
	}
	return string(out)
}

type suffix struct {
	textID int
	offset int
}

// less compares two suffixes of their respective (terminator-including)
// texts lexicographically, with the terminator (code 0) sorting first;
// ties (identical content all the way to both terminators) are broken
// by textID then offset so the sort is a deterministic total order.
func less(texts [][]code, a, b suffix) bool {
	ta, tb := texts[a.textID], texts[b.textID]
	for i := 0; ; i++ {
		ca, cb := ta[a.offset+i], tb[b.offset+i]
		if ca != cb {
			return ca < cb
		}
		if ca == 0 {
			break
		}
	}
	if a.textID != b.textID {
		return a.textID < b.textID
	}
	return a.offset < b.offset
}

// Build constructs an in-memory FMDIndex over the given contigs: each
// contributes a forward text (even id) and a reverse-complement text
// (odd id).
func Build(contigs []Contig) *fmdindex.FMDIndex {
	texts := make([][]code, 2*len(contigs))
	for k, c := range contigs {
		texts[2*k] = encode(c.Seq)
		texts[2*k+1] = encode(revcomp(c.Seq))
	}

	var suffixes []suffix
	for t, text := range texts {
		for o := range text {
			suffixes = append(suffixes, suffix{textID: t, offset: o})
		}
	}
	sort.Slice(suffixes, func(i, j int) bool {
		return less(texts, suffixes[i], suffixes[j])
	})

	n := len(suffixes)
	bwtSymbols := make([]fmdindex.Symbol, n)
	samples := make(map[uint64]textposition.TextPosition, n)
	rankOf := make(map[suffix]uint64, n)
	for i, s := range suffixes {
		rankOf[s] = uint64(i)
		text := texts[s.textID]
		pred := s.offset - 1
		if pred < 0 {
			pred = len(text) - 1
		}
		bwtSymbols[i] = codeToSymbol(text[pred])
		samples[uint64(i)] = textposition.TextPosition{Text: uint64(s.textID), Offset: uint64(s.offset)}
	}

	bwt := fmdindex.NewBWT(bwtSymbols)
	sa := fmdindex.NewSampledSA(bwt, 1, samples)
	lcp := fmdindex.NewLCPArray(computeLCP(texts, suffixes))

	table := buildContigTable(contigs)
	masks := buildMasks(contigs, suffixes)
	contigsTable := fmdindex.NewContigTable(table, masks, endIndicesFor(contigs, rankOf))

	return fmdindex.NewFMDIndex(bwt, sa, lcp, contigsTable)
}

func codeToSymbol(c code) fmdindex.Symbol {
	switch c {
	case 0:
		return fmdindex.Dollar
	case 1:
		return fmdindex.A
	case 2:
		return fmdindex.C
	case 3:
		return fmdindex.G
	case 4:
		return fmdindex.T
	default:
		panic("fmdtest: bad code")
	}
}

func computeLCP(texts [][]code, suffixes []suffix) []uint64 {
	n := len(suffixes)
	lcp := make([]uint64, n)
	for i := 1; i < n; i++ {
		lcp[i] = commonPrefix(texts, suffixes[i-1], suffixes[i])
	}
	return lcp
}

func commonPrefix(texts [][]code, a, b suffix) uint64 {
	ta, tb := texts[a.textID], texts[b.textID]
	var l uint64
	for {
		ca, cb := ta[a.offset+int(l)], tb[b.offset+int(l)]
		if ca != cb || ca == 0 {
			return l
		}
		l++
	}
}

func buildContigTable(contigs []Contig) []fmdindex.Contig {
	out := make([]fmdindex.Contig, len(contigs))
	var running uint64
	for i, c := range contigs {
		out[i] = fmdindex.Contig{
			Name:          utils.Intern(c.Name),
			ScaffoldStart: running,
			Length:        uint64(len(c.Seq)),
			GenomeID:      c.GenomeID,
		}
		running += uint64(len(c.Seq))
	}
	return out
}

// endIndicesFor locates, for each contig, the BWT rank of the suffix
// that is exactly its forward text's terminator -- the row from which
// FMDIndex.Display/DisplayContig starts its backward LF walk.
func endIndicesFor(contigs []Contig, rankOf map[suffix]uint64) []uint64 {
	out := make([]uint64, len(contigs))
	for k, c := range contigs {
		out[k] = rankOf[suffix{textID: 2 * k, offset: len(c.Seq)}]
	}
	return out
}

// buildMasks produces one BitVector per genome, with bit i set iff BWT
// rank i's suffix belongs to a contig (on either strand) owned by that
// genome.
func buildMasks(contigs []Contig, suffixes []suffix) []*bitvector.BitVector {
	maxGenome := 0
	for _, c := range contigs {
		if c.GenomeID > maxGenome {
			maxGenome = c.GenomeID
		}
	}
	genomeOfText := make(map[int]int, 2*len(contigs))
	for k, c := range contigs {
		genomeOfText[2*k] = c.GenomeID
		genomeOfText[2*k+1] = c.GenomeID
	}

	builders := make([]*bitvector.Builder, maxGenome+1)
	for g := range builders {
		builders[g] = bitvector.NewBuilder()
	}
	n := len(suffixes)
	for i := 0; i < n; i++ {
		g := genomeOfText[suffixes[i].textID]
		builders[g].AddRun(uint64(i), 1)
	}
	masks := make([]*bitvector.BitVector, maxGenome+1)
	for g, b := range builders {
		masks[g] = b.Finish(uint64(n))
	}
	return masks
}

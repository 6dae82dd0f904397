package mapping_test

import (
	"testing"

	"github.com/exascience/fmdindex/fmdindex"
	"github.com/exascience/fmdindex/fmdindex/fmdtest"
	"github.com/exascience/fmdindex/mapping"
	"github.com/exascience/fmdindex/textposition"
)

func buildSingleContig(seq string) *fmdindex.FMDIndex {
	return fmdtest.Build([]fmdtest.Contig{{Name: "chr1", Seq: seq, GenomeID: 0}})
}

// The whole contig is the longest possible query against itself, so its
// right context at position 0 is unambiguous: it is the only substring
// of that length anywhere in the two-strand index.
func TestMapRightFullLengthQueryIsUnique(t *testing.T) {
	const seq = "AATCTACTGC"
	idx := buildSingleContig(seq)
	cfg := mapping.Config{Index: idx, MinContext: uint64(len(seq))}
	got, err := mapping.MapRight(cfg, seq)
	if err != nil {
		t.Fatalf("MapRight: %v", err)
	}
	if !got[0].Mapped {
		t.Fatalf("MapRight(%q)[0] = unmapped, want mapped at the whole-string context", seq)
	}
	if got[0].Position.Offset != 0 || !got[0].Position.IsForward() {
		t.Errorf("MapRight(%q)[0].Position = %v, want forward offset 0", seq, got[0].Position)
	}
}

// Scenario iv: two single-contig genomes sharing no bases
// at all (g0 = AAAA, g1 = CCCC). Searching "AAAA" under g1's mask can
// never extend past the empty pattern, so every position stays
// unmapped, no matter how permissive MinContext is.
func TestMapRightUnmappedUnderDisjointGenomeMask(t *testing.T) {
	idx := fmdtest.Build([]fmdtest.Contig{
		{Name: "g0", Seq: "AAAA", GenomeID: 0},
		{Name: "g1", Seq: "CCCC", GenomeID: 1},
	})
	cfg := mapping.Config{Index: idx, Mask: idx.Contigs().Mask(1), MinContext: 1}
	got, err := mapping.MapRight(cfg, "AAAA")
	if err != nil {
		t.Fatalf("MapRight: %v", err)
	}
	for i, m := range got {
		if m.Mapped {
			t.Errorf("MapRight(%q)[%d] under g1's mask = mapped, want unmapped", "AAAA", i)
		}
	}
}

// Property 6: wherever mapBoth reports a mapping, mapLeft
// and mapRight either agree on the forward-strand location or one of
// them is unmapped.
func TestMapBothAgreesWithDirectionalSweeps(t *testing.T) {
	const seq = "AATCTACTGCAATCTACTGC"
	idx := buildSingleContig(seq)
	cfg := mapping.Config{Index: idx, MinContext: 1}
	both, err := mapping.MapBoth(cfg, seq)
	if err != nil {
		t.Fatalf("MapBoth: %v", err)
	}
	left, err := mapping.MapLeft(cfg, seq)
	if err != nil {
		t.Fatalf("MapLeft: %v", err)
	}
	right, err := mapping.MapRight(cfg, seq)
	if err != nil {
		t.Fatalf("MapRight: %v", err)
	}
	for i, m := range both {
		if !m.Mapped {
			continue
		}
		leftAgrees := !left[i].Mapped || left[i].Position.Equal(m.Position)
		rightAgrees := !right[i].Mapped || right[i].Position.Equal(m.Position)
		if !leftAgrees || !rightAgrees {
			t.Errorf("position %d: mapBoth=%v disagrees with left=%v/right=%v", i, m.Position, left[i], right[i])
		}
	}
}

func TestDisambiguateRules(t *testing.T) {
	mapped := fmdindex.Mapping{Mapped: true, Position: textposition.TextPosition{Text: 0, Offset: 5}, LeftContext: 2, RightContext: 3}
	otherMapped := fmdindex.Mapping{Mapped: true, Position: textposition.TextPosition{Text: 0, Offset: 9}, LeftContext: 1, RightContext: 1}

	if got := mapping.Disambiguate(fmdindex.Unmapped, fmdindex.Unmapped); got.Mapped {
		t.Errorf("Disambiguate(unmapped, unmapped) = %v, want unmapped", got)
	}
	if got := mapping.Disambiguate(mapped, fmdindex.Unmapped); !got.Mapped || !got.Position.Equal(mapped.Position) {
		t.Errorf("Disambiguate(mapped, unmapped) = %v, want %v", got, mapped)
	}
	if got := mapping.Disambiguate(fmdindex.Unmapped, mapped); !got.Mapped || !got.Position.Equal(mapped.Position) {
		t.Errorf("Disambiguate(unmapped, mapped) = %v, want %v", got, mapped)
	}
	if got := mapping.Disambiguate(mapped, otherMapped); got.Mapped {
		t.Errorf("Disambiguate(disagreeing) = %v, want unmapped", got)
	}
	if got := mapping.Disambiguate(mapped, mapped); !got.Mapped || !got.Position.Equal(mapped.Position) {
		t.Errorf("Disambiguate(agreeing) = %v, want %v", got, mapped)
	}
}

package mapping_test

import (
	"testing"

	"github.com/exascience/fmdindex/fmdindex"
	"github.com/exascience/fmdindex/mapping"
	"github.com/exascience/fmdindex/textposition"
)

func tp(offset uint64) textposition.TextPosition {
	return textposition.TextPosition{Text: 0, Offset: offset}
}

// Two sentinels at the ends of a ten-position query, each reaching
// across the whole span, should fill every position between them by
// translation. "AAT" and "TGC" are each unique across both strands of
// this contig, so the 3-base windows at either end pass the sentinel
// check.
func TestCreditFilterFillsBetweenAgreeingSentinels(t *testing.T) {
	const seq = "AATCTACTGC"
	idx := buildSingleContig(seq)
	n := len(seq)
	left := make([]fmdindex.Mapping, n)
	right := make([]fmdindex.Mapping, n)
	left[0] = fmdindex.Mapping{Mapped: true, Position: tp(10), LeftContext: 1, RightContext: uint64(n)}
	left[n-1] = fmdindex.Mapping{Mapped: true, Position: tp(19), LeftContext: uint64(n), RightContext: 1}

	cfg := mapping.CreditConfig{Config: mapping.Config{Index: idx}, LeftMinContext: 3, RightMinContext: 3}
	got := mapping.CreditFilter(cfg, seq, left, right)

	for i := 0; i < n; i++ {
		want := tp(uint64(10 + i))
		if !got[i].Mapped || !got[i].Position.Equal(want) {
			t.Errorf("CreditFilter[%d] = %v, want mapped at %v", i, got[i], want)
		}
	}
}

// When a neighbour's context does not reach as far as the gap position,
// that position is left unmapped rather than guessed at.
func TestCreditFilterLeavesOutOfReachPositionsUnmapped(t *testing.T) {
	const seq = "AATCTACTGC"
	idx := buildSingleContig(seq)
	n := len(seq)
	left := make([]fmdindex.Mapping, n)
	right := make([]fmdindex.Mapping, n)
	// Sentinel reach stops short of position 2.
	left[0] = fmdindex.Mapping{Mapped: true, Position: tp(10), LeftContext: 1, RightContext: 1}
	left[n-1] = fmdindex.Mapping{Mapped: true, Position: tp(19), LeftContext: 1, RightContext: 1}

	cfg := mapping.CreditConfig{Config: mapping.Config{Index: idx}, LeftMinContext: 3, RightMinContext: 3}
	got := mapping.CreditFilter(cfg, seq, left, right)

	if got[2].Mapped {
		t.Errorf("CreditFilter[2] = %v, want unmapped: no neighbour's context reaches it", got[2])
	}
}

// Two neighbours that imply different coordinates for the same gap
// position leave it unmapped rather than picking one arbitrarily. "AAT"
// is the only window available for a 3-base query, and it is unique
// across both strands of this contig.
func TestCreditFilterDisagreementIsUnmapped(t *testing.T) {
	const contig = "AATCTACTGC"
	const query = "AAT"
	idx := buildSingleContig(contig)
	n := len(query)
	left := make([]fmdindex.Mapping, n)
	right := make([]fmdindex.Mapping, n)
	left[0] = fmdindex.Mapping{Mapped: true, Position: tp(10), LeftContext: 1, RightContext: uint64(n)}
	left[n-1] = fmdindex.Mapping{Mapped: true, Position: tp(999), LeftContext: uint64(n), RightContext: 1}

	cfg := mapping.CreditConfig{Config: mapping.Config{Index: idx}, LeftMinContext: 3, RightMinContext: 3}
	got := mapping.CreditFilter(cfg, query, left, right)

	if got[1].Mapped {
		t.Errorf("CreditFilter[1] = %v, want unmapped: neighbours disagree", got[1])
	}
}

// With no unambiguous anchor on either side, CreditFilter degrades to
// the plain disambiguated vector.
func TestCreditFilterWithoutSentinelsPassesThrough(t *testing.T) {
	const seq = "AATCTACTGC"
	idx := buildSingleContig(seq)
	n := 3
	left := make([]fmdindex.Mapping, n)
	right := make([]fmdindex.Mapping, n)
	cfg := mapping.CreditConfig{Config: mapping.Config{Index: idx}, LeftMinContext: 100, RightMinContext: 100}
	got := mapping.CreditFilter(cfg, "AAT", left, right)
	for i, m := range got {
		if m.Mapped {
			t.Errorf("CreditFilter[%d] = %v, want unmapped with no sentinel reachable", i, m)
		}
	}
}

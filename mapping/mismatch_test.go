package mapping_test

import (
	"testing"

	"github.com/exascience/fmdindex/mapping"
)

// A perfect match needs no substitutions, so the real exact-match
// candidate is the only bag member throughout the scan: it never goes
// empty (the query really does occur), so MisMatchMap's bag-collapse
// logic reduces to ordinary MapRight uniqueness for the whole-contig
// query, same as TestMapRightFullLengthQueryIsUnique.
func TestMisMatchMapZeroBudgetFullLengthQueryIsUnique(t *testing.T) {
	const seq = "AATCTACTGC"
	idx := buildSingleContig(seq)
	cfg := mapping.MisMatchConfig{
		Config:     mapping.Config{Index: idx, MinContext: uint64(len(seq))},
		ZMax:       0,
		AddContext: 0,
	}
	got, err := mapping.MisMatchMap(cfg, seq)
	if err != nil {
		t.Fatalf("MisMatchMap: %v", err)
	}
	if !got[0].Mapped {
		t.Fatalf("MisMatchMap(%q)[0] = unmapped, want mapped at the whole-string context", seq)
	}
	if got[0].Position.Offset != 0 || !got[0].Position.IsForward() {
		t.Errorf("MisMatchMap(%q)[0].Position = %v, want forward offset 0", seq, got[0].Position)
	}
}

// A query character that occurs nowhere in the index, with no mismatch
// budget to route around it, collapses the bag to the empty sentinel at
// every position: nothing can ever map.
func TestMisMatchMapZeroBudgetImpossibleCharacterStaysUnmapped(t *testing.T) {
	const seq = "AAAA"
	idx := buildSingleContig(seq)
	cfg := mapping.MisMatchConfig{
		Config:     mapping.Config{Index: idx, MinContext: 1},
		ZMax:       0,
		AddContext: 0,
	}
	got, err := mapping.MisMatchMap(cfg, "CCCC")
	if err != nil {
		t.Fatalf("MisMatchMap: %v", err)
	}
	for i, m := range got {
		if m.Mapped {
			t.Errorf("MisMatchMap(%q)[%d] = mapped, want unmapped: %q never occurs in a %q-only index", "CCCC", i, "C", seq)
		}
	}
}

// Requiring more additional context than the query can ever supply
// past first uniqueness leaves every position unmapped, independent of
// the mismatch budget.
func TestMisMatchMapAddContextBeyondQueryLengthIsUnmapped(t *testing.T) {
	const seq = "AATCTACTGC"
	idx := buildSingleContig(seq)
	cfg := mapping.MisMatchConfig{
		Config:     mapping.Config{Index: idx, MinContext: 1},
		ZMax:       2,
		AddContext: uint64(len(seq)) + 1,
	}
	got, err := mapping.MisMatchMap(cfg, seq)
	if err != nil {
		t.Fatalf("MisMatchMap: %v", err)
	}
	for i, m := range got {
		if m.Mapped {
			t.Errorf("MisMatchMap(AddContext > query length)[%d] = mapped, want unmapped", i)
		}
	}
}

package mapping_test

import (
	"testing"

	"github.com/exascience/fmdindex/mapping"
)

// leftCtx[i].length is at most i+1 and rightCtx[i].length is at most
// n-i, so their sum is at most n+1 for every position; requiring more
// total context than that guarantees every position stays unmapped.
func TestMapZipMinContextBeyondBoundIsUnmapped(t *testing.T) {
	const seq = "AATCTACTGC"
	idx := buildSingleContig(seq)
	cfg := mapping.ZipConfig{Config: mapping.Config{Index: idx, MinContext: uint64(len(seq)) + 2}}
	got, err := mapping.MapZip(cfg, seq)
	if err != nil {
		t.Fatalf("MapZip: %v", err)
	}
	for i, m := range got {
		if m.Mapped {
			t.Errorf("MapZip(MinContext beyond bound)[%d] = mapped, want unmapped", i)
		}
	}
}

// A character absent from the index (and its reverse complement) can
// never be matched by either sweep, so nothing maps.
func TestMapZipImpossibleCharacterStaysUnmapped(t *testing.T) {
	const seq = "AAAA"
	idx := buildSingleContig(seq)
	cfg := mapping.ZipConfig{Config: mapping.Config{Index: idx, MinContext: 1}}
	got, err := mapping.MapZip(cfg, "CCCC")
	if err != nil {
		t.Fatalf("MapZip: %v", err)
	}
	for i, m := range got {
		if m.Mapped {
			t.Errorf("MapZip(%q)[%d] = mapped, want unmapped: %q never occurs in a %q-only index", "CCCC", i, "C", seq)
		}
	}
}

func TestMapZipInvalidSymbolErrors(t *testing.T) {
	idx := buildSingleContig("AAAA")
	cfg := mapping.ZipConfig{Config: mapping.Config{Index: idx, MinContext: 1}}
	if _, err := mapping.MapZip(cfg, "AANA"); err == nil {
		t.Fatalf("MapZip(%q) = nil error, want an error for the invalid symbol %q", "AANA", "N")
	}
}

// ZipMappingScheme.Map is just MapZip under the Scheme interface.
func TestZipMappingSchemeImplementsScheme(t *testing.T) {
	idx := buildSingleContig("AATCTACTGC")
	var s mapping.Scheme = mapping.ZipMappingScheme{ZipConfig: mapping.ZipConfig{Config: mapping.Config{Index: idx, MinContext: 1}}}
	if _, err := s.Map("AATCTACTGC"); err != nil {
		t.Fatalf("ZipMappingScheme.Map: %v", err)
	}
}

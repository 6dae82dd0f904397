package mapping

import (
	"github.com/exascience/fmdindex/bitvector"
	"github.com/exascience/fmdindex/fmdindex"
)

// MisMatchConfig adds the inexact-search parameters to Config: ZMax is
// the maximum number of substitution mismatches a tracked bi-interval
// may carry, and AddContext is the extra context required past first
// uniqueness, same as RangeConfig's.
type MisMatchConfig struct {
	Config
	ZMax       uint64
	AddContext uint64
}

// candidate is one bag member: a bi-interval together with how many
// substitution mismatches were spent reaching it.
type candidate struct {
	pos        fmdindex.FMDPosition
	mismatches uint64
}

// MisMatchScheme implements MisMatchMap via the Scheme interface.
type MisMatchScheme struct {
	MisMatchConfig
}

func (s MisMatchScheme) Map(query string) ([]fmdindex.Mapping, error) {
	return MisMatchMap(s.MisMatchConfig, query)
}

// MisMatchMap carries a bag of bi-intervals rather than a single one
//: each extension step produces the exact child plus,
// for every bag member still under ZMax, a mismatching child for every
// other alphabet symbol. A position is mapped once the bag collapses
// to a single distinct forward location with enough context.
func MisMatchMap(cfg MisMatchConfig, query string) ([]fmdindex.Mapping, error) {
	idx := cfg.Index
	out := make([]fmdindex.Mapping, len(query))
	bag := []candidate{{pos: idx.FullRange(), mismatches: 0}}
	var length uint64
	var uniqueSinceLen uint64
	for i := len(query) - 1; i >= 0; i-- {
		c, err := fmdindex.ParseSymbol(query[i])
		if err != nil {
			return nil, err
		}
		nextBag, probeHits, err := extendBag(idx, cfg.Mask, bag, c, cfg.ZMax)
		if err != nil {
			return nil, err
		}
		if len(nextBag) == 0 {
			// If the resulting bag is empty, substitute a single empty
			// sentinel and keep scanning, treating the sentinel as
			// always fresh.
			nextBag = []candidate{{pos: fmdindex.FMDPosition{EndOffset: -1}, mismatches: 0}}
			length = 0
			uniqueSinceLen = 0
		} else {
			length++
		}
		bag = nextBag

		// The probe: did any bag member still under ZMax produce a
		// non-empty mismatching child at this position? If so, the
		// uniqueness marker is reset, so AddContext is counted again
		// from this position. The bag itself is kept as it is; it is
		// not restarted.
		if probeHits {
			uniqueSinceLen = 0
		}

		p, unique := uniqueBagPosition(cfg.Mask, bag)
		if unique {
			if uniqueSinceLen == 0 {
				uniqueSinceLen = length
			}
		} else {
			uniqueSinceLen = 0
		}

		if uniqueSinceLen > 0 && length-uniqueSinceLen >= cfg.AddContext && length >= cfg.MinContext {
			out[i] = fmdindex.Mapping{
				Mapped:       true,
				Position:     idx.Locate(p),
				LeftContext:  1,
				RightContext: length,
			}
			continue
		}
		out[i] = fmdindex.Unmapped
	}
	return out, nil
}

// extendBag extends every bag member by c, adding substitution children
// for bag members still under zMax. probeHit reports whether any
// mismatch-only child (one that did not match c) was produced at an
// interval that is itself still non-empty under the mask -- the
// trial mismatch-only extension.
func extendBag(idx *fmdindex.FMDIndex, mask *bitvector.BitVector, bag []candidate, c fmdindex.Symbol, zMax uint64) (out []candidate, probeHit bool, err error) {
	for _, cand := range bag {
		if cand.pos.IsEmpty() {
			continue
		}
		children, extErr := idx.ExtendAllLeftOnly(cand.pos)
		if extErr != nil {
			return nil, false, extErr
		}
		for sym, child := range children {
			if child.IsEmpty() || !maskHasAny(mask, child.ForwardStart, child.ForwardEnd()) {
				continue
			}
			mismatches := cand.mismatches
			if sym != c {
				if cand.mismatches >= zMax {
					continue
				}
				mismatches++
				probeHit = true
			}
			out = append(out, candidate{pos: child, mismatches: mismatches})
		}
	}
	return out, probeHit, nil
}

func uniqueBagPosition(mask *bitvector.BitVector, bag []candidate) (uint64, bool) {
	var found uint64
	var count int
	for _, cand := range bag {
		if cand.pos.IsEmpty() {
			continue
		}
		p, ok := uniqueMaskedForward(mask, cand.pos.ForwardStart, cand.pos.ForwardEnd())
		if !ok {
			return 0, false
		}
		if count == 0 {
			found = p
		} else if found != p {
			return 0, false
		}
		count++
	}
	if count != 1 {
		return 0, false
	}
	return found, true
}

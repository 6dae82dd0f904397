package mapping

import (
	"github.com/exascience/fmdindex/bitvector"
	"github.com/exascience/fmdindex/fmdindex"
	"github.com/exascience/fmdindex/textposition"
)

// CreditConfig holds the index a sentinel's surrounding word is
// verified against, the window widths the sentinel search scans, and
// the mismatch budget a sentinel's surrounding word must stay within.
type CreditConfig struct {
	Config
	LeftMinContext  uint64
	RightMinContext uint64
	ZMax            uint64
}

// CreditFilter combines independently produced left- and right-context
// mapping vectors for the same query and propagates credit across
// conflict-free spans.
//
// It first disambiguates every position, then finds the left and right
// sentinels -- the outermost positions whose surrounding word (of
// length LeftMinContext / RightMinContext) is unambiguous within ZMax
// mismatches -- and copies the disambiguated mapping through unchanged
// outside [leftSentinel, rightSentinel]. Inside that span, every
// unmapped position is filled from its mapped neighbours' context
// reach, when the implied positions agree.
func CreditFilter(cfg CreditConfig, query string, leftMappings, rightMappings []fmdindex.Mapping) []fmdindex.Mapping {
	n := len(query)
	disambiguated := make([]fmdindex.Mapping, n)
	for i := 0; i < n; i++ {
		disambiguated[i] = Disambiguate(leftMappings[i], rightMappings[i])
	}

	leftSentinel, hasLeft := findSentinel(cfg, query, disambiguated, 0, n, 1, cfg.LeftMinContext)
	rightSentinel, hasRight := findSentinel(cfg, query, disambiguated, n-1, -1, -1, cfg.RightMinContext)
	if !hasLeft || !hasRight {
		// No unambiguous anchor on one side: nothing to propagate
		// credit from, so pass the disambiguated vector through as is.
		return disambiguated
	}

	var maxLeftContext, maxRightContext uint64
	for _, m := range disambiguated {
		if !m.Mapped {
			continue
		}
		if m.LeftContext > maxLeftContext {
			maxLeftContext = m.LeftContext
		}
		if m.RightContext > maxRightContext {
			maxRightContext = m.RightContext
		}
	}

	out := make([]fmdindex.Mapping, n)
	copy(out, disambiguated)
	for i := leftSentinel + 1; i < rightSentinel; i++ {
		if disambiguated[i].Mapped {
			continue
		}
		out[i] = impliedMapping(disambiguated, i, n, maxLeftContext, maxRightContext)
	}
	return out
}

// findSentinel scans from start in the given direction (step +-1,
// stopping before limit) for the first position whose mapping is
// mapped and whose surrounding word of length minContext -- starting
// at that position when step > 0, ending at it when step < 0 -- has a
// unique match against cfg.Index within cfg.ZMax substitution
// mismatches. A window that runs past either end of query is skipped:
// there is no full-length word to test there.
func findSentinel(cfg CreditConfig, query string, mappings []fmdindex.Mapping, start, limit, step int, minContext uint64) (int, bool) {
	n := len(query)
	for i := start; i != limit; i += step {
		m := mappings[i]
		if !m.Mapped {
			continue
		}
		var word string
		if step > 0 {
			end := i + int(minContext)
			if end > n {
				continue
			}
			word = query[i:end]
		} else {
			begin := i - int(minContext) + 1
			if begin < 0 {
				continue
			}
			word = query[begin : i+1]
		}
		unique, err := wordUniqueWithinZMax(cfg.Index, cfg.Mask, word, cfg.ZMax)
		if err != nil || !unique {
			continue
		}
		return i, true
	}
	return 0, false
}

// wordUniqueWithinZMax reports whether word has exactly one match
// against idx (restricted to mask, when non-nil) within zMax
// substitution mismatches, reusing the same bag-of-candidates search
// MisMatchMap scans a whole query with.
func wordUniqueWithinZMax(idx *fmdindex.FMDIndex, mask *bitvector.BitVector, word string, zMax uint64) (bool, error) {
	bag := []candidate{{pos: idx.FullRange(), mismatches: 0}}
	for i := len(word) - 1; i >= 0; i-- {
		c, err := fmdindex.ParseSymbol(word[i])
		if err != nil {
			return false, err
		}
		nextBag, _, err := extendBag(idx, mask, bag, c, zMax)
		if err != nil {
			return false, err
		}
		if len(nextBag) == 0 {
			return false, nil
		}
		bag = nextBag
	}
	_, unique := uniqueBagPosition(mask, bag)
	return unique, nil
}

// impliedMapping collects, from each side, the TextPosition that mapped
// neighbours whose context reaches position i imply it should have,
// and emits the credit mapping when both sides imply the same position
// or when only one side implies a position at all. maxLeftContext
// and maxRightContext are the largest LeftContext/RightContext seen
// anywhere in mappings, bounding how far a neighbour could possibly
// reach back to i.
func impliedMapping(mappings []fmdindex.Mapping, i, n int, maxLeftContext, maxRightContext uint64) fmdindex.Mapping {
	leftImplied, leftOK := impliedFromSide(mappings, i, n, -1, maxRightContext)
	rightImplied, rightOK := impliedFromSide(mappings, i, n, 1, maxLeftContext)
	switch {
	case leftOK && rightOK:
		if leftImplied.Equal(rightImplied) {
			return fmdindex.Mapping{Mapped: true, Position: leftImplied, LeftContext: 1, RightContext: 1}
		}
		return fmdindex.Unmapped
	case leftOK:
		return fmdindex.Mapping{Mapped: true, Position: leftImplied, LeftContext: 1, RightContext: 1}
	case rightOK:
		return fmdindex.Mapping{Mapped: true, Position: rightImplied, LeftContext: 1, RightContext: 1}
	default:
		return fmdindex.Unmapped
	}
}

// impliedFromSide scans neighbours of i in direction dir (-1 = look to
// the left, +1 = look to the right) whose context reaches i, and
// returns the TextPosition they all imply for i, or ok=false if no
// neighbour reaches i or two reaching neighbours disagree. Context
// length is not monotone in distance from i, so a neighbour that does
// not reach does not end the scan: it is skipped, and the scan keeps
// going until dist exceeds maxReach, the farthest any neighbour in
// mappings could possibly reach.
func impliedFromSide(mappings []fmdindex.Mapping, i, n, dir int, maxReach uint64) (tp textposition.TextPosition, ok bool) {
	if maxReach == 0 {
		return textposition.TextPosition{}, false
	}
	var found textposition.TextPosition
	have := false
	for j := i + dir; j >= 0 && j < n; j += dir {
		dist := j - i
		if dist < 0 {
			dist = -dist
		}
		if uint64(dist) > maxReach-1 {
			break
		}
		m := mappings[j]
		if !m.Mapped {
			continue
		}
		reach := reachOf(m, dir)
		if uint64(dist) > reach-1 {
			continue
		}
		implied := m.Position.Translate(int64(i - j))
		if !have {
			found, have = implied, true
		} else if !found.Equal(implied) {
			return textposition.TextPosition{}, false
		}
	}
	return found, have
}

// reachOf returns how far a mapped neighbour's context window extends
// back toward the position being implied: a neighbour to the right
// (dir > 0) reaches leftward via its LeftContext, and a neighbour to
// the left (dir < 0) reaches rightward via its RightContext.
func reachOf(m fmdindex.Mapping, dir int) uint64 {
	if dir > 0 {
		return m.LeftContext
	}
	return m.RightContext
}

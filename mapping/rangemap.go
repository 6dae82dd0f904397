package mapping

import (
	"fmt"

	"github.com/exascience/fmdindex/bitvector"
	"github.com/exascience/fmdindex/fmdindex"
)

// RangeConfig adds the range-targeted parameters to Config: Ranges
// marks, with a 1 bit, the start of each merge-equivalence range over
// BWT positions. AddContext is
// how many additional bases must be consumed, after a position first
// becomes confined to a single range, before a mapping may be emitted.
type RangeConfig struct {
	Config
	Ranges     *bitvector.BitVector
	AddContext uint64
}

// RangeScheme implements RangeMap via the Scheme interface.
type RangeScheme struct {
	RangeConfig
}

func (s RangeScheme) Map(query string) ([]fmdindex.Mapping, error) {
	return RangeMap(s.RangeConfig, query)
}

// rangeIndex returns the 0-based id of the range that BWT position pos
// falls in.
func rangeIndex(ranges *bitvector.BitVector, pos uint64) uint64 {
	return ranges.Rank(pos, true) - 1
}

// confinedToOneRange reports whether every forward position in
// [start, end] belongs to the same range: since ranges are contiguous,
// this holds exactly when the endpoints share a range id.
func confinedToOneRange(ranges *bitvector.BitVector, start, end uint64) bool {
	return rangeIndex(ranges, start) == rangeIndex(ranges, end)
}

// RangeMap is MapRight's right-to-left scan with one twist: uniqueness is judged against Ranges, a partition of BWT
// positions coarser than individual positions, and once a position
// first becomes confined to a single range, AddContext more bases must
// be consumed before the mapping is actually emitted.
func RangeMap(cfg RangeConfig, query string) ([]fmdindex.Mapping, error) {
	idx := cfg.Index
	out := make([]fmdindex.Mapping, len(query))
	pos := idx.FullRange()
	var length uint64
	var uniqueSinceLen uint64 // 0 means "not confined to a range yet"
	for i := len(query) - 1; i >= 0; i-- {
		c, err := fmdindex.ParseSymbol(query[i])
		if err != nil {
			return nil, err
		}
		for {
			next, extErr := idx.ExtendLeftOnly(pos, c)
			if extErr != nil {
				return nil, extErr
			}
			if !next.IsEmpty() && maskHasAny(cfg.Mask, next.ForwardStart, next.ForwardEnd()) {
				pos = next
				length++
				break
			}
			if length == 0 {
				if next.IsEmpty() {
					return nil, &fmdindex.InconsistentIndex{Reason: fmt.Sprintf("range-targeted mapping query encountered alphabet symbol %q that never occurs in the index", c.Byte())}
				}
				uniqueSinceLen = 0
				break
			}
			// Restarting invalidates any range confinement already
			// discovered at this query position.
			pos, length = idx.RetractOneStep(pos)
			uniqueSinceLen = 0
		}
		if length > 0 && confinedToOneRange(cfg.Ranges, pos.ForwardStart, pos.ForwardEnd()) {
			if uniqueSinceLen == 0 {
				uniqueSinceLen = length
			}
		} else {
			uniqueSinceLen = 0
		}
		if uniqueSinceLen > 0 && length-uniqueSinceLen >= cfg.AddContext && length >= cfg.MinContext {
			p := pos.ForwardStart
			if cfg.Mask != nil {
				if found, ok := maskValueAfter(cfg.Mask, pos.ForwardStart); ok {
					p = found
				}
			}
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

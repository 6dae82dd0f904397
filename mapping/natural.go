package mapping

import "github.com/exascience/fmdindex/fmdindex"

// NaturalScheme implements MapRight via the Scheme interface.
type NaturalScheme struct {
	Config
}

func (s NaturalScheme) Map(query string) ([]fmdindex.Mapping, error) {
	return MapRight(s.Config, query)
}

// MapRight is the right-to-left "inchworm" sweep: for
// each query position, scanning from the end, it extends one base at a
// time (extendLeftOnly), retracting one suffix-tree step and retrying
// whenever the extension is empty under the mask, and emits a mapping
// once the bi-interval names exactly one position visible through the
// mask with at least MinContext bases consumed.
//
// Positions are written directly at their original query index as the
// sweep runs right to left, which is equivalent to building the result
// back-to-front and reversing it at the end, without the extra reversal pass.
func MapRight(cfg Config, query string) ([]fmdindex.Mapping, error) {
	idx := cfg.Index
	out := make([]fmdindex.Mapping, len(query))
	pos := idx.FullRange()
	var length uint64
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
				// Can't retract below the empty pattern: this query
				// character does not occur anywhere under the mask
				// starting from here. Leave pos at the full range and
				// give up on this position.
				break
			}
			pos, length = idx.RetractOneStep(pos)
		}
		if length > 0 {
			if p, ok := uniqueMaskedForward(cfg.Mask, pos.ForwardStart, pos.ForwardEnd()); ok && length >= cfg.MinContext {
				out[i] = fmdindex.Mapping{
					Mapped:       true,
					Position:     idx.Locate(p),
					LeftContext:  1,
					RightContext: length,
				}
				continue
			}
		}
		out[i] = fmdindex.Unmapped
	}
	return out, nil
}

// MapLeft is MapRight run over the reverse complement of query, with
// each resulting TextPosition flipped back to the opposite strand of
// the same contig and its context roles swapped:
// what MapRight on the reverse complement calls "right context" is the
// original query's left context, and vice versa.
func MapLeft(cfg Config, query string) ([]fmdindex.Mapping, error) {
	rc, err := fmdindex.ReverseComplement(query)
	if err != nil {
		return nil, err
	}
	onRC, err := MapRight(cfg, rc)
	if err != nil {
		return nil, err
	}
	n := len(query)
	out := make([]fmdindex.Mapping, n)
	for k, m := range onRC {
		j := n - 1 - k
		if !m.Mapped {
			out[j] = fmdindex.Unmapped
			continue
		}
		contigLength := cfg.Index.Contigs().Contig(int(m.Position.Contig())).Length
		out[j] = fmdindex.Mapping{
			Mapped:       true,
			Position:     m.Position.Flip(contigLength),
			LeftContext:  m.RightContext,
			RightContext: m.LeftContext,
		}
	}
	return out, nil
}

// Disambiguate combines a left-context and a right-context mapping for
// the same query position: unmapped if both are
// unmapped, the other side if one is unmapped, the agreed-upon mapping
// (with the richer of the two context pairs) if both name the same
// position, and unmapped if they disagree.
func Disambiguate(left, right fmdindex.Mapping) fmdindex.Mapping {
	switch {
	case !left.Mapped && !right.Mapped:
		return fmdindex.Unmapped
	case !left.Mapped:
		return right
	case !right.Mapped:
		return left
	case left.Position.Equal(right.Position):
		return fmdindex.Mapping{
			Mapped:       true,
			Position:     left.Position,
			LeftContext:  maxUint64(left.LeftContext, right.LeftContext),
			RightContext: maxUint64(left.RightContext, right.RightContext),
		}
	default:
		return fmdindex.Unmapped
	}
}

// MapBoth is the position-wise disambiguation of MapLeft and MapRight.
func MapBoth(cfg Config, query string) ([]fmdindex.Mapping, error) {
	left, err := MapLeft(cfg, query)
	if err != nil {
		return nil, err
	}
	right, err := MapRight(cfg, query)
	if err != nil {
		return nil, err
	}
	out := make([]fmdindex.Mapping, len(query))
	for i := range query {
		out[i] = Disambiguate(left[i], right[i])
	}
	return out, nil
}

package mapping

import (
	"github.com/exascience/fmdindex/fmdindex"
	"github.com/exascience/fmdindex/textposition"
)

// ZipConfig adds ZipMappingScheme's parameters to Config.
// MaxRangeCount bounds the total number of retraction steps, over both
// sides together, that exploreRetractions takes before giving up;
// MaxExtendThrough (0 means no bound) makes it give up once the side
// due for retraction is already that many bases or more below its
// original context length; UseRetraction enables retracting a
// side's bi-interval to find a shared ancestor node instead of
// requiring an exact context-length match.
type ZipConfig struct {
	Config
	MaxRangeCount    uint64
	MaxExtendThrough uint64
	UseRetraction    bool
}

// ZipMappingScheme implements ZipMappingScheme's two-sided confirmation
// contract via the Scheme interface.
type ZipMappingScheme struct {
	ZipConfig
}

func (s ZipMappingScheme) Map(query string) ([]fmdindex.Mapping, error) {
	return MapZip(s.ZipConfig, query)
}

// context is one side's discovered state at a query position: the
// bi-interval for the longest context found in that direction and its
// length.
type context struct {
	pos    fmdindex.FMDPosition
	length uint64
}

// MapZip implements a stricter two-sided contract: a position is
// mapped only if its unique left context and unique
// right context, each found by one-sided inchworm sweeps, agree on a
// single TextPosition once their retraction sets are intersected.
func MapZip(cfg ZipConfig, query string) ([]fmdindex.Mapping, error) {
	// leftCtx[i] matches query[:i+1] (an inchworm sweep left to right,
	// appending); rightCtx[i] matches query[i:] (a sweep right to left,
	// prepending) -- the same two sweeps MapLeft/MapRight use.
	leftCtx, err := inchwormContexts(cfg.Config, query, false)
	if err != nil {
		return nil, err
	}
	rightCtx, err := inchwormContexts(cfg.Config, query, true)
	if err != nil {
		return nil, err
	}
	out := make([]fmdindex.Mapping, len(query))
	for i := range query {
		tp, ok := exploreRetractions(cfg, leftCtx[i], rightCtx[i])
		if !ok {
			out[i] = fmdindex.Unmapped
			continue
		}
		total := leftCtx[i].length + rightCtx[i].length
		if total < cfg.MinContext {
			out[i] = fmdindex.Unmapped
			continue
		}
		out[i] = fmdindex.Mapping{
			Mapped:       true,
			Position:     tp,
			LeftContext:  leftCtx[i].length,
			RightContext: rightCtx[i].length,
		}
	}
	return out, nil
}

// inchwormContexts sweeps the query once, extending backward
// (right-to-left, prepending, when backward is true) or forward
// (left-to-right, appending, when backward is false), retracting one
// suffix-tree step and retrying whenever an extension is empty under
// the mask. It reports, per position, the reached bi-interval and its
// context length -- the same primitive MapRight/MapLeft use, but
// without collapsing to a mapped/unmapped decision, since MapZip needs
// both raw bi-intervals to intersect.
func inchwormContexts(cfg Config, query string, backward bool) ([]context, error) {
	idx := cfg.Index
	n := len(query)
	out := make([]context, n)
	pos := idx.FullRange()
	var length uint64
	i, stop, step := 0, n, 1
	if backward {
		i, stop, step = n-1, -1, -1
	}
	for ; i != stop; i += step {
		c, err := fmdindex.ParseSymbol(query[i])
		if err != nil {
			return nil, err
		}
		for {
			next, extErr := idx.Extend(pos, c, backward)
			if extErr != nil {
				return nil, extErr
			}
			if !next.IsEmpty() && maskHasAny(cfg.Mask, next.ForwardStart, next.ForwardEnd()) {
				pos = next
				length++
				break
			}
			if length == 0 {
				break
			}
			pos, length = idx.RetractOneStep(pos)
		}
		out[i] = context{pos: pos, length: length}
	}
	return out, nil
}

// exploreRetractions walks retractions of left and right (up to
// MaxRangeCount steps total, retracting the side with the longer
// context first) looking for a pair of ancestor bi-intervals that name
// exactly one shared TextPosition. When MaxExtendThrough is non-zero it
// gives up once the side due for retraction is already MaxExtendThrough
// or more bases below its original length; a single step can take a
// side past that bound.
func exploreRetractions(cfg ZipConfig, left, right context) (textposition.TextPosition, bool) {
	idx := cfg.Index
	l, r := left, right
	for steps := uint64(0); ; steps++ {
		if tp, ok := agreeingPosition(cfg, l, r); ok {
			return tp, true
		}
		if !cfg.UseRetraction || steps >= cfg.MaxRangeCount {
			return textposition.TextPosition{}, false
		}
		if l.length >= r.length {
			if l.length == 0 || (cfg.MaxExtendThrough > 0 && left.length-l.length >= cfg.MaxExtendThrough) {
				return textposition.TextPosition{}, false
			}
			l.pos, l.length = idx.RetractOneStep(l.pos)
		} else {
			if r.length == 0 || (cfg.MaxExtendThrough > 0 && right.length-r.length >= cfg.MaxExtendThrough) {
				return textposition.TextPosition{}, false
			}
			r.pos, r.length = idx.RetractOneStep(r.pos)
		}
	}
}

// agreeingPosition checks whether left and right each name exactly one
// masked forward position, and whether those positions -- each
// translated to the query position they both anchor -- name the same
// TextPosition. left's match ends at the query position and is
// left.length bases long, so its TextPosition must be shifted forward
// by that length minus one; right's match starts at the query position, so its
// TextPosition already names it directly.
func agreeingPosition(cfg ZipConfig, left, right context) (textposition.TextPosition, bool) {
	idx := cfg.Index
	if left.length == 0 || right.length == 0 {
		return textposition.TextPosition{}, false
	}
	lp, ok := uniqueMaskedForward(cfg.Mask, left.pos.ForwardStart, left.pos.ForwardEnd())
	if !ok {
		return textposition.TextPosition{}, false
	}
	rp, ok := uniqueMaskedForward(cfg.Mask, right.pos.ForwardStart, right.pos.ForwardEnd())
	if !ok {
		return textposition.TextPosition{}, false
	}
	leftTP := idx.Locate(lp).Translate(int64(left.length) - 1)
	rightTP := idx.Locate(rp)
	if !leftTP.Equal(rightTP) {
		return textposition.TextPosition{}, false
	}
	return rightTP, true
}

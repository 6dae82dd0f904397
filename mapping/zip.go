package mapping

import (
	"github.com/exascience/fmdindex/bitvector"
	"github.com/exascience/fmdindex/fmdindex"
)

// CmisScheme implements CmisMap via the Scheme interface.
type CmisScheme struct {
	Config
}

func (s CmisScheme) Map(query string) ([]fmdindex.Mapping, error) {
	return CmisMap(s.Config, query)
}

// CmisMap maps by simultaneously extending outward in both directions
// from every query position. For position i it starts
// from the single-character bi-interval at query[i] and, for
// k = 1, 2, ..., extends forward by query[i+k] then backward by
// query[i-k] while both indices stay in range. It tracks the first k
// at which the bi-interval becomes unique (within the mask), keeps
// extending to find the final window length, but reports the position
// only if uniqueness was reached before the window ran off either end
// or the bi-interval went empty, with that final window length >=
// MinContext. The reported LeftContext and RightContext are both the
// window length at which uniqueness was first reached, not the final
// window length.
func CmisMap(cfg Config, query string) ([]fmdindex.Mapping, error) {
	idx := cfg.Index
	n := len(query)
	out := make([]fmdindex.Mapping, n)
	for i := 0; i < n; i++ {
		m, err := cmisMapOne(cfg, idx, query, i)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func cmisMapOne(cfg Config, idx *fmdindex.FMDIndex, query string, i int) (fmdindex.Mapping, error) {
	center, err := fmdindex.ParseSymbol(query[i])
	if err != nil {
		return fmdindex.Unmapped, err
	}
	pos, err := idx.GetCharPosition(center)
	if err != nil {
		return fmdindex.Unmapped, err
	}
	if pos.IsEmpty() || !maskHasAny(cfg.Mask, pos.ForwardStart, pos.ForwardEnd()) {
		return fmdindex.Unmapped, nil
	}

	length := uint64(1)
	uniquePos, uniqueAt, found := checkUnique(cfg.Mask, pos, length)

	k := 1
	for i-k >= 0 && i+k < len(query) {
		rightSym, err := fmdindex.ParseSymbol(query[i+k])
		if err != nil {
			return fmdindex.Unmapped, err
		}
		next, err := idx.Extend(pos, rightSym, false)
		if err != nil {
			return fmdindex.Unmapped, err
		}
		if next.IsEmpty() || !maskHasAny(cfg.Mask, next.ForwardStart, next.ForwardEnd()) {
			break
		}
		pos = next

		leftSym, err := fmdindex.ParseSymbol(query[i-k])
		if err != nil {
			return fmdindex.Unmapped, err
		}
		next, err = idx.Extend(pos, leftSym, true)
		if err != nil {
			return fmdindex.Unmapped, err
		}
		if next.IsEmpty() || !maskHasAny(cfg.Mask, next.ForwardStart, next.ForwardEnd()) {
			break
		}
		pos = next
		length += 2

		if !found {
			uniquePos, uniqueAt, found = checkUnique(cfg.Mask, pos, length)
		}
		k++
	}

	if !found || length < cfg.MinContext {
		return fmdindex.Unmapped, nil
	}
	return fmdindex.Mapping{
		Mapped:       true,
		Position:     idx.Locate(uniquePos),
		LeftContext:  uniqueAt,
		RightContext: uniqueAt,
	}, nil
}

func checkUnique(mask *bitvector.BitVector, pos fmdindex.FMDPosition, length uint64) (p uint64, at uint64, ok bool) {
	p, ok = uniqueMaskedForward(mask, pos.ForwardStart, pos.ForwardEnd())
	return p, length, ok
}

// Package mapping implements the family of position-by-position mapping
// schemes built on top of an FMDIndex: left/right/both
// context mapping ("inchworm"), range-targeted mapping, inexact
// mismatch mapping, zip mapping, and credit propagation. Every scheme
// shares the same input/output shape -- a query string in, one Mapping
// per position out -- so they are modelled as interchangeable
// implementations of the Scheme interface.
package mapping

import (
	"github.com/exascience/fmdindex/bitvector"
	"github.com/exascience/fmdindex/fmdindex"
)

// Config bundles the parameters every scheme shares: the index to
// query, the mask restricting matches to a single genome (nil means no
// restriction, search the whole index), and the minimum context length
// a position must accumulate before it may be reported mapped.
type Config struct {
	Index      *fmdindex.FMDIndex
	Mask       *bitvector.BitVector
	MinContext uint64
}

// Scheme is the shared capability of every mapping scheme in this
// package: map a query to one Mapping per position, in query order.
type Scheme interface {
	Map(query string) ([]fmdindex.Mapping, error)
}

// maskHasAny reports whether any forward BWT position in [start, end]
// is visible through mask. A nil mask means no restriction.
func maskHasAny(mask *bitvector.BitVector, start, end uint64) bool {
	if mask == nil {
		return true
	}
	pos, found := maskValueAfter(mask, start)
	return found && pos <= end
}

// uniqueMaskedForward reports whether exactly one forward BWT position
// in [start, end] is visible through mask, and returns it. A nil mask
// means no restriction, so uniqueness is just interval length 1.
func uniqueMaskedForward(mask *bitvector.BitVector, start, end uint64) (uint64, bool) {
	if mask == nil {
		if start == end {
			return start, true
		}
		return 0, false
	}
	pos, found := maskValueAfter(mask, start)
	if !found || pos > end {
		return 0, false
	}
	if next, found := maskValueAfter(mask, pos+1); found && next <= end {
		return 0, false
	}
	return pos, true
}

// maskValueAfter wraps BitVector.ValueAfter, turning its past-the-end
// sentinel return into a found=false result.
func maskValueAfter(mask *bitvector.BitVector, i uint64) (uint64, bool) {
	pos, _ := mask.ValueAfter(i)
	if pos >= mask.Len() {
		return 0, false
	}
	return pos, true
}

func maxUint64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

package fmdindex

import "github.com/exascience/fmdindex/textposition"

// Mapping is the per-position result a mapping scheme produces
//: either unmapped, or a TextPosition together with the
// maximum left and right context lengths that were unique to that
// position (context includes the mapped base itself).
type Mapping struct {
	Mapped       bool
	Position     textposition.TextPosition
	LeftContext  uint64
	RightContext uint64
}

// Unmapped is the zero-value unmapped marker.
var Unmapped = Mapping{}

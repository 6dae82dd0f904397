package fmdindex

import "fmt"

// InvalidSymbol is returned when a query or extension character is not
// in the DNA alphabet {A, C, G, T}. The '$' end-of-text
// marker is never supplied explicitly by a caller; it only ever
// appears implicitly inside the index.
type InvalidSymbol struct {
	Char byte
}

func (e *InvalidSymbol) Error() string {
	return fmt.Sprintf("fmdindex: invalid symbol %q, expected one of A, C, G, T", e.Char)
}

// OutOfRange is returned when an index runs past the BWT, LCP, or
// contig-count bounds.
type OutOfRange struct {
	Op    string
	Index int64
	Bound int64
}

func (e *OutOfRange) Error() string {
	return fmt.Sprintf("fmdindex: %s: index %d out of range [0, %d)", e.Op, e.Index, e.Bound)
}

// InconsistentIndex is returned while loading an on-disk index whose
// parts disagree with one another: a contig referencing a genome id
// with no mask file, cumulative length metadata that doesn't add up, or
// a range-targeted mapping query encountering an
// alphabet symbol that never occurs in the index at all.
type InconsistentIndex struct {
	Reason string
}

func (e *InconsistentIndex) Error() string {
	return "fmdindex: inconsistent index: " + e.Reason
}

// EmptyIntervalMisuse is returned when a caller attempts to extend a
// bi-interval that is already known to be empty.
type EmptyIntervalMisuse struct {
	Op string
}

func (e *EmptyIntervalMisuse) Error() string {
	return fmt.Sprintf("fmdindex: %s: attempt to extend an empty bi-interval", e.Op)
}

// IOError wraps a file read/write failure encountered during load or
// save of an on-disk index component.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fmdindex: i/o error on %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

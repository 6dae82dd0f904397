// Package textposition defines the (text, offset) coordinate that the
// FMD-index uses to name a base in the concatenation of all indexed
// contigs and their reverse complements.
package textposition

import "fmt"

// TextPosition names a single base: which of the 2*N texts it falls in
// (forward strand of contig k is text 2k, its reverse complement is
// text 2k+1), and its offset within that text.
type TextPosition struct {
	Text   uint64
	Offset uint64
}

// IsForward reports whether this position lies on an even-numbered
// (forward-strand) text.
func (p TextPosition) IsForward() bool {
	return p.Text&1 == 0
}

// Contig returns the contig id that this position's text belongs to.
// Forward text 2k and reverse-complement text 2k+1 both belong to
// contig k.
func (p TextPosition) Contig() uint64 {
	return p.Text >> 1
}

// Flip returns the same base named on the opposite strand: the text id
// is toggled (XOR 1) and the offset is mirrored around the contig
// length, so Flip requires knowing the contig's length.
func (p TextPosition) Flip(contigLength uint64) TextPosition {
	return TextPosition{
		Text:   p.Text ^ 1,
		Offset: contigLength - 1 - p.Offset,
	}
}

func (p TextPosition) String() string {
	return fmt.Sprintf("(text %d, offset %d)", p.Text, p.Offset)
}

// Equal reports whether two positions name the same (text, offset) pair.
func (p TextPosition) Equal(q TextPosition) bool {
	return p.Text == q.Text && p.Offset == q.Offset
}

// Translate shifts a position by delta bases along its own text,
// preserving strand. Used by credit propagation (spec §4.3.6) to infer
// an unmapped position's coordinate from a mapped neighbour's.
func (p TextPosition) Translate(delta int64) TextPosition {
	if delta >= 0 {
		return TextPosition{Text: p.Text, Offset: p.Offset + uint64(delta)}
	}
	return TextPosition{Text: p.Text, Offset: p.Offset - uint64(-delta)}
}

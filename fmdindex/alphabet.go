package fmdindex

// Symbol is one letter of the five-symbol DNA alphabet used throughout
// the index: {$, A, C, G, T}, in that sort order. '$' only
// ever appears as the implicit end-of-text marker; callers never pass
// it explicitly.
type Symbol byte

// The alphabet, in sort order. AlphabetSize includes the '$' sentinel.
const (
	Dollar Symbol = iota
	A
	C
	G
	T

	AlphabetSize = 5
)

// dnaSymbols lists the four real bases in alphabet order, i.e. without
// the '$' sentinel. Most extension and Occ-fanout loops range over
// exactly these four.
var dnaSymbols = [4]Symbol{A, C, G, T}

// complementOf maps each symbol to its Watson-Crick complement; '$'
// complements to itself.
var complementOf = [AlphabetSize]Symbol{
	Dollar: Dollar,
	A:      T,
	C:      G,
	G:      C,
	T:      A,
}

// Complement returns the Watson-Crick complement of s.
func Complement(s Symbol) Symbol {
	return complementOf[s]
}

// ParseSymbol converts an ASCII base character to a Symbol, returning
// InvalidSymbol for anything outside {A, C, G, T} (upper or lower
// case).
func ParseSymbol(c byte) (Symbol, error) {
	switch c {
	case 'A', 'a':
		return A, nil
	case 'C', 'c':
		return C, nil
	case 'G', 'g':
		return G, nil
	case 'T', 't':
		return T, nil
	default:
		return 0, &InvalidSymbol{Char: c}
	}
}

// Byte renders a Symbol back to its upper-case ASCII character. '$' is
// rendered as the literal character '$', which is never valid input to
// ParseSymbol.
func (s Symbol) Byte() byte {
	switch s {
	case Dollar:
		return '$'
	case A:
		return 'A'
	case C:
		return 'C'
	case G:
		return 'G'
	case T:
		return 'T'
	default:
		return '?'
	}
}

func (s Symbol) String() string {
	return string(s.Byte())
}

// ReverseComplement returns the reverse complement of a query string,
// i.e. the string that the reverse-strand side of a bi-interval
// implicitly matches. Any character outside the DNA alphabet yields
// InvalidSymbol.
func ReverseComplement(query string) (string, error) {
	out := make([]byte, len(query))
	for i := 0; i < len(query); i++ {
		sym, err := ParseSymbol(query[i])
		if err != nil {
			return "", err
		}
		out[len(query)-1-i] = Complement(sym).Byte()
	}
	return string(out), nil
}

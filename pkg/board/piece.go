package board

import "strings"

// Kind represents a chess piece kind (King, Pawn, etc) with no color. 3 bits.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoKind, false
	}
}

func (k Kind) IsValid() bool {
	return Pawn <= k && k <= King
}

func (k Kind) String() string {
	switch k {
	case NoKind:
		return " "
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

// colorBit is the single bit distinguishing Black occupants from White ones, so that
// same-color tests reduce to a bitwise AND.
const colorBit Piece = 0x08

// Piece is a tagged occupant of a board square: either NoPiece (empty) or one of the
// twelve colored pieces. The low 3 bits hold the Kind; colorBit holds the Color. 4 bits.
type Piece uint8

const NoPiece Piece = 0

// NewPiece composes an occupied square value from a color and a kind.
func NewPiece(c Color, k Kind) Piece {
	p := Piece(k)
	if c == Black {
		p |= colorBit
	}
	return p
}

// IsEmpty returns true iff the square holds no piece.
func (p Piece) IsEmpty() bool {
	return p == NoPiece
}

// Kind returns the piece kind, undefined if IsEmpty.
func (p Piece) Kind() Kind {
	return Kind(p &^ colorBit)
}

// Color returns the piece color, undefined if IsEmpty.
func (p Piece) Color() Color {
	if p&colorBit != 0 {
		return Black
	}
	return White
}

// SameColor returns true iff both pieces are occupied and share a color.
func SameColor(a, b Piece) bool {
	return !a.IsEmpty() && !b.IsEmpty() && (a&colorBit) == (b&colorBit)
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	if p.Color() == White {
		return strings.ToUpper(p.Kind().String())
	}
	return p.Kind().String()
}

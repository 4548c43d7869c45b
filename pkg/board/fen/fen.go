// Package fen contains utilities for reading and writing positions in Forsyth-Edwards
// Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Bibelott/cherver/pkg/board"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Position is the decoded content of a FEN record.
type Position struct {
	Board          board.Board
	Turn           board.Color
	Castling       board.Castling
	EnPassant      board.Square
	EnPassantValid bool
	HalfmoveClock  int
	FullMoveNumber int
}

// Decode parses a FEN string into its six space-separated fields.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(record string) (Position, error) {
	parts := strings.Split(strings.TrimSpace(record), " ")
	if len(parts) != 6 {
		return Position{}, fmt.Errorf("invalid number of fields in FEN: %q", record)
	}

	// (1) Piece placement, from rank 8 down to rank 1; within each rank, file a
	// through file h. Digits are runs of empty squares; '/' separates ranks.

	var b board.Board

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("invalid number of ranks in FEN: %q", record)
	}
	for r, row := range ranks {
		f := 0
		for _, c := range row {
			switch {
			case unicode.IsDigit(c):
				f += int(c - '0')
			default:
				color, kind, ok := parsePiece(c)
				if !ok {
					return Position{}, fmt.Errorf("invalid piece %q in FEN: %q", c, record)
				}
				if f >= 8 {
					return Position{}, fmt.Errorf("rank %v overflows in FEN: %q", r, record)
				}
				b.Set(r, f, board.NewPiece(color, kind))
				f++
			}
		}
		if f != 8 {
			return Position{}, fmt.Errorf("rank %v does not total 8 squares in FEN: %q", r, record)
		}
	}

	// (2) Active color.

	turn, ok := parseColor(parts[1])
	if !ok {
		return Position{}, fmt.Errorf("invalid active color in FEN: %q", record)
	}

	// (3) Castling availability.

	castling, ok := parseCastling(parts[2])
	if !ok {
		return Position{}, fmt.Errorf("invalid castling rights in FEN: %q", record)
	}

	// (4) En passant target square.

	var ep board.Square
	epOK := false
	if parts[3] != "-" {
		sq, err := board.ParseSquare(parts[3])
		if err != nil {
			return Position{}, fmt.Errorf("invalid en passant target in FEN: %q", record)
		}
		ep = sq
		epOK = true
	}

	// (5) Halfmove clock.

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil || halfmove < 0 {
		return Position{}, fmt.Errorf("invalid halfmove clock in FEN: %q", record)
	}

	// (6) Fullmove number.

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 {
		return Position{}, fmt.Errorf("invalid fullmove number in FEN: %q", record)
	}

	return Position{
		Board:          b,
		Turn:           turn,
		Castling:       castling,
		EnPassant:      ep,
		EnPassantValid: epOK,
		HalfmoveClock:  halfmove,
		FullMoveNumber: fullmove,
	}, nil
}

// Encode renders a position in FEN notation. It is the inverse of Decode.
func Encode(pos Position) string {
	var sb strings.Builder

	for r := 0; r < 8; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		blanks := 0
		for f := 0; f < 8; f++ {
			p := pos.Board.Get(r, f)
			if p.IsEmpty() {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(p.Color(), p.Kind()))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
	}

	ep := "-"
	if pos.EnPassantValid {
		ep = pos.EnPassant.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), pos.Turn, printCastling(pos.Castling), ep, pos.HalfmoveClock, pos.FullMoveNumber)
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling
	if str == "-" {
		return ret, true
	}
	for _, r := range str {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func parsePiece(r rune) (board.Color, board.Kind, bool) {
	kind, ok := board.ParseKind(unicode.ToLower(r))
	if !ok {
		return 0, 0, false
	}
	if unicode.IsUpper(r) {
		return board.White, kind, true
	}
	return board.Black, kind, true
}

func printPiece(c board.Color, k board.Kind) rune {
	r := []rune(k.String())[0]
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}

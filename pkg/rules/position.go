// Package rules implements the chess rules engine: pseudo-legal and legal move
// generation, terminal-state classification, and FEN-backed position construction.
// It performs no I/O and holds no network or protocol concerns; see package server
// for the piece that drives it from the wire.
package rules

import (
	"fmt"

	"github.com/Bibelott/cherver/pkg/board"
	"github.com/Bibelott/cherver/pkg/board/fen"
)

// Position is a snapshot of the board plus the metadata needed to generate moves:
// side to move, castling rights and en passant target. It excludes the move counters
// and repetition bookkeeping that only Game needs to track across a whole session.
type Position struct {
	Board     board.Board
	Turn      board.Color
	Castling  board.Castling
	EnPassant board.Square
	HasEP     bool
}

// NewPosition decodes a FEN record into a Position plus the halfmove clock and
// fullmove number carried alongside it.
func NewPosition(record string) (Position, int, int, error) {
	p, err := fen.Decode(record)
	if err != nil {
		return Position{}, 0, 0, fmt.Errorf("invalid FEN: %w", err)
	}

	pos := Position{
		Board:     p.Board,
		Turn:      p.Turn,
		Castling:  p.Castling,
		EnPassant: p.EnPassant,
		HasEP:     p.EnPassantValid,
	}

	if _, ok := pos.Board.KingSquare(board.White); !ok {
		return Position{}, 0, 0, fmt.Errorf("invalid FEN: no white king: %q", record)
	}
	if _, ok := pos.Board.KingSquare(board.Black); !ok {
		return Position{}, 0, 0, fmt.Errorf("invalid FEN: no black king: %q", record)
	}

	return pos, p.HalfmoveClock, p.FullMoveNumber, nil
}

// FEN encodes the position back into a FEN record, given the halfmove clock and
// fullmove number carried alongside it by Game.
func (p Position) FEN(halfmove, fullmove int) string {
	return fen.Encode(fen.Position{
		Board:          p.Board,
		Turn:           p.Turn,
		Castling:       p.Castling,
		EnPassant:      p.EnPassant,
		EnPassantValid: p.HasEP,
		HalfmoveClock:  halfmove,
		FullMoveNumber: fullmove,
	})
}

// Clone returns a value copy. Board is a fixed-size array, so this is an ordinary
// struct copy: no allocation, no sharing.
func (p Position) Clone() Position {
	return p
}

// repetitionKey identifies a position for threefold repetition purposes: board plus
// castling rights, partitioned by side to move (see Game). Both fields are
// comparable, so this struct is directly usable as a map key.
type repetitionKey struct {
	board    board.Board
	castling board.Castling
}

func (p Position) repetitionKey() repetitionKey {
	return repetitionKey{board: p.Board, castling: p.Castling}
}

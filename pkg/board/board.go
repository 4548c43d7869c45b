// Package board contains chess board representation and utilities.
package board

import "strings"

// Board is an 8x8 grid of Piece, indexed [rank][file] where rank 0 is Black's back
// rank (FEN row 8) and file 0 is the a-file. Board is a plain array value: copying it
// (e.g. `cp := b`) is a full, fixed-size, allocation-free copy, which is exactly what
// tentative-move legality testing needs (see tryMove in package rules).
type Board [8][8]Piece

// Get returns the occupant of (rank, file). Out-of-range coordinates return NoPiece.
func (b *Board) Get(rank, file int) Piece {
	if !InBounds(rank, file) {
		return NoPiece
	}
	return b[rank][file]
}

// At is like Get but addressed by Square.
func (b *Board) At(sq Square) Piece {
	return b.Get(sq.Rank(), sq.File())
}

// Set places p at (rank, file). The caller must ensure the coordinates are in bounds.
func (b *Board) Set(rank, file int, p Piece) {
	b[rank][file] = p
}

// Put is like Set but addressed by Square.
func (b *Board) Put(sq Square, p Piece) {
	b[sq.Rank()][sq.File()] = p
}

// KingSquare returns the square holding color's king. ok is false if absent, which
// should not happen for a Position in progress.
func (b *Board) KingSquare(c Color) (Square, bool) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := b[r][f]
			if p.Kind() == King && p.Color() == c {
				return NewSquare(r, f), true
			}
		}
	}
	return 0, false
}

// String renders the board as 8 ranks of 8 characters, separated by '/', in FEN rank
// order (rank 0 i.e. FEN row 8 first). Intended for diagnostics, not the FEN codec
// itself: see package fen for the coalesced-digit wire format.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for f := 0; f < 8; f++ {
			sb.WriteString(b[r][f].String())
		}
	}
	return sb.String()
}

package rules

import "github.com/Bibelott/cherver/pkg/board"

// knightOffsets are the eight L-shaped knight jumps.
var knightOffsets = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// kingOffsets are the eight adjacent squares.
var kingOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

var bishopDirs = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
var rookDirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// pseudoLegalFrom enumerates the pseudo-legal destinations for the piece on sq,
// without regard to whether the move leaves the mover's own king in check. Returns
// nil if sq is empty.
func pseudoLegalFrom(pos *Position, sq board.Square) []board.Square {
	p := pos.Board.At(sq)
	if p.IsEmpty() {
		return nil
	}

	switch p.Kind() {
	case board.Pawn:
		return pawnMoves(pos, sq, p.Color())
	case board.Knight:
		return offsetMoves(pos, sq, p.Color(), knightOffsets[:])
	case board.Bishop:
		return slidingMoves(pos, sq, p.Color(), bishopDirs[:])
	case board.Rook:
		return slidingMoves(pos, sq, p.Color(), rookDirs[:])
	case board.Queen:
		ret := slidingMoves(pos, sq, p.Color(), bishopDirs[:])
		return append(ret, slidingMoves(pos, sq, p.Color(), rookDirs[:])...)
	case board.King:
		return kingMoves(pos, sq, p.Color())
	default:
		return nil
	}
}

// allPseudoLegalMoves enumerates pseudo-legal destinations for every piece of the
// given color, keyed by origin square.
func allPseudoLegalMoves(pos *Position, side board.Color) map[board.Square][]board.Square {
	ret := map[board.Square][]board.Square{}
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := board.NewSquare(r, f)
			p := pos.Board.At(sq)
			if p.IsEmpty() || p.Color() != side {
				continue
			}
			ret[sq] = pseudoLegalFrom(pos, sq)
		}
	}
	return ret
}

// isAttacked reports whether any pseudo-legal move of attacker targets sq.
func isAttacked(pos *Position, attacker board.Color, sq board.Square) bool {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			origin := board.NewSquare(r, f)
			p := pos.Board.At(origin)
			if p.IsEmpty() || p.Color() != attacker {
				continue
			}
			for _, dst := range pseudoLegalFrom(pos, origin) {
				if dst == sq {
					return true
				}
			}
		}
	}
	return false
}

func pawnMoves(pos *Position, sq board.Square, c board.Color) []board.Square {
	r, f := sq.Rank(), sq.File()

	dir := -1
	startRank := 6
	if c == board.Black {
		dir = 1
		startRank = 1
	}

	var ret []board.Square

	// One step forward, and two from the starting rank.
	if board.InBounds(r+dir, f) && pos.Board.Get(r+dir, f).IsEmpty() {
		ret = append(ret, board.NewSquare(r+dir, f))
		if r == startRank && pos.Board.Get(r+2*dir, f).IsEmpty() {
			ret = append(ret, board.NewSquare(r+2*dir, f))
		}
	}

	// Diagonal captures, including en passant.
	for _, df := range []int{-1, 1} {
		nr, nf := r+dir, f+df
		if !board.InBounds(nr, nf) {
			continue
		}
		dst := board.NewSquare(nr, nf)
		target := pos.Board.At(dst)
		if (!target.IsEmpty() && target.Color() != c) || (pos.HasEP && pos.EnPassant == dst) {
			ret = append(ret, dst)
		}
	}

	return ret
}

func offsetMoves(pos *Position, sq board.Square, c board.Color, offsets []([2]int)) []board.Square {
	r, f := sq.Rank(), sq.File()
	var ret []board.Square
	for _, o := range offsets {
		nr, nf := r+o[0], f+o[1]
		if !board.InBounds(nr, nf) {
			continue
		}
		target := pos.Board.Get(nr, nf)
		if target.IsEmpty() || target.Color() != c {
			ret = append(ret, board.NewSquare(nr, nf))
		}
	}
	return ret
}

func slidingMoves(pos *Position, sq board.Square, c board.Color, dirs []([2]int)) []board.Square {
	r, f := sq.Rank(), sq.File()
	var ret []board.Square
	for _, d := range dirs {
		nr, nf := r+d[0], f+d[1]
		for board.InBounds(nr, nf) {
			target := pos.Board.Get(nr, nf)
			if target.IsEmpty() {
				ret = append(ret, board.NewSquare(nr, nf))
				nr, nf = nr+d[0], nf+d[1]
				continue
			}
			if target.Color() != c {
				ret = append(ret, board.NewSquare(nr, nf))
			}
			break
		}
	}
	return ret
}

func kingMoves(pos *Position, sq board.Square, c board.Color) []board.Square {
	ret := offsetMoves(pos, sq, c, kingOffsets[:])

	homeRank := 7
	if c == board.Black {
		homeRank = 0
	}
	r, f := sq.Rank(), sq.File()
	if r != homeRank || f != 4 {
		return ret // king not on its home square: no castling candidate
	}

	// Kingside: rook on the h-file corner, empty through f,g-files.
	if pos.Castling.IsAllowed(board.KingSideCastle(c)) {
		if rook := pos.Board.Get(homeRank, 7); rook.Kind() == board.Rook && rook.Color() == c &&
			pos.Board.Get(homeRank, 5).IsEmpty() && pos.Board.Get(homeRank, 6).IsEmpty() {
			ret = append(ret, board.NewSquare(homeRank, 6))
		}
	}
	// Queenside: rook on the a-file corner, empty through b,c,d-files.
	if pos.Castling.IsAllowed(board.QueenSideCastle(c)) {
		if rook := pos.Board.Get(homeRank, 0); rook.Kind() == board.Rook && rook.Color() == c &&
			pos.Board.Get(homeRank, 1).IsEmpty() && pos.Board.Get(homeRank, 2).IsEmpty() && pos.Board.Get(homeRank, 3).IsEmpty() {
			ret = append(ret, board.NewSquare(homeRank, 2))
		}
	}

	return ret
}

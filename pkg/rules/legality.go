package rules

import "github.com/Bibelott/cherver/pkg/board"

// LegalMoves computes the legal destinations for every piece of the given color, by
// filtering each pseudo-legal candidate: apply it tentatively on a copy of the
// position, then discard it if any pseudo-legal destination of the opposite side
// would then attack the mover's own king. Castling additionally requires that the
// king not start in check and not transit an attacked square.
func LegalMoves(pos *Position, side board.Color) map[board.Square][]board.Square {
	candidates := allPseudoLegalMoves(pos, side)
	ret := map[board.Square][]board.Square{}

	for from, dests := range candidates {
		p := pos.Board.At(from)

		var legal []board.Square
		for _, to := range dests {
			if p.Kind() == board.King && abs(to.File()-from.File()) == 2 {
				if !isSafeCastle(pos, side, from, to) {
					continue
				}
			}

			next := tryMove(pos, board.Move{From: from, To: to, Promotion: legalityProbePromotion(p, to)})
			if isAttacked(&next, side.Opponent(), kingSquareOrSelf(&next, side, to)) {
				continue
			}

			legal = append(legal, to)
		}
		ret[from] = legal
	}

	return ret
}

// legalityProbePromotion supplies a placeholder promotion piece so tryMove can be
// used for the legality probe without yet knowing the client's requested promotion;
// Queen behaves identically to any other promotion for attack purposes.
func legalityProbePromotion(p board.Piece, to board.Square) board.Kind {
	if p.Kind() == board.Pawn && (to.Rank() == 0 || to.Rank() == 7) {
		return board.Queen
	}
	return board.NoKind
}

// kingSquareOrSelf returns the king's square after a tentative move. Using
// next.Board.KingSquare directly is equivalent; this helper just documents intent.
func kingSquareOrSelf(next *Position, side board.Color, fallback board.Square) board.Square {
	if sq, ok := next.Board.KingSquare(side); ok {
		return sq
	}
	return fallback
}

// isSafeCastle enforces that the king is not currently in check and does not cross
// an attacked square; the destination square itself is checked by the caller via the
// general post-move attack test.
func isSafeCastle(pos *Position, side board.Color, from, to board.Square) bool {
	if IsChecked(pos, side) {
		return false
	}
	mid := board.NewSquare(from.Rank(), (from.File()+to.File())/2)
	if isAttacked(pos, side.Opponent(), mid) {
		return false
	}
	return true
}

// tryMove applies a move to a value copy of pos and returns the resulting position,
// without any legality checks. Used by LegalMoves for the check probe; Game.Move
// commits a move by calling applyMove on its own position directly.
func tryMove(pos *Position, m board.Move) Position {
	next := pos.Clone()
	applyMove(&next, m)
	return next
}

// IsChecked reports whether side's king is attacked in the current position.
func IsChecked(pos *Position, side board.Color) bool {
	sq, ok := pos.Board.KingSquare(side)
	if !ok {
		return false
	}
	return isAttacked(pos, side.Opponent(), sq)
}

// CheckState classifies which king(s), if any, are presently attacked.
type CheckState int

const (
	NoCheck CheckState = iota
	WhiteChecked
	BlackChecked
	BothChecked
)

// CheckStatus reports the overall check state of the position.
func CheckStatus(pos *Position) CheckState {
	w := IsChecked(pos, board.White)
	b := IsChecked(pos, board.Black)
	switch {
	case w && b:
		return BothChecked
	case w:
		return WhiteChecked
	case b:
		return BlackChecked
	default:
		return NoCheck
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

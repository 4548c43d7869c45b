package rules

import "github.com/Bibelott/cherver/pkg/board"

// applyMove mutates pos in place to reflect m, handling promotion, castling rook
// transport, en passant capture, castling-rights maintenance and the en passant
// target for the following ply. The caller is responsible for legality: applyMove
// assumes m.From holds a piece belonging to pos.Turn and that m.To is one of its
// pseudo-legal destinations.
//
// It returns true iff the move was a capture or pawn move, i.e. whether the
// halfmove clock should reset; the caller (Game) owns clock and move-counter state
// since those span a whole session, not a single position.
func applyMove(pos *Position, m board.Move) bool {
	mover := pos.Board.At(m.From)
	color := mover.Color()
	kind := mover.Kind()

	captured := !pos.Board.At(m.To).IsEmpty()

	// En passant capture: remove the opponent pawn one rank behind the destination.
	if kind == board.Pawn && pos.HasEP && m.To == pos.EnPassant {
		epRank := m.To.Rank() + 1
		if color == board.Black {
			epRank = m.To.Rank() - 1
		}
		if !pos.Board.Get(epRank, m.To.File()).IsEmpty() {
			captured = true
		}
		pos.Board.Set(epRank, m.To.File(), board.NoPiece)
	}

	// Promotion: the pawn is replaced atomically with the promoted piece.
	placed := mover
	if kind == board.Pawn && m.Promotion != board.NoKind {
		placed = board.NewPiece(color, m.Promotion)
	}

	// Castling: transport the rook to the square the king crossed.
	if kind == board.King {
		df := m.To.File() - m.From.File()
		if df == 2 {
			rank := m.From.Rank()
			pos.Board.Set(rank, 5, pos.Board.Get(rank, 7))
			pos.Board.Set(rank, 7, board.NoPiece)
		} else if df == -2 {
			rank := m.From.Rank()
			pos.Board.Set(rank, 3, pos.Board.Get(rank, 0))
			pos.Board.Set(rank, 0, board.NoPiece)
		}
		pos.Castling = pos.Castling.Clear(color)
	}

	pos.Board.Put(m.From, board.NoPiece)
	pos.Board.Put(m.To, placed)

	// Right maintenance: a rook move from, or a capture onto, a home corner clears
	// the associated right -- regardless of which color made the capture.
	if kind == board.Rook {
		pos.Castling &^= cornerRight(color, m.From)
	}
	pos.Castling &^= cornerRight(board.White, m.To)
	pos.Castling &^= cornerRight(board.Black, m.To)

	// En passant target: set only on a pawn double advance, cleared otherwise.
	pos.HasEP = false
	if kind == board.Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		mid := (m.To.Rank() + m.From.Rank()) / 2
		pos.EnPassant = board.NewSquare(mid, m.From.File())
		pos.HasEP = true
	}

	pos.Turn = pos.Turn.Opponent()

	return captured || kind == board.Pawn
}

// cornerRight returns the castling right anchored at c's home-rank corner holding
// sq's file, or 0 if sq is not one of the two corners.
func cornerRight(c board.Color, sq board.Square) board.Castling {
	homeRank := 7
	if c == board.Black {
		homeRank = 0
	}
	if sq.Rank() != homeRank {
		return 0
	}
	switch sq.File() {
	case 0:
		return board.QueenSideCastle(c)
	case 7:
		return board.KingSideCastle(c)
	default:
		return 0
	}
}

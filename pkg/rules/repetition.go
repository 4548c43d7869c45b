package rules

import "github.com/Bibelott/cherver/pkg/board"

// repetitionThreshold is the occurrence count that triggers a draw claim.
const repetitionThreshold = 3

// RepetitionTracker counts (board, castling rights) occurrences, partitioned by side
// to move, for threefold repetition detection. The two maps are kept separate
// (rather than folding turn into one key) to mirror the session's own
// white-to-move/black-to-move bookkeeping. The zero value has nil maps and is not
// usable; use NewRepetitionTracker.
type RepetitionTracker struct {
	white map[repetitionKey]int
	black map[repetitionKey]int
}

// NewRepetitionTracker returns an empty tracker.
func NewRepetitionTracker() *RepetitionTracker {
	return &RepetitionTracker{
		white: map[repetitionKey]int{},
		black: map[repetitionKey]int{},
	}
}

func (t *RepetitionTracker) mapFor(turn board.Color) map[repetitionKey]int {
	if turn == board.White {
		return t.white
	}
	return t.black
}

// Record inserts pos (keyed by the side to move) and returns the resulting
// occurrence count. If en passant is available to a capture in pos, the position is
// considered distinct and is not recorded at all, per the specified approximation;
// Record then returns 0.
func (t *RepetitionTracker) Record(pos *Position) int {
	if pos.HasEP && enPassantCapturable(pos) {
		return 0
	}
	key := pos.repetitionKey()
	m := t.mapFor(pos.Turn)
	m[key]++
	return m[key]
}

// IsThreefold reports whether n (as returned by Record) triggers the draw.
func IsThreefold(n int) bool {
	return n >= repetitionThreshold
}

// enPassantCapturable reports whether any of the side to move's pawns could capture
// en passant right now, i.e. whether the en passant target appears among that side's
// pseudo-legal pawn destinations.
func enPassantCapturable(pos *Position) bool {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := board.NewSquare(r, f)
			p := pos.Board.At(sq)
			if p.IsEmpty() || p.Color() != pos.Turn || p.Kind() != board.Pawn {
				continue
			}
			for _, dst := range pawnMoves(pos, sq, pos.Turn) {
				if dst == pos.EnPassant {
					return true
				}
			}
		}
	}
	return false
}

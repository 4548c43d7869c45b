package rules

import "github.com/Bibelott/cherver/pkg/board"

// Outcome classifies a position immediately after a move is applied and the new side
// to move's legal moves are recomputed.
type Outcome int

const (
	Ongoing Outcome = iota
	Check
	Checkmate
	Stalemate
	FiftyMoveDraw
	ThreefoldRepetition
)

// Annotation is the single character appended to move notation for this outcome, or
// the empty string for Ongoing.
func (o Outcome) Annotation() string {
	switch o {
	case Check:
		return "+"
	case Checkmate:
		return "#"
	case Stalemate, FiftyMoveDraw, ThreefoldRepetition:
		return "-"
	default:
		return ""
	}
}

// Terminal reports whether the outcome ends the game.
func (o Outcome) Terminal() bool {
	return o == Checkmate || o == Stalemate || o == FiftyMoveDraw || o == ThreefoldRepetition
}

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "fifty-move draw"
	case ThreefoldRepetition:
		return "threefold repetition"
	default:
		return "?"
	}
}

// classify determines the outcome for the side now to move: opponentLegal is that
// side's legal-move map (already recomputed), halfmove is the clock after the move,
// and repeated is the occurrence count returned by RepetitionTracker.Record.
func classify(pos *Position, opponentLegal map[board.Square][]board.Square, halfmove int, repeated int) Outcome {
	hasMoves := false
	for _, dests := range opponentLegal {
		if len(dests) > 0 {
			hasMoves = true
			break
		}
	}

	checked := IsChecked(pos, pos.Turn)

	switch {
	case checked && !hasMoves:
		return Checkmate
	case !checked && !hasMoves:
		return Stalemate
	case halfmove >= 100:
		return FiftyMoveDraw
	case IsThreefold(repeated):
		return ThreefoldRepetition
	case checked:
		return Check
	default:
		return Ongoing
	}
}

package rules

import (
	"fmt"

	"github.com/Bibelott/cherver/pkg/board"
)

// Score is the game result string sent to clients at the end of the game.
type Score string

const (
	ScoreUndecided Score = "0-0"
	ScoreWhiteWins Score = "1-0"
	ScoreBlackWins Score = "0-1"
	ScoreDraw      Score = "1/2-1/2"
)

// zobristSeed is fixed rather than random: Hash is used to correlate trace log lines
// for a single run, not across runs, so reproducibility is more useful than entropy.
const zobristSeed = 0x636865727665 // "cherve" in hex, arbitrary

var zobristTable = board.NewZobristTable(zobristSeed)

// Game is the authoritative, mutable chess session: the current Position plus the
// move counters, cached legal-move set and repetition bookkeeping that span the
// whole game rather than a single position. It has no concept of connections or the
// wire protocol; see package server for that.
type Game struct {
	pos Position

	halfmoveClock  int
	fullMoveNumber int

	legal map[board.Square][]board.Square // for pos.Turn

	repetitions *RepetitionTracker

	InProgress bool
	Ended      bool
	Score      Score
}

// NewGame starts a session from a FEN record, matching the standard starting
// position if record is empty.
func NewGame(record string) (*Game, error) {
	if record == "" {
		record = defaultInitialFEN
	}

	pos, halfmove, fullmove, err := NewPosition(record)
	if err != nil {
		return nil, fmt.Errorf("invalid starting position: %w", err)
	}

	g := &Game{
		pos:            pos,
		halfmoveClock:  halfmove,
		fullMoveNumber: fullmove,
		repetitions:    NewRepetitionTracker(),
		Score:          ScoreUndecided,
	}
	g.legal = LegalMoves(&g.pos, g.pos.Turn)
	g.repetitions.Record(&g.pos)

	return g, nil
}

const defaultInitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Start transitions the session from LOBBY to PLAYING once both seats are filled.
// Ownership of this transition belongs to the caller (package server), which is the
// only thing that knows when both colors have connected.
func (g *Game) Start() {
	if !g.Ended {
		g.InProgress = true
	}
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color {
	return g.pos.Turn
}

// FEN renders the current position, including move counters.
func (g *Game) FEN() string {
	return g.pos.FEN(g.halfmoveClock, g.fullMoveNumber)
}

// HalfmoveClock returns the current fifty-move-rule counter.
func (g *Game) HalfmoveClock() int {
	return g.halfmoveClock
}

// Hash returns a diagnostic position hash, for trace lines identifying a position at
// a glance. It is not used for repetition accounting; see RepetitionTracker.
func (g *Game) Hash() board.ZobristHash {
	return zobristTable.Hash(&g.pos.Board, g.pos.Turn, g.pos.Castling, g.pos.EnPassant, g.pos.HasEP)
}

// LegalDestinations returns the legal destination squares from sq for the side to
// move, in the order produced by move generation (callers that need a stable
// printing order should sort).
func (g *Game) LegalDestinations(sq board.Square) []board.Square {
	return g.legal[sq]
}

// IsLegal reports whether m is one of the side to move's legal moves. Only the origin
// and destination are compared; m.Promotion is not examined (Move checks it).
func (g *Game) IsLegal(m board.Move) bool {
	for _, dst := range g.legal[m.From] {
		if dst == m.To {
			return true
		}
	}
	return false
}

// Move applies a legal move from the side to move, updates all derived state
// (legal-move cache, repetition table, clocks, score), and returns the resulting
// Outcome. Move validates m itself (a piece of the side to move on m.From, IsLegal,
// and the promotion rule) and returns an error, leaving state unchanged, if any check
// fails.
func (g *Game) Move(m board.Move) (Outcome, error) {
	mover := g.pos.Board.At(m.From)
	if mover.IsEmpty() || mover.Color() != g.pos.Turn {
		return Ongoing, fmt.Errorf("no piece of the side to move on %v", m.From)
	}
	if !g.IsLegal(m) {
		return Ongoing, fmt.Errorf("illegal move: %v", m)
	}

	isPromotingPawn := mover.Kind() == board.Pawn && (m.To.Rank() == 0 || m.To.Rank() == 7)
	if isPromotingPawn && m.Promotion == board.NoKind {
		return Ongoing, fmt.Errorf("promotion required: %v", m)
	}
	if !isPromotingPawn && m.Promotion != board.NoKind {
		return Ongoing, fmt.Errorf("promotion not applicable: %v", m)
	}

	progress := applyMove(&g.pos, m)

	if progress {
		g.halfmoveClock = 0
	} else {
		g.halfmoveClock++
	}
	if mover.Color() == board.Black {
		g.fullMoveNumber++
	}

	g.legal = LegalMoves(&g.pos, g.pos.Turn)
	repeated := g.repetitions.Record(&g.pos)

	outcome := classify(&g.pos, g.legal, g.halfmoveClock, repeated)

	if outcome.Terminal() {
		g.InProgress = false
		g.Ended = true
		switch outcome {
		case Checkmate:
			if mover.Color() == board.White {
				g.Score = ScoreWhiteWins
			} else {
				g.Score = ScoreBlackWins
			}
		default:
			g.Score = ScoreDraw
		}
	}

	return outcome, nil
}

// Resign ends the game immediately with the given final score, used when a player
// disconnects mid-game (see package server).
func (g *Game) Resign(score Score) {
	g.InProgress = false
	g.Ended = true
	g.Score = score
}

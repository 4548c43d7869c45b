package server

import (
	"strings"

	"github.com/Bibelott/cherver/pkg/board"
	"github.com/Bibelott/cherver/pkg/rules"
)

const movesQueryPrefix = "moves "

// DispatchResult is what the event loop does with a single dispatched message: Reply
// always goes to the sender; Broadcast, when non-empty, goes to every other
// connection; Outcome and Accepted are meaningful only when Broadcast is non-empty.
type DispatchResult struct {
	Reply     string
	Broadcast string
	Outcome   rules.Outcome
	Accepted  bool
}

// Dispatch interprets one complete frame payload from the side to move against the
// current game state (§4.6). It mutates g exactly when the message is an accepted
// move; a query or a rejected message leaves g untouched.
func Dispatch(g *rules.Game, msg string) DispatchResult {
	if strings.HasPrefix(msg, movesQueryPrefix) && len(msg) == len(movesQueryPrefix)+2 {
		return dispatchQuery(g, msg)
	}
	return dispatchMove(g, msg)
}

func dispatchQuery(g *rules.Game, msg string) DispatchResult {
	arg := msg[len(movesQueryPrefix):]
	sq, err := board.ParseSquare(arg)
	if err != nil {
		return DispatchResult{Reply: "no"}
	}

	var b strings.Builder
	b.WriteString(movesQueryPrefix)
	b.WriteString(arg)
	b.WriteString(" ")
	for _, dst := range g.LegalDestinations(sq) {
		b.WriteString(dst.String())
	}
	return DispatchResult{Reply: b.String()}
}

func dispatchMove(g *rules.Game, msg string) DispatchResult {
	m, err := board.ParseMove(msg)
	if err != nil {
		return DispatchResult{Reply: "no"}
	}

	outcome, err := g.Move(m)
	if err != nil {
		return DispatchResult{Reply: "no"}
	}

	ann := outcome.Annotation()
	return DispatchResult{
		Reply:     "ok" + ann,
		Broadcast: msg + ann,
		Outcome:   outcome,
		Accepted:  true,
	}
}

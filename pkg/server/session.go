// Package server implements the readiness-driven connection multiplexer: role
// negotiation, the LOBBY/PLAYING/POST event loop, and the message dispatcher that
// drives a rules.Game. It is the only package that touches net.Conn.
package server

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Bibelott/cherver/pkg/board"
	"github.com/Bibelott/cherver/pkg/rules"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// pollInterval bounds how long an idle iteration sleeps before checking readiness
// again -- the "bounded timeout" of spec.md §4.5.
const pollInterval = 500 * time.Millisecond

// ioBudget is the per-call deadline used for every non-blocking read/write attempt in
// the loop body. There is no raw readiness primitive in play (see DESIGN.md); instead
// each connection's socket is given a near-immediate deadline every iteration, and a
// timeout is treated as "not ready" rather than an error.
const ioBudget = 2 * time.Millisecond

// Session is one game's worth of connection-multiplexer state: the authoritative
// Game, the listening socket, and the arena of connections keyed by stable ConnID
// (spec.md §9) rather than pointer identity.
type Session struct {
	iox.AsyncCloser

	game     *rules.Game
	listener *net.TCPListener

	conns  map[ConnID]*Connection
	nextID ConnID

	white lang.Optional[ConnID]
	black lang.Optional[ConnID]
}

// NewSession wires a Game to a listener. The listener is assumed already bound and
// listening; Session only ever calls Accept/SetDeadline on it.
func NewSession(game *rules.Game, listener *net.TCPListener) *Session {
	return &Session{
		AsyncCloser: iox.NewAsyncCloser(),
		game:        game,
		listener:    listener,
		conns:       map[ConnID]*Connection{},
	}
}

// Run drives the event loop until the game ends and every connection has drained and
// closed, the context is cancelled, or Close is called. It is the sole mutator of
// game state (spec.md §2, §5).
func (s *Session) Run(ctx context.Context) error {
	logw.Infof(ctx, "session started")

	for {
		select {
		case <-s.Closed():
			s.shutdown(ctx)
			return nil
		default:
		}
		if contextx.IsCancelled(ctx) {
			s.shutdown(ctx)
			return ctx.Err()
		}

		progress := false

		if s.acceptReady(ctx) {
			progress = true
		}
		if s.drainWritable(ctx) {
			progress = true
		}
		if s.readLobbyDisconnects(ctx) {
			progress = true
		}

		s.maybeStartPlaying(ctx)

		if s.game.InProgress {
			if s.readMover(ctx) {
				progress = true
			}
		}

		if s.game.Ended {
			s.closeDrained(ctx)
			if len(s.conns) == 0 {
				logw.Infof(ctx, "session ended, all connections closed")
				return nil
			}
		}

		if !progress {
			select {
			case <-time.After(pollInterval):
			case <-s.Closed():
			case <-ctx.Done():
			}
		}
	}
}

func (s *Session) acceptReady(ctx context.Context) bool {
	if err := s.listener.SetDeadline(time.Now().Add(ioBudget)); err != nil {
		logw.Errorf(ctx, "set accept deadline: %v", err)
		return false
	}

	conn, err := s.listener.Accept()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return false
		}
		logw.Errorf(ctx, "accept failed: %v", err)
		return false
	}

	logw.Infof(ctx, "connection accepted: %v", conn.RemoteAddr())

	if s.game.InProgress {
		if err := negotiateLateSpectator(conn, s.game.FEN()); err != nil {
			logw.Errorf(ctx, "late spectator handshake failed: %v", err)
			_ = conn.Close()
			return true
		}
		s.register(conn, Spectator)
		return true
	}

	offered := s.offeredRoles()
	role, err := negotiateHandshake(conn, offered, s.game.FEN())
	if err != nil {
		logw.Errorf(ctx, "handshake failed: %v", err)
		_ = conn.Close()
		return true
	}

	id := s.register(conn, role)
	switch role {
	case White:
		s.white = lang.Some(id)
	case Black:
		s.black = lang.Some(id)
	}
	logw.Infof(ctx, "connection %v assigned role %v", id, role)

	return true
}

func (s *Session) register(conn net.Conn, role Role) ConnID {
	id := s.nextID
	s.nextID++
	s.conns[id] = newConnection(id, conn, role)
	return id
}

func (s *Session) offeredRoles() string {
	var b strings.Builder
	if _, ok := s.white.V(); !ok {
		b.WriteString("w")
	}
	if _, ok := s.black.V(); !ok {
		b.WriteString("b")
	}
	b.WriteString("s")
	return b.String()
}

func (s *Session) drainWritable(ctx context.Context) bool {
	progress := false
	for id, c := range s.conns {
		if !c.send.Pending() {
			continue
		}

		if err := c.conn.SetWriteDeadline(time.Now().Add(ioBudget)); err != nil {
			logw.Errorf(ctx, "set write deadline for %v: %v", id, err)
			continue
		}

		n, err := c.send.Drain(c.conn)
		if n > 0 {
			progress = true
		}
		if err != nil && !isTimeout(err) {
			s.handleDisconnect(ctx, id, c, fmt.Sprintf("write failed: %v", err))
		}
	}
	return progress
}

func (s *Session) readLobbyDisconnects(ctx context.Context) bool {
	if s.game.InProgress || s.game.Ended {
		return false
	}

	progress := false
	for _, id := range s.playerIDs() {
		c, ok := s.conns[id]
		if !ok {
			continue
		}

		data, err := tryRead(c)
		if err != nil {
			s.handleDisconnect(ctx, id, c, fmt.Sprintf("read failed: %v", err))
			progress = true
			continue
		}
		if len(data) > 0 {
			progress = true
		}
	}
	return progress
}

func (s *Session) playerIDs() []ConnID {
	var ids []ConnID
	if v, ok := s.white.V(); ok {
		ids = append(ids, v)
	}
	if v, ok := s.black.V(); ok {
		ids = append(ids, v)
	}
	return ids
}

func (s *Session) maybeStartPlaying(ctx context.Context) {
	if s.game.InProgress || s.game.Ended {
		return
	}
	_, wok := s.white.V()
	_, bok := s.black.V()
	if wok && bok {
		s.game.Start()
		logw.Infof(ctx, "both seats filled, game started: %v to move", s.game.Turn())
	}
}

func (s *Session) readMover(ctx context.Context) bool {
	id, ok := s.moverID()
	if !ok {
		return false
	}
	c, ok := s.conns[id]
	if !ok {
		return false
	}

	data, err := tryRead(c)
	if err != nil {
		s.handleDisconnect(ctx, id, c, fmt.Sprintf("read failed: %v", err))
		return true
	}
	if len(data) == 0 {
		return false
	}

	msgs, ferr := c.recv.Feed(data)
	if ferr != nil {
		logw.Errorf(ctx, "malformed frame from %v: %v", id, ferr)
		s.handleDisconnect(ctx, id, c, fmt.Sprintf("protocol violation: %v", ferr))
		return true
	}

	for _, msg := range msgs {
		s.handleMessage(ctx, id, c, msg)
		if s.game.Ended {
			break
		}
	}
	return true
}

func (s *Session) moverID() (ConnID, bool) {
	if s.game.Turn() == board.White {
		return s.white.V()
	}
	return s.black.V()
}

func (s *Session) handleMessage(ctx context.Context, id ConnID, c *Connection, msg string) {
	logw.Debugf(ctx, "<< [%v] %v", id, msg)

	result := Dispatch(s.game, msg)
	if err := c.Enqueue(result.Reply); err != nil {
		logw.Errorf(ctx, "enqueue reply to %v: %v", id, err)
	}
	logw.Debugf(ctx, ">> [%v] %v", id, result.Reply)

	if !result.Accepted {
		return
	}
	logw.Debugf(ctx, "position after %v: hash=%x fen=%v", msg, s.game.Hash(), s.game.FEN())

	s.broadcastExcept(ctx, id, result.Broadcast)
	if result.Outcome.Terminal() {
		s.endGame(ctx)
	}
}

func (s *Session) broadcastExcept(ctx context.Context, exclude ConnID, msg string) {
	for id, c := range s.conns {
		if id == exclude {
			continue
		}
		if err := c.Enqueue(msg); err != nil {
			logw.Errorf(ctx, "broadcast to %v: %v", id, err)
		}
	}
}

func (s *Session) endGame(ctx context.Context) {
	logw.Infof(ctx, "game ended: %v", s.game.Score)
	s.broadcastEnd(ctx)
}

func (s *Session) broadcastEnd(ctx context.Context) {
	msg := fmt.Sprintf("end %v", s.game.Score)
	for id, c := range s.conns {
		if err := c.Enqueue(msg); err != nil {
			logw.Errorf(ctx, "final message to %v: %v", id, err)
		}
	}
}

func (s *Session) handleDisconnect(ctx context.Context, id ConnID, c *Connection, reason string) {
	logw.Infof(ctx, "connection %v (role %v) lost: %v", id, c.Role, reason)
	delete(s.conns, id)
	_ = c.conn.Close()

	switch c.Role {
	case White:
		s.white = lang.Optional[ConnID]{}
		if s.game.InProgress {
			logw.Infof(ctx, "white abandoned the game")
			s.game.Resign(rules.ScoreBlackWins)
			s.endGame(ctx)
		}
	case Black:
		s.black = lang.Optional[ConnID]{}
		if s.game.InProgress {
			logw.Infof(ctx, "black abandoned the game")
			s.game.Resign(rules.ScoreWhiteWins)
			s.endGame(ctx)
		}
	case Spectator:
		// Removed silently, per spec.md §5 "Cancellation".
	}
}

func (s *Session) closeDrained(ctx context.Context) {
	for id, c := range s.conns {
		if c.send.Pending() {
			continue
		}
		logw.Infof(ctx, "closing connection %v", id)
		_ = c.conn.Close()
		delete(s.conns, id)
	}
}

// shutdown is the best-effort drain-and-close path for external cancellation
// (context cancelled, or Close called), mirroring server.py's shutdown: it attempts
// one last "end <score>" write per connection and closes regardless of whether that
// write succeeds (SPEC_FULL.md §12.3).
func (s *Session) shutdown(ctx context.Context) {
	logw.Infof(ctx, "shutting down, last known score %v", s.game.Score)

	s.broadcastEnd(ctx)
	for id, c := range s.conns {
		if err := c.conn.SetWriteDeadline(time.Now().Add(ioBudget)); err == nil {
			if _, err := c.send.Drain(c.conn); err != nil {
				logw.Errorf(ctx, "final drain to %v: %v", id, err)
			}
		}
		_ = c.conn.Close()
	}
	s.conns = map[ConnID]*Connection{}
	_ = s.listener.Close()
}

func tryRead(c *Connection) ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(ioBudget)); err != nil {
		return nil, err
	}

	buf := make([]byte, 1024)
	n, err := c.conn.Read(buf)
	if err != nil {
		if isTimeout(err) {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("connection closed")
	}
	return buf[:n], nil
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

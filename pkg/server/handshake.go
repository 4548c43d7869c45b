package server

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Bibelott/cherver/pkg/wire"
)

// handshakeTimeout bounds the one blocking phase the event loop is allowed: role
// negotiation on a freshly accepted socket (spec §5, §6.3).
const handshakeTimeout = 2 * time.Second

// negotiateHandshake runs the full lobby handshake (§6.3) synchronously on a freshly
// accepted socket: offers the roles still open, reads the client's one-byte choice,
// and on success sends the current FEN and initok. Any validation failure sends
// initfail; the caller closes the socket in every case.
func negotiateHandshake(conn net.Conn, offered string, fen string) (Role, error) {
	if err := blockingWriteFrame(conn, offered); err != nil {
		return 0, fmt.Errorf("offering roles: %w", err)
	}

	resp, err := blockingReadFrame(conn)
	if err != nil {
		_ = blockingWriteFrame(conn, "initfail")
		return 0, fmt.Errorf("reading role choice: %w", err)
	}
	if len(resp) != 1 {
		_ = blockingWriteFrame(conn, "initfail")
		return 0, fmt.Errorf("role choice must be one byte, got %q", resp)
	}

	role, ok := ParseRole(resp[0])
	if !ok || !strings.ContainsRune(offered, rune(resp[0])) {
		_ = blockingWriteFrame(conn, "initfail")
		return 0, fmt.Errorf("role %q not among offered roles %q", resp, offered)
	}

	if err := blockingWriteFrame(conn, fen); err != nil {
		return 0, fmt.Errorf("sending start position: %w", err)
	}
	if err := blockingWriteFrame(conn, "initok"); err != nil {
		return 0, fmt.Errorf("sending initok: %w", err)
	}

	return role, nil
}

// negotiateLateSpectator is the accept-time fast path taken while a game is already
// in progress: spectator role, FEN and initok are pushed unconditionally, without
// reading anything from the new connection (SPEC_FULL.md §12.1; spec.md §6.3 "late
// arrivals").
func negotiateLateSpectator(conn net.Conn, fen string) error {
	if err := blockingWriteFrame(conn, Spectator.String()); err != nil {
		return fmt.Errorf("sending spectator role: %w", err)
	}
	if err := blockingWriteFrame(conn, fen); err != nil {
		return fmt.Errorf("sending start position: %w", err)
	}
	return blockingWriteFrame(conn, "initok")
}

func blockingWriteFrame(conn net.Conn, payload string) error {
	frame, err := wire.Encode(payload)
	if err != nil {
		return err
	}

	if err := conn.SetWriteDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		return err
	}
	defer conn.SetWriteDeadline(time.Time{})

	data := []byte(frame)
	for len(data) > 0 {
		n, err := conn.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("connection closed mid-write")
		}
		data = data[n:]
	}
	return nil
}

func blockingReadFrame(conn net.Conn) (string, error) {
	if err := conn.SetReadDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		return "", err
	}
	defer conn.SetReadDeadline(time.Time{})

	d := wire.NewDecoder()
	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			msgs, ferr := d.Feed(buf[:n])
			if ferr != nil {
				return "", ferr
			}
			if len(msgs) > 0 {
				return msgs[0], nil
			}
		}
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", fmt.Errorf("connection closed mid-read")
		}
	}
}

package server

import (
	"net"

	"github.com/Bibelott/cherver/pkg/wire"
)

// ConnID is a stable identifier for a Connection, used instead of pointer
// identity so Session can hold optional white/black occupants by value (see
// lang.Optional[ConnID] in Session) rather than nullable pointers.
type ConnID uint64

// Connection is one TCP peer: its role, its raw socket, and the framing
// state (an outgoing byte buffer and an incremental frame decoder) for that
// socket. The event loop owns every Connection; nothing else mutates one.
type Connection struct {
	ID   ConnID
	Role Role

	conn net.Conn
	send wire.SendBuffer
	recv *wire.Decoder
}

func newConnection(id ConnID, conn net.Conn, role Role) *Connection {
	return &Connection{
		ID:   id,
		Role: role,
		conn: conn,
		recv: wire.NewDecoder(),
	}
}

// Enqueue frames msg onto the connection's send buffer.
func (c *Connection) Enqueue(msg string) error {
	return c.send.Enqueue(msg)
}

package server

import (
	"net"
	"testing"

	"github.com/Bibelott/cherver/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiateHandshakeAcceptsOfferedRole(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	done := make(chan struct{})
	var role Role
	var err error
	go func() {
		role, err = negotiateHandshake(server, "wbs", "fen-placeholder")
		close(done)
	}()

	offered := readFrame(t, client)
	assert.Equal(t, "wbs", offered)

	writeFrame(t, client, "b")

	assert.Equal(t, "fen-placeholder", readFrame(t, client))
	assert.Equal(t, "initok", readFrame(t, client))

	<-done
	require.NoError(t, err)
	assert.Equal(t, Black, role)
}

func TestNegotiateHandshakeRejectsUnofferedRole(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	done := make(chan struct{})
	var err error
	go func() {
		_, err = negotiateHandshake(server, "bs", "fen-placeholder")
		close(done)
	}()

	_ = readFrame(t, client)
	writeFrame(t, client, "w")

	assert.Equal(t, "initfail", readFrame(t, client))

	<-done
	assert.Error(t, err)
}

func TestNegotiateLateSpectatorSkipsReadingFromClient(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	done := make(chan struct{})
	var err error
	go func() {
		err = negotiateLateSpectator(server, "fen-placeholder")
		close(done)
	}()

	assert.Equal(t, "s", readFrame(t, client))
	assert.Equal(t, "fen-placeholder", readFrame(t, client))
	assert.Equal(t, "initok", readFrame(t, client))

	<-done
	require.NoError(t, err)
}

func readFrame(t *testing.T, conn net.Conn) string {
	t.Helper()
	d := wire.NewDecoder()
	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		msgs, ferr := d.Feed(buf[:n])
		require.NoError(t, ferr)
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
}

func writeFrame(t *testing.T, conn net.Conn, payload string) {
	t.Helper()
	frame, err := wire.Encode(payload)
	require.NoError(t, err)
	_, err = conn.Write([]byte(frame))
	require.NoError(t, err)
}

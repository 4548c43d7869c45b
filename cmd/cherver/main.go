// cherver is a single-game, multi-spectator network chess server: it accepts TCP
// connections, negotiates White/Black/Spectator roles, and relays validated moves to
// every connected peer until the game ends.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Bibelott/cherver/pkg/rules"
	"github.com/Bibelott/cherver/pkg/server"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

var port = flag.Int("port", 40000, "TCP port to listen on")

func main() {
	flag.Parse()
	ctx := context.Background()

	var fen string
	if flag.NArg() > 0 {
		fen = flag.Arg(0)
	}

	logw.Infof(ctx, "cherver %v starting, port=%v", version, *port)

	game, err := rules.NewGame(fen)
	if err != nil {
		logw.Exitf(ctx, "Invalid starting position %q: %v", fen, err)
	}

	listener, err := net.ListenTCP("tcp", &net.TCPAddr{Port: *port})
	if err != nil {
		logw.Exitf(ctx, "Failed to listen on port %v: %v", *port, err)
	}
	logw.Infof(ctx, "listening on %v", listener.Addr())

	session := server.NewSession(game, listener)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logw.Infof(ctx, "shutdown signal received")
		session.Close()
	}()

	if err := session.Run(ctx); err != nil {
		logw.Exitf(ctx, "Session exited with error: %v", err)
	}

	logw.Infof(ctx, "cherver exited")
}

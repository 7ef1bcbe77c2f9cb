// Command smoketest drives two WebSocket clients through a complete duel
// against a running cubesim server: create room, join, ready up, start,
// relay a move, and win. It exits non-zero if any step fails or times out,
// which makes it usable as a deployment check.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/M1294K/cubesim/protocol"
)

var (
	addr    = flag.String("addr", "localhost:8080", "server address")
	timeout = flag.Duration("timeout", 10*time.Second, "per-step timeout")
)

// serverMsg is a loose superset of every server-to-client payload, so one
// struct can decode any message in the catalog.
type serverMsg struct {
	Type        string `json:"type"`
	ClientID    string `json:"clientId"`
	RoomID      string `json:"roomId"`
	PlayerCount int    `json:"playerCount"`
	PlayerID    string `json:"playerId"`
	IsReady     bool   `json:"isReady"`
	Scramble    string `json:"scramble"`
	Move        string `json:"move"`
	WinnerID    string `json:"winnerId"`
	Message     string `json:"message"`
}

type client struct {
	name string
	conn *websocket.Conn
	id   string
}

func dial(name, url string) (*client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: dial %s: %w", name, url, err)
	}

	c := &client{name: name, conn: conn}
	msg, err := c.waitFor(protocol.TypeConnected)
	if err != nil {
		return nil, err
	}
	c.id = msg.ClientID
	log.Printf("[%s] connected as %s", name, c.id)
	return c, nil
}

func (c *client) send(msg protocol.ClientMessage) error {
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("%s: send %s: %w", c.name, msg.Type, err)
	}
	return nil
}

// waitFor reads messages until one matches the wanted type, skipping
// unrelated traffic such as room-list refreshes. An error reply from the
// server fails the wait immediately.
func (c *client) waitFor(msgType string) (*serverMsg, error) {
	c.conn.SetReadDeadline(time.Now().Add(*timeout))

	for {
		var msg serverMsg
		if err := c.conn.ReadJSON(&msg); err != nil {
			return nil, fmt.Errorf("%s: waiting for %s: %w", c.name, msgType, err)
		}
		if msg.Type == protocol.TypeError {
			return nil, fmt.Errorf("%s: server error while waiting for %s: %s", c.name, msgType, msg.Message)
		}
		if msg.Type == msgType {
			return &msg, nil
		}
		log.Printf("[%s] skipping %s", c.name, msg.Type)
	}
}

func main() {
	flag.Parse()
	url := fmt.Sprintf("ws://%s/ws", *addr)

	if err := run(url); err != nil {
		log.Fatalf("FAIL: %v", err)
	}
	log.Println("SUCCESS: full duel flow completed")
}

func run(url string) error {
	c1, err := dial("client-1", url)
	if err != nil {
		return err
	}
	defer c1.conn.Close()

	c2, err := dial("client-2", url)
	if err != nil {
		return err
	}
	defer c2.conn.Close()

	// Create and join
	if err := c1.send(protocol.ClientMessage{Type: protocol.TypeCreateRoom}); err != nil {
		return err
	}
	created, err := c1.waitFor(protocol.TypeRoomCreated)
	if err != nil {
		return err
	}
	log.Printf("room created: %s", created.RoomID)

	if err := c2.send(protocol.ClientMessage{Type: protocol.TypeJoinRoom, RoomID: created.RoomID}); err != nil {
		return err
	}
	for _, c := range []*client{c1, c2} {
		joined, err := c.waitFor(protocol.TypePlayerJoined)
		if err != nil {
			return err
		}
		if joined.PlayerCount != 2 {
			return fmt.Errorf("%s: expected playerCount 2, got %d", c.name, joined.PlayerCount)
		}
	}

	// Ready handshake
	for _, c := range []*client{c1, c2} {
		if err := c.send(protocol.ClientMessage{Type: protocol.TypePlayerReady}); err != nil {
			return err
		}
	}
	for _, c := range []*client{c1, c2} {
		if _, err := c.waitFor(protocol.TypeAllPlayersReady); err != nil {
			return err
		}
	}

	// Start: both players must receive the identical scramble
	if err := c1.send(protocol.ClientMessage{Type: protocol.TypeStartGame}); err != nil {
		return err
	}
	started1, err := c1.waitFor(protocol.TypeGameStarted)
	if err != nil {
		return err
	}
	started2, err := c2.waitFor(protocol.TypeGameStarted)
	if err != nil {
		return err
	}
	if started1.Scramble == "" || started1.Scramble != started2.Scramble {
		return fmt.Errorf("scramble mismatch: %q vs %q", started1.Scramble, started2.Scramble)
	}
	log.Printf("game started, scramble: %s", started1.Scramble)

	// Move relay
	if err := c1.send(protocol.ClientMessage{Type: protocol.TypeMove, Move: "R'"}); err != nil {
		return err
	}
	relayed, err := c2.waitFor(protocol.TypeMove)
	if err != nil {
		return err
	}
	if relayed.PlayerID != c1.id || relayed.Move != "R'" {
		return fmt.Errorf("bad relay: player %s move %q", relayed.PlayerID, relayed.Move)
	}

	// Win
	if err := c1.send(protocol.ClientMessage{Type: protocol.TypeGameWon}); err != nil {
		return err
	}
	for _, c := range []*client{c1, c2} {
		over, err := c.waitFor(protocol.TypeGameOver)
		if err != nil {
			return err
		}
		if over.WinnerID != c1.id {
			return fmt.Errorf("%s: expected winner %s, got %s", c.name, c1.id, over.WinnerID)
		}
	}

	return nil
}

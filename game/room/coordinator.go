package room

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/M1294K/cubesim/game/scramble"
	"github.com/M1294K/cubesim/protocol"
)

// DefaultRoomCodeLength is the length of generated room tokens. Six hex
// characters keep tokens short enough to type while leaving the collision
// probability negligible for realistic room counts.
const DefaultRoomCodeLength = 6

const maxTokenAttempts = 16

// Sender delivers outbound messages to clients. It is implemented by the
// websocket hub; the coordinator never touches a transport directly, which
// keeps it unit-testable without a network.
type Sender interface {
	// Send delivers a message to one client, best-effort.
	Send(clientID string, msg any)
	// Broadcast delivers a message to every connected client, best-effort.
	Broadcast(msg any)
}

// Options configures a Coordinator. Zero values fall back to defaults.
type Options struct {
	// ScrambleLength is the number of moves in a game-start scramble.
	ScrambleLength int
	// RoomCodeLength is the length of generated room tokens.
	RoomCodeLength int
}

// Coordinator is the room state machine. It owns the room table and the
// client-to-room index; every operation runs to completion under one mutex,
// so no two handlers ever interleave on the same room.
type Coordinator struct {
	mu          sync.Mutex
	sender      Sender
	rooms       map[string]*Room
	memberships map[string]string // client ID -> room token

	scrambleLength int
	codeLength     int
}

// NewCoordinator creates a coordinator that issues outbound messages through
// the given sender.
func NewCoordinator(sender Sender, opts Options) *Coordinator {
	if opts.ScrambleLength <= 0 {
		opts.ScrambleLength = scramble.DefaultLength
	}
	if opts.RoomCodeLength <= 0 {
		opts.RoomCodeLength = DefaultRoomCodeLength
	}

	return &Coordinator{
		sender:         sender,
		rooms:          make(map[string]*Room),
		memberships:    make(map[string]string),
		scrambleLength: opts.ScrambleLength,
		codeLength:     opts.RoomCodeLength,
	}
}

// HandleConnect announces the assigned identity to a freshly registered
// client.
func (c *Coordinator) HandleConnect(clientID string) {
	c.sender.Send(clientID, protocol.NewConnected(clientID))
}

// HandleMessage classifies one inbound frame and dispatches it to the
// matching operation. Malformed payloads and unknown types are logged and
// dropped; no error reply is sent for them.
func (c *Coordinator) HandleMessage(clientID string, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Printf("Dropping message from %s: %v", clientID, err)
		return
	}

	switch msg.Type {
	case protocol.TypeCreateRoom:
		c.createRoom(clientID)
	case protocol.TypeJoinRoom:
		c.joinRoom(clientID, msg.RoomID)
	case protocol.TypePlayerReady:
		c.playerReady(clientID)
	case protocol.TypeStartGame:
		c.startGame(clientID)
	case protocol.TypeMove:
		c.relayMove(clientID, msg.Move)
	case protocol.TypeGameWon:
		c.gameWon(clientID)
	case protocol.TypeGetRoomList:
		c.listRooms(clientID)
	}
}

// HandleDisconnect removes the client from its room as one atomic
// transaction. An empty room is deleted; otherwise the room reverts to OPEN,
// the remaining member's readiness is cleared, and they are notified.
func (c *Coordinator) HandleDisconnect(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, ok := c.memberships[clientID]
	if !ok {
		return
	}
	delete(c.memberships, clientID)

	r, ok := c.rooms[token]
	if !ok {
		return
	}

	r.removeMember(clientID)

	if r.PlayerCount() == 0 {
		delete(c.rooms, token)
		log.Printf("Room %s deleted (last member disconnected)", token)
	} else {
		r.resetReadiness()
		r.Status = StatusOpen
		for _, id := range r.othersOf(clientID) {
			c.sender.Send(id, protocol.NewOpponentDisconnected())
		}
		log.Printf("Room %s reverted to open (member %s disconnected)", token, clientID)
	}

	c.broadcastRoomList()
}

// OpenRooms returns the current snapshot of joinable rooms, newest first.
// A room is joinable while it is open and holds exactly one member.
func (c *Coordinator) OpenRooms() []protocol.RoomSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openRoomsLocked()
}

// RoomCount returns the number of live rooms in any state.
func (c *Coordinator) RoomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}

func (c *Coordinator) createRoom(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token, ok := c.memberships[clientID]; ok {
		log.Printf("Client %s tried to create a room while in room %s", clientID, token)
		c.sender.Send(clientID, protocol.NewError(ErrAlreadyInRoom.Error()))
		return
	}

	token, err := c.newRoomToken()
	if err != nil {
		log.Printf("Room token generation failed: %v", err)
		c.sender.Send(clientID, protocol.NewError("could not allocate a room"))
		return
	}

	c.rooms[token] = newRoom(token, clientID)
	c.memberships[clientID] = token

	log.Printf("Room %s created by %s", token, clientID)

	c.sender.Send(clientID, protocol.NewRoomCreated(token))
	c.broadcastRoomList()
}

func (c *Coordinator) joinRoom(clientID, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.memberships[clientID]; ok {
		c.sender.Send(clientID, protocol.NewError(ErrAlreadyInRoom.Error()))
		return
	}

	r, ok := c.rooms[token]
	if !ok {
		c.sender.Send(clientID, protocol.NewError(ErrRoomNotFound.Error()))
		return
	}
	if r.Status == StatusInGame {
		c.sender.Send(clientID, protocol.NewError(ErrRoomNotJoinable.Error()))
		return
	}
	if r.PlayerCount() >= MaxMembers {
		c.sender.Send(clientID, protocol.NewError(ErrRoomFull.Error()))
		return
	}

	r.addMember(clientID)
	c.memberships[clientID] = token

	log.Printf("Client %s joined room %s (%d/%d)", clientID, token, r.PlayerCount(), MaxMembers)

	joined := protocol.NewPlayerJoined(token, r.PlayerCount())
	for _, id := range r.Members() {
		c.sender.Send(id, joined)
	}
	c.broadcastRoomList()
}

func (c *Coordinator) playerReady(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.roomOf(clientID)
	if r == nil {
		return
	}
	if r.ready[clientID] {
		// Repeat ready signals are no-ops so allPlayersReady fires at
		// most once per readiness completion.
		return
	}
	r.ready[clientID] = true

	state := protocol.NewPlayerReadyState(clientID, true)
	for _, id := range r.Members() {
		c.sender.Send(id, state)
	}

	if r.PlayerCount() == MaxMembers && r.allReady() {
		allReady := protocol.NewAllPlayersReady()
		for _, id := range r.Members() {
			c.sender.Send(id, allReady)
		}
	}
}

func (c *Coordinator) startGame(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.roomOf(clientID)
	if r == nil {
		return
	}
	if r.PlayerCount() != MaxMembers || !r.allReady() {
		log.Printf("Ignoring startGame from %s: room %s not ready", clientID, r.Token)
		return
	}

	r.Status = StatusInGame
	// Starting consumes the readiness handshake, so a duplicate startGame
	// from the other member cannot regenerate the scramble. The next start
	// requires a fresh round of playerReady.
	r.resetReadiness()
	seq := scramble.Generate(c.scrambleLength)

	log.Printf("Room %s started, scramble: %s", r.Token, seq)

	started := protocol.NewGameStarted(seq)
	for _, id := range r.Members() {
		c.sender.Send(id, started)
	}
	c.broadcastRoomList()
}

func (c *Coordinator) relayMove(clientID, move string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.roomOf(clientID)
	if r == nil {
		return
	}

	// The move token is opaque at this layer; it is relayed verbatim.
	relay := protocol.NewMove(clientID, move)
	for _, id := range r.othersOf(clientID) {
		c.sender.Send(id, relay)
	}
}

func (c *Coordinator) gameWon(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.roomOf(clientID)
	if r == nil {
		return
	}

	log.Printf("Room %s won by %s", r.Token, clientID)

	over := protocol.NewGameOver(clientID)
	for _, id := range r.Members() {
		c.sender.Send(id, over)
	}

	// Stray mid-game readiness is cleared so a rematch always re-runs the
	// full handshake; status stays in_game until a disconnect recovers the
	// room.
	r.resetReadiness()
}

func (c *Coordinator) listRooms(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sender.Send(clientID, protocol.NewRoomList(c.openRoomsLocked()))
}

// roomOf resolves the acting client's room, or nil if it has none. Callers
// treat nil as a silent no-op; acting outside a room is a client-side bug,
// not an actionable user error.
func (c *Coordinator) roomOf(clientID string) *Room {
	token, ok := c.memberships[clientID]
	if !ok {
		return nil
	}
	return c.rooms[token]
}

func (c *Coordinator) openRoomsLocked() []protocol.RoomSummary {
	rooms := make([]protocol.RoomSummary, 0)
	for _, r := range c.rooms {
		if r.Status != StatusOpen || r.PlayerCount() != 1 {
			continue
		}
		rooms = append(rooms, protocol.RoomSummary{
			RoomID:      r.Token,
			PlayerCount: r.PlayerCount(),
			Status:      r.Status.String(),
			CreatedAt:   r.CreatedAt,
		})
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})

	return rooms
}

func (c *Coordinator) broadcastRoomList() {
	c.sender.Broadcast(protocol.NewRoomList(c.openRoomsLocked()))
}

// newRoomToken generates a short unique room token. Tokens are hex so they
// stay human-typeable.
func (c *Coordinator) newRoomToken() (string, error) {
	for i := 0; i < maxTokenAttempts; i++ {
		bytes := make([]byte, (c.codeLength+1)/2)
		if _, err := rand.Read(bytes); err != nil {
			return "", err
		}
		token := hex.EncodeToString(bytes)[:c.codeLength]
		if _, exists := c.rooms[token]; !exists {
			return token, nil
		}
	}
	return "", errors.New("room token space exhausted")
}

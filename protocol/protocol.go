// Package protocol defines the JSON message catalog exchanged between the
// cubesim server and its clients over the websocket transport.
//
// Every message carries a "type" discriminator. Client-originated messages
// decode into a single ClientMessage envelope; server-originated messages are
// small typed structs built through the New* constructors so the type field
// can never be forgotten or misspelled at a call site.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Client-to-server message types.
const (
	TypeCreateRoom  = "createRoom"
	TypeJoinRoom    = "joinRoom"
	TypePlayerReady = "playerReady"
	TypeStartGame   = "startGame"
	TypeMove        = "move"
	TypeGameWon     = "gameWon"
	TypeGetRoomList = "getRoomList"
)

// Server-to-client message types.
const (
	TypeConnected            = "connected"
	TypeRoomCreated          = "roomCreated"
	TypeRoomList             = "roomList"
	TypePlayerJoined         = "playerJoined"
	TypePlayerReadyState     = "playerReadyState"
	TypeAllPlayersReady      = "allPlayersReady"
	TypeGameStarted          = "gameStarted"
	TypeGameOver             = "gameOver"
	TypeOpponentDisconnected = "opponentDisconnected"
	TypeError                = "error"
)

var (
	// ErrMalformed indicates a payload that could not be parsed at all.
	ErrMalformed = errors.New("malformed message")

	// ErrUnknownType indicates a well-formed payload with an unrecognized
	// type discriminator.
	ErrUnknownType = errors.New("unknown message type")
)

// ClientMessage is the decoded envelope for every client-originated message.
// RoomID is only meaningful for joinRoom; Move only for move. The move token
// is an opaque string relayed verbatim, never interpreted by the server.
type ClientMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	Move   string `json:"move,omitempty"`
}

// Decode parses a raw inbound frame into a ClientMessage. It returns
// ErrMalformed for unparseable payloads and ErrUnknownType for payloads whose
// type is not in the client-to-server catalog; callers log and drop both.
func Decode(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch msg.Type {
	case TypeCreateRoom, TypeJoinRoom, TypePlayerReady, TypeStartGame,
		TypeMove, TypeGameWon, TypeGetRoomList:
		return &msg, nil
	case "":
		return nil, fmt.Errorf("%w: missing type field", ErrMalformed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
}

// Connected is sent once per connection, immediately after registration.
type Connected struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}

// NewConnected builds a connected message for the given client identity.
func NewConnected(clientID string) Connected {
	return Connected{Type: TypeConnected, ClientID: clientID}
}

// RoomCreated acknowledges a successful createRoom to its creator.
type RoomCreated struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// NewRoomCreated builds a roomCreated acknowledgement.
func NewRoomCreated(roomID string) RoomCreated {
	return RoomCreated{Type: TypeRoomCreated, RoomID: roomID}
}

// RoomSummary is one joinable room in a room-list snapshot.
type RoomSummary struct {
	RoomID      string    `json:"roomId"`
	PlayerCount int       `json:"playerCount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RoomList carries a snapshot of joinable rooms, newest first.
type RoomList struct {
	Type  string        `json:"type"`
	Rooms []RoomSummary `json:"rooms"`
}

// NewRoomList builds a roomList message. A nil slice is normalized to an
// empty one so clients always receive a JSON array.
func NewRoomList(rooms []RoomSummary) RoomList {
	if rooms == nil {
		rooms = []RoomSummary{}
	}
	return RoomList{Type: TypeRoomList, Rooms: rooms}
}

// PlayerJoined notifies room members that membership changed.
type PlayerJoined struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId"`
	PlayerCount int    `json:"playerCount"`
}

// NewPlayerJoined builds a playerJoined notification.
func NewPlayerJoined(roomID string, playerCount int) PlayerJoined {
	return PlayerJoined{Type: TypePlayerJoined, RoomID: roomID, PlayerCount: playerCount}
}

// PlayerReadyState broadcasts one member's readiness flag to the room.
type PlayerReadyState struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	IsReady  bool   `json:"isReady"`
}

// NewPlayerReadyState builds a playerReadyState notification.
func NewPlayerReadyState(playerID string, isReady bool) PlayerReadyState {
	return PlayerReadyState{Type: TypePlayerReadyState, PlayerID: playerID, IsReady: isReady}
}

// AllPlayersReady signals that both members are ready and the game may start.
type AllPlayersReady struct {
	Type string `json:"type"`
}

// NewAllPlayersReady builds an allPlayersReady notification.
func NewAllPlayersReady() AllPlayersReady {
	return AllPlayersReady{Type: TypeAllPlayersReady}
}

// GameStarted carries the shared scramble sequence both players apply.
type GameStarted struct {
	Type     string `json:"type"`
	Scramble string `json:"scramble"`
}

// NewGameStarted builds a gameStarted notification.
func NewGameStarted(scramble string) GameStarted {
	return GameStarted{Type: TypeGameStarted, Scramble: scramble}
}

// Move relays an opaque move token to the other room member.
type Move struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Move     string `json:"move"`
}

// NewMove builds a move relay tagged with the sender's identity.
func NewMove(playerID, move string) Move {
	return Move{Type: TypeMove, PlayerID: playerID, Move: move}
}

// GameOver announces the winner to all room members.
type GameOver struct {
	Type     string `json:"type"`
	WinnerID string `json:"winnerId"`
}

// NewGameOver builds a gameOver notification.
func NewGameOver(winnerID string) GameOver {
	return GameOver{Type: TypeGameOver, WinnerID: winnerID}
}

// OpponentDisconnected notifies the remaining member after a departure.
type OpponentDisconnected struct {
	Type string `json:"type"`
}

// NewOpponentDisconnected builds an opponentDisconnected notification.
func NewOpponentDisconnected() OpponentDisconnected {
	return OpponentDisconnected{Type: TypeOpponentDisconnected}
}

// Error surfaces a validation failure to the acting client.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewError builds an error reply with a human-readable reason.
func NewError(message string) Error {
	return Error{Type: TypeError, Message: message}
}

package room

import (
	"errors"
	"time"
)

// Validation failures surfaced to the acting client as error replies. All
// other precondition failures are silent no-ops.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomNotJoinable = errors.New("room is not joinable")
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyInRoom   = errors.New("already in a room")
)

// MaxMembers is the fixed room capacity; a duel is exactly two players.
const MaxMembers = 2

// Status is the lifecycle state of a room.
type Status int

const (
	// StatusOpen means the room has a free slot and appears in listings.
	StatusOpen Status = iota
	// StatusFull means both slots are taken but the game has not started.
	StatusFull
	// StatusInGame means a game start has been issued for this room.
	StatusInGame
)

// String returns the wire representation used in room-list snapshots.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusFull:
		return "full"
	case StatusInGame:
		return "in_game"
	default:
		return "unknown"
	}
}

// Room is one matchmaking/session unit pairing up to two clients. It is
// owned exclusively by the Coordinator and only ever mutated under its lock.
type Room struct {
	Token     string
	Status    Status
	CreatedAt time.Time

	members []string // join order; members[0] created the room
	ready   map[string]bool
}

func newRoom(token, creator string) *Room {
	return &Room{
		Token:     token,
		Status:    StatusOpen,
		CreatedAt: time.Now(),
		members:   []string{creator},
		ready:     map[string]bool{creator: false},
	}
}

// PlayerCount returns the current number of members.
func (r *Room) PlayerCount() int {
	return len(r.members)
}

// Members returns the member identities in join order.
func (r *Room) Members() []string {
	out := make([]string, len(r.members))
	copy(out, r.members)
	return out
}

func (r *Room) addMember(clientID string) {
	r.members = append(r.members, clientID)
	r.ready[clientID] = false
	if len(r.members) == MaxMembers {
		r.Status = StatusFull
	}
}

func (r *Room) removeMember(clientID string) {
	for i, id := range r.members {
		if id == clientID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	delete(r.ready, clientID)
}

// othersOf returns every member except the given one.
func (r *Room) othersOf(clientID string) []string {
	others := make([]string, 0, len(r.members))
	for _, id := range r.members {
		if id != clientID {
			others = append(others, id)
		}
	}
	return others
}

func (r *Room) allReady() bool {
	for _, id := range r.members {
		if !r.ready[id] {
			return false
		}
	}
	return len(r.members) > 0
}

func (r *Room) resetReadiness() {
	for id := range r.ready {
		r.ready[id] = false
	}
}

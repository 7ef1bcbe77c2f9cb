package room

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/M1294K/cubesim/protocol"
)

// fakeSender records every outbound message so tests can assert on exactly
// what the coordinator instructed the registry to deliver.
type fakeSender struct {
	sends      []sentMessage
	broadcasts []any
}

type sentMessage struct {
	clientID string
	msg      any
}

func (f *fakeSender) Send(clientID string, msg any) {
	f.sends = append(f.sends, sentMessage{clientID: clientID, msg: msg})
}

func (f *fakeSender) Broadcast(msg any) {
	f.broadcasts = append(f.broadcasts, msg)
}

func (f *fakeSender) sentTo(clientID string) []any {
	var msgs []any
	for _, s := range f.sends {
		if s.clientID == clientID {
			msgs = append(msgs, s.msg)
		}
	}
	return msgs
}

func (f *fakeSender) lastBroadcastRoomList() (protocol.RoomList, bool) {
	for i := len(f.broadcasts) - 1; i >= 0; i-- {
		if list, ok := f.broadcasts[i].(protocol.RoomList); ok {
			return list, true
		}
	}
	return protocol.RoomList{}, false
}

func newTestCoordinator() (*Coordinator, *fakeSender) {
	sender := &fakeSender{}
	return NewCoordinator(sender, Options{ScrambleLength: 5}), sender
}

func handle(c *Coordinator, clientID, payload string) {
	c.HandleMessage(clientID, []byte(payload))
}

// createRoomFor drives a createRoom message and returns the new token.
func createRoomFor(t *testing.T, c *Coordinator, s *fakeSender, clientID string) string {
	t.Helper()
	handle(c, clientID, `{"type":"createRoom"}`)
	for i := len(s.sends) - 1; i >= 0; i-- {
		if s.sends[i].clientID != clientID {
			continue
		}
		if created, ok := s.sends[i].msg.(protocol.RoomCreated); ok {
			return created.RoomID
		}
	}
	t.Fatalf("No roomCreated reply for %s", clientID)
	return ""
}

// pairRoom sets up a two-member room and returns its token.
func pairRoom(t *testing.T, c *Coordinator, s *fakeSender, a, b string) string {
	t.Helper()
	token := createRoomFor(t, c, s, a)
	handle(c, b, fmt.Sprintf(`{"type":"joinRoom","roomId":"%s"}`, token))
	if got := c.rooms[token].PlayerCount(); got != 2 {
		t.Fatalf("Expected 2 members after join, got %d", got)
	}
	return token
}

func readyBoth(c *Coordinator, a, b string) {
	handle(c, a, `{"type":"playerReady"}`)
	handle(c, b, `{"type":"playerReady"}`)
}

func countType(msgs []any, match func(any) bool) int {
	n := 0
	for _, m := range msgs {
		if match(m) {
			n++
		}
	}
	return n
}

func TestCreateRoom(t *testing.T) {
	t.Run("replies with token and broadcasts listing", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := createRoomFor(t, c, s, "alice")

		if len(token) != DefaultRoomCodeLength {
			t.Errorf("Expected %d-character token, got %q", DefaultRoomCodeLength, token)
		}

		r, ok := c.rooms[token]
		if !ok {
			t.Fatal("Room not present in room table")
		}
		if r.Status != StatusOpen {
			t.Errorf("Expected open status, got %v", r.Status)
		}
		if r.PlayerCount() != 1 {
			t.Errorf("Expected 1 member, got %d", r.PlayerCount())
		}

		list, ok := s.lastBroadcastRoomList()
		if !ok {
			t.Fatal("No room-list broadcast after create")
		}
		if len(list.Rooms) != 1 || list.Rooms[0].RoomID != token {
			t.Errorf("Broadcast listing does not contain the new room: %+v", list.Rooms)
		}
		if list.Rooms[0].PlayerCount != 1 {
			t.Errorf("Expected playerCount 1 in listing, got %d", list.Rooms[0].PlayerCount)
		}
	})

	t.Run("rejected while already in a room", func(t *testing.T) {
		c, s := newTestCoordinator()
		createRoomFor(t, c, s, "alice")

		handle(c, "alice", `{"type":"createRoom"}`)

		msgs := s.sentTo("alice")
		last, ok := msgs[len(msgs)-1].(protocol.Error)
		if !ok {
			t.Fatalf("Expected error reply, got %T", msgs[len(msgs)-1])
		}
		if last.Message != ErrAlreadyInRoom.Error() {
			t.Errorf("Expected %q, got %q", ErrAlreadyInRoom.Error(), last.Message)
		}
		if len(c.rooms) != 1 {
			t.Errorf("Expected a single room, got %d", len(c.rooms))
		}
	})

	t.Run("tokens unique among live rooms", func(t *testing.T) {
		c, s := newTestCoordinator()
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			token := createRoomFor(t, c, s, fmt.Sprintf("client-%d", i))
			if seen[token] {
				t.Fatalf("Duplicate token %q", token)
			}
			seen[token] = true
		}
	})

	t.Run("honors configured code length", func(t *testing.T) {
		s := &fakeSender{}
		c := NewCoordinator(s, Options{RoomCodeLength: 8})
		token := createRoomFor(t, c, s, "alice")
		if len(token) != 8 {
			t.Errorf("Expected 8-character token, got %q", token)
		}
	})
}

func TestJoinRoom(t *testing.T) {
	t.Run("unknown token yields room not found and mutates nothing", func(t *testing.T) {
		c, s := newTestCoordinator()
		createRoomFor(t, c, s, "alice")

		handle(c, "bob", `{"type":"joinRoom","roomId":"zzzzzz"}`)

		msgs := s.sentTo("bob")
		errMsg, ok := msgs[len(msgs)-1].(protocol.Error)
		if !ok || errMsg.Message != ErrRoomNotFound.Error() {
			t.Errorf("Expected room-not-found error, got %+v", msgs[len(msgs)-1])
		}
		if _, inRoom := c.memberships["bob"]; inRoom {
			t.Error("Failed join must not record a membership")
		}
	})

	t.Run("notifies all members with the new count", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := pairRoom(t, c, s, "alice", "bob")

		for _, id := range []string{"alice", "bob"} {
			found := false
			for _, m := range s.sentTo(id) {
				if joined, ok := m.(protocol.PlayerJoined); ok {
					if joined.RoomID != token || joined.PlayerCount != 2 {
						t.Errorf("Unexpected playerJoined payload: %+v", joined)
					}
					found = true
				}
			}
			if !found {
				t.Errorf("%s did not receive playerJoined", id)
			}
		}

		if c.rooms[token].Status != StatusFull {
			t.Errorf("Expected full status, got %v", c.rooms[token].Status)
		}
	})

	t.Run("full room removed from listing broadcast", func(t *testing.T) {
		c, s := newTestCoordinator()
		pairRoom(t, c, s, "alice", "bob")

		list, ok := s.lastBroadcastRoomList()
		if !ok {
			t.Fatal("No room-list broadcast after join")
		}
		if len(list.Rooms) != 0 {
			t.Errorf("Full room must be hidden from listings, got %+v", list.Rooms)
		}
	})

	t.Run("third join yields room full", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := pairRoom(t, c, s, "alice", "bob")

		handle(c, "carol", fmt.Sprintf(`{"type":"joinRoom","roomId":"%s"}`, token))

		msgs := s.sentTo("carol")
		errMsg, ok := msgs[len(msgs)-1].(protocol.Error)
		if !ok || errMsg.Message != ErrRoomFull.Error() {
			t.Errorf("Expected room-full error, got %+v", msgs[len(msgs)-1])
		}
		if got := c.rooms[token].PlayerCount(); got != 2 {
			t.Errorf("Member count must stay at 2, got %d", got)
		}
	})

	t.Run("in-game room is not joinable", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := pairRoom(t, c, s, "alice", "bob")
		readyBoth(c, "alice", "bob")
		handle(c, "alice", `{"type":"startGame"}`)
		// A finished game leaves the room in_game with both members.
		handle(c, "bob", `{"type":"gameWon"}`)
		handle(c, "carol", fmt.Sprintf(`{"type":"joinRoom","roomId":"%s"}`, token))

		msgs := s.sentTo("carol")
		errMsg, ok := msgs[len(msgs)-1].(protocol.Error)
		if !ok || errMsg.Message != ErrRoomNotJoinable.Error() {
			t.Errorf("Expected not-joinable error, got %+v", msgs[len(msgs)-1])
		}
	})

	t.Run("joining while already in a room is rejected", func(t *testing.T) {
		c, s := newTestCoordinator()
		createRoomFor(t, c, s, "alice")
		token := createRoomFor(t, c, s, "bob")

		handle(c, "alice", fmt.Sprintf(`{"type":"joinRoom","roomId":"%s"}`, token))

		msgs := s.sentTo("alice")
		errMsg, ok := msgs[len(msgs)-1].(protocol.Error)
		if !ok || errMsg.Message != ErrAlreadyInRoom.Error() {
			t.Errorf("Expected already-in-room error, got %+v", msgs[len(msgs)-1])
		}
	})
}

func TestPlayerReady(t *testing.T) {
	isAllReady := func(m any) bool { _, ok := m.(protocol.AllPlayersReady); return ok }

	t.Run("broadcasts readiness to the room", func(t *testing.T) {
		c, s := newTestCoordinator()
		pairRoom(t, c, s, "alice", "bob")

		handle(c, "alice", `{"type":"playerReady"}`)

		for _, id := range []string{"alice", "bob"} {
			found := false
			for _, m := range s.sentTo(id) {
				if state, ok := m.(protocol.PlayerReadyState); ok {
					if state.PlayerID != "alice" || !state.IsReady {
						t.Errorf("Unexpected readiness payload: %+v", state)
					}
					found = true
				}
			}
			if !found {
				t.Errorf("%s did not receive playerReadyState", id)
			}
		}
	})

	t.Run("all-ready fires once when both are ready", func(t *testing.T) {
		c, s := newTestCoordinator()
		pairRoom(t, c, s, "alice", "bob")

		handle(c, "alice", `{"type":"playerReady"}`)
		if n := countType(s.sentTo("alice"), isAllReady); n != 0 {
			t.Errorf("allPlayersReady fired with one ready member (%d times)", n)
		}

		handle(c, "bob", `{"type":"playerReady"}`)
		for _, id := range []string{"alice", "bob"} {
			if n := countType(s.sentTo(id), isAllReady); n != 1 {
				t.Errorf("%s received allPlayersReady %d times, want 1", id, n)
			}
		}

		// Repeats while both remain ready must not re-fire.
		handle(c, "alice", `{"type":"playerReady"}`)
		handle(c, "bob", `{"type":"playerReady"}`)
		for _, id := range []string{"alice", "bob"} {
			if n := countType(s.sentTo(id), isAllReady); n != 1 {
				t.Errorf("%s received allPlayersReady %d times after repeats, want 1", id, n)
			}
		}
	})

	t.Run("never fires for a single-member room", func(t *testing.T) {
		c, s := newTestCoordinator()
		createRoomFor(t, c, s, "alice")

		handle(c, "alice", `{"type":"playerReady"}`)

		if n := countType(s.sentTo("alice"), isAllReady); n != 0 {
			t.Errorf("allPlayersReady fired for a 1-member room (%d times)", n)
		}
	})

	t.Run("no-op outside a room", func(t *testing.T) {
		c, s := newTestCoordinator()
		handle(c, "ghost", `{"type":"playerReady"}`)
		if len(s.sends) != 0 {
			t.Errorf("Expected no messages, got %d", len(s.sends))
		}
	})
}

func TestStartGame(t *testing.T) {
	scrambleOf := func(msgs []any) (string, int) {
		var last string
		n := 0
		for _, m := range msgs {
			if started, ok := m.(protocol.GameStarted); ok {
				last = started.Scramble
				n++
			}
		}
		return last, n
	}

	t.Run("no-op unless both members are ready", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := pairRoom(t, c, s, "alice", "bob")

		handle(c, "alice", `{"type":"startGame"}`)
		if _, n := scrambleOf(s.sentTo("alice")); n != 0 {
			t.Error("Game started with nobody ready")
		}

		handle(c, "alice", `{"type":"playerReady"}`)
		handle(c, "alice", `{"type":"startGame"}`)
		if _, n := scrambleOf(s.sentTo("alice")); n != 0 {
			t.Error("Game started with one ready member")
		}
		if c.rooms[token].Status == StatusInGame {
			t.Error("Status must not change on rejected start")
		}
	})

	t.Run("no-op for a single-member room", func(t *testing.T) {
		c, s := newTestCoordinator()
		createRoomFor(t, c, s, "alice")
		handle(c, "alice", `{"type":"playerReady"}`)
		handle(c, "alice", `{"type":"startGame"}`)
		if _, n := scrambleOf(s.sentTo("alice")); n != 0 {
			t.Error("Game started in a 1-member room")
		}
	})

	t.Run("broadcasts one identical scramble to both members", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := pairRoom(t, c, s, "alice", "bob")
		readyBoth(c, "alice", "bob")

		handle(c, "bob", `{"type":"startGame"}`)

		aliceScramble, n := scrambleOf(s.sentTo("alice"))
		if n != 1 {
			t.Fatalf("alice received %d gameStarted messages, want 1", n)
		}
		bobScramble, _ := scrambleOf(s.sentTo("bob"))

		if aliceScramble == "" {
			t.Error("Scramble is empty")
		}
		if aliceScramble != bobScramble {
			t.Errorf("Scrambles differ: %q vs %q", aliceScramble, bobScramble)
		}
		if got := len(strings.Fields(aliceScramble)); got != 5 {
			t.Errorf("Expected 5 scramble moves (configured length), got %d", got)
		}
		if c.rooms[token].Status != StatusInGame {
			t.Errorf("Expected in_game status, got %v", c.rooms[token].Status)
		}
	})

	t.Run("duplicate start does not regenerate the scramble", func(t *testing.T) {
		c, s := newTestCoordinator()
		pairRoom(t, c, s, "alice", "bob")
		readyBoth(c, "alice", "bob")

		handle(c, "alice", `{"type":"startGame"}`)
		// Both players pressing start after the handshake is a normal race;
		// the second press must be ignored.
		handle(c, "bob", `{"type":"startGame"}`)

		for _, id := range []string{"alice", "bob"} {
			if _, n := scrambleOf(s.sentTo(id)); n != 1 {
				t.Errorf("%s received %d gameStarted messages, want 1", id, n)
			}
		}
	})

	t.Run("started room leaves the listing broadcast", func(t *testing.T) {
		c, s := newTestCoordinator()
		pairRoom(t, c, s, "alice", "bob")
		readyBoth(c, "alice", "bob")
		handle(c, "alice", `{"type":"startGame"}`)

		list, ok := s.lastBroadcastRoomList()
		if !ok {
			t.Fatal("No room-list broadcast after start")
		}
		if len(list.Rooms) != 0 {
			t.Errorf("In-game room must be hidden from listings, got %+v", list.Rooms)
		}
	})
}

func TestMoveRelay(t *testing.T) {
	t.Run("relays verbatim to the other member only", func(t *testing.T) {
		c, s := newTestCoordinator()
		pairRoom(t, c, s, "alice", "bob")

		handle(c, "alice", `{"type":"move","move":"R' U2"}`)

		var relayed *protocol.Move
		for _, m := range s.sentTo("bob") {
			if mv, ok := m.(protocol.Move); ok {
				relayed = &mv
			}
		}
		if relayed == nil {
			t.Fatal("bob did not receive the move")
		}
		if relayed.PlayerID != "alice" || relayed.Move != "R' U2" {
			t.Errorf("Unexpected relay payload: %+v", relayed)
		}

		for _, m := range s.sentTo("alice") {
			if _, ok := m.(protocol.Move); ok {
				t.Error("Move must not echo back to the sender")
			}
		}
	})

	t.Run("no-op outside a room", func(t *testing.T) {
		c, s := newTestCoordinator()
		handle(c, "ghost", `{"type":"move","move":"R"}`)
		if len(s.sends) != 0 {
			t.Errorf("Expected no messages, got %d", len(s.sends))
		}
	})
}

func TestGameWon(t *testing.T) {
	isAllReady := func(m any) bool { _, ok := m.(protocol.AllPlayersReady); return ok }

	t.Run("broadcasts winner and resets readiness for a rematch", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := pairRoom(t, c, s, "alice", "bob")
		readyBoth(c, "alice", "bob")
		handle(c, "alice", `{"type":"startGame"}`)

		handle(c, "bob", `{"type":"gameWon"}`)

		for _, id := range []string{"alice", "bob"} {
			found := false
			for _, m := range s.sentTo(id) {
				if over, ok := m.(protocol.GameOver); ok {
					if over.WinnerID != "bob" {
						t.Errorf("Expected winner bob, got %s", over.WinnerID)
					}
					found = true
				}
			}
			if !found {
				t.Errorf("%s did not receive gameOver", id)
			}
		}

		// Status stays in_game; membership is untouched.
		if c.rooms[token].Status != StatusInGame {
			t.Errorf("Win must not change status, got %v", c.rooms[token].Status)
		}
		if c.rooms[token].PlayerCount() != 2 {
			t.Errorf("Win must not change membership, got %d members", c.rooms[token].PlayerCount())
		}

		// Readiness was reset, so the full handshake works again.
		readyBoth(c, "alice", "bob")
		for _, id := range []string{"alice", "bob"} {
			if n := countType(s.sentTo(id), isAllReady); n != 2 {
				t.Errorf("%s saw allPlayersReady %d times across two handshakes, want 2", id, n)
			}
		}
	})

	t.Run("no-op outside a room", func(t *testing.T) {
		c, s := newTestCoordinator()
		handle(c, "ghost", `{"type":"gameWon"}`)
		if len(s.sends) != 0 {
			t.Errorf("Expected no messages, got %d", len(s.sends))
		}
	})
}

func TestDisconnect(t *testing.T) {
	t.Run("two-member in-game room reverts to open", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := pairRoom(t, c, s, "alice", "bob")
		readyBoth(c, "alice", "bob")
		handle(c, "alice", `{"type":"startGame"}`)

		c.HandleDisconnect("bob")

		r, ok := c.rooms[token]
		if !ok {
			t.Fatal("Room must survive a single-member disconnect")
		}
		if r.Status != StatusOpen {
			t.Errorf("Expected open status after recovery, got %v", r.Status)
		}
		if r.PlayerCount() != 1 {
			t.Errorf("Expected 1 remaining member, got %d", r.PlayerCount())
		}
		if r.ready["alice"] {
			t.Error("Survivor's readiness must be reset")
		}

		found := false
		for _, m := range s.sentTo("alice") {
			if _, ok := m.(protocol.OpponentDisconnected); ok {
				found = true
			}
		}
		if !found {
			t.Error("Survivor did not receive opponentDisconnected")
		}

		// The recovered room is matchable again.
		list, ok := s.lastBroadcastRoomList()
		if !ok {
			t.Fatal("No room-list broadcast after disconnect")
		}
		if len(list.Rooms) != 1 || list.Rooms[0].RoomID != token {
			t.Errorf("Recovered room missing from listing: %+v", list.Rooms)
		}
	})

	t.Run("last member deletes the room", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := createRoomFor(t, c, s, "alice")

		c.HandleDisconnect("alice")

		if _, ok := c.rooms[token]; ok {
			t.Fatal("Empty room must be deleted")
		}

		handle(c, "bob", fmt.Sprintf(`{"type":"joinRoom","roomId":"%s"}`, token))
		msgs := s.sentTo("bob")
		errMsg, ok := msgs[len(msgs)-1].(protocol.Error)
		if !ok || errMsg.Message != ErrRoomNotFound.Error() {
			t.Errorf("Join after deletion must yield room-not-found, got %+v", msgs[len(msgs)-1])
		}
	})

	t.Run("no-op for a client without a room", func(t *testing.T) {
		c, s := newTestCoordinator()
		c.HandleDisconnect("ghost")
		if len(s.sends) != 0 || len(s.broadcasts) != 0 {
			t.Error("Disconnect outside a room must not produce messages")
		}
	})
}

func TestListRooms(t *testing.T) {
	t.Run("only open single-member rooms, newest first", func(t *testing.T) {
		c, s := newTestCoordinator()

		oldToken := createRoomFor(t, c, s, "alice")
		newToken := createRoomFor(t, c, s, "bob")
		pairRoom(t, c, s, "carol", "dave") // full, hidden

		// Force distinct creation times for a deterministic order.
		c.rooms[oldToken].CreatedAt = time.Now().Add(-time.Minute)
		c.rooms[newToken].CreatedAt = time.Now()

		rooms := c.OpenRooms()
		if len(rooms) != 2 {
			t.Fatalf("Expected 2 joinable rooms, got %d", len(rooms))
		}
		if rooms[0].RoomID != newToken || rooms[1].RoomID != oldToken {
			t.Errorf("Expected newest-first order [%s %s], got [%s %s]",
				newToken, oldToken, rooms[0].RoomID, rooms[1].RoomID)
		}
		for _, r := range rooms {
			if r.PlayerCount != 1 || r.Status != "open" {
				t.Errorf("Non-joinable room in listing: %+v", r)
			}
		}
	})

	t.Run("getRoomList replies to the requester", func(t *testing.T) {
		c, s := newTestCoordinator()
		token := createRoomFor(t, c, s, "alice")

		handle(c, "bob", `{"type":"getRoomList"}`)

		msgs := s.sentTo("bob")
		list, ok := msgs[len(msgs)-1].(protocol.RoomList)
		if !ok {
			t.Fatalf("Expected roomList reply, got %T", msgs[len(msgs)-1])
		}
		if len(list.Rooms) != 1 || list.Rooms[0].RoomID != token {
			t.Errorf("Unexpected listing: %+v", list.Rooms)
		}
	})
}

func TestMalformedMessages(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"unparseable", `{broken`},
		{"missing type", `{"roomId":"ab12cd"}`},
		{"unknown type", `{"type":"teleport"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, s := newTestCoordinator()
			handle(c, "alice", tc.payload)
			if len(s.sends) != 0 || len(s.broadcasts) != 0 {
				t.Error("Malformed messages must be dropped without replies")
			}
		})
	}
}

func TestHandleConnect(t *testing.T) {
	c, s := newTestCoordinator()
	c.HandleConnect("alice")

	msgs := s.sentTo("alice")
	if len(msgs) != 1 {
		t.Fatalf("Expected exactly one message, got %d", len(msgs))
	}
	connected, ok := msgs[0].(protocol.Connected)
	if !ok || connected.ClientID != "alice" {
		t.Errorf("Unexpected connected payload: %+v", msgs[0])
	}
}

// TestFullDuelFlow walks the complete happy path end to end at the
// coordinator level: create, join, ready, start, move, win.
func TestFullDuelFlow(t *testing.T) {
	c, s := newTestCoordinator()

	c.HandleConnect("alice")
	c.HandleConnect("bob")

	token := createRoomFor(t, c, s, "alice")
	handle(c, "bob", fmt.Sprintf(`{"type":"joinRoom","roomId":"%s"}`, token))
	readyBoth(c, "alice", "bob")
	handle(c, "alice", `{"type":"startGame"}`)
	handle(c, "alice", `{"type":"move","move":"F2"}`)
	handle(c, "alice", `{"type":"gameWon"}`)

	// Both members observed the same ordered milestone sequence.
	for _, id := range []string{"alice", "bob"} {
		var milestones []string
		for _, m := range s.sentTo(id) {
			switch m.(type) {
			case protocol.PlayerJoined:
				milestones = append(milestones, "joined")
			case protocol.AllPlayersReady:
				milestones = append(milestones, "allReady")
			case protocol.GameStarted:
				milestones = append(milestones, "started")
			case protocol.GameOver:
				milestones = append(milestones, "over")
			}
		}
		want := "joined,allReady,started,over"
		if got := strings.Join(milestones, ","); got != want {
			t.Errorf("%s milestone order = %q, want %q", id, got, want)
		}
	}

	// Only the opponent saw the relayed move.
	for _, m := range s.sentTo("bob") {
		if mv, ok := m.(protocol.Move); ok {
			if mv.PlayerID != "alice" || mv.Move != "F2" {
				t.Errorf("Unexpected relay: %+v", mv)
			}
		}
	}

	// Winner identity propagated to both.
	for _, id := range []string{"alice", "bob"} {
		for _, m := range s.sentTo(id) {
			if over, ok := m.(protocol.GameOver); ok && over.WinnerID != "alice" {
				t.Errorf("%s saw winner %s, want alice", id, over.WinnerID)
			}
		}
	}
}

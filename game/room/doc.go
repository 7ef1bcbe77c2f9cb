// Package room implements the matchmaking and session core of the cubesim
// server: the state machine that pairs connected clients into two-player
// rooms, negotiates readiness, starts games with a shared scramble, relays
// moves, and recovers room state on disconnect.
//
// Core Types:
//
// Coordinator owns the room table (token -> Room) and the reverse index from
// client identity to room token. Room is one matchmaking unit with at most
// two members, per-member readiness flags, and a lifecycle status.
//
// Lifecycle:
//
//	open -> full -> in_game
//
// A room is created open with one member, becomes full when a second member
// joins, and enters in_game on a validated start. Starting consumes the
// readiness flags, so each completed ready handshake yields exactly one
// scramble even when both members issue the start. A disconnect from a
// two-member room reverts it to open with the survivor's readiness cleared;
// a disconnect from a one-member room deletes it. Winning a game clears
// readiness but leaves the status at in_game so the pair can re-run the
// ready/start handshake for a rematch.
//
// Listings:
//
// Room-list snapshots expose only rooms that are open with exactly one
// member, ordered most-recently-created first. A fresh snapshot is broadcast
// to every connection whenever a visible change occurs.
//
// Concurrency:
//
// Every operation runs to completion under the coordinator's mutex, so no
// two handlers interleave on the same room and a disconnect is observed as a
// single atomic transaction. Outbound delivery goes through the Sender
// interface and is best-effort; the coordinator never blocks on transport
// I/O and never talks to a socket directly, which keeps it unit-testable
// without a network.
package room

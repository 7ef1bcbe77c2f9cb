// Package websocket provides the WebSocket transport for the cubesim
// server: the connection registry that maps client identities to live
// connections.
//
// The package implements:
//   - Connection upgrade and per-connection identity assignment (uuid)
//   - Best-effort outbound routing to one client or to all clients
//   - Connection lifecycle management with ping/pong keepalive
//   - Verbatim hand-off of inbound frames to a business-logic handler
//
// Architecture:
//
// The package uses a hub-and-spoke model. The Hub tracks every live
// connection; each connection runs a dedicated read pump and write pump
// goroutine. The hub itself contains no game rules: inbound frames go to a
// Handler (the room coordinator) untouched, and outbound messages are JSON
// values the hub merely marshals and queues.
//
// Delivery Semantics:
//
// Sends are fire-and-forget. Every client has a buffered send channel; if
// the buffer is full or the client is unknown, the message is dropped and
// logged. A slow client therefore never stalls room processing or delivery
// to other recipients, and no message is ever retried.
//
// Lifecycle:
//
//  1. Client connects to /ws and is assigned a fresh uuid identity
//  2. The connection is registered and HandleConnect announces the
//     identity, before any inbound frame is read
//  3. Inbound frames flow to HandleMessage in per-client arrival order
//  4. Transport close triggers HandleDisconnect exactly once via the hub's
//     Run loop, then the identity becomes invalid
package websocket

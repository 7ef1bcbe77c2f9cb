// Package api provides the HTTP surface of the cubesim server.
//
// The api package implements:
//   - WebSocket upgrade handling at /ws (the gameplay protocol itself is
//     defined in the protocol package and handled by the room coordinator)
//   - A small read-only REST API for observability
//   - Static file serving for the bundled web client
//
// Endpoints:
//
//   - GET /api/health - liveness check
//   - GET /api/rooms  - joinable rooms, the same snapshot sent in roomList
//     messages, newest first
//   - GET /api/stats  - connection and room counters
//   - /ws             - WebSocket endpoint; one connection = one client
//     identity for its lifetime
//
// All REST endpoints return JSON. Errors are returned as JSON with an
// appropriate HTTP status code:
//
//	{
//	  "error": "error message"
//	}
//
// Matchmaking and gameplay state is never mutated through REST; every
// mutation flows through the WebSocket protocol so the room coordinator
// remains the only writer of room state.
package api

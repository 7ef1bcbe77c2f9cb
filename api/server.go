package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/M1294K/cubesim/game/room"
	"github.com/M1294K/cubesim/transport/websocket"
)

// Server is the HTTP surface of the cubesim server: a small read-only REST
// API, the WebSocket mount, and the static web client.
type Server struct {
	coordinator *room.Coordinator
	hub         *websocket.Hub
	router      *mux.Router
}

// NewServer creates a new API server.
func NewServer(coordinator *room.Coordinator, hub *websocket.Hub) *Server {
	s := &Server{
		coordinator: coordinator,
		hub:         hub,
		router:      mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files for the bundled web client
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleListRooms returns the same joinable-room snapshot clients receive in
// roomList messages.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.coordinator.OpenRooms()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"clients": s.hub.ClientCount(),
		"rooms":   s.coordinator.RoomCount(),
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravitas-games/hexgeo/internal/network"
	"github.com/gravitas-games/hexgeo/pkg/models"
)

// Session states
const (
	StateRunning  = "running"
	StateStopping = "stopping"
)

// Session tracks the clients connected to the service and what they
// have been served
type Session struct {
	ID        string
	CreatedAt time.Time

	// Client management
	connections map[string]*Connection // connectionID -> Connection
	state       string
	mu          sync.RWMutex

	queries atomic.Int64
	hexes   atomic.Int64

	logger *log.Logger
}

// NewSession creates a new session
func NewSession(id string, logger *log.Logger) *Session {
	logger.Debug("creating session", "session", id)
	return &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		connections: make(map[string]*Connection),
		state:       StateRunning,
		logger:      logger,
	}
}

// AddClient registers a connection with the session
func (s *Session) AddClient(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn.client.Connected = true
	conn.client.ConnectedAt = time.Now()
	conn.client.LastSeen = conn.client.ConnectedAt
	s.connections[conn.id] = conn

	s.logger.Info("client joined session", "user", conn.client.Username, "conn", conn.id, "session", s.ID)
}

// RemoveClient removes a connection from the session
func (s *Session) RemoveClient(connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conn, exists := s.connections[connectionID]; exists {
		conn.client.Connected = false
		delete(s.connections, connectionID)
		s.logger.Info("client left session", "user", conn.client.Username, "conn", connectionID, "session", s.ID)
	}
}

// Touch records activity on a connection
func (s *Session) Touch(connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conn, exists := s.connections[connectionID]; exists {
		conn.client.LastSeen = time.Now()
	}
}

// GetClient returns a snapshot of the client on a connection
func (s *Session) GetClient(connectionID string) (models.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn, exists := s.connections[connectionID]
	if !exists {
		return models.Client{}, false
	}
	return *conn.client, true
}

// GetClients returns snapshots of all connected clients
func (s *Session) GetClients() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]models.Client, 0, len(s.connections))
	for _, conn := range s.connections {
		clients = append(clients, *conn.client)
	}
	return clients
}

// BroadcastMessage sends a message to all connected clients, dropping it
// for clients whose send buffer is full
func (s *Session) BroadcastMessage(msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		conn.SendMessage(msg)
	}
}

// RecordQuery counts a completed query and the coordinates it produced
func (s *Session) RecordQuery(hexes int64) {
	s.queries.Add(1)
	s.hexes.Add(hexes)
}

// SetState changes the reported session state
func (s *Session) SetState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// GetStatus returns the current session status
func (s *Session) GetStatus() network.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return network.SessionStatus{
		State:         s.state,
		ClientCount:   len(s.connections),
		QueriesServed: s.queries.Load(),
		HexesServed:   s.hexes.Load(),
		Uptime:        int64(time.Since(s.CreatedAt).Seconds()),
	}
}

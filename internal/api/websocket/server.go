package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Tracker is the set of games the live poller refreshes.
type Tracker interface {
	Track(league, eventID string) error
	Untrack(league, eventID string)
}

// Update is pushed to clients whenever a tracked boxscore changes.
type Update struct {
	Type      string         `json:"type"`
	League    string         `json:"league"`
	EventID   string         `json:"event_id"`
	Data      map[string]any `json:"data"`
	Timestamp int64          `json:"timestamp"`
}

// Server upgrades /ws/boxscores connections and broadcasts updates.
type Server struct {
	hub     *Hub
	tracker Tracker
	logger  zerolog.Logger
}

// NewServer creates a WebSocket server. Call Start before serving.
func NewServer(tracker Tracker, log zerolog.Logger) *Server {
	return &Server{
		hub:     NewHub(),
		tracker: tracker,
		logger:  logger.Component(log, "websocket"),
	}
}

// Start runs the hub in the background.
func (s *Server) Start() {
	go s.hub.Run()
}

// Stop disconnects all clients.
func (s *Server) Stop() {
	s.hub.Stop()
}

// ServeHTTP upgrades the connection and starts the client pumps.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := &Client{
		hub:     s.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		replies: make(chan []byte, 16),
		tracker: s.tracker,
		logger:  s.logger,
	}
	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// PublishBoxscore broadcasts a changed boxscore to every client.
func (s *Server) PublishBoxscore(league, eventID string, categories map[string]any) error {
	b, err := json.Marshal(Update{
		Type:      "boxscore",
		League:    league,
		EventID:   eventID,
		Data:      categories,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	s.hub.Broadcast(b)
	return nil
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

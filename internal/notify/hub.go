package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrHubClosed is returned by Register after Close.
var ErrHubClosed = errors.New("notification hub is closed")

// HubConfig tunes connection health checks and buffering.
type HubConfig struct {
	SendBuffer int
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
}

// DefaultHubConfig pings every 30s and drops connections silent for 90s.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		SendBuffer: 32,
		WriteWait:  10 * time.Second,
		PongWait:   90 * time.Second,
		PingPeriod: 30 * time.Second,
	}
}

// Hub tracks the live websocket sessions of every connected user. A user may
// hold several sessions, one per device.
type Hub struct {
	cfg HubConfig

	mu       sync.RWMutex
	sessions map[uint64]map[*Session]struct{}
	closed   bool
}

// NewHub creates an empty hub.
func NewHub(cfg HubConfig) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultHubConfig().SendBuffer
	}
	return &Hub{
		cfg:      cfg,
		sessions: make(map[uint64]map[*Session]struct{}),
	}
}

// Register starts a session for conn. The caller owns the returned Session
// and must Close it, or run Serve, which closes it when the peer goes away.
func (h *Hub) Register(userID uint64, conn *websocket.Conn) (*Session, error) {
	s := &Session{
		hub:    h,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, h.cfg.SendBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[*Session]struct{})
	}
	h.sessions[userID][s] = struct{}{}
	count := len(h.sessions[userID])
	h.mu.Unlock()

	go s.writeLoop()

	log.Printf("User %d connected to hub (sessions: %d)", userID, count)
	return s, nil
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	if set, ok := h.sessions[s.userID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.sessions, s.userID)
		}
	}
	h.mu.Unlock()
	log.Printf("User %d disconnected from hub", s.userID)
}

// IsOnline reports whether userID has at least one live session.
func (h *Hub) IsOnline(userID uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID]) > 0
}

// Notify queues event on every session of recipientID. Offline recipients
// and sessions with a full queue are skipped.
func (h *Hub) Notify(_ context.Context, recipientID uint64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling %s event for user %d: %v", event.Type, recipientID, err)
		return
	}
	h.deliver(recipientID, data)
}

func (h *Hub) deliver(recipientID uint64, data []byte) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions[recipientID]))
	for s := range h.sessions[recipientID] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		s.enqueue(data)
	}
}

// Close ends every session and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*Session
	for _, set := range h.sessions {
		for s := range set {
			all = append(all, s)
		}
	}
	h.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

// Session is one websocket connection registered with a Hub.
type Session struct {
	hub    *Hub
	userID uint64
	conn   *websocket.Conn
	send   chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func (s *Session) UserID() uint64 { return s.userID }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) enqueue(data []byte) {
	select {
	case <-s.done:
	case s.send <- data:
	default:
		log.Printf("Dropping event for user %d: send queue full", s.userID)
	}
}

// Serve reads from the peer until it disconnects, answering pings and
// tracking pongs, then closes the session. Inbound messages are ignored.
func (s *Session) Serve() {
	defer s.Close()

	cfg := s.hub.cfg
	if cfg.PongWait > 0 {
		s.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		s.conn.SetPongHandler(func(string) error {
			return s.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		})
	}

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Websocket read error for user %d: %v", s.userID, err)
			}
			return
		}
	}
}

// Close unregisters the session and closes the connection. It is safe to
// call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.hub.unregister(s)
		err = s.conn.Close()
	})
	return err
}

func (s *Session) writeLoop() {
	cfg := s.hub.cfg

	var ping <-chan time.Time
	if cfg.PingPeriod > 0 {
		ticker := time.NewTicker(cfg.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-s.done:
			return
		case data := <-s.send:
			if err := s.write(websocket.TextMessage, data); err != nil {
				log.Printf("Error sending event to user %d: %v", s.userID, err)
				s.Close()
				return
			}
		case <-ping:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		}
	}
}

func (s *Session) write(messageType int, data []byte) error {
	if s.hub.cfg.WriteWait > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteWait))
	}
	return s.conn.WriteMessage(messageType, data)
}

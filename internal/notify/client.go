package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

// ReceivedEvent is an event read by a Client. Data is left raw for the
// caller to decode by Type.
type ReceivedEvent struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client connects to the notification endpoint. It keeps no connection state
// of its own: each Connect returns a session the caller owns.
type Client struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	policy ReconnectPolicy
}

// NewClient creates a client for url (ws:// or wss://).
func NewClient(url string, header http.Header, policy ReconnectPolicy) *Client {
	return &Client{
		url:    url,
		header: header,
		dialer: websocket.DefaultDialer,
		policy: policy,
	}
}

// Connect dials the endpoint, retrying according to the reconnect policy.
func (c *Client) Connect(ctx context.Context) (*ClientSession, error) {
	conn, err := backoff.Retry(ctx, func() (*websocket.Conn, error) {
		conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
		if err != nil {
			if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, backoff.Permanent(fmt.Errorf("notification endpoint refused connection: %s", resp.Status))
			}
			return nil, err
		}
		return conn, nil
	}, c.policy.retryOptions("notification connect")...)
	if err != nil {
		return nil, err
	}

	s := &ClientSession{
		conn:   conn,
		events: make(chan ReceivedEvent, 16),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// ClientSession is a live connection. Events is closed when the connection
// ends, after which the caller may Connect again.
type ClientSession struct {
	conn   *websocket.Conn
	events chan ReceivedEvent

	done      chan struct{}
	closeOnce sync.Once
}

func (s *ClientSession) Events() <-chan ReceivedEvent { return s.events }

// Close ends the session.
func (s *ClientSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = s.conn.Close()
	})
	return err
}

func (s *ClientSession) readLoop() {
	defer close(s.events)
	for {
		var ev ReceivedEvent
		if err := s.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Notification connection closed: %v", err)
			}
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

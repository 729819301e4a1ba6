package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rileyhilliard/sensordash/internal/dashboard"
	"github.com/rileyhilliard/sensordash/internal/logger"
	"github.com/rileyhilliard/sensordash/internal/poller"
)

const streamWriteWait = 5 * time.Second

// Update is one message on the /ws stream. Failed fetches carry only Error;
// clients keep showing the last update that had records.
type Update struct {
	Tick      uint64             `json:"tick"`
	FetchedAt time.Time          `json:"fetched_at"`
	Error     string             `json:"error,omitempty"`
	Summary   *dashboard.Summary `json:"summary,omitempty"`
	Rows      []dashboard.Row    `json:"rows,omitempty"`
}

// NewUpdate builds the stream message for a poller result. Rows cover the
// whole record set, not a single page.
func NewUpdate(r poller.Result, threshold float64) Update {
	u := Update{Tick: r.Tick, FetchedAt: r.Finished}
	if r.Err != nil {
		u.Error = r.Err.Error()
		return u
	}

	v := dashboard.Derive(dashboard.State{
		Records:   r.Records,
		Page:      1,
		PageSize:  len(r.Records) + 1,
		Threshold: threshold,
	})
	u.Summary = &v.Summary
	u.Rows = v.Rows
	if u.Rows == nil {
		u.Rows = []dashboard.Row{}
	}
	return u
}

type streamClient struct {
	conn *websocket.Conn
	mu   sync.Mutex // one writer at a time per connection
}

func (c *streamClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Stream pushes dashboard updates to websocket clients. New clients get the
// most recent successful update straight away.
type Stream struct {
	upgrader websocket.Upgrader
	log      logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]*streamClient
	latest  []byte
	closed  bool
}

// NewStream creates an empty stream.
func NewStream(log logger.Logger) *Stream {
	if log == nil {
		log = logger.Noop()
	}
	return &Stream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Read-only feed, served on the same listener as /metrics.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*websocket.Conn]*streamClient),
	}
}

// ServeHTTP upgrades the request and holds the connection until the client
// goes away.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed: %v", err)
		return
	}

	c := &streamClient{conn: conn}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.clients[conn] = c
	latest := s.latest
	s.mu.Unlock()

	s.log.Debug("stream client connected from %s", conn.RemoteAddr())

	if latest != nil {
		if err := c.write(latest); err != nil {
			s.remove(conn)
			return
		}
	}

	// Inbound messages are ignored; the read loop only notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("stream client error: %v", err)
			}
			break
		}
	}
	s.remove(conn)
}

// Publish sends u to every connected client. Clients that can't keep up are
// dropped.
func (s *Stream) Publish(u Update) {
	data, err := json.Marshal(u)
	if err != nil {
		s.log.Error("encode stream update: %v", err)
		return
	}

	s.mu.Lock()
	if u.Error == "" {
		s.latest = data
	}
	clients := make([]*streamClient, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			s.log.Debug("dropping stream client %s: %v", c.conn.RemoteAddr(), err)
			s.remove(c.conn)
		}
	}
}

// Clients returns the number of connected clients.
func (s *Stream) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client and refuses new ones.
func (s *Stream) Close() {
	s.mu.Lock()
	s.closed = true
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.clients = make(map[*websocket.Conn]*streamClient)
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (s *Stream) remove(conn *websocket.Conn) {
	s.mu.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

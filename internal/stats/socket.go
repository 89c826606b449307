// Package stats maintains the connection to the statistics WebSocket feed and
// republishes every frame on the shared bus.
package stats

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/potatbotat/potat-tui/internal/bus"
)

const (
	// DefaultReconnectDelay is the fixed wait between a lost connection and
	// the next dial. It is not backed off.
	DefaultReconnectDelay = 2500 * time.Millisecond

	// TopicPrefix is stripped from every inbound topic before publishing.
	TopicPrefix = "stats/"
)

// State is the lifecycle state of a Socket.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Dialer opens the feed connection. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Params holds configuration for creating a Socket.
type Params struct {
	Bus            *bus.Bus
	Dialer         Dialer
	ReconnectDelay time.Duration
	Logger         *log.Logger
}

// envelope is the wire format of one feed frame.
type envelope struct {
	Topic *string         `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// Socket is a reconnecting client for the statistics feed.
type Socket struct {
	url    string
	bus    *bus.Bus
	dialer Dialer
	delay  time.Duration
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	conn     *websocket.Conn
	state    State
	closed   bool
	timer    *time.Timer
	attempts int
}

// New creates a Socket for uri and starts connecting in the background.
func New(uri string, p Params) *Socket {
	if p.Bus == nil {
		p.Bus = bus.New()
	}
	if p.Dialer == nil {
		p.Dialer = websocket.DefaultDialer
	}
	if p.ReconnectDelay <= 0 {
		p.ReconnectDelay = DefaultReconnectDelay
	}
	if p.Logger == nil {
		p.Logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Socket{
		url:    uri,
		bus:    p.Bus,
		dialer: p.Dialer,
		delay:  p.ReconnectDelay,
		logger: p.Logger,
		ctx:    ctx,
		cancel: cancel,
	}
	go s.connect()
	return s
}

var (
	sharedMu sync.Mutex
	shared   *Socket
)

// GetOrCreate returns the process-wide Socket, creating it on first use.
//
// The first caller's uri and params win. Later calls ignore their arguments
// and return the existing instance, even after it has been closed. Prefer New
// from a single composition root.
func GetOrCreate(uri string, p Params) *Socket {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = New(uri, p)
	}
	return shared
}

// URL returns the feed endpoint.
func (s *Socket) URL() string {
	return s.url
}

// Bus returns the bus updates are published on.
func (s *Socket) Bus() *bus.Bus {
	return s.bus
}

// State returns the current lifecycle state.
func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts returns how many times a dial has been started.
func (s *Socket) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Close releases the connection. No reconnect happens afterwards.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.state = StateShutdown
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	s.cancel()
	if conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return conn.Close()
}

func (s *Socket) connect() {
	s.mu.Lock()
	if s.closed || s.state == StateOpen {
		s.mu.Unlock()
		return
	}
	s.state = StateConnecting
	s.attempts++
	s.timer = nil
	s.mu.Unlock()

	conn, _, err := s.dialer.DialContext(s.ctx, s.url, nil)
	if err != nil {
		s.logger.Printf("stats: dial %s: %v", s.url, err)
		s.disconnected()
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.state = StateOpen
	s.mu.Unlock()

	s.logger.Printf("stats: connected to %s", s.url)
	s.readLoop(conn)
	conn.Close()

	s.logger.Printf("stats: disconnected from %s", s.url)
	s.disconnected()
}

func (s *Socket) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleFrame(msg)
	}
}

func (s *Socket) handleFrame(msg []byte) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil || env.Topic == nil {
		s.logger.Printf("stats: invalid frame dropped")
		return
	}
	s.bus.EmitUpdate(bus.UpdateEvent{
		Topic: strings.TrimPrefix(*env.Topic, TopicPrefix),
		Data:  env.Data,
	})
}

// disconnected records the loss of the transport and schedules the next dial
// unless Close has been called.
func (s *Socket) disconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = nil
	if s.closed {
		s.state = StateShutdown
		return
	}
	s.state = StateClosed
	s.timer = time.AfterFunc(s.delay, s.connect)
}

package stream

import (
	"errors"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// TokenSource supplies the bearer token carried on every (re)connect.
// Token acquisition and refresh live outside this package; re-reading
// the source on each dial is what picks up a rotated token.
type TokenSource interface {
	Token() (string, error)
}

var ErrNotConnected = errors.New("stream: not connected")

// Conn owns the lifecycle of one persistent websocket connection to
// the upstream event stream: dial with token, detect loss, reconnect
// after a fixed delay, tear down. At most one live connection attempt
// exists at a time; Connect while connecting or connected is a no-op.
type Conn struct {
	endpoint string
	tokens   TokenSource
	delay    time.Duration

	// OnFrame receives every raw text frame. OnConnected fires after
	// each successful open (subscription replay hangs off it). Set
	// both before the first Connect.
	OnFrame     func([]byte)
	OnConnected func()

	mu     sync.Mutex
	state  ConnState
	ws     *websocket.Conn
	gen    int // bumped on every dial and on Close; stale handlers compare against it
	retry  *time.Timer
	closed bool

	wmu sync.Mutex // serializes writes to ws
}

func NewConn(endpoint string, tokens TokenSource, delay time.Duration) *Conn {
	if delay <= 0 {
		delay = 3 * time.Second
	}
	return &Conn{
		endpoint: endpoint,
		tokens:   tokens,
		delay:    delay,
	}
}

func (c *Conn) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the stream. Idempotent: a call while a connection is
// already connecting or connected is ignored, never layered.
func (c *Conn) Connect() {
	c.mu.Lock()
	if c.closed || c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	if c.ws != nil {
		// stale handle from a previous session
		c.ws.Close()
		c.ws = nil
	}
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.dial(gen)
}

func (c *Conn) dial(gen int) {
	token, err := c.tokens.Token()
	if err != nil {
		log.Println("stream: token source:", err)
		c.dialFailed(gen)
		return
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		log.Println("stream: bad endpoint:", err)
		c.dialFailed(gen)
		return
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)

	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		if ws != nil {
			ws.Close()
		}
		return
	}
	if err != nil {
		log.Println("stream: connect failed:", err)
		c.state = StateDisconnected
		c.scheduleRetryLocked()
		c.mu.Unlock()
		return
	}
	c.ws = ws
	c.state = StateConnected
	c.mu.Unlock()

	log.Println("stream: connected", c.endpoint)

	if c.OnConnected != nil {
		c.OnConnected()
	}

	go c.readLoop(ws, gen)
}

func (c *Conn) dialFailed(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return
	}
	c.state = StateDisconnected
	c.scheduleRetryLocked()
}

func (c *Conn) readLoop(ws *websocket.Conn, gen int) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}
		if c.OnFrame != nil {
			c.OnFrame(data)
		}
	}

	c.mu.Lock()
	if c.closed || gen != c.gen {
		// Close() discarded this socket; its close event must not
		// schedule a reconnect.
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.ws = nil
	log.Println("stream: connection lost, retrying in", c.delay)
	c.scheduleRetryLocked()
	c.mu.Unlock()
}

// scheduleRetryLocked arms the reconnect timer. A single pending
// timer at a time; arming while one is pending is a no-op.
func (c *Conn) scheduleRetryLocked() {
	if c.retry != nil {
		return
	}
	c.retry = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		c.retry = nil
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.Connect()
	})
}

// Send pushes one JSON control message if the connection is up.
func (c *Conn) Send(v any) error {
	c.mu.Lock()
	ws := c.ws
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected || ws == nil {
		return ErrNotConnected
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	return ws.WriteJSON(v)
}

// Close shuts the connection down for good: cancels any pending
// reconnect, detaches handlers from the socket before closing it, and
// leaves the manager in terminal Disconnected.
func (c *Conn) Close() {
	c.mu.Lock()
	c.closed = true
	c.gen++ // detaches readLoop and any in-flight dial
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	ws := c.ws
	c.ws = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if ws != nil {
		ws.Close()
	}
}

// Package realtime pushes the queue display feed to connected screens over
// websockets.
package realtime

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	broadcastDelay  = 50 * time.Millisecond
	writeTimeout    = 5 * time.Second
	pingInterval    = 20 * time.Second
	readTimeout     = 60 * time.Second
	snapshotTimeout = 5 * time.Second
)

// Snapshot renders the message every screen should currently show.
type Snapshot func(ctx context.Context) ([]byte, error)

// MessageWriter is the part of *websocket.Conn the hub writes through.
type MessageWriter interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
}

type client struct {
	id     string
	w      MessageWriter
	mu     sync.Mutex
	closed bool
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	_ = c.w.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.w.WriteMessage(messageType, data)
}

type Hub struct {
	snapshot Snapshot
	log      *zap.Logger
	delay    time.Duration

	mu      sync.RWMutex
	clients map[*client]struct{}
	counter atomic.Uint64

	timerMu sync.Mutex
	timer   *time.Timer

	lastMu sync.RWMutex
	last   []byte
}

func NewHub(snapshot Snapshot, log *zap.Logger) *Hub {
	return &Hub{
		snapshot: snapshot,
		log:      log,
		delay:    broadcastDelay,
		clients:  map[*client]struct{}{},
	}
}

// Notify schedules a broadcast. Calls within the debounce window collapse
// into one snapshot.
func (h *Hub) Notify() {
	h.timerMu.Lock()
	defer h.timerMu.Unlock()

	if h.timer != nil {
		h.timer.Reset(h.delay)
		return
	}
	h.timer = time.AfterFunc(h.delay, func() {
		h.timerMu.Lock()
		h.timer = nil
		h.timerMu.Unlock()
		h.broadcast()
	})
}

func (h *Hub) render() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	return h.snapshot(ctx)
}

func (h *Hub) broadcast() {
	msg, err := h.render()
	if err != nil {
		h.log.Error("display snapshot failed", zap.Error(err))
		return
	}

	h.lastMu.Lock()
	unchanged := bytes.Equal(msg, h.last)
	h.last = msg
	h.lastMu.Unlock()
	if unchanged {
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			h.log.Warn("display write failed", zap.String("client", c.id), zap.Error(err))
			h.remove(c)
		}
	}
}

// Last returns the most recently broadcast message, if any.
func (h *Hub) Last() []byte {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.last
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(w MessageWriter) *client {
	c := &client{id: fmt.Sprintf("display-%d", h.counter.Add(1)), w: w}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("display connected", zap.String("client", c.id), zap.Int("total", total))
	return c
}

func (h *Hub) remove(c *client) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	h.mu.Lock()
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("display disconnected", zap.String("client", c.id), zap.Int("total", total))
}

// sendInitial gives a new screen a fresh snapshot so it does not wait for
// the next change.
func (h *Hub) sendInitial(c *client) {
	msg, err := h.render()
	if err != nil {
		h.log.Warn("initial display snapshot failed", zap.String("client", c.id), zap.Error(err))
		msg = h.Last()
	}
	if msg == nil {
		return
	}
	if err := c.write(websocket.TextMessage, msg); err != nil {
		h.log.Warn("initial display write failed", zap.String("client", c.id), zap.Error(err))
	}
}

// Serve runs one websocket connection until the peer goes away.
func (h *Hub) Serve(conn *websocket.Conn) {
	c := h.add(conn)
	defer func() {
		h.remove(c)
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.sendInitial(c)

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.write(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure,
			) {
				h.log.Info("display closed unexpectedly", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
	}
}

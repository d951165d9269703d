// Package events pushes hero change notifications to websocket subscribers.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// FeedPath is appended to the collection path to reach the change feed.
const FeedPath = "/events"

// writeWait bounds each write so a stalled subscriber cannot hold up Publish.
var writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub fans hero events out to every connected websocket client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	logger  *slog.Logger
}

// NewHub returns an empty hub. A nil logger falls back to slog.Default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]bool),
		logger:  logger.With("component", "events"),
	}
}

// ServeWS upgrades the request and keeps the client registered until it disconnects.
// Anything the client sends is discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Clients reports how many subscribers are connected.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts evt. A client whose write fails or times out is
// disconnected; the others still receive the event.
func (h *Hub) Publish(evt models.HeroEvent) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		if err := c.send(evt); err != nil {
			h.logger.Debug("event delivery failed", "type", evt.Type, "err", err)
			_ = c.conn.Close()
		}
	}
}

// FeedURL turns an http(s) collection URL into the websocket feed URL.
func FeedURL(collectionURL string) string {
	u := strings.TrimRight(collectionURL, "/") + FeedPath
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// Subscribe connects to feedURL and calls fn for each event until ctx is done
// or the connection fails. A cancelled ctx is not an error.
func Subscribe(ctx context.Context, feedURL string, fn func(models.HeroEvent)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, feedURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", feedURL, err)
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	for {
		var evt models.HeroEvent
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() != nil || errors.Is(err, websocket.ErrCloseSent) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		fn(evt)
	}
}

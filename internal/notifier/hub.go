package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// FeedEvent is the JSON envelope pushed to feed subscribers.
type FeedEvent struct {
	Type     string `json:"type"`
	PlayerID int64  `json:"player_id"`
	Text     string `json:"text"`
	At       int64  `json:"at"`
}

// feedClient is one connected dashboard.
type feedClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans game notifications out to websocket subscribers. It is a read-only
// feed: inbound frames are discarded.
type Hub struct {
	clients    map[*feedClient]bool
	broadcast  chan []byte
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*feedClient]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

// Run is the hub event loop. It returns when ctx is cancelled, closing every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			log.Printf("[INFO] feed subscriber connected (%d total)", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow subscriber.
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Notify publishes text for chatID to every subscriber. It never blocks on a
// slow subscriber.
func (h *Hub) Notify(ctx context.Context, chatID int64, text string) error {
	b, err := json.Marshal(FeedEvent{Type: "notification", PlayerID: chatID, Text: text, At: time.Now().Unix()})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- b:
		return nil
	case <-h.done:
		return errors.New("feed hub stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and subscribes the connection to the feed.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] feed upgrade: %v", err)
		return
	}
	c := &feedClient{hub: h, conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *feedClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WARN] feed read: %v", err)
			}
			return
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Sink receives player notifications.
type Sink interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Fanout delivers each notification to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, chatID int64, text string) error {
	var errs []error
	for _, s := range f {
		if err := s.Notify(ctx, chatID, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

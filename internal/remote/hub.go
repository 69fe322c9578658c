// Package remote mirrors the viewer's frame changes to websocket clients and
// accepts playback commands from them.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer    = 16
	commandBuffer = 64
	writeWait     = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// checkOrigin accepts non-browser clients and pages served from this machine.
// Other web pages must not be able to drive playback.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// FrameMessage is sent to clients whenever the current frame changes.
type FrameMessage struct {
	Type       string `json:"type"`
	FrameIndex int    `json:"frame_index"`
	ClipIndex  int    `json:"clip_index"`
}

// StateMessage is sent to clients whenever playing or looping changes.
type StateMessage struct {
	Type    string `json:"type"`
	Playing bool   `json:"playing"`
	Looping bool   `json:"looping"`
}

// Command is a request from a client: "seek", "play" or "pause".
type Command struct {
	Type       string `json:"type"`
	FrameIndex int    `json:"frame_index"`
}

// Hub tracks connected clients. Publish methods never block; a slow client
// loses its oldest queued messages.
type Hub struct {
	mu        sync.Mutex
	clients   map[uuid.UUID]*client
	lastFrame []byte
	lastState []byte

	commands chan Command
	srv      *http.Server
	ln       net.Listener
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewHub creates a hub with no clients.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[uuid.UUID]*client),
		commands: make(chan Command, commandBuffer),
	}
}

// Handler returns the HTTP handler serving /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	return mux
}

// Start listens on addr and serves in the background.
func (h *Hub) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	h.ln = ln
	h.srv = &http.Server{Handler: h.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("remote: serve: %v", err)
		}
	}()
	log.Printf("remote: listening on %s", ln.Addr())
	return nil
}

// Addr returns the listening address, or "" when not started.
func (h *Hub) Addr() string {
	if h.ln == nil {
		return ""
	}
	return h.ln.Addr().String()
}

// Close stops the server and disconnects every client.
func (h *Hub) Close() {
	if h.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := h.srv.Shutdown(ctx); err != nil {
			log.Printf("remote: shutdown: %v", err)
		}
	}
	h.mu.Lock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.done)
		c.conn.Close()
	}
	h.mu.Unlock()
}

// Commands returns the channel of client commands. It is drained on the UI
// goroutine.
func (h *Hub) Commands() <-chan Command { return h.commands }

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishFrame sends a frame message to every client.
func (h *Hub) PublishFrame(frame, clip int) {
	data, _ := json.Marshal(FrameMessage{Type: "frame", FrameIndex: frame, ClipIndex: clip})
	h.mu.Lock()
	h.lastFrame = data
	h.broadcast(data)
	h.mu.Unlock()
}

// PublishState sends a state message to every client.
func (h *Hub) PublishState(playing, looping bool) {
	data, _ := json.Marshal(StateMessage{Type: "state", Playing: playing, Looping: looping})
	h.mu.Lock()
	h.lastState = data
	h.broadcast(data)
	h.mu.Unlock()
}

// broadcast must be called with h.mu held.
func (h *Hub) broadcast(data []byte) {
	for _, c := range h.clients {
		c.enqueue(data)
	}
}

// enqueue drops the oldest message when the buffer is full.
func (c *client) enqueue(data []byte) {
	for {
		select {
		case c.send <- data:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

// ServeWS upgrades the request and runs the client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("remote: upgrade: %v", err)
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	// New clients start from the latest known frame and state.
	if h.lastFrame != nil {
		c.enqueue(h.lastFrame)
	}
	if h.lastState != nil {
		c.enqueue(h.lastState)
	}
	h.mu.Unlock()
	log.Printf("remote: client %s connected", c.id)

	go c.writeLoop()
	h.readLoop(c)
	h.remove(c)
	log.Printf("remote: client %s disconnected", c.id)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.done)
	}
	h.mu.Unlock()
	c.conn.Close()
}

func (h *Hub) readLoop(c *client) {
	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Printf("remote: invalid message from %s: %v", c.id, err)
			continue
		}
		switch cmd.Type {
		case "seek", "play", "pause":
		default:
			log.Printf("remote: unknown command %q from %s", cmd.Type, c.id)
			continue
		}
		select {
		case h.commands <- cmd:
		default:
			log.Printf("remote: command queue full, dropping %q", cmd.Type)
		}
	}
}

func (c *client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("remote: write to %s: %v", c.id, err)
				c.conn.Close()
				return
			}
		}
	}
}

// Target is what remote commands act on.
type Target interface {
	SeekToFrame(i int)
	Play()
	Pause()
}

// Apply runs a client command against t.
func Apply(t Target, cmd Command) {
	switch cmd.Type {
	case "seek":
		t.SeekToFrame(cmd.FrameIndex)
	case "play":
		t.Play()
	case "pause":
		t.Pause()
	}
}

package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBuffer     = 16
	broadcastQueue = 256
)

// Server fans live events out to the viewers of each streamer. One room per
// streamer; the Start loop owns every room.
type Server struct {
	rooms      map[string]*Room
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	now        func() time.Time
}

type Client struct {
	ID     string
	RoomID string
	Conn   *websocket.Conn
	Server *Server
	Send   chan []byte
}

type Room struct {
	ID        string
	Clients   map[string]*Client
	CreatedAt time.Time
}

// Event is what viewers receive.
type Event struct {
	Type       string      `json:"type"`
	StreamerID string      `json:"streamerId"`
	Data       interface{} `json:"data"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func NewServer() *Server {
	return &Server{
		rooms:      make(map[string]*Room),
		broadcast:  make(chan *Event, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// Start runs the hub until ctx is done.
func (s *Server) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(s.done)
			s.closeAll()
			return

		case client := <-s.register:
			s.mu.Lock()
			room, ok := s.rooms[client.RoomID]
			if !ok {
				room = &Room{ID: client.RoomID, Clients: make(map[string]*Client), CreatedAt: s.now()}
				s.rooms[client.RoomID] = room
			}
			room.Clients[client.ID] = client
			s.mu.Unlock()

		case client := <-s.unregister:
			s.mu.Lock()
			s.drop(client)
			s.mu.Unlock()

		case event := <-s.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				utils.Errorf("Error marshaling live event %s: %v", event.Type, err)
				continue
			}

			s.mu.Lock()
			if room, ok := s.rooms[event.StreamerID]; ok {
				for _, client := range room.Clients {
					select {
					case client.Send <- data:
					default:
						utils.WithField("client", client.ID).Warn("Dropping slow live client")
						s.drop(client)
					}
				}
			}
			s.mu.Unlock()
		}
	}
}

// Publish queues an event for the viewers of streamerID. It never blocks: when
// the queue is full the event is dropped.
func (s *Server) Publish(streamerID uuid.UUID, eventType string, data interface{}) {
	event := &Event{
		Type:       eventType,
		StreamerID: streamerID.String(),
		Data:       data,
		CreatedAt:  s.now().UTC(),
	}
	select {
	case s.broadcast <- event:
	default:
		utils.WithField("type", eventType).Warn("Live event queue full, dropping event")
	}
}

func (s *Server) join(client *Client) bool {
	select {
	case s.register <- client:
		return true
	case <-s.done:
		return false
	}
}

func (s *Server) leave(client *Client) {
	select {
	case s.unregister <- client:
	case <-s.done:
	}
}

// RoomSize is the number of viewers connected to streamerID.
func (s *Server) RoomSize(streamerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if room, ok := s.rooms[streamerID]; ok {
		return len(room.Clients)
	}
	return 0
}

// drop must be called with mu held.
func (s *Server) drop(client *Client) {
	room, ok := s.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := room.Clients[client.ID]; !ok {
		return
	}
	delete(room.Clients, client.ID)
	close(client.Send)
	if len(room.Clients) == 0 {
		delete(s.rooms, room.ID)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		for _, client := range room.Clients {
			s.drop(client)
		}
	}
}

// ReadPump only watches for the connection closing; viewers send nothing.
func (c *Client) ReadPump() {
	defer func() {
		c.Server.leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				utils.Errorf("WebSocket read error: %v", err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package websocket

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionMessage struct {
	SessionID uuid.UUID
	Message   []byte
}

// Hub maintains the live preview clients of every studio session and fans
// session events out to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Events addressed to one session.
	unicast chan SessionMessage

	// Sessions whose clients must be disconnected.
	closeSession chan uuid.UUID

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Channel to signal termination
	stop     chan struct{}
	stopOnce sync.Once

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		unicast:      make(chan SessionMessage),
		closeSession: make(chan uuid.UUID),
		register:     make(chan *Client),
		unregister:   make(chan *Client),

		clients: make(map[*Client]bool),
		stop:    make(chan struct{}),
		log:     log.Named("websocket_hub"),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug("client registered", zap.String("addr", client.addr()), zap.String("session_id", client.sessionID.String()))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.log.Debug("client unregistered", zap.String("addr", client.addr()), zap.String("session_id", client.sessionID.String()))
			}
		case msg := <-h.unicast:
			for client := range h.clients {
				if client.sessionID != msg.SessionID {
					continue
				}
				select {
				case client.send <- msg.Message:
				default:
					// slow consumer
					h.drop(client)
				}
			}
		case id := <-h.closeSession:
			n := 0
			for client := range h.clients {
				if client.sessionID == id {
					h.drop(client)
					n++
				}
			}
			h.log.Debug("session clients closed", zap.String("session_id", id.String()), zap.Int("clients", n))
		case <-h.stop:
			h.log.Info("stopping hub", zap.Int("clients", len(h.clients)))
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

// SendToSession queues message for every client watching the session.
func (h *Hub) SendToSession(sessionID uuid.UUID, message []byte) {
	select {
	case h.unicast <- SessionMessage{SessionID: sessionID, Message: message}:
	case <-h.stop:
	}
}

// CloseSession disconnects every client watching the session.
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	select {
	case h.closeSession <- sessionID:
	case <-h.stop:
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}

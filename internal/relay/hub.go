package relay

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// MessageEvent is the wire payload fanned out to clients of a thread room.
type MessageEvent struct {
	ID        uuid.UUID `json:"id"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	ThreadID  uuid.UUID `json:"threadId"`
}

type Client struct {
	ID      string
	UserID  uuid.UUID
	Threads map[uuid.UUID]bool
	Send    chan []byte
}

// Hub fans message events out to clients grouped by thread room. It is fed
// by an explicit publish at the point of message creation; there is no
// storage-level change subscription. Membership checks happen at the
// endpoints before JoinThread is called, so the hub itself stays a dumb
// router.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	publish    chan *threadMessage
	done       chan struct{}
	mu         sync.RWMutex
}

type threadMessage struct {
	ThreadID uuid.UUID
	Event    Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan *threadMessage, 256),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.publish:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.Threads[msg.ThreadID] {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop terminates Run and disconnects all clients.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) JoinThread(clientID string, threadID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Threads[threadID] = true
	}
}

func (h *Hub) LeaveThread(clientID string, threadID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Threads, threadID)
	}
}

// PublishMessage delivers a new-message event to every client currently
// joined to the thread's room. Clients that join later do not receive it.
func (h *Hub) PublishMessage(threadID, messageID uuid.UUID, from, text string, createdAt time.Time) {
	h.publish <- &threadMessage{
		ThreadID: threadID,
		Event: Event{
			Type: "message:new",
			Data: MessageEvent{
				ID:        messageID,
				From:      from,
				Text:      text,
				CreatedAt: createdAt,
				ThreadID:  threadID,
			},
		},
	}
}

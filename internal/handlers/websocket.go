package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/websocket"
	"github.com/stefan/gigport-api/internal/relay"
)

// WebSocketHandler is the bidirectional alternative to the SSE stream. The
// token travels in the query string because browsers cannot set headers on a
// WebSocket handshake.
type WebSocketHandler struct {
	hub           HubInterface
	threadService ThreadServiceInterface
	jwtService    JWTServiceInterface
}

func NewWebSocketHandler(hub HubInterface, threadService ThreadServiceInterface, jwtService JWTServiceInterface) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		threadService: threadService,
		jwtService:    jwtService,
	}
}

type wsCommand struct {
	Action   string `json:"action"`
	ThreadID string `json:"thread_id"`
}

func (h *WebSocketHandler) Connect(c *drift.Context) {
	token := c.Request.URL.Query().Get("token")
	if token == "" {
		c.Unauthorized("token is required")
		return
	}

	claims, err := h.jwtService.ValidateAccessToken(token)
	if err != nil {
		c.Unauthorized("invalid or expired token")
		return
	}

	conn, err := websocket.Upgrade(c)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(websocket.CloseNormalClosure, ""); err != nil {
			log.Printf("WebSocket close error: %v", err)
		}
	}()

	clientID := uuid.New().String()
	client := &relay.Client{
		ID:      clientID,
		UserID:  claims.UserID,
		Threads: make(map[uuid.UUID]bool),
		Send:    make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := conn.WriteJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}); err != nil {
		return
	}

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for msg := range client.Send {
			if err := conn.WriteText(string(msg)); err != nil {
				return
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			_ = conn.WriteJSON(map[string]string{"type": "error", "message": "invalid command"})
			continue
		}

		threadID, err := uuid.Parse(cmd.ThreadID)
		if err != nil {
			_ = conn.WriteJSON(map[string]string{"type": "error", "message": "invalid thread id"})
			continue
		}

		switch cmd.Action {
		case "join":
			ok, err := h.threadService.IsParticipant(context.Background(), threadID, claims.UserID)
			if err != nil || !ok {
				_ = conn.WriteJSON(map[string]string{"type": "error", "message": "thread not found"})
				continue
			}
			h.hub.JoinThread(clientID, threadID)
			_ = conn.WriteJSON(map[string]string{"type": "joined", "thread_id": threadID.String()})
		case "leave":
			h.hub.LeaveThread(clientID, threadID)
			_ = conn.WriteJSON(map[string]string{"type": "left", "thread_id": threadID.String()})
		default:
			_ = conn.WriteJSON(map[string]string{"type": "error", "message": "unknown action"})
		}
	}
}

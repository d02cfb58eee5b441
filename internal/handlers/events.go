package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefan/gigport-api/internal/middleware"
	"github.com/stefan/gigport-api/internal/relay"
)

// EventsHandler streams thread rooms over SSE. Room membership is checked
// against the thread's participant list when the stream opens and on every
// later join, never retroactively.
type EventsHandler struct {
	hub           HubInterface
	threadService ThreadServiceInterface
}

func NewEventsHandler(hub HubInterface, threadService ThreadServiceInterface) *EventsHandler {
	return &EventsHandler{hub: hub, threadService: threadService}
}

func (h *EventsHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	threadID, err := uuid.Parse(c.Param("threadId"))
	if err != nil {
		c.BadRequest("invalid thread id")
		return
	}

	ok, err := h.threadService.IsParticipant(context.Background(), threadID, userID)
	if err != nil || !ok {
		c.NotFound("thread not found")
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &relay.Client{
		ID:      clientID,
		UserID:  userID,
		Threads: map[uuid.UUID]bool{threadID: true},
		Send:    make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// Join adds an existing SSE client to another thread room. The participant
// check runs here so a connection can never listen in on a thread its user
// does not belong to.
func (h *EventsHandler) Join(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	threadID, err := uuid.Parse(c.Param("threadId"))
	if err != nil {
		c.BadRequest("invalid thread id")
		return
	}

	ok, err := h.threadService.IsParticipant(context.Background(), threadID, userID)
	if err != nil || !ok {
		c.NotFound("thread not found")
		return
	}

	h.hub.JoinThread(clientID, threadID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("joined thread %s", threadID),
	})
}

func (h *EventsHandler) Leave(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	threadID, err := uuid.Parse(c.Param("threadId"))
	if err != nil {
		c.BadRequest("invalid thread id")
		return
	}

	h.hub.LeaveThread(clientID, threadID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("left thread %s", threadID),
	})
}

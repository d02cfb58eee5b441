package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefan/gigport-api/internal/middleware"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stefan/gigport-api/internal/services"
	"github.com/stefan/gigport-api/pkg/dto"
)

type ThreadHandler struct {
	threadService ThreadServiceInterface
	hub           HubInterface
}

func NewThreadHandler(threadService ThreadServiceInterface, hub HubInterface) *ThreadHandler {
	return &ThreadHandler{threadService: threadService, hub: hub}
}

func (h *ThreadHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	threads, previews, err := h.threadService.ListForUser(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get threads")
		return
	}

	response := make([]dto.ThreadResponse, len(threads))
	for i := range threads {
		t := &threads[i]
		response[i] = dto.ThreadResponse{
			ID:              t.ID,
			ListingID:       t.ListingID,
			ParticipantName: t.ParticipantName,
			ParticipantRole: t.ParticipantRole,
			ListingTitle:    t.ListingTitle,
			LastActive:      t.LastActive,
			LastMessageText: previews[i],
		}
	}

	_ = c.JSON(200, response)
}

func (h *ThreadHandler) Get(c *drift.Context) {
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

	thread, messages, err := h.threadService.GetWithMessages(context.Background(), threadID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrThreadNotFound):
			c.NotFound("thread not found")
		case errors.Is(err, services.ErrNotThreadParticipant):
			c.Forbidden("not a participant of this thread")
		default:
			c.InternalServerError("failed to get thread")
		}
		return
	}

	response := dto.ThreadDetailResponse{
		ID:              thread.ID,
		ListingID:       thread.ListingID,
		ParticipantName: thread.ParticipantName,
		ParticipantRole: thread.ParticipantRole,
		ListingTitle:    thread.ListingTitle,
		Messages:        make([]dto.MessageResponse, len(messages)),
	}
	for i := range messages {
		response.Messages[i] = messageResponse(&messages[i])
	}

	_ = c.JSON(200, response)
}

// PostMessage appends a message and fans it out to clients joined to the
// thread's room.
func (h *ThreadHandler) PostMessage(c *drift.Context) {
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

	var req dto.PostMessageRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		c.BadRequest("text is required")
		return
	}

	msg, err := h.threadService.PostMessage(context.Background(), threadID, userID, middleware.GetUserName(c), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrThreadNotFound):
			c.NotFound("thread not found")
		case errors.Is(err, services.ErrNotThreadParticipant):
			c.Forbidden("not a participant of this thread")
		default:
			c.InternalServerError("failed to post message")
		}
		return
	}

	h.hub.PublishMessage(msg.ThreadID, msg.ID, msg.SenderName, msg.Text, msg.CreatedAt)

	_ = c.JSON(201, messageResponse(msg))
}

// Start opens (or reuses) the discussion thread for a proposal before any
// award decision.
func (h *ThreadHandler) Start(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	proposalID, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		c.BadRequest("invalid proposal id")
		return
	}

	thread, msg, err := h.threadService.StartForProposal(context.Background(), proposalID, userID, middleware.GetUserName(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProposalNotFound):
			c.NotFound("proposal not found")
		case errors.Is(err, services.ErrNotThreadParticipant):
			c.Forbidden("only the client or the freelancer can start this thread")
		default:
			c.InternalServerError("failed to start thread")
		}
		return
	}

	if msg != nil {
		h.hub.PublishMessage(thread.ID, msg.ID, msg.SenderName, msg.Text, msg.CreatedAt)
	}

	_ = c.JSON(200, dto.StartThreadResponse{ThreadID: thread.ID})
}

func messageResponse(m *models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        m.ID,
		From:      m.SenderName,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type ThreadResponse struct {
	ID              uuid.UUID `json:"id"`
	ListingID       uuid.UUID `json:"listing_id"`
	ParticipantName string    `json:"participant_name"`
	ParticipantRole string    `json:"participant_role"`
	ListingTitle    string    `json:"listing_title"`
	LastActive      time.Time `json:"last_active"`
	LastMessageText string    `json:"last_message_text,omitempty"`
}

type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ThreadDetailResponse struct {
	ID              uuid.UUID         `json:"id"`
	ListingID       uuid.UUID         `json:"listing_id"`
	ParticipantName string            `json:"participant_name"`
	ParticipantRole string            `json:"participant_role"`
	ListingTitle    string            `json:"listing_title"`
	Messages        []MessageResponse `json:"messages"`
}

type PostMessageRequest struct {
	Text string `json:"text"`
}

type StartThreadResponse struct {
	ThreadID uuid.UUID `json:"thread_id"`
}

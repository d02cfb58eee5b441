package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MessageThread struct {
	ID             uuid.UUID   `json:"id"`
	ListingID      uuid.UUID   `json:"listing_id"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	ParticipantKey string      `json:"-"`
	// Denormalized display fields for thread list cards.
	ParticipantName string    `json:"participant_name"`
	ParticipantRole string    `json:"participant_role"`
	ListingTitle    string    `json:"listing_title"`
	LastActive      time.Time `json:"last_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (t *MessageThread) HasParticipant(userID uuid.UUID) bool {
	for _, id := range t.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ThreadParticipantKey derives the canonical key for a participant set:
// sorted ids joined with ":". The database enforces uniqueness of
// (listing_id, participant_key), which is what makes find-or-create safe
// under concurrent awards and invites.
func ThreadParticipantKey(participantIDs []uuid.UUID) string {
	ids := make([]string, len(participantIDs))
	for i, id := range participantIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

// Message is immutable once created; there is no edit or delete.
type Message struct {
	ID         uuid.UUID `json:"id"`
	ThreadID   uuid.UUID `json:"thread_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitProposalRequest struct {
	CoverLetter  string  `json:"cover_letter"`
	RateType     string  `json:"rate_type"`
	RateAmount   float64 `json:"rate_amount"`
	Availability string  `json:"availability,omitempty"`
}

type ProposalResponse struct {
	ID             uuid.UUID `json:"id"`
	ListingID      uuid.UUID `json:"listing_id"`
	ListingTitle   string    `json:"listing_title,omitempty"`
	ListingStatus  string    `json:"listing_status,omitempty"`
	FreelancerID   uuid.UUID `json:"freelancer_id"`
	FreelancerName string    `json:"freelancer_name"`
	CoverLetter    string    `json:"cover_letter"`
	RateType       string    `json:"rate_type"`
	RateAmount     float64   `json:"rate_amount"`
	Availability   string    `json:"availability"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListingProposalsResponse struct {
	Listing   ListingResponse    `json:"listing"`
	Proposals []ProposalResponse `json:"proposals"`
}

type AwardResponse struct {
	ThreadID      uuid.UUID        `json:"thread_id"`
	ThreadCreated bool             `json:"thread_created"`
	Proposal      ProposalResponse `json:"proposal"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Proposal statuses. pending -> accepted (via award) and pending -> rejected
// (sibling rejection during another proposal's award) are both terminal.
const (
	ProposalStatusPending  = "pending"
	ProposalStatusAccepted = "accepted"
	ProposalStatusRejected = "rejected"
)

type Proposal struct {
	ID           uuid.UUID `json:"id"`
	ListingID    uuid.UUID `json:"listing_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	// Denormalized display fallback when the freelancer row is not joined.
	FreelancerName string    `json:"freelancer_name"`
	CoverLetter    string    `json:"cover_letter"`
	RateType       string    `json:"rate_type"`
	RateAmount     float64   `json:"rate_amount"`
	Availability   string    `json:"availability"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Listing *Listing `json:"listing,omitempty"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateListingRequest struct {
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	BudgetType   string     `json:"budget_type"`
	BudgetAmount float64    `json:"budget_amount"`
	Level        string     `json:"level,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

type UpdateListingStatusRequest struct {
	Status string `json:"status"`
}

type ListingResponse struct {
	ID             uuid.UUID  `json:"id"`
	Kind           string     `json:"kind"`
	Title          string     `json:"title"`
	Level          string     `json:"level"`
	Budget         string     `json:"budget"`
	Tags           []string   `json:"tags"`
	Status         string     `json:"status"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ProposalsCount *int       `json:"proposals_count,omitempty"`
}

type ListingClient struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ListingDetailResponse struct {
	ID           uuid.UUID     `json:"id"`
	Kind         string        `json:"kind"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	BudgetType   string        `json:"budget_type"`
	BudgetAmount float64       `json:"budget_amount"`
	Budget       string        `json:"budget"`
	Level        string        `json:"level"`
	Tags         []string      `json:"tags"`
	Client       ListingClient `json:"client"`
	Status       string        `json:"status"`
	Deadline     *time.Time    `json:"deadline,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

type ListingSearchResponse struct {
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Total      int               `json:"total"`
	Listings   []ListingResponse `json:"listings"`
}

type AssignedListingResponse struct {
	ProposalID uuid.UUID        `json:"proposal_id"`
	ListingID  uuid.UUID        `json:"listing_id"`
	Title      string           `json:"title"`
	Budget     string           `json:"budget"`
	Status     string           `json:"status"`
	Deadline   *time.Time       `json:"deadline,omitempty"`
	AwardedAt  time.Time        `json:"awarded_at"`
	Proposal   ProposalResponse `json:"proposal"`
}

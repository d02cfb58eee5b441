package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Listing kinds. Jobs and projects share one schema with a kind discriminant.
const (
	ListingKindJob     = "job"
	ListingKindProject = "project"
)

const (
	BudgetHourly = "hourly"
	BudgetFixed  = "fixed"
)

// Listing statuses. Transitions only move forward: open -> in_progress
// (on award), and open/in_progress -> completed|closed (administrative).
const (
	ListingStatusOpen       = "open"
	ListingStatusInProgress = "in_progress"
	ListingStatusCompleted  = "completed"
	ListingStatusClosed     = "closed"
)

type Listing struct {
	ID           uuid.UUID  `json:"id"`
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	BudgetType   string     `json:"budget_type"`
	BudgetAmount float64    `json:"budget_amount"`
	Level        string     `json:"level"`
	Tags         []string   `json:"tags"`
	ClientID     uuid.UUID  `json:"client_id"`
	ClientName   string     `json:"client_name"`
	Status       string     `json:"status"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func ValidListingKind(kind string) bool {
	return kind == ListingKindJob || kind == ListingKindProject
}

func ValidBudgetType(budgetType string) bool {
	return budgetType == BudgetHourly || budgetType == BudgetFixed
}

func TerminalListingStatus(status string) bool {
	return status == ListingStatusCompleted || status == ListingStatusClosed
}

// BudgetDisplay renders the budget the way listing cards show it.
func (l *Listing) BudgetDisplay() string {
	if l.BudgetType == BudgetHourly {
		return fmt.Sprintf("$%g/hr", l.BudgetAmount)
	}
	return fmt.Sprintf("$%g", l.BudgetAmount)
}

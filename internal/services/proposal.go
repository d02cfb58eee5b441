package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/models"
)

var (
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrDuplicateProposal = errors.New("freelancer already submitted a proposal for this listing")
)

type ProposalService struct {
	db *database.DB
	// allowMultiple relaxes the one-proposal-per-listing-per-freelancer rule.
	allowMultiple bool
}

func NewProposalService(db *database.DB, allowMultiple bool) *ProposalService {
	return &ProposalService{db: db, allowMultiple: allowMultiple}
}

type SubmitProposalInput struct {
	CoverLetter  string
	RateType     string
	RateAmount   float64
	Availability string
}

const proposalColumns = `id, listing_id, freelancer_id, freelancer_name, cover_letter, rate_type, rate_amount, availability, status, created_at, updated_at`

func scanProposal(row pgx.Row, p *models.Proposal) error {
	return row.Scan(
		&p.ID, &p.ListingID, &p.FreelancerID, &p.FreelancerName, &p.CoverLetter,
		&p.RateType, &p.RateAmount, &p.Availability, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (s *ProposalService) Submit(ctx context.Context, listingID, freelancerID uuid.UUID, freelancerName string, in SubmitProposalInput) (*models.Proposal, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)
	`, listingID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrListingNotFound
	}

	if !s.allowMultiple {
		var duplicate bool
		err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM proposals WHERE listing_id = $1 AND freelancer_id = $2)
		`, listingID, freelancerID).Scan(&duplicate)
		if err != nil {
			return nil, err
		}
		if duplicate {
			return nil, ErrDuplicateProposal
		}
	}

	if in.Availability == "" {
		in.Availability = "Full-time"
	}

	var proposal models.Proposal
	err = scanProposal(s.db.Pool.QueryRow(ctx, `
		INSERT INTO proposals (listing_id, freelancer_id, freelancer_name, cover_letter, rate_type, rate_amount, availability, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+proposalColumns+`
	`, listingID, freelancerID, freelancerName, in.CoverLetter,
		in.RateType, in.RateAmount, in.Availability, models.ProposalStatusPending,
	), &proposal)
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	return &proposal, nil
}

// ListForListing returns a listing's proposals newest first. The ownership
// check lives at the handler boundary.
func (s *ProposalService) ListForListing(ctx context.Context, listingID uuid.UUID) ([]models.Proposal, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+proposalColumns+` FROM proposals
		WHERE listing_id = $1
		ORDER BY created_at DESC
	`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProposals(rows)
}

// ListForFreelancer returns the freelancer's own proposals newest first, with
// the parent listing's title and status joined in for list cards.
func (s *ProposalService) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT p.id, p.listing_id, p.freelancer_id, p.freelancer_name, p.cover_letter,
		       p.rate_type, p.rate_amount, p.availability, p.status, p.created_at, p.updated_at,
		       l.title, l.status, l.budget_type, l.budget_amount
		FROM proposals p
		JOIN listings l ON p.listing_id = l.id
		WHERE p.freelancer_id = $1
		ORDER BY p.created_at DESC
	`, freelancerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		var p models.Proposal
		var l models.Listing
		if err := rows.Scan(
			&p.ID, &p.ListingID, &p.FreelancerID, &p.FreelancerName, &p.CoverLetter,
			&p.RateType, &p.RateAmount, &p.Availability, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&l.Title, &l.Status, &l.BudgetType, &l.BudgetAmount,
		); err != nil {
			return nil, err
		}
		l.ID = p.ListingID
		p.Listing = &l
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

func (s *ProposalService) GetByID(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	var l models.Listing
	err := s.db.Pool.QueryRow(ctx, `
		SELECT p.id, p.listing_id, p.freelancer_id, p.freelancer_name, p.cover_letter,
		       p.rate_type, p.rate_amount, p.availability, p.status, p.created_at, p.updated_at,
		       `+prefixedListingColumns("l")+`
		FROM proposals p
		JOIN listings l ON p.listing_id = l.id
		WHERE p.id = $1
	`, proposalID).Scan(
		&p.ID, &p.ListingID, &p.FreelancerID, &p.FreelancerName, &p.CoverLetter,
		&p.RateType, &p.RateAmount, &p.Availability, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&l.ID, &l.Kind, &l.Title, &l.Description, &l.BudgetType, &l.BudgetAmount,
		&l.Level, &l.Tags, &l.ClientID, &l.ClientName, &l.Status, &l.Deadline,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, ErrProposalNotFound
	}
	p.Listing = &l
	return &p, nil
}

func collectProposals(rows pgx.Rows) ([]models.Proposal, error) {
	var proposals []models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err := scanProposal(rows, &p); err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

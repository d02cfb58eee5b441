package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/models"
)

var (
	// ErrListingGone means the proposal's parent listing no longer exists.
	ErrListingGone = errors.New("proposal has no associated listing")
	// ErrListingNotOpen means the listing already left the open state, either
	// through a prior award or an administrative close.
	ErrListingNotOpen = errors.New("listing is not open for awarding")
)

// AwardService coordinates the award of a proposal: the target proposal is
// accepted, its siblings rejected, the listing moved to in_progress, and a
// messaging thread registered between client and freelancer. All of it runs
// in a single transaction so a concurrent reader never observes a partial
// award and two racing awards cannot both win.
type AwardService struct {
	db *database.DB
}

func NewAwardService(db *database.DB) *AwardService {
	return &AwardService{db: db}
}

// AwardResult reports what the award produced. Message is nil when the call
// was an idempotent re-award of an already accepted proposal.
type AwardResult struct {
	Proposal      *models.Proposal
	Thread        *models.MessageThread
	ThreadCreated bool
	Message       *models.Message
}

func (s *AwardService) Award(ctx context.Context, proposalID, actingUserID uuid.UUID) (*AwardResult, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var proposal models.Proposal
	err = tx.QueryRow(ctx, `
		SELECT id, listing_id, freelancer_id, freelancer_name, status
		FROM proposals WHERE id = $1
	`, proposalID).Scan(
		&proposal.ID, &proposal.ListingID, &proposal.FreelancerID,
		&proposal.FreelancerName, &proposal.Status,
	)
	if err != nil {
		return nil, ErrProposalNotFound
	}

	var listing models.Listing
	err = tx.QueryRow(ctx, `
		SELECT id, title, client_id, client_name, status
		FROM listings WHERE id = $1
	`, proposal.ListingID).Scan(
		&listing.ID, &listing.Title, &listing.ClientID, &listing.ClientName, &listing.Status,
	)
	if err != nil {
		return nil, ErrListingGone
	}

	if listing.ClientID != actingUserID {
		return nil, ErrNotListingOwner
	}

	participants := []uuid.UUID{listing.ClientID, proposal.FreelancerID}
	display := ThreadDisplay{
		ParticipantName: proposal.FreelancerName,
		ParticipantRole: "Freelancer",
		ListingTitle:    listing.Title,
	}

	// Re-awarding an accepted proposal is a no-op: the thread is returned
	// but siblings are not re-rejected and no message is posted.
	if proposal.Status == models.ProposalStatusAccepted {
		thread, created, err := findOrCreateThread(ctx, tx, listing.ID, participants, display)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &AwardResult{Proposal: &proposal, Thread: thread, ThreadCreated: created}, nil
	}

	// Compare-and-swap on the listing status gates the whole award: of two
	// racing award calls only one finds the listing still open.
	tag, err := tx.Exec(ctx, `
		UPDATE listings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.ListingStatusInProgress, listing.ID, models.ListingStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrListingNotOpen
	}

	_, err = tx.Exec(ctx, `
		UPDATE proposals SET status = $1, updated_at = NOW()
		WHERE listing_id = $2 AND id <> $3 AND status = $4
	`, models.ProposalStatusRejected, listing.ID, proposal.ID, models.ProposalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to reject sibling proposals: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE proposals SET status = $1, updated_at = NOW() WHERE id = $2
	`, models.ProposalStatusAccepted, proposal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to accept proposal: %w", err)
	}
	proposal.Status = models.ProposalStatusAccepted

	thread, created, err := findOrCreateThread(ctx, tx, listing.ID, participants, display)
	if err != nil {
		return nil, err
	}

	var text string
	if created {
		text = fmt.Sprintf("Hi %s, your proposal has been accepted for %q. Let's discuss next steps.",
			proposal.FreelancerName, listing.Title)
	} else {
		text = fmt.Sprintf("The client has awarded %q.", listing.Title)
	}

	msg, err := insertMessage(ctx, tx, thread.ID, actingUserID, listing.ClientName, text)
	if err != nil {
		return nil, err
	}

	if !created {
		_, err = tx.Exec(ctx, `
			UPDATE message_threads SET last_active = $1, updated_at = NOW() WHERE id = $2
		`, msg.CreatedAt, thread.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update thread activity: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &AwardResult{
		Proposal:      &proposal,
		Thread:        thread,
		ThreadCreated: created,
		Message:       msg,
	}, nil
}

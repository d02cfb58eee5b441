package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProposalService(t *testing.T, allowMultiple bool) (*ProposalService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewProposalService(db, allowMultiple), mock
}

func proposalRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "listing_id", "freelancer_id", "freelancer_name", "cover_letter",
		"rate_type", "rate_amount", "availability", "status", "created_at", "updated_at",
	})
}

func TestProposalService_Submit(t *testing.T) {
	svc, mock := setupProposalService(t, false)
	ctx := context.Background()
	listingID := uuid.New()
	freelancerID := uuid.New()
	proposalID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM listings`).
		WithArgs(listingID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM proposals`).
		WithArgs(listingID, freelancerID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectQuery(`INSERT INTO proposals`).
		WithArgs(listingID, freelancerID, "Freda Lancer", "I can do this",
			models.BudgetFixed, 900.0, "Full-time", models.ProposalStatusPending).
		WillReturnRows(proposalRows().AddRow(
			proposalID, listingID, freelancerID, "Freda Lancer", "I can do this",
			models.BudgetFixed, 900.0, "Full-time", models.ProposalStatusPending, now, now))

	proposal, err := svc.Submit(ctx, listingID, freelancerID, "Freda Lancer", SubmitProposalInput{
		CoverLetter: "I can do this",
		RateType:    models.BudgetFixed,
		RateAmount:  900,
	})

	require.NoError(t, err)
	assert.Equal(t, proposalID, proposal.ID)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
	assert.Equal(t, "Full-time", proposal.Availability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_Submit_Duplicate(t *testing.T) {
	svc, mock := setupProposalService(t, false)
	ctx := context.Background()
	listingID := uuid.New()
	freelancerID := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM listings`).
		WithArgs(listingID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM proposals`).
		WithArgs(listingID, freelancerID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Submit(ctx, listingID, freelancerID, "Freda Lancer", SubmitProposalInput{
		CoverLetter: "again",
		RateType:    models.BudgetFixed,
		RateAmount:  900,
	})

	assert.ErrorIs(t, err, ErrDuplicateProposal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_Submit_AllowMultiple(t *testing.T) {
	svc, mock := setupProposalService(t, true)
	ctx := context.Background()
	listingID := uuid.New()
	freelancerID := uuid.New()
	proposalID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM listings`).
		WithArgs(listingID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	// No duplicate check when multiple proposals are allowed.
	mock.ExpectQuery(`INSERT INTO proposals`).
		WithArgs(listingID, freelancerID, "Freda Lancer", "second try",
			models.BudgetHourly, 45.0, "Part-time", models.ProposalStatusPending).
		WillReturnRows(proposalRows().AddRow(
			proposalID, listingID, freelancerID, "Freda Lancer", "second try",
			models.BudgetHourly, 45.0, "Part-time", models.ProposalStatusPending, now, now))

	proposal, err := svc.Submit(ctx, listingID, freelancerID, "Freda Lancer", SubmitProposalInput{
		CoverLetter:  "second try",
		RateType:     models.BudgetHourly,
		RateAmount:   45,
		Availability: "Part-time",
	})

	require.NoError(t, err)
	assert.Equal(t, proposalID, proposal.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_Submit_ListingNotFound(t *testing.T) {
	svc, mock := setupProposalService(t, false)
	ctx := context.Background()
	listingID := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM listings`).
		WithArgs(listingID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := svc.Submit(ctx, listingID, uuid.New(), "Freda Lancer", SubmitProposalInput{
		CoverLetter: "hello",
		RateType:    models.BudgetFixed,
		RateAmount:  900,
	})

	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_ListForListing(t *testing.T) {
	svc, mock := setupProposalService(t, false)
	ctx := context.Background()
	listingID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM proposals`).
		WithArgs(listingID).
		WillReturnRows(proposalRows().
			AddRow(uuid.New(), listingID, uuid.New(), "Freda Lancer", "newest",
				models.BudgetFixed, 900.0, "Full-time", models.ProposalStatusPending, now, now).
			AddRow(uuid.New(), listingID, uuid.New(), "Frank Lancer", "older",
				models.BudgetHourly, 40.0, "Part-time", models.ProposalStatusPending, now.Add(-time.Hour), now.Add(-time.Hour)))

	proposals, err := svc.ListForListing(ctx, listingID)

	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, "newest", proposals[0].CoverLetter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_ListForFreelancer(t *testing.T) {
	svc, mock := setupProposalService(t, false)
	ctx := context.Background()
	freelancerID := uuid.New()
	listingID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM proposals p`).
		WithArgs(freelancerID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "listing_id", "freelancer_id", "freelancer_name", "cover_letter",
			"rate_type", "rate_amount", "availability", "status", "created_at", "updated_at",
			"title", "l_status", "budget_type", "budget_amount",
		}).AddRow(uuid.New(), listingID, freelancerID, "Freda Lancer", "mine",
			models.BudgetFixed, 900.0, "Full-time", models.ProposalStatusPending, now, now,
			"Build API", models.ListingStatusOpen, models.BudgetFixed, 1000.0))

	proposals, err := svc.ListForFreelancer(ctx, freelancerID)

	require.NoError(t, err)
	require.Len(t, proposals, 1)
	require.NotNil(t, proposals[0].Listing)
	assert.Equal(t, "Build API", proposals[0].Listing.Title)
	assert.Equal(t, listingID, proposals[0].Listing.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupProposalService(t, false)
	ctx := context.Background()
	proposalID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM proposals p`).
		WithArgs(proposalID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(ctx, proposalID)

	assert.ErrorIs(t, err, ErrProposalNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

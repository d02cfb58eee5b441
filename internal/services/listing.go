package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/models"
)

var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrNotListingOwner   = errors.New("acting user does not own this listing")
	ErrInvalidTransition = errors.New("invalid listing status transition")
)

type ListingService struct {
	db *database.DB
}

func NewListingService(db *database.DB) *ListingService {
	return &ListingService{db: db}
}

type CreateListingInput struct {
	Kind         string
	Title        string
	Description  string
	BudgetType   string
	BudgetAmount float64
	Level        string
	Tags         []string
	Deadline     *time.Time
}

const listingColumns = `id, kind, title, description, budget_type, budget_amount, level, tags, client_id, client_name, status, deadline, created_at, updated_at`

func scanListing(row pgx.Row, l *models.Listing) error {
	return row.Scan(
		&l.ID, &l.Kind, &l.Title, &l.Description, &l.BudgetType, &l.BudgetAmount,
		&l.Level, &l.Tags, &l.ClientID, &l.ClientName, &l.Status, &l.Deadline,
		&l.CreatedAt, &l.UpdatedAt,
	)
}

func (s *ListingService) Create(ctx context.Context, clientID uuid.UUID, clientName string, in CreateListingInput) (*models.Listing, error) {
	if in.Level == "" {
		in.Level = "Intermediate"
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}

	var listing models.Listing
	err := scanListing(s.db.Pool.QueryRow(ctx, `
		INSERT INTO listings (kind, title, description, budget_type, budget_amount, level, tags, client_id, client_name, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+listingColumns+`
	`, in.Kind, in.Title, in.Description, in.BudgetType, in.BudgetAmount,
		in.Level, in.Tags, clientID, clientName, models.ListingStatusOpen, in.Deadline,
	), &listing)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return &listing, nil
}

func (s *ListingService) GetByID(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := scanListing(s.db.Pool.QueryRow(ctx, `
		SELECT `+listingColumns+` FROM listings WHERE id = $1
	`, listingID), &listing)
	if err != nil {
		return nil, ErrListingNotFound
	}
	return &listing, nil
}

func (s *ListingService) List(ctx context.Context) ([]models.Listing, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// Explore returns listings not posted by the given user, newest first.
func (s *ListingService) Explore(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+listingColumns+` FROM listings
		WHERE client_id <> $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// ListForClient returns the client's own listings newest first, along with a
// parallel slice of proposal counts.
func (s *ListingService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Listing, []int, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+prefixedListingColumns("l")+`,
		       (SELECT COUNT(*) FROM proposals p WHERE p.listing_id = l.id) AS proposals_count
		FROM listings l
		WHERE l.client_id = $1
		ORDER BY l.created_at DESC
	`, clientID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	var counts []int
	for rows.Next() {
		var l models.Listing
		var count int
		if err := rows.Scan(
			&l.ID, &l.Kind, &l.Title, &l.Description, &l.BudgetType, &l.BudgetAmount,
			&l.Level, &l.Tags, &l.ClientID, &l.ClientName, &l.Status, &l.Deadline,
			&l.CreatedAt, &l.UpdatedAt, &count,
		); err != nil {
			return nil, nil, err
		}
		listings = append(listings, l)
		counts = append(counts, count)
	}
	return listings, counts, rows.Err()
}

// ListAssigned returns the freelancer's accepted proposals with their parent
// listings, most recently awarded first.
func (s *ListingService) ListAssigned(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT p.id, p.listing_id, p.freelancer_id, p.freelancer_name, p.cover_letter,
		       p.rate_type, p.rate_amount, p.availability, p.status, p.created_at, p.updated_at,
		       `+prefixedListingColumns("l")+`
		FROM proposals p
		JOIN listings l ON p.listing_id = l.id
		WHERE p.freelancer_id = $1 AND p.status = $2
		ORDER BY p.updated_at DESC
	`, freelancerID, models.ProposalStatusAccepted)
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
			&l.ID, &l.Kind, &l.Title, &l.Description, &l.BudgetType, &l.BudgetAmount,
			&l.Level, &l.Tags, &l.ClientID, &l.ClientName, &l.Status, &l.Deadline,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Listing = &l
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

type ListingSearchParams struct {
	Query      string
	Tags       []string
	Level      string
	Kind       string
	BudgetType string
	MinBudget  *float64
	MaxBudget  *float64
	Status     string
	Sort       string // "latest" or "budget"
	Page       int
	Limit      int
}

// Search filters listings and returns one page plus the total match count.
func (s *ListingService) Search(ctx context.Context, params ListingSearchParams) ([]models.Listing, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 10
	}
	if params.Status == "" {
		params.Status = models.ListingStatusOpen
	}

	conditions := []string{"status = $1"}
	args := []any{params.Status}

	if params.Query != "" {
		args = append(args, "%"+params.Query+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if len(params.Tags) > 0 {
		args = append(args, params.Tags)
		conditions = append(conditions, fmt.Sprintf("tags && $%d", len(args)))
	}
	if params.Level != "" {
		args = append(args, params.Level)
		conditions = append(conditions, fmt.Sprintf("level = $%d", len(args)))
	}
	if params.Kind != "" {
		args = append(args, params.Kind)
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)))
	}
	if params.BudgetType != "" {
		args = append(args, params.BudgetType)
		conditions = append(conditions, fmt.Sprintf("budget_type = $%d", len(args)))
	}
	if params.MinBudget != nil {
		args = append(args, *params.MinBudget)
		conditions = append(conditions, fmt.Sprintf("budget_amount >= $%d", len(args)))
	}
	if params.MaxBudget != nil {
		args = append(args, *params.MaxBudget)
		conditions = append(conditions, fmt.Sprintf("budget_amount <= $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	if params.Sort == "budget" {
		orderBy = "budget_amount DESC"
	}

	offset := (params.Page - 1) * params.Limit
	args = append(args, params.Limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		listingColumns, where, orderBy, len(args)-1, len(args))

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	listings, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// UpdateStatus applies an administrative transition. Only the owner may close
// or complete a listing, and only from a non-terminal status; the guarded
// UPDATE keeps a concurrent award or close from moving the listing backward.
func (s *ListingService) UpdateStatus(ctx context.Context, listingID, actingUserID uuid.UUID, newStatus string) (*models.Listing, error) {
	if !models.TerminalListingStatus(newStatus) {
		return nil, ErrInvalidTransition
	}

	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.ClientID != actingUserID {
		return nil, ErrNotListingOwner
	}
	if models.TerminalListingStatus(listing.Status) {
		return nil, ErrInvalidTransition
	}

	var updated models.Listing
	err = scanListing(s.db.Pool.QueryRow(ctx, `
		UPDATE listings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+listingColumns+`
	`, newStatus, listingID, listing.Status), &updated)
	if err != nil {
		return nil, ErrInvalidTransition
	}
	return &updated, nil
}

func collectListings(rows pgx.Rows) ([]models.Listing, error) {
	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func prefixedListingColumns(alias string) string {
	cols := strings.Split(listingColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

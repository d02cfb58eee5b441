package testutil

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values. The password is always
// "password123" unless overridden with WithPassword.
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", f.counter),
		FullName: fmt.Sprintf("Test User %d", f.counter),
		Role:     models.RoleClient,
	}
	password := "password123"

	for _, opt := range opts {
		opt(user, &password)
	}

	// MinCost keeps fixture creation fast; these hashes never leave the test DB.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, full_name, password_hash, role, created_at, updated_at
	`, user.Email, user.FullName, string(hash), user.Role).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User, *string)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User, _ *string) {
		u.Email = email
	}
}

// WithName sets the user's display name
func WithName(name string) UserOption {
	return func(u *models.User, _ *string) {
		u.FullName = name
	}
}

// WithRole sets the user's role
func WithRole(role string) UserOption {
	return func(u *models.User, _ *string) {
		u.Role = role
	}
}

// WithPassword sets the user's password
func WithPassword(password string) UserOption {
	return func(_ *models.User, p *string) {
		*p = password
	}
}

// CreateListing creates a test listing owned by the given client
func (f *Fixtures) CreateListing(t *testing.T, client *models.User, opts ...ListingOption) *models.Listing {
	t.Helper()
	f.counter++

	listing := &models.Listing{
		Kind:         models.ListingKindProject,
		Title:        fmt.Sprintf("Test Listing %d", f.counter),
		Description:  "A test listing",
		BudgetType:   models.BudgetFixed,
		BudgetAmount: 1000,
		Level:        "Intermediate",
		Tags:         []string{"go"},
		ClientID:     client.ID,
		ClientName:   client.FullName,
		Status:       models.ListingStatusOpen,
	}

	for _, opt := range opts {
		opt(listing)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO listings (kind, title, description, budget_type, budget_amount, level, tags, client_id, client_name, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, listing.Kind, listing.Title, listing.Description, listing.BudgetType, listing.BudgetAmount,
		listing.Level, listing.Tags, listing.ClientID, listing.ClientName, listing.Status, listing.Deadline,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create listing: %v", err)
	}

	return listing
}

// ListingOption configures a test listing
type ListingOption func(*models.Listing)

// WithTitle sets the listing title
func WithTitle(title string) ListingOption {
	return func(l *models.Listing) {
		l.Title = title
	}
}

// WithKind sets the listing kind
func WithKind(kind string) ListingOption {
	return func(l *models.Listing) {
		l.Kind = kind
	}
}

// WithStatus sets the listing status
func WithStatus(status string) ListingOption {
	return func(l *models.Listing) {
		l.Status = status
	}
}

// WithBudget sets the listing budget
func WithBudget(budgetType string, amount float64) ListingOption {
	return func(l *models.Listing) {
		l.BudgetType = budgetType
		l.BudgetAmount = amount
	}
}

// WithTags sets the listing tags
func WithTags(tags ...string) ListingOption {
	return func(l *models.Listing) {
		l.Tags = tags
	}
}

// CreateProposal creates a test proposal from the given freelancer
func (f *Fixtures) CreateProposal(t *testing.T, listing *models.Listing, freelancer *models.User, opts ...ProposalOption) *models.Proposal {
	t.Helper()
	f.counter++

	proposal := &models.Proposal{
		ListingID:      listing.ID,
		FreelancerID:   freelancer.ID,
		FreelancerName: freelancer.FullName,
		CoverLetter:    fmt.Sprintf("Cover letter %d", f.counter),
		RateType:       models.BudgetFixed,
		RateAmount:     900,
		Availability:   "Full-time",
		Status:         models.ProposalStatusPending,
	}

	for _, opt := range opts {
		opt(proposal)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO proposals (listing_id, freelancer_id, freelancer_name, cover_letter, rate_type, rate_amount, availability, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, proposal.ListingID, proposal.FreelancerID, proposal.FreelancerName, proposal.CoverLetter,
		proposal.RateType, proposal.RateAmount, proposal.Availability, proposal.Status,
	).Scan(&proposal.ID, &proposal.CreatedAt, &proposal.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create proposal: %v", err)
	}

	return proposal
}

// ProposalOption configures a test proposal
type ProposalOption func(*models.Proposal)

// WithProposalStatus sets the proposal status
func WithProposalStatus(status string) ProposalOption {
	return func(p *models.Proposal) {
		p.Status = status
	}
}

// WithRate sets the proposal rate
func WithRate(rateType string, amount float64) ProposalOption {
	return func(p *models.Proposal) {
		p.RateType = rateType
		p.RateAmount = amount
	}
}

// CreateThread creates a test thread between the listing's client and a
// freelancer
func (f *Fixtures) CreateThread(t *testing.T, listing *models.Listing, freelancer *models.User) *models.MessageThread {
	t.Helper()

	ids := []uuid.UUID{listing.ClientID, freelancer.ID}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	thread := &models.MessageThread{
		ListingID:       listing.ID,
		ParticipantIDs:  ids,
		ParticipantKey:  models.ThreadParticipantKey(ids),
		ParticipantName: freelancer.FullName,
		ParticipantRole: "Freelancer",
		ListingTitle:    listing.Title,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO message_threads (listing_id, participant_ids, participant_key, participant_name, participant_role, listing_title)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, last_active, created_at, updated_at
	`, thread.ListingID, thread.ParticipantIDs, thread.ParticipantKey,
		thread.ParticipantName, thread.ParticipantRole, thread.ListingTitle,
	).Scan(&thread.ID, &thread.LastActive, &thread.CreatedAt, &thread.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create thread: %v", err)
	}

	return thread
}

// CreateMessage creates a test message in a thread
func (f *Fixtures) CreateMessage(t *testing.T, thread *models.MessageThread, sender *models.User, text string) *models.Message {
	t.Helper()

	msg := &models.Message{
		ThreadID:   thread.ID,
		SenderID:   sender.ID,
		SenderName: sender.FullName,
		Text:       text,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO messages (thread_id, sender_id, sender_name, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, msg.ThreadID, msg.SenderID, msg.SenderName, msg.Text).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create message: %v", err)
	}

	return msg
}

// CreateProfile creates a test freelancer profile
func (f *Fixtures) CreateProfile(t *testing.T, freelancer *models.User) *models.FreelancerProfile {
	t.Helper()
	f.counter++

	profile := &models.FreelancerProfile{
		UserID:     freelancer.ID,
		Title:      fmt.Sprintf("Backend Developer %d", f.counter),
		Overview:   "Test overview",
		HourlyRate: 50,
		Currency:   "USD",
		Location:   "Remote",
		Skills:     []string{"go", "postgres"},
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO freelancer_profiles (user_id, title, overview, hourly_rate, currency, location, skills)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, profile.UserID, profile.Title, profile.Overview, profile.HourlyRate,
		profile.Currency, profile.Location, profile.Skills,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return profile
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

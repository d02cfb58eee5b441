package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stefan/gigport-api/internal/relay"
	"github.com/stefan/gigport-api/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Create(ctx context.Context, fullName, email, password, role string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, role, fullName string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	ValidateAccessToken(token string) (*services.Claims, error)
	RefreshExpiry() time.Duration
}

// ListingServiceInterface defines the methods used by handlers from ListingService
type ListingServiceInterface interface {
	Create(ctx context.Context, clientID uuid.UUID, clientName string, in services.CreateListingInput) (*models.Listing, error)
	GetByID(ctx context.Context, listingID uuid.UUID) (*models.Listing, error)
	Explore(ctx context.Context, userID uuid.UUID) ([]models.Listing, error)
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Listing, []int, error)
	ListAssigned(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error)
	Search(ctx context.Context, params services.ListingSearchParams) ([]models.Listing, int, error)
	UpdateStatus(ctx context.Context, listingID, actingUserID uuid.UUID, newStatus string) (*models.Listing, error)
}

// ProposalServiceInterface defines the methods used by handlers from ProposalService
type ProposalServiceInterface interface {
	Submit(ctx context.Context, listingID, freelancerID uuid.UUID, freelancerName string, in services.SubmitProposalInput) (*models.Proposal, error)
	ListForListing(ctx context.Context, listingID uuid.UUID) ([]models.Proposal, error)
	ListForFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error)
	GetByID(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error)
}

// AwardServiceInterface defines the methods used by handlers from AwardService
type AwardServiceInterface interface {
	Award(ctx context.Context, proposalID, actingUserID uuid.UUID) (*services.AwardResult, error)
}

// ThreadServiceInterface defines the methods used by handlers from ThreadService
type ThreadServiceInterface interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MessageThread, []string, error)
	GetWithMessages(ctx context.Context, threadID, userID uuid.UUID) (*models.MessageThread, []models.Message, error)
	PostMessage(ctx context.Context, threadID, senderID uuid.UUID, senderName, text string) (*models.Message, error)
	StartForProposal(ctx context.Context, proposalID, actingUserID uuid.UUID, actingName string) (*models.MessageThread, *models.Message, error)
	IsParticipant(ctx context.Context, threadID, userID uuid.UUID) (bool, error)
}

// FreelancerServiceInterface defines the methods used by handlers from FreelancerService
type FreelancerServiceInterface interface {
	List(ctx context.Context) ([]models.FreelancerProfile, error)
	GetByID(ctx context.Context, profileID uuid.UUID) (*models.FreelancerProfile, error)
	Upsert(ctx context.Context, userID uuid.UUID, in services.ProfileInput) (*models.FreelancerProfile, error)
}

// HubInterface defines the methods used by handlers from the relay Hub
type HubInterface interface {
	Register(client *relay.Client)
	Unregister(client *relay.Client)
	JoinThread(clientID string, threadID uuid.UUID)
	LeaveThread(clientID string, threadID uuid.UUID)
	PublishMessage(threadID, messageID uuid.UUID, from, text string, createdAt time.Time)
}

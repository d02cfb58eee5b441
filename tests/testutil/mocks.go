package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stefan/gigport-api/internal/relay"
	"github.com/stefan/gigport-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, fullName, email, password, role string) (*models.User, error) {
	args := m.Called(ctx, fullName, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockListingService mocks the ListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(ctx context.Context, clientID uuid.UUID, clientName string, in services.CreateListingInput) (*models.Listing, error) {
	args := m.Called(ctx, clientID, clientName, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) GetByID(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) Explore(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Listing, []int, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.Listing), args.Get(1).([]int), args.Error(2)
}

func (m *MockListingService) ListAssigned(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *MockListingService) Search(ctx context.Context, params services.ListingSearchParams) ([]models.Listing, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Listing), args.Int(1), args.Error(2)
}

func (m *MockListingService) UpdateStatus(ctx context.Context, listingID, actingUserID uuid.UUID, newStatus string) (*models.Listing, error) {
	args := m.Called(ctx, listingID, actingUserID, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

// MockProposalService mocks the ProposalService
type MockProposalService struct {
	mock.Mock
}

func (m *MockProposalService) Submit(ctx context.Context, listingID, freelancerID uuid.UUID, freelancerName string, in services.SubmitProposalInput) (*models.Proposal, error) {
	args := m.Called(ctx, listingID, freelancerID, freelancerName, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockProposalService) ListForListing(ctx context.Context, listingID uuid.UUID) ([]models.Proposal, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *MockProposalService) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *MockProposalService) GetByID(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, proposalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

// MockAwardService mocks the AwardService
type MockAwardService struct {
	mock.Mock
}

func (m *MockAwardService) Award(ctx context.Context, proposalID, actingUserID uuid.UUID) (*services.AwardResult, error) {
	args := m.Called(ctx, proposalID, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AwardResult), args.Error(1)
}

// MockThreadService mocks the ThreadService
type MockThreadService struct {
	mock.Mock
}

func (m *MockThreadService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MessageThread, []string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.MessageThread), args.Get(1).([]string), args.Error(2)
}

func (m *MockThreadService) GetWithMessages(ctx context.Context, threadID, userID uuid.UUID) (*models.MessageThread, []models.Message, error) {
	args := m.Called(ctx, threadID, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.MessageThread), args.Get(1).([]models.Message), args.Error(2)
}

func (m *MockThreadService) PostMessage(ctx context.Context, threadID, senderID uuid.UUID, senderName, text string) (*models.Message, error) {
	args := m.Called(ctx, threadID, senderID, senderName, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockThreadService) StartForProposal(ctx context.Context, proposalID, actingUserID uuid.UUID, actingName string) (*models.MessageThread, *models.Message, error) {
	args := m.Called(ctx, proposalID, actingUserID, actingName)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var msg *models.Message
	if args.Get(1) != nil {
		msg = args.Get(1).(*models.Message)
	}
	return args.Get(0).(*models.MessageThread), msg, args.Error(2)
}

func (m *MockThreadService) IsParticipant(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, threadID, userID)
	return args.Bool(0), args.Error(1)
}

// MockFreelancerService mocks the FreelancerService
type MockFreelancerService struct {
	mock.Mock
}

func (m *MockFreelancerService) List(ctx context.Context) ([]models.FreelancerProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FreelancerProfile), args.Error(1)
}

func (m *MockFreelancerService) GetByID(ctx context.Context, profileID uuid.UUID) (*models.FreelancerProfile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreelancerProfile), args.Error(1)
}

func (m *MockFreelancerService) Upsert(ctx context.Context, userID uuid.UUID, in services.ProfileInput) (*models.FreelancerProfile, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreelancerProfile), args.Error(1)
}

// MockHub mocks the relay Hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *relay.Client) {
	m.Called(client)
}

func (m *MockHub) Unregister(client *relay.Client) {
	m.Called(client)
}

func (m *MockHub) JoinThread(clientID string, threadID uuid.UUID) {
	m.Called(clientID, threadID)
}

func (m *MockHub) LeaveThread(clientID string, threadID uuid.UUID) {
	m.Called(clientID, threadID)
}

func (m *MockHub) PublishMessage(threadID, messageID uuid.UUID, from, text string, createdAt time.Time) {
	m.Called(threadID, messageID, from, text, createdAt)
}

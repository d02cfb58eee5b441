package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefan/gigport-api/internal/middleware"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stefan/gigport-api/internal/services"
	"github.com/stefan/gigport-api/pkg/dto"
)

type ProposalHandler struct {
	proposalService ProposalServiceInterface
	listingService  ListingServiceInterface
	awardService    AwardServiceInterface
	hub             HubInterface
}

func NewProposalHandler(
	proposalService ProposalServiceInterface,
	listingService ListingServiceInterface,
	awardService AwardServiceInterface,
	hub HubInterface,
) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		listingService:  listingService,
		awardService:    awardService,
		hub:             hub,
	}
}

func (h *ProposalHandler) Submit(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}
	if middleware.GetUserRole(c) != models.RoleFreelancer {
		c.Forbidden("only freelancers can submit proposals")
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		c.BadRequest("invalid listing id")
		return
	}

	var req dto.SubmitProposalRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.CoverLetter = strings.TrimSpace(req.CoverLetter)
	if req.CoverLetter == "" {
		c.BadRequest("cover_letter is required")
		return
	}
	if !models.ValidBudgetType(req.RateType) {
		c.BadRequest("rate_type must be hourly or fixed")
		return
	}
	if req.RateAmount <= 0 {
		c.BadRequest("rate_amount must be positive")
		return
	}

	proposal, err := h.proposalService.Submit(context.Background(), listingID, userID, middleware.GetUserName(c), services.SubmitProposalInput{
		CoverLetter:  req.CoverLetter,
		RateType:     req.RateType,
		RateAmount:   req.RateAmount,
		Availability: req.Availability,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			c.NotFound("listing not found")
		case errors.Is(err, services.ErrDuplicateProposal):
			_ = c.JSON(409, map[string]string{"message": "you already submitted a proposal for this listing"})
		default:
			c.InternalServerError("failed to submit proposal")
		}
		return
	}

	_ = c.JSON(201, proposalResponse(proposal))
}

// ListForListing returns a listing's proposals. Only the listing owner may
// review them.
func (h *ProposalHandler) ListForListing(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		c.BadRequest("invalid listing id")
		return
	}

	ctx := context.Background()

	listing, err := h.listingService.GetByID(ctx, listingID)
	if err != nil {
		c.NotFound("listing not found")
		return
	}
	if listing.ClientID != userID {
		c.Forbidden("only the listing owner can review proposals")
		return
	}

	proposals, err := h.proposalService.ListForListing(ctx, listingID)
	if err != nil {
		c.InternalServerError("failed to get proposals")
		return
	}

	response := dto.ListingProposalsResponse{
		Listing:   listingResponse(listing),
		Proposals: make([]dto.ProposalResponse, len(proposals)),
	}
	for i := range proposals {
		response.Proposals[i] = proposalResponse(&proposals[i])
	}

	_ = c.JSON(200, response)
}

// ListMine returns the acting freelancer's proposals across all listings.
func (h *ProposalHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	proposals, err := h.proposalService.ListForFreelancer(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get proposals")
		return
	}

	response := make([]dto.ProposalResponse, len(proposals))
	for i := range proposals {
		response[i] = proposalResponse(&proposals[i])
	}

	_ = c.JSON(200, response)
}

func (h *ProposalHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	proposalID, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		c.BadRequest("invalid proposal id")
		return
	}

	proposal, err := h.proposalService.GetByID(context.Background(), proposalID)
	if err != nil {
		c.NotFound("proposal not found")
		return
	}

	// Visible to its freelancer and the listing's client only.
	if proposal.FreelancerID != userID && (proposal.Listing == nil || proposal.Listing.ClientID != userID) {
		c.Forbidden("cannot view this proposal")
		return
	}

	_ = c.JSON(200, proposalResponse(proposal))
}

// Award accepts the proposal, rejects its siblings, moves the listing to
// in_progress and opens the client-freelancer thread. The thread's system
// message is fanned out to connected room members after commit.
func (h *ProposalHandler) Award(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	proposalID, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		c.BadRequest("invalid proposal id")
		return
	}

	result, err := h.awardService.Award(context.Background(), proposalID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProposalNotFound):
			c.NotFound("proposal not found")
		case errors.Is(err, services.ErrNotListingOwner):
			c.Forbidden("only the listing owner can award proposals")
		case errors.Is(err, services.ErrListingGone):
			_ = c.JSON(409, map[string]string{"message": "the proposal's listing no longer exists"})
		case errors.Is(err, services.ErrListingNotOpen):
			_ = c.JSON(409, map[string]string{"message": "listing is no longer open"})
		default:
			c.InternalServerError("failed to award proposal")
		}
		return
	}

	if result.Message != nil {
		h.hub.PublishMessage(result.Thread.ID, result.Message.ID, result.Message.SenderName,
			result.Message.Text, result.Message.CreatedAt)
	}

	_ = c.JSON(200, dto.AwardResponse{
		ThreadID:      result.Thread.ID,
		ThreadCreated: result.ThreadCreated,
		Proposal:      proposalResponse(result.Proposal),
	})
}

func proposalResponse(p *models.Proposal) dto.ProposalResponse {
	resp := dto.ProposalResponse{
		ID:             p.ID,
		ListingID:      p.ListingID,
		FreelancerID:   p.FreelancerID,
		FreelancerName: p.FreelancerName,
		CoverLetter:    p.CoverLetter,
		RateType:       p.RateType,
		RateAmount:     p.RateAmount,
		Availability:   p.Availability,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	}
	if p.Listing != nil {
		resp.ListingTitle = p.Listing.Title
		resp.ListingStatus = p.Listing.Status
	}
	return resp
}

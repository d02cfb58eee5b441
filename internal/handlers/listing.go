package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefan/gigport-api/internal/middleware"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stefan/gigport-api/internal/services"
	"github.com/stefan/gigport-api/pkg/dto"
)

type ListingHandler struct {
	listingService ListingServiceInterface
}

func NewListingHandler(listingService ListingServiceInterface) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}
	if middleware.GetUserRole(c) != models.RoleClient {
		c.Forbidden("only clients can post listings")
		return
	}

	var req dto.CreateListingRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Kind == "" {
		req.Kind = models.ListingKindProject
	}
	if !models.ValidListingKind(req.Kind) {
		c.BadRequest("kind must be job or project")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		c.BadRequest("title is required")
		return
	}
	if req.Description == "" {
		c.BadRequest("description is required")
		return
	}
	if !models.ValidBudgetType(req.BudgetType) {
		c.BadRequest("budget_type must be hourly or fixed")
		return
	}
	if req.BudgetAmount <= 0 {
		c.BadRequest("budget_amount must be positive")
		return
	}

	listing, err := h.listingService.Create(context.Background(), userID, middleware.GetUserName(c), services.CreateListingInput{
		Kind:         req.Kind,
		Title:        req.Title,
		Description:  req.Description,
		BudgetType:   req.BudgetType,
		BudgetAmount: req.BudgetAmount,
		Level:        req.Level,
		Tags:         req.Tags,
		Deadline:     req.Deadline,
	})
	if err != nil {
		c.InternalServerError("failed to create listing")
		return
	}

	_ = c.JSON(201, listingDetailResponse(listing))
}

func (h *ListingHandler) Get(c *drift.Context) {
	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		c.BadRequest("invalid listing id")
		return
	}

	listing, err := h.listingService.GetByID(context.Background(), listingID)
	if err != nil {
		c.NotFound("listing not found")
		return
	}

	_ = c.JSON(200, listingDetailResponse(listing))
}

// Explore lists other users' listings for browsing.
func (h *ListingHandler) Explore(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listings, err := h.listingService.Explore(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get listings")
		return
	}

	response := make([]dto.ListingResponse, len(listings))
	for i := range listings {
		response[i] = listingResponse(&listings[i])
	}

	_ = c.JSON(200, response)
}

// ListMine returns the client's own listings with proposal counts.
func (h *ListingHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listings, counts, err := h.listingService.ListForClient(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get listings")
		return
	}

	response := make([]dto.ListingResponse, len(listings))
	for i := range listings {
		response[i] = listingResponse(&listings[i])
		count := counts[i]
		response[i].ProposalsCount = &count
	}

	_ = c.JSON(200, response)
}

// ListAssigned returns the freelancer's active engagements, one per accepted
// proposal.
func (h *ListingHandler) ListAssigned(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	proposals, err := h.listingService.ListAssigned(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get assigned listings")
		return
	}

	response := make([]dto.AssignedListingResponse, len(proposals))
	for i := range proposals {
		p := &proposals[i]
		response[i] = dto.AssignedListingResponse{
			ProposalID: p.ID,
			ListingID:  p.ListingID,
			Title:      p.Listing.Title,
			Budget:     p.Listing.BudgetDisplay(),
			Status:     p.Listing.Status,
			Deadline:   p.Listing.Deadline,
			AwardedAt:  p.UpdatedAt,
			Proposal:   proposalResponse(p),
		}
	}

	_ = c.JSON(200, response)
}

func (h *ListingHandler) Search(c *drift.Context) {
	query := c.Request.URL.Query()

	params := services.ListingSearchParams{
		Query:      query.Get("q"),
		Level:      query.Get("level"),
		Kind:       query.Get("kind"),
		BudgetType: query.Get("budget_type"),
		Status:     query.Get("status"),
		Sort:       query.Get("sort"),
		Page:       1,
		Limit:      10,
	}

	if tags := query.Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				params.Tags = append(params.Tags, tag)
			}
		}
	}
	if v := query.Get("min_budget"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinBudget = &f
		}
	}
	if v := query.Get("max_budget"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxBudget = &f
		}
	}
	if v := query.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			params.Page = n
		}
	}
	if v := query.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			params.Limit = n
		}
	}

	listings, total, err := h.listingService.Search(context.Background(), params)
	if err != nil {
		c.InternalServerError("failed to search listings")
		return
	}

	response := dto.ListingSearchResponse{
		Page:       params.Page,
		TotalPages: (total + params.Limit - 1) / params.Limit,
		Total:      total,
		Listings:   make([]dto.ListingResponse, len(listings)),
	}
	for i := range listings {
		response.Listings[i] = listingResponse(&listings[i])
	}

	_ = c.JSON(200, response)
}

func (h *ListingHandler) UpdateStatus(c *drift.Context) {
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

	var req dto.UpdateListingStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	listing, err := h.listingService.UpdateStatus(context.Background(), listingID, userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			c.NotFound("listing not found")
		case errors.Is(err, services.ErrNotListingOwner):
			c.Forbidden("only the listing owner can change its status")
		case errors.Is(err, services.ErrInvalidTransition):
			_ = c.JSON(409, map[string]string{"message": "invalid status transition"})
		default:
			c.InternalServerError("failed to update listing status")
		}
		return
	}

	_ = c.JSON(200, listingDetailResponse(listing))
}

func listingResponse(l *models.Listing) dto.ListingResponse {
	return dto.ListingResponse{
		ID:        l.ID,
		Kind:      l.Kind,
		Title:     l.Title,
		Level:     l.Level,
		Budget:    l.BudgetDisplay(),
		Tags:      l.Tags,
		Status:    l.Status,
		Deadline:  l.Deadline,
		CreatedAt: l.CreatedAt,
	}
}

func listingDetailResponse(l *models.Listing) dto.ListingDetailResponse {
	return dto.ListingDetailResponse{
		ID:           l.ID,
		Kind:         l.Kind,
		Title:        l.Title,
		Description:  l.Description,
		BudgetType:   l.BudgetType,
		BudgetAmount: l.BudgetAmount,
		Budget:       l.BudgetDisplay(),
		Level:        l.Level,
		Tags:         l.Tags,
		Client:       dto.ListingClient{ID: l.ClientID, Name: l.ClientName},
		Status:       l.Status,
		Deadline:     l.Deadline,
		CreatedAt:    l.CreatedAt,
	}
}

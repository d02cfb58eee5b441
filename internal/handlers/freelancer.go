package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefan/gigport-api/internal/middleware"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stefan/gigport-api/internal/services"
	"github.com/stefan/gigport-api/pkg/dto"
)

type FreelancerHandler struct {
	freelancerService FreelancerServiceInterface
}

func NewFreelancerHandler(freelancerService FreelancerServiceInterface) *FreelancerHandler {
	return &FreelancerHandler{freelancerService: freelancerService}
}

func (h *FreelancerHandler) List(c *drift.Context) {
	profiles, err := h.freelancerService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to get freelancers")
		return
	}

	response := make([]dto.FreelancerCardResponse, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		response[i] = dto.FreelancerCardResponse{
			ID:       p.ID,
			Name:     profileName(p),
			Title:    p.Title,
			Rate:     rateDisplay(p.HourlyRate),
			Location: p.Location,
			Skills:   p.Skills,
		}
	}

	_ = c.JSON(200, response)
}

func (h *FreelancerHandler) Get(c *drift.Context) {
	profileID, err := uuid.Parse(c.Param("freelancerId"))
	if err != nil {
		c.BadRequest("invalid freelancer id")
		return
	}

	profile, err := h.freelancerService.GetByID(context.Background(), profileID)
	if err != nil {
		c.NotFound("freelancer not found")
		return
	}

	_ = c.JSON(200, profileResponse(profile))
}

// UpsertMe creates or replaces the acting freelancer's directory profile.
func (h *FreelancerHandler) UpsertMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}
	if middleware.GetUserRole(c) != models.RoleFreelancer {
		c.Forbidden("only freelancers can publish a profile")
		return
	}

	var req dto.UpsertProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		c.BadRequest("title is required")
		return
	}
	if req.HourlyRate <= 0 {
		c.BadRequest("hourly_rate must be positive")
		return
	}

	profile, err := h.freelancerService.Upsert(context.Background(), userID, services.ProfileInput{
		Title:      req.Title,
		Overview:   req.Overview,
		HourlyRate: req.HourlyRate,
		Currency:   req.Currency,
		Location:   req.Location,
		Skills:     req.Skills,
	})
	if err != nil {
		c.InternalServerError("failed to save profile")
		return
	}

	resp := profileResponse(profile)
	resp.Name = middleware.GetUserName(c)

	_ = c.JSON(200, resp)
}

func profileResponse(p *models.FreelancerProfile) dto.FreelancerProfileResponse {
	return dto.FreelancerProfileResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Name:       profileName(p),
		Title:      p.Title,
		Overview:   p.Overview,
		HourlyRate: p.HourlyRate,
		Currency:   p.Currency,
		Rate:       rateDisplay(p.HourlyRate),
		Location:   p.Location,
		Skills:     p.Skills,
	}
}

func profileName(p *models.FreelancerProfile) string {
	if p.User != nil {
		return p.User.FullName
	}
	return ""
}

func rateDisplay(hourlyRate float64) string {
	return fmt.Sprintf("$%g/hr", hourlyRate)
}

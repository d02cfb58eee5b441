package dto

import "github.com/google/uuid"

type UpsertProfileRequest struct {
	Title      string   `json:"title"`
	Overview   string   `json:"overview,omitempty"`
	HourlyRate float64  `json:"hourly_rate"`
	Currency   string   `json:"currency,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

type FreelancerCardResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Rate     string    `json:"rate"`
	Location string    `json:"location"`
	Skills   []string  `json:"skills"`
}

type FreelancerProfileResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Overview   string    `json:"overview"`
	HourlyRate float64   `json:"hourly_rate"`
	Currency   string    `json:"currency"`
	Rate       string    `json:"rate"`
	Location   string    `json:"location"`
	Skills     []string  `json:"skills"`
}

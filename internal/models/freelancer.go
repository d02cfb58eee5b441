package models

import (
	"time"

	"github.com/google/uuid"
)

type FreelancerProfile struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	Overview   string    `json:"overview"`
	HourlyRate float64   `json:"hourly_rate"`
	Currency   string    `json:"currency"`
	Location   string    `json:"location"`
	Skills     []string  `json:"skills"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
}

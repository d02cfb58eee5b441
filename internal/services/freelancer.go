package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/models"
)

var ErrProfileNotFound = errors.New("freelancer profile not found")

type FreelancerService struct {
	db *database.DB
}

func NewFreelancerService(db *database.DB) *FreelancerService {
	return &FreelancerService{db: db}
}

type ProfileInput struct {
	Title      string
	Overview   string
	HourlyRate float64
	Currency   string
	Location   string
	Skills     []string
}

const profileColumns = `id, user_id, title, overview, hourly_rate, currency, location, skills, created_at, updated_at`

func (s *FreelancerService) List(ctx context.Context) ([]models.FreelancerProfile, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT f.id, f.user_id, f.title, f.overview, f.hourly_rate, f.currency,
		       f.location, f.skills, f.created_at, f.updated_at, u.full_name
		FROM freelancer_profiles f
		JOIN users u ON f.user_id = u.id
		ORDER BY f.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.FreelancerProfile
	for rows.Next() {
		var p models.FreelancerProfile
		var user models.User
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Title, &p.Overview, &p.HourlyRate, &p.Currency,
			&p.Location, &p.Skills, &p.CreatedAt, &p.UpdatedAt, &user.FullName,
		); err != nil {
			return nil, err
		}
		user.ID = p.UserID
		p.User = &user
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *FreelancerService) GetByID(ctx context.Context, profileID uuid.UUID) (*models.FreelancerProfile, error) {
	var p models.FreelancerProfile
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT f.id, f.user_id, f.title, f.overview, f.hourly_rate, f.currency,
		       f.location, f.skills, f.created_at, f.updated_at, u.full_name
		FROM freelancer_profiles f
		JOIN users u ON f.user_id = u.id
		WHERE f.id = $1
	`, profileID).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Overview, &p.HourlyRate, &p.Currency,
		&p.Location, &p.Skills, &p.CreatedAt, &p.UpdatedAt, &user.FullName,
	)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	user.ID = p.UserID
	p.User = &user
	return &p, nil
}

// Upsert creates or replaces the caller's own profile.
func (s *FreelancerService) Upsert(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.FreelancerProfile, error) {
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if in.Location == "" {
		in.Location = "Remote"
	}
	if in.Skills == nil {
		in.Skills = []string{}
	}

	var p models.FreelancerProfile
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO freelancer_profiles (user_id, title, overview, hourly_rate, currency, location, skills)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			title = EXCLUDED.title,
			overview = EXCLUDED.overview,
			hourly_rate = EXCLUDED.hourly_rate,
			currency = EXCLUDED.currency,
			location = EXCLUDED.location,
			skills = EXCLUDED.skills,
			updated_at = NOW()
		RETURNING `+profileColumns+`
	`, userID, in.Title, in.Overview, in.HourlyRate, in.Currency, in.Location, in.Skills).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Overview, &p.HourlyRate, &p.Currency,
		&p.Location, &p.Skills, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &p, nil
}

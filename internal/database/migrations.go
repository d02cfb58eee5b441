package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS freelancer_profiles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE UNIQUE,
		title VARCHAR(255) NOT NULL,
		overview TEXT NOT NULL DEFAULT '',
		hourly_rate NUMERIC(10,2) NOT NULL,
		currency VARCHAR(10) NOT NULL DEFAULT 'USD',
		location VARCHAR(255) NOT NULL DEFAULT 'Remote',
		skills TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Jobs and projects live in one table with a kind discriminant.
	`CREATE TABLE IF NOT EXISTS listings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		kind VARCHAR(20) NOT NULL DEFAULT 'project',
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		budget_type VARCHAR(20) NOT NULL,
		budget_amount NUMERIC(12,2) NOT NULL,
		level VARCHAR(50) NOT NULL DEFAULT 'Intermediate',
		tags TEXT[] NOT NULL DEFAULT '{}',
		client_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		client_name VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'open',
		deadline TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS proposals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		listing_id UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
		freelancer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		freelancer_name VARCHAR(255) NOT NULL DEFAULT '',
		cover_letter TEXT NOT NULL,
		rate_type VARCHAR(20) NOT NULL,
		rate_amount NUMERIC(12,2) NOT NULL,
		availability VARCHAR(100) NOT NULL DEFAULT 'Full-time',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS message_threads (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		listing_id UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
		participant_ids UUID[] NOT NULL,
		participant_key TEXT NOT NULL,
		participant_name VARCHAR(255) NOT NULL,
		participant_role VARCHAR(50) NOT NULL DEFAULT 'Freelancer',
		listing_title VARCHAR(255) NOT NULL,
		last_active TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(listing_id, participant_key)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		thread_id UUID NOT NULL REFERENCES message_threads(id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		sender_name VARCHAR(255) NOT NULL DEFAULT '',
		text TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_client_id ON listings(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_listing_id ON proposals(listing_id)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_freelancer_id ON proposals(freelancer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_message_threads_listing_id ON message_threads(listing_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_thread_id ON messages(thread_id)`,

	// At most one accepted proposal per listing, enforced by the store.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_proposals_one_accepted_per_listing
		ON proposals(listing_id) WHERE status = 'accepted'`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/stefan/gigport-api/internal/config"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/models"
)

// Administrative escape hatch for listings stuck outside the normal
// lifecycle, e.g. a client who disappeared with proposals still pending.
func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: close-listing <listing-id>")
		os.Exit(1)
	}

	listingID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid listing id: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Pool.Exec(ctx, `
		UPDATE listings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status NOT IN ($3, $4)
	`, models.ListingStatusClosed, listingID, models.ListingStatusCompleted, models.ListingStatusClosed)
	if err != nil {
		log.Fatalf("Failed to update listing: %v", err)
	}

	if result.RowsAffected() == 0 {
		log.Fatalf("No open or in-progress listing found with id: %s", listingID)
	}

	tag, err := db.Pool.Exec(ctx, `
		UPDATE proposals SET status = $1, updated_at = NOW()
		WHERE listing_id = $2 AND status = $3
	`, models.ProposalStatusRejected, listingID, models.ProposalStatusPending)
	if err != nil {
		log.Fatalf("Failed to reject pending proposals: %v", err)
	}

	fmt.Printf("Closed listing %s and rejected %d pending proposals\n", listingID, tag.RowsAffected())
}

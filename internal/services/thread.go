package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stefan/gigport-api/internal/database"
	"github.com/stefan/gigport-api/internal/models"
)

var (
	ErrThreadNotFound       = errors.New("thread not found")
	ErrNotThreadParticipant = errors.New("acting user is not a participant of this thread")
)

// querier is satisfied by both database.Pool and pgx.Tx, so the thread
// registration logic can run standalone or inside the award transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ThreadService struct {
	db *database.DB
}

func NewThreadService(db *database.DB) *ThreadService {
	return &ThreadService{db: db}
}

// ThreadDisplay carries the denormalized fields shown on thread list cards.
type ThreadDisplay struct {
	ParticipantName string
	ParticipantRole string
	ListingTitle    string
}

const threadColumns = `id, listing_id, participant_ids, participant_key, participant_name, participant_role, listing_title, last_active, created_at, updated_at`

func scanThread(row pgx.Row, t *models.MessageThread) error {
	return row.Scan(
		&t.ID, &t.ListingID, &t.ParticipantIDs, &t.ParticipantKey,
		&t.ParticipantName, &t.ParticipantRole, &t.ListingTitle,
		&t.LastActive, &t.CreatedAt, &t.UpdatedAt,
	)
}

// findOrCreateThread registers a thread for (listing, participant set). The
// unique index on (listing_id, participant_key) plus ON CONFLICT DO NOTHING
// makes concurrent callers converge on a single row: the loser of the insert
// race re-reads the winner's thread.
func findOrCreateThread(ctx context.Context, q querier, listingID uuid.UUID, participantIDs []uuid.UUID, display ThreadDisplay) (*models.MessageThread, bool, error) {
	ids := make([]uuid.UUID, len(participantIDs))
	copy(ids, participantIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	key := models.ThreadParticipantKey(ids)

	if display.ParticipantRole == "" {
		display.ParticipantRole = "Freelancer"
	}

	var thread models.MessageThread
	err := scanThread(q.QueryRow(ctx, `
		INSERT INTO message_threads (listing_id, participant_ids, participant_key, participant_name, participant_role, listing_title)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (listing_id, participant_key) DO NOTHING
		RETURNING `+threadColumns+`
	`, listingID, ids, key, display.ParticipantName, display.ParticipantRole, display.ListingTitle), &thread)
	if err == nil {
		return &thread, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create thread: %w", err)
	}

	err = scanThread(q.QueryRow(ctx, `
		SELECT `+threadColumns+` FROM message_threads
		WHERE listing_id = $1 AND participant_key = $2
	`, listingID, key), &thread)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing thread: %w", err)
	}
	return &thread, false, nil
}

func insertMessage(ctx context.Context, q querier, threadID, senderID uuid.UUID, senderName, text string) (*models.Message, error) {
	var msg models.Message
	err := q.QueryRow(ctx, `
		INSERT INTO messages (thread_id, sender_id, sender_name, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, thread_id, sender_id, sender_name, text, created_at
	`, threadID, senderID, senderName, text).Scan(
		&msg.ID, &msg.ThreadID, &msg.SenderID, &msg.SenderName, &msg.Text, &msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &msg, nil
}

// FindOrCreate returns the thread for (listing, participant set), creating it
// if absent. The boolean reports whether the thread is new, so callers can
// decide between a welcome and a status-update message.
func (s *ThreadService) FindOrCreate(ctx context.Context, listingID uuid.UUID, participantIDs []uuid.UUID, display ThreadDisplay) (*models.MessageThread, bool, error) {
	return findOrCreateThread(ctx, s.db.Pool, listingID, participantIDs, display)
}

func (s *ThreadService) GetByID(ctx context.Context, threadID uuid.UUID) (*models.MessageThread, error) {
	var thread models.MessageThread
	err := scanThread(s.db.Pool.QueryRow(ctx, `
		SELECT `+threadColumns+` FROM message_threads WHERE id = $1
	`, threadID), &thread)
	if err != nil {
		return nil, ErrThreadNotFound
	}
	return &thread, nil
}

// IsParticipant reports whether the user belongs to the thread. The realtime
// endpoints use this as their join-time capability check.
func (s *ThreadService) IsParticipant(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM message_threads WHERE id = $1 AND $2 = ANY(participant_ids))
	`, threadID, userID).Scan(&ok)
	return ok, err
}

// ListForUser returns the user's threads most recently active first, with a
// parallel slice of last-message previews.
func (s *ThreadService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MessageThread, []string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.listing_id, t.participant_ids, t.participant_key,
		       t.participant_name, t.participant_role, t.listing_title,
		       t.last_active, t.created_at, t.updated_at,
		       COALESCE(lm.text, '') AS last_message_text
		FROM message_threads t
		LEFT JOIN LATERAL (
			SELECT text FROM messages m
			WHERE m.thread_id = t.id
			ORDER BY m.created_at DESC
			LIMIT 1
		) lm ON true
		WHERE $1 = ANY(t.participant_ids)
		ORDER BY t.last_active DESC
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var threads []models.MessageThread
	var previews []string
	for rows.Next() {
		var t models.MessageThread
		var preview string
		if err := rows.Scan(
			&t.ID, &t.ListingID, &t.ParticipantIDs, &t.ParticipantKey,
			&t.ParticipantName, &t.ParticipantRole, &t.ListingTitle,
			&t.LastActive, &t.CreatedAt, &t.UpdatedAt, &preview,
		); err != nil {
			return nil, nil, err
		}
		threads = append(threads, t)
		previews = append(previews, preview)
	}
	return threads, previews, rows.Err()
}

// GetWithMessages returns the thread and its messages in chronological order.
// Only participants may read a thread.
func (s *ThreadService) GetWithMessages(ctx context.Context, threadID, userID uuid.UUID) (*models.MessageThread, []models.Message, error) {
	thread, err := s.GetByID(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}
	if !thread.HasParticipant(userID) {
		return nil, nil, ErrNotThreadParticipant
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, thread_id, sender_id, sender_name, text, created_at
		FROM messages
		WHERE thread_id = $1
		ORDER BY created_at ASC
	`, threadID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.SenderName, &m.Text, &m.CreatedAt); err != nil {
			return nil, nil, err
		}
		messages = append(messages, m)
	}
	return thread, messages, rows.Err()
}

// PostMessage appends a message to the thread and bumps last_active in one
// transaction. Only participants may post.
func (s *ThreadService) PostMessage(ctx context.Context, threadID, senderID uuid.UUID, senderName, text string) (*models.Message, error) {
	thread, err := s.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(senderID) {
		return nil, ErrNotThreadParticipant
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	msg, err := insertMessage(ctx, tx, threadID, senderID, senderName, text)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE message_threads SET last_active = $1, updated_at = NOW() WHERE id = $2
	`, msg.CreatedAt, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to update thread activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return msg, nil
}

// StartForProposal opens (or reuses) the thread between a proposal's
// freelancer and the listing's client. Either party may start it; a welcome
// message is posted only when the thread is new.
func (s *ThreadService) StartForProposal(ctx context.Context, proposalID, actingUserID uuid.UUID, actingName string) (*models.MessageThread, *models.Message, error) {
	var freelancerID uuid.UUID
	var freelancerName string
	var listingID, clientID uuid.UUID
	var listingTitle string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT p.freelancer_id, p.freelancer_name, l.id, l.client_id, l.title
		FROM proposals p
		JOIN listings l ON p.listing_id = l.id
		WHERE p.id = $1
	`, proposalID).Scan(&freelancerID, &freelancerName, &listingID, &clientID, &listingTitle)
	if err != nil {
		return nil, nil, ErrProposalNotFound
	}

	if actingUserID != clientID && actingUserID != freelancerID {
		return nil, nil, ErrNotThreadParticipant
	}

	thread, created, err := findOrCreateThread(ctx, s.db.Pool, listingID, []uuid.UUID{clientID, freelancerID}, ThreadDisplay{
		ParticipantName: freelancerName,
		ParticipantRole: "Freelancer",
		ListingTitle:    listingTitle,
	})
	if err != nil {
		return nil, nil, err
	}
	if !created {
		return thread, nil, nil
	}

	text := fmt.Sprintf("Hi %s, let's discuss the proposal for %q.", freelancerName, listingTitle)
	msg, err := insertMessage(ctx, s.db.Pool, thread.ID, actingUserID, actingName, text)
	if err != nil {
		return nil, nil, err
	}
	return thread, msg, nil
}

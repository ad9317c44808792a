package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/db"
	"github.com/dancefloor/backend/internal/models"
)

// MaxMessageLength is the longest chat message accepted, in characters.
const MaxMessageLength = 300

// PostResult is the stored message plus the dancefloor's new message count.
type PostResult struct {
	Message       db.Message
	MessagesCount int64
}

// ChatService stores dancefloor chat and broadcasts it.
type ChatService struct {
	store *db.Store
	hub   broker.Publisher
	now   func() time.Time
}

func NewChatService(store *db.Store, hub broker.Publisher) *ChatService {
	return &ChatService{
		store: store,
		hub:   hub,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ValidateMessage rejects empty messages and messages over MaxMessageLength.
// Oversize messages are never truncated.
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// Post appends a message and increments the message counter atomically.
func (s *ChatService) Post(ctx context.Context, dancefloorID, message, authorID string) (PostResult, error) {
	if dancefloorID == "" {
		return PostResult{}, ErrMissingDancefloor
	}
	if err := ValidateMessage(message); err != nil {
		return PostResult{}, err
	}

	var result PostResult
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		count, err := q.IncrementMessagesCount(ctx, dancefloorID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDancefloorNotFound
		}
		if err != nil {
			return fmt.Errorf("increment messages count: %w", err)
		}

		msg, err := q.CreateMessage(ctx, db.CreateMessageParams{
			DancefloorID: dancefloorID,
			Message:      message,
			AuthorID:     sql.NullString{String: authorID, Valid: authorID != ""},
			CreatedAt:    s.now(),
		})
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		result = PostResult{Message: msg, MessagesCount: count}
		return nil
	})
	if err != nil {
		return PostResult{}, err
	}

	s.hub.Publish(dancefloorID, broker.KindSendMessage, MessageToResponse(result.Message))
	s.hub.Publish(dancefloorID, broker.KindMessagesCount, models.MessagesCountEvent{MessagesCount: result.MessagesCount})
	return result, nil
}

// List returns the dancefloor's messages oldest first.
func (s *ChatService) List(ctx context.Context, dancefloorID string) ([]db.Message, error) {
	if _, err := s.store.GetDancefloorByID(ctx, dancefloorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDancefloorNotFound
		}
		return nil, fmt.Errorf("get dancefloor: %w", err)
	}

	msgs, err := s.store.GetMessagesByDancefloor(ctx, dancefloorID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// AnnounceJoin tells the dancefloor group that a connection joined.
func (s *ChatService) AnnounceJoin(dancefloorID, name string) {
	s.hub.Publish(dancefloorID, broker.KindMessage, fmt.Sprintf("User %s has joined the dancefloor", name))
}

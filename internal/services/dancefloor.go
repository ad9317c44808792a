package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dancefloor/backend/internal/db"
)

// Dancefloor lifecycle states.
const (
	DancefloorActive    = "active"
	DancefloorCompleted = "completed"
)

// DancefloorDetails is a dancefloor with its current queue and chat.
type DancefloorDetails struct {
	Dancefloor db.Dancefloor
	Requests   []db.SongRequest
	Messages   []db.Message
}

// DancefloorService manages the DJ-facing dancefloor lifecycle. A DJ has at
// most one active dancefloor; starting or reactivating one completes the
// previous one in the same transaction.
type DancefloorService struct {
	store   *db.Store
	baseURL string
	now     func() time.Time
}

func NewDancefloorService(store *db.Store, baseURL string) *DancefloorService {
	return &DancefloorService{
		store:   store,
		baseURL: baseURL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// JoinURL is the link attendees open (or scan as a QR code) to join.
func (s *DancefloorService) JoinURL(dancefloorID string) string {
	return s.baseURL + "/dancefloor/" + dancefloorID
}

// Start completes the DJ's active dancefloor, if any, and opens a new one.
func (s *DancefloorService) Start(ctx context.Context, dj Principal) (db.Dancefloor, error) {
	if dj.ID == "" {
		return db.Dancefloor{}, ErrDJRequired
	}

	var df db.Dancefloor
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		now := s.now()
		if _, err := q.CompleteActiveDancefloors(ctx, db.CompleteActiveDancefloorsParams{DjID: dj.ID, EndedAt: now}); err != nil {
			return fmt.Errorf("complete active dancefloor: %w", err)
		}
		created, err := q.CreateDancefloor(ctx, db.CreateDancefloorParams{
			ID:        uuid.NewString(),
			DjID:      dj.ID,
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("create dancefloor: %w", err)
		}
		df = created
		return nil
	})
	if err != nil {
		return db.Dancefloor{}, err
	}

	slog.InfoContext(ctx, "dancefloor started", slog.String("dancefloor_id", df.ID), slog.String("dj_id", dj.ID))
	return df, nil
}

// Stop completes the DJ's active dancefloor.
func (s *DancefloorService) Stop(ctx context.Context, dj Principal) error {
	if dj.ID == "" {
		return ErrDJRequired
	}

	res, err := s.store.CompleteActiveDancefloors(ctx, db.CompleteActiveDancefloorsParams{DjID: dj.ID, EndedAt: s.now()})
	if err != nil {
		return fmt.Errorf("complete active dancefloor: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoActiveDancefloor
	}
	return nil
}

// Reactivate reopens one of the DJ's completed dancefloors.
func (s *DancefloorService) Reactivate(ctx context.Context, dj Principal, dancefloorID string) (db.Dancefloor, error) {
	var df db.Dancefloor
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		if err := authorizeOwner(ctx, q, dj, dancefloorID); err != nil {
			return err
		}
		if _, err := q.CompleteActiveDancefloors(ctx, db.CompleteActiveDancefloorsParams{DjID: dj.ID, EndedAt: s.now()}); err != nil {
			return fmt.Errorf("complete active dancefloor: %w", err)
		}
		if err := q.ReactivateDancefloor(ctx, dancefloorID); err != nil {
			return fmt.Errorf("reactivate dancefloor: %w", err)
		}
		got, err := q.GetDancefloorByID(ctx, dancefloorID)
		if err != nil {
			return fmt.Errorf("get dancefloor: %w", err)
		}
		df = got
		return nil
	})
	return df, err
}

// Delete removes a dancefloor with its requests, votes, and messages.
func (s *DancefloorService) Delete(ctx context.Context, dj Principal, dancefloorID string) error {
	return s.store.ExecTx(ctx, func(q *db.Queries) error {
		if err := authorizeOwner(ctx, q, dj, dancefloorID); err != nil {
			return err
		}
		if _, err := q.DeleteDancefloor(ctx, dancefloorID); err != nil {
			return fmt.Errorf("delete dancefloor: %w", err)
		}
		return nil
	})
}

// Active returns the DJ's active dancefloor.
func (s *DancefloorService) Active(ctx context.Context, dj Principal) (db.Dancefloor, error) {
	df, err := s.store.GetActiveDancefloorByDJ(ctx, dj.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Dancefloor{}, ErrNoActiveDancefloor
	}
	if err != nil {
		return db.Dancefloor{}, fmt.Errorf("get active dancefloor: %w", err)
	}
	return df, nil
}

// Past returns the DJ's completed dancefloors, most recently ended first.
func (s *DancefloorService) Past(ctx context.Context, dj Principal) ([]db.Dancefloor, error) {
	if dj.ID == "" {
		return nil, ErrDJRequired
	}
	past, err := s.store.GetCompletedDancefloorsByDJ(ctx, dj.ID)
	if err != nil {
		return nil, fmt.Errorf("list past dancefloors: %w", err)
	}
	return past, nil
}

// Lookup returns the dancefloor row alone.
func (s *DancefloorService) Lookup(ctx context.Context, dancefloorID string) (db.Dancefloor, error) {
	df, err := s.store.GetDancefloorByID(ctx, dancefloorID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Dancefloor{}, ErrDancefloorNotFound
	}
	if err != nil {
		return db.Dancefloor{}, fmt.Errorf("get dancefloor: %w", err)
	}
	return df, nil
}

// Get returns the dancefloor with its requests (vote order) and messages.
func (s *DancefloorService) Get(ctx context.Context, dancefloorID string) (DancefloorDetails, error) {
	df, err := s.Lookup(ctx, dancefloorID)
	if err != nil {
		return DancefloorDetails{}, err
	}

	requests, err := s.store.GetSongRequestsByVotes(ctx, dancefloorID)
	if err != nil {
		return DancefloorDetails{}, fmt.Errorf("list song requests: %w", err)
	}
	messages, err := s.store.GetMessagesByDancefloor(ctx, dancefloorID)
	if err != nil {
		return DancefloorDetails{}, fmt.Errorf("list messages: %w", err)
	}

	return DancefloorDetails{Dancefloor: df, Requests: requests, Messages: messages}, nil
}

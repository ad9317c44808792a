package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/db"
	"github.com/dancefloor/backend/internal/models"
)

// Status is the lifecycle state of a song request.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

// ParseStatus accepts exactly the four request statuses.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusQueued, StatusPlaying, StatusCompleted, StatusDeclined:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// ListOrder selects how List sorts a dancefloor's requests.
type ListOrder int

const (
	// OrderByVotes sorts most-voted first, oldest first among equal votes.
	OrderByVotes ListOrder = iota
	// OrderByPosition sorts by the DJ's manual order key, oldest first among ties.
	OrderByPosition
)

// ParseListOrder maps the "sort" query value; anything other than "order"
// selects the default vote ordering.
func ParseListOrder(s string) ListOrder {
	if s == "order" {
		return OrderByPosition
	}
	return OrderByVotes
}

// SubmitResult is the created request plus the dancefloor's new request count.
type SubmitResult struct {
	Request       db.SongRequest
	RequestsCount int64
}

// VoteResult is the request's vote count after a successful vote.
type VoteResult struct {
	RequestID    string
	DancefloorID string
	Votes        int64
}

// StatusResult describes an applied status change. Demoted lists requests
// moved from playing back to queued to make room for the target.
type StatusResult struct {
	RequestID    string
	DancefloorID string
	Status       Status
	Demoted      []string
}

// QueueService applies song-request mutations against the store and
// publishes the resulting state to the dancefloor's broadcast group.
// Events are published only after the transaction commits.
type QueueService struct {
	store *db.Store
	hub   broker.Publisher
	now   func() time.Time

	// status changes on one dancefloor commit and publish under the same
	// stripe, so subscribers see them in commit order
	stripes [statusStripes]sync.Mutex
}

const statusStripes = 64

func (s *QueueService) stripe(dancefloorID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(dancefloorID))
	return &s.stripes[h.Sum32()%statusStripes]
}

// NewQueueService creates a QueueService over store, publishing to hub.
func NewQueueService(store *db.Store, hub broker.Publisher) *QueueService {
	return &QueueService{
		store: store,
		hub:   hub,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Submit creates a queued request with zero votes and bumps the dancefloor's
// request counter in the same transaction.
func (s *QueueService) Submit(ctx context.Context, dancefloorID, requesterID, song string) (SubmitResult, error) {
	song = strings.TrimSpace(song)
	if dancefloorID == "" {
		return SubmitResult{}, ErrMissingDancefloor
	}
	if song == "" {
		return SubmitResult{}, ErrEmptySong
	}

	var result SubmitResult
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		count, err := q.IncrementRequestsCount(ctx, dancefloorID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDancefloorNotFound
		}
		if err != nil {
			return fmt.Errorf("increment requests count: %w", err)
		}

		req, err := q.CreateSongRequest(ctx, db.CreateSongRequestParams{
			ID:           uuid.NewString(),
			DancefloorID: dancefloorID,
			UserID:       requesterID,
			Song:         song,
			CreatedAt:    s.now(),
		})
		if err != nil {
			return fmt.Errorf("insert song request: %w", err)
		}

		result = SubmitResult{Request: req, RequestsCount: count}
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	s.hub.Publish(dancefloorID, broker.KindSongRequest, SongRequestToResponse(result.Request))
	s.hub.Publish(dancefloorID, broker.KindRequestsCount, models.RequestsCountEvent{RequestsCount: result.RequestsCount})

	slog.DebugContext(ctx, "song request submitted",
		slog.String("dancefloor_id", dancefloorID),
		slog.String("request_id", result.Request.ID),
	)
	return result, nil
}

// Vote records one vote per (voter, request). A repeat vote by the same
// voter fails with ErrAlreadyVoted and leaves the count unchanged; the
// votes primary key enforces this, so concurrent duplicates cannot both land.
func (s *QueueService) Vote(ctx context.Context, requestID, voterID string) (VoteResult, error) {
	if voterID == "" {
		return VoteResult{}, ErrMissingVoter
	}

	var result VoteResult
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		req, err := q.GetSongRequestByID(ctx, requestID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("get song request: %w", err)
		}

		inserted, err := q.InsertVote(ctx, db.InsertVoteParams{
			VoterID:       voterID,
			SongRequestID: requestID,
			CreatedAt:     s.now(),
		})
		if err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}
		if !inserted {
			return ErrAlreadyVoted
		}

		votes, err := q.IncrementSongRequestVotes(ctx, requestID)
		if err != nil {
			return fmt.Errorf("increment votes: %w", err)
		}

		result = VoteResult{RequestID: requestID, DancefloorID: req.DancefloorID, Votes: votes}
		return nil
	})
	if err != nil {
		return VoteResult{}, err
	}

	s.hub.Publish(result.DancefloorID, broker.KindLikeSongRequest, models.LikeEvent{
		RequestID: requestID,
		Likes:     result.Votes,
	})
	return result, nil
}

// SetStatus moves a request to target. Any status may follow any other.
// Moving a request to playing first demotes whatever else is playing on the
// same dancefloor to queued; the lookup, demotion, and promotion share one
// write transaction, so concurrent plays on a dancefloor are serialized and
// at most one request is ever playing. Only the dancefloor's DJ may do this.
func (s *QueueService) SetStatus(ctx context.Context, actor Principal, requestID, target string) (StatusResult, error) {
	status, err := ParseStatus(target)
	if err != nil {
		return StatusResult{}, err
	}

	// a request never changes dancefloor, so this read picks the stripe
	// before the transaction starts
	pre, err := s.store.GetSongRequestByID(ctx, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return StatusResult{}, ErrRequestNotFound
	}
	if err != nil {
		return StatusResult{}, fmt.Errorf("get song request: %w", err)
	}
	mu := s.stripe(pre.DancefloorID)
	mu.Lock()
	defer mu.Unlock()

	result := StatusResult{RequestID: requestID, Status: status}
	err = s.store.ExecTx(ctx, func(q *db.Queries) error {
		req, err := q.GetSongRequestByID(ctx, requestID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("get song request: %w", err)
		}
		result.DancefloorID = req.DancefloorID

		if err := authorizeOwner(ctx, q, actor, req.DancefloorID); err != nil {
			return err
		}

		if status == StatusPlaying {
			playing, err := q.GetPlayingSongRequestIDs(ctx, db.GetPlayingSongRequestIDsParams{
				DancefloorID: req.DancefloorID,
				ExcludeID:    requestID,
			})
			if err != nil {
				return fmt.Errorf("find playing request: %w", err)
			}
			for _, id := range playing {
				if _, err := q.UpdateSongRequestStatus(ctx, db.UpdateSongRequestStatusParams{
					Status: string(StatusQueued),
					ID:     id,
				}); err != nil {
					return fmt.Errorf("demote playing request: %w", err)
				}
			}
			result.Demoted = playing
		}

		if _, err := q.UpdateSongRequestStatus(ctx, db.UpdateSongRequestStatusParams{
			Status: string(status),
			ID:     requestID,
		}); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return StatusResult{}, err
	}

	for _, id := range result.Demoted {
		s.hub.Publish(result.DancefloorID, broker.KindStatusUpdate, models.StatusUpdateEvent{
			RequestID: id,
			Status:    string(StatusQueued),
		})
	}
	s.hub.Publish(result.DancefloorID, broker.KindStatusUpdate, models.StatusUpdateEvent{
		RequestID: requestID,
		Status:    string(status),
	})

	slog.InfoContext(ctx, "song request status changed",
		slog.String("dancefloor_id", result.DancefloorID),
		slog.String("request_id", requestID),
		slog.String("status", string(status)),
		slog.Int("demoted", len(result.Demoted)),
	)
	return result, nil
}

// Reorder writes each item's order key. Items whose request does not belong
// to dancefloorID are skipped without error. All writes commit together,
// and the broadcast carries only the items that were applied.
func (s *QueueService) Reorder(ctx context.Context, actor Principal, dancefloorID string, items []models.ReorderItem) ([]models.ReorderItem, error) {
	if dancefloorID == "" {
		return nil, ErrMissingDancefloor
	}

	applied := []models.ReorderItem{}
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		if err := authorizeOwner(ctx, q, actor, dancefloorID); err != nil {
			return err
		}

		for _, item := range items {
			res, err := q.UpdateSongRequestPosition(ctx, db.UpdateSongRequestPositionParams{
				Position:     item.NewOrder,
				ID:           item.RequestID,
				DancefloorID: dancefloorID,
			})
			if err != nil {
				return fmt.Errorf("update order of %s: %w", item.RequestID, err)
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				applied = append(applied, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(applied) > 0 {
		s.hub.Publish(dancefloorID, broker.KindReorderSongRequests, models.ReorderEvent{Order: applied})
	}
	return applied, nil
}

// List returns every request of the dancefloor in the given order.
func (s *QueueService) List(ctx context.Context, dancefloorID string, order ListOrder) ([]db.SongRequest, error) {
	if _, err := s.store.GetDancefloorByID(ctx, dancefloorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDancefloorNotFound
		}
		return nil, fmt.Errorf("get dancefloor: %w", err)
	}

	var (
		requests []db.SongRequest
		err      error
	)
	switch order {
	case OrderByPosition:
		requests, err = s.store.GetSongRequestsByPosition(ctx, dancefloorID)
	default:
		requests, err = s.store.GetSongRequestsByVotes(ctx, dancefloorID)
	}
	if err != nil {
		return nil, fmt.Errorf("list song requests: %w", err)
	}
	return requests, nil
}

// authorizeOwner fails unless actor is the DJ who owns dancefloorID.
func authorizeOwner(ctx context.Context, q *db.Queries, actor Principal, dancefloorID string) error {
	if actor.ID == "" {
		return ErrDJRequired
	}
	df, err := q.GetDancefloorByID(ctx, dancefloorID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDancefloorNotFound
	}
	if err != nil {
		return fmt.Errorf("get dancefloor: %w", err)
	}
	if df.DjID != actor.ID {
		return ErrNotOwner
	}
	return nil
}

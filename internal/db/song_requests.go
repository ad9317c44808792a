package db

import (
	"context"
	"database/sql"
	"time"
)

const songRequestColumns = `id, dancefloor_id, user_id, song, votes, status, position, created_at`

func scanSongRequest(row interface{ Scan(...interface{}) error }) (SongRequest, error) {
	var i SongRequest
	err := row.Scan(&i.ID, &i.DancefloorID, &i.UserID, &i.Song, &i.Votes, &i.Status, &i.Position, &i.CreatedAt)
	return i, err
}

func (q *Queries) listSongRequests(ctx context.Context, query string, args ...interface{}) ([]SongRequest, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []SongRequest{}
	for rows.Next() {
		i, err := scanSongRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSongRequest = `INSERT INTO song_requests (id, dancefloor_id, user_id, song, votes, status, position, created_at)
VALUES (?, ?, ?, ?, 0, 'queued', 0, ?)`

type CreateSongRequestParams struct {
	ID           string
	DancefloorID string
	UserID       string
	Song         string
	CreatedAt    time.Time
}

func (q *Queries) CreateSongRequest(ctx context.Context, arg CreateSongRequestParams) (SongRequest, error) {
	_, err := q.db.ExecContext(ctx, createSongRequest, arg.ID, arg.DancefloorID, arg.UserID, arg.Song, arg.CreatedAt)
	if err != nil {
		return SongRequest{}, err
	}
	return SongRequest{
		ID:           arg.ID,
		DancefloorID: arg.DancefloorID,
		UserID:       arg.UserID,
		Song:         arg.Song,
		Status:       "queued",
		CreatedAt:    arg.CreatedAt,
	}, nil
}

const getSongRequestByID = `SELECT ` + songRequestColumns + ` FROM song_requests WHERE id = ?`

func (q *Queries) GetSongRequestByID(ctx context.Context, id string) (SongRequest, error) {
	return scanSongRequest(q.db.QueryRowContext(ctx, getSongRequestByID, id))
}

// rowid breaks ties between requests created within the same clock tick.
const getSongRequestsByVotes = `SELECT ` + songRequestColumns + ` FROM song_requests
WHERE dancefloor_id = ?
ORDER BY votes DESC, created_at ASC, rowid ASC`

func (q *Queries) GetSongRequestsByVotes(ctx context.Context, dancefloorID string) ([]SongRequest, error) {
	return q.listSongRequests(ctx, getSongRequestsByVotes, dancefloorID)
}

const getSongRequestsByPosition = `SELECT ` + songRequestColumns + ` FROM song_requests
WHERE dancefloor_id = ?
ORDER BY position ASC, created_at ASC, rowid ASC`

func (q *Queries) GetSongRequestsByPosition(ctx context.Context, dancefloorID string) ([]SongRequest, error) {
	return q.listSongRequests(ctx, getSongRequestsByPosition, dancefloorID)
}

const getPlayingSongRequestIDs = `SELECT id FROM song_requests WHERE dancefloor_id = ? AND status = 'playing' AND id <> ?`

type GetPlayingSongRequestIDsParams struct {
	DancefloorID string
	ExcludeID    string
}

// GetPlayingSongRequestIDs lists requests of a dancefloor currently playing,
// other than ExcludeID.
func (q *Queries) GetPlayingSongRequestIDs(ctx context.Context, arg GetPlayingSongRequestIDsParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getPlayingSongRequestIDs, arg.DancefloorID, arg.ExcludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const countPlayingSongRequests = `SELECT COUNT(*) FROM song_requests WHERE dancefloor_id = ? AND status = 'playing'`

func (q *Queries) CountPlayingSongRequests(ctx context.Context, dancefloorID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPlayingSongRequests, dancefloorID).Scan(&count)
	return count, err
}

const updateSongRequestStatus = `UPDATE song_requests SET status = ? WHERE id = ?`

type UpdateSongRequestStatusParams struct {
	Status string
	ID     string
}

func (q *Queries) UpdateSongRequestStatus(ctx context.Context, arg UpdateSongRequestStatusParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, updateSongRequestStatus, arg.Status, arg.ID)
}

const updateSongRequestPosition = `UPDATE song_requests SET position = ? WHERE id = ? AND dancefloor_id = ?`

type UpdateSongRequestPositionParams struct {
	Position     int64
	ID           string
	DancefloorID string
}

// UpdateSongRequestPosition is a no-op for ids outside DancefloorID.
func (q *Queries) UpdateSongRequestPosition(ctx context.Context, arg UpdateSongRequestPositionParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, updateSongRequestPosition, arg.Position, arg.ID, arg.DancefloorID)
}

const incrementSongRequestVotes = `UPDATE song_requests SET votes = votes + 1 WHERE id = ? RETURNING votes`

// IncrementSongRequestVotes returns sql.ErrNoRows when the request does not exist.
func (q *Queries) IncrementSongRequestVotes(ctx context.Context, id string) (int64, error) {
	var votes int64
	err := q.db.QueryRowContext(ctx, incrementSongRequestVotes, id).Scan(&votes)
	return votes, err
}

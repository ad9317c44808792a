package db

import (
	"context"
	"time"
)

const insertVote = `INSERT INTO votes (voter_id, song_request_id, created_at) VALUES (?, ?, ?)
ON CONFLICT (voter_id, song_request_id) DO NOTHING`

type InsertVoteParams struct {
	VoterID       string
	SongRequestID string
	CreatedAt     time.Time
}

// InsertVote reports whether a new row was written. false means the voter
// already voted for the request; the primary key decides, not a prior read.
func (q *Queries) InsertVote(ctx context.Context, arg InsertVoteParams) (bool, error) {
	res, err := q.db.ExecContext(ctx, insertVote, arg.VoterID, arg.SongRequestID, arg.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

const countVotes = `SELECT COUNT(*) FROM votes WHERE song_request_id = ?`

func (q *Queries) CountVotes(ctx context.Context, songRequestID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countVotes, songRequestID).Scan(&count)
	return count, err
}

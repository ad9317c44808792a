package db

import (
	"context"
	"database/sql"
	"time"
)

const dancefloorColumns = `id, dj_id, status, requests_count, messages_count, created_at, ended_at`

func scanDancefloor(row interface{ Scan(...interface{}) error }) (Dancefloor, error) {
	var i Dancefloor
	err := row.Scan(&i.ID, &i.DjID, &i.Status, &i.RequestsCount, &i.MessagesCount, &i.CreatedAt, &i.EndedAt)
	return i, err
}

const createDancefloor = `INSERT INTO dancefloors (id, dj_id, status, created_at) VALUES (?, ?, 'active', ?)`

type CreateDancefloorParams struct {
	ID        string
	DjID      string
	CreatedAt time.Time
}

func (q *Queries) CreateDancefloor(ctx context.Context, arg CreateDancefloorParams) (Dancefloor, error) {
	_, err := q.db.ExecContext(ctx, createDancefloor, arg.ID, arg.DjID, arg.CreatedAt)
	if err != nil {
		return Dancefloor{}, err
	}
	return Dancefloor{ID: arg.ID, DjID: arg.DjID, Status: "active", CreatedAt: arg.CreatedAt}, nil
}

const getDancefloorByID = `SELECT ` + dancefloorColumns + ` FROM dancefloors WHERE id = ?`

func (q *Queries) GetDancefloorByID(ctx context.Context, id string) (Dancefloor, error) {
	return scanDancefloor(q.db.QueryRowContext(ctx, getDancefloorByID, id))
}

const getActiveDancefloorByDJ = `SELECT ` + dancefloorColumns + ` FROM dancefloors WHERE dj_id = ? AND status = 'active'`

func (q *Queries) GetActiveDancefloorByDJ(ctx context.Context, djID string) (Dancefloor, error) {
	return scanDancefloor(q.db.QueryRowContext(ctx, getActiveDancefloorByDJ, djID))
}

const completeActiveDancefloors = `UPDATE dancefloors SET status = 'completed', ended_at = ? WHERE dj_id = ? AND status = 'active'`

type CompleteActiveDancefloorsParams struct {
	DjID    string
	EndedAt time.Time
}

func (q *Queries) CompleteActiveDancefloors(ctx context.Context, arg CompleteActiveDancefloorsParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, completeActiveDancefloors, arg.EndedAt, arg.DjID)
}

const reactivateDancefloor = `UPDATE dancefloors SET status = 'active', ended_at = NULL WHERE id = ?`

func (q *Queries) ReactivateDancefloor(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, reactivateDancefloor, id)
	return err
}

const deleteDancefloor = `DELETE FROM dancefloors WHERE id = ?`

func (q *Queries) DeleteDancefloor(ctx context.Context, id string) (sql.Result, error) {
	return q.db.ExecContext(ctx, deleteDancefloor, id)
}

const incrementRequestsCount = `UPDATE dancefloors SET requests_count = requests_count + 1 WHERE id = ? RETURNING requests_count`

// IncrementRequestsCount returns sql.ErrNoRows when the dancefloor does not exist.
func (q *Queries) IncrementRequestsCount(ctx context.Context, id string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, incrementRequestsCount, id).Scan(&count)
	return count, err
}

const incrementMessagesCount = `UPDATE dancefloors SET messages_count = messages_count + 1 WHERE id = ? RETURNING messages_count`

// IncrementMessagesCount returns sql.ErrNoRows when the dancefloor does not exist.
func (q *Queries) IncrementMessagesCount(ctx context.Context, id string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, incrementMessagesCount, id).Scan(&count)
	return count, err
}

const getCompletedDancefloorsByDJ = `SELECT ` + dancefloorColumns + ` FROM dancefloors WHERE dj_id = ? AND status = 'completed' ORDER BY ended_at DESC`

func (q *Queries) GetCompletedDancefloorsByDJ(ctx context.Context, djID string) ([]Dancefloor, error) {
	rows, err := q.db.QueryContext(ctx, getCompletedDancefloorsByDJ, djID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Dancefloor
	for rows.Next() {
		i, err := scanDancefloor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

package db

import (
	"context"
	"database/sql"
	"time"
)

const createMessage = `INSERT INTO messages (dancefloor_id, message, author_id, created_at) VALUES (?, ?, ?, ?)`

type CreateMessageParams struct {
	DancefloorID string
	Message      string
	AuthorID     sql.NullString
	CreatedAt    time.Time
}

func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	res, err := q.db.ExecContext(ctx, createMessage, arg.DancefloorID, arg.Message, arg.AuthorID, arg.CreatedAt)
	if err != nil {
		return Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:           id,
		DancefloorID: arg.DancefloorID,
		Message:      arg.Message,
		AuthorID:     arg.AuthorID,
		CreatedAt:    arg.CreatedAt,
	}, nil
}

const getMessagesByDancefloor = `SELECT id, dancefloor_id, message, author_id, created_at FROM messages
WHERE dancefloor_id = ?
ORDER BY created_at ASC, id ASC`

func (q *Queries) GetMessagesByDancefloor(ctx context.Context, dancefloorID string) ([]Message, error) {
	rows, err := q.db.QueryContext(ctx, getMessagesByDancefloor, dancefloorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Message{}
	for rows.Next() {
		var i Message
		if err := rows.Scan(&i.ID, &i.DancefloorID, &i.Message, &i.AuthorID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

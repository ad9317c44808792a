package db

import (
	"context"
	"database/sql"
	"time"
)

const djColumns = `id, name, email, password_hash, created_at, bio, website, instagram_handle, twitter_handle, venmo_handle, cashapp_handle`

func scanDJ(row interface{ Scan(...interface{}) error }) (DJ, error) {
	var i DJ
	err := row.Scan(
		&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.CreatedAt,
		&i.Bio, &i.Website, &i.InstagramHandle, &i.TwitterHandle, &i.VenmoHandle, &i.CashappHandle,
	)
	return i, err
}

const createDJ = `INSERT INTO djs (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`

type CreateDJParams struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (q *Queries) CreateDJ(ctx context.Context, arg CreateDJParams) (DJ, error) {
	_, err := q.db.ExecContext(ctx, createDJ, arg.ID, arg.Name, arg.Email, arg.PasswordHash, arg.CreatedAt)
	if err != nil {
		return DJ{}, err
	}
	return DJ{
		ID:           arg.ID,
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    arg.CreatedAt,
	}, nil
}

const getDJByEmail = `SELECT ` + djColumns + ` FROM djs WHERE email = ?`

func (q *Queries) GetDJByEmail(ctx context.Context, email string) (DJ, error) {
	return scanDJ(q.db.QueryRowContext(ctx, getDJByEmail, email))
}

const getDJByID = `SELECT ` + djColumns + ` FROM djs WHERE id = ?`

func (q *Queries) GetDJByID(ctx context.Context, id string) (DJ, error) {
	return scanDJ(q.db.QueryRowContext(ctx, getDJByID, id))
}

const djEmailExists = `SELECT COUNT(*) FROM djs WHERE email = ?`

func (q *Queries) DJEmailExists(ctx context.Context, email string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, djEmailExists, email).Scan(&count)
	return count, err
}

const updateDJProfile = `UPDATE djs
SET name = ?, bio = ?, website = ?, instagram_handle = ?, twitter_handle = ?, venmo_handle = ?, cashapp_handle = ?
WHERE id = ?
RETURNING ` + djColumns

type UpdateDJProfileParams struct {
	ID   string
	Name string
	DJProfile
}

// UpdateDJProfile returns sql.ErrNoRows when the DJ does not exist.
func (q *Queries) UpdateDJProfile(ctx context.Context, arg UpdateDJProfileParams) (DJ, error) {
	return scanDJ(q.db.QueryRowContext(ctx, updateDJProfile,
		arg.Name, arg.Bio, arg.Website, arg.InstagramHandle, arg.TwitterHandle, arg.VenmoHandle, arg.CashappHandle,
		arg.ID,
	))
}

const deleteDJ = `DELETE FROM djs WHERE id = ?`

// DeleteDJ removes the DJ; dancefloors and everything under them go with it
// through ON DELETE CASCADE.
func (q *Queries) DeleteDJ(ctx context.Context, id string) (sql.Result, error) {
	return q.db.ExecContext(ctx, deleteDJ, id)
}

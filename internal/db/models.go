package db

import (
	"database/sql"
	"time"
)

type DJ struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	DJProfile
}

// DJProfile is the public part of a DJ row.
type DJProfile struct {
	Bio             string
	Website         string
	InstagramHandle string
	TwitterHandle   string
	VenmoHandle     string
	CashappHandle   string
}

type Dancefloor struct {
	ID            string
	DjID          string
	Status        string
	RequestsCount int64
	MessagesCount int64
	CreatedAt     time.Time
	EndedAt       sql.NullTime
}

type SongRequest struct {
	ID           string
	DancefloorID string
	UserID       string
	Song         string
	Votes        int64
	Status       string
	Position     int64
	CreatedAt    time.Time
}

type Message struct {
	ID           int64
	DancefloorID string
	Message      string
	AuthorID     sql.NullString
	CreatedAt    time.Time
}

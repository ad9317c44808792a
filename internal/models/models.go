package models

import "time"

// Accounts
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DJResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DJProfileFields are the public profile fields of a DJ account.
type DJProfileFields struct {
	Bio             string `json:"bio"`
	Website         string `json:"website"`
	InstagramHandle string `json:"instagramHandle"`
	TwitterHandle   string `json:"twitterHandle"`
	VenmoHandle     string `json:"venmoHandle"`
	CashappHandle   string `json:"cashappHandle"`
}

// AccountResponse is the caller's own account.
type AccountResponse struct {
	DJResponse
	DJProfileFields
	CreatedAt time.Time `json:"createdAt"`
}

// DJInfoResponse is what attendees see of a DJ. DancefloorID and JoinURL
// are set while the DJ is live.
type DJInfoResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	DJProfileFields
	IsActive     bool    `json:"isActive"`
	DancefloorID *string `json:"dancefloorId"`
	JoinURL      string  `json:"joinUrl,omitempty"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
	DJProfileFields
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	DJ    DJResponse `json:"dj"`
}

// Dancefloors
type StartDancefloorResponse struct {
	DancefloorID string `json:"dancefloorId"`
	JoinURL      string `json:"joinUrl"`
}

type DancefloorResponse struct {
	ID            string     `json:"id"`
	DJID          string     `json:"djId"`
	Status        string     `json:"status"`
	RequestsCount int64      `json:"requestsCount"`
	MessagesCount int64      `json:"messagesCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	JoinURL       string     `json:"joinUrl"`
}

type DancefloorDetailsResponse struct {
	DancefloorResponse
	SongRequests []SongRequestResponse `json:"songRequests"`
	Messages     []MessageResponse     `json:"messages"`
}

// Song requests
type SubmitSongRequestRequest struct {
	Song        string `json:"song"`
	RequesterID string `json:"requesterId,omitempty"`
}

// SongRequestResponse is both the HTTP representation and the songRequest
// event payload. Likes mirrors Votes for clients that use the like wording.
type SongRequestResponse struct {
	ID           string    `json:"id"`
	DancefloorID string    `json:"dancefloorId"`
	UserID       string    `json:"userId,omitempty"`
	Song         string    `json:"song"`
	Votes        int64     `json:"votes"`
	Likes        int64     `json:"likes"`
	Status       string    `json:"status"`
	Order        int64     `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type VoteRequest struct {
	VoterID string `json:"voterId"`
}

type VoteResponse struct {
	Message string `json:"message"`
	Votes   int64  `json:"votes"`
}

type LikeResponse struct {
	Message string `json:"message"`
	Likes   int64  `json:"likes"`
}

type ReorderItem struct {
	RequestID string `json:"requestId"`
	NewOrder  int64  `json:"newOrder"`
}

type ReorderRequest struct {
	Order []ReorderItem `json:"order"`
}

// Messages
type SendMessageRequest struct {
	Message  string `json:"message"`
	AuthorID string `json:"authorId,omitempty"`
}

type MessageResponse struct {
	ID           int64     `json:"id"`
	DancefloorID string    `json:"dancefloorId"`
	Message      string    `json:"message"`
	AuthorID     *string   `json:"authorId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Event payloads
type StatusUpdateEvent struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

type RequestsCountEvent struct {
	RequestsCount int64 `json:"requestsCount"`
}

type MessagesCountEvent struct {
	MessagesCount int64 `json:"messagesCount"`
}

type LikeEvent struct {
	RequestID string `json:"requestId"`
	Likes     int64  `json:"likes"`
}

type ReorderEvent struct {
	Order []ReorderItem `json:"order"`
}

// Generic acknowledgement
type MessageAck struct {
	Message string `json:"message"`
}

// Error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

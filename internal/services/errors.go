package services

import "errors"

// Error kinds. Use errors.Is against these to classify a service error.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
)

// Error is a client-facing failure. Message is safe to return to callers;
// anything that is not an *Error is treated as an internal store failure.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrInvalidStatus      = &Error{Kind: ErrInvalidArgument, Message: "Invalid status value."}
	ErrEmptySong          = &Error{Kind: ErrInvalidArgument, Message: "Song is required."}
	ErrEmptyMessage       = &Error{Kind: ErrInvalidArgument, Message: "Message is required."}
	ErrMessageTooLong     = &Error{Kind: ErrInvalidArgument, Message: "Message exceeds maximum length of 300 characters."}
	ErrMissingVoter       = &Error{Kind: ErrInvalidArgument, Message: "Voter id is required."}
	ErrMissingFields      = &Error{Kind: ErrInvalidArgument, Message: "Name, email, and password are required."}
	ErrWeakPassword       = &Error{Kind: ErrInvalidArgument, Message: "Password must be at least 8 characters."}
	ErrPasswordTooLong    = &Error{Kind: ErrInvalidArgument, Message: "Password must be at most 72 bytes."}
	ErrMissingName        = &Error{Kind: ErrInvalidArgument, Message: "Name is required."}
	ErrMissingPassword    = &Error{Kind: ErrInvalidArgument, Message: "Password is required."}
	ErrMissingDancefloor  = &Error{Kind: ErrInvalidArgument, Message: "Dancefloor id is required."}
	ErrRequestNotFound    = &Error{Kind: ErrNotFound, Message: "Song request not found."}
	ErrDancefloorNotFound = &Error{Kind: ErrNotFound, Message: "Dancefloor not found."}
	ErrDJNotFound         = &Error{Kind: ErrNotFound, Message: "DJ not found."}
	ErrNoActiveDancefloor = &Error{Kind: ErrNotFound, Message: "No active dancefloor."}
	ErrAlreadyVoted       = &Error{Kind: ErrConflict, Message: "You have already voted for this song request."}
	ErrEmailTaken         = &Error{Kind: ErrConflict, Message: "Email is already registered."}
	ErrBadCredentials     = &Error{Kind: ErrUnauthorized, Message: "Invalid email or password."}
	ErrWrongPassword      = &Error{Kind: ErrUnauthorized, Message: "Incorrect password."}
	ErrDJRequired         = &Error{Kind: ErrUnauthorized, Message: "DJ authentication required."}
	ErrNotOwner           = &Error{Kind: ErrForbidden, Message: "Dancefloor belongs to another DJ."}
)

// ClientMessage returns the message to show a caller for err, or fallback
// when err carries internal detail.
func ClientMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}

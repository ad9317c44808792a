package websocket

import (
	"encoding/json"

	"github.com/dancefloor/backend/internal/models"
)

// Inbound event names.
const (
	eventJoinDancefloor  = "joinDancefloor"
	eventSongRequest     = "songRequest"
	eventSendMessage     = "sendMessage"
	eventStatusUpdate    = "statusUpdate"
	eventLikeSongRequest = "likeSongRequest"
	eventReorder         = "reorderSongRequests"
)

// Error events, sent only to the connection that caused them.
const (
	errorJoin        = "joinError"
	errorSongRequest = "songRequestError"
	errorMessage     = "messageError"
	errorStatus      = "statusUpdateError"
	errorLike        = "likeError"
	errorReorder     = "reorderError"
)

// inboundFrame is a client event. Data is decoded per event name.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type joinPayload struct {
	DancefloorID string `json:"dancefloorId"`
}

type songRequestPayload struct {
	DancefloorID string `json:"dancefloorId"`
	Song         string `json:"song"`
}

type sendMessagePayload struct {
	DancefloorID string `json:"dancefloorId"`
	Message      string `json:"message"`
	AuthorID     string `json:"authorId"`
	DJID         string `json:"djId"`
}

// statusUpdatePayload carries dancefloorId for compatibility; the dancefloor
// is always taken from the stored request.
type statusUpdatePayload struct {
	RequestID    string `json:"requestId"`
	Status       string `json:"status"`
	DancefloorID string `json:"dancefloorId"`
}

type likePayload struct {
	RequestID    string `json:"requestId"`
	DancefloorID string `json:"dancefloorId"`
}

type reorderPayload struct {
	DancefloorID string               `json:"dancefloorId"`
	Order        []models.ReorderItem `json:"order"`
}

// decodeJoin accepts either a bare dancefloor id string or {dancefloorId}.
func decodeJoin(data json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id, nil
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", err
	}
	return p.DancefloorID, nil
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/middleware"
	"github.com/dancefloor/backend/internal/models"
	"github.com/dancefloor/backend/internal/services"
)

// RequestHandler is the synchronous ingress to the song request queue.
type RequestHandler struct {
	queue *services.QueueService
}

func NewRequestHandler(queue *services.QueueService) *RequestHandler {
	return &RequestHandler{queue: queue}
}

// List returns the dancefloor's requests, by votes or by the DJ's order
// when ?sort=order.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	requests, err := h.queue.List(ctx, id, services.ParseListOrder(r.URL.Query().Get("sort")))
	if err != nil {
		writeServiceError(ctx, w, err, "failed to fetch song requests")
		return
	}

	writeJSON(w, http.StatusOK, services.SongRequestsToResponse(requests))
}

func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	var req models.SubmitSongRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	requester := req.RequesterID
	if requester == "" {
		requester = middleware.GetPrincipal(ctx).ID
	}

	res, err := h.queue.Submit(ctx, id, requester, req.Song)
	if err != nil {
		writeServiceError(ctx, w, err, "failed to create song request")
		return
	}

	writeJSON(w, http.StatusCreated, services.SongRequestToResponse(res.Request))
}

// UpdateStatus applies the status named in the body.
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.setStatus(w, r, req.Status)
}

// StatusAction returns a handler that applies a fixed status, for the
// play/complete/decline shortcuts.
func (h *RequestHandler) StatusAction(status services.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.setStatus(w, r, string(status))
	}
}

func (h *RequestHandler) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	ctx := r.Context()
	res, err := h.queue.SetStatus(ctx, middleware.GetPrincipal(ctx), chi.URLParam(r, "rid"), status)
	if err != nil {
		writeServiceError(ctx, w, err, "failed to update song status")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageAck{Message: "Song request marked as " + string(res.Status) + "."})
}

// voterID prefers the explicit voterId in the body, then the DJ's id, then
// the client address. The body id is client-asserted.
func voterID(r *http.Request, req models.VoteRequest) string {
	if req.VoterID != "" {
		return req.VoterID
	}
	if id := middleware.GetPrincipal(r.Context()).ID; id != "" {
		return id
	}
	if ip := logging.ExtractClientIP(r); ip != "" {
		return "ip:" + ip
	}
	return ""
}

func (h *RequestHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	res, err := h.queue.Vote(r.Context(), chi.URLParam(r, "rid"), voterID(r, req))
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to vote")
		return
	}
	writeJSON(w, http.StatusOK, models.VoteResponse{Message: "Vote recorded.", Votes: res.Votes})
}

// Like is Vote with the like wording in the response.
func (h *RequestHandler) Like(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	res, err := h.queue.Vote(r.Context(), chi.URLParam(r, "rid"), voterID(r, req))
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to like song request")
		return
	}
	writeJSON(w, http.StatusOK, models.LikeResponse{Message: "Like added successfully.", Likes: res.Votes})
}

func (h *RequestHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	var req models.ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.queue.Reorder(ctx, middleware.GetPrincipal(ctx), id, req.Order); err != nil {
		writeServiceError(ctx, w, err, "failed to reorder song requests")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageAck{Message: "Song requests reordered successfully."})
}

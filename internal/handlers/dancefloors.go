package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/middleware"
	"github.com/dancefloor/backend/internal/models"
	"github.com/dancefloor/backend/internal/services"
)

// DancefloorHandler exposes the DJ-facing dancefloor lifecycle.
type DancefloorHandler struct {
	dancefloors *services.DancefloorService
}

func NewDancefloorHandler(dancefloors *services.DancefloorService) *DancefloorHandler {
	return &DancefloorHandler{dancefloors: dancefloors}
}

// Start completes the caller's active dancefloor and opens a new one.
func (h *DancefloorHandler) Start(w http.ResponseWriter, r *http.Request) {
	df, err := h.dancefloors.Start(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to start dancefloor")
		return
	}

	writeJSON(w, http.StatusCreated, models.StartDancefloorResponse{
		DancefloorID: df.ID,
		JoinURL:      h.dancefloors.JoinURL(df.ID),
	})
}

func (h *DancefloorHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.dancefloors.Stop(r.Context(), middleware.GetPrincipal(r.Context())); err != nil {
		writeServiceError(r.Context(), w, err, "failed to stop dancefloor")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageAck{Message: "Dancefloor stopped."})
}

func (h *DancefloorHandler) Active(w http.ResponseWriter, r *http.Request) {
	df, err := h.dancefloors.Active(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to fetch active dancefloor")
		return
	}
	writeJSON(w, http.StatusOK, services.DancefloorToResponse(df, h.dancefloors.JoinURL(df.ID)))
}

// Past lists the caller's completed dancefloors, most recently ended first.
func (h *DancefloorHandler) Past(w http.ResponseWriter, r *http.Request) {
	past, err := h.dancefloors.Past(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to fetch past dancefloors")
		return
	}

	out := make([]models.DancefloorResponse, len(past))
	for i, df := range past {
		out[i] = services.DancefloorToResponse(df, h.dancefloors.JoinURL(df.ID))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns the dancefloor with its queue in vote order and its chat.
func (h *DancefloorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	details, err := h.dancefloors.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err, "failed to fetch dancefloor")
		return
	}

	writeJSON(w, http.StatusOK, models.DancefloorDetailsResponse{
		DancefloorResponse: services.DancefloorToResponse(details.Dancefloor, h.dancefloors.JoinURL(id)),
		SongRequests:       services.SongRequestsToResponse(details.Requests),
		Messages:           services.MessagesToResponse(details.Messages),
	})
}

func (h *DancefloorHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	df, err := h.dancefloors.Reactivate(ctx, middleware.GetPrincipal(ctx), id)
	if err != nil {
		writeServiceError(ctx, w, err, "failed to reactivate dancefloor")
		return
	}
	writeJSON(w, http.StatusOK, services.DancefloorToResponse(df, h.dancefloors.JoinURL(df.ID)))
}

func (h *DancefloorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	if err := h.dancefloors.Delete(ctx, middleware.GetPrincipal(ctx), id); err != nil {
		writeServiceError(ctx, w, err, "failed to delete dancefloor")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageAck{Message: "Dancefloor deleted."})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dancefloor/backend/internal/services"
)

// DJHandler serves the public DJ profile attendees land on.
type DJHandler struct {
	accounts    *services.AccountService
	dancefloors *services.DancefloorService
}

func NewDJHandler(accounts *services.AccountService, dancefloors *services.DancefloorService) *DJHandler {
	return &DJHandler{accounts: accounts, dancefloors: dancefloors}
}

// Info returns the DJ's profile and whether they are live.
func (h *DJHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.accounts.Info(r.Context(), chi.URLParam(r, "djId"))
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to fetch dj")
		return
	}
	writeJSON(w, http.StatusOK, services.DJInfoToResponse(info, h.dancefloors.JoinURL))
}

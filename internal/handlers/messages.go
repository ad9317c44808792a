package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/models"
	"github.com/dancefloor/backend/internal/services"
)

type MessageHandler struct {
	chat *services.ChatService
}

func NewMessageHandler(chat *services.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	msgs, err := h.chat.List(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err, "failed to fetch messages")
		return
	}
	writeJSON(w, http.StatusOK, services.MessagesToResponse(msgs))
}

func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	var req models.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.chat.Post(ctx, id, req.Message, req.AuthorID)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to send message.")
		return
	}
	writeJSON(w, http.StatusCreated, services.MessageToResponse(res.Message))
}

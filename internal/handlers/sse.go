package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/services"
)

const sseHeartbeat = 30 * time.Second

// SSEHandler serves a read-only Server-Sent Events view of a dancefloor's
// broadcast group.
type SSEHandler struct {
	broker      *broker.Broker
	dancefloors *services.DancefloorService
	heartbeat   time.Duration
}

// NewSSEHandler creates an SSEHandler backed by the given broker.
func NewSSEHandler(b *broker.Broker, dancefloors *services.DancefloorService) *SSEHandler {
	return &SSEHandler{broker: b, dancefloors: dancefloors, heartbeat: sseHeartbeat}
}

// Stream sends an initial "connected" event, then every hub event published
// for the dancefloor, named by its kind. A heartbeat comment keeps the
// connection alive through proxies. The stream ends when the client goes
// away or the hub drops it for falling behind.
func (h *SSEHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithDancefloor(r.Context(), id)

	if _, err := h.dancefloors.Lookup(ctx, id); err != nil {
		writeServiceError(ctx, w, err, "failed to fetch dancefloor")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sub := h.broker.Subscribe("sse-" + uuid.NewString())
	defer h.broker.Close(sub)
	if err := h.broker.Join(sub, id); err != nil {
		writeErrorWithCause(ctx, w, http.StatusInternalServerError, "failed to subscribe", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: connected\ndata: ok\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				slog.WarnContext(ctx, "event stream dropped", logging.RequestFields(ctx)...)
				return
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				slog.ErrorContext(ctx, "failed to encode event", slog.String("event", ev.Kind), slog.Any("error", err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
